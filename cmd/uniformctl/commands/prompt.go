package commands

import (
	"github.com/spf13/cobra"

	"uniformgen/internal/designer"
	"uniformgen/internal/domain"
)

func newPromptCmd() *cobra.Command {
	var flags designFlags
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the compiled prompt, negative prompt and view for a design",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request()
			if err != nil {
				return err
			}
			plan := designer.NewPlan(req.WithDefaults(domain.InferenceParams{}))
			out := cmd.OutOrStdout()
			printField(out, "view", plan.View.String())
			printField(out, "color", orNone(plan.Theme.PrimaryColor+"/"+plan.Theme.AccentColor, plan.Theme.PrimaryColor == ""))
			printField(out, "mascot", orNone(plan.Theme.MascotPhrase, plan.Theme.MascotPhrase == ""))
			printField(out, "prompt", plan.Prompt.Positive)
			printField(out, "negative", plan.Prompt.Negative)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func orNone(v string, none bool) string {
	if none {
		return "-"
	}
	return v
}
