package commands

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"uniformgen/internal/bootstrap"
	"uniformgen/internal/pipeline"
)

func newGenerateCmd() *cobra.Command {
	var (
		flags   designFlags
		backend string
		outPath string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one uniform image and store it like the API would",
		Example: `  uniformctl generate -k "빨간 호랑이" -s short_sleeve --name kim --number 7
  uniformctl generate -k "blue wolf" --backend synthetic -o wolf.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request()
			if err != nil {
				return err
			}
			cfg, logger, err := loadEnv(backend)
			if err != nil {
				return err
			}
			stack, err := bootstrap.NewStack(cfg, logger, pipeline.Options{})
			if err != nil {
				return err
			}

			req.RequestID = uuid.NewString()
			res, err := stack.Pipeline.Generate(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printOK(out, "%s", res.Message)
			printField(out, "url", res.ImageURL)
			printField(out, "key", res.StorageKey)
			printField(out, "model", res.ModelRef)
			printField(out, "view", res.View.String())
			printField(out, "size", fmt.Sprintf("%dx%d", res.Width, res.Height))

			if outPath != "" {
				data, err := stack.Store.Read(cmd.Context(), res.StorageKey)
				if err != nil {
					return err
				}
				if err := os.WriteFile(outPath, data, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", outPath, err)
				}
				printField(out, "copied", outPath)
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&backend, "backend", "", "override IMAGE_BACKEND (replicate|synthetic)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "also copy the image to this path")
	return cmd
}
