package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"uniformgen/internal/bootstrap"
	"uniformgen/internal/domain"
	"uniformgen/internal/infra"
	imageprov "uniformgen/internal/providers/image"
)

type probeResult struct {
	candidate string
	ref       imageprov.ModelRef
	err       error
}

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "Probe every candidate model and report which ones resolve to a version",
		Long: `models resolves each configured candidate against the Replicate API in parallel
and marks the one the server would pick: the first candidate, in order, that resolves.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadEnv(infra.BackendReplicate)
			if err != nil {
				return err
			}
			backendCfg, err := infra.LoadBackendConfig(cfg.BackendConfigPath)
			if err != nil {
				return err
			}
			backend, err := bootstrap.NewBackend(cfg, backendCfg, logger)
			if err != nil {
				return err
			}

			candidates := backend.Candidates()
			results := make([]probeResult, len(candidates))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(4)
			for i, id := range candidates {
				g.Go(func() error {
					ref, err := imageprov.ResolveVersionedRef(ctx, backend.Client, id)
					results[i] = probeResult{candidate: id, ref: ref, err: err}
					return nil
				})
			}
			_ = g.Wait()

			out := cmd.OutOrStdout()
			selected := -1
			for i, res := range results {
				if res.err != nil {
					printFail(out, "%s: %v", res.candidate, res.err)
					continue
				}
				if selected < 0 {
					selected = i
				}
				printOK(out, "%s", res.ref)
			}
			if selected < 0 {
				return fmt.Errorf("%w: none of %d candidates resolved", domain.ErrNoUsableModel, len(candidates))
			}
			faint.Fprintf(out, "\nselected: %s\n", results[selected].ref)
			return nil
		},
	}
}
