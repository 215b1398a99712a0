package main

import (
	"context"

	"github.com/foogaro/kinexis/pkg/ajan/processfx"
	"github.com/spf13/cobra"
)

func cmdServe() *cobra.Command {
	return &cobra.Command{ //nolint:exhaustruct
		Use:   "serve",
		Short: "Runs the caching pipeline's workers until an OS signal is received",
		RunE: func(cmd *cobra.Command, args []string) error {
			return execServe(cmd.Context())
		},
	}
}

func execServe(ctx context.Context) error {
	app := NewAppContext()

	if err := app.Init(ctx); err != nil {
		return err
	}

	proc := processfx.New(ctx, app.Logger)

	if err := RunEmployerPipeline(proc, app); err != nil {
		return err
	}

	app.Logger.InfoContext(ctx, "kinexis: workers started", "entity", employerEntity)

	proc.Wait()
	proc.Shutdown()

	return nil
}
