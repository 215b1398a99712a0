package main

import (
	"context"
	"fmt"

	"github.com/foogaro/kinexis/pkg/kinexis"
	"github.com/spf13/cobra"
)

const defaultDLQListCount = 50

func cmdDLQ() *cobra.Command {
	dlqCmd := &cobra.Command{Use: "dlq", Short: "Operates on an entity's dead-letter stream"} //nolint:exhaustruct

	dlqCmd.AddCommand(cmdDLQList())

	return dlqCmd
}

func cmdDLQList() *cobra.Command {
	return &cobra.Command{ //nolint:exhaustruct
		Use:   "list <entity>",
		Short: "Lists dead-letter entries for an entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return execDLQList(cmd.Context(), args[0])
		},
	}
}

func execDLQList(ctx context.Context, entityName string) error {
	app := NewAppContext()

	if err := app.Init(ctx); err != nil {
		return err
	}

	redisAdapter, err := app.RedisAdapter()
	if err != nil {
		return fmt.Errorf("dlq list: %w", err)
	}

	entries, err := redisAdapter.ReadRange(ctx, kinexis.DLQStreamName(entityName), defaultDLQListCount)
	if err != nil {
		return fmt.Errorf("dlq list: %w", err)
	}

	for _, entry := range entries {
		app.Logger.InfoContext(ctx, "kinexis: dead-letter entry",
			"id", entry.ID,
			"reason", entry.Fields[kinexis.FieldReason],
			"error", entry.Fields[kinexis.FieldError],
			"streamID", entry.Fields[kinexis.FieldStreamID],
			"consumer", entry.Fields[kinexis.FieldConsumer],
			"group", entry.Fields[kinexis.FieldGroup],
		)
	}

	return nil
}
