// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package cli

import (
	"encoding/json"
	"fmt"

	"github.com/AccelByte/extend-daily-progression/internal/app"
	"github.com/AccelByte/extend-daily-progression/pkg/kvs"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.load()
			if err != nil {
				return err
			}
			logrus.Infof("starting %s (environment: %s)", cfg.ServiceName, cfg.Environment)

			a, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			return a.Run(cmd.Context())
		},
	}
}

// NewCleanupGuestsCommand creates the cleanup-guests command.
func NewCleanupGuestsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup-guests",
		Short: "Remove guest profiles once for today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.load()
			if err != nil {
				return err
			}

			a, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			defer a.Shutdown(cmd.Context())

			ran, removed, err := a.CleanupGuests(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd, map[string]any{"ran": ran, "removed": removed})
		},
	}
}

// NewKVCommand creates the kv command group.
func NewKVCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kv",
		Short: "Inspect the document store",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Print one document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.load()
			if err != nil {
				return err
			}
			if !kvs.ValidKey(args[0]) {
				return fmt.Errorf("invalid key %q", args[0])
			}

			storage, err := app.OpenStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer storage.Close()

			doc, ok := storage.Store.Get(cmd.Context(), args[0])
			if !ok {
				return fmt.Errorf("key %q not found", args[0])
			}
			var v any
			if err := json.Unmarshal(doc, &v); err != nil {
				return fmt.Errorf("failed to decode %s: %w", args[0], err)
			}
			return writeJSON(cmd, v)
		},
	})
	return cmd
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
