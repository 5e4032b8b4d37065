package main

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/okian/healthfetch/internal/domain/endpoint"
	"github.com/spf13/cobra"
)

var errSetupFailed = errors.New("table setup failed")

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newStatusCommand(env *runtimeEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show store connectivity, record count and recent dates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printJSON(cmd.OutOrStdout(), env.svc.Status(cmd.Context()))
		},
	}
}

func newEndpointsCommand(env *runtimeEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "endpoints",
		Short: "List the upstream endpoints fetched for every date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eps := env.svc.Endpoints()
			return printJSON(cmd.OutOrStdout(), struct {
				Endpoints []endpoint.Descriptor `json:"endpoints"`
				Total     int                   `json:"total"`
			}{eps, len(eps)})
		},
	}
}

func newSetupTableCommand(env *runtimeEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "setup-table",
		Short: "Create the record table if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report := env.svc.SetupTable(cmd.Context())
			if err := printJSON(cmd.OutOrStdout(), report); err != nil {
				return err
			}
			if !report.Success {
				return errSetupFailed
			}
			return nil
		},
	}
}
