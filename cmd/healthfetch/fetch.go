package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/okian/healthfetch/internal/app"
	"github.com/okian/healthfetch/internal/domain/progress"
	"github.com/okian/healthfetch/pkg/logger"
	"github.com/spf13/cobra"
)

// lineEmitter writes each event as one JSON line.
type lineEmitter struct {
	enc    *json.Encoder
	logger logger.Logger
}

func newLineEmitter(w io.Writer, l logger.Logger) *lineEmitter {
	return &lineEmitter{enc: json.NewEncoder(w), logger: l}
}

func (e *lineEmitter) Emit(ctx context.Context, ev progress.Event) {
	if err := e.enc.Encode(ev); err != nil {
		e.logger.Warn(ctx, "writing event", logger.String("type", string(ev.Type)), logger.Error(err))
	}
}

func newFetchCommand(env *runtimeEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Ingest one or more dates, streaming progress as JSON lines",
	}

	today := &cobra.Command{
		Use:   "today",
		Short: "Ingest today's date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sum := env.svc.FetchToday(cmd.Context(), newLineEmitter(cmd.OutOrStdout(), env.logger))
			return sum.Err
		},
	}

	var from, to string
	rng := &cobra.Command{
		Use:   "range",
		Short: "Ingest every date in an inclusive range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sum, err := env.svc.FetchRange(cmd.Context(), from, to, newLineEmitter(cmd.OutOrStdout(), env.logger))
			if err != nil {
				return err
			}
			return sum.Err
		},
	}
	rng.Flags().StringVar(&from, "from", "", "first date, YYYY-MM-DD")
	rng.Flags().StringVar(&to, "to", "", "last date, YYYY-MM-DD")
	_ = rng.MarkFlagRequired("from")
	_ = rng.MarkFlagRequired("to")

	cmd.AddCommand(today, rng)
	return cmd
}

var _ app.Emitter = (*lineEmitter)(nil)
