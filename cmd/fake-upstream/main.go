// Command fake-upstream serves a deterministic stand-in for the reporting API,
// for local runs of healthfetch without real credentials.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/healthfetch/internal/testupstream"
	"github.com/okian/healthfetch/pkg/logger"
	"github.com/spf13/cobra"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

type options struct {
	addr      string
	secret    string
	client    string
	slow      []string
	failing   []string
	slowDelay time.Duration
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Stderr.WriteString("fake-upstream: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:           "fake-upstream",
		Short:         "Serve a fake reporting API with generateToken and every data endpoint",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.addr, "addr", ":9090", "listen address")
	f.StringVar(&o.secret, "secret-key", "secret", "accepted secretKey")
	f.StringVar(&o.client, "client-key", "client", "accepted clientKey")
	f.StringSliceVar(&o.slow, "slow", nil, "endpoint paths that answer after --slow-delay")
	f.StringSliceVar(&o.failing, "fail", nil, "endpoint paths that always answer 503")
	f.DurationVar(&o.slowDelay, "slow-delay", 15*time.Second, "delay for --slow paths")
	return cmd
}

// build applies the flags to a fresh fake.
func build(o *options) *testupstream.Upstream {
	opts := []testupstream.Option{testupstream.WithCredentials(o.secret, o.client)}
	for _, p := range o.slow {
		opts = append(opts, testupstream.WithBehavior(p, testupstream.Behavior{Delay: o.slowDelay}))
	}
	for _, p := range o.failing {
		opts = append(opts, testupstream.WithBehavior(p, testupstream.Behavior{
			Status: http.StatusServiceUnavailable,
			Body:   `{"message":"unavailable"}`,
		}))
	}
	return testupstream.New(opts...)
}

func run(ctx context.Context, o *options) error {
	if err := logger.Init(); err != nil {
		return err
	}
	log := logger.Named("fake-upstream")

	srv := &http.Server{
		Addr:              o.addr,
		Handler:           build(o).Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "serving fake upstream", logger.String("addr", o.addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
