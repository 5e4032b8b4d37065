// Command healthfetch ingests daily health statistics into a relational store,
// either on demand from the CLI or behind an HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/okian/healthfetch/internal/app"
	"github.com/okian/healthfetch/internal/config"
	"github.com/okian/healthfetch/pkg/logger"
	"github.com/spf13/cobra"
)

const defaultEnvFile = ".env"

// runtimeEnv is built once per invocation by the root command.
type runtimeEnv struct {
	envFile string
	cfg     *config.Config
	svc     *app.Service
	logger  logger.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Stderr.WriteString("healthfetch: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	env := &runtimeEnv{}
	root := &cobra.Command{
		Use:           "healthfetch",
		Short:         "Fetch daily health statistics and store one record per date",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return env.setup(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&env.envFile, "env-file", "",
		"dotenv file to load (default $"+config.EnvDotEnvFile+" or "+defaultEnvFile+")")

	root.AddCommand(
		newServeCommand(env),
		newFetchCommand(env),
		newStatusCommand(env),
		newEndpointsCommand(env),
		newSetupTableCommand(env),
	)
	return root
}

// setup loads the dotenv file, configuration and logger, then wires the service.
func (e *runtimeEnv) setup(ctx context.Context) error {
	if err := loadDotEnv(e.envFile); err != nil {
		return err
	}
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	var opts []logger.Option
	if cfg.LogJSON {
		opts = append(opts, logger.WithJSON())
	}
	if err := logger.Init(opts...); err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	e.logger = logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		e.logger.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	e.cfg = cfg
	e.svc = app.New(cfg, app.WithLogger(e.logger.Named("service")))
	return nil
}

// loadDotEnv reads path, or $HEALTHFETCH_ENV_FILE, or .env. Only a missing
// default file is ignored; variables already set in the process win.
func loadDotEnv(path string) error {
	explicit := path != ""
	if !explicit {
		path = os.Getenv(config.EnvDotEnvFile)
		explicit = path != ""
	}
	if !explicit {
		path = defaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: env file %s: %w", config.ErrLoadConfig, path, err)
	}
	return nil
}
