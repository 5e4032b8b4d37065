package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/healthfetch/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8000")
				convey.So(cfg.TableName, convey.ShouldEqual, "bhavya_realtime_health__report_data")
				convey.So(cfg.MaxRetries, convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("HEALTHFETCH_ADDR", ":9090")
			_ = os.Setenv("HEALTHFETCH_API_SECRET_KEY", "s3cret")
			_ = os.Setenv("HEALTHFETCH_API_CLIENT_KEY", "client")
			_ = os.Setenv("HEALTHFETCH_DB_DRIVER", "postgres")
			_ = os.Setenv("HEALTHFETCH_DB_DSN", "postgres://localhost/health")
			_ = os.Setenv("HEALTHFETCH_FETCH_TIMEOUT_MS", "2500")
			_ = os.Setenv("HEALTHFETCH_INSECURE_SKIP_VERIFY", "false")
			_ = os.Setenv("HEALTHFETCH_REQUEST_RPS", "12.5")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.APISecretKey, convey.ShouldEqual, "s3cret")
				convey.So(cfg.APIClientKey, convey.ShouldEqual, "client")
				convey.So(cfg.DBDriver, convey.ShouldEqual, config.DriverPostgres)
				convey.So(cfg.DBDSN, convey.ShouldEqual, "postgres://localhost/health")
				convey.So(cfg.FetchTimeoutMS, convey.ShouldEqual, 2500)
				convey.So(cfg.InsecureSkipVerify, convey.ShouldBeFalse)
				convey.So(cfg.RequestRPS, convey.ShouldEqual, 12.5)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9191"
table_name: daily_health
max_retries: 4
backoff_factor_ms: 250
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("HEALTHFETCH_CONFIG", tmpFile)
			_ = os.Setenv("HEALTHFETCH_MAX_RETRIES", "1")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9191")
				convey.So(cfg.TableName, convey.ShouldEqual, "daily_health")
				convey.So(cfg.MaxRetries, convey.ShouldEqual, 1)
				convey.So(cfg.BackoffFactorMS, convey.ShouldEqual, 250)
				convey.So(cfg.FetchTimeoutMS, convey.ShouldEqual, 10_000)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("HEALTHFETCH_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("HEALTHFETCH_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the table name is not a plain identifier", func() {
			_ = os.Setenv("HEALTHFETCH_TABLE_NAME", "records; DROP TABLE x")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the driver is unknown", func() {
			_ = os.Setenv("HEALTHFETCH_DB_DRIVER", "mysql")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "db_driver")
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("HEALTHFETCH_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("HEALTHFETCH_MAX_RETRIES", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.
func clearConfigEnvVars() {
	envVars := []string{
		"HEALTHFETCH_CONFIG",
		"HEALTHFETCH_ADDR",
		"HEALTHFETCH_API_SECRET_KEY",
		"HEALTHFETCH_API_CLIENT_KEY",
		"HEALTHFETCH_DB_DRIVER",
		"HEALTHFETCH_DB_DSN",
		"HEALTHFETCH_FETCH_TIMEOUT_MS",
		"HEALTHFETCH_INSECURE_SKIP_VERIFY",
		"HEALTHFETCH_REQUEST_RPS",
		"HEALTHFETCH_MAX_RETRIES",
		"HEALTHFETCH_TABLE_NAME",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "healthfetch-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	if err := tmpFile.Close(); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
