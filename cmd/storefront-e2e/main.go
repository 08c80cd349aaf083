package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	internalcli "github.com/themizzi/storefront-e2e/internal/cli"
	"github.com/themizzi/storefront-e2e/internal/config"
	"github.com/themizzi/storefront-e2e/internal/database"
	"github.com/themizzi/storefront-e2e/internal/fixtures"
	"github.com/themizzi/storefront-e2e/internal/observability"
	"github.com/themizzi/storefront-e2e/internal/repository"
	"github.com/themizzi/storefront-e2e/internal/runner"
	"github.com/themizzi/storefront-e2e/internal/services"
	"github.com/themizzi/storefront-e2e/internal/session"
)

var version = "0.1.0"

// openDatabase connects to and migrates PostgreSQL when it is configured.
// It returns false when no database settings are present.
func openDatabase(log *zap.Logger) (bool, error) {
	if !config.PostgresConfigured(os.Getenv) {
		return false, nil
	}
	pgConfig, err := config.LoadPostgresConfig(os.Getenv)
	if err != nil {
		return false, err
	}
	if err := database.Connect(pgConfig); err != nil {
		return false, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.RunMigrations(); err != nil {
		database.Close()
		return false, fmt.Errorf("failed to run database migrations: %w", err)
	}
	log.Info("connected to database", zap.String("host", pgConfig.Host), zap.String("database", pgConfig.Database))
	return true, nil
}

// ServeCommand returns the serve command
func ServeCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the stand-in storefront",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Usage: "listen port", Value: cfg.Server.Port, EnvVars: []string{"PORT"}},
		},
		Action: func(c *cli.Context) error {
			logger := observability.NewStdoutLogger(cfg.Logger)
			defer logger.Sync()

			var orders services.OrderRepository = repository.NewMemoryOrderRepository()
			connected, err := openDatabase(logger)
			if err != nil {
				return err
			}
			if connected {
				defer database.Close()
				orders = repository.NewOrderRepository()
			} else {
				logger.Info("no database configured, keeping orders in memory")
			}

			deps, err := internalcli.BuildServerDependencies(config.ServerConfig{Port: c.String("port")}, orders, logger)
			if err != nil {
				return err
			}
			return internalcli.RunServe(deps)
		},
	}
}

// RunCommand returns the run command
func RunCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run scenarios against the target storefront",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "scenario", Aliases: []string{"s"}, Usage: "scenario to run; repeatable, default all"},
			&cli.StringSliceFlag{Name: "tag", Aliases: []string{"t"}, Usage: "only run scenarios with this tag; repeatable"},
			&cli.StringFlag{Name: "base-url", Usage: "storefront base URL", Value: cfg.Target.BaseURL},
			&cli.IntFlag{Name: "parallel", Aliases: []string{"p"}, Usage: "scenarios in flight", Value: cfg.Browser.Parallel},
			&cli.BoolFlag{Name: "headed", Usage: "show the browser window"},
			&cli.Uint64Flag{Name: "seed", Usage: "test data seed; a seed replays the same names, logins and emails, 0 is random"},
		},
		Action: func(c *cli.Context) error {
			logger := observability.NewLogger(cfg.Logger, zapcore.Lock(os.Stderr))
			defer logger.Sync()

			cfg.Target.BaseURL = config.LoadTargetConfig(func(key string) string {
				if key == "BASE_URL" {
					return c.String("base-url")
				}
				return ""
			}).BaseURL
			cfg.Browser.Parallel = c.Int("parallel")
			if c.Bool("headed") {
				cfg.Browser.Headless = false
			}

			var recorder runner.RunRecorder = repository.NewMemoryRunRepository()
			connected, err := openDatabase(logger)
			if err != nil {
				return err
			}
			if connected {
				defer database.Close()
				recorder = repository.NewRunRepositoryWithDB(database.DB)
			}

			launcher, err := session.Launch(cfg.Browser, logger.Named("browser"))
			if err != nil {
				return err
			}
			defer func() {
				if err := launcher.Close(); err != nil {
					logger.Warn("failed to close browser", zap.Error(err))
				}
			}()

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			_, err = internalcli.RunScenarios(ctx, internalcli.RunDependencies{
				Config:   cfg,
				Opener:   launcher,
				Recorder: recorder,
				Data:     fixtures.NewGenerator(c.Uint64("seed")),
				Out:      c.App.Writer,
				Log:      logger,
			}, c.StringSlice("scenario"), c.StringSlice("tag"))
			return err
		},
	}
}

// ListCommand returns the list command
func ListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List scenarios",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "tag", Aliases: []string{"t"}, Usage: "only list scenarios with this tag"},
			&cli.IntFlag{Name: "flaky", Usage: "list scenarios that both passed and failed in the last N recorded runs"},
		},
		Action: func(c *cli.Context) error {
			if !c.IsSet("flaky") {
				return internalcli.ListScenarios(c.App.Writer, c.StringSlice("tag"))
			}
			connected, err := openDatabase(zap.NewNop())
			if err != nil {
				return err
			}
			if !connected {
				return fmt.Errorf("--flaky reads recorded runs and needs the POSTGRES_* settings")
			}
			defer database.Close()
			return internalcli.ListFlaky(c.Context, c.App.Writer, repository.NewRunRepositoryWithDB(database.DB), c.Int("flaky"))
		},
	}
}

// InstallCommand returns the install command
func InstallCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "install",
		Usage: "Install the playwright driver and browser",
		Action: func(c *cli.Context) error {
			return session.Install(cfg.Browser.Browser)
		},
	}
}

// FixturesCommand returns the fixtures command
func FixturesCommand() *cli.Command {
	return &cli.Command{
		Name:  "fixtures",
		Usage: "Print generated test data as JSON",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Value: 1, Usage: "registrations to generate"},
			&cli.Uint64Flag{Name: "seed", Usage: "generator seed; 0 is random"},
		},
		Action: func(c *cli.Context) error {
			return internalcli.PrintFixtures(c.App.Writer, fixtures.NewGenerator(c.Uint64("seed")), c.Int("count"))
		},
	}
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load(os.Getenv)
	if err != nil {
		log.Fatalf("Error: invalid configuration: %v", err)
	}

	app := &cli.App{
		Name:    "storefront-e2e",
		Usage:   "End-to-end UI scenarios for an AbanteCart storefront",
		Version: version,
		Commands: []*cli.Command{
			RunCommand(cfg),
			ListCommand(),
			ServeCommand(cfg),
			InstallCommand(cfg),
			FixturesCommand(),
		},
	}

	if err := app.RunContext(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
