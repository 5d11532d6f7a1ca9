// Package cli implements the marketgame command line client. Each command
// opens the application, runs one operation and closes it again.
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/status-im/market-game/config"
	"github.com/status-im/market-game/core"
	"github.com/status-im/market-game/logger"
)

// Register the subcommands.
func Register(c *subcommands.Commander) {
	c.Register(&marketCmd{}, "market")
	c.Register(&detailsCmd{}, "market")
	c.Register(&historyCmd{}, "market")
	c.Register(&refreshCmd{}, "market")

	c.Register(&loginCmd{}, "session")
	c.Register(&registerCmd{}, "session")
	c.Register(&logoutCmd{}, "session")
	c.Register(&whoamiCmd{}, "session")
	c.Register(&themeCmd{}, "session")

	c.Register(&portfolioCmd{}, "game")
	c.Register(&leaderboardCmd{}, "game")
	c.Register(&buyCmd{}, "game")
	c.Register(&sellCmd{}, "game")
	c.Register(&transactionsCmd{}, "game")
}

// a command runs for one operation, package level flags are fine here
var configPath = flag.String("config", "config.yaml", "Path to the YAML configuration file")

// openApp loads the configuration, wires the services and restores the
// session. The returned func stops everything.
func openApp(ctx context.Context) (*core.App, func(), error) {
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return nil, nil, err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return nil, nil, err
	}

	app, err := core.Setup(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := app.Registry.StartAll(ctx); err != nil {
		return nil, nil, err
	}
	return app, func() {
		app.Registry.StopAll()
		logger.Sync()
	}, nil
}

// run opens the app around fn and maps its error to an exit status
func run(ctx context.Context, fn func(app *core.App) error) subcommands.ExitStatus {
	app, closeApp, err := openApp(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeApp()

	if err := fn(app); err != nil {
		fmt.Fprintln(os.Stderr, errorMessage(err))
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
