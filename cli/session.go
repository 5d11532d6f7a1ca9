package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/status-im/market-game/core"
)

type loginCmd struct {
	email    string
	password string
}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "sign in to the game backend" }
func (*loginCmd) Usage() string {
	return `marketgame login -email <email> -password <password>
`
}

func (c *loginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.email, "email", "", "Account email")
	f.StringVar(&c.password, "password", os.Getenv("MARKETGAME_PASSWORD"), "Account password, defaults to $MARKETGAME_PASSWORD")
}

func (c *loginCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.email == "" || c.password == "" {
		fmt.Fprintln(os.Stderr, "login requires -email and -password")
		return subcommands.ExitUsageError
	}
	return run(ctx, func(app *core.App) error {
		user, err := app.Session.Login(ctx, c.email, c.password)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Signed in as %s\n", user.Username)
		return nil
	})
}

type registerCmd struct {
	username string
	email    string
	password string
}

func (*registerCmd) Name() string     { return "register" }
func (*registerCmd) Synopsis() string { return "create a game account" }
func (*registerCmd) Usage() string {
	return `marketgame register -username <name> -email <email> -password <password>
`
}

func (c *registerCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.username, "username", "", "Display name")
	f.StringVar(&c.email, "email", "", "Account email")
	f.StringVar(&c.password, "password", os.Getenv("MARKETGAME_PASSWORD"), "Account password, defaults to $MARKETGAME_PASSWORD")
}

func (c *registerCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.username == "" || c.email == "" || c.password == "" {
		fmt.Fprintln(os.Stderr, "register requires -username, -email and -password")
		return subcommands.ExitUsageError
	}
	return run(ctx, func(app *core.App) error {
		user, err := app.Session.Register(ctx, c.username, c.email, c.password)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Welcome %s, your balance is %s\n", user.Username, usd(user.Balance))
		return nil
	})
}

type logoutCmd struct{}

func (*logoutCmd) Name() string     { return "logout" }
func (*logoutCmd) Synopsis() string { return "sign out and clear cached market data" }
func (*logoutCmd) Usage() string {
	return `marketgame logout
`
}
func (*logoutCmd) SetFlags(*flag.FlagSet) {}

func (*logoutCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(app *core.App) error {
		if err := app.Session.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "Signed out")
		return nil
	})
}

type whoamiCmd struct{}

func (*whoamiCmd) Name() string     { return "whoami" }
func (*whoamiCmd) Synopsis() string { return "show the signed-in user" }
func (*whoamiCmd) Usage() string {
	return `marketgame whoami
`
}
func (*whoamiCmd) SetFlags(*flag.FlagSet) {}

func (*whoamiCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(app *core.App) error {
		user := app.Session.CurrentUser()
		if user == nil {
			fmt.Fprintln(out, "Not signed in")
			return nil
		}
		fmt.Fprintf(out, "%s <%s>, balance %s\n", user.Username, user.Email, usd(user.Balance))
		return nil
	})
}

type themeCmd struct {
	dark bool
}

func (*themeCmd) Name() string     { return "theme" }
func (*themeCmd) Synopsis() string { return "set the dark mode preference" }
func (*themeCmd) Usage() string {
	return `marketgame theme [-dark]
`
}

func (c *themeCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.dark, "dark", false, "Enable dark mode")
}

func (c *themeCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(app *core.App) error {
		return app.Session.SetDarkMode(ctx, c.dark)
	})
}
