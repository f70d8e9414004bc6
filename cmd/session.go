package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tracker"
	"github.com/etnz/tracker/renderer"
	"github.com/google/subcommands"
)

type loginCmd struct {
	email    string
	password string
}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "login with email and password" }
func (*loginCmd) Usage() string {
	return `trk login -email <email> -password <password>

  Authenticates against the backend and saves the account. If an account was
  saved before, its balance is kept.
`
}

func (c *loginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.email, "email", "", "Login email.")
	f.StringVar(&c.password, "password", os.Getenv("TRACKER_PASSWORD"), "Login password (default $TRACKER_PASSWORD).")
}

func (c *loginCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	w, done, err := OpenWallet()
	if err != nil {
		return fail(err)
	}
	defer done()

	a, err := w.Login(ctx, tracker.Credentials{Email: c.email, Password: c.password})
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.RenderAccount(a))
	return subcommands.ExitSuccess
}

type unlockCmd struct{}

func (*unlockCmd) Name() string     { return "unlock" }
func (*unlockCmd) Synopsis() string { return "unlock the saved session with biometrics" }
func (*unlockCmd) Usage() string {
	return `trk unlock

  Runs a biometric challenge and resumes the saved session. Fails if nobody
  ever logged in on this device.
`
}

func (*unlockCmd) SetFlags(*flag.FlagSet) {}

func (*unlockCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	w, done, err := OpenWallet()
	if err != nil {
		return fail(err)
	}
	defer done()

	if !w.BiometricAvailable() {
		return fail(tracker.ErrNotAvailable)
	}
	a, err := w.Unlock(ctx)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.RenderAccount(a))
	return subcommands.ExitSuccess
}

type logoutCmd struct{}

func (*logoutCmd) Name() string     { return "logout" }
func (*logoutCmd) Synopsis() string { return "notify the backend of a logout" }
func (*logoutCmd) Usage() string {
	return `trk logout

  Ends the session. The saved account and transactions are kept, use unlock
  or login to resume.
`
}

func (*logoutCmd) SetFlags(*flag.FlagSet) {}

func (*logoutCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	w, done, err := OpenWallet()
	if err != nil {
		return fail(err)
	}
	defer done()

	w.Logout(ctx)
	fmt.Fprintln(stdout, "Logged out.")
	return subcommands.ExitSuccess
}

type whoamiCmd struct {
	sessionFlags
}

func (*whoamiCmd) Name() string     { return "whoami" }
func (*whoamiCmd) Synopsis() string { return "display the account and its balance" }
func (*whoamiCmd) Usage() string {
	return `trk whoami [-email <email> -password <password>]

  Displays the account summary.
`
}

func (c *whoamiCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	w, done, err := OpenWallet()
	if err != nil {
		return fail(err)
	}
	defer done()

	a, err := c.start(ctx, w)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.RenderAccount(a))
	return subcommands.ExitSuccess
}
