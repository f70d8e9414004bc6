package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/tracker"
	"github.com/etnz/tracker/renderer"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type historyCmd struct {
	sessionFlags
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the transaction history, newest first" }
func (*historyCmd) Usage() string {
	return `trk history [-email <email> -password <password>]

  Displays the saved transactions. They are fetched from the backend only the
  first time, or after a refresh.
`
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	w, done, err := OpenWallet()
	if err != nil {
		return fail(err)
	}
	defer done()

	if _, err := c.start(ctx, w); err != nil {
		return fail(err)
	}
	entries, err := w.History(ctx)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.RenderHistory(entries, renderer.Options{}))
	return subcommands.ExitSuccess
}

type refreshCmd struct {
	sessionFlags
}

func (*refreshCmd) Name() string     { return "refresh" }
func (*refreshCmd) Synopsis() string { return "fetch the transaction history again from the backend" }
func (*refreshCmd) Usage() string {
	return `trk refresh [-email <email> -password <password>]

  Drops the saved transactions and fetches them again. Transfers sent from
  this device and not known by the backend are lost.
`
}

func (c *refreshCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	w, done, err := OpenWallet()
	if err != nil {
		return fail(err)
	}
	defer done()

	if _, err := c.start(ctx, w); err != nil {
		return fail(err)
	}
	entries, err := w.Refresh(ctx)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.RenderHistory(entries, renderer.Options{}))
	return subcommands.ExitSuccess
}

type sendCmd struct {
	sessionFlags
	to     string
	amount string
}

func (*sendCmd) Name() string     { return "send" }
func (*sendCmd) Synopsis() string { return "send funds to a receiver" }
func (*sendCmd) Usage() string {
	return `trk send -to <receiver> -amount <amount> [-email <email> -password <password>]

  Debits the balance and records the transfer in the history.
`
}

func (c *sendCmd) SetFlags(f *flag.FlagSet) {
	c.sessionFlags.SetFlags(f)
	f.StringVar(&c.to, "to", "", "Receiver ID.")
	f.StringVar(&c.amount, "amount", "", "Amount to send, in the account currency.")
}

func (c *sendCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := decimal.NewFromString(c.amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing amount %q: %v\n", c.amount, err)
		return subcommands.ExitUsageError
	}

	w, done, err := OpenWallet()
	if err != nil {
		return fail(err)
	}
	defer done()

	if _, err := c.start(ctx, w); err != nil {
		return fail(err)
	}
	r, err := w.Transfer(ctx, tracker.TransferRequest{ReceiverID: c.to, Amount: amount})
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.RenderReceipt(strings.TrimSpace(c.to), r, renderer.Options{}))
	return subcommands.ExitSuccess
}
