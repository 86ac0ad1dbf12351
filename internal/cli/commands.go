package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/congo-pay/cardbank/internal/account"
	"github.com/congo-pay/cardbank/internal/payments"
	"github.com/congo-pay/cardbank/internal/terminal"
)

type shellCmd struct {
	env *Env
}

func (*shellCmd) Name() string     { return "shell" }
func (*shellCmd) Synopsis() string { return "run the interactive card menu" }
func (*shellCmd) Usage() string {
	return `bank shell

  Starts the interactive menu: create a card, log in, check the balance,
  add income, transfer to another card and close the card.
`
}
func (*shellCmd) SetFlags(*flag.FlagSet) {}

func (c *shellCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.run(ctx, func(svc *Services) error {
		menu := terminal.New(svc.Accounts, svc.Funding, svc.Payments, c.env.In, c.env.Out, svc.Logger)
		return menu.Run(ctx)
	})
}

type createCmd struct {
	env *Env
}

func (*createCmd) Name() string     { return "create" }
func (*createCmd) Synopsis() string { return "issue a new card and print its number and PIN" }
func (*createCmd) Usage() string {
	return `bank create
`
}
func (*createCmd) SetFlags(*flag.FlagSet) {}

func (c *createCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.run(ctx, func(svc *Services) error {
		creds, err := svc.Accounts.Create(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.env.Out, "number: %s\npin: %s\n", creds.Number, creds.PIN)
		return nil
	})
}

// credentialFlags are the -card and -pin flags shared by session commands.
type credentialFlags struct {
	number string
	pin    string
}

func (f *credentialFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.number, "card", "", "card number")
	fs.StringVar(&f.pin, "pin", "", "card PIN")
}

func (f *credentialFlags) login(ctx context.Context, svc *Services) (account.Session, error) {
	if f.number == "" || f.pin == "" {
		return account.Session{}, errors.New("-card and -pin are required")
	}
	return svc.Accounts.Authenticate(ctx, f.number, f.pin)
}

type balanceCmd struct {
	env *Env
	credentialFlags
}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "print the balance of a card" }
func (*balanceCmd) Usage() string {
	return `bank balance -card <number> -pin <pin>
`
}
func (c *balanceCmd) SetFlags(f *flag.FlagSet) { c.register(f) }

func (c *balanceCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.run(ctx, func(svc *Services) error {
		sess, err := c.login(ctx, svc)
		if err != nil {
			return err
		}
		balance, err := svc.Accounts.Balance(ctx, sess)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.env.Out, "Balance: %d\n", balance)
		return nil
	})
}

type depositCmd struct {
	env *Env
	credentialFlags
	amount int64
}

func (*depositCmd) Name() string     { return "deposit" }
func (*depositCmd) Synopsis() string { return "add income to a card" }
func (*depositCmd) Usage() string {
	return `bank deposit -card <number> -pin <pin> -amount <n>
`
}
func (c *depositCmd) SetFlags(f *flag.FlagSet) {
	c.register(f)
	f.Int64Var(&c.amount, "amount", 0, "amount to add, greater than zero")
}

func (c *depositCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.run(ctx, func(svc *Services) error {
		sess, err := c.login(ctx, svc)
		if err != nil {
			return err
		}
		res, err := svc.Funding.Deposit(ctx, sess, c.amount)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.env.Out, "Income was added! Balance: %d\n", res.Balance)
		return nil
	})
}

type transferCmd struct {
	env *Env
	credentialFlags
	to     string
	amount int64
}

func (*transferCmd) Name() string     { return "transfer" }
func (*transferCmd) Synopsis() string { return "move money from one card to another" }
func (*transferCmd) Usage() string {
	return `bank transfer -card <number> -pin <pin> -to <number> -amount <n>
`
}
func (c *transferCmd) SetFlags(f *flag.FlagSet) {
	c.register(f)
	f.StringVar(&c.to, "to", "", "destination card number")
	f.Int64Var(&c.amount, "amount", 0, "amount to transfer, greater than zero")
}

func (c *transferCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.run(ctx, func(svc *Services) error {
		sess, err := c.login(ctx, svc)
		if err != nil {
			return err
		}
		res, err := svc.Payments.Transfer(ctx, sess, payments.TransferInput{ToNumber: c.to, Amount: c.amount})
		if err != nil {
			return err
		}
		fmt.Fprintf(c.env.Out, "Success! Balance: %d\n", res.FromBalance)
		return nil
	})
}

type closeCmd struct {
	env *Env
	credentialFlags
}

func (*closeCmd) Name() string     { return "close" }
func (*closeCmd) Synopsis() string { return "close a card" }
func (*closeCmd) Usage() string {
	return `bank close -card <number> -pin <pin>
`
}
func (c *closeCmd) SetFlags(f *flag.FlagSet) { c.register(f) }

func (c *closeCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.run(ctx, func(svc *Services) error {
		sess, err := c.login(ctx, svc)
		if err != nil {
			return err
		}
		if err := svc.Accounts.Close(ctx, sess); err != nil {
			return err
		}
		fmt.Fprintln(c.env.Out, "The account has been closed!")
		return nil
	})
}

// run opens the services, runs fn and reports its error on Err.
func (e *Env) run(ctx context.Context, fn func(*Services) error) subcommands.ExitStatus {
	svc, err := e.Open(ctx)
	if err != nil {
		fmt.Fprintln(e.Err, err)
		return subcommands.ExitFailure
	}
	defer svc.Close()

	if err := fn(svc); err != nil {
		fmt.Fprintln(e.Err, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
