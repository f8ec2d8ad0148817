package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"

	"walletfeed/internal/cmd/flags"
	"walletfeed/internal/session"
	"walletfeed/internal/wallet"
)

var loginCmd = &cli.Command{
	Name:  "login",
	Usage: "Connect the wallet and establish a session",
	Flags: []cli.Flag{
		flags.NewAccount,
	},
	Action: func(ctx context.Context, c *cli.Command) error {
		return run(ctx, c, append(appServices(),
			pal.Provide(&login{rotate: c.Bool("new-account")}),
		)...)
	},
}

type login struct {
	Logger   *slog.Logger
	Wallet   *wallet.Keystore
	Sessions *session.Store

	rotate bool
}

func (l *login) Run(ctx context.Context) error {
	// The session store follows every wallet account change from here on:
	// a new primary account re-establishes, an empty list signs out.
	l.Wallet.OnAccountsChanged(l.Sessions.OnAccountsChanged)

	if l.rotate {
		account, err := l.Wallet.Rotate(ctx)
		if err != nil {
			return err
		}
		fmt.Println("signed in as", account)
		return nil
	}

	accounts, err := l.Wallet.RequestAccounts(ctx)
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		return errors.New("wallet reported no accounts")
	}

	sess := l.Sessions.Current(ctx)
	if sess == nil || sess.AccountID != accounts[0] {
		established, err := l.Sessions.Establish(ctx, accounts[0])
		if err != nil {
			return err
		}
		sess = &established
	}

	fmt.Println("signed in as", sess.AccountID, "until", sess.ExpiresAt.Format("2006-01-02 15:04"))
	return nil
}

var logoutCmd = &cli.Command{
	Name:  "logout",
	Usage: "Sign out and clear the local session",
	Flags: []cli.Flag{
		flags.ForgetKey,
	},
	Action: func(ctx context.Context, c *cli.Command) error {
		return run(ctx, c, append(appServices(),
			pal.Provide(&logout{forgetKey: c.Bool("forget-key")}),
		)...)
	},
}

type logout struct {
	Logger   *slog.Logger
	Wallet   *wallet.Keystore
	Sessions *session.Store

	forgetKey bool
}

func (l *logout) Run(ctx context.Context) error {
	l.Sessions.Clear(ctx)

	if l.forgetKey {
		if err := l.Wallet.Forget(ctx); err != nil {
			return err
		}
	}

	fmt.Println("signed out")
	return nil
}

var whoamiCmd = &cli.Command{
	Name:  "whoami",
	Usage: "Show the current session",
	Action: func(ctx context.Context, c *cli.Command) error {
		return run(ctx, c, append(appServices(), pal.Provide(&whoami{}))...)
	},
}

type whoami struct {
	Sessions *session.Store
}

func (w *whoami) Run(ctx context.Context) error {
	sess := w.Sessions.Current(ctx)
	if sess == nil {
		fmt.Println("not signed in")
		return nil
	}

	fmt.Println(sess.AccountID, "(expires", sess.ExpiresAt.Format("2006-01-02 15:04")+")")
	return nil
}
