package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/naveenspark/venuebook/internal/session"
	"github.com/naveenspark/venuebook/pkg/domain"
)

type LoginCmd struct {
	Username string `help:"Account name." short:"u" required:""`
	Password string `help:"Password. Read from stdin when omitted." short:"p"`
}

func (l *LoginCmd) Run(ctx context.Context, globals *Globals) error {
	rt, err := globals.open(os.Stderr, true)
	if err != nil {
		return err
	}

	password := l.Password
	if password == "" {
		fmt.Fprint(os.Stderr, "Password: ")
		password, err = readPassword(os.Stdin)
		if err != nil {
			return err
		}
	}

	profile, err := rt.store.Login(ctx, domain.Credentials{Username: l.Username, Password: password})
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	fmt.Printf("Signed in as %s (%s)\n", profile.Username, profile.Role.Label())
	return nil
}

// readPassword reads one line from r. A final line without a newline counts.
func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

type LogoutCmd struct{}

func (l *LogoutCmd) Run(ctx context.Context, globals *Globals) error {
	rt, err := globals.open(os.Stderr, true)
	if err != nil {
		return err
	}
	if rt.store.Token() == "" {
		fmt.Println("Already signed out.")
		return nil
	}
	rt.store.Logout(ctx)
	fmt.Println("Signed out.")
	return nil
}

type WhoamiCmd struct{}

func (w *WhoamiCmd) Run(ctx context.Context, globals *Globals) error {
	rt, err := globals.open(os.Stderr, true)
	if err != nil {
		return err
	}
	token := rt.store.Token()
	if token == "" {
		printSignedOut(os.Stdout)
		return fmt.Errorf("whoami: %w", session.ErrNotAuthenticated)
	}

	profile, err := rt.store.EnsureProfile(ctx)
	if err != nil {
		return fmt.Errorf("whoami: %w", err)
	}
	fmt.Printf("%s (%s)\n", profile.Username, profile.Role.Label())
	if exp, ok := session.TokenExpiry(token); ok {
		fmt.Printf("token expires %s\n", exp.Local().Format(time.DateTime))
	}
	return nil
}
