// Package useradd implements the operator command that creates an account
// directly in the store.
package useradd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/wizardry/internal/flagx"
	"github.com/dmitrijs2005/wizardry/internal/server/models"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

var ErrPasswordMismatch = errors.New("passwords do not match")

// Registrar creates accounts; *services.UserService implements it.
type Registrar interface {
	Register(ctx context.Context, username, email, password string) (*models.User, string, error)
}

// Options are the account fields taken from the command line.
type Options struct {
	Username string
	Email    string
}

// ParseArgs reads -username and -email, ignoring flags owned by the config
// loader.
func ParseArgs(args []string) (*Options, error) {
	opts := &Options{}

	fs := flag.NewFlagSet("useradd", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&opts.Username, "username", "", "account username")
	fs.StringVar(&opts.Email, "email", "", "account email")

	if err := fs.Parse(flagx.FilterArgs(args, "-username", "-email")); err != nil {
		return nil, err
	}
	if opts.Username == "" || opts.Email == "" {
		return nil, errors.New("usage: useradd [-c config.json] -username NAME -email EMAIL")
	}
	return opts, nil
}

// GetPassword prompts on w and reads a password from the terminal without
// echo, twice. Both entries must match.
func GetPassword(w io.Writer) (string, error) {
	first, err := prompt(w, "Enter password: ")
	if err != nil {
		return "", err
	}
	second, err := prompt(w, "Repeat password: ")
	if err != nil {
		return "", err
	}
	if string(first) != string(second) {
		return "", ErrPasswordMismatch
	}
	return string(first), nil
}

func prompt(w io.Writer, text string) ([]byte, error) {
	if _, err := fmt.Fprint(w, text); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// Run asks for the password and registers the account, printing its id.
func Run(ctx context.Context, r Registrar, opts *Options, w io.Writer) error {
	password, err := GetPassword(w)
	if err != nil {
		return err
	}

	user, _, err := r.Register(ctx, opts.Username, opts.Email, password)
	if err != nil {
		return fmt.Errorf("register %q: %w", opts.Username, err)
	}

	_, err = fmt.Fprintf(w, "created user %s (%s)\n", user.Username, user.ID)
	return err
}
