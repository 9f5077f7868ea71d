// Package cli is the interactive terminal front-end. Each menu entry maps
// to one service operation; operation errors are printed and the menu
// continues.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"simple-bank-ledger/internal/core/domain"
	"simple-bank-ledger/internal/core/ports"
	"simple-bank-ledger/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// PasswordReader prompts for a secret. Implementations should not echo it.
type PasswordReader func(prompt string) (string, error)

// Shell runs the menu loop over a line-oriented input.
type Shell struct {
	auth     ports.AuthService
	ledger   ports.LedgerService
	sessions ports.SessionService

	in           *bufio.Scanner
	out          io.Writer
	readPassword PasswordReader
	scale        int32
	log          zerolog.Logger

	session *domain.Session
}

// New creates a Shell. Passwords are read from in like any other line
// until SetPasswordReader installs a terminal reader.
func New(
	auth ports.AuthService,
	ledger ports.LedgerService,
	sessions ports.SessionService,
	in io.Reader,
	out io.Writer,
	amountScale int32,
	log zerolog.Logger,
) *Shell {
	s := &Shell{
		auth:     auth,
		ledger:   ledger,
		sessions: sessions,
		in:       bufio.NewScanner(in),
		out:      out,
		scale:    amountScale,
		log:      log,
	}
	s.readPassword = s.prompt
	return s
}

// SetPasswordReader replaces how passwords are collected.
func (s *Shell) SetPasswordReader(r PasswordReader) {
	s.readPassword = r
}

// Run shows the main menu until the user exits or input ends.
func (s *Shell) Run(ctx context.Context) error {
	defer s.logout(ctx)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.println("\n1. Register\n2. Login\n3. Exit")
		choice, err := s.prompt("Choose an option: ")
		if err != nil {
			return endOfInput(err)
		}

		switch choice {
		case "1":
			err = s.register(ctx)
		case "2":
			err = s.login(ctx)
		case "3":
			s.println("Exiting the application.")
			return nil
		default:
			s.println("Invalid option.")
			continue
		}
		if err != nil {
			return endOfInput(err)
		}
		if s.session != nil {
			if err := s.accountMenu(ctx); err != nil {
				return endOfInput(err)
			}
		}
	}
}

func (s *Shell) accountMenu(ctx context.Context) error {
	for s.session != nil {
		s.println("\n1. Deposit\n2. Withdraw\n3. Balance Inquiry\n4. Transaction History\n5. Transfer\n6. Account Details\n7. Logout")
		action, err := s.prompt("Choose an action: ")
		if err != nil {
			return err
		}

		if action == "7" {
			s.println("Logging out...")
			s.logout(ctx)
			return nil
		}

		handler, ok := map[string]func(context.Context) error{
			"1": s.deposit,
			"2": s.withdraw,
			"3": s.balance,
			"4": s.history,
			"5": s.transfer,
			"6": s.details,
		}[action]
		if !ok {
			s.println("Invalid option.")
			continue
		}

		if _, err := s.sessions.Resolve(ctx, s.session.ID); err != nil {
			s.report(err)
			s.session = nil
			return nil
		}
		if err := handler(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *Shell) logout(ctx context.Context) {
	if s.session == nil {
		return
	}
	if err := s.sessions.Close(ctx, s.session.ID); err != nil {
		s.log.Warn().Err(err).Msg("closing session")
	}
	s.session = nil
}

func (s *Shell) openSession(ctx context.Context, account *domain.Account) {
	session, err := s.sessions.Open(ctx, account.ID)
	if err != nil {
		s.report(err)
		return
	}
	s.session = session
}

// prompt prints p and returns the next trimmed input line.
func (s *Shell) prompt(p string) (string, error) {
	fmt.Fprint(s.out, p)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(s.in.Text()), nil
}

// promptAmount re-prompts until the input parses as a number of a size the
// ledger can hold.
func (s *Shell) promptAmount(p string) (decimal.Decimal, error) {
	for {
		raw, err := s.prompt(p)
		if err != nil {
			return decimal.Zero, err
		}
		amount, err := decimal.NewFromString(raw)
		switch {
		case err != nil:
			s.println("Invalid input. Please enter a numeric value.")
		case !domain.AmountExponentInRange(amount):
			s.println("Invalid input. Amount is out of range.")
		default:
			return amount, nil
		}
	}
}

func (s *Shell) println(a ...any) {
	fmt.Fprintln(s.out, a...)
}

func (s *Shell) printf(format string, a ...any) {
	fmt.Fprintf(s.out, format, a...)
}

func (s *Shell) money(d decimal.Decimal) string {
	return d.StringFixed(s.scale)
}

// report prints an operation error. Unexpected errors are logged with
// their cause and shown without it.
func (s *Shell) report(err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		appErr = apperror.InternalError(err)
	}
	switch appErr.Code {
	case apperror.CodeInternal, apperror.CodeStoreUnavailable:
		s.log.Error().Err(err).Str("error_code", appErr.Code).Msg("operation failed")
		s.println("Something went wrong, please try again.")
	default:
		s.println(appErr.Message + ".")
	}
}

// endOfInput turns a closed input into a clean exit.
func endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
