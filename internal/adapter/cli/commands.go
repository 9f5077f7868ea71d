package cli

import (
	"context"
	"errors"

	"simple-bank-ledger/internal/core/ports"
	"simple-bank-ledger/pkg/apperror"
)

// register collects the registration fields and re-asks only the field
// the service rejected. A successful registration logs the user in.
func (s *Shell) register(ctx context.Context) error {
	var req ports.RegisterRequest
	fields := []string{"full_name", "username", "password", "initial_deposit"}

	for len(fields) > 0 {
		for _, field := range fields {
			if err := s.collect(field, &req); err != nil {
				return err
			}
		}
		fields = nil

		account, err := s.auth.Register(ctx, req)
		if err == nil {
			s.printf("Registration successful! Your account number is %s.\n", account.AccountNumber)
			s.openSession(ctx, account)
			return nil
		}

		var appErr *apperror.AppError
		switch {
		case errors.As(err, &appErr) && appErr.Code == apperror.CodeValidation && appErr.Field != "":
			s.println(appErr.Message + ".")
			fields = []string{appErr.Field}
		case apperror.Is(err, apperror.CodeUsernameExists):
			s.println("Username already exists. Please choose a different username.")
			fields = []string{"username"}
		default:
			s.report(err)
			return nil
		}
	}
	return nil
}

func (s *Shell) collect(field string, req *ports.RegisterRequest) error {
	var err error
	switch field {
	case "full_name":
		req.FullName, err = s.prompt("Enter your full name: ")
	case "username":
		req.Username, err = s.prompt("Choose a username: ")
	case "password":
		req.Password, err = s.readPassword("Choose a password: ")
	case "initial_deposit":
		req.InitialDeposit, err = s.promptAmount("Enter initial deposit: ")
	}
	return err
}

func (s *Shell) login(ctx context.Context) error {
	username, err := s.prompt("Enter your username: ")
	if err != nil {
		return err
	}
	password, err := s.readPassword("Enter your password: ")
	if err != nil {
		return err
	}
	if username == "" || password == "" {
		s.println("Username and password cannot be blank.")
		return nil
	}

	account, err := s.auth.Authenticate(ctx, username, password)
	if err != nil {
		s.report(err)
		return nil
	}
	s.openSession(ctx, account)
	if s.session != nil {
		s.println("Login successful!")
	}
	return nil
}

func (s *Shell) deposit(ctx context.Context) error {
	amount, err := s.promptAmount("Enter deposit amount: ")
	if err != nil {
		return err
	}
	balance, err := s.ledger.Deposit(ctx, s.session.AccountID, amount)
	if err != nil {
		s.report(err)
		return nil
	}
	s.printf("Successfully deposited %s. New balance: %s\n", s.money(amount), s.money(balance))
	return nil
}

func (s *Shell) withdraw(ctx context.Context) error {
	amount, err := s.promptAmount("Enter withdrawal amount: ")
	if err != nil {
		return err
	}
	balance, err := s.ledger.Withdraw(ctx, s.session.AccountID, amount)
	if err != nil {
		s.report(err)
		return nil
	}
	s.printf("Successfully withdrew %s. New balance: %s\n", s.money(amount), s.money(balance))
	return nil
}

func (s *Shell) balance(ctx context.Context) error {
	balance, err := s.ledger.Balance(ctx, s.session.AccountID)
	if err != nil {
		s.report(err)
		return nil
	}
	s.printf("Your current balance is: %s\n", s.money(balance))
	return nil
}

func (s *Shell) history(ctx context.Context) error {
	txns, err := s.ledger.History(ctx, s.session.AccountID)
	if err != nil {
		s.report(err)
		return nil
	}
	if len(txns) == 0 {
		s.println("No transactions found.")
		return nil
	}
	s.println("Transaction History:")
	for _, t := range txns {
		s.printf("%s: %s of %s\n", t.CreatedAt.Local().Format("2006-01-02 15:04:05"), t.Kind, s.money(t.Amount))
	}
	return nil
}

func (s *Shell) transfer(ctx context.Context) error {
	number, err := s.prompt("Enter recipient's account number: ")
	if err != nil {
		return err
	}
	amount, err := s.promptAmount("Enter transfer amount: ")
	if err != nil {
		return err
	}

	result, err := s.ledger.Transfer(ctx, ports.TransferRequest{
		SenderID:               s.session.AccountID,
		RecipientAccountNumber: number,
		Amount:                 amount,
	})
	if err != nil {
		s.report(err)
		return nil
	}
	s.printf("Successfully transferred %s to %s's account. New balance: %s\n",
		s.money(amount), result.RecipientName, s.money(result.SenderBalance))
	return nil
}

func (s *Shell) details(ctx context.Context) error {
	account, err := s.ledger.AccountDetails(ctx, s.session.AccountID)
	if err != nil {
		s.report(err)
		return nil
	}
	s.printf("Account Details:\nFull Name: %s\nAccount Number: %s\nBalance: %s\n",
		account.FullName, account.AccountNumber, s.money(account.Balance))
	return nil
}
