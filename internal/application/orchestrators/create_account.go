package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	emailAdapter "referencer/internal/adapters/email"
	"referencer/internal/domain/account"
)

// AccountStoreForCreate defines the store interface needed by CreateAccount.
type AccountStoreForCreate interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

// CreateAccountInput carries input for the orchestrator.
type CreateAccountInput struct {
	Email    string
	Password string
}

// CreateAccountResult carries the created account's identity.
type CreateAccountResult struct {
	AccountID string
	Email     string
}

// CreateAccountDeps holds dependencies for CreateAccount.
type CreateAccountDeps struct {
	AccountStore AccountStoreForCreate
	EmailSender  emailAdapter.Sender
	EmailFrom    string
	EmailReplyTo string
	GenerateID   func() string
	Now          func() time.Time
}

var ErrEmailTaken = errors.New("an account with this email already exists")

// ExecuteCreateAccount coordinates account creation.
// PRE: Valid email, password >= 8 chars
// POST: Account created with hashed password; welcome email queued
// INVARIANT: Email must be unique
func ExecuteCreateAccount(ctx context.Context, input CreateAccountInput, deps CreateAccountDeps) (CreateAccountResult, error) {
	if input.Email == "" {
		return CreateAccountResult{}, account.ErrEmptyEmail
	}
	if input.Password == "" {
		return CreateAccountResult{}, account.ErrEmptyPassword
	}

	// Check if email already exists
	if _, err := deps.AccountStore.GetByEmail(ctx, input.Email); err == nil {
		return CreateAccountResult{}, ErrEmailTaken
	}

	acct := account.Account{
		ID:        deps.GenerateID(),
		Email:     input.Email,
		CreatedAt: deps.Now(),
	}

	// Validate domain rules
	if err := acct.Validate(); err != nil {
		return CreateAccountResult{}, err
	}

	// Set password (handles hashing and length validation)
	if err := acct.SetPassword(input.Password); err != nil {
		return CreateAccountResult{}, err
	}

	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return CreateAccountResult{}, err
	}

	slog.Info("auth_event", "event", "account_created", "email", input.Email)

	// Welcome email is best-effort; account creation never fails on it
	if deps.EmailSender != nil {
		_, err := deps.EmailSender.Send(ctx, emailAdapter.SendRequest{
			To:      []string{acct.Email},
			From:    deps.EmailFrom,
			ReplyTo: deps.EmailReplyTo,
			Subject: "Welcome to Referencer",
			HTML:    welcomeEmailHTML(acct.Email),
		})
		if err != nil {
			slog.Warn("welcome_email_failed", "email", acct.Email, "error", err)
		}
	}

	return CreateAccountResult{AccountID: acct.ID, Email: acct.Email}, nil
}

func welcomeEmailHTML(email string) string {
	return fmt.Sprintf(
		`<p>Hi %s,</p>
<p>Your Referencer account is ready. Install the browser extension, sign in,
and start capturing clips from any YouTube video.</p>
<p>Your clips and tags live in the dashboard.</p>`, email)
}
