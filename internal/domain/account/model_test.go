package account

import (
	"testing"
	"time"
)

// TestAccount_Validate tests email validation rules.
func TestAccount_Validate(t *testing.T) {
	a := Account{ID: "a1", Email: "user@example.com"}
	if err := a.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	a.Email = ""
	if err := a.Validate(); err != ErrEmptyEmail {
		t.Errorf("got %v, want ErrEmptyEmail", err)
	}

	a.Email = "no-at-sign"
	if err := a.Validate(); err != ErrInvalidEmail {
		t.Errorf("got %v, want ErrInvalidEmail", err)
	}
}

// TestAccount_PasswordRoundTrip tests hashing and verification.
func TestAccount_PasswordRoundTrip(t *testing.T) {
	a := Account{}
	if err := a.SetPassword("correct horse battery"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.PasswordHash == "" || a.PasswordHash == "correct horse battery" {
		t.Error("password was not hashed")
	}
	if err := a.CheckPassword("correct horse battery"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := a.CheckPassword("wrong"); err != ErrWrongPassword {
		t.Errorf("got %v, want ErrWrongPassword", err)
	}
}

// TestAccount_SetPassword_TooShort tests the minimum length rule.
func TestAccount_SetPassword_TooShort(t *testing.T) {
	a := Account{}
	if err := a.SetPassword("short"); err != ErrPasswordTooShort {
		t.Errorf("got %v, want ErrPasswordTooShort", err)
	}
	if err := a.SetPassword(""); err != ErrEmptyPassword {
		t.Errorf("got %v, want ErrEmptyPassword", err)
	}
}

// TestAccount_Lockout tests the failed-login lockout behaviour.
func TestAccount_Lockout(t *testing.T) {
	a := Account{}
	for i := 0; i < 4; i++ {
		a.RecordFailedLogin()
	}
	if a.IsLocked() {
		t.Error("account locked before 5 failures")
	}
	a.RecordFailedLogin()
	if !a.IsLocked() {
		t.Error("account not locked after 5 failures")
	}

	a.ResetFailedLogins()
	if a.IsLocked() || a.FailedLogins != 0 {
		t.Error("reset did not clear lockout")
	}
}

// TestAccount_IsLocked_Expired tests that an expired lock no longer blocks.
func TestAccount_IsLocked_Expired(t *testing.T) {
	a := Account{LockedUntil: time.Now().Add(-time.Minute)}
	if a.IsLocked() {
		t.Error("expired lock should not count as locked")
	}
}
