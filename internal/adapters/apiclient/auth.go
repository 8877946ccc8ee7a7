package apiclient

import (
	"context"
	"net/http"
)

// Identity is the account behind the current session.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp creates an account and starts a session. The session cookie lands
// in the client's jar.
func (c *Client) SignUp(ctx context.Context, email, password string) (Identity, error) {
	var id Identity
	err := c.do(ctx, http.MethodPost, "/api/auth/sign-up", credentials{Email: email, Password: password}, &id)
	return id, err
}

// SignIn authenticates and starts a session. Bad credentials come back as
// ErrUnauthorized; the server does not say which part was wrong.
func (c *Client) SignIn(ctx context.Context, email, password string) (Identity, error) {
	var id Identity
	err := c.do(ctx, http.MethodPost, "/api/auth/sign-in", credentials{Email: email, Password: password}, &id)
	return id, err
}

// SignOut ends the session on the server. The stale cookie in the jar is
// harmless; the server no longer recognizes it.
func (c *Client) SignOut(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/sign-out", nil, nil)
}

// Me reports the signed-in account, or ErrUnauthorized when the session has
// expired.
func (c *Client) Me(ctx context.Context) (Identity, error) {
	var id Identity
	err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &id)
	return id, err
}
