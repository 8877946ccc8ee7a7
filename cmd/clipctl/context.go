package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"referencer/internal/adapters/apiclient"
)

const defaultServerURL = "http://localhost:8080"

// commandContext builds the API client lazily so commands that never hit the
// server (help, completion) pay nothing.
type commandContext struct {
	serverFlag *string

	clientOnce sync.Once
	client     *apiclient.Client
	clientErr  error
}

func newCommandContext(serverFlag *string) *commandContext {
	return &commandContext{serverFlag: serverFlag}
}

func (c *commandContext) serverURL() string {
	if c.serverFlag != nil {
		if v := strings.TrimSpace(*c.serverFlag); v != "" {
			return v
		}
	}
	if v := os.Getenv("REFERENCER_SERVER"); v != "" {
		return v
	}
	return defaultServerURL
}

// ensureClient returns the shared API client, seeded with the saved session
// cookie when one exists.
func (c *commandContext) ensureClient() (*apiclient.Client, error) {
	c.clientOnce.Do(func() {
		client, err := apiclient.New(c.serverURL())
		if err != nil {
			c.clientErr = err
			return
		}
		if token, err := loadSession(); err == nil && token != "" {
			client.SetSessionCookie(token)
		}
		c.client = client
	})
	return c.client, c.clientErr
}

func sessionFilePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "referencer", "session"), nil
}

func loadSession() (string, error) {
	path, err := sessionFilePath()
	if err != nil {
		return "", err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

func saveSession(token string) error {
	path, err := sessionFilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

func clearSession() error {
	path, err := sessionFilePath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
