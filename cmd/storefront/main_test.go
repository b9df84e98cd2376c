package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fjod/storefront/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", "cli-secret")

	out, err := runRoot(t, "token", "--payload", `{"email":"admin@example.com"}`)
	require.NoError(t, err)

	identity, err := auth.NewTokenManager("cli-secret", time.Hour).Verify(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", identity.Email())
}

func TestTokenCommand_ConfigFile(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", "")
	path := filepath.Join(t.TempDir(), "storefront.yaml")
	require.NoError(t, os.WriteFile(path, []byte("jwt_secret: file-secret\n"), 0o600))

	out, err := runRoot(t, "token", "--config", path, "--payload", `{"email":"a@example.com"}`)
	require.NoError(t, err)

	_, err = auth.NewTokenManager("file-secret", time.Hour).Verify(strings.TrimSpace(out))
	assert.NoError(t, err)
}

func TestTokenCommand_Errors(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", "cli-secret")

	_, err := runRoot(t, "token", "--payload", "not json")
	assert.Error(t, err)

	_, err = runRoot(t, "token", "--payload", "{}")
	assert.Error(t, err)

	t.Setenv("JWT_ACCESS_SECRET", "")
	_, err = runRoot(t, "token", "--payload", `{"email":"a@example.com"}`)
	assert.ErrorContains(t, err, "JWT_ACCESS_SECRET is required")
}
