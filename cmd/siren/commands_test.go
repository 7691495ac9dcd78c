package main

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/dangerclosesec/siren/internal/auth"
	"github.com/dangerclosesec/siren/internal/config"
	"github.com/dangerclosesec/siren/internal/handler"
	"github.com/dangerclosesec/siren/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProgram(t *testing.T, name, source string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Cleanup(func() {
		verbose = false
		tokenClient = "cli"
		serverURL = ""
	})

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func TestCheckCommand(t *testing.T) {
	good := writeProgram(t, "good.siren", "LET a = 1\nPRINT a\n")
	bad := writeProgram(t, "bad.siren", "PRINT b\n")

	out, err := execute(t, "check", good)
	require.NoError(t, err)
	assert.Equal(t, "Parsing completed.\n", out)

	out, err = execute(t, "check", good, bad, good)
	assert.ErrorIs(t, err, errRejected)
	assert.Contains(t, out, "Parsing completed.\n")
	assert.Contains(t, out, "bad.siren: error while parsing: referencing variable before assignment")
	assert.Equal(t, 1, bytes.Count([]byte(out), []byte("Parsing completed.")))
}

func TestCheckCommandVerbose(t *testing.T) {
	good := writeProgram(t, "good.siren", "LET a = 1\nPRINT a\n")

	out, err := execute(t, "check", "--verbose", good)
	require.NoError(t, err)
	assert.Contains(t, out, `"statements": 2`)
	assert.Contains(t, out, `"symbols": [`)
}

func TestCheckCommandMissingFile(t *testing.T) {
	_, err := execute(t, "check", filepath.Join(t.TempDir(), "missing.siren"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, errRejected)
}

func TestTokensCommand(t *testing.T) {
	path := writeProgram(t, "t.siren", "LET a = 1\n")

	out, err := execute(t, "tokens", path)
	require.NoError(t, err)
	assert.Contains(t, out, "LET")
	assert.Contains(t, out, "IDENT")
	assert.Contains(t, out, "EOF")

	path = writeProgram(t, "bad.siren", "LET a = 1 @\n")
	out, err = execute(t, "tokens", path)
	assert.ErrorIs(t, err, errRejected)
	assert.Contains(t, out, "NUMBER")
	assert.Contains(t, out, "unknown character")
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")

	out, err := execute(t, "token", "--client", "ci")
	require.NoError(t, err)

	claims, err := auth.NewTokenManager("cli-secret", 0).Validate(string(bytes.TrimSpace([]byte(out))))
	require.NoError(t, err)
	assert.Equal(t, "ci", claims.Client)
}

func TestCheckCommandRemote(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.MaxSourceBytes = 1024
	h := handler.NewCheckHandler(service.NewCheckService(nil, nil, cfg, nil))

	r := chi.NewRouter()
	r.Post("/api/check", h.Check)
	server := httptest.NewServer(r)
	defer server.Close()

	good := writeProgram(t, "good.siren", "LET a = 1\nPRINT a\n")
	bad := writeProgram(t, "bad.siren", "GOTO nowhere\n")

	out, err := execute(t, "check", "--server", server.URL, good)
	require.NoError(t, err)
	assert.Equal(t, "Parsing completed.\n", out)

	out, err = execute(t, "check", "--server", server.URL, bad)
	assert.ErrorIs(t, err, errRejected)
	assert.Contains(t, out, "undeclared label")
}
