package cli

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/catalogview/internal/config"
)

func TestAuthLoginStatusLogout(t *testing.T) {
	home := setupCLITest(t)

	out, _, err := executeCmd(t, "", "auth", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in")

	out, _, err = executeCmd(t, "", "auth", "login", "--token", "secret-token-1234")
	require.NoError(t, err)
	assert.Contains(t, out, "Token saved to "+filepath.Join(home, "token"))

	info, err := os.Stat(filepath.Join(home, "token"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	out, _, err = executeCmd(t, "", "auth", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "*************1234")
	assert.Contains(t, out, "from token file")
	assert.NotContains(t, out, "secret")

	out, _, err = executeCmd(t, "", "auth", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Token removed")

	out, _, err = executeCmd(t, "", "auth", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in")
}

func TestAuthLogin_FromStdin(t *testing.T) {
	setupCLITest(t)

	_, _, err := executeCmd(t, "piped-token\n", "auth", "login")
	require.NoError(t, err)

	token, err := config.LoadToken()
	require.NoError(t, err)
	assert.Equal(t, "piped-token", token)

	_, _, err = executeCmd(t, "\n", "auth", "login")
	require.ErrorIs(t, err, errEmptyToken)
}

func TestAuthStatus_EnvToken(t *testing.T) {
	setupCLITest(t)
	t.Setenv(config.EnvToken, "env-token-abcd")

	out, _, err := executeCmd(t, "", "auth", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "abcd")
	assert.Contains(t, out, "from "+config.EnvToken)
}

func TestMaskToken(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{"", ""},
		{"abc", "***"},
		{"abcd", "****"},
		{"abcdef", "**cdef"},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.want, maskToken(tt.token))
		})
	}
}

func TestTokenSentToAPI(t *testing.T) {
	setupCLITest(t)
	t.Setenv(config.EnvToken, "bearer-me")

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeTestJSON(w, []any{})
	}))
	t.Cleanup(srv.Close)

	_, _, err := executeCmd(t, "", "--api-url", srv.URL, "--no-cache", "products", "tree")
	require.NoError(t, err)
	assert.Equal(t, "Bearer bearer-me", gotAuth)
}
