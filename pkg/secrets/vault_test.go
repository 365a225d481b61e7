package secrets

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vaultServer(t *testing.T, wantPath, body string, status int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, wantPath, r.URL.Path)
		assert.Equal(t, "s.token", r.Header.Get("X-Vault-Token"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestApply_KVv2(t *testing.T) {
	server := vaultServer(t, "/v1/secret/data/facility-directory",
		`{"data":{"data":{"DB_PASSWORD":"hunter2","REDIS_DB":3,"TYPESENSE_ENABLED":true},"metadata":{}}}`, http.StatusOK)

	t.Setenv("DB_PASSWORD", "")
	t.Setenv("REDIS_DB", "")
	t.Setenv("TYPESENSE_ENABLED", "false")

	result, err := Apply(t.Context(), VaultConfig{
		Enabled:   true,
		Addr:      server.URL + "/",
		Token:     "s.token",
		Mount:     "secret",
		Path:      "/facility-directory",
		KVVersion: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Loaded)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, "hunter2", os.Getenv("DB_PASSWORD"))
	assert.Equal(t, "3", os.Getenv("REDIS_DB"))
	assert.Equal(t, "false", os.Getenv("TYPESENSE_ENABLED"), "existing values win without overwrite")
}

func TestApply_KVv1Overwrite(t *testing.T) {
	server := vaultServer(t, "/v1/kv/app", `{"data":{"REDIS_PASSWORD":"secret"}}`, http.StatusOK)
	t.Setenv("REDIS_PASSWORD", "old")

	result, err := Apply(t.Context(), VaultConfig{
		Enabled: true, Addr: server.URL, Token: "s.token", Mount: "kv", Path: "app", KVVersion: 1, Overwrite: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Loaded)
	assert.Equal(t, "secret", os.Getenv("REDIS_PASSWORD"))
}

func TestApply_Failures(t *testing.T) {
	result, err := Apply(t.Context(), VaultConfig{})
	require.NoError(t, err, "disabled is a no-op")
	assert.Zero(t, result.Loaded)

	_, err = Apply(t.Context(), VaultConfig{Enabled: true, Addr: "http://vault"})
	assert.ErrorIs(t, err, ErrIncompleteConfig)

	denied := vaultServer(t, "/v1/secret/data/app", `{"errors":["permission denied"]}`, http.StatusForbidden)
	_, err = Apply(t.Context(), VaultConfig{Enabled: true, Addr: denied.URL, Token: "s.token", Mount: "secret", Path: "app", KVVersion: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")

	empty := vaultServer(t, "/v1/secret/data/app", `{"data":{}}`, http.StatusOK)
	_, err = Apply(t.Context(), VaultConfig{Enabled: true, Addr: empty.URL, Token: "s.token", Mount: "secret", Path: "app", KVVersion: 2})
	assert.Error(t, err)
}

func TestVaultConfigFromEnv(t *testing.T) {
	t.Setenv("VAULT_ENABLED", "TRUE")
	t.Setenv("VAULT_MOUNT", "")
	t.Setenv("VAULT_KV_VERSION", "1")
	t.Setenv("VAULT_TIMEOUT_MS", "250")

	cfg := VaultConfigFromEnv()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "secret", cfg.Mount)
	assert.Equal(t, 1, cfg.KVVersion)
	assert.Equal(t, int64(250), cfg.Timeout.Milliseconds())
}
