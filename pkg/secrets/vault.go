// Package secrets copies credentials from a Vault KV secret into the
// process environment before configuration is read.
package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// VaultConfig locates the secret holding DB_PASSWORD, REDIS_PASSWORD,
// TYPESENSE_API_KEY and the like
type VaultConfig struct {
	Enabled   bool
	Addr      string
	Token     string
	Namespace string
	Mount     string
	Path      string
	KVVersion int
	Timeout   time.Duration
	// Overwrite replaces variables that are already set
	Overwrite bool
}

// VaultResult reports how many keys were applied
type VaultResult struct {
	Loaded  int
	Skipped int
}

// ErrIncompleteConfig is returned when Vault is enabled without an
// address, token or path
var ErrIncompleteConfig = errors.New("vault enabled but VAULT_ADDR, VAULT_TOKEN or VAULT_PATH is missing")

// VaultConfigFromEnv reads the VAULT_* variables
func VaultConfigFromEnv() VaultConfig {
	cfg := VaultConfig{
		Enabled:   strings.EqualFold(os.Getenv("VAULT_ENABLED"), "true"),
		Addr:      os.Getenv("VAULT_ADDR"),
		Token:     os.Getenv("VAULT_TOKEN"),
		Namespace: os.Getenv("VAULT_NAMESPACE"),
		Mount:     os.Getenv("VAULT_MOUNT"),
		Path:      os.Getenv("VAULT_PATH"),
		KVVersion: 2,
		Timeout:   5 * time.Second,
		Overwrite: strings.EqualFold(os.Getenv("VAULT_OVERWRITE"), "true"),
	}
	if cfg.Mount == "" {
		cfg.Mount = "secret"
	}
	if v, err := strconv.Atoi(os.Getenv("VAULT_KV_VERSION")); err == nil {
		cfg.KVVersion = v
	}
	if ms, err := strconv.Atoi(os.Getenv("VAULT_TIMEOUT_MS")); err == nil && ms > 0 {
		cfg.Timeout = time.Duration(ms) * time.Millisecond
	}
	return cfg
}

// Apply fetches the secret and sets each key as an environment variable.
// It does nothing when cfg is disabled.
func Apply(ctx context.Context, cfg VaultConfig) (VaultResult, error) {
	var result VaultResult
	if !cfg.Enabled {
		return result, nil
	}
	if cfg.Addr == "" || cfg.Token == "" || cfg.Path == "" {
		return result, ErrIncompleteConfig
	}

	data, err := fetch(ctx, cfg)
	if err != nil {
		return result, err
	}

	for key, value := range data {
		if !cfg.Overwrite && os.Getenv(key) != "" {
			result.Skipped++
			continue
		}
		if err := os.Setenv(key, stringify(value)); err != nil {
			return result, fmt.Errorf("failed to set %s: %w", key, err)
		}
		result.Loaded++
	}
	return result, nil
}

func secretURL(cfg VaultConfig) string {
	addr := strings.TrimRight(cfg.Addr, "/")
	mount := strings.Trim(cfg.Mount, "/")
	path := strings.TrimLeft(cfg.Path, "/")
	if cfg.KVVersion == 1 {
		return fmt.Sprintf("%s/v1/%s/%s", addr, mount, path)
	}
	return fmt.Sprintf("%s/v1/%s/data/%s", addr, mount, path)
}

// kvResponse covers both KV engine versions. Version 2 nests the values
// one level deeper under data.data.
type kvResponse struct {
	Data json.RawMessage `json:"data"`
}

func fetch(ctx context.Context, cfg VaultConfig) (map[string]interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, secretURL(cfg), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Vault-Token", cfg.Token)
	if cfg.Namespace != "" {
		req.Header.Set("X-Vault-Namespace", cfg.Namespace)
	}

	client := &http.Client{Timeout: cfg.Timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vault request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vault returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var outer kvResponse
	if err := json.Unmarshal(body, &outer); err != nil {
		return nil, fmt.Errorf("failed to decode vault response: %w", err)
	}
	if cfg.KVVersion != 1 {
		var inner kvResponse
		if err := json.Unmarshal(outer.Data, &inner); err != nil {
			return nil, fmt.Errorf("failed to decode vault response: %w", err)
		}
		outer = inner
	}

	var data map[string]interface{}
	if err := json.Unmarshal(outer.Data, &data); err != nil || data == nil {
		return nil, fmt.Errorf("vault secret %s has no data", cfg.Path)
	}
	return data, nil
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case nil:
		return ""
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(encoded)
	}
}
