//go:build integration
// +build integration

package integration

import (
	"encoding/json"
	"net/http"
	"os"
	"testing"

	"github.com/gokatarajesh/mcq-platform/internal/auth/jwt"
)

func envOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func baseURL() string {
	return envOrDefault("INTEGRATION_BASE_URL", "http://localhost:8080")
}

// mintToken signs a token with the secret the server under test was started with.
func mintToken(t *testing.T, subject jwt.Subject) string {
	t.Helper()
	secret := os.Getenv("INTEGRATION_JWT_SECRET")
	if secret == "" {
		t.Skip("INTEGRATION_JWT_SECRET not set")
	}
	token, err := jwt.NewManager(jwt.TokenConfig{
		Secret: []byte(secret),
		Issuer: envOrDefault("INTEGRATION_APP_NAME", "mcq-platform"),
	}).Generate(subject)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func getJSON(t *testing.T, url, token string) (int, map[string]interface{}) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request %s failed: %v", url, err)
	}
	defer resp.Body.Close()

	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response from %s: %v", url, err)
	}
	return resp.StatusCode, body
}
