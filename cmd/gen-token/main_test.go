package main

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/bytedance/sonic"

	"task-manager/api"
)

func TestUserIDs(t *testing.T) {
	tests := []struct {
		name  string
		count int
		args  []string
		want  []string
	}{
		{name: "single", count: 1, want: []string{"user"}},
		{name: "explicit", count: 1, args: []string{"ana"}, want: []string{"ana"}},
		{name: "numbered", count: 3, want: []string{"user-5", "user-6", "user-7"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := userIDs(tt.count, "user", 5, tt.args); !slices.Equal(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGeneratedTokensAreAccepted(t *testing.T) {
	opts := tokenOptions{secret: "s3cret", audience: "tasks-api", issuer: "https://tenant.example/", ttl: time.Hour}
	tokens, err := generateTokens(opts, []string{"ana", "ben"}, time.Now())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	auth, err := api.NewAuthenticator(api.AuthConfig{
		Mode:         api.AuthModeHS256,
		SharedSecret: opts.secret,
		Audience:     opts.audience,
		Issuer:       opts.issuer,
	})
	if err != nil {
		t.Fatalf("authenticator: %v", err)
	}
	for i, want := range []string{"ana", "ben"} {
		got, err := auth.UserIDFromAuthHeader("Bearer " + tokens[i])
		if err != nil || got != want {
			t.Fatalf("token %d: got %q, %v", i, got, err)
		}
	}

	expired, err := generateTokens(opts, []string{"ana"}, time.Now().Add(-2*time.Hour))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := auth.UserIDFromAuthHeader("Bearer " + expired[0]); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestGenerateTokensRequiresSecret(t *testing.T) {
	if _, err := generateTokens(tokenOptions{ttl: time.Hour}, []string{"ana"}, time.Now()); err == nil {
		t.Fatalf("expected error without a secret")
	}
}

func TestWriteTokens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tokens.json")
	if err := writeTokens(path, []string{"a", "b"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got []string
	if err := sonic.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !slices.Equal(got, []string{"a", "b"}) {
		t.Fatalf("unexpected tokens %v", got)
	}
}
