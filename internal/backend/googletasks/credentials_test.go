package googletasks_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/oauth2"

	"todolist/internal/backend/googletasks"
	"todolist/internal/config"
)

func TestSaveToken_CreatesDirWithPrivateFile(t *testing.T) {
	cfg := config.New(filepath.Join(t.TempDir(), "nested"))

	if err := googletasks.SaveToken(cfg, &oauth2.Token{AccessToken: "a", RefreshToken: "r"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info, err := os.Stat(cfg.TokenPath())
	if err != nil {
		t.Fatalf("token not written: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
	}

	token, err := googletasks.LoadToken(cfg.TokenPath())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token.RefreshToken != "r" {
		t.Errorf("expected refresh token %q, got %q", "r", token.RefreshToken)
	}
}

func TestLoadToken_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	if err := os.WriteFile(path, []byte("not json"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := googletasks.LoadToken(path); err == nil {
		t.Error("expected error for a corrupt token file")
	}
}

func TestTokenUsable_NoRefreshToken(t *testing.T) {
	cfg := config.New(t.TempDir())
	if err := googletasks.SaveToken(cfg, &oauth2.Token{AccessToken: "a"}); err != nil {
		t.Fatal(err)
	}

	if googletasks.TokenUsable(context.Background(), cfg) {
		t.Error("a token without refresh token must not be usable")
	}
}

func TestTokenUsable_Missing(t *testing.T) {
	if googletasks.TokenUsable(context.Background(), config.New(t.TempDir())) {
		t.Error("a missing token must not be usable")
	}
}
