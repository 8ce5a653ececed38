package auth

import (
	"testing"
	"time"

	"github.com/hitoshi/scoutbase/internal/model"
)

func newTestTokenManager(t *testing.T) *TokenManager {
	t.Helper()
	m, err := NewTokenManager(TokenConfig{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("NewTokenManager returned error: %v", err)
	}
	return m
}

func TestNewTokenManagerValidation(t *testing.T) {
	tests := []struct {
		name   string
		config TokenConfig
	}{
		{"アクセス鍵が空", TokenConfig{RefreshSecret: "r", AccessTTL: time.Minute, RefreshTTL: time.Minute}},
		{"リフレッシュ鍵が空", TokenConfig{AccessSecret: "a", AccessTTL: time.Minute, RefreshTTL: time.Minute}},
		{"アクセスTTLが0", TokenConfig{AccessSecret: "a", RefreshSecret: "r", RefreshTTL: time.Minute}},
		{"リフレッシュTTLが負", TokenConfig{AccessSecret: "a", RefreshSecret: "r", AccessTTL: time.Minute, RefreshTTL: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTokenManager(tt.config); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newTestTokenManager(t)

	token, err := m.IssueAccessToken("account-1", model.RolePlayer)
	if err != nil {
		t.Fatalf("IssueAccessToken returned error: %v", err)
	}

	claims, err := m.VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("VerifyAccessToken returned error: %v", err)
	}
	if claims.Subject != "account-1" {
		t.Errorf("Subject = %q, want %q", claims.Subject, "account-1")
	}
	if claims.Role != model.RolePlayer {
		t.Errorf("Role = %q, want %q", claims.Role, model.RolePlayer)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	m := newTestTokenManager(t)

	token, err := m.IssueRefreshToken("account-2", model.RoleOrganization)
	if err != nil {
		t.Fatalf("IssueRefreshToken returned error: %v", err)
	}

	claims, err := m.VerifyRefreshToken(token)
	if err != nil {
		t.Fatalf("VerifyRefreshToken returned error: %v", err)
	}
	if claims.Subject != "account-2" {
		t.Errorf("Subject = %q, want %q", claims.Subject, "account-2")
	}
	if claims.Role != model.RoleOrganization {
		t.Errorf("Role = %q, want %q", claims.Role, model.RoleOrganization)
	}
}

func TestAccessTokenRejectedAsRefreshToken(t *testing.T) {
	// 署名鍵が異なるため、アクセストークンはリフレッシュ検証を通らない
	m := newTestTokenManager(t)

	token, err := m.IssueAccessToken("account-1", model.RolePlayer)
	if err != nil {
		t.Fatalf("IssueAccessToken returned error: %v", err)
	}

	if _, err := m.VerifyRefreshToken(token); err == nil {
		t.Error("access token should not verify as refresh token")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	m := newTestTokenManager(t)
	other, err := NewTokenManager(TokenConfig{
		AccessSecret:  "different-access-secret",
		RefreshSecret: "different-refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    time.Hour,
	})
	if err != nil {
		t.Fatalf("NewTokenManager returned error: %v", err)
	}

	token, err := other.IssueAccessToken("account-1", model.RolePlayer)
	if err != nil {
		t.Fatalf("IssueAccessToken returned error: %v", err)
	}

	if _, err := m.VerifyAccessToken(token); err == nil {
		t.Error("token signed with a different secret should be rejected")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	expired, err := NewTokenManager(TokenConfig{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessTTL:     time.Nanosecond,
		RefreshTTL:    time.Hour,
	})
	if err != nil {
		t.Fatalf("NewTokenManager returned error: %v", err)
	}

	token, err := expired.IssueAccessToken("account-1", model.RolePlayer)
	if err != nil {
		t.Fatalf("IssueAccessToken returned error: %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	if _, err := expired.VerifyAccessToken(token); err == nil {
		t.Error("expired token should be rejected")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := newTestTokenManager(t)
	if _, err := m.VerifyAccessToken("not-a-jwt"); err == nil {
		t.Error("garbage input should be rejected")
	}
}
