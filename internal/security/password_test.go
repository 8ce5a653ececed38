package security

import (
	"strings"
	"testing"
)

// TestHashPassword はハッシュ化が成功し、平文がハッシュに含まれないことを検証する。
func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword() error: %v", err)
	}
	if hash == "" {
		t.Fatal("HashPassword() returned empty hash")
	}
	if strings.Contains(hash, "password123") {
		t.Error("hash must not contain the plaintext password")
	}
	// bcryptハッシュのプレフィックス
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("hash = %q, expected bcrypt format", hash)
	}
}

// TestHashPasswordUniqueSalt は同一パスワードでもハッシュが毎回異なることを検証する。
func TestHashPasswordUniqueSalt(t *testing.T) {
	hash1, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword() error: %v", err)
	}
	hash2, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword() error: %v", err)
	}
	if hash1 == hash2 {
		t.Error("two hashes of the same password should differ (random salt)")
	}
}

// TestComparePassword は照合の成功と失敗を検証する。
func TestComparePassword(t *testing.T) {
	hash, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword() error: %v", err)
	}

	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"正しいパスワード", "password123", true},
		{"誤ったパスワード", "wrong-password", false},
		{"空文字列", "", false},
		{"大文字小文字の違い", "Password123", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComparePassword(hash, tt.password); got != tt.want {
				t.Errorf("ComparePassword() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestComparePasswordInvalidHash は不正なハッシュに対してfalseを返すことを検証する。
func TestComparePasswordInvalidHash(t *testing.T) {
	if ComparePassword("not-a-bcrypt-hash", "password123") {
		t.Error("ComparePassword() should return false for a malformed hash")
	}
}
