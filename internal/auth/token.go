package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hitoshi/scoutbase/internal/model"
)

// tokenIssuer はJWTのiss Claimに設定する発行者名。
const tokenIssuer = "scoutbase"

// Claims はアクセストークンとリフレッシュトークンに共通のJWT Claims。
// アカウントIDとロールを運び、有効期限と署名鍵のみで両者を区別する。
type Claims struct {
	Role model.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenConfig はトークン発行の設定。
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// TokenManager はHS256署名のJWTアクセス/リフレッシュトークンを発行・検証する。
type TokenManager struct {
	config TokenConfig
}

// NewTokenManager はTokenManagerを生成する。
// 署名鍵が空、またはTTLが0以下の場合はエラーを返す。
func NewTokenManager(config TokenConfig) (*TokenManager, error) {
	if config.AccessSecret == "" || config.RefreshSecret == "" {
		return nil, fmt.Errorf("token secrets are required")
	}
	if config.AccessTTL <= 0 || config.RefreshTTL <= 0 {
		return nil, fmt.Errorf("token TTLs must be positive")
	}
	return &TokenManager{config: config}, nil
}

// IssueAccessToken はアクセストークンを発行する。
func (m *TokenManager) IssueAccessToken(accountID string, role model.Role) (string, error) {
	return m.issue(accountID, role, m.config.AccessTTL, m.config.AccessSecret)
}

// IssueRefreshToken はリフレッシュトークンを発行する。
func (m *TokenManager) IssueRefreshToken(accountID string, role model.Role) (string, error) {
	return m.issue(accountID, role, m.config.RefreshTTL, m.config.RefreshSecret)
}

// issue は指定された鍵とTTLでJWTを発行する。
func (m *TokenManager) issue(accountID string, role model.Role, ttl time.Duration, secret string) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// VerifyAccessToken はアクセストークンを検証し、Claimsを返す。
func (m *TokenManager) VerifyAccessToken(tokenString string) (*Claims, error) {
	return m.verify(tokenString, m.config.AccessSecret)
}

// VerifyRefreshToken はリフレッシュトークンを検証し、Claimsを返す。
func (m *TokenManager) VerifyRefreshToken(tokenString string) (*Claims, error) {
	return m.verify(tokenString, m.config.RefreshSecret)
}

// verify はJWTの署名と有効期限を検証する。
// 署名アルゴリズムはHS256のみ受け付ける。
func (m *TokenManager) verify(tokenString, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
