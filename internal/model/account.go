// Package model はドメインモデルを定義する。
package model

import "time"

// Role はアカウントの種別を表す。
type Role string

const (
	// RolePlayer は選手アカウント。
	RolePlayer Role = "player"
	// RoleOrganization はチーム・組織アカウント。
	RoleOrganization Role = "organization"
)

// IsValid はRoleが定義済みの値であるかを返す。
func (r Role) IsValid() bool {
	return r == RolePlayer || r == RoleOrganization
}

// Account は認証アカウントを表す。
// OTPとOTPExpiresAtは両方設定されているか両方nilであることが不変条件。
// アカウントは物理削除されない。
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	IsVerified   bool
	OTP          *string
	OTPExpiresAt *time.Time
	RefreshToken *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
