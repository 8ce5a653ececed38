package model

import "time"

// Profile は選手プロフィールを表す。
// アカウントと1対1で紐付く。
type Profile struct {
	ID             string
	AccountID      string
	DisplayName    string
	GameTitle      string
	InGameRole     string
	Region         string
	RankTier       string
	Bio            string
	LookingForTeam bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
