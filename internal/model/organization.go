package model

import "time"

// Organization はチーム・組織のプロフィールを表す。
// アカウントと1対1で紐付く。
type Organization struct {
	ID          string
	AccountID   string
	Name        string
	Region      string
	Description string
	Website     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RosterMember は組織に所属する選手を表す。
// (OrganizationID, PlayerAccountID) の組は一意。
type RosterMember struct {
	ID              string
	OrganizationID  string
	PlayerAccountID string
	JoinedAt        time.Time
}
