package model

import "time"

// ScoutingStatus は募集の状態を表す。
type ScoutingStatus string

const (
	// ScoutingStatusOpen は応募受付中。
	ScoutingStatusOpen ScoutingStatus = "open"
	// ScoutingStatusClosed は募集終了。既存の応募には影響しない。
	ScoutingStatusClosed ScoutingStatus = "closed"
)

// IsValid はScoutingStatusが定義済みの値であるかを返す。
func (s ScoutingStatus) IsValid() bool {
	return s == ScoutingStatusOpen || s == ScoutingStatusClosed
}

// Scouting は組織が掲載する選手募集を表す。
type Scouting struct {
	ID             string
	OrganizationID string
	Title          string
	GameTitle      string
	Region         string
	MinRankTier    string
	RolesWanted    string
	Description    string
	Status         ScoutingStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ScoutingFilter は募集一覧の検索条件を表す。
// 空文字のフィールドは条件に含めない。
type ScoutingFilter struct {
	GameTitle string
	Region    string
	Status    string
	Limit     int
	Offset    int
}
