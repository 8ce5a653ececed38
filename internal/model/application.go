package model

import "time"

// ApplicationStatus は応募の状態を表す。
// pending → selected または rejected の一方向にのみ遷移する。
type ApplicationStatus string

const (
	// ApplicationStatusPending は選考待ち。
	ApplicationStatusPending ApplicationStatus = "pending"
	// ApplicationStatusSelected は採用済み。
	ApplicationStatusSelected ApplicationStatus = "selected"
	// ApplicationStatusRejected は不採用。
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// Application は募集への応募を表す。
// (ScoutingID, PlayerAccountID) の組は一意。
type Application struct {
	ID              string
	ScoutingID      string
	PlayerAccountID string
	Message         string
	Status          ApplicationStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
