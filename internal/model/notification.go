package model

import "time"

// NotificationKind は通知の種別を表す。
type NotificationKind string

const (
	// NotificationKindApplicationReceived は募集への新規応募の通知（組織向け）。
	NotificationKindApplicationReceived NotificationKind = "application_received"
	// NotificationKindApplicationSelected は採用通知（選手向け）。
	NotificationKindApplicationSelected NotificationKind = "application_selected"
	// NotificationKindApplicationRejected は不採用通知（選手向け）。
	NotificationKindApplicationRejected NotificationKind = "application_rejected"
	// NotificationKindSystem は運営からのお知らせ。
	NotificationKindSystem NotificationKind = "system"
)

// Notification はアカウント宛ての通知を表す。
type Notification struct {
	ID        string
	AccountID string
	Kind      NotificationKind
	Title     string
	Body      string
	IsRead    bool
	CreatedAt time.Time
}
