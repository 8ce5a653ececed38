// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/scoutbase/internal/model"
)

// AccountRepository はアカウントデータの永続化インターフェース。
type AccountRepository interface {
	// FindByID は指定IDのアカウントを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Account, error)

	// FindByEmail はメールアドレスでアカウントを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.Account, error)

	// Create はアカウントを作成する。
	Create(ctx context.Context, account *model.Account) error

	// SetOTP は認証コードと有効期限を同時に設定する。
	// 2つのフィールドは単一UPDATEで書き込み、片方だけが残る状態を作らない。
	SetOTP(ctx context.Context, id, otp string, expiresAt time.Time) error

	// MarkVerified は認証済みフラグを立て、認証コードのペアをクリアする。
	MarkVerified(ctx context.Context, id string) error

	// UpdatePassword はパスワードハッシュを上書きし、認証コードのペアをクリアする。
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	// SetRefreshToken は発行済みリフレッシュトークンを記録する。
	SetRefreshToken(ctx context.Context, id, token string) error

	// ClearRefreshToken は記録済みリフレッシュトークンをクリアする。冪等。
	ClearRefreshToken(ctx context.Context, id string) error
}

// ProfileRepository は選手プロフィールの永続化インターフェース。
type ProfileRepository interface {
	// FindByID は指定IDのプロフィールを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Profile, error)

	// FindByAccountID はアカウントIDでプロフィールを検索する。見つからない場合はnilを返す。
	FindByAccountID(ctx context.Context, accountID string) (*model.Profile, error)

	// Upsert はアカウントIDをキーにプロフィールを作成または更新する。
	Upsert(ctx context.Context, profile *model.Profile) error
}

// OrganizationRepository は組織プロフィールの永続化インターフェース。
type OrganizationRepository interface {
	// FindByID は指定IDの組織を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Organization, error)

	// FindByAccountID はアカウントIDで組織を検索する。見つからない場合はnilを返す。
	FindByAccountID(ctx context.Context, accountID string) (*model.Organization, error)

	// Upsert はアカウントIDをキーに組織を作成または更新する。
	Upsert(ctx context.Context, org *model.Organization) error
}

// ScoutingRepository は募集データの永続化インターフェース。
type ScoutingRepository interface {
	// FindByID は指定IDの募集を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Scouting, error)

	// Create は募集を作成する。
	Create(ctx context.Context, scouting *model.Scouting) error

	// Update は募集を上書き更新する。
	Update(ctx context.Context, scouting *model.Scouting) error

	// Delete は指定IDの募集を削除する。関連する応募はCASCADE削除される。
	Delete(ctx context.Context, id string) error

	// List は検索条件に一致する募集を新着順で返す。
	List(ctx context.Context, filter model.ScoutingFilter) ([]*model.Scouting, error)
}

// ApplicationRepository は応募データの永続化インターフェース。
type ApplicationRepository interface {
	// FindByID は指定IDの応募を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Application, error)

	// FindByScoutingAndPlayer は募集IDと選手アカウントIDで応募を検索する。
	// 見つからない場合はnilを返す。
	FindByScoutingAndPlayer(ctx context.Context, scoutingID, playerAccountID string) (*model.Application, error)

	// Create は応募を作成する。
	Create(ctx context.Context, application *model.Application) error

	// ListByScoutingID は募集への応募一覧を新着順で返す。
	ListByScoutingID(ctx context.Context, scoutingID string) ([]*model.Application, error)

	// ListByPlayerID は選手の応募一覧を新着順で返す。
	ListByPlayerID(ctx context.Context, playerAccountID string) ([]*model.Application, error)

	// UpdateStatus は応募の状態を更新する。
	UpdateStatus(ctx context.Context, id string, status model.ApplicationStatus) error
}

// RosterRepository はロスターデータの永続化インターフェース。
type RosterRepository interface {
	// Add は選手をロスターに追加する。既に所属している場合は何もしない。
	Add(ctx context.Context, member *model.RosterMember) error

	// ListByOrganizationID は組織のロスター一覧を返す。
	ListByOrganizationID(ctx context.Context, organizationID string) ([]*model.RosterMember, error)

	// Remove は選手をロスターから外す。所属していない場合はfalseを返す。
	Remove(ctx context.Context, organizationID, playerAccountID string) (bool, error)
}

// NotificationRepository は通知データの永続化インターフェース。
type NotificationRepository interface {
	// Create は通知を作成する。
	Create(ctx context.Context, notification *model.Notification) error

	// FindByID は指定IDの通知を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Notification, error)

	// ListByAccountID はアカウント宛ての通知を新着順で返す。
	ListByAccountID(ctx context.Context, accountID string, limit int) ([]*model.Notification, error)

	// MarkRead は通知を既読にする。冪等。
	MarkRead(ctx context.Context, id string) error
}

// NewsRepository はニュース記事の永続化インターフェース。
type NewsRepository interface {
	// FindBySourceAndGUID はフィードURLとGUIDで記事を検索する。見つからない場合はnilを返す。
	FindBySourceAndGUID(ctx context.Context, sourceURL, guid string) (*model.NewsItem, error)

	// Create は新規記事を作成する。
	Create(ctx context.Context, item *model.NewsItem) error

	// Update は既存記事を上書き更新する。履歴は保持しない。
	Update(ctx context.Context, item *model.NewsItem) error

	// ListRecent は公開日時の降順で記事を返す。
	ListRecent(ctx context.Context, limit int) ([]*model.NewsItem, error)
}
