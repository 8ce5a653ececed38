// Package notification はアカウント宛て通知のドメインロジックを提供する。
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/scoutbase/internal/model"
	"github.com/hitoshi/scoutbase/internal/repository"
)

// defaultListLimit は通知一覧のデフォルト取得件数。
const defaultListLimit = 50

// Service は通知のサービス層。
// 他サービスからの通知作成と、本人による一覧取得・既読化を提供する。
type Service struct {
	notifications repository.NotificationRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(notifications repository.NotificationRepository) *Service {
	return &Service{notifications: notifications}
}

// Notify は指定アカウント宛ての通知を作成する。
func (s *Service) Notify(ctx context.Context, accountID string, kind model.NotificationKind, title, body string) error {
	n := &model.Notification{
		ID:        uuid.New().String(),
		AccountID: accountID,
		Kind:      kind,
		Title:     title,
		Body:      body,
		IsRead:    false,
		CreatedAt: time.Now(),
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		return fmt.Errorf("通知の作成に失敗しました: %w", err)
	}
	return nil
}

// List は自分宛ての通知を新着順で返す。limitが0以下の場合はデフォルト件数を使用する。
func (s *Service) List(ctx context.Context, accountID string, limit int) ([]*model.Notification, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	notifications, err := s.notifications.ListByAccountID(ctx, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("通知一覧の取得に失敗しました: %w", err)
	}
	return notifications, nil
}

// MarkRead は自分宛ての通知を既読にする。冪等。
// 他人宛ての通知は存在を漏らさないためNotificationNotFoundを返す。
func (s *Service) MarkRead(ctx context.Context, accountID, notificationID string) error {
	n, err := s.notifications.FindByID(ctx, notificationID)
	if err != nil {
		return fmt.Errorf("通知の取得に失敗しました: %w", err)
	}
	if n == nil || n.AccountID != accountID {
		return model.NewNotificationNotFoundError(notificationID)
	}

	if err := s.notifications.MarkRead(ctx, n.ID); err != nil {
		return fmt.Errorf("通知の既読化に失敗しました: %w", err)
	}
	return nil
}
