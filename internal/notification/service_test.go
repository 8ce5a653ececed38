package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/scoutbase/internal/model"
)

// mockNotificationRepo はテスト用のNotificationRepositoryモック。
type mockNotificationRepo struct {
	notifications map[string]*model.Notification

	lastListLimit int
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{notifications: make(map[string]*model.Notification)}
}

func (m *mockNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	m.notifications[n.ID] = n
	return nil
}

func (m *mockNotificationRepo) FindByID(_ context.Context, id string) (*model.Notification, error) {
	return m.notifications[id], nil
}

func (m *mockNotificationRepo) ListByAccountID(_ context.Context, accountID string, limit int) ([]*model.Notification, error) {
	m.lastListLimit = limit
	var out []*model.Notification
	for _, n := range m.notifications {
		if n.AccountID == accountID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, id string) error {
	if n, ok := m.notifications[id]; ok {
		n.IsRead = true
	}
	return nil
}

func TestNotifyCreatesUnreadNotification(t *testing.T) {
	repo := newMockNotificationRepo()
	svc := NewService(repo)

	err := svc.Notify(context.Background(), "acc-1", model.NotificationKindApplicationReceived,
		"新しい応募があります", "募集「ジャングラー募集」に新しい応募が届きました。")
	if err != nil {
		t.Fatalf("Notify returned error: %v", err)
	}

	if len(repo.notifications) != 1 {
		t.Fatalf("notifications = %d, want 1", len(repo.notifications))
	}
	for _, n := range repo.notifications {
		if n.AccountID != "acc-1" {
			t.Errorf("AccountID = %q, want acc-1", n.AccountID)
		}
		if n.IsRead {
			t.Error("new notification should be unread")
		}
		if n.ID == "" {
			t.Error("notification should be assigned an ID")
		}
	}
}

func TestListUsesDefaultLimit(t *testing.T) {
	repo := newMockNotificationRepo()
	svc := NewService(repo)

	if _, err := svc.List(context.Background(), "acc-1", 0); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if repo.lastListLimit != defaultListLimit {
		t.Errorf("limit = %d, want %d", repo.lastListLimit, defaultListLimit)
	}

	if _, err := svc.List(context.Background(), "acc-1", 10); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if repo.lastListLimit != 10 {
		t.Errorf("limit = %d, want 10", repo.lastListLimit)
	}
}

func TestMarkReadIsIdempotent(t *testing.T) {
	repo := newMockNotificationRepo()
	svc := NewService(repo)
	repo.Create(context.Background(), &model.Notification{ID: "n-1", AccountID: "acc-1"})

	for i := 0; i < 2; i++ {
		if err := svc.MarkRead(context.Background(), "acc-1", "n-1"); err != nil {
			t.Fatalf("MarkRead #%d returned error: %v", i+1, err)
		}
	}
	if !repo.notifications["n-1"].IsRead {
		t.Error("notification should be marked read")
	}
}

func TestMarkReadHidesForeignNotifications(t *testing.T) {
	// 他人宛ての通知は存在の有無を漏らさずNOTIFICATION_NOT_FOUNDを返す
	repo := newMockNotificationRepo()
	svc := NewService(repo)
	repo.Create(context.Background(), &model.Notification{ID: "n-1", AccountID: "acc-owner"})

	tests := []struct {
		name           string
		notificationID string
	}{
		{"存在しない通知", "n-unknown"},
		{"他人宛ての通知", "n-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.MarkRead(context.Background(), "acc-other", tt.notificationID)
			var apiErr *model.APIError
			if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeNotificationNotFound {
				t.Errorf("expected NOTIFICATION_NOT_FOUND, got %v", err)
			}
		})
	}

	if repo.notifications["n-1"].IsRead {
		t.Error("foreign notification must not be marked read")
	}
}
