// Package application は募集への応募と選考のドメインロジックを提供する。
package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/scoutbase/internal/model"
	"github.com/hitoshi/scoutbase/internal/repository"
)

// Notifier は選考イベントの通知インターフェース。
type Notifier interface {
	Notify(ctx context.Context, accountID string, kind model.NotificationKind, title, body string) error
}

// Service は応募と選考のサービス層。
// 応募は選手のみ、選考は募集を掲載した組織のみが行える。
type Service struct {
	applications repository.ApplicationRepository
	scoutings    repository.ScoutingRepository
	orgs         repository.OrganizationRepository
	roster       repository.RosterRepository
	notifier     Notifier
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	applications repository.ApplicationRepository,
	scoutings repository.ScoutingRepository,
	orgs repository.OrganizationRepository,
	roster repository.RosterRepository,
	notifier Notifier,
) *Service {
	return &Service{
		applications: applications,
		scoutings:    scoutings,
		orgs:         orgs,
		roster:       roster,
		notifier:     notifier,
	}
}

// Apply は選手が募集に応募する。
// 判定順序: 募集の存在 → 募集中であること → 重複応募でないこと。
// 応募成功時は掲載組織のアカウントへ通知を送る。通知の失敗は応募の成否に影響しない。
func (s *Service) Apply(ctx context.Context, playerAccountID, scoutingID, message string) (*model.Application, error) {
	sc, err := s.scoutings.FindByID(ctx, scoutingID)
	if err != nil {
		return nil, fmt.Errorf("募集の取得に失敗しました: %w", err)
	}
	if sc == nil {
		return nil, model.NewScoutingNotFoundError(scoutingID)
	}
	if sc.Status != model.ScoutingStatusOpen {
		return nil, model.NewScoutingClosedError()
	}

	existing, err := s.applications.FindByScoutingAndPlayer(ctx, scoutingID, playerAccountID)
	if err != nil {
		return nil, fmt.Errorf("応募の重複確認に失敗しました: %w", err)
	}
	if existing != nil {
		return nil, model.NewDuplicateApplicationError()
	}

	now := time.Now()
	app := &model.Application{
		ID:              uuid.New().String(),
		ScoutingID:      scoutingID,
		PlayerAccountID: playerAccountID,
		Message:         message,
		Status:          model.ApplicationStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.applications.Create(ctx, app); err != nil {
		return nil, fmt.Errorf("応募の作成に失敗しました: %w", err)
	}

	s.notifyOrganization(ctx, sc, app)

	return app, nil
}

// ListForScouting は自組織の募集への応募一覧を新着順で返す。
func (s *Service) ListForScouting(ctx context.Context, accountID, scoutingID string) ([]*model.Application, error) {
	if _, _, err := s.findOwned(ctx, accountID, scoutingID); err != nil {
		return nil, err
	}

	apps, err := s.applications.ListByScoutingID(ctx, scoutingID)
	if err != nil {
		return nil, fmt.Errorf("応募一覧の取得に失敗しました: %w", err)
	}
	return apps, nil
}

// ListMine は選手自身の応募一覧を新着順で返す。
func (s *Service) ListMine(ctx context.Context, playerAccountID string) ([]*model.Application, error) {
	apps, err := s.applications.ListByPlayerID(ctx, playerAccountID)
	if err != nil {
		return nil, fmt.Errorf("応募一覧の取得に失敗しました: %w", err)
	}
	return apps, nil
}

// Select は応募を採用する。
// 応募はselectedに遷移し、選手は組織のロスターへ追加され、採用通知が送られる。
// pending以外の応募には適用できない。
func (s *Service) Select(ctx context.Context, accountID, applicationID string) error {
	app, sc, err := s.findPendingOwned(ctx, accountID, applicationID)
	if err != nil {
		return err
	}

	if err := s.applications.UpdateStatus(ctx, app.ID, model.ApplicationStatusSelected); err != nil {
		return fmt.Errorf("応募ステータスの更新に失敗しました: %w", err)
	}

	member := &model.RosterMember{
		ID:              uuid.New().String(),
		OrganizationID:  sc.OrganizationID,
		PlayerAccountID: app.PlayerAccountID,
		JoinedAt:        time.Now(),
	}
	if err := s.roster.Add(ctx, member); err != nil {
		return fmt.Errorf("ロスターへの追加に失敗しました: %w", err)
	}

	s.notifyPlayer(ctx, app, sc, model.NotificationKindApplicationSelected,
		"応募が採用されました",
		fmt.Sprintf("募集「%s」への応募が採用され、ロスターに追加されました。", sc.Title),
	)

	slog.Info("application selected",
		slog.String("application_id", app.ID),
		slog.String("scouting_id", sc.ID),
		slog.String("player_account_id", app.PlayerAccountID),
	)
	return nil
}

// Reject は応募を不採用にする。
// 応募はrejectedに遷移し、不採用通知が送られる。pending以外の応募には適用できない。
func (s *Service) Reject(ctx context.Context, accountID, applicationID string) error {
	app, sc, err := s.findPendingOwned(ctx, accountID, applicationID)
	if err != nil {
		return err
	}

	if err := s.applications.UpdateStatus(ctx, app.ID, model.ApplicationStatusRejected); err != nil {
		return fmt.Errorf("応募ステータスの更新に失敗しました: %w", err)
	}

	s.notifyPlayer(ctx, app, sc, model.NotificationKindApplicationRejected,
		"選考結果のお知らせ",
		fmt.Sprintf("募集「%s」への応募は今回は見送りとなりました。", sc.Title),
	)

	slog.Info("application rejected",
		slog.String("application_id", app.ID),
		slog.String("scouting_id", sc.ID),
	)
	return nil
}

// findOwned は募集を取得し、呼び出し元アカウントの組織が掲載したものであることを確認する。
func (s *Service) findOwned(ctx context.Context, accountID, scoutingID string) (*model.Scouting, *model.Organization, error) {
	sc, err := s.scoutings.FindByID(ctx, scoutingID)
	if err != nil {
		return nil, nil, fmt.Errorf("募集の取得に失敗しました: %w", err)
	}
	if sc == nil {
		return nil, nil, model.NewScoutingNotFoundError(scoutingID)
	}

	org, err := s.orgs.FindByAccountID(ctx, accountID)
	if err != nil {
		return nil, nil, fmt.Errorf("組織の取得に失敗しました: %w", err)
	}
	if org == nil || org.ID != sc.OrganizationID {
		return nil, nil, model.NewNotOwnerError()
	}

	return sc, org, nil
}

// findPendingOwned は応募を取得し、所有権と選考待ち状態を確認する。
// 判定順序: 応募の存在 → 所有権 → pendingであること。
func (s *Service) findPendingOwned(ctx context.Context, accountID, applicationID string) (*model.Application, *model.Scouting, error) {
	app, err := s.applications.FindByID(ctx, applicationID)
	if err != nil {
		return nil, nil, fmt.Errorf("応募の取得に失敗しました: %w", err)
	}
	if app == nil {
		return nil, nil, model.NewApplicationNotFoundError(applicationID)
	}

	sc, _, err := s.findOwned(ctx, accountID, app.ScoutingID)
	if err != nil {
		return nil, nil, err
	}

	if app.Status != model.ApplicationStatusPending {
		return nil, nil, model.NewApplicationNotPendingError()
	}

	return app, sc, nil
}

// notifyOrganization は新規応募を掲載組織のアカウントへ通知する。
func (s *Service) notifyOrganization(ctx context.Context, sc *model.Scouting, app *model.Application) {
	org, err := s.orgs.FindByID(ctx, sc.OrganizationID)
	if err != nil || org == nil {
		slog.Error("failed to resolve organization for notification",
			slog.String("scouting_id", sc.ID),
			slog.String("organization_id", sc.OrganizationID),
		)
		return
	}

	err = s.notifier.Notify(ctx, org.AccountID, model.NotificationKindApplicationReceived,
		"新しい応募があります",
		fmt.Sprintf("募集「%s」に新しい応募が届きました。", sc.Title),
	)
	if err != nil {
		slog.Error("failed to send notification",
			slog.String("application_id", app.ID),
			slog.String("error", err.Error()),
		)
	}
}

// notifyPlayer は選考結果を応募した選手へ通知する。
func (s *Service) notifyPlayer(ctx context.Context, app *model.Application, sc *model.Scouting, kind model.NotificationKind, title, body string) {
	if err := s.notifier.Notify(ctx, app.PlayerAccountID, kind, title, body); err != nil {
		slog.Error("failed to send notification",
			slog.String("application_id", app.ID),
			slog.String("error", err.Error()),
		)
	}
}
