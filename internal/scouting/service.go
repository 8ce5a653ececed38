// Package scouting は選手募集のドメインロジックを提供する。
package scouting

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/scoutbase/internal/model"
	"github.com/hitoshi/scoutbase/internal/repository"
	"github.com/hitoshi/scoutbase/internal/security"
)

// CreateInput は募集作成の入力データ。
type CreateInput struct {
	Title       string
	GameTitle   string
	Region      string
	MinRankTier string
	RolesWanted string
	Description string // 未サニタイズ
}

// UpdateInput は募集更新の入力データ。nilのフィールドは変更しない。
type UpdateInput struct {
	Title       *string
	GameTitle   *string
	Region      *string
	MinRankTier *string
	RolesWanted *string
	Description *string // 未サニタイズ
	Status      *string
}

// Service は選手募集のサービス層。
// 募集の作成・更新・削除は掲載組織のアカウントにのみ許可される。
type Service struct {
	scoutings repository.ScoutingRepository
	orgs      repository.OrganizationRepository
	sanitizer security.ContentSanitizerService
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	scoutings repository.ScoutingRepository,
	orgs repository.OrganizationRepository,
	sanitizer security.ContentSanitizerService,
) *Service {
	return &Service{
		scoutings: scoutings,
		orgs:      orgs,
		sanitizer: sanitizer,
	}
}

// Create は募集を新規作成する。初期状態はopen。
// 組織プロフィール未作成のアカウントは募集を掲載できない。
func (s *Service) Create(ctx context.Context, accountID string, input CreateInput) (*model.Scouting, error) {
	org, err := s.orgs.FindByAccountID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("組織の取得に失敗しました: %w", err)
	}
	if org == nil {
		return nil, model.NewOrganizationNotFoundError()
	}

	now := time.Now()
	sc := &model.Scouting{
		ID:             uuid.New().String(),
		OrganizationID: org.ID,
		Title:          input.Title,
		GameTitle:      input.GameTitle,
		Region:         input.Region,
		MinRankTier:    input.MinRankTier,
		RolesWanted:    input.RolesWanted,
		Description:    s.sanitizer.Sanitize(input.Description),
		Status:         model.ScoutingStatusOpen,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.scoutings.Create(ctx, sc); err != nil {
		return nil, fmt.Errorf("募集の作成に失敗しました: %w", err)
	}

	return sc, nil
}

// Get は指定IDの募集を取得する。
func (s *Service) Get(ctx context.Context, id string) (*model.Scouting, error) {
	sc, err := s.scoutings.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("募集の取得に失敗しました: %w", err)
	}
	if sc == nil {
		return nil, model.NewScoutingNotFoundError(id)
	}
	return sc, nil
}

// List は検索条件に一致する募集を新着順で返す。
func (s *Service) List(ctx context.Context, filter model.ScoutingFilter) ([]*model.Scouting, error) {
	scoutings, err := s.scoutings.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("募集一覧の取得に失敗しました: %w", err)
	}
	return scoutings, nil
}

// Update は自組織の募集を部分更新する。
// statusにはopenまたはclosedのみ指定できる。closedへの変更は既存の応募に影響しない。
func (s *Service) Update(ctx context.Context, accountID, scoutingID string, input UpdateInput) (*model.Scouting, error) {
	sc, err := s.findOwned(ctx, accountID, scoutingID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		sc.Title = *input.Title
	}
	if input.GameTitle != nil {
		sc.GameTitle = *input.GameTitle
	}
	if input.Region != nil {
		sc.Region = *input.Region
	}
	if input.MinRankTier != nil {
		sc.MinRankTier = *input.MinRankTier
	}
	if input.RolesWanted != nil {
		sc.RolesWanted = *input.RolesWanted
	}
	if input.Description != nil {
		sc.Description = s.sanitizer.Sanitize(*input.Description)
	}
	if input.Status != nil {
		status := model.ScoutingStatus(*input.Status)
		if !status.IsValid() {
			return nil, model.NewInvalidScoutingStatusError(*input.Status)
		}
		sc.Status = status
	}
	sc.UpdatedAt = time.Now()

	if err := s.scoutings.Update(ctx, sc); err != nil {
		return nil, fmt.Errorf("募集の更新に失敗しました: %w", err)
	}

	return sc, nil
}

// Delete は自組織の募集を削除する。関連する応募はCASCADE削除される。
func (s *Service) Delete(ctx context.Context, accountID, scoutingID string) error {
	sc, err := s.findOwned(ctx, accountID, scoutingID)
	if err != nil {
		return err
	}

	if err := s.scoutings.Delete(ctx, sc.ID); err != nil {
		return fmt.Errorf("募集の削除に失敗しました: %w", err)
	}
	return nil
}

// findOwned は募集を取得し、呼び出し元アカウントの組織が掲載したものであることを確認する。
// 判定順序: 募集の存在 → 所有権。
func (s *Service) findOwned(ctx context.Context, accountID, scoutingID string) (*model.Scouting, error) {
	sc, err := s.scoutings.FindByID(ctx, scoutingID)
	if err != nil {
		return nil, fmt.Errorf("募集の取得に失敗しました: %w", err)
	}
	if sc == nil {
		return nil, model.NewScoutingNotFoundError(scoutingID)
	}

	org, err := s.orgs.FindByAccountID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("組織の取得に失敗しました: %w", err)
	}
	if org == nil || org.ID != sc.OrganizationID {
		return nil, model.NewNotOwnerError()
	}

	return sc, nil
}
