// Package organization は組織プロフィールとロスターのドメインロジックを提供する。
package organization

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/scoutbase/internal/model"
	"github.com/hitoshi/scoutbase/internal/repository"
	"github.com/hitoshi/scoutbase/internal/security"
)

// Input は組織プロフィール作成・更新の入力データ。
type Input struct {
	Name        string
	Region      string
	Description string // 未サニタイズ
	Website     string
}

// Service は組織プロフィールとロスター管理のサービス層。
type Service struct {
	orgs      repository.OrganizationRepository
	roster    repository.RosterRepository
	sanitizer security.ContentSanitizerService
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	orgs repository.OrganizationRepository,
	roster repository.RosterRepository,
	sanitizer security.ContentSanitizerService,
) *Service {
	return &Service{
		orgs:      orgs,
		roster:    roster,
		sanitizer: sanitizer,
	}
}

// UpsertMine は自分の組織プロフィールを作成または更新する。
// 紹介文はサニタイズしてから保存する。
func (s *Service) UpsertMine(ctx context.Context, accountID string, input Input) (*model.Organization, error) {
	existing, err := s.orgs.FindByAccountID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("組織の取得に失敗しました: %w", err)
	}

	now := time.Now()
	org := &model.Organization{
		AccountID:   accountID,
		Name:        input.Name,
		Region:      input.Region,
		Description: s.sanitizer.Sanitize(input.Description),
		Website:     input.Website,
		UpdatedAt:   now,
	}

	if existing != nil {
		org.ID = existing.ID
		org.CreatedAt = existing.CreatedAt
	} else {
		org.ID = uuid.New().String()
		org.CreatedAt = now
	}

	if err := s.orgs.Upsert(ctx, org); err != nil {
		return nil, fmt.Errorf("組織の保存に失敗しました: %w", err)
	}

	return org, nil
}

// GetMine は自分の組織プロフィールを取得する。
func (s *Service) GetMine(ctx context.Context, accountID string) (*model.Organization, error) {
	org, err := s.orgs.FindByAccountID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("組織の取得に失敗しました: %w", err)
	}
	if org == nil {
		return nil, model.NewOrganizationNotFoundError()
	}
	return org, nil
}

// Get は指定IDの組織プロフィールを取得する。
func (s *Service) Get(ctx context.Context, id string) (*model.Organization, error) {
	org, err := s.orgs.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("組織の取得に失敗しました: %w", err)
	}
	if org == nil {
		return nil, model.NewOrganizationNotFoundError()
	}
	return org, nil
}

// ListRoster は指定組織のロスター一覧を返す。組織の存在を先に確認する。
func (s *Service) ListRoster(ctx context.Context, organizationID string) ([]*model.RosterMember, error) {
	org, err := s.orgs.FindByID(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("組織の取得に失敗しました: %w", err)
	}
	if org == nil {
		return nil, model.NewOrganizationNotFoundError()
	}

	members, err := s.roster.ListByOrganizationID(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("ロスターの取得に失敗しました: %w", err)
	}
	return members, nil
}

// RemoveRosterMember は自組織のロスターから選手を外す。
// 呼び出し元アカウントが組織プロフィール未作成の場合はOrganizationNotFound、
// 選手が所属していない場合はRosterMemberNotFoundを返す。
func (s *Service) RemoveRosterMember(ctx context.Context, accountID, playerAccountID string) error {
	org, err := s.orgs.FindByAccountID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("組織の取得に失敗しました: %w", err)
	}
	if org == nil {
		return model.NewOrganizationNotFoundError()
	}

	removed, err := s.roster.Remove(ctx, org.ID, playerAccountID)
	if err != nil {
		return fmt.Errorf("ロスターからの削除に失敗しました: %w", err)
	}
	if !removed {
		return model.NewRosterMemberNotFoundError()
	}
	return nil
}

// AddRosterMember は選手を組織のロスターに追加する。
// 応募の採用処理から呼ばれる。既に所属している場合は何もしない。
func (s *Service) AddRosterMember(ctx context.Context, organizationID, playerAccountID string) error {
	member := &model.RosterMember{
		ID:              uuid.New().String(),
		OrganizationID:  organizationID,
		PlayerAccountID: playerAccountID,
		JoinedAt:        time.Now(),
	}
	if err := s.roster.Add(ctx, member); err != nil {
		return fmt.Errorf("ロスターへの追加に失敗しました: %w", err)
	}
	return nil
}
