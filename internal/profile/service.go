// Package profile は選手プロフィールのドメインロジックを提供する。
package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/scoutbase/internal/model"
	"github.com/hitoshi/scoutbase/internal/repository"
	"github.com/hitoshi/scoutbase/internal/security"
)

// Input はプロフィール作成・更新の入力データ。
type Input struct {
	DisplayName    string
	GameTitle      string
	InGameRole     string
	Region         string
	RankTier       string
	Bio            string // 未サニタイズ
	LookingForTeam bool
}

// Service は選手プロフィールのサービス層。
// プロフィールはアカウントと1対1で紐付き、作成と更新は同一のUPSERT操作で行う。
type Service struct {
	profiles  repository.ProfileRepository
	sanitizer security.ContentSanitizerService
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	profiles repository.ProfileRepository,
	sanitizer security.ContentSanitizerService,
) *Service {
	return &Service{
		profiles:  profiles,
		sanitizer: sanitizer,
	}
}

// UpsertMine は自分のプロフィールを作成または更新する。
// 自己紹介はサニタイズしてから保存する。
func (s *Service) UpsertMine(ctx context.Context, accountID string, input Input) (*model.Profile, error) {
	existing, err := s.profiles.FindByAccountID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("プロフィールの取得に失敗しました: %w", err)
	}

	now := time.Now()
	p := &model.Profile{
		AccountID:      accountID,
		DisplayName:    input.DisplayName,
		GameTitle:      input.GameTitle,
		InGameRole:     input.InGameRole,
		Region:         input.Region,
		RankTier:       input.RankTier,
		Bio:            s.sanitizer.Sanitize(input.Bio),
		LookingForTeam: input.LookingForTeam,
		UpdatedAt:      now,
	}

	if existing != nil {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	} else {
		p.ID = uuid.New().String()
		p.CreatedAt = now
	}

	if err := s.profiles.Upsert(ctx, p); err != nil {
		return nil, fmt.Errorf("プロフィールの保存に失敗しました: %w", err)
	}

	return p, nil
}

// GetMine は自分のプロフィールを取得する。
func (s *Service) GetMine(ctx context.Context, accountID string) (*model.Profile, error) {
	p, err := s.profiles.FindByAccountID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("プロフィールの取得に失敗しました: %w", err)
	}
	if p == nil {
		return nil, model.NewProfileNotFoundError()
	}
	return p, nil
}

// Get は指定IDのプロフィールを取得する。組織が応募者の詳細を閲覧する際に使用する。
func (s *Service) Get(ctx context.Context, id string) (*model.Profile, error) {
	p, err := s.profiles.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("プロフィールの取得に失敗しました: %w", err)
	}
	if p == nil {
		return nil, model.NewProfileNotFoundError()
	}
	return p, nil
}
