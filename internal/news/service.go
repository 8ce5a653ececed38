// Package news はeスポーツニュースの取り込みと閲覧機能を提供する。
package news

import (
	"context"
	"fmt"

	"github.com/hitoshi/scoutbase/internal/model"
	"github.com/hitoshi/scoutbase/internal/repository"
)

// defaultListLimit はニュース一覧のデフォルト取得件数。
const defaultListLimit = 30

// maxListLimit はニュース一覧の最大取得件数。
const maxListLimit = 100

// Service はニュース閲覧のサービス層。
type Service struct {
	news repository.NewsRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(news repository.NewsRepository) *Service {
	return &Service{news: news}
}

// ListRecent は公開日時の降順でニュース記事を返す。
// limitが0以下の場合はデフォルト件数、上限超過の場合は最大件数に丸める。
func (s *Service) ListRecent(ctx context.Context, limit int) ([]*model.NewsItem, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	items, err := s.news.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("ニュース一覧の取得に失敗しました: %w", err)
	}
	return items, nil
}
