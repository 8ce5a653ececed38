package news

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/scoutbase/internal/model"
	"github.com/hitoshi/scoutbase/internal/repository"
	"github.com/hitoshi/scoutbase/internal/security"
)

// UpsertService はニュース記事の同一性判定とUPSERT処理を提供する。
// (source_url, guid) をキーに重複登録を防ぎつつ既存記事の上書き更新を行う。
type UpsertService struct {
	news      repository.NewsRepository
	sanitizer security.ContentSanitizerService
}

// NewUpsertService はUpsertServiceの新しいインスタンスを生成する。
func NewUpsertService(
	news repository.NewsRepository,
	sanitizer security.ContentSanitizerService,
) *UpsertService {
	return &UpsertService{
		news:      news,
		sanitizer: sanitizer,
	}
}

// UpsertItems はフィードから取得した記事をUPSERTする。
// GUIDが空の記事はLinkで代用し、どちらも空の記事はスキップする。
// 戻り値は挿入数、更新数、エラー。
func (s *UpsertService) UpsertItems(
	ctx context.Context,
	sourceURL string,
	items []model.ParsedNewsItem,
) (inserted int, updated int, err error) {
	if len(items) == 0 {
		return 0, 0, nil
	}

	now := time.Now()

	for _, parsed := range items {
		guid := parsed.GUID
		if guid == "" {
			guid = parsed.Link
		}
		if guid == "" {
			slog.Warn("記事にGUIDもリンクもないためスキップします",
				slog.String("source_url", sourceURL),
				slog.String("title", parsed.Title),
			)
			continue
		}

		sanitizedSummary := s.sanitizer.Sanitize(parsed.Summary)

		existing, findErr := s.news.FindBySourceAndGUID(ctx, sourceURL, guid)
		if findErr != nil {
			return inserted, updated, fmt.Errorf("記事の同一性判定に失敗しました: %w", findErr)
		}

		if existing != nil {
			existing.Title = parsed.Title
			existing.Link = parsed.Link
			existing.Summary = sanitizedSummary
			if parsed.PublishedAt != nil {
				existing.PublishedAt = *parsed.PublishedAt
			}
			existing.UpdatedAt = now

			if updateErr := s.news.Update(ctx, existing); updateErr != nil {
				return inserted, updated, fmt.Errorf("記事の更新に失敗しました: %w", updateErr)
			}
			updated++
		} else {
			item := &model.NewsItem{
				ID:        uuid.New().String(),
				SourceURL: sourceURL,
				GUID:      guid,
				Title:     parsed.Title,
				Link:      parsed.Link,
				Summary:   sanitizedSummary,
				CreatedAt: now,
				UpdatedAt: now,
			}

			// 公開日時がフィードにない場合は取得時刻を代用する
			if parsed.PublishedAt != nil {
				item.PublishedAt = *parsed.PublishedAt
			} else {
				item.PublishedAt = now
			}

			if createErr := s.news.Create(ctx, item); createErr != nil {
				return inserted, updated, fmt.Errorf("記事の挿入に失敗しました: %w", createErr)
			}
			inserted++
		}
	}

	slog.Info("記事UPSERT完了",
		slog.String("source_url", sourceURL),
		slog.Int("inserted", inserted),
		slog.Int("updated", updated),
	)

	return inserted, updated, nil
}
