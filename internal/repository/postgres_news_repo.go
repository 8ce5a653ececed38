package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/scoutbase/internal/model"
)

// PostgresNewsRepo はPostgreSQLを使用したニュース記事リポジトリ。
type PostgresNewsRepo struct {
	db *sql.DB
}

// NewPostgresNewsRepo はPostgresNewsRepoを生成する。
func NewPostgresNewsRepo(db *sql.DB) *PostgresNewsRepo {
	return &PostgresNewsRepo{db: db}
}

const newsColumns = `id, source_url, guid, title, link, summary, published_at, created_at, updated_at`

// FindBySourceAndGUID はフィードURLとGUIDで記事を検索する。見つからない場合はnilを返す。
func (r *PostgresNewsRepo) FindBySourceAndGUID(ctx context.Context, sourceURL, guid string) (*model.NewsItem, error) {
	item := &model.NewsItem{}
	err := r.db.QueryRowContext(ctx,
		`SELECT `+newsColumns+` FROM news_items WHERE source_url = $1 AND guid = $2`,
		sourceURL, guid,
	).Scan(
		&item.ID, &item.SourceURL, &item.GUID, &item.Title, &item.Link,
		&item.Summary, &item.PublishedAt, &item.CreatedAt, &item.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find news item: %w", err)
	}

	return item, nil
}

// Create は新規記事を作成する。
func (r *PostgresNewsRepo) Create(ctx context.Context, item *model.NewsItem) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO news_items (id, source_url, guid, title, link, summary, published_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		item.ID, item.SourceURL, item.GUID, item.Title, item.Link,
		item.Summary, item.PublishedAt, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert news item: %w", err)
	}

	return nil
}

// Update は既存記事を上書き更新する。履歴は保持しない。
func (r *PostgresNewsRepo) Update(ctx context.Context, item *model.NewsItem) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE news_items SET title = $2, link = $3, summary = $4, published_at = $5, updated_at = $6
		 WHERE id = $1`,
		item.ID, item.Title, item.Link, item.Summary, item.PublishedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update news item: %w", err)
	}

	return nil
}

// ListRecent は公開日時の降順で記事を返す。limitが0以下の場合は30件とする。
func (r *PostgresNewsRepo) ListRecent(ctx context.Context, limit int) ([]*model.NewsItem, error) {
	if limit <= 0 {
		limit = 30
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+newsColumns+` FROM news_items ORDER BY published_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list news items: %w", err)
	}
	defer rows.Close()

	var items []*model.NewsItem
	for rows.Next() {
		item := &model.NewsItem{}
		if err := rows.Scan(
			&item.ID, &item.SourceURL, &item.GUID, &item.Title, &item.Link,
			&item.Summary, &item.PublishedAt, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan news item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate news items: %w", err)
	}

	return items, nil
}

// compile-time interface check
var _ NewsRepository = (*PostgresNewsRepo)(nil)
