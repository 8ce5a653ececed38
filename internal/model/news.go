package model

import "time"

// NewsItem はeスポーツニュースの記事を表す。
// ワーカーが外部フィードから取り込み、(SourceURL, GUID) で同一性を判定する。
type NewsItem struct {
	ID          string
	SourceURL   string
	GUID        string
	Title       string
	Link        string
	Summary     string
	PublishedAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ParsedNewsItem はフィードパーサーから取得した未保存の記事データを表す。
// ワーカーがフィードをパースした後、news.UpsertServiceに渡される。
type ParsedNewsItem struct {
	GUID        string
	Title       string
	Link        string
	Summary     string     // 未サニタイズ
	PublishedAt *time.Time // フィードに日付がない場合はnil
}
