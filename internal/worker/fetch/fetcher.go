package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/hitoshi/scoutbase/internal/model"
)

// NewsUpserter はニュース記事のUPSERT処理のインターフェース。
type NewsUpserter interface {
	UpsertItems(ctx context.Context, sourceURL string, items []model.ParsedNewsItem) (int, int, error)
}

// SSRFValidator はSSRF検証のインターフェース。
type SSRFValidator interface {
	ValidateURL(rawURL string) error
	NewSafeClient(timeout time.Duration) *http.Client
}

// MetricsRecorder はフェッチ系メトリクスの記録インターフェース。
// nilの場合は記録をスキップする。
type MetricsRecorder interface {
	RecordFetchSuccess()
	RecordFetchFailure()
	RecordFetchHTTPStatus(statusCode int)
	RecordFetchLatency(duration time.Duration)
	RecordNewsUpserted(count int)
}

// cacheEntry は条件付きGET用のETag/Last-Modifiedのペア。
type cacheEntry struct {
	etag         string
	lastModified string
}

// Fetcher は個別ニュースフィードのHTTPフェッチとパースを行う。
// ETag/Last-Modifiedを使用した条件付きGET、SSRF検証、
// gofeedによるパース、UpsertServiceによる記事保存を実行する。
// フィードURLは運用者が設定するため、フェッチ状態はメモリ上にのみ保持する。
type Fetcher struct {
	upsertSvc   NewsUpserter
	ssrfGuard   SSRFValidator
	metrics     MetricsRecorder
	logger      *slog.Logger
	timeout     time.Duration
	maxBodySize int64

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// NewFetcher はFetcherの新しいインスタンスを生成する。metricsはnilでもよい。
func NewFetcher(
	upsertSvc NewsUpserter,
	ssrfGuard SSRFValidator,
	metrics MetricsRecorder,
	logger *slog.Logger,
	timeout time.Duration,
	maxBodySize int64,
) *Fetcher {
	return &Fetcher{
		upsertSvc:   upsertSvc,
		ssrfGuard:   ssrfGuard,
		metrics:     metrics,
		logger:      logger,
		timeout:     timeout,
		maxBodySize: maxBodySize,
		cache:       make(map[string]cacheEntry),
	}
}

// Fetch は指定URLのフィードをフェッチし、記事をUPSERTする。
// SourceFetcherServiceインターフェースを実装する。
func (f *Fetcher) Fetch(ctx context.Context, sourceURL string) error {
	start := time.Now()

	// SSRF検証
	if err := f.ssrfGuard.ValidateURL(sourceURL); err != nil {
		f.logger.Error("SSRF検証に失敗しました",
			slog.String("source_url", sourceURL),
			slog.String("error", err.Error()),
		)
		f.recordFailure()
		return fmt.Errorf("SSRF検証に失敗: %w", err)
	}

	// HTTPリクエスト構築
	client := f.ssrfGuard.NewSafeClient(f.timeout)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		f.recordFailure()
		return fmt.Errorf("リクエスト作成に失敗: %w", err)
	}

	req.Header.Set("User-Agent", "Scoutbase/1.0 News Aggregator")
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml, */*")

	// 条件付きGET: 前回フェッチのETag/Last-Modifiedを付与
	if cached, ok := f.cachedEntry(sourceURL); ok {
		if cached.etag != "" {
			req.Header.Set("If-None-Match", cached.etag)
		}
		if cached.lastModified != "" {
			req.Header.Set("If-Modified-Since", cached.lastModified)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		f.logger.Error("HTTPリクエストに失敗しました",
			slog.String("source_url", sourceURL),
			slog.String("error", err.Error()),
		)
		f.recordFailure()
		return fmt.Errorf("HTTPリクエスト失敗: %w", err)
	}
	defer resp.Body.Close()

	duration := time.Since(start)
	if f.metrics != nil {
		f.metrics.RecordFetchHTTPStatus(resp.StatusCode)
		f.metrics.RecordFetchLatency(duration)
	}

	// 304: コンテンツ未変更
	if resp.StatusCode == http.StatusNotModified {
		f.logger.Info("フィードは未変更です（304）",
			slog.String("source_url", sourceURL),
			slog.Float64("duration_ms", float64(duration.Milliseconds())),
		)
		if f.metrics != nil {
			f.metrics.RecordFetchSuccess()
		}
		return nil
	}

	if resp.StatusCode != http.StatusOK {
		f.logger.Warn("フィードフェッチが失敗ステータスを返しました",
			slog.String("source_url", sourceURL),
			slog.Int("http_status", resp.StatusCode),
		)
		f.recordFailure()
		return fmt.Errorf("予期しないHTTPステータス: %d", resp.StatusCode)
	}

	// レスポンスボディを読み込み（最大サイズ制限付き）
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		f.logger.Error("レスポンスボディの読み取りに失敗しました",
			slog.String("source_url", sourceURL),
			slog.String("error", err.Error()),
		)
		f.recordFailure()
		return fmt.Errorf("レスポンス読み取り失敗: %w", err)
	}

	// ETag/Last-Modifiedを次回の条件付きGET用に保存
	f.storeCacheEntry(sourceURL, cacheEntry{
		etag:         resp.Header.Get("ETag"),
		lastModified: resp.Header.Get("Last-Modified"),
	})

	// gofeedでフィードをパース
	parser := gofeed.NewParser()
	parsedFeed, err := parser.ParseString(string(body))
	if err != nil {
		f.logger.Error("フィードのパースに失敗しました",
			slog.String("source_url", sourceURL),
			slog.String("error", err.Error()),
		)
		f.recordFailure()
		return fmt.Errorf("フィードのパースに失敗: %w", err)
	}

	parsedItems := convertGofeedItems(parsedFeed.Items)

	inserted, updated, err := f.upsertSvc.UpsertItems(ctx, sourceURL, parsedItems)
	if err != nil {
		f.logger.Error("記事のUPSERTに失敗しました",
			slog.String("source_url", sourceURL),
			slog.String("error", err.Error()),
		)
		f.recordFailure()
		return fmt.Errorf("記事のUPSERTに失敗: %w", err)
	}

	if f.metrics != nil {
		f.metrics.RecordFetchSuccess()
		f.metrics.RecordNewsUpserted(inserted + updated)
	}

	f.logger.Info("フィードフェッチが完了しました",
		slog.String("source_url", sourceURL),
		slog.Int("http_status", resp.StatusCode),
		slog.Int("items_inserted", inserted),
		slog.Int("items_updated", updated),
		slog.Int("items_total", len(parsedItems)),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}

// cachedEntry はソースURLの条件付きGET用キャッシュを取得する。
func (f *Fetcher) cachedEntry(sourceURL string) (cacheEntry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.cache[sourceURL]
	return entry, ok
}

// storeCacheEntry はソースURLの条件付きGET用キャッシュを保存する。
func (f *Fetcher) storeCacheEntry(sourceURL string, entry cacheEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cache[sourceURL] = entry
}

// recordFailure はフェッチ失敗をメトリクスに記録する。
func (f *Fetcher) recordFailure() {
	if f.metrics != nil {
		f.metrics.RecordFetchFailure()
	}
}

// convertGofeedItems はgofeedの記事をmodel.ParsedNewsItemに変換する。
func convertGofeedItems(items []*gofeed.Item) []model.ParsedNewsItem {
	parsedItems := make([]model.ParsedNewsItem, 0, len(items))

	for _, item := range items {
		if item == nil {
			continue
		}

		parsed := model.ParsedNewsItem{
			GUID:    item.GUID,
			Title:   item.Title,
			Link:    item.Link,
			Summary: item.Description,
		}

		if item.PublishedParsed != nil {
			parsed.PublishedAt = item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			parsed.PublishedAt = item.UpdatedParsed
		}

		parsedItems = append(parsedItems, parsed)
	}

	return parsedItems
}
