// Package fetch はニュースフィードのバックグラウンドフェッチ処理を提供する。
// スケジューラとフェッチャーを含む。
package fetch

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// SourceFetcherService はフィードフェッチの実行インターフェース。
type SourceFetcherService interface {
	// Fetch は指定URLのフィードをフェッチし、記事をUPSERTする。
	Fetch(ctx context.Context, sourceURL string) error
}

// Scheduler はニュースフィードフェッチのスケジューリングと並列制御を行う。
// 固定間隔のティッカーで設定済みフィードURLを巡回し、
// semaphoreパターンで最大並列数を制御しながらフェッチを実行する。
// 失敗したソースは指数バックオフの間スキップされる。
type Scheduler struct {
	sources        []string
	fetcher        SourceFetcherService
	logger         *slog.Logger
	maxConcurrency int
	backoff        *backoffTracker
}

// NewScheduler はSchedulerの新しいインスタンスを生成する。
// maxConcurrencyが0以下の場合はデフォルト値5を使用する。
func NewScheduler(
	sources []string,
	fetcher SourceFetcherService,
	logger *slog.Logger,
	maxConcurrency int,
) *Scheduler {
	if maxConcurrency <= 0 {
		maxConcurrency = 5
	}
	return &Scheduler{
		sources:        sources,
		fetcher:        fetcher,
		logger:         logger,
		maxConcurrency: maxConcurrency,
		backoff:        newBackoffTracker(),
	}
}

// Start は固定間隔のティッカーでスケジューラを起動する。
// コンテキストがキャンセルされるまで実行を継続する。
func (s *Scheduler) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("ニュースフェッチスケジューラを開始しました",
		slog.Duration("interval", interval),
		slog.Int("source_count", len(s.sources)),
		slog.Int("max_concurrency", s.maxConcurrency),
	)

	// 起動直後に1回実行
	s.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("ニュースフェッチスケジューラを停止しました")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce は設定済みフィードURLを1巡フェッチする。
// semaphoreパターンで最大並列数を制御する。個別フィードの失敗は巡回を止めない。
func (s *Scheduler) RunOnce(ctx context.Context) {
	if len(s.sources) == 0 {
		s.logger.Info("フェッチ対象のフィードはありません")
		return
	}

	start := time.Now()

	s.logger.Info("フェッチサイクルを開始します",
		slog.Int("source_count", len(s.sources)),
	)

	// semaphoreパターンで並列数を制御
	sem := make(chan struct{}, s.maxConcurrency)
	var wg sync.WaitGroup

	for _, source := range s.sources {
		// バックオフ中のソースは次回試行時刻までスキップ
		if !s.backoff.ShouldFetch(source, time.Now()) {
			s.logger.Info("バックオフ中のためフィードをスキップします",
				slog.String("source_url", source),
			)
			continue
		}

		wg.Add(1)
		sem <- struct{}{} // semaphore取得（ブロック）

		go func(sourceURL string) {
			defer wg.Done()
			defer func() { <-sem }() // semaphore解放

			if err := s.fetcher.Fetch(ctx, sourceURL); err != nil {
				delay := s.backoff.RecordFailure(sourceURL, time.Now())
				s.logger.Error("フィードフェッチに失敗しました",
					slog.String("source_url", sourceURL),
					slog.String("error", err.Error()),
					slog.Duration("backoff", delay),
				)
				return
			}
			s.backoff.RecordSuccess(sourceURL)
		}(source)
	}

	wg.Wait()

	duration := time.Since(start)
	s.logger.Info("フェッチサイクルが完了しました",
		slog.Int("source_count", len(s.sources)),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)
}
