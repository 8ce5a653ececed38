package fetch

import (
	"sync"
	"time"
)

const (
	// initialBackoff は指数バックオフの初回遅延（30分）。
	initialBackoff = 30 * time.Minute
	// maxBackoff は指数バックオフの最大遅延（12時間）。
	maxBackoff = 12 * time.Hour
)

// CalculateBackoff は連続エラー回数に基づいて指数バックオフ遅延を計算する。
// 初回30分、2倍ずつ増加、最大12時間。
func CalculateBackoff(consecutiveErrors int) time.Duration {
	delay := initialBackoff
	for i := 0; i < consecutiveErrors; i++ {
		delay *= 2
		if delay > maxBackoff {
			return maxBackoff
		}
	}
	return delay
}

// sourceBackoff はソースURLごとのバックオフ状態。
type sourceBackoff struct {
	consecutiveErrors int
	nextAttempt       time.Time
}

// backoffTracker はソースURLごとの連続エラー回数と次回試行時刻を管理する。
// フィードURLは運用者が設定するため、状態は条件付きGETキャッシュと同様に
// メモリ上にのみ保持する。プロセス再起動でリセットされる。
type backoffTracker struct {
	mu      sync.Mutex
	sources map[string]*sourceBackoff
}

// newBackoffTracker はbackoffTrackerの新しいインスタンスを生成する。
func newBackoffTracker() *backoffTracker {
	return &backoffTracker{sources: make(map[string]*sourceBackoff)}
}

// ShouldFetch は現時点でソースのフェッチを試行すべきかを返す。
// バックオフ状態のないソースは常に試行対象となる。
func (b *backoffTracker) ShouldFetch(sourceURL string, now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	state, ok := b.sources[sourceURL]
	if !ok {
		return true
	}
	return !now.Before(state.nextAttempt)
}

// RecordFailure は連続エラー回数をインクリメントし、
// 指数バックオフで次回試行時刻を設定する。適用した遅延を返す。
func (b *backoffTracker) RecordFailure(sourceURL string, now time.Time) time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	state, ok := b.sources[sourceURL]
	if !ok {
		state = &sourceBackoff{}
		b.sources[sourceURL] = state
	}
	delay := CalculateBackoff(state.consecutiveErrors)
	state.consecutiveErrors++
	state.nextAttempt = now.Add(delay)
	return delay
}

// RecordSuccess は成功したソースのバックオフ状態をリセットする。
func (b *backoffTracker) RecordSuccess(sourceURL string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.sources, sourceURL)
}
