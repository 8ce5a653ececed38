// Package cleanup はメンテナンス系の自動削除ジョブを提供する。
// 期限切れ認証コードのクリアと、保持期間を超過した既読通知の削除を
// 日次バッチで実行する。
package cleanup

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// Executor はSQLのExecContextを抽象化するインターフェース。
// *sql.DB や *sql.Tx を受け付けることができる。
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// CleanupJob は期限切れ認証コードと古い既読通知の自動削除ジョブ。
// 日次実行のバッチジョブとして設計されており、冪等な削除処理を保証する。
type CleanupJob struct {
	db            Executor
	logger        *slog.Logger
	RetentionDays int // 既読通知の保持日数（デフォルト: 90）
}

// NewCleanupJob は新しいCleanupJobを生成する。
// デフォルトの保持日数は90日。
func NewCleanupJob(db Executor, logger *slog.Logger) *CleanupJob {
	return &CleanupJob{
		db:            db,
		logger:        logger,
		RetentionDays: 90,
	}
}

// Run は期限切れ認証コードをクリアし、保持期間を超過した既読通知を削除する。
// 冪等: 対象がない場合でもエラーにならない。
func (j *CleanupJob) Run(ctx context.Context) error {
	start := time.Now()

	clearedOTPs, err := j.clearExpiredOTPs(ctx)
	if err != nil {
		return err
	}

	deletedNotifications, err := j.pruneReadNotifications(ctx)
	if err != nil {
		return err
	}

	duration := time.Since(start)
	j.logger.Info("クリーンアップジョブが完了しました",
		slog.Int64("cleared_otps", clearedOTPs),
		slog.Int64("deleted_notifications", deletedNotifications),
		slog.Int("retention_days", j.RetentionDays),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}

// clearExpiredOTPs は有効期限を過ぎた認証コードのペアをクリアする。
// 認証コードと有効期限は単一UPDATEで同時にNULLにする。
func (j *CleanupJob) clearExpiredOTPs(ctx context.Context) (int64, error) {
	query := `UPDATE accounts SET otp = NULL, otp_expires_at = NULL, updated_at = now() WHERE otp_expires_at < now()`
	result, err := j.db.ExecContext(ctx, query)
	if err != nil {
		j.logger.Error("期限切れ認証コードのクリアに失敗しました",
			slog.String("error", err.Error()),
		)
		return 0, fmt.Errorf("期限切れ認証コードのクリアに失敗: %w", err)
	}

	cleared, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("クリア件数の取得に失敗: %w", err)
	}
	return cleared, nil
}

// pruneReadNotifications は保持期間を超過した既読通知を削除する。
// 未読の通知は保持期間に関わらず削除しない。
func (j *CleanupJob) pruneReadNotifications(ctx context.Context) (int64, error) {
	interval := fmt.Sprintf("%d days", j.RetentionDays)

	query := `DELETE FROM notifications WHERE is_read = true AND created_at < now() - $1::interval`
	result, err := j.db.ExecContext(ctx, query, interval)
	if err != nil {
		j.logger.Error("既読通知の削除に失敗しました",
			slog.String("error", err.Error()),
			slog.Int("retention_days", j.RetentionDays),
		)
		return 0, fmt.Errorf("既読通知の削除に失敗: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("削除件数の取得に失敗: %w", err)
	}
	return deleted, nil
}
