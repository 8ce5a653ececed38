package cleanup

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

// fakeResult はテスト用のsql.Result実装。
type fakeResult struct {
	rows int64
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, nil }

// execCall は実行されたSQLとその引数の記録。
type execCall struct {
	query string
	args  []interface{}
}

// fakeExecutor はテスト用のExecutorモック。
type fakeExecutor struct {
	calls []execCall
	rows  int64
	err   error
}

func (f *fakeExecutor) ExecContext(_ context.Context, query string, args ...interface{}) (sql.Result, error) {
	f.calls = append(f.calls, execCall{query: query, args: args})
	if f.err != nil {
		return nil, f.err
	}
	return fakeResult{rows: f.rows}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestRunExecutesBothCleanups(t *testing.T) {
	db := &fakeExecutor{rows: 3}
	job := NewCleanupJob(db, discardLogger())

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(db.calls) != 2 {
		t.Fatalf("exec calls = %d, want 2", len(db.calls))
	}

	// 期限切れ認証コードはコードと有効期限を単一UPDATEで同時にクリアする
	otpQuery := db.calls[0].query
	if !strings.Contains(otpQuery, "UPDATE accounts") {
		t.Errorf("first query should update accounts, got %q", otpQuery)
	}
	if !strings.Contains(otpQuery, "otp = NULL") || !strings.Contains(otpQuery, "otp_expires_at = NULL") {
		t.Errorf("OTP pair should be cleared together, got %q", otpQuery)
	}

	// 既読通知のみ保持期間超過で削除する
	pruneQuery := db.calls[1].query
	if !strings.Contains(pruneQuery, "DELETE FROM notifications") {
		t.Errorf("second query should delete notifications, got %q", pruneQuery)
	}
	if !strings.Contains(pruneQuery, "is_read = true") {
		t.Errorf("only read notifications may be pruned, got %q", pruneQuery)
	}
}

func TestRunPassesRetentionInterval(t *testing.T) {
	db := &fakeExecutor{}
	job := NewCleanupJob(db, discardLogger())
	job.RetentionDays = 30

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	pruneArgs := db.calls[1].args
	if len(pruneArgs) != 1 {
		t.Fatalf("prune args = %d, want 1", len(pruneArgs))
	}
	if pruneArgs[0] != "30 days" {
		t.Errorf("interval arg = %v, want %q", pruneArgs[0], "30 days")
	}
}

func TestRunDefaultRetention(t *testing.T) {
	job := NewCleanupJob(&fakeExecutor{}, discardLogger())
	if job.RetentionDays != 90 {
		t.Errorf("RetentionDays = %d, want 90", job.RetentionDays)
	}
}

func TestRunStopsOnError(t *testing.T) {
	db := &fakeExecutor{err: errors.New("connection refused")}
	job := NewCleanupJob(db, discardLogger())

	if err := job.Run(context.Background()); err == nil {
		t.Error("Run should propagate database errors")
	}
	if len(db.calls) != 1 {
		t.Errorf("exec calls = %d, want 1 (should stop after first failure)", len(db.calls))
	}
}

func TestRunIsIdempotentWithNoTargets(t *testing.T) {
	// 対象0件でもエラーにならない
	db := &fakeExecutor{rows: 0}
	job := NewCleanupJob(db, discardLogger())

	if err := job.Run(context.Background()); err != nil {
		t.Errorf("Run with no targets should succeed: %v", err)
	}
}
