package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/scoutbase/internal/model"
)

// PostgresApplicationRepo はPostgreSQLを使用した応募リポジトリ。
type PostgresApplicationRepo struct {
	db *sql.DB
}

// NewPostgresApplicationRepo はPostgresApplicationRepoを生成する。
func NewPostgresApplicationRepo(db *sql.DB) *PostgresApplicationRepo {
	return &PostgresApplicationRepo{db: db}
}

const applicationColumns = `id, scouting_id, player_account_id, message, status, created_at, updated_at`

func scanApplicationRow(row *sql.Row) (*model.Application, error) {
	a := &model.Application{}
	err := row.Scan(
		&a.ID, &a.ScoutingID, &a.PlayerAccountID, &a.Message, &a.Status,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// FindByID は指定IDの応募を取得する。見つからない場合はnilを返す。
func (r *PostgresApplicationRepo) FindByID(ctx context.Context, id string) (*model.Application, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`,
		id,
	)

	application, err := scanApplicationRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find application by ID: %w", err)
	}

	return application, nil
}

// FindByScoutingAndPlayer は募集IDと選手アカウントIDで応募を検索する。
// 見つからない場合はnilを返す。
func (r *PostgresApplicationRepo) FindByScoutingAndPlayer(ctx context.Context, scoutingID, playerAccountID string) (*model.Application, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE scouting_id = $1 AND player_account_id = $2`,
		scoutingID, playerAccountID,
	)

	application, err := scanApplicationRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find application by scouting and player: %w", err)
	}

	return application, nil
}

// Create は応募を作成する。
func (r *PostgresApplicationRepo) Create(ctx context.Context, application *model.Application) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO applications (id, scouting_id, player_account_id, message, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		application.ID, application.ScoutingID, application.PlayerAccountID,
		application.Message, application.Status, application.CreatedAt, application.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert application: %w", err)
	}

	return nil
}

// listApplications は指定条件の応募一覧を新着順で取得する共通処理。
func (r *PostgresApplicationRepo) listApplications(ctx context.Context, where string, arg string) ([]*model.Application, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE `+where+` ORDER BY created_at DESC`,
		arg,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var applications []*model.Application
	for rows.Next() {
		a := &model.Application{}
		if err := rows.Scan(
			&a.ID, &a.ScoutingID, &a.PlayerAccountID, &a.Message, &a.Status,
			&a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		applications = append(applications, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate applications: %w", err)
	}

	return applications, nil
}

// ListByScoutingID は募集への応募一覧を新着順で返す。
func (r *PostgresApplicationRepo) ListByScoutingID(ctx context.Context, scoutingID string) ([]*model.Application, error) {
	return r.listApplications(ctx, "scouting_id = $1", scoutingID)
}

// ListByPlayerID は選手の応募一覧を新着順で返す。
func (r *PostgresApplicationRepo) ListByPlayerID(ctx context.Context, playerAccountID string) ([]*model.Application, error) {
	return r.listApplications(ctx, "player_account_id = $1", playerAccountID)
}

// UpdateStatus は応募の状態を更新する。
func (r *PostgresApplicationRepo) UpdateStatus(ctx context.Context, id string, status model.ApplicationStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE applications SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}

	return nil
}

// compile-time interface check
var _ ApplicationRepository = (*PostgresApplicationRepo)(nil)
