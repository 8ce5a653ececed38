package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/scoutbase/internal/model"
)

// PostgresScoutingRepo はPostgreSQLを使用した募集リポジトリ。
type PostgresScoutingRepo struct {
	db *sql.DB
}

// NewPostgresScoutingRepo はPostgresScoutingRepoを生成する。
func NewPostgresScoutingRepo(db *sql.DB) *PostgresScoutingRepo {
	return &PostgresScoutingRepo{db: db}
}

const scoutingColumns = `id, organization_id, title, game_title, region, min_rank_tier, roles_wanted, description, status, created_at, updated_at`

// FindByID は指定IDの募集を取得する。見つからない場合はnilを返す。
func (r *PostgresScoutingRepo) FindByID(ctx context.Context, id string) (*model.Scouting, error) {
	s := &model.Scouting{}
	err := r.db.QueryRowContext(ctx,
		`SELECT `+scoutingColumns+` FROM scoutings WHERE id = $1`,
		id,
	).Scan(
		&s.ID, &s.OrganizationID, &s.Title, &s.GameTitle, &s.Region,
		&s.MinRankTier, &s.RolesWanted, &s.Description, &s.Status,
		&s.CreatedAt, &s.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find scouting by ID: %w", err)
	}

	return s, nil
}

// Create は募集を作成する。
func (r *PostgresScoutingRepo) Create(ctx context.Context, scouting *model.Scouting) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO scoutings (id, organization_id, title, game_title, region, min_rank_tier, roles_wanted, description, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		scouting.ID, scouting.OrganizationID, scouting.Title, scouting.GameTitle,
		scouting.Region, scouting.MinRankTier, scouting.RolesWanted,
		scouting.Description, scouting.Status, scouting.CreatedAt, scouting.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert scouting: %w", err)
	}

	return nil
}

// Update は募集を上書き更新する。
func (r *PostgresScoutingRepo) Update(ctx context.Context, scouting *model.Scouting) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE scoutings SET
		   title = $2, game_title = $3, region = $4, min_rank_tier = $5,
		   roles_wanted = $6, description = $7, status = $8, updated_at = $9
		 WHERE id = $1`,
		scouting.ID, scouting.Title, scouting.GameTitle, scouting.Region,
		scouting.MinRankTier, scouting.RolesWanted, scouting.Description,
		scouting.Status, scouting.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update scouting: %w", err)
	}

	return nil
}

// Delete は指定IDの募集を削除する。関連する応募はCASCADE削除される。
func (r *PostgresScoutingRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM scoutings WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete scouting: %w", err)
	}

	return nil
}

// List は検索条件に一致する募集を新着順で返す。
// 空文字の条件は無視する。limitが0以下の場合は20件とする。
func (r *PostgresScoutingRepo) List(ctx context.Context, filter model.ScoutingFilter) ([]*model.Scouting, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + scoutingColumns + ` FROM scoutings WHERE 1=1`
	args := []interface{}{}

	if filter.GameTitle != "" {
		args = append(args, filter.GameTitle)
		query += fmt.Sprintf(" AND game_title = $%d", len(args))
	}
	if filter.Region != "" {
		args = append(args, filter.Region)
		query += fmt.Sprintf(" AND region = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}

	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list scoutings: %w", err)
	}
	defer rows.Close()

	var scoutings []*model.Scouting
	for rows.Next() {
		s := &model.Scouting{}
		if err := rows.Scan(
			&s.ID, &s.OrganizationID, &s.Title, &s.GameTitle, &s.Region,
			&s.MinRankTier, &s.RolesWanted, &s.Description, &s.Status,
			&s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan scouting: %w", err)
		}
		scoutings = append(scoutings, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scoutings: %w", err)
	}

	return scoutings, nil
}

// compile-time interface check
var _ ScoutingRepository = (*PostgresScoutingRepo)(nil)
