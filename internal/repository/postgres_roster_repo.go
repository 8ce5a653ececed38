package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/scoutbase/internal/model"
)

// PostgresRosterRepo はPostgreSQLを使用したロスターリポジトリ。
type PostgresRosterRepo struct {
	db *sql.DB
}

// NewPostgresRosterRepo はPostgresRosterRepoを生成する。
func NewPostgresRosterRepo(db *sql.DB) *PostgresRosterRepo {
	return &PostgresRosterRepo{db: db}
}

// Add は選手をロスターに追加する。既に所属している場合は何もしない。
func (r *PostgresRosterRepo) Add(ctx context.Context, member *model.RosterMember) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO roster_members (id, organization_id, player_account_id, joined_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (organization_id, player_account_id) DO NOTHING`,
		member.ID, member.OrganizationID, member.PlayerAccountID, member.JoinedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add roster member: %w", err)
	}

	return nil
}

// ListByOrganizationID は組織のロスター一覧を加入日時の昇順で返す。
func (r *PostgresRosterRepo) ListByOrganizationID(ctx context.Context, organizationID string) ([]*model.RosterMember, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, organization_id, player_account_id, joined_at
		 FROM roster_members WHERE organization_id = $1 ORDER BY joined_at ASC`,
		organizationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list roster members: %w", err)
	}
	defer rows.Close()

	var members []*model.RosterMember
	for rows.Next() {
		m := &model.RosterMember{}
		if err := rows.Scan(&m.ID, &m.OrganizationID, &m.PlayerAccountID, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan roster member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate roster members: %w", err)
	}

	return members, nil
}

// Remove は選手をロスターから外す。所属していない場合はfalseを返す。
func (r *PostgresRosterRepo) Remove(ctx context.Context, organizationID, playerAccountID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM roster_members WHERE organization_id = $1 AND player_account_id = $2`,
		organizationID, playerAccountID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to remove roster member: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// compile-time interface check
var _ RosterRepository = (*PostgresRosterRepo)(nil)
