package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/scoutbase/internal/model"
)

// PostgresProfileRepo はPostgreSQLを使用した選手プロフィールリポジトリ。
type PostgresProfileRepo struct {
	db *sql.DB
}

// NewPostgresProfileRepo はPostgresProfileRepoを生成する。
func NewPostgresProfileRepo(db *sql.DB) *PostgresProfileRepo {
	return &PostgresProfileRepo{db: db}
}

const profileColumns = `id, account_id, display_name, game_title, in_game_role, region, rank_tier, bio, looking_for_team, created_at, updated_at`

func scanProfile(row *sql.Row) (*model.Profile, error) {
	p := &model.Profile{}
	err := row.Scan(
		&p.ID, &p.AccountID, &p.DisplayName, &p.GameTitle, &p.InGameRole,
		&p.Region, &p.RankTier, &p.Bio, &p.LookingForTeam,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// FindByID は指定IDのプロフィールを取得する。見つからない場合はnilを返す。
func (r *PostgresProfileRepo) FindByID(ctx context.Context, id string) (*model.Profile, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1`,
		id,
	)

	profile, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find profile by ID: %w", err)
	}

	return profile, nil
}

// FindByAccountID はアカウントIDでプロフィールを検索する。見つからない場合はnilを返す。
func (r *PostgresProfileRepo) FindByAccountID(ctx context.Context, accountID string) (*model.Profile, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE account_id = $1`,
		accountID,
	)

	profile, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find profile by account ID: %w", err)
	}

	return profile, nil
}

// Upsert はアカウントIDをキーにプロフィールを作成または更新する。
func (r *PostgresProfileRepo) Upsert(ctx context.Context, profile *model.Profile) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO profiles (id, account_id, display_name, game_title, in_game_role, region, rank_tier, bio, looking_for_team, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (account_id) DO UPDATE SET
		   display_name = EXCLUDED.display_name,
		   game_title = EXCLUDED.game_title,
		   in_game_role = EXCLUDED.in_game_role,
		   region = EXCLUDED.region,
		   rank_tier = EXCLUDED.rank_tier,
		   bio = EXCLUDED.bio,
		   looking_for_team = EXCLUDED.looking_for_team,
		   updated_at = EXCLUDED.updated_at`,
		profile.ID, profile.AccountID, profile.DisplayName, profile.GameTitle,
		profile.InGameRole, profile.Region, profile.RankTier, profile.Bio,
		profile.LookingForTeam, profile.CreatedAt, profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}

	return nil
}

// compile-time interface check
var _ ProfileRepository = (*PostgresProfileRepo)(nil)
