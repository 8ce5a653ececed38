package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/scoutbase/internal/model"
)

// PostgresOrganizationRepo はPostgreSQLを使用した組織リポジトリ。
type PostgresOrganizationRepo struct {
	db *sql.DB
}

// NewPostgresOrganizationRepo はPostgresOrganizationRepoを生成する。
func NewPostgresOrganizationRepo(db *sql.DB) *PostgresOrganizationRepo {
	return &PostgresOrganizationRepo{db: db}
}

const organizationColumns = `id, account_id, name, region, description, website, created_at, updated_at`

func scanOrganization(row *sql.Row) (*model.Organization, error) {
	o := &model.Organization{}
	err := row.Scan(
		&o.ID, &o.AccountID, &o.Name, &o.Region, &o.Description, &o.Website,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// FindByID は指定IDの組織を取得する。見つからない場合はnilを返す。
func (r *PostgresOrganizationRepo) FindByID(ctx context.Context, id string) (*model.Organization, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+organizationColumns+` FROM organizations WHERE id = $1`,
		id,
	)

	org, err := scanOrganization(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find organization by ID: %w", err)
	}

	return org, nil
}

// FindByAccountID はアカウントIDで組織を検索する。見つからない場合はnilを返す。
func (r *PostgresOrganizationRepo) FindByAccountID(ctx context.Context, accountID string) (*model.Organization, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+organizationColumns+` FROM organizations WHERE account_id = $1`,
		accountID,
	)

	org, err := scanOrganization(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find organization by account ID: %w", err)
	}

	return org, nil
}

// Upsert はアカウントIDをキーに組織を作成または更新する。
func (r *PostgresOrganizationRepo) Upsert(ctx context.Context, org *model.Organization) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO organizations (id, account_id, name, region, description, website, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (account_id) DO UPDATE SET
		   name = EXCLUDED.name,
		   region = EXCLUDED.region,
		   description = EXCLUDED.description,
		   website = EXCLUDED.website,
		   updated_at = EXCLUDED.updated_at`,
		org.ID, org.AccountID, org.Name, org.Region, org.Description,
		org.Website, org.CreatedAt, org.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert organization: %w", err)
	}

	return nil
}

// compile-time interface check
var _ OrganizationRepository = (*PostgresOrganizationRepo)(nil)
