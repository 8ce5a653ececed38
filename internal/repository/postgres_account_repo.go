package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/scoutbase/internal/model"
)

// PostgresAccountRepo はPostgreSQLを使用したアカウントリポジトリ。
type PostgresAccountRepo struct {
	db *sql.DB
}

// NewPostgresAccountRepo はPostgresAccountRepoを生成する。
func NewPostgresAccountRepo(db *sql.DB) *PostgresAccountRepo {
	return &PostgresAccountRepo{db: db}
}

const accountColumns = `id, email, password_hash, role, is_verified, otp, otp_expires_at, refresh_token, created_at, updated_at`

// scanAccount は1行をmodel.Accountに読み込む。
func scanAccount(row *sql.Row) (*model.Account, error) {
	account := &model.Account{}
	var otp, refreshToken sql.NullString
	var otpExpiresAt sql.NullTime

	err := row.Scan(
		&account.ID, &account.Email, &account.PasswordHash, &account.Role,
		&account.IsVerified, &otp, &otpExpiresAt, &refreshToken,
		&account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if otp.Valid {
		account.OTP = &otp.String
	}
	if otpExpiresAt.Valid {
		t := otpExpiresAt.Time
		account.OTPExpiresAt = &t
	}
	if refreshToken.Valid {
		account.RefreshToken = &refreshToken.String
	}

	return account, nil
}

// FindByID は指定IDのアカウントを取得する。見つからない場合はnilを返す。
func (r *PostgresAccountRepo) FindByID(ctx context.Context, id string) (*model.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`,
		id,
	)

	account, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account by ID: %w", err)
	}

	return account, nil
}

// FindByEmail はメールアドレスでアカウントを検索する。見つからない場合はnilを返す。
func (r *PostgresAccountRepo) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = $1`,
		email,
	)

	account, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account by email: %w", err)
	}

	return account, nil
}

// Create はアカウントを作成する。
func (r *PostgresAccountRepo) Create(ctx context.Context, account *model.Account) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, email, password_hash, role, is_verified, otp, otp_expires_at, refresh_token, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		account.ID, account.Email, account.PasswordHash, account.Role,
		account.IsVerified, account.OTP, account.OTPExpiresAt, account.RefreshToken,
		account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}

	return nil
}

// SetOTP は認証コードと有効期限を単一UPDATEで設定する。
func (r *PostgresAccountRepo) SetOTP(ctx context.Context, id, otp string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET otp = $2, otp_expires_at = $3, updated_at = now() WHERE id = $1`,
		id, otp, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to set otp: %w", err)
	}

	return nil
}

// MarkVerified は認証済みフラグを立て、認証コードのペアをクリアする。
func (r *PostgresAccountRepo) MarkVerified(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET is_verified = TRUE, otp = NULL, otp_expires_at = NULL, updated_at = now() WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark account verified: %w", err)
	}

	return nil
}

// UpdatePassword はパスワードハッシュを上書きし、認証コードのペアをクリアする。
func (r *PostgresAccountRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET password_hash = $2, otp = NULL, otp_expires_at = NULL, updated_at = now() WHERE id = $1`,
		id, passwordHash,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// SetRefreshToken は発行済みリフレッシュトークンを記録する。
func (r *PostgresAccountRepo) SetRefreshToken(ctx context.Context, id, token string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET refresh_token = $2, updated_at = now() WHERE id = $1`,
		id, token,
	)
	if err != nil {
		return fmt.Errorf("failed to set refresh token: %w", err)
	}

	return nil
}

// ClearRefreshToken は記録済みリフレッシュトークンをクリアする。冪等。
func (r *PostgresAccountRepo) ClearRefreshToken(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET refresh_token = NULL, updated_at = now() WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}

	return nil
}

// compile-time interface check
var _ AccountRepository = (*PostgresAccountRepo)(nil)
