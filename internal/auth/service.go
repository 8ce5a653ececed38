// Package auth はOTPによるメール認証とJWTセッション管理を提供する。
package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/scoutbase/internal/mail"
	"github.com/hitoshi/scoutbase/internal/model"
	"github.com/hitoshi/scoutbase/internal/repository"
	"github.com/hitoshi/scoutbase/internal/security"
)

// MetricsRecorder は認証系メトリクスの記録インターフェース。
// nilの場合は記録をスキップする。
type MetricsRecorder interface {
	RecordSignup()
	RecordOTPIssued()
	RecordOTPVerifyFailure()
	RecordLoginSuccess()
	RecordLoginFailure()
	RecordMailFailure()
}

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	OTPTTL time.Duration // 認証コードの有効期間
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	accounts repository.AccountRepository
	tokens   *TokenManager
	sender   mail.Sender
	metrics  MetricsRecorder
	config   ServiceConfig
}

// NewService はServiceを生成する。metricsはnilでもよい。
func NewService(
	accounts repository.AccountRepository,
	tokens *TokenManager,
	sender mail.Sender,
	metrics MetricsRecorder,
	config ServiceConfig,
) *Service {
	return &Service{
		accounts: accounts,
		tokens:   tokens,
		sender:   sender,
		metrics:  metrics,
		config:   config,
	}
}

// LoginResult はログイン成功時の応答データ。
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	Role         model.Role
	AccountID    string
}

// Signup は未認証アカウントを作成し、認証コードを送信する。
// メールアドレスが登録済みの場合はEmailAlreadyRegisteredエラーを返す。
func (s *Service) Signup(ctx context.Context, email, password string, role model.Role) (*model.Account, error) {
	existing, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	if existing != nil {
		return nil, model.NewEmailAlreadyRegisteredError()
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	account := &model.Account{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		IsVerified:   false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordSignup()
	}
	slog.Info("account created",
		slog.String("account_id", account.ID),
		slog.String("role", string(role)),
	)

	if err := s.issueOTP(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// VerifyOTP は認証コードを検証し、成功時にアカウントを認証済みにする。
func (s *Service) VerifyOTP(ctx context.Context, email, submittedOTP string) error {
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to find account: %w", err)
	}
	if account == nil {
		return model.NewAccountNotFoundError()
	}

	if err := s.checkOTP(account, submittedOTP); err != nil {
		return err
	}

	if err := s.accounts.MarkVerified(ctx, account.ID); err != nil {
		return fmt.Errorf("failed to mark account verified: %w", err)
	}

	slog.Info("account verified", slog.String("account_id", account.ID))
	return nil
}

// ResendOTP は認証コードを再発行して送信する。
// 既存のコードは上書きされ、有効期限は発行時点から再計算される。
func (s *Service) ResendOTP(ctx context.Context, email string) error {
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to find account: %w", err)
	}
	if account == nil {
		return model.NewAccountNotFoundError()
	}

	return s.issueOTP(ctx, account)
}

// Login はパスワードを検証し、アクセス/リフレッシュトークンのペアを発行する。
// 未認証アカウントはパスワードの正否に関わらずAccountNotVerifiedエラーになる。
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	if account == nil {
		return nil, model.NewAccountNotFoundError()
	}

	if !account.IsVerified {
		if s.metrics != nil {
			s.metrics.RecordLoginFailure()
		}
		return nil, model.NewAccountNotVerifiedError()
	}

	if !security.ComparePassword(account.PasswordHash, password) {
		if s.metrics != nil {
			s.metrics.RecordLoginFailure()
		}
		slog.Warn("login failed", slog.String("account_id", account.ID))
		return nil, model.NewInvalidCredentialsError()
	}

	accessToken, err := s.tokens.IssueAccessToken(account.ID, account.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	refreshToken, err := s.tokens.IssueRefreshToken(account.ID, account.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	// ログアウトによる単一セッション無効化のため、発行済みリフレッシュトークンを記録する
	if err := s.accounts.SetRefreshToken(ctx, account.ID, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordLoginSuccess()
	}
	slog.Info("login succeeded", slog.String("account_id", account.ID))

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Role:         account.Role,
		AccountID:    account.ID,
	}, nil
}

// Refresh はリフレッシュトークンを検証し、新しいアクセストークンを発行する。
// トークンは暗号的に有効であることに加え、アカウントに記録済みの値と
// 一致する必要がある。リフレッシュトークン自体はローテーションしない。
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return "", model.NewInvalidRefreshTokenError()
	}

	account, err := s.accounts.FindByID(ctx, claims.Subject)
	if err != nil {
		return "", fmt.Errorf("failed to find account: %w", err)
	}
	if account == nil || account.RefreshToken == nil || *account.RefreshToken != refreshToken {
		return "", model.NewInvalidRefreshTokenError()
	}

	accessToken, err := s.tokens.IssueAccessToken(account.ID, account.Role)
	if err != nil {
		return "", fmt.Errorf("failed to issue access token: %w", err)
	}

	return accessToken, nil
}

// Logout は記録済みリフレッシュトークンをクリアする。冪等。
// クリア後は同じリフレッシュトークンでのRefreshが失敗するようになる。
func (s *Service) Logout(ctx context.Context, accountID string) error {
	if err := s.accounts.ClearRefreshToken(ctx, accountID); err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}

	slog.Info("logout", slog.String("account_id", accountID))
	return nil
}

// ForgotPassword はパスワード再設定用の認証コードを発行して送信する。
// 認証済みフラグには影響しない。
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to find account: %w", err)
	}
	if account == nil {
		return model.NewAccountNotFoundError()
	}

	return s.issueOTP(ctx, account)
}

// ResetPassword は認証コードを検証し、成功時にパスワードを上書きする。
// 検証ゲートはVerifyOTPと同一で、終端動作のみが異なる。
func (s *Service) ResetPassword(ctx context.Context, email, submittedOTP, newPassword string) error {
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to find account: %w", err)
	}
	if account == nil {
		return model.NewAccountNotFoundError()
	}

	if err := s.checkOTP(account, submittedOTP); err != nil {
		return err
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.accounts.UpdatePassword(ctx, account.ID, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	slog.Info("password reset", slog.String("account_id", account.ID))
	return nil
}

// issueOTP は認証コードを生成してアカウントに記録し、メールで送信する。
// メール送信の失敗はログとメトリクスに記録するのみで、エラーにはしない。
func (s *Service) issueOTP(ctx context.Context, account *model.Account) error {
	otp, err := GenerateOTP()
	if err != nil {
		return fmt.Errorf("failed to generate otp: %w", err)
	}

	expiresAt := time.Now().Add(s.config.OTPTTL)
	if err := s.accounts.SetOTP(ctx, account.ID, otp, expiresAt); err != nil {
		return fmt.Errorf("failed to persist otp: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordOTPIssued()
	}

	if err := s.sender.SendOTP(ctx, account.Email, otp); err != nil {
		if s.metrics != nil {
			s.metrics.RecordMailFailure()
		}
		slog.Error("failed to send otp mail",
			slog.String("account_id", account.ID),
			slog.String("error", err.Error()),
		)
	}

	return nil
}

// checkOTP は提出された認証コードを記録済みの値と照合する。
// 判定順序: コード未発行 → 期限切れ → 不一致。比較は定数時間で行う。
func (s *Service) checkOTP(account *model.Account, submittedOTP string) error {
	if account.OTP == nil || account.OTPExpiresAt == nil {
		return model.NewOTPNotIssuedError()
	}

	if time.Now().After(*account.OTPExpiresAt) {
		if s.metrics != nil {
			s.metrics.RecordOTPVerifyFailure()
		}
		return model.NewOTPExpiredError()
	}

	if subtle.ConstantTimeCompare([]byte(*account.OTP), []byte(submittedOTP)) != 1 {
		if s.metrics != nil {
			s.metrics.RecordOTPVerifyFailure()
		}
		return model.NewOTPMismatchError()
	}

	return nil
}
