package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/hitoshi/scoutbase/internal/auth"
	"github.com/hitoshi/scoutbase/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// Signup は未認証アカウントを作成し、認証コードを送信する。
	Signup(ctx context.Context, email, password string, role model.Role) (*model.Account, error)
	// VerifyOTP は認証コードを検証し、アカウントを認証済みにする。
	VerifyOTP(ctx context.Context, email, otp string) error
	// ResendOTP は認証コードを再発行して送信する。
	ResendOTP(ctx context.Context, email string) error
	// Login はパスワードを検証し、トークンのペアを発行する。
	Login(ctx context.Context, email, password string) (*auth.LoginResult, error)
	// Refresh はリフレッシュトークンから新しいアクセストークンを発行する。
	Refresh(ctx context.Context, refreshToken string) (string, error)
	// Logout は記録済みリフレッシュトークンをクリアする。
	Logout(ctx context.Context, accountID string) error
	// ForgotPassword はパスワード再設定用の認証コードを発行する。
	ForgotPassword(ctx context.Context, email string) error
	// ResetPassword は認証コードを検証し、パスワードを上書きする。
	ResetPassword(ctx context.Context, email, otp, newPassword string) error
}

// AuthHandler は認証フローのHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

// signupRequest はアカウント登録リクエストのボディ。
type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// signupResponse はアカウント登録レスポンス。
type signupResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// Signup は新規アカウントを登録し、認証コードを送信する。
// POST /api/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w)
		return
	}

	if !isValidEmail(req.Email) {
		writeValidationError(w, "メールアドレスの形式が正しくありません。")
		return
	}
	if req.Password == "" {
		writeValidationError(w, "passwordは必須です。")
		return
	}
	role := model.Role(req.Role)
	if !role.IsValid() {
		writeValidationError(w, "roleにはplayerまたはorganizationを指定してください。")
		return
	}

	account, err := h.service.Signup(r.Context(), req.Email, req.Password, role)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, signupResponse{
		UserID: account.ID,
		Email:  account.Email,
		Role:   string(account.Role),
	})
}

// verifyOTPRequest は認証コード検証リクエストのボディ。
type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// VerifyOTP は認証コードを検証し、アカウントを認証済みにする。
// POST /api/auth/verify-otp
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w)
		return
	}

	if req.Email == "" || req.OTP == "" {
		writeValidationError(w, "emailとotpは必須です。")
		return
	}

	if err := h.service.VerifyOTP(r.Context(), req.Email, req.OTP); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "アカウントを認証しました。"})
}

// emailRequest はメールアドレスのみのリクエストボディ。
type emailRequest struct {
	Email string `json:"email"`
}

// ResendOTP は認証コードを再発行して送信する。
// POST /api/auth/resend-otp
func (h *AuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w)
		return
	}

	if req.Email == "" {
		writeValidationError(w, "emailは必須です。")
		return
	}

	if err := h.service.ResendOTP(r.Context(), req.Email); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "認証コードを再送信しました。"})
}

// loginRequest はログインリクエストのボディ。
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse はログイン成功レスポンス。
type loginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Role         string `json:"role"`
	UserID       string `json:"userId"`
}

// Login はパスワードを検証し、トークンのペアを返す。
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w)
		return
	}

	if req.Email == "" || req.Password == "" {
		writeValidationError(w, "emailとpasswordは必須です。")
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		Role:         string(result.Role),
		UserID:       result.AccountID,
	})
}

// refreshRequest はトークン再発行リクエストのボディ。
type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh はリフレッシュトークンから新しいアクセストークンを発行する。
// POST /api/auth/refresh-token
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w)
		return
	}

	if req.RefreshToken == "" {
		writeValidationError(w, "refreshTokenは必須です。")
		return
	}

	accessToken, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"accessToken": accessToken})
}

// logoutRequest はログアウトリクエストのボディ。
type logoutRequest struct {
	UserID string `json:"userId"`
}

// Logout は記録済みリフレッシュトークンをクリアする。冪等で常に200を返す。
// POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w)
		return
	}

	if req.UserID == "" {
		writeValidationError(w, "userIdは必須です。")
		return
	}

	if err := h.service.Logout(r.Context(), req.UserID); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "ログアウトしました。"})
}

// ForgotPassword はパスワード再設定用の認証コードを送信する。
// POST /api/auth/forgot-password
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w)
		return
	}

	if req.Email == "" {
		writeValidationError(w, "emailは必須です。")
		return
	}

	if err := h.service.ForgotPassword(r.Context(), req.Email); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "認証コードを送信しました。"})
}

// resetPasswordRequest はパスワード再設定リクエストのボディ。
type resetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

// ResetPassword は認証コードを検証し、パスワードを上書きする。
// POST /api/auth/reset-password
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w)
		return
	}

	if req.Email == "" || req.OTP == "" {
		writeValidationError(w, "emailとotpは必須です。")
		return
	}
	if req.NewPassword == "" {
		writeValidationError(w, "newPasswordは必須です。")
		return
	}

	if err := h.service.ResetPassword(r.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "パスワードを再設定しました。"})
}

// isValidEmail はメールアドレスの形式を簡易検証する。
func isValidEmail(email string) bool {
	if email == "" || len(email) > 254 {
		return false
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	return !strings.ContainsAny(email, " \t\r\n")
}
