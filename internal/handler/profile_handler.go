package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/scoutbase/internal/middleware"
	"github.com/hitoshi/scoutbase/internal/model"
	"github.com/hitoshi/scoutbase/internal/profile"
)

// ProfileServiceInterface はプロフィールハンドラーが必要とするサービスインターフェース。
type ProfileServiceInterface interface {
	// UpsertMine は自分のプロフィールを作成または更新する。
	UpsertMine(ctx context.Context, accountID string, input profile.Input) (*model.Profile, error)
	// GetMine は自分のプロフィールを取得する。
	GetMine(ctx context.Context, accountID string) (*model.Profile, error)
	// Get は指定IDのプロフィールを取得する。
	Get(ctx context.Context, id string) (*model.Profile, error)
}

// ProfileHandler は選手プロフィールのHTTPハンドラー。
type ProfileHandler struct {
	service ProfileServiceInterface
}

// NewProfileHandler はProfileHandlerを生成する。
func NewProfileHandler(service ProfileServiceInterface) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// profileRequest はプロフィール作成・更新リクエストのボディ。
type profileRequest struct {
	DisplayName    string `json:"display_name"`
	GameTitle      string `json:"game_title"`
	InGameRole     string `json:"in_game_role"`
	Region         string `json:"region"`
	RankTier       string `json:"rank_tier"`
	Bio            string `json:"bio"`
	LookingForTeam bool   `json:"looking_for_team"`
}

// profileResponse はプロフィールのAPIレスポンス。
type profileResponse struct {
	ID             string    `json:"id"`
	AccountID      string    `json:"account_id"`
	DisplayName    string    `json:"display_name"`
	GameTitle      string    `json:"game_title"`
	InGameRole     string    `json:"in_game_role"`
	Region         string    `json:"region"`
	RankTier       string    `json:"rank_tier"`
	Bio            string    `json:"bio"`
	LookingForTeam bool      `json:"looking_for_team"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// toProfileResponse はモデルをAPIレスポンスに変換する。
func toProfileResponse(p *model.Profile) profileResponse {
	return profileResponse{
		ID:             p.ID,
		AccountID:      p.AccountID,
		DisplayName:    p.DisplayName,
		GameTitle:      p.GameTitle,
		InGameRole:     p.InGameRole,
		Region:         p.Region,
		RankTier:       p.RankTier,
		Bio:            p.Bio,
		LookingForTeam: p.LookingForTeam,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// UpsertMine は自分のプロフィールを作成または更新する。
// PUT /api/profiles/me
func (h *ProfileHandler) UpsertMine(w http.ResponseWriter, r *http.Request) {
	accountID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w)
		return
	}

	if req.DisplayName == "" {
		writeValidationError(w, "display_nameは必須です。")
		return
	}

	p, err := h.service.UpsertMine(r.Context(), accountID, profile.Input{
		DisplayName:    req.DisplayName,
		GameTitle:      req.GameTitle,
		InGameRole:     req.InGameRole,
		Region:         req.Region,
		RankTier:       req.RankTier,
		Bio:            req.Bio,
		LookingForTeam: req.LookingForTeam,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProfileResponse(p))
}

// GetMine は自分のプロフィールを取得する。
// GET /api/profiles/me
func (h *ProfileHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	accountID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	p, err := h.service.GetMine(r.Context(), accountID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProfileResponse(p))
}

// Get は指定IDのプロフィールを取得する。
// GET /api/profiles/{id}
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProfileResponse(p))
}
