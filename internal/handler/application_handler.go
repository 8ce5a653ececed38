package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/scoutbase/internal/middleware"
	"github.com/hitoshi/scoutbase/internal/model"
)

// ApplicationServiceInterface は応募ハンドラーが必要とするサービスインターフェース。
type ApplicationServiceInterface interface {
	// ListMine は選手自身の応募一覧を返す。
	ListMine(ctx context.Context, playerAccountID string) ([]*model.Application, error)
	// Select は応募を採用する。
	Select(ctx context.Context, accountID, applicationID string) error
	// Reject は応募を不採用にする。
	Reject(ctx context.Context, accountID, applicationID string) error
}

// ApplicationHandler は応募と選考のHTTPハンドラー。
type ApplicationHandler struct {
	service ApplicationServiceInterface
}

// NewApplicationHandler はApplicationHandlerを生成する。
func NewApplicationHandler(service ApplicationServiceInterface) *ApplicationHandler {
	return &ApplicationHandler{service: service}
}

// applicationResponse は応募のAPIレスポンス。
type applicationResponse struct {
	ID              string    `json:"id"`
	ScoutingID      string    `json:"scouting_id"`
	PlayerAccountID string    `json:"player_account_id"`
	Message         string    `json:"message"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// toApplicationResponse はモデルをAPIレスポンスに変換する。
func toApplicationResponse(app *model.Application) applicationResponse {
	return applicationResponse{
		ID:              app.ID,
		ScoutingID:      app.ScoutingID,
		PlayerAccountID: app.PlayerAccountID,
		Message:         app.Message,
		Status:          string(app.Status),
		CreatedAt:       app.CreatedAt,
		UpdatedAt:       app.UpdatedAt,
	}
}

// ListMine は自分の応募一覧を取得する。
// GET /api/applications/me
func (h *ApplicationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	accountID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	apps, err := h.service.ListMine(r.Context(), accountID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]applicationResponse, len(apps))
	for i, app := range apps {
		resp[i] = toApplicationResponse(app)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Select は応募を採用する。
// POST /api/applications/{id}/select
func (h *ApplicationHandler) Select(w http.ResponseWriter, r *http.Request) {
	accountID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	id := chi.URLParam(r, "id")

	if err := h.service.Select(r.Context(), accountID, id); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "応募を採用しました。"})
}

// Reject は応募を不採用にする。
// POST /api/applications/{id}/reject
func (h *ApplicationHandler) Reject(w http.ResponseWriter, r *http.Request) {
	accountID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	id := chi.URLParam(r, "id")

	if err := h.service.Reject(r.Context(), accountID, id); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "応募を不採用にしました。"})
}
