package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/scoutbase/internal/middleware"
	"github.com/hitoshi/scoutbase/internal/model"
	"github.com/hitoshi/scoutbase/internal/organization"
)

// OrganizationServiceInterface は組織ハンドラーが必要とするサービスインターフェース。
type OrganizationServiceInterface interface {
	// UpsertMine は自分の組織プロフィールを作成または更新する。
	UpsertMine(ctx context.Context, accountID string, input organization.Input) (*model.Organization, error)
	// GetMine は自分の組織プロフィールを取得する。
	GetMine(ctx context.Context, accountID string) (*model.Organization, error)
	// Get は指定IDの組織プロフィールを取得する。
	Get(ctx context.Context, id string) (*model.Organization, error)
	// ListRoster は指定組織のロスター一覧を返す。
	ListRoster(ctx context.Context, organizationID string) ([]*model.RosterMember, error)
	// RemoveRosterMember は自組織のロスターから選手を外す。
	RemoveRosterMember(ctx context.Context, accountID, playerAccountID string) error
}

// OrganizationHandler は組織プロフィールとロスターのHTTPハンドラー。
type OrganizationHandler struct {
	service OrganizationServiceInterface
}

// NewOrganizationHandler はOrganizationHandlerを生成する。
func NewOrganizationHandler(service OrganizationServiceInterface) *OrganizationHandler {
	return &OrganizationHandler{service: service}
}

// organizationRequest は組織プロフィール作成・更新リクエストのボディ。
type organizationRequest struct {
	Name        string `json:"name"`
	Region      string `json:"region"`
	Description string `json:"description"`
	Website     string `json:"website"`
}

// organizationResponse は組織プロフィールのAPIレスポンス。
type organizationResponse struct {
	ID          string    `json:"id"`
	AccountID   string    `json:"account_id"`
	Name        string    `json:"name"`
	Region      string    `json:"region"`
	Description string    `json:"description"`
	Website     string    `json:"website"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// rosterMemberResponse はロスター所属選手のAPIレスポンス。
type rosterMemberResponse struct {
	ID              string    `json:"id"`
	OrganizationID  string    `json:"organization_id"`
	PlayerAccountID string    `json:"player_account_id"`
	JoinedAt        time.Time `json:"joined_at"`
}

// toOrganizationResponse はモデルをAPIレスポンスに変換する。
func toOrganizationResponse(org *model.Organization) organizationResponse {
	return organizationResponse{
		ID:          org.ID,
		AccountID:   org.AccountID,
		Name:        org.Name,
		Region:      org.Region,
		Description: org.Description,
		Website:     org.Website,
		CreatedAt:   org.CreatedAt,
		UpdatedAt:   org.UpdatedAt,
	}
}

// UpsertMine は自分の組織プロフィールを作成または更新する。
// PUT /api/organizations/me
func (h *OrganizationHandler) UpsertMine(w http.ResponseWriter, r *http.Request) {
	accountID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req organizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w)
		return
	}

	if req.Name == "" {
		writeValidationError(w, "nameは必須です。")
		return
	}

	org, err := h.service.UpsertMine(r.Context(), accountID, organization.Input{
		Name:        req.Name,
		Region:      req.Region,
		Description: req.Description,
		Website:     req.Website,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrganizationResponse(org))
}

// GetMine は自分の組織プロフィールを取得する。
// GET /api/organizations/me
func (h *OrganizationHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	accountID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	org, err := h.service.GetMine(r.Context(), accountID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrganizationResponse(org))
}

// Get は指定IDの組織プロフィールを取得する。
// GET /api/organizations/{id}
func (h *OrganizationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	org, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrganizationResponse(org))
}

// ListRoster は指定組織のロスター一覧を取得する。
// GET /api/organizations/{id}/roster
func (h *OrganizationHandler) ListRoster(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	members, err := h.service.ListRoster(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]rosterMemberResponse, len(members))
	for i, m := range members {
		resp[i] = rosterMemberResponse{
			ID:              m.ID,
			OrganizationID:  m.OrganizationID,
			PlayerAccountID: m.PlayerAccountID,
			JoinedAt:        m.JoinedAt,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// RemoveRosterMember は自組織のロスターから選手を外す。
// DELETE /api/organizations/me/roster/{playerID}
func (h *OrganizationHandler) RemoveRosterMember(w http.ResponseWriter, r *http.Request) {
	accountID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	playerID := chi.URLParam(r, "playerID")

	if err := h.service.RemoveRosterMember(r.Context(), accountID, playerID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
