package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/scoutbase/internal/middleware"
	"github.com/hitoshi/scoutbase/internal/model"
	"github.com/hitoshi/scoutbase/internal/scouting"
)

// defaultScoutingListLimit は募集一覧のデフォルト取得件数。
const defaultScoutingListLimit = 20

// maxScoutingListLimit は募集一覧の最大取得件数。
const maxScoutingListLimit = 100

// ScoutingServiceInterface は募集ハンドラーが必要とするサービスインターフェース。
type ScoutingServiceInterface interface {
	// Create は募集を新規作成する。
	Create(ctx context.Context, accountID string, input scouting.CreateInput) (*model.Scouting, error)
	// Get は指定IDの募集を取得する。
	Get(ctx context.Context, id string) (*model.Scouting, error)
	// List は検索条件に一致する募集を新着順で返す。
	List(ctx context.Context, filter model.ScoutingFilter) ([]*model.Scouting, error)
	// Update は自組織の募集を部分更新する。
	Update(ctx context.Context, accountID, scoutingID string, input scouting.UpdateInput) (*model.Scouting, error)
	// Delete は自組織の募集を削除する。
	Delete(ctx context.Context, accountID, scoutingID string) error
}

// ApplyServiceInterface は応募作成と応募一覧のサービスインターフェース。
type ApplyServiceInterface interface {
	// Apply は選手が募集に応募する。
	Apply(ctx context.Context, playerAccountID, scoutingID, message string) (*model.Application, error)
	// ListForScouting は自組織の募集への応募一覧を返す。
	ListForScouting(ctx context.Context, accountID, scoutingID string) ([]*model.Application, error)
}

// ScoutingHandler は選手募集のHTTPハンドラー。
type ScoutingHandler struct {
	service  ScoutingServiceInterface
	applySvc ApplyServiceInterface
}

// NewScoutingHandler はScoutingHandlerを生成する。
func NewScoutingHandler(service ScoutingServiceInterface, applySvc ApplyServiceInterface) *ScoutingHandler {
	return &ScoutingHandler{
		service:  service,
		applySvc: applySvc,
	}
}

// scoutingCreateRequest は募集作成リクエストのボディ。
type scoutingCreateRequest struct {
	Title       string `json:"title"`
	GameTitle   string `json:"game_title"`
	Region      string `json:"region"`
	MinRankTier string `json:"min_rank_tier"`
	RolesWanted string `json:"roles_wanted"`
	Description string `json:"description"`
}

// scoutingUpdateRequest は募集更新リクエストのボディ。省略されたフィールドは変更しない。
type scoutingUpdateRequest struct {
	Title       *string `json:"title"`
	GameTitle   *string `json:"game_title"`
	Region      *string `json:"region"`
	MinRankTier *string `json:"min_rank_tier"`
	RolesWanted *string `json:"roles_wanted"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// scoutingResponse は募集のAPIレスポンス。
type scoutingResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Title          string    `json:"title"`
	GameTitle      string    `json:"game_title"`
	Region         string    `json:"region"`
	MinRankTier    string    `json:"min_rank_tier"`
	RolesWanted    string    `json:"roles_wanted"`
	Description    string    `json:"description"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// toScoutingResponse はモデルをAPIレスポンスに変換する。
func toScoutingResponse(sc *model.Scouting) scoutingResponse {
	return scoutingResponse{
		ID:             sc.ID,
		OrganizationID: sc.OrganizationID,
		Title:          sc.Title,
		GameTitle:      sc.GameTitle,
		Region:         sc.Region,
		MinRankTier:    sc.MinRankTier,
		RolesWanted:    sc.RolesWanted,
		Description:    sc.Description,
		Status:         string(sc.Status),
		CreatedAt:      sc.CreatedAt,
		UpdatedAt:      sc.UpdatedAt,
	}
}

// Create は募集を新規作成する。
// POST /api/scoutings
func (h *ScoutingHandler) Create(w http.ResponseWriter, r *http.Request) {
	accountID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req scoutingCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w)
		return
	}

	if req.Title == "" || req.GameTitle == "" {
		writeValidationError(w, "titleとgame_titleは必須です。")
		return
	}

	sc, err := h.service.Create(r.Context(), accountID, scouting.CreateInput{
		Title:       req.Title,
		GameTitle:   req.GameTitle,
		Region:      req.Region,
		MinRankTier: req.MinRankTier,
		RolesWanted: req.RolesWanted,
		Description: req.Description,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toScoutingResponse(sc))
}

// List は検索条件に一致する募集一覧を取得する。
// GET /api/scoutings?game=&region=&status=&limit=&offset=
func (h *ScoutingHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := model.ScoutingFilter{
		GameTitle: query.Get("game"),
		Region:    query.Get("region"),
		Status:    query.Get("status"),
		Limit:     defaultScoutingListLimit,
	}

	if filter.Status != "" && !model.ScoutingStatus(filter.Status).IsValid() {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidScoutingStatusError(filter.Status))
		return
	}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			writeValidationError(w, "limitには正の整数を指定してください。")
			return
		}
		if limit > maxScoutingListLimit {
			limit = maxScoutingListLimit
		}
		filter.Limit = limit
	}

	if raw := query.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			writeValidationError(w, "offsetには0以上の整数を指定してください。")
			return
		}
		filter.Offset = offset
	}

	scoutings, err := h.service.List(r.Context(), filter)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]scoutingResponse, len(scoutings))
	for i, sc := range scoutings {
		resp[i] = toScoutingResponse(sc)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get は指定IDの募集を取得する。
// GET /api/scoutings/{id}
func (h *ScoutingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sc, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toScoutingResponse(sc))
}

// Update は自組織の募集を部分更新する。
// PATCH /api/scoutings/{id}
func (h *ScoutingHandler) Update(w http.ResponseWriter, r *http.Request) {
	accountID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	id := chi.URLParam(r, "id")

	var req scoutingUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w)
		return
	}

	sc, err := h.service.Update(r.Context(), accountID, id, scouting.UpdateInput{
		Title:       req.Title,
		GameTitle:   req.GameTitle,
		Region:      req.Region,
		MinRankTier: req.MinRankTier,
		RolesWanted: req.RolesWanted,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toScoutingResponse(sc))
}

// Delete は自組織の募集を削除する。
// DELETE /api/scoutings/{id}
func (h *ScoutingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	accountID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), accountID, id); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// applyRequest は応募リクエストのボディ。
type applyRequest struct {
	Message string `json:"message"`
}

// Apply は選手が募集に応募する。
// POST /api/scoutings/{id}/apply
func (h *ScoutingHandler) Apply(w http.ResponseWriter, r *http.Request) {
	accountID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	id := chi.URLParam(r, "id")

	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w)
		return
	}

	app, err := h.applySvc.Apply(r.Context(), accountID, id, req.Message)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toApplicationResponse(app))
}

// ListApplications は自組織の募集への応募一覧を取得する。
// GET /api/scoutings/{id}/applications
func (h *ScoutingHandler) ListApplications(w http.ResponseWriter, r *http.Request) {
	accountID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	id := chi.URLParam(r, "id")

	apps, err := h.applySvc.ListForScouting(r.Context(), accountID, id)
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
