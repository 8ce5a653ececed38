package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/hitoshi/scoutbase/internal/model"
)

// NewsServiceInterface はニュースハンドラーが必要とするサービスインターフェース。
type NewsServiceInterface interface {
	// ListRecent は公開日時の降順でニュース記事を返す。
	ListRecent(ctx context.Context, limit int) ([]*model.NewsItem, error)
}

// NewsHandler はeスポーツニュースのHTTPハンドラー。
type NewsHandler struct {
	service NewsServiceInterface
}

// NewNewsHandler はNewsHandlerを生成する。
func NewNewsHandler(service NewsServiceInterface) *NewsHandler {
	return &NewsHandler{service: service}
}

// newsItemResponse はニュース記事のAPIレスポンス。
type newsItemResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Summary     string    `json:"summary"`
	SourceURL   string    `json:"source_url"`
	PublishedAt time.Time `json:"published_at"`
}

// ListRecent は最新のニュース記事一覧を取得する。
// GET /api/news?limit=
func (h *NewsHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		var err error
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			writeValidationError(w, "limitには正の整数を指定してください。")
			return
		}
	}

	items, err := h.service.ListRecent(r.Context(), limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]newsItemResponse, len(items))
	for i, item := range items {
		resp[i] = newsItemResponse{
			ID:          item.ID,
			Title:       item.Title,
			Link:        item.Link,
			Summary:     item.Summary,
			SourceURL:   item.SourceURL,
			PublishedAt: item.PublishedAt,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
