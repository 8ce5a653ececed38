package news

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/scoutbase/internal/model"
)

// mockNewsRepo はテスト用のNewsRepositoryモック。
type mockNewsRepo struct {
	items map[string]*model.NewsItem // "sourceURL|guid" → NewsItem

	lastListLimit int
}

func newMockNewsRepo() *mockNewsRepo {
	return &mockNewsRepo{items: make(map[string]*model.NewsItem)}
}

func newsKey(sourceURL, guid string) string {
	return sourceURL + "|" + guid
}

func (m *mockNewsRepo) FindBySourceAndGUID(_ context.Context, sourceURL, guid string) (*model.NewsItem, error) {
	return m.items[newsKey(sourceURL, guid)], nil
}

func (m *mockNewsRepo) Create(_ context.Context, item *model.NewsItem) error {
	m.items[newsKey(item.SourceURL, item.GUID)] = item
	return nil
}

func (m *mockNewsRepo) Update(_ context.Context, item *model.NewsItem) error {
	m.items[newsKey(item.SourceURL, item.GUID)] = item
	return nil
}

func (m *mockNewsRepo) ListRecent(_ context.Context, limit int) ([]*model.NewsItem, error) {
	m.lastListLimit = limit
	var out []*model.NewsItem
	for _, item := range m.items {
		out = append(out, item)
	}
	return out, nil
}

// fakeSanitizer はscriptタグを除去する単純なサニタイザ。
type fakeSanitizer struct{}

func (fakeSanitizer) Sanitize(raw string) string {
	out := strings.ReplaceAll(raw, "<script>", "")
	return strings.ReplaceAll(out, "</script>", "")
}

const testSourceURL = "https://esports.example/feed.xml"

func TestUpsertItemsInsertsNewArticles(t *testing.T) {
	repo := newMockNewsRepo()
	svc := NewUpsertService(repo, fakeSanitizer{})

	published := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	inserted, updated, err := svc.UpsertItems(context.Background(), testSourceURL, []model.ParsedNewsItem{
		{
			GUID:        "g-1",
			Title:       "優勝インタビュー",
			Link:        "https://esports.example/articles/1",
			Summary:     "本文<script>alert(1)</script>です",
			PublishedAt: &published,
		},
	})
	if err != nil {
		t.Fatalf("UpsertItems returned error: %v", err)
	}
	if inserted != 1 || updated != 0 {
		t.Errorf("inserted/updated = %d/%d, want 1/0", inserted, updated)
	}

	item := repo.items[newsKey(testSourceURL, "g-1")]
	if item == nil {
		t.Fatal("article should be persisted")
	}
	if item.ID == "" {
		t.Error("article should be assigned an ID")
	}
	if !item.PublishedAt.Equal(published) {
		t.Errorf("PublishedAt = %v, want %v", item.PublishedAt, published)
	}
	if strings.Contains(item.Summary, "<script>") {
		t.Errorf("Summary should be sanitized, got %q", item.Summary)
	}
}

func TestUpsertItemsUpdatesExistingArticle(t *testing.T) {
	repo := newMockNewsRepo()
	svc := NewUpsertService(repo, fakeSanitizer{})

	if _, _, err := svc.UpsertItems(context.Background(), testSourceURL, []model.ParsedNewsItem{
		{GUID: "g-1", Title: "旧タイトル", Link: "https://esports.example/articles/1"},
	}); err != nil {
		t.Fatalf("initial UpsertItems returned error: %v", err)
	}
	originalID := repo.items[newsKey(testSourceURL, "g-1")].ID

	inserted, updated, err := svc.UpsertItems(context.Background(), testSourceURL, []model.ParsedNewsItem{
		{GUID: "g-1", Title: "更新後タイトル", Link: "https://esports.example/articles/1"},
	})
	if err != nil {
		t.Fatalf("UpsertItems returned error: %v", err)
	}
	if inserted != 0 || updated != 1 {
		t.Errorf("inserted/updated = %d/%d, want 0/1", inserted, updated)
	}

	item := repo.items[newsKey(testSourceURL, "g-1")]
	if item.Title != "更新後タイトル" {
		t.Errorf("Title = %q, want 更新後タイトル", item.Title)
	}
	if item.ID != originalID {
		t.Error("update must not change the article ID")
	}
	if len(repo.items) != 1 {
		t.Errorf("item count = %d, want 1 (no duplicate rows)", len(repo.items))
	}
}

func TestUpsertItemsGUIDFallsBackToLink(t *testing.T) {
	repo := newMockNewsRepo()
	svc := NewUpsertService(repo, fakeSanitizer{})

	inserted, _, err := svc.UpsertItems(context.Background(), testSourceURL, []model.ParsedNewsItem{
		{Title: "GUIDなし記事", Link: "https://esports.example/articles/2"},
	})
	if err != nil {
		t.Fatalf("UpsertItems returned error: %v", err)
	}
	if inserted != 1 {
		t.Errorf("inserted = %d, want 1", inserted)
	}
	if repo.items[newsKey(testSourceURL, "https://esports.example/articles/2")] == nil {
		t.Error("article should be keyed by its link when GUID is absent")
	}
}

func TestUpsertItemsSkipsArticlesWithoutIdentity(t *testing.T) {
	repo := newMockNewsRepo()
	svc := NewUpsertService(repo, fakeSanitizer{})

	inserted, updated, err := svc.UpsertItems(context.Background(), testSourceURL, []model.ParsedNewsItem{
		{Title: "GUIDもリンクもない記事"},
		{GUID: "g-ok", Title: "正常な記事", Link: "https://esports.example/articles/3"},
	})
	if err != nil {
		t.Fatalf("UpsertItems returned error: %v", err)
	}
	if inserted != 1 || updated != 0 {
		t.Errorf("inserted/updated = %d/%d, want 1/0", inserted, updated)
	}
	if len(repo.items) != 1 {
		t.Errorf("item count = %d, want 1", len(repo.items))
	}
}

func TestUpsertItemsDefaultsPublishedAtToNow(t *testing.T) {
	repo := newMockNewsRepo()
	svc := NewUpsertService(repo, fakeSanitizer{})

	before := time.Now()
	if _, _, err := svc.UpsertItems(context.Background(), testSourceURL, []model.ParsedNewsItem{
		{GUID: "g-1", Title: "日付なし記事", Link: "https://esports.example/articles/4"},
	}); err != nil {
		t.Fatalf("UpsertItems returned error: %v", err)
	}

	item := repo.items[newsKey(testSourceURL, "g-1")]
	if item.PublishedAt.Before(before) {
		t.Errorf("PublishedAt = %v, should default to fetch time", item.PublishedAt)
	}
}
