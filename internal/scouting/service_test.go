package scouting

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hitoshi/scoutbase/internal/model"
)

// mockScoutingRepo はテスト用のScoutingRepositoryモック。
type mockScoutingRepo struct {
	scoutings map[string]*model.Scouting

	lastFilter  model.ScoutingFilter
	deleteCalls int
}

func newMockScoutingRepo() *mockScoutingRepo {
	return &mockScoutingRepo{scoutings: make(map[string]*model.Scouting)}
}

func (m *mockScoutingRepo) FindByID(_ context.Context, id string) (*model.Scouting, error) {
	return m.scoutings[id], nil
}

func (m *mockScoutingRepo) Create(_ context.Context, sc *model.Scouting) error {
	m.scoutings[sc.ID] = sc
	return nil
}

func (m *mockScoutingRepo) Update(_ context.Context, sc *model.Scouting) error {
	m.scoutings[sc.ID] = sc
	return nil
}

func (m *mockScoutingRepo) Delete(_ context.Context, id string) error {
	m.deleteCalls++
	delete(m.scoutings, id)
	return nil
}

func (m *mockScoutingRepo) List(_ context.Context, filter model.ScoutingFilter) ([]*model.Scouting, error) {
	m.lastFilter = filter
	var out []*model.Scouting
	for _, sc := range m.scoutings {
		out = append(out, sc)
	}
	return out, nil
}

// mockOrgRepo はテスト用のOrganizationRepositoryモック。
type mockOrgRepo struct {
	orgs        map[string]*model.Organization
	byAccountID map[string]*model.Organization
}

func newMockOrgRepo() *mockOrgRepo {
	return &mockOrgRepo{
		orgs:        make(map[string]*model.Organization),
		byAccountID: make(map[string]*model.Organization),
	}
}

func (m *mockOrgRepo) add(org *model.Organization) {
	m.orgs[org.ID] = org
	m.byAccountID[org.AccountID] = org
}

func (m *mockOrgRepo) FindByID(_ context.Context, id string) (*model.Organization, error) {
	return m.orgs[id], nil
}

func (m *mockOrgRepo) FindByAccountID(_ context.Context, accountID string) (*model.Organization, error) {
	return m.byAccountID[accountID], nil
}

func (m *mockOrgRepo) Upsert(_ context.Context, org *model.Organization) error {
	m.add(org)
	return nil
}

// fakeSanitizer はscriptタグを除去する単純なサニタイザ。
type fakeSanitizer struct{}

func (fakeSanitizer) Sanitize(raw string) string {
	out := strings.ReplaceAll(raw, "<script>", "")
	return strings.ReplaceAll(out, "</script>", "")
}

func assertAPIErrorCode(t *testing.T, err error, wantCode string) {
	t.Helper()
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != wantCode {
		t.Errorf("error code = %q, want %q", apiErr.Code, wantCode)
	}
}

func newTestEnv() (*Service, *mockScoutingRepo, *mockOrgRepo) {
	scoutings := newMockScoutingRepo()
	orgs := newMockOrgRepo()
	return NewService(scoutings, orgs, fakeSanitizer{}), scoutings, orgs
}

func TestCreateScouting(t *testing.T) {
	svc, repo, orgs := newTestEnv()
	orgs.add(&model.Organization{ID: "org-1", AccountID: "acc-1"})

	sc, err := svc.Create(context.Background(), "acc-1", CreateInput{
		Title:       "メインタンク募集",
		GameTitle:   "overwatch",
		Region:      "jp",
		MinRankTier: "master",
		RolesWanted: "tank",
		Description: "大会志向<script>alert(1)</script>のチームです",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if sc.Status != model.ScoutingStatusOpen {
		t.Errorf("Status = %q, want open", sc.Status)
	}
	if sc.OrganizationID != "org-1" {
		t.Errorf("OrganizationID = %q, want org-1", sc.OrganizationID)
	}
	if strings.Contains(sc.Description, "<script>") {
		t.Errorf("Description should be sanitized, got %q", sc.Description)
	}
	if repo.scoutings[sc.ID] == nil {
		t.Error("scouting should be persisted")
	}
}

func TestCreateRequiresOrganizationProfile(t *testing.T) {
	svc, _, _ := newTestEnv()
	_, err := svc.Create(context.Background(), "acc-without-org", CreateInput{Title: "t", GameTitle: "g"})
	assertAPIErrorCode(t, err, model.ErrCodeOrganizationNotFound)
}

func TestGetNotFound(t *testing.T) {
	svc, _, _ := newTestEnv()
	_, err := svc.Get(context.Background(), "sc-unknown")
	assertAPIErrorCode(t, err, model.ErrCodeScoutingNotFound)
}

func TestListPassesFilter(t *testing.T) {
	svc, repo, _ := newTestEnv()

	filter := model.ScoutingFilter{GameTitle: "valorant", Region: "apac", Status: "open", Limit: 20, Offset: 40}
	if _, err := svc.List(context.Background(), filter); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if repo.lastFilter != filter {
		t.Errorf("filter = %+v, want %+v", repo.lastFilter, filter)
	}
}

func TestUpdateAppliesPartialChanges(t *testing.T) {
	svc, repo, orgs := newTestEnv()
	orgs.add(&model.Organization{ID: "org-1", AccountID: "acc-1"})
	repo.Create(context.Background(), &model.Scouting{
		ID:             "sc-1",
		OrganizationID: "org-1",
		Title:          "旧タイトル",
		GameTitle:      "valorant",
		Region:         "jp",
		Status:         model.ScoutingStatusOpen,
	})

	newTitle := "新タイトル"
	newStatus := "closed"
	sc, err := svc.Update(context.Background(), "acc-1", "sc-1", UpdateInput{
		Title:  &newTitle,
		Status: &newStatus,
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if sc.Title != "新タイトル" {
		t.Errorf("Title = %q, want 新タイトル", sc.Title)
	}
	if sc.Status != model.ScoutingStatusClosed {
		t.Errorf("Status = %q, want closed", sc.Status)
	}
	// nilフィールドは変更されない
	if sc.GameTitle != "valorant" || sc.Region != "jp" {
		t.Errorf("untouched fields changed: %+v", sc)
	}
}

func TestUpdateRejectsInvalidStatus(t *testing.T) {
	svc, repo, orgs := newTestEnv()
	orgs.add(&model.Organization{ID: "org-1", AccountID: "acc-1"})
	repo.Create(context.Background(), &model.Scouting{
		ID:             "sc-1",
		OrganizationID: "org-1",
		Status:         model.ScoutingStatusOpen,
	})

	bad := "archived"
	_, err := svc.Update(context.Background(), "acc-1", "sc-1", UpdateInput{Status: &bad})
	assertAPIErrorCode(t, err, model.ErrCodeInvalidScoutingStatus)
}

func TestUpdateOwnershipGateOrder(t *testing.T) {
	// 判定順序: 募集の存在 → 所有権
	svc, repo, orgs := newTestEnv()
	orgs.add(&model.Organization{ID: "org-1", AccountID: "acc-1"})
	orgs.add(&model.Organization{ID: "org-2", AccountID: "acc-2"})
	repo.Create(context.Background(), &model.Scouting{
		ID:             "sc-1",
		OrganizationID: "org-1",
		Status:         model.ScoutingStatusOpen,
	})

	title := "x"

	_, err := svc.Update(context.Background(), "acc-1", "sc-unknown", UpdateInput{Title: &title})
	assertAPIErrorCode(t, err, model.ErrCodeScoutingNotFound)

	_, err = svc.Update(context.Background(), "acc-2", "sc-1", UpdateInput{Title: &title})
	assertAPIErrorCode(t, err, model.ErrCodeNotOwner)

	// 組織プロフィール未作成のアカウントも所有者にはなり得ない
	_, err = svc.Update(context.Background(), "acc-without-org", "sc-1", UpdateInput{Title: &title})
	assertAPIErrorCode(t, err, model.ErrCodeNotOwner)
}

func TestDeleteOwnScouting(t *testing.T) {
	svc, repo, orgs := newTestEnv()
	orgs.add(&model.Organization{ID: "org-1", AccountID: "acc-1"})
	repo.Create(context.Background(), &model.Scouting{
		ID:             "sc-1",
		OrganizationID: "org-1",
		Status:         model.ScoutingStatusOpen,
	})

	if err := svc.Delete(context.Background(), "acc-1", "sc-1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if repo.scoutings["sc-1"] != nil {
		t.Error("scouting should be deleted")
	}

	err := svc.Delete(context.Background(), "acc-1", "sc-1")
	assertAPIErrorCode(t, err, model.ErrCodeScoutingNotFound)
}
