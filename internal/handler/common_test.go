package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/scoutbase/internal/model"
)

func TestMapAPIErrorToHTTPStatus(t *testing.T) {
	tests := []struct {
		code       string
		wantStatus int
	}{
		{model.ErrCodeEmailAlreadyRegistered, http.StatusBadRequest},
		{model.ErrCodeOTPExpired, http.StatusBadRequest},
		{model.ErrCodeOTPMismatch, http.StatusBadRequest},
		{model.ErrCodeOTPNotIssued, http.StatusBadRequest},
		{model.ErrCodeInvalidScoutingStatus, http.StatusBadRequest},
		{model.ErrCodeInvalidCredentials, http.StatusUnauthorized},
		{model.ErrCodeInvalidRefreshToken, http.StatusUnauthorized},
		{model.ErrCodeAccountNotVerified, http.StatusForbidden},
		{model.ErrCodeNotOwner, http.StatusForbidden},
		{model.ErrCodeAccountNotFound, http.StatusNotFound},
		{model.ErrCodeProfileNotFound, http.StatusNotFound},
		{model.ErrCodeOrganizationNotFound, http.StatusNotFound},
		{model.ErrCodeScoutingNotFound, http.StatusNotFound},
		{model.ErrCodeApplicationNotFound, http.StatusNotFound},
		{model.ErrCodeRosterMemberNotFound, http.StatusNotFound},
		{model.ErrCodeNotificationNotFound, http.StatusNotFound},
		{model.ErrCodeScoutingClosed, http.StatusConflict},
		{model.ErrCodeDuplicateApplication, http.StatusConflict},
		{model.ErrCodeApplicationNotPending, http.StatusConflict},
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got := mapAPIErrorToHTTPStatus(&model.APIError{Code: tt.code})
			if got != tt.wantStatus {
				t.Errorf("status = %d, want %d", got, tt.wantStatus)
			}
		})
	}
}

func TestHandleServiceErrorWritesAPIError(t *testing.T) {
	rec := httptest.NewRecorder()

	// ラップされたAPIErrorもerrors.Asで検出される
	wrapped := fmt.Errorf("募集の取得に失敗しました: %w", model.NewScoutingNotFoundError("sc-1"))
	handleServiceError(rec, wrapped)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}

	var body apiErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Code != model.ErrCodeScoutingNotFound {
		t.Errorf("code = %q, want SCOUTING_NOT_FOUND", body.Code)
	}
	if body.Message == "" || body.Action == "" {
		t.Error("error response should carry message and action")
	}
}

func TestHandleServiceErrorHidesInternalErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	handleServiceError(rec, errors.New("pq: connection refused"))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}

	var body apiErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Code != "INTERNAL_ERROR" {
		t.Errorf("code = %q, want INTERNAL_ERROR", body.Code)
	}
	// 内部エラーの詳細はレスポンスに漏らさない
	if strings.Contains(rec.Body.String(), "connection refused") {
		t.Error("internal error details must not leak into the response")
	}
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"player@example.com", true},
		{"a@b", true},
		{"", false},
		{"no-at-sign", false},
		{"@leading.example", false},
		{"trailing@", false},
		{"has space@example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if got := isValidEmail(tt.email); got != tt.want {
				t.Errorf("isValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}
