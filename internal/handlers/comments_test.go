package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ovoronin/bloghub/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentHandler_Get(t *testing.T) {
	service := &MockCommentService{
		GetCommentByIDFunc: func(ctx context.Context, id string) (*models.Comment, error) {
			return &models.Comment{ID: id, Content: "a remark", UserID: "user-1", UserLogin: "tester"}, nil
		},
	}

	handler := NewCommentHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/comments/comment-1", nil)
	req = WithChiRouteContext(req, map[string]string{"id": "comment-1"})
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var comment models.Comment
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&comment))
	assert.Equal(t, "comment-1", comment.ID)
}

func TestCommentHandler_Update_ForeignComment(t *testing.T) {
	service := &MockCommentService{
		UpdateCommentFunc: func(ctx context.Context, id, content, callerID string) error {
			assert.Equal(t, "intruder", callerID)
			return models.ErrForbidden
		},
	}

	handler := NewCommentHandler(service)

	req := httptest.NewRequest(http.MethodPut, "/comments/comment-1",
		strings.NewReader(`{"content":"this comment is at least twenty characters long"}`))
	req = WithChiRouteContext(req, map[string]string{"id": "comment-1"})
	req = withBearerClaims(req, "intruder", "device-1")
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCommentHandler_Update_NoClaims(t *testing.T) {
	handler := NewCommentHandler(&MockCommentService{})

	req := httptest.NewRequest(http.MethodPut, "/comments/comment-1",
		strings.NewReader(`{"content":"this comment is at least twenty characters long"}`))
	req = WithChiRouteContext(req, map[string]string{"id": "comment-1"})
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCommentHandler_Delete(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, http.StatusNoContent},
		{"missing", models.ErrNotFound, http.StatusNotFound},
		{"foreign", models.ErrForbidden, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &MockCommentService{
				DeleteCommentFunc: func(ctx context.Context, id, callerID string) error {
					return tt.err
				},
			}

			handler := NewCommentHandler(service)

			req := httptest.NewRequest(http.MethodDelete, "/comments/comment-1", nil)
			req = WithChiRouteContext(req, map[string]string{"id": "comment-1"})
			req = withBearerClaims(req, "user-1", "device-1")
			rec := httptest.NewRecorder()

			handler.Delete(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
