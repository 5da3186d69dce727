package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-vidtube/internal/model"
	"go-vidtube/pkg/apierror"
)

func TestWriteErrorTranslation(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{
			name:   "api error with details",
			err:    apierror.NotFound("video not found", "v-1"),
			status: http.StatusNotFound,
			body:   `{"statusCode":404,"message":"video not found","success":false,"error":["v-1"],"data":null}`,
		},
		{
			name:   "wrapped api error",
			err:    fmt.Errorf("load: %w", apierror.Conflict("already exists", "")),
			status: http.StatusConflict,
			body:   `{"statusCode":409,"message":"already exists","success":false,"error":[],"data":null}`,
		},
		{
			name:   "expired token sentinel",
			err:    model.ErrTokenExpired,
			status: http.StatusUnauthorized,
			body:   `{"statusCode":401,"message":"token expired","success":false,"error":[],"data":null}`,
		},
		{
			name:   "unclassified error hides the cause",
			err:    errors.New("pq: connection reset"),
			status: http.StatusInternalServerError,
			body:   `{"statusCode":500,"message":"something went wrong","success":false,"error":[],"data":null}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.body, rec.Body.String())
		})
	}
}

func TestWriteSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(rec, http.StatusCreated, map[string]string{"_id": "x"}, "created")

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"statusCode":201,"data":{"_id":"x"},"message":"created","success":true}`, rec.Body.String())
}

func withURLParam(r *http.Request, key string, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestIDParam(t *testing.T) {
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "videoId", "6F9619FF-8B86-D011-B42D-00CF4FC964FF")
	id, err := idParam(req, "videoId")
	require.NoError(t, err)
	assert.Equal(t, "6f9619ff-8b86-d011-b42d-00cf4fc964ff", id)

	req = withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "videoId", "42")
	_, err = idParam(req, "videoId")
	assert.Equal(t, http.StatusBadRequest, apierror.StatusOf(err))
}

func TestReadFields(t *testing.T) {
	t.Run("json keeps only strings and tracks presence", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"title":"  New  ","count":3,"description":""}`))
		req.Header.Set("Content-Type", "application/json")

		fields, err := readFields(req)
		require.NoError(t, err)
		assert.Equal(t, "New", fields.get("title"))
		require.NotNil(t, fields.optional("description"))
		assert.Equal(t, "", *fields.optional("description"))
		assert.Nil(t, fields.optional("count"))
		assert.Nil(t, fields.optional("missing"))
	})

	t.Run("url encoded form", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("username=alice&password=secret"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		fields, err := readFields(req)
		require.NoError(t, err)
		assert.Equal(t, "alice", fields.get("username"))
		assert.Equal(t, "secret", fields["password"])
	})

	t.Run("empty body", func(t *testing.T) {
		fields, err := readFields(httptest.NewRequest(http.MethodPost, "/", nil))
		require.NoError(t, err)
		assert.Empty(t, fields)
	})

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":`))
		_, err := readFields(req)
		assert.Equal(t, http.StatusBadRequest, apierror.StatusOf(err))
	})
}

func TestCurrentUserRequiresContext(t *testing.T) {
	_, err := currentUser(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, err, model.ErrUnauthorized)
}
