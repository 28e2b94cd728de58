package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitstack/internal/domain"
	"gitstack/internal/service"
)

type stubCommitStore struct {
	created int
}

func (s *stubCommitStore) ListByProject(context.Context, uuid.UUID) ([]domain.Snapshot, error) {
	return nil, nil
}

func (s *stubCommitStore) CreateWithFiles(context.Context, *domain.Snapshot, []domain.SnapshotFile, string) error {
	s.created++
	return nil
}

func postSnapshot(t *testing.T, h *SnapshotHandler, upload domain.SnapshotUpload) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(upload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/projects/x/snapshots", bytes.NewReader(body))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", uuid.New().String())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rec := httptest.NewRecorder()
	h.CreateSnapshot(rec, req)
	return rec
}

func TestCreateSnapshot_DuplicateNormalizedPathIs400(t *testing.T) {
	store := &stubCommitStore{}
	h := NewSnapshotHandler(service.NewSnapshotService(store, stubStorage{}))

	rec := postSnapshot(t, h, domain.SnapshotUpload{
		Files: map[string]domain.FileUpload{
			"/a.txt": {Content: base64.StdEncoding.EncodeToString([]byte("one"))},
			"a.txt":  {Content: base64.StdEncoding.EncodeToString([]byte("two"))},
		},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, store.created)
}

func TestCreateSnapshot_Valid(t *testing.T) {
	store := &stubCommitStore{}
	h := NewSnapshotHandler(service.NewSnapshotService(store, stubStorage{}))

	rec := postSnapshot(t, h, domain.SnapshotUpload{
		Files: map[string]domain.FileUpload{
			"a.txt": {Content: base64.StdEncoding.EncodeToString([]byte("hello"))},
		},
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, store.created)
}
