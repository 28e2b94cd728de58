package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitstack/internal/domain"
	"gitstack/internal/service"
	"gitstack/internal/service/s3"
)

type stubBranchStore struct{}

func (stubBranchStore) GetHead(context.Context, uuid.UUID, string) (*uuid.UUID, error) {
	return nil, nil
}

type stubSnapshotStore struct {
	latest *uuid.UUID
	files  []domain.SnapshotFile
}

func (s stubSnapshotStore) GetLatestID(context.Context, uuid.UUID) (*uuid.UUID, error) {
	return s.latest, nil
}

func (s stubSnapshotStore) ListFiles(_ context.Context, _ uuid.UUID, prefix string, _ int) ([]domain.SnapshotFile, error) {
	return s.files, nil
}

func (s stubSnapshotStore) GetFile(_ context.Context, _ uuid.UUID, path string) (*domain.SnapshotFile, error) {
	for _, f := range s.files {
		if f.Path == path {
			return &f, nil
		}
	}
	return nil, sql.ErrNoRows
}

type stubStorage struct{}

func (stubStorage) UploadBytes(string, []byte) error { return nil }
func (stubStorage) GetObject(context.Context, string) (s3.S3Object, error) {
	return nil, fmt.Errorf("%w: stub", s3.ErrObjectNotFound)
}
func (stubStorage) DeleteObject(string) error { return nil }

func doRequest(t *testing.T, h http.HandlerFunc, projectID uuid.UUID, target string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", projectID.String())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestGetTree_EmptyProjectReturnsEmptyArray(t *testing.T) {
	codeService := service.NewCodeService(stubBranchStore{}, stubSnapshotStore{}, stubStorage{}, 0)
	h := NewCodeHandler(nil, codeService)

	rec := doRequest(t, h.GetTree, uuid.New(), "/v1/projects/x/tree?branch=main")

	require.Equal(t, http.StatusOK, rec.Code)
	var entries []domain.TreeEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	assert.Empty(t, entries)
}

func TestGetBlob_MissingMetadataIs404(t *testing.T) {
	snapID := uuid.New()
	codeService := service.NewCodeService(
		stubBranchStore{},
		stubSnapshotStore{latest: &snapID},
		stubStorage{},
		0,
	)
	h := NewCodeHandler(nil, codeService)

	rec := doRequest(t, h.GetBlob, uuid.New(), "/v1/projects/x/blob?path=missing.txt")

	require.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "missing.txt", body["path"])
}

func TestGetBlob_StorageMissIs200WithNullContent(t *testing.T) {
	snapID := uuid.New()
	codeService := service.NewCodeService(
		stubBranchStore{},
		stubSnapshotStore{
			latest: &snapID,
			files: []domain.SnapshotFile{{
				SnapshotID: snapID,
				Path:       "a.txt",
				Hash:       "h1",
				SizeBytes:  5,
				Mode:       0o100644,
			}},
		},
		stubStorage{},
		0,
	)
	h := NewCodeHandler(nil, codeService)

	rec := doRequest(t, h.GetBlob, uuid.New(), "/v1/projects/x/blob?path=a.txt")

	require.Equal(t, http.StatusOK, rec.Code)
	var blob domain.FileContent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &blob))
	assert.Nil(t, blob.Content)
	assert.NotEmpty(t, blob.Message)
	assert.Equal(t, "a.txt", blob.Path)
	assert.Equal(t, "h1", blob.Hash)
}

func TestGetBlob_PathRequired(t *testing.T) {
	codeService := service.NewCodeService(stubBranchStore{}, stubSnapshotStore{}, stubStorage{}, 0)
	h := NewCodeHandler(nil, codeService)

	rec := doRequest(t, h.GetBlob, uuid.New(), "/v1/projects/x/blob")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
