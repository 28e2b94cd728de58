package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/base64"
	"fmt"
	"io"
	"sort"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitstack/internal/domain"
	"gitstack/internal/service/s3"
)

type fakeBranchStore struct {
	heads map[string]*uuid.UUID
}

func (f *fakeBranchStore) GetHead(_ context.Context, _ uuid.UUID, name string) (*uuid.UUID, error) {
	return f.heads[name], nil
}

type fakeSnapshotStore struct {
	latest *uuid.UUID
	files  map[uuid.UUID][]domain.SnapshotFile
}

func (f *fakeSnapshotStore) GetLatestID(_ context.Context, _ uuid.UUID) (*uuid.UUID, error) {
	return f.latest, nil
}

func (f *fakeSnapshotStore) ListFiles(_ context.Context, snapshotID uuid.UUID, prefix string, limit int) ([]domain.SnapshotFile, error) {
	matched := []domain.SnapshotFile{}
	for _, file := range f.files[snapshotID] {
		if strings.HasPrefix(file.Path, prefix) {
			matched = append(matched, file)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Path < matched[j].Path })
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (f *fakeSnapshotStore) GetFile(_ context.Context, snapshotID uuid.UUID, path string) (*domain.SnapshotFile, error) {
	for _, file := range f.files[snapshotID] {
		if file.Path == path {
			return &file, nil
		}
	}
	return nil, sql.ErrNoRows
}

type fakeStorage struct {
	objects map[string][]byte
}

type fakeObject struct {
	io.ReadCloser
	size int64
}

func (o *fakeObject) ContentLength() int64 { return o.size }
func (o *fakeObject) ContentType() string  { return "application/octet-stream" }

func (f *fakeStorage) UploadBytes(key string, data []byte) error {
	f.objects[key] = data
	return nil
}

func (f *fakeStorage) GetObject(_ context.Context, key string) (s3.S3Object, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", s3.ErrObjectNotFound, key)
	}
	return &fakeObject{
		ReadCloser: io.NopCloser(bytes.NewReader(data)),
		size:       int64(len(data)),
	}, nil
}

func (f *fakeStorage) DeleteObject(key string) error {
	delete(f.objects, key)
	return nil
}

func newTestService(branches *fakeBranchStore, snapshots *fakeSnapshotStore, storage *fakeStorage) *CodeService {
	if branches == nil {
		branches = &fakeBranchStore{heads: map[string]*uuid.UUID{}}
	}
	if snapshots == nil {
		snapshots = &fakeSnapshotStore{files: map[uuid.UUID][]domain.SnapshotFile{}}
	}
	if storage == nil {
		storage = &fakeStorage{objects: map[string][]byte{}}
	}
	return NewCodeService(branches, snapshots, storage, 0)
}

func snapshotFile(id uuid.UUID, path string, size int64) domain.SnapshotFile {
	return domain.SnapshotFile{
		SnapshotID: id,
		Path:       path,
		Hash:       "hash-" + path,
		SizeBytes:  size,
		Mode:       0o100644,
	}
}

func TestResolveSnapshotID_BranchHeadWins(t *testing.T) {
	projectID := uuid.New()
	head := uuid.New()
	latest := uuid.New()

	// Head ветки авторитетен, даже когда в проекте есть более свежий снапшот
	svc := newTestService(
		&fakeBranchStore{heads: map[string]*uuid.UUID{"main": &head}},
		&fakeSnapshotStore{latest: &latest},
		nil,
	)

	got, err := svc.ResolveSnapshotID(context.Background(), projectID, "main")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, head, *got)
}

func TestResolveSnapshotID_UnknownBranchFallsBackToLatest(t *testing.T) {
	projectID := uuid.New()
	latest := uuid.New()

	svc := newTestService(
		&fakeBranchStore{heads: map[string]*uuid.UUID{}},
		&fakeSnapshotStore{latest: &latest},
		nil,
	)

	got, err := svc.ResolveSnapshotID(context.Background(), projectID, "nonexistent-branch")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, latest, *got)
}

func TestResolveSnapshotID_NoBranchGiven(t *testing.T) {
	projectID := uuid.New()
	latest := uuid.New()

	svc := newTestService(nil, &fakeSnapshotStore{latest: &latest}, nil)

	got, err := svc.ResolveSnapshotID(context.Background(), projectID, "")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, latest, *got)
}

func TestResolveSnapshotID_EmptyProject(t *testing.T) {
	svc := newTestService(nil, nil, nil)

	got, err := svc.ResolveSnapshotID(context.Background(), uuid.New(), "main")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListDirectory_PrefixMatchesOnSegmentBoundary(t *testing.T) {
	projectID := uuid.New()
	snapID := uuid.New()

	snapshots := &fakeSnapshotStore{
		latest: &snapID,
		files: map[uuid.UUID][]domain.SnapshotFile{
			snapID: {
				snapshotFile(snapID, "a.txt", 10),
				snapshotFile(snapID, "src/b.ts", 20),
				snapshotFile(snapID, "src/sub/c.ts", 30),
				snapshotFile(snapID, "src2/d.ts", 40),
			},
		},
	}
	svc := newTestService(nil, snapshots, nil)

	entries, err := svc.ListDirectory(context.Background(), projectID, "", "src")
	require.NoError(t, err)

	// src2/d.ts не должен попасть в листинг src
	require.Len(t, entries, 2)
	assert.Equal(t, "b.ts", entries[0].Name)
	assert.Equal(t, domain.EntryTypeFile, entries[0].Type)
	require.NotNil(t, entries[0].SizeBytes)
	assert.Equal(t, int64(20), *entries[0].SizeBytes)
	assert.Equal(t, "sub", entries[1].Name)
	assert.Equal(t, domain.EntryTypeDir, entries[1].Type)
	assert.Nil(t, entries[1].SizeBytes)
}

func TestListDirectory_Root(t *testing.T) {
	projectID := uuid.New()
	snapID := uuid.New()

	snapshots := &fakeSnapshotStore{
		latest: &snapID,
		files: map[uuid.UUID][]domain.SnapshotFile{
			snapID: {
				snapshotFile(snapID, "a.txt", 10),
				snapshotFile(snapID, "src/b.ts", 20),
				snapshotFile(snapID, "src/sub/c.ts", 30),
				snapshotFile(snapID, "src2/d.ts", 40),
			},
		},
	}
	svc := newTestService(nil, snapshots, nil)

	entries, err := svc.ListDirectory(context.Background(), projectID, "", "")
	require.NoError(t, err)

	// Порядок лексикографического скана, первое вхождение имени выигрывает
	require.Len(t, entries, 3)
	assert.Equal(t, "a.txt", entries[0].Name)
	assert.Equal(t, domain.EntryTypeFile, entries[0].Type)
	assert.Equal(t, "src", entries[1].Name)
	assert.Equal(t, domain.EntryTypeDir, entries[1].Type)
	assert.Equal(t, "src2", entries[2].Name)
	assert.Equal(t, domain.EntryTypeDir, entries[2].Type)
}

func TestListDirectory_DirDeduplicated(t *testing.T) {
	projectID := uuid.New()
	snapID := uuid.New()

	snapshots := &fakeSnapshotStore{
		latest: &snapID,
		files: map[uuid.UUID][]domain.SnapshotFile{
			snapID: {
				snapshotFile(snapID, "src/sub/c.ts", 30),
				snapshotFile(snapID, "src/sub/d.ts", 40),
			},
		},
	}
	svc := newTestService(nil, snapshots, nil)

	entries, err := svc.ListDirectory(context.Background(), projectID, "", "src")
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, "sub", entries[0].Name)
	assert.Equal(t, domain.EntryTypeDir, entries[0].Type)
}

func TestListDirectory_PathNormalization(t *testing.T) {
	projectID := uuid.New()
	snapID := uuid.New()

	snapshots := &fakeSnapshotStore{
		latest: &snapID,
		files: map[uuid.UUID][]domain.SnapshotFile{
			snapID: {snapshotFile(snapID, "src/b.ts", 20)},
		},
	}
	svc := newTestService(nil, snapshots, nil)

	for _, base := range []string{"src", "/src", "src/", "//src//"} {
		entries, err := svc.ListDirectory(context.Background(), projectID, "", base)
		require.NoError(t, err, "base path %q", base)
		require.Len(t, entries, 1, "base path %q", base)
		assert.Equal(t, "b.ts", entries[0].Name)
	}
}

func TestListDirectory_EmptyProject(t *testing.T) {
	svc := newTestService(nil, nil, nil)

	entries, err := svc.ListDirectory(context.Background(), uuid.New(), "main", "")
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestGetBlob_Success(t *testing.T) {
	projectID := uuid.New()
	snapID := uuid.New()
	content := []byte("package main\n")

	file := domain.SnapshotFile{
		SnapshotID: snapID,
		Path:       "cmd/main.go",
		Hash:       "abc123",
		SizeBytes:  int64(len(content)),
		Mode:       0o100644,
	}
	snapshots := &fakeSnapshotStore{
		latest: &snapID,
		files:  map[uuid.UUID][]domain.SnapshotFile{snapID: {file}},
	}
	storage := &fakeStorage{objects: map[string][]byte{
		ObjectKey(projectID, snapID, "abc123"): content,
	}}
	svc := newTestService(nil, snapshots, storage)

	blob, err := svc.GetBlob(context.Background(), projectID, "", "cmd/main.go")
	require.NoError(t, err)

	assert.Equal(t, "cmd/main.go", blob.Path)
	assert.Equal(t, "abc123", blob.Hash)
	assert.Equal(t, int64(len(content)), blob.SizeBytes)
	assert.Equal(t, int32(0o100644), blob.Mode)
	assert.Equal(t, "text/x-go", blob.MIME)
	assert.Empty(t, blob.Message)
	require.NotNil(t, blob.Content)
	assert.Equal(t, base64.StdEncoding.EncodeToString(content), *blob.Content)
}

func TestGetBlob_MetadataMissing(t *testing.T) {
	snapID := uuid.New()
	snapshots := &fakeSnapshotStore{
		latest: &snapID,
		files:  map[uuid.UUID][]domain.SnapshotFile{},
	}
	svc := newTestService(nil, snapshots, nil)

	_, err := svc.GetBlob(context.Background(), uuid.New(), "", "missing.txt")
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestGetBlob_EmptyProject(t *testing.T) {
	svc := newTestService(nil, nil, nil)

	_, err := svc.GetBlob(context.Background(), uuid.New(), "main", "a.txt")
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestGetBlob_StorageMissIsPartialSuccess(t *testing.T) {
	projectID := uuid.New()
	snapID := uuid.New()

	// Строка метаданных есть, объекта в хранилище нет
	file := domain.SnapshotFile{
		SnapshotID: snapID,
		Path:       "docs/readme.md",
		Hash:       "deadbeef",
		SizeBytes:  42,
		Mode:       0o100644,
	}
	snapshots := &fakeSnapshotStore{
		latest: &snapID,
		files:  map[uuid.UUID][]domain.SnapshotFile{snapID: {file}},
	}
	svc := newTestService(nil, snapshots, &fakeStorage{objects: map[string][]byte{}})

	blob, err := svc.GetBlob(context.Background(), projectID, "", "docs/readme.md")
	require.NoError(t, err)

	assert.Nil(t, blob.Content)
	assert.NotEmpty(t, blob.Message)
	assert.Equal(t, "docs/readme.md", blob.Path)
	assert.Equal(t, "deadbeef", blob.Hash)
	assert.Equal(t, int64(42), blob.SizeBytes)
	assert.Equal(t, int32(0o100644), blob.Mode)
	assert.Equal(t, "text/markdown", blob.MIME)
}

func TestGetBlob_LeadingSlashNormalized(t *testing.T) {
	projectID := uuid.New()
	snapID := uuid.New()
	content := []byte("hello")

	file := domain.SnapshotFile{
		SnapshotID: snapID,
		Path:       "a.txt",
		Hash:       "h1",
		SizeBytes:  5,
		Mode:       0o100644,
	}
	snapshots := &fakeSnapshotStore{
		latest: &snapID,
		files:  map[uuid.UUID][]domain.SnapshotFile{snapID: {file}},
	}
	storage := &fakeStorage{objects: map[string][]byte{
		ObjectKey(projectID, snapID, "h1"): content,
	}}
	svc := newTestService(nil, snapshots, storage)

	blob, err := svc.GetBlob(context.Background(), projectID, "", "/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "a.txt", blob.Path)
	require.NotNil(t, blob.Content)
}

func TestObjectKey(t *testing.T) {
	projectID := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	snapID := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	key := ObjectKey(projectID, snapID, "cafe")
	assert.Equal(t,
		"11111111-1111-1111-1111-111111111111/22222222-2222-2222-2222-222222222222/cafe",
		key)
}

func TestTreePrefix(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"", ""},
		{"/", ""},
		{"src", "src/"},
		{"/src/", "src/"},
		{"src/sub", "src/sub/"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, treePrefix(tt.base), "base %q", tt.base)
	}
}

func TestMimeByPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"main.go", "text/x-go"},
		{"src/app.ts", "application/typescript"},
		{"README.md", "text/markdown"},
		{"logo.PNG", "image/png"},
		{"data.json", "application/json"},
		{"bin/tool", "application/octet-stream"},
		{"archive.unknownext", "application/octet-stream"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, mimeByPath(tt.path), "path %q", tt.path)
	}
}
