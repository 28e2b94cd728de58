package service

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"
	"gitstack/internal/domain"
	"gitstack/internal/service/s3"
)

// ErrFileNotFound сигнализирует об отсутствии метаданных файла в снапшоте.
// Хендлер мапит его в 404; отсутствие байтов в хранилище ошибкой не считается.
var ErrFileNotFound = errors.New("file not found in snapshot")

// BranchStore — доступ к указателям веток, нужный резолверу
type BranchStore interface {
	GetHead(ctx context.Context, projectID uuid.UUID, name string) (*uuid.UUID, error)
}

// SnapshotStore — доступ к снапшотам и их файловым строкам
type SnapshotStore interface {
	GetLatestID(ctx context.Context, projectID uuid.UUID) (*uuid.UUID, error)
	ListFiles(ctx context.Context, snapshotID uuid.UUID, prefix string, limit int) ([]domain.SnapshotFile, error)
	GetFile(ctx context.Context, snapshotID uuid.UUID, path string) (*domain.SnapshotFile, error)
}

// CodeService реализует браузер кода: резолв снапшота по ветке, листинг
// директории на один уровень и выдачу содержимого файла из хранилища.
type CodeService struct {
	branches    BranchStore
	snapshots   SnapshotStore
	storage     s3.Storage
	maxTreeScan int
}

func NewCodeService(branches BranchStore, snapshots SnapshotStore, storage s3.Storage, maxTreeScan int) *CodeService {
	if maxTreeScan <= 0 {
		maxTreeScan = 10000
	}
	return &CodeService{
		branches:    branches,
		snapshots:   snapshots,
		storage:     storage,
		maxTreeScan: maxTreeScan,
	}
}

// ResolveSnapshotID определяет авторитетный снапшот для пары (проект, ветка).
// Head названной ветки побеждает всегда, даже если в проекте есть более
// свежий снапшот. Без ветки либо с пустым head берется последний снапшот
// проекта. nil без ошибки означает пустой проект — вызывающие обязаны
// трактовать это как пустой листинг, а не как сбой.
//
// Резолв выполняется заново на каждый запрос: head двигают конкурентные
// коммиты, кешировать его нельзя.
func (s *CodeService) ResolveSnapshotID(ctx context.Context, projectID uuid.UUID, branch string) (*uuid.UUID, error) {
	if branch != "" {
		head, err := s.branches.GetHead(ctx, projectID, branch)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve branch %s: %w", branch, err)
		}
		if head != nil {
			return head, nil
		}
	}

	latest, err := s.snapshots.GetLatestID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve latest snapshot: %w", err)
	}

	return latest, nil
}

// ListDirectory возвращает непосредственных детей basePath в снапшоте,
// выбранном резолвером. Пустой список — нормальный ответ и для пустого
// проекта, и для несуществующей директории: эти случаи не различаются.
func (s *CodeService) ListDirectory(ctx context.Context, projectID uuid.UUID, branch, basePath string) ([]domain.TreeEntry, error) {
	snapshotID, err := s.ResolveSnapshotID(ctx, projectID, branch)
	if err != nil {
		return nil, err
	}
	if snapshotID == nil {
		return []domain.TreeEntry{}, nil
	}

	prefix := treePrefix(basePath)
	files, err := s.snapshots.ListFiles(ctx, *snapshotID, prefix, s.maxTreeScan)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshot files: %w", err)
	}

	return partitionTree(files, prefix), nil
}

// GetBlob возвращает метаданные файла и его содержимое в base64.
// Отсутствие строки метаданных — ErrFileNotFound. Отсутствие объекта в
// хранилище ошибкой не является: метаданные возвращаются с Content == nil
// и человекочитаемым Message, чтобы UI мог показать файл без превью.
func (s *CodeService) GetBlob(ctx context.Context, projectID uuid.UUID, branch, path string) (*domain.FileContent, error) {
	snapshotID, err := s.ResolveSnapshotID(ctx, projectID, branch)
	if err != nil {
		return nil, err
	}
	if snapshotID == nil {
		return nil, ErrFileNotFound
	}

	path = normalizePath(path)

	file, err := s.snapshots.GetFile(ctx, *snapshotID, path)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to get file metadata: %w", err)
	}

	result := &domain.FileContent{
		Path:      file.Path,
		Hash:      file.Hash,
		SizeBytes: file.SizeBytes,
		Mode:      file.Mode,
		MIME:      mimeByPath(file.Path),
	}

	key := ObjectKey(projectID, *snapshotID, file.Hash)
	obj, err := s.storage.GetObject(ctx, key)
	if err != nil {
		// Частичный успех: метаданные есть, байтов нет
		log.Printf("Blob %s is not available in storage: %v", key, err)
		result.Message = fmt.Sprintf("file content is not available in storage: %v", err)
		return result, nil
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		log.Printf("Failed to read blob %s: %v", key, err)
		result.Message = fmt.Sprintf("file content is not available in storage: %v", err)
		return result, nil
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	result.Content = &encoded

	return result, nil
}

// ObjectKey строит ключ объекта в бакете. Формат фиксирован, по нему же
// пишут коммиты: {projectID}/{snapshotID}/{hash}, без ведущего слеша.
func ObjectKey(projectID, snapshotID uuid.UUID, hash string) string {
	return fmt.Sprintf("%s/%s/%s", projectID, snapshotID, hash)
}

// normalizePath срезает все ведущие и завершающие слеши
func normalizePath(p string) string {
	return strings.Trim(p, "/")
}

// treePrefix строит префикс для скана: basePath + "/" для непустого пути,
// пустая строка для корня (матчится любой путь).
func treePrefix(basePath string) string {
	basePath = normalizePath(basePath)
	if basePath == "" {
		return ""
	}
	return basePath + "/"
}

// partitionTree раскладывает плоский отсортированный список путей на файлы
// и поддиректории первого уровня. Порядок — порядок скана, первое вхождение
// имени выигрывает; глубже одного уровня не спускаемся.
func partitionTree(files []domain.SnapshotFile, prefix string) []domain.TreeEntry {
	entries := make([]domain.TreeEntry, 0, len(files))
	seen := make(map[string]struct{}, len(files))

	for _, f := range files {
		rest := strings.TrimPrefix(f.Path, prefix)
		if rest == "" || rest == f.Path && prefix != "" {
			continue
		}

		if i := strings.IndexByte(rest, '/'); i >= 0 {
			name := rest[:i]
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			entries = append(entries, domain.TreeEntry{
				Name: name,
				Type: domain.EntryTypeDir,
			})
			continue
		}

		if _, ok := seen[rest]; ok {
			continue
		}
		seen[rest] = struct{}{}
		size := f.SizeBytes
		entries = append(entries, domain.TreeEntry{
			Name:      rest,
			Type:      domain.EntryTypeFile,
			SizeBytes: &size,
		})
	}

	return entries
}
