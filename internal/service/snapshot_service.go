package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/google/uuid"
	"gitstack/internal/domain"
	"gitstack/internal/service/s3"
)

// defaultFileMode — обычный файл 0644 в git-представлении
const defaultFileMode int32 = 0o100644

// ErrInvalidUpload помечает ошибки валидации запроса на коммит.
// Хендлер мапит их в 400, а не в 500.
var ErrInvalidUpload = errors.New("invalid snapshot upload")

// SnapshotCommitStore — запись и чтение снапшотов
type SnapshotCommitStore interface {
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Snapshot, error)
	CreateWithFiles(ctx context.Context, snapshot *domain.Snapshot, files []domain.SnapshotFile, branch string) error
}

type SnapshotService struct {
	snapshotRepo SnapshotCommitStore
	storage      s3.Storage
}

func NewSnapshotService(snapshotRepo SnapshotCommitStore, storage s3.Storage) *SnapshotService {
	return &SnapshotService{
		snapshotRepo: snapshotRepo,
		storage:      storage,
	}
}

func (s *SnapshotService) ListSnapshots(ctx context.Context, projectID uuid.UUID) ([]domain.Snapshot, error) {
	return s.snapshotRepo.ListByProject(ctx, projectID)
}

// CreateSnapshot фиксирует новый снапшот: контент каждого файла уходит в
// бакет по content-addressed ключу, затем строки снапшота и head ветки
// пишутся одной транзакцией. Блобы заливаются до транзакции: осиротевший
// объект в бакете безвреден, а строка без объекта — это деградация чтения.
func (s *SnapshotService) CreateSnapshot(ctx context.Context, projectID uuid.UUID, authorID string, upload domain.SnapshotUpload) (*domain.Snapshot, error) {
	if len(upload.Files) == 0 {
		return nil, fmt.Errorf("%w: snapshot must contain at least one file", ErrInvalidUpload)
	}

	branch := upload.Branch
	if branch == "" {
		branch = domain.DefaultBranch
	}

	snapshot := &domain.Snapshot{
		ID:          uuid.New(),
		ProjectID:   projectID,
		AuthorID:    authorID,
		Title:       upload.Title,
		Description: upload.Description,
		FilesCount:  len(upload.Files),
	}

	// Детерминированный порядок записи упрощает отладку и тесты
	paths := make([]string, 0, len(upload.Files))
	for p := range upload.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	// Валидируем пути до заливки блобов: путь уникален в пределах снапшота
	// уже после нормализации, иначе "/a.txt" и "a.txt" столкнутся на
	// первичном ключе, когда блобы уже в бакете
	seen := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		normalized := normalizePath(p)
		if normalized == "" {
			return nil, fmt.Errorf("%w: invalid file path %q", ErrInvalidUpload, p)
		}
		if _, ok := seen[normalized]; ok {
			return nil, fmt.Errorf("%w: duplicate file path %q", ErrInvalidUpload, normalized)
		}
		seen[normalized] = struct{}{}
	}

	files := make([]domain.SnapshotFile, 0, len(paths))
	for _, p := range paths {
		normalized := normalizePath(p)

		f := upload.Files[p]
		data, err := base64.StdEncoding.DecodeString(f.Content)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid base64 content for %s: %v", ErrInvalidUpload, p, err)
		}

		sum := sha256.Sum256(data)
		hash := hex.EncodeToString(sum[:])

		mode := f.Mode
		if mode == 0 {
			mode = defaultFileMode
		}

		key := ObjectKey(projectID, snapshot.ID, hash)
		if err := s.storage.UploadBytes(key, data); err != nil {
			return nil, fmt.Errorf("failed to store blob for %s: %w", p, err)
		}

		files = append(files, domain.SnapshotFile{
			SnapshotID: snapshot.ID,
			Path:       normalized,
			Hash:       hash,
			SizeBytes:  int64(len(data)),
			Mode:       mode,
		})
	}

	if err := s.snapshotRepo.CreateWithFiles(ctx, snapshot, files, branch); err != nil {
		return nil, err
	}

	log.Printf("Created snapshot %s for project %s (%d files, branch %s)",
		snapshot.ID, projectID, len(files), branch)

	return snapshot, nil
}
