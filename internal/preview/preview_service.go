package preview

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/h2non/bimg"
	"github.com/jmoiron/sqlx"
	"gitstack/internal/service"
	"gitstack/internal/service/s3"
)

const (
	maxImageSize  = 1024        // максимальный размер превью в пикселях
	jpegQuality   = 85          // качество JPEG
	previewPrefix = "previews/" // префикс для превью в бакете
)

// ErrUnsupportedType возвращается для файлов, из которых превью не строится
var ErrUnsupportedType = errors.New("preview is not supported for this file type")

var imageExts = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".webp": {},
	".tiff": {},
	".bmp":  {},
}

type Service struct {
	codeService *service.CodeService
	storage     s3.Storage
	db          *sqlx.DB
}

// NewService создает новый сервис для работы с превью
func NewService(codeService *service.CodeService, storage s3.Storage, db *sqlx.DB) *Service {
	return &Service{
		codeService: codeService,
		storage:     storage,
		db:          db,
	}
}

// StartCleanupTask запускает периодическую очистку старых превью
func (s *Service) StartCleanupTask() {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		for range ticker.C {
			s.cleanupOldPreviews(context.Background())
		}
	}()
}

// cleanupOldPreviews удаляет превью старше 30 дней из бакета и базы
func (s *Service) cleanupOldPreviews(ctx context.Context) {
	log.Printf("Starting preview cleanup task")

	var hashes []string
	query := `
        DELETE FROM blob_previews
        WHERE created_at < NOW() - INTERVAL '30 days'
        RETURNING hash`

	err := s.db.SelectContext(ctx, &hashes, query)
	if err != nil {
		log.Printf("Error cleaning up old previews from database: %v", err)
		return
	}

	for _, hash := range hashes {
		if err := s.storage.DeleteObject(previewPrefix + hash); err != nil {
			log.Printf("Error deleting preview from storage: %v", err)
		}
	}

	log.Printf("Completed preview cleanup task. Removed %d old previews", len(hashes))
}

// GetOrGeneratePreview возвращает JPEG-превью файла изображения.
// Превью кешируются в бакете по хешу контента: один и тот же блоб в разных
// снапшотах дает одно превью.
func (s *Service) GetOrGeneratePreview(ctx context.Context, projectID uuid.UUID, branch, filePath string) ([]byte, error) {
	if !isImagePath(filePath) {
		return nil, ErrUnsupportedType
	}

	blob, err := s.codeService.GetBlob(ctx, projectID, branch, filePath)
	if err != nil {
		return nil, err
	}
	if blob.Content == nil {
		return nil, fmt.Errorf("file content is not available: %s", blob.Message)
	}

	// Сначала пробуем кеш
	cached, err := s.getCachedPreview(ctx, blob.Hash)
	if err == nil {
		return cached, nil
	}

	data, err := base64.StdEncoding.DecodeString(*blob.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to decode file content: %w", err)
	}

	previewData, err := bimg.NewImage(data).Process(bimg.Options{
		Width:   maxImageSize,
		Height:  maxImageSize,
		Quality: jpegQuality,
		Type:    bimg.JPEG,
		Enlarge: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate preview: %w", err)
	}

	if err := s.storePreview(ctx, blob.Hash, previewData); err != nil {
		// Превью уже сгенерировано, кеш — оптимизация
		log.Printf("Failed to cache preview for %s: %v", blob.Hash, err)
	}

	return previewData, nil
}

func (s *Service) getCachedPreview(ctx context.Context, hash string) ([]byte, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM blob_previews WHERE hash = $1)`, hash)
	if err != nil || !exists {
		return nil, fmt.Errorf("preview is not cached")
	}

	obj, err := s.storage.GetObject(ctx, previewPrefix+hash)
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	return io.ReadAll(obj)
}

func (s *Service) storePreview(ctx context.Context, hash string, data []byte) error {
	if err := s.storage.UploadBytes(previewPrefix+hash, data); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
        INSERT INTO blob_previews (hash)
        VALUES ($1)
        ON CONFLICT (hash) DO NOTHING`, hash)
	return err
}

func isImagePath(p string) bool {
	_, ok := imageExts[strings.ToLower(path.Ext(p))]
	return ok
}
