package domain

import (
	"github.com/google/uuid"
	"time"
)

// Snapshot — неизменяемый срез файлов проекта. После создания ни сам
// снапшот, ни его файловые строки не редактируются.
type Snapshot struct {
	ID          uuid.UUID `json:"id" db:"id"`
	ProjectID   uuid.UUID `json:"project_id" db:"project_id"`
	AuthorID    string    `json:"author_id" db:"author_id"`
	Title       *string   `json:"title,omitempty" db:"title"`
	Description *string   `json:"description,omitempty" db:"description"`
	ExternalID  *string   `json:"external_id,omitempty" db:"external_id"`
	FilesCount  int       `json:"files_count" db:"files_count"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// SnapshotFile — одна строка на файл внутри снапшота. Путь уникален в
// пределах снапшота, без ведущего и завершающего слеша.
type SnapshotFile struct {
	SnapshotID uuid.UUID `json:"snapshot_id" db:"snapshot_id"`
	Path       string    `json:"path" db:"path"`
	Hash       string    `json:"hash" db:"hash"`
	SizeBytes  int64     `json:"size" db:"size_bytes"`
	Mode       int32     `json:"mode" db:"mode"`
}

// SnapshotUpload представляет запрос на фиксацию нового снапшота
type SnapshotUpload struct {
	Branch      string                `json:"branch,omitempty"`
	Title       *string               `json:"title,omitempty"`
	Description *string               `json:"description,omitempty"`
	Files       map[string]FileUpload `json:"files"`
}

type FileUpload struct {
	Content string `json:"content"` // base64
	Mode    int32  `json:"mode,omitempty"`
}
