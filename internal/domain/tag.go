package domain

import (
	"github.com/google/uuid"
	"time"
)

// Tag — неизменяемый именованный указатель на снапшот
type Tag struct {
	ID         uuid.UUID `json:"id" db:"id"`
	ProjectID  uuid.UUID `json:"project_id" db:"project_id"`
	Name       string    `json:"name" db:"name"`
	SnapshotID uuid.UUID `json:"snapshot_id" db:"snapshot_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

type TagCreate struct {
	Name       string    `json:"name"`
	SnapshotID uuid.UUID `json:"snapshot_id"`
}
