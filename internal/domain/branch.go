package domain

import (
	"github.com/google/uuid"
	"time"
)

// DefaultBranch — ветка, которая лениво создается при первом чтении проекта
const DefaultBranch = "main"

type Branch struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	ProjectID      uuid.UUID  `json:"project_id" db:"project_id"`
	Name           string     `json:"name" db:"name"`
	HeadSnapshotID *uuid.UUID `json:"head_snapshot_id" db:"head_snapshot_id"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}
