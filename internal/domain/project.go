package domain

import (
	"github.com/google/uuid"
	"time"
)

const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

type Project struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Description    string    `json:"description" db:"description"`
	Visibility     string    `json:"visibility" db:"visibility"`
	OwnerID        string    `json:"owner_id" db:"owner_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
	SnapshotsCount int       `json:"snapshots_count" db:"snapshots_count"`
}

// ProjectCreate представляет запрос на создание проекта
type ProjectCreate struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Visibility  string `json:"visibility"`
}
