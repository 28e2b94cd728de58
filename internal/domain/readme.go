package domain

import (
	"github.com/google/uuid"
	"time"
)

// ProjectReadme — редактируемый документ, один на пару (проект, ветка)
type ProjectReadme struct {
	ProjectID uuid.UUID `json:"project_id" db:"project_id"`
	Branch    string    `json:"branch" db:"branch"`
	Content   string    `json:"content" db:"content"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
	UpdatedBy string    `json:"updated_by" db:"updated_by"`
}
