package models

import "time"

// Module is a training module targeted at one role.
type Module struct {
	ID          string    `db:"id" json:"id"`
	RoleID      string    `db:"role_id" json:"roleId"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// ModuleRequest is the create/update payload for a module.
type ModuleRequest struct {
	RoleID      string  `json:"roleId" validate:"required"`
	Title       string  `json:"title" validate:"required,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// Section groups lessons inside a module.
type Section struct {
	ID        string    `db:"id" json:"id"`
	ModuleID  string    `db:"module_id" json:"moduleId"`
	Title     string    `db:"title" json:"title"`
	Position  int       `db:"position" json:"position"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// SectionRequest is the create/update payload for a section. The parent module
// comes from the route.
type SectionRequest struct {
	Title    string `json:"title" validate:"required,max=200"`
	Position int    `json:"position" validate:"gte=0"`
}
