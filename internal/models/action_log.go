package models

import "time"

// Action names recorded in the action log.
const (
	ActionLogin  = "LOGIN"
	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
	ActionUpload = "UPLOAD"
	ActionExport = "EXPORT"
)

// Entity names recorded in the action log.
const (
	EntityBranch  = "branch"
	EntityRole    = "role"
	EntityModule  = "module"
	EntitySection = "section"
	EntityLesson  = "lesson"
	EntityUser    = "user"
)

// ActionLog is one recorded admin or staff action.
type ActionLog struct {
	ID          string    `db:"id" json:"id"`
	UserID      *string   `db:"user_id" json:"userId,omitempty"`
	Action      string    `db:"action" json:"action"`
	Entity      string    `db:"entity" json:"entity"`
	EntityID    *string   `db:"entity_id" json:"entityId,omitempty"`
	Description string    `db:"description" json:"description"`
	IPAddress   string    `db:"ip_address" json:"ipAddress"`
	UserAgent   string    `db:"user_agent" json:"userAgent"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}
