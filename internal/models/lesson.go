package models

import "time"

// ContentType describes how a lesson is delivered.
type ContentType string

const (
	ContentVideo    ContentType = "VIDEO"
	ContentDocument ContentType = "DOCUMENT"
	ContentText     ContentType = "TEXT"
)

// Lesson is a single unit of learning content within a section.
type Lesson struct {
	ID              string      `db:"id" json:"id"`
	SectionID       string      `db:"section_id" json:"sectionId"`
	Title           string      `db:"title" json:"title"`
	ContentType     ContentType `db:"content_type" json:"contentType"`
	Body            *string     `db:"body" json:"body,omitempty"`
	ContentPath     *string     `db:"content_path" json:"contentPath,omitempty"`
	DurationMinutes int         `db:"duration_minutes" json:"durationMinutes"`
	Position        int         `db:"position" json:"position"`
	CreatedAt       time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time   `db:"updated_at" json:"updatedAt"`
}

// LessonRequest is the create/update payload for a lesson.
type LessonRequest struct {
	Title           string      `json:"title" validate:"required,max=200"`
	ContentType     ContentType `json:"contentType" validate:"required,oneof=VIDEO DOCUMENT TEXT"`
	Body            *string     `json:"body"`
	DurationMinutes int         `json:"durationMinutes" validate:"gte=0,lte=1440"`
	Position        int         `json:"position" validate:"gte=0"`
}

// LessonView is what staff receive when opening a lesson.
type LessonView struct {
	Lesson
	ContentURL *string `json:"contentUrl,omitempty"`
}
