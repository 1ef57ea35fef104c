package types

import (
	"time"

	"github.com/google/uuid"
)

type ExerciseStatus string

const (
	ExercisePending ExerciseStatus = "pending"
	// ExerciseInProgress is counted toward the pending pool but no code path
	// sets it; the status exists in the table and may arrive from older rows.
	ExerciseInProgress ExerciseStatus = "in_progress"
	ExerciseCompleted  ExerciseStatus = "completed"
)

// Exercise is a row in the Laravel-owned user_exercises table.
type Exercise struct {
	ID           uuid.UUID      `gorm:"type:char(36);primaryKey" json:"id"`
	UserID       string         `gorm:"type:char(36);not null;index;column:user_id" json:"user_id"`
	ExerciseName string         `gorm:"not null;column:exercise_name" json:"name"`
	Level        string         `gorm:"not null;column:exercise_level" json:"level"`
	Objective    string         `gorm:"type:text;column:objective" json:"objective"`
	Instructions string         `gorm:"type:text;column:instructions" json:"instructions"`
	Duration     string         `gorm:"column:duration" json:"duration"`
	Reflection   string         `gorm:"type:text;column:reflection" json:"reflection"`
	Source       string         `gorm:"column:source" json:"source,omitempty"`
	Status       ExerciseStatus `gorm:"not null;default:pending;column:status" json:"status"`
	CreatedAt    time.Time      `gorm:"not null;column:created_at" json:"created_at"`
	CompletedAt  *time.Time     `gorm:"column:completed_at" json:"completed_at,omitempty"`
}

func (Exercise) TableName() string {
	return "user_exercises"
}

// GeneratedExercise is the structured payload parsed from a model response.
// Index and Total are attached before the item is streamed to the client.
type GeneratedExercise struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name"`
	Level        string `json:"level"`
	Objective    string `json:"objective"`
	Instructions string `json:"instructions"`
	Duration     string `json:"duration"`
	Reflection   string `json:"reflection"`
	Source       string `json:"source,omitempty"`
	Index        int    `json:"index,omitempty"`
	Total        int    `json:"total,omitempty"`
}
