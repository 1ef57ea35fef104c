package types

import (
	"time"

	"gorm.io/datatypes"
)

// QuizResponse is the raw questionnaire row as Laravel stores it. List-valued
// answers are JSON columns and may carry historical variant spellings; the
// profile service normalizes them into a UserProfile.
type QuizResponse struct {
	ID                         uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID                     string         `gorm:"type:char(36);not null;index;column:user_id" json:"user_id"`
	AgeRange                   string         `gorm:"column:age_range" json:"age_range"`
	Gender                     string         `gorm:"column:gender" json:"gender,omitempty"`
	Country                    string         `gorm:"column:country" json:"country,omitempty"`
	ReligiousBelief            string         `gorm:"column:religious_belief" json:"religious_belief,omitempty"`
	SpiritualPracticeLevel     string         `gorm:"column:spiritual_practice_level" json:"spiritual_practice_level"`
	SpiritualPracticeFrequency string         `gorm:"column:spiritual_practice_frequency" json:"spiritual_practice_frequency"`
	StoicLevel                 string         `gorm:"column:stoic_level" json:"stoic_level"`
	StoicPaths                 datatypes.JSON `gorm:"column:stoic_paths" json:"stoic_paths"`
	DailyChallenges            datatypes.JSON `gorm:"column:daily_challenges" json:"daily_challenges"`
	CreatedAt                  time.Time      `gorm:"column:created_at" json:"created_at"`
	UpdatedAt                  time.Time      `gorm:"column:updated_at" json:"updated_at"`
}

func (QuizResponse) TableName() string {
	return "user_quiz_responses"
}
