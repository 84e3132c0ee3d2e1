package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Difficulty string

const (
	DifficultyJunior Difficulty = "Junior"
	DifficultyMid    Difficulty = "Mid"
	DifficultySenior Difficulty = "Senior"
)

type Tone string

const (
	ToneFriendly Tone = "friendly"
	ToneNeutral  Tone = "neutral"
	ToneStrict   Tone = "strict"
)

// Interview is an admin-configured interview blueprint. The structured
// fields (skills, rubric, red flags) are stored as JSON text columns.
type Interview struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Role       string    `gorm:"type:text;not null" json:"role"`
	Skills     string    `gorm:"type:text;not null" json:"-"`
	Difficulty string    `gorm:"type:text;not null" json:"difficulty"`
	Rubric     string    `gorm:"type:text" json:"-"`
	RedFlags   string    `gorm:"type:text" json:"-"`
	Tone       string    `gorm:"type:text;not null;default:'neutral'" json:"tone"`
	CreatedAt  time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt  time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`

	// Relations
	Sessions []InterviewSession `gorm:"foreignKey:InterviewID;constraint:OnDelete:CASCADE" json:"-"`
}

func (i *Interview) TableName() string {
	return "interviews"
}

// InterviewConfig is the parsed, in-memory form of an Interview row. It is
// what the question bank, scorer and engine work against.
type InterviewConfig struct {
	Role       string         `json:"role"`
	Skills     []string       `json:"skills"`
	Difficulty Difficulty     `json:"difficulty"`
	Rubric     map[string]int `json:"rubric"`
	RedFlags   []string       `json:"red_flags"`
	Tone       Tone           `json:"tone"`
}

// Config parses the JSON text columns into an InterviewConfig. Unparseable
// fields fall back to empty defaults so one corrupt column never takes down
// an unrelated read path.
func (i *Interview) Config() InterviewConfig {
	cfg := InterviewConfig{
		Role:       i.Role,
		Difficulty: Difficulty(i.Difficulty),
		Tone:       Tone(i.Tone),
		Skills:     []string{},
		Rubric:     map[string]int{},
		RedFlags:   []string{},
	}
	SafeParseJSON(i.Skills, &cfg.Skills)
	SafeParseJSON(i.Rubric, &cfg.Rubric)
	SafeParseJSON(i.RedFlags, &cfg.RedFlags)
	return cfg
}

// SafeParseJSON unmarshals into target and leaves it untouched on failure.
func SafeParseJSON(raw string, target interface{}) {
	if raw == "" {
		return
	}
	_ = json.Unmarshal([]byte(raw), target)
}

// MarshalJSONText is the write-side counterpart of SafeParseJSON. A value
// that cannot marshal degrades to an empty JSON value of the right shape.
func MarshalJSONText(value interface{}, fallback string) string {
	data, err := json.Marshal(value)
	if err != nil {
		return fallback
	}
	return string(data)
}
