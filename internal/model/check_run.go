package model

import (
	"time"

	"github.com/google/uuid"
)

// CheckRun records the outcome of one checking pass
type CheckRun struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SourceName string    `json:"source_name"`
	SourceHash string    `json:"source_hash" gorm:"index"`
	Accepted   bool      `json:"accepted"`
	Phase      string    `json:"phase,omitempty"`
	Diagnostic string    `json:"diagnostic,omitempty"`
	Line       int       `json:"line,omitempty"`
	Column     int       `json:"column,omitempty"`
	Statements int       `json:"statements"`
	DurationUS int64     `json:"duration_us" gorm:"column:duration_us"`
	RequestID  string    `json:"request_id,omitempty"`
	ClientIP   string    `json:"client_ip,omitempty"`
	CreatedAt  time.Time `json:"created_at" gorm:"default:CURRENT_TIMESTAMP"`
}

// TableName specifies the table name for CheckRun
func (CheckRun) TableName() string {
	return "check_runs"
}
