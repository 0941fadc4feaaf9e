package models

import (
	"database/sql"
	"time"
)

type Entity struct {
	ID        string
	Type      string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Association struct {
	InstitutionID string
	ProgramID     string
	SubjectID     string
	Level         string
	Note          sql.NullString
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
