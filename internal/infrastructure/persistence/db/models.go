package db

import (
	"time"

	"github.com/google/uuid"
)

type Todo struct {
	ID        uuid.UUID
	Text      string
	Completed bool
	UserID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
