package document

import (
	"time"

	"github.com/google/uuid"
)

// Document maps to the documents table. Only the fields this service needs
// are modeled; the full document lifecycle (upload, OCR, chat extraction)
// lives in the surrounding application.
type Document struct {
	ID        uuid.UUID `db:"id" json:"id"`
	OwnerID   uuid.UUID `db:"owner_id" json:"owner_id"`
	Title     string    `db:"title" json:"title"`
	Deleted   bool      `db:"deleted" json:"deleted"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
