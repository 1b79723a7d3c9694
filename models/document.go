package models

import (
	"time"

	"github.com/google/uuid"
)

// Document represents an uploaded case document
type Document struct {
	ID          uuid.UUID `json:"id"`
	CaseID      uuid.UUID `json:"case_id"`
	Filename    string    `json:"filename"`
	MimeType    string    `json:"mime_type"`
	Size        int64     `json:"size"`
	StoragePath string    `json:"storage_path"`
	CreatedAt   time.Time `json:"created_at"`
}

// Chunk is one fixed-size slice of a document's extracted text. Idx is
// the zero-based position within the document.
type Chunk struct {
	ID         uuid.UUID `json:"id"`
	CaseID     uuid.UUID `json:"case_id"`
	DocumentID uuid.UUID `json:"document_id"`
	Idx        int       `json:"idx"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}
