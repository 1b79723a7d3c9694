package repository

import (
	"context"

	"lifebridge-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ChunkRepository handles database operations for document chunks
type ChunkRepository struct {
	db *pgxpool.Pool
}

// NewChunkRepository creates a new chunk repository
func NewChunkRepository(db *pgxpool.Pool) *ChunkRepository {
	return &ChunkRepository{db: db}
}

// CreateBatch inserts all chunks of one document in a single round trip
func (r *ChunkRepository) CreateBatch(ctx context.Context, chunks []*models.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	query := `
		INSERT INTO chunks (case_id, document_id, idx, text)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	batch := &pgx.Batch{}
	for _, chunk := range chunks {
		batch.Queue(query, chunk.CaseID, chunk.DocumentID, chunk.Idx, chunk.Text)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for _, chunk := range chunks {
		if err := results.QueryRow().Scan(&chunk.ID, &chunk.CreatedAt); err != nil {
			return err
		}
	}

	return nil
}

// ListByCaseID retrieves all chunks for a case in stable reading order:
// documents by upload time, chunks by position within the document.
func (r *ChunkRepository) ListByCaseID(ctx context.Context, caseID uuid.UUID) ([]*models.Chunk, error) {
	query := `
		SELECT c.id, c.case_id, c.document_id, c.idx, c.text, c.created_at
		FROM chunks c
		JOIN documents d ON d.id = c.document_id
		WHERE c.case_id = $1
		ORDER BY d.created_at ASC, c.idx ASC`

	rows, err := r.db.Query(ctx, query, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []*models.Chunk
	for rows.Next() {
		chunk := &models.Chunk{}
		err := rows.Scan(
			&chunk.ID,
			&chunk.CaseID,
			&chunk.DocumentID,
			&chunk.Idx,
			&chunk.Text,
			&chunk.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}

	return chunks, rows.Err()
}

// DeleteByDocumentID removes all chunks belonging to a document
func (r *ChunkRepository) DeleteByDocumentID(ctx context.Context, documentID uuid.UUID) error {
	query := `DELETE FROM chunks WHERE document_id = $1`
	_, err := r.db.Exec(ctx, query, documentID)
	return err
}
