package repository

import (
	"context"

	"lifebridge-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OutputRepository handles database operations for analysis outputs:
// checklist items, timeline items and risks.
type OutputRepository struct {
	db *pgxpool.Pool
}

// NewOutputRepository creates a new output repository
func NewOutputRepository(db *pgxpool.Pool) *OutputRepository {
	return &OutputRepository{db: db}
}

// ReplaceForCase atomically replaces a case's outputs with a fresh plan.
// Re-analyzing a case never leaves stale items behind.
func (r *OutputRepository) ReplaceForCase(
	ctx context.Context,
	caseID uuid.UUID,
	checklist []*models.ChecklistItem,
	timeline []*models.TimelineItem,
	risks []*models.Risk,
) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, table := range []string{"checklist_items", "timeline_items", "risks"} {
		if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE case_id = $1`, caseID); err != nil {
			return err
		}
	}

	checklistQuery := `
		INSERT INTO checklist_items (case_id, label, status, notes, evidence_chunk_ids)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	for _, item := range checklist {
		err := tx.QueryRow(
			ctx, checklistQuery,
			caseID,
			item.Label,
			item.Status,
			item.Notes,
			item.EvidenceChunkIDs,
		).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
		if err != nil {
			return err
		}
		item.CaseID = caseID
	}

	timelineQuery := `
		INSERT INTO timeline_items (case_id, label, due_date, owner, status, notes, evidence_chunk_ids)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	for _, item := range timeline {
		err := tx.QueryRow(
			ctx, timelineQuery,
			caseID,
			item.Label,
			item.DueDate,
			item.Owner,
			item.Status,
			item.Notes,
			item.EvidenceChunkIDs,
		).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
		if err != nil {
			return err
		}
		item.CaseID = caseID
	}

	riskQuery := `
		INSERT INTO risks (case_id, category, severity, statement, reason, evidence_chunk_ids)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	for _, risk := range risks {
		err := tx.QueryRow(
			ctx, riskQuery,
			caseID,
			risk.Category,
			risk.Severity,
			risk.Statement,
			risk.Reason,
			risk.EvidenceChunkIDs,
		).Scan(&risk.ID, &risk.CreatedAt)
		if err != nil {
			return err
		}
		risk.CaseID = caseID
	}

	return tx.Commit(ctx)
}

// ListChecklistByCaseID retrieves a case's checklist in insertion order
func (r *OutputRepository) ListChecklistByCaseID(ctx context.Context, caseID uuid.UUID) ([]*models.ChecklistItem, error) {
	query := `
		SELECT id, case_id, label, status, notes, evidence_chunk_ids, created_at, updated_at
		FROM checklist_items
		WHERE case_id = $1
		ORDER BY created_at ASC, id ASC`

	rows, err := r.db.Query(ctx, query, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.ChecklistItem
	for rows.Next() {
		item := &models.ChecklistItem{}
		err := rows.Scan(
			&item.ID,
			&item.CaseID,
			&item.Label,
			&item.Status,
			&item.Notes,
			&item.EvidenceChunkIDs,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// ListTimelineByCaseID retrieves a case's timeline in insertion order
func (r *OutputRepository) ListTimelineByCaseID(ctx context.Context, caseID uuid.UUID) ([]*models.TimelineItem, error) {
	query := `
		SELECT id, case_id, label, due_date, owner, status, notes, evidence_chunk_ids, created_at, updated_at
		FROM timeline_items
		WHERE case_id = $1
		ORDER BY created_at ASC, id ASC`

	rows, err := r.db.Query(ctx, query, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.TimelineItem
	for rows.Next() {
		item := &models.TimelineItem{}
		err := rows.Scan(
			&item.ID,
			&item.CaseID,
			&item.Label,
			&item.DueDate,
			&item.Owner,
			&item.Status,
			&item.Notes,
			&item.EvidenceChunkIDs,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// ListRisksByCaseID retrieves a case's risk register in insertion order
func (r *OutputRepository) ListRisksByCaseID(ctx context.Context, caseID uuid.UUID) ([]*models.Risk, error) {
	query := `
		SELECT id, case_id, category, severity, statement, reason, evidence_chunk_ids, created_at
		FROM risks
		WHERE case_id = $1
		ORDER BY created_at ASC, id ASC`

	rows, err := r.db.Query(ctx, query, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var risks []*models.Risk
	for rows.Next() {
		risk := &models.Risk{}
		err := rows.Scan(
			&risk.ID,
			&risk.CaseID,
			&risk.Category,
			&risk.Severity,
			&risk.Statement,
			&risk.Reason,
			&risk.EvidenceChunkIDs,
			&risk.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		risks = append(risks, risk)
	}

	return risks, rows.Err()
}

// UpdateChecklistStatus updates the status of one checklist item
func (r *OutputRepository) UpdateChecklistStatus(ctx context.Context, id uuid.UUID, status string) (*models.ChecklistItem, error) {
	item := &models.ChecklistItem{}
	query := `
		UPDATE checklist_items SET
			status = $2,
			updated_at = NOW()
		WHERE id = $1
		RETURNING id, case_id, label, status, notes, evidence_chunk_ids, created_at, updated_at`

	err := r.db.QueryRow(ctx, query, id, status).Scan(
		&item.ID,
		&item.CaseID,
		&item.Label,
		&item.Status,
		&item.Notes,
		&item.EvidenceChunkIDs,
		&item.CreatedAt,
		&item.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return item, nil
}

// UpdateTimelineStatus updates the status of one timeline item
func (r *OutputRepository) UpdateTimelineStatus(ctx context.Context, id uuid.UUID, status string) (*models.TimelineItem, error) {
	item := &models.TimelineItem{}
	query := `
		UPDATE timeline_items SET
			status = $2,
			updated_at = NOW()
		WHERE id = $1
		RETURNING id, case_id, label, due_date, owner, status, notes, evidence_chunk_ids, created_at, updated_at`

	err := r.db.QueryRow(ctx, query, id, status).Scan(
		&item.ID,
		&item.CaseID,
		&item.Label,
		&item.DueDate,
		&item.Owner,
		&item.Status,
		&item.Notes,
		&item.EvidenceChunkIDs,
		&item.CreatedAt,
		&item.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return item, nil
}

// CaseCounts summarizes a case's plan for the statistics endpoints.
type CaseCounts struct {
	Checklist     int `json:"checklist"`
	ChecklistDone int `json:"checklist_done"`
	Timeline      int `json:"timeline"`
	Risks         int `json:"risks"`
	HighRisks     int `json:"high_risks"`
}

// CountsByCaseID returns per-case output counts
func (r *OutputRepository) CountsByCaseID(ctx context.Context, caseID uuid.UUID) (*CaseCounts, error) {
	counts := &CaseCounts{}
	query := `
		SELECT
			(SELECT COUNT(*) FROM checklist_items WHERE case_id = $1),
			(SELECT COUNT(*) FROM checklist_items WHERE case_id = $1 AND status = 'done'),
			(SELECT COUNT(*) FROM timeline_items WHERE case_id = $1),
			(SELECT COUNT(*) FROM risks WHERE case_id = $1),
			(SELECT COUNT(*) FROM risks WHERE case_id = $1 AND severity = 'high')`

	err := r.db.QueryRow(ctx, query, caseID).Scan(
		&counts.Checklist,
		&counts.ChecklistDone,
		&counts.Timeline,
		&counts.Risks,
		&counts.HighRisks,
	)

	if err != nil {
		return nil, err
	}

	return counts, nil
}

// GlobalCounts returns output counts across all cases
func (r *OutputRepository) GlobalCounts(ctx context.Context) (*CaseCounts, error) {
	counts := &CaseCounts{}
	query := `
		SELECT
			(SELECT COUNT(*) FROM checklist_items),
			(SELECT COUNT(*) FROM checklist_items WHERE status = 'done'),
			(SELECT COUNT(*) FROM timeline_items),
			(SELECT COUNT(*) FROM risks),
			(SELECT COUNT(*) FROM risks WHERE severity = 'high')`

	err := r.db.QueryRow(ctx, query).Scan(
		&counts.Checklist,
		&counts.ChecklistDone,
		&counts.Timeline,
		&counts.Risks,
		&counts.HighRisks,
	)

	if err != nil {
		return nil, err
	}

	return counts, nil
}
