package service

import (
	"context"
	"errors"

	"lifebridge-backend/models"
	"lifebridge-backend/reason"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrNoCaseContent is returned when a case has neither chunks nor a story
	ErrNoCaseContent = errors.New("case has no documents or story to analyze")
	// ErrAnalysisDepsNotSet is returned when the service is missing a dependency
	ErrAnalysisDepsNotSet = errors.New("analysis service dependency not set")
)

// CaseStore is the subset of case persistence the service needs
type CaseStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Case, error)
	UpdateSummary(ctx context.Context, id uuid.UUID, summary string) error
}

// ChunkLister loads a case's chunks in stable reading order
type ChunkLister interface {
	ListByCaseID(ctx context.Context, caseID uuid.UUID) ([]*models.Chunk, error)
}

// OutputStore persists and reads analysis outputs
type OutputStore interface {
	ReplaceForCase(ctx context.Context, caseID uuid.UUID, checklist []*models.ChecklistItem, timeline []*models.TimelineItem, risks []*models.Risk) error
	ListChecklistByCaseID(ctx context.Context, caseID uuid.UUID) ([]*models.ChecklistItem, error)
	ListTimelineByCaseID(ctx context.Context, caseID uuid.UUID) ([]*models.TimelineItem, error)
	ListRisksByCaseID(ctx context.Context, caseID uuid.UUID) ([]*models.Risk, error)
}

// PlanBuilder produces a case plan from scenario, chunks and story
type PlanBuilder interface {
	Build(ctx context.Context, scenario string, chunks []string, story string) *reason.Result
}

// AnalysisService orchestrates case analysis: it loads the evidence,
// runs the reasoning builder and persists the resulting plan.
type AnalysisService struct {
	caseRepo   CaseStore
	chunkRepo  ChunkLister
	outputRepo OutputStore
	builder    PlanBuilder
	logger     *zap.Logger
}

// AnalysisServiceOption is a functional option for AnalysisService
type AnalysisServiceOption func(*AnalysisService)

// WithCaseStore sets the case repository
func WithCaseStore(repo CaseStore) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.caseRepo = repo
	}
}

// WithChunkLister sets the chunk repository
func WithChunkLister(repo ChunkLister) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.chunkRepo = repo
	}
}

// WithOutputStore sets the output repository
func WithOutputStore(repo OutputStore) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.outputRepo = repo
	}
}

// WithPlanBuilder sets the reasoning builder
func WithPlanBuilder(builder PlanBuilder) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.builder = builder
	}
}

// WithAnalysisLogger sets the logger
func WithAnalysisLogger(logger *zap.Logger) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.logger = logger
	}
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(opts ...AnalysisServiceOption) *AnalysisService {
	s := &AnalysisService{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	if s.builder == nil {
		s.builder = reason.NewBuilder()
	}
	return s
}

// Analyze runs a full analysis for the case and replaces its outputs.
func (s *AnalysisService) Analyze(ctx context.Context, caseID uuid.UUID) (*models.CaseOutputs, error) {
	if s.caseRepo == nil || s.chunkRepo == nil || s.outputRepo == nil {
		return nil, ErrAnalysisDepsNotSet
	}

	c, err := s.caseRepo.GetByID(ctx, caseID)
	if err != nil {
		return nil, err
	}

	chunks, err := s.chunkRepo.ListByCaseID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 && c.UserStory == "" {
		return nil, ErrNoCaseContent
	}

	texts := make([]string, len(chunks))
	chunkIDs := make([]uuid.UUID, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
		chunkIDs[i] = chunk.ID
	}

	res := s.builder.Build(ctx, c.Scenario, texts, c.UserStory)

	checklist := make([]*models.ChecklistItem, 0, len(res.Checklist))
	for _, item := range res.Checklist {
		checklist = append(checklist, &models.ChecklistItem{
			CaseID:           caseID,
			Label:            item.Label,
			Status:           item.Status,
			Notes:            item.Notes,
			EvidenceChunkIDs: resolveEvidence(item.EvidenceIdx, chunkIDs),
		})
	}

	timeline := make([]*models.TimelineItem, 0, len(res.Timeline))
	for _, item := range res.Timeline {
		timeline = append(timeline, &models.TimelineItem{
			CaseID:           caseID,
			Label:            item.Label,
			DueDate:          item.DueDate,
			Owner:            item.Owner,
			Status:           reason.StatusTodo,
			Notes:            item.Notes,
			EvidenceChunkIDs: resolveEvidence(item.EvidenceIdx, chunkIDs),
		})
	}

	risks := make([]*models.Risk, 0, len(res.Risks))
	for _, item := range res.Risks {
		risks = append(risks, &models.Risk{
			CaseID:           caseID,
			Category:         item.Category,
			Severity:         item.Severity,
			Statement:        item.Statement,
			Reason:           item.Reason,
			EvidenceChunkIDs: resolveEvidence(item.EvidenceIdx, chunkIDs),
		})
	}

	if err := s.outputRepo.ReplaceForCase(ctx, caseID, checklist, timeline, risks); err != nil {
		return nil, err
	}
	if err := s.caseRepo.UpdateSummary(ctx, caseID, res.Summary); err != nil {
		return nil, err
	}

	s.logger.Info("case_analyzed",
		zap.String("case_id", caseID.String()),
		zap.String("source", res.Source),
		zap.Int("checklist", len(checklist)),
		zap.Int("timeline", len(timeline)),
		zap.Int("risks", len(risks)))

	return &models.CaseOutputs{
		Summary:   res.Summary,
		Source:    models.AnalysisSource(res.Source),
		Checklist: checklist,
		Timeline:  timeline,
		Risks:     risks,
	}, nil
}

// Outputs returns the stored plan for a case without re-analyzing.
func (s *AnalysisService) Outputs(ctx context.Context, caseID uuid.UUID) (*models.CaseOutputs, error) {
	if s.caseRepo == nil || s.outputRepo == nil {
		return nil, ErrAnalysisDepsNotSet
	}

	c, err := s.caseRepo.GetByID(ctx, caseID)
	if err != nil {
		return nil, err
	}

	checklist, err := s.outputRepo.ListChecklistByCaseID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	timeline, err := s.outputRepo.ListTimelineByCaseID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	risks, err := s.outputRepo.ListRisksByCaseID(ctx, caseID)
	if err != nil {
		return nil, err
	}

	return &models.CaseOutputs{
		Summary:   c.Summary,
		Checklist: checklist,
		Timeline:  timeline,
		Risks:     risks,
	}, nil
}

// resolveEvidence maps chunk indices to chunk IDs, dropping anything out
// of range rather than failing the plan.
func resolveEvidence(indices []int, chunkIDs []uuid.UUID) []uuid.UUID {
	var ids []uuid.UUID
	for _, idx := range indices {
		if idx >= 0 && idx < len(chunkIDs) {
			ids = append(ids, chunkIDs[idx])
		}
	}
	return ids
}
