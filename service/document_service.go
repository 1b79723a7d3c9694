package service

import (
	"bytes"
	"context"
	"errors"
	"io"

	"lifebridge-backend/extract"
	"lifebridge-backend/models"
	"lifebridge-backend/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrDocumentRepoNotSet is returned when the service is missing its repository
	ErrDocumentRepoNotSet = errors.New("document repository not set")
	// ErrStorageNotSet is returned when the service is missing its blob store
	ErrStorageNotSet = errors.New("storage not set")
)

// DocumentStore is the subset of document persistence the service needs
type DocumentStore interface {
	Create(ctx context.Context, doc *models.Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error)
	ListByCaseID(ctx context.Context, caseID uuid.UUID) ([]*models.Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ChunkStore is the subset of chunk persistence the service needs
type ChunkStore interface {
	CreateBatch(ctx context.Context, chunks []*models.Chunk) error
	DeleteByDocumentID(ctx context.Context, documentID uuid.UUID) error
}

// TextExtractor turns raw document bytes into normalized chunks
type TextExtractor interface {
	Extract(contentType string, data []byte) extract.Result
}

// DocumentService handles document upload, extraction and lifecycle
type DocumentService struct {
	docRepo   DocumentStore
	chunkRepo ChunkStore
	store     storage.Storage
	extractor TextExtractor
	logger    *zap.Logger
}

// DocumentServiceOption is a functional option for DocumentService
type DocumentServiceOption func(*DocumentService)

// WithDocumentStore sets the document repository
func WithDocumentStore(repo DocumentStore) DocumentServiceOption {
	return func(s *DocumentService) {
		s.docRepo = repo
	}
}

// WithChunkStore sets the chunk repository
func WithChunkStore(repo ChunkStore) DocumentServiceOption {
	return func(s *DocumentService) {
		s.chunkRepo = repo
	}
}

// WithBlobStorage sets the blob store
func WithBlobStorage(store storage.Storage) DocumentServiceOption {
	return func(s *DocumentService) {
		s.store = store
	}
}

// WithExtractor sets the text extractor
func WithExtractor(extractor TextExtractor) DocumentServiceOption {
	return func(s *DocumentService) {
		s.extractor = extractor
	}
}

// WithDocumentLogger sets the logger
func WithDocumentLogger(logger *zap.Logger) DocumentServiceOption {
	return func(s *DocumentService) {
		s.logger = logger
	}
}

// NewDocumentService creates a new document service
func NewDocumentService(opts ...DocumentServiceOption) *DocumentService {
	s := &DocumentService{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	if s.extractor == nil {
		s.extractor = extract.NewExtractor()
	}
	return s
}

// UploadDocumentRequest represents a document upload
type UploadDocumentRequest struct {
	CaseID   uuid.UUID
	Filename string
	MimeType string
	Data     []byte
}

// UploadDocumentResult represents the outcome of an upload
type UploadDocumentResult struct {
	Document   *models.Document
	ChunkCount int
}

// UploadDocument stores the blob, records the document, extracts its text
// and persists the chunks. Extraction never fails the upload: unreadable
// files produce the placeholder chunk.
func (s *DocumentService) UploadDocument(ctx context.Context, req UploadDocumentRequest) (*UploadDocumentResult, error) {
	if s.docRepo == nil || s.chunkRepo == nil {
		return nil, ErrDocumentRepoNotSet
	}
	if s.store == nil {
		return nil, ErrStorageNotSet
	}

	docID := uuid.New()
	storagePath, err := s.store.Upload(ctx, req.CaseID, docID, req.Filename, bytes.NewReader(req.Data))
	if err != nil {
		return nil, err
	}

	doc := &models.Document{
		ID:          docID,
		CaseID:      req.CaseID,
		Filename:    req.Filename,
		MimeType:    req.MimeType,
		Size:        int64(len(req.Data)),
		StoragePath: storagePath,
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		// Avoid orphaned blobs when the record insert fails.
		if delErr := s.store.Delete(ctx, storagePath); delErr != nil {
			s.logger.Warn("orphan_blob_cleanup_failed",
				zap.String("path", storagePath), zap.Error(delErr))
		}
		return nil, err
	}

	extracted := s.extractor.Extract(req.MimeType, req.Data)

	chunks := make([]*models.Chunk, 0, len(extracted.Chunks))
	for i, text := range extracted.Chunks {
		chunks = append(chunks, &models.Chunk{
			CaseID:     req.CaseID,
			DocumentID: doc.ID,
			Idx:        i,
			Text:       text,
		})
	}
	if err := s.chunkRepo.CreateBatch(ctx, chunks); err != nil {
		return nil, err
	}

	s.logger.Info("document_uploaded",
		zap.String("document_id", doc.ID.String()),
		zap.String("case_id", req.CaseID.String()),
		zap.Int("chunks", len(chunks)))

	return &UploadDocumentResult{Document: doc, ChunkCount: len(chunks)}, nil
}

// ListDocuments returns a case's documents, oldest first
func (s *DocumentService) ListDocuments(ctx context.Context, caseID uuid.UUID) ([]*models.Document, error) {
	if s.docRepo == nil {
		return nil, ErrDocumentRepoNotSet
	}
	return s.docRepo.ListByCaseID(ctx, caseID)
}

// DownloadDocument returns the document record and a reader over its bytes
func (s *DocumentService) DownloadDocument(ctx context.Context, id uuid.UUID) (*models.Document, io.ReadCloser, error) {
	if s.docRepo == nil {
		return nil, nil, ErrDocumentRepoNotSet
	}
	if s.store == nil {
		return nil, nil, ErrStorageNotSet
	}

	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	rc, err := s.store.Download(ctx, doc.StoragePath)
	if err != nil {
		return nil, nil, err
	}

	return doc, rc, nil
}

// DeleteDocument removes the chunks, the record and finally the blob.
// A failed blob delete is logged, not surfaced: the record is gone and a
// re-upload would get a fresh path anyway.
func (s *DocumentService) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	if s.docRepo == nil || s.chunkRepo == nil {
		return ErrDocumentRepoNotSet
	}
	if s.store == nil {
		return ErrStorageNotSet
	}

	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.chunkRepo.DeleteByDocumentID(ctx, id); err != nil {
		return err
	}
	if err := s.docRepo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, doc.StoragePath); err != nil {
		s.logger.Warn("blob_delete_failed",
			zap.String("path", doc.StoragePath), zap.Error(err))
	}

	return nil
}
