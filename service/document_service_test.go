package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"lifebridge-backend/extract"
	"lifebridge-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDocStore struct {
	docs      map[uuid.UUID]*models.Document
	createErr error
}

func newFakeDocStore() *fakeDocStore {
	return &fakeDocStore{docs: make(map[uuid.UUID]*models.Document)}
}

func (f *fakeDocStore) Create(ctx context.Context, doc *models.Document) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.docs[doc.ID] = doc
	return nil
}

func (f *fakeDocStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, assert.AnError
	}
	return doc, nil
}

func (f *fakeDocStore) ListByCaseID(ctx context.Context, caseID uuid.UUID) ([]*models.Document, error) {
	var docs []*models.Document
	for _, doc := range f.docs {
		if doc.CaseID == caseID {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

func (f *fakeDocStore) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.docs, id)
	return nil
}

type fakeChunkStore struct {
	chunks  []*models.Chunk
	deleted []uuid.UUID
}

func (f *fakeChunkStore) CreateBatch(ctx context.Context, chunks []*models.Chunk) error {
	f.chunks = append(f.chunks, chunks...)
	return nil
}

func (f *fakeChunkStore) DeleteByDocumentID(ctx context.Context, documentID uuid.UUID) error {
	f.deleted = append(f.deleted, documentID)
	return nil
}

type memoryStorage struct {
	blobs map[string][]byte
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{blobs: make(map[string][]byte)}
}

func (m *memoryStorage) Upload(ctx context.Context, caseID, documentID uuid.UUID, filename string, data io.Reader) (string, error) {
	raw, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	path := "cases/" + caseID.String() + "/" + documentID.String() + "_" + filename
	m.blobs[path] = raw
	return path, nil
}

func (m *memoryStorage) Download(ctx context.Context, storagePath string) (io.ReadCloser, error) {
	raw, ok := m.blobs[storagePath]
	if !ok {
		return nil, assert.AnError
	}
	return io.NopCloser(strings.NewReader(string(raw))), nil
}

func (m *memoryStorage) Delete(ctx context.Context, storagePath string) error {
	delete(m.blobs, storagePath)
	return nil
}

type passthroughExtractor struct{}

func (passthroughExtractor) Extract(contentType string, data []byte) extract.Result {
	text := extract.Normalize(string(data))
	return extract.Result{FullText: text, Chunks: extract.ChunkText(text, 10)}
}

func TestUploadDocumentPersistsBlobRecordAndChunks(t *testing.T) {
	docs := newFakeDocStore()
	chunks := &fakeChunkStore{}
	store := newMemoryStorage()

	svc := NewDocumentService(
		WithDocumentStore(docs),
		WithChunkStore(chunks),
		WithBlobStorage(store),
		WithExtractor(passthroughExtractor{}),
	)

	caseID := uuid.New()
	res, err := svc.UploadDocument(context.Background(), UploadDocumentRequest{
		CaseID:   caseID,
		Filename: "letter.txt",
		MimeType: "text/plain",
		Data:     []byte("this text spans multiple chunks"),
	})
	require.NoError(t, err)

	assert.Len(t, store.blobs, 1)
	assert.Len(t, docs.docs, 1)
	assert.Equal(t, res.ChunkCount, len(chunks.chunks))
	assert.Greater(t, res.ChunkCount, 1)

	for i, chunk := range chunks.chunks {
		assert.Equal(t, i, chunk.Idx)
		assert.Equal(t, res.Document.ID, chunk.DocumentID)
		assert.Equal(t, caseID, chunk.CaseID)
	}
}

func TestUploadDocumentCleansUpBlobWhenRecordFails(t *testing.T) {
	docs := newFakeDocStore()
	docs.createErr = assert.AnError
	store := newMemoryStorage()

	svc := NewDocumentService(
		WithDocumentStore(docs),
		WithChunkStore(&fakeChunkStore{}),
		WithBlobStorage(store),
		WithExtractor(passthroughExtractor{}),
	)

	_, err := svc.UploadDocument(context.Background(), UploadDocumentRequest{
		CaseID:   uuid.New(),
		Filename: "letter.txt",
		Data:     []byte("content"),
	})
	assert.Error(t, err)
	assert.Empty(t, store.blobs, "blob is removed when the record insert fails")
}

func TestDeleteDocumentRemovesChunksRecordAndBlob(t *testing.T) {
	docs := newFakeDocStore()
	chunks := &fakeChunkStore{}
	store := newMemoryStorage()

	svc := NewDocumentService(
		WithDocumentStore(docs),
		WithChunkStore(chunks),
		WithBlobStorage(store),
		WithExtractor(passthroughExtractor{}),
	)

	res, err := svc.UploadDocument(context.Background(), UploadDocumentRequest{
		CaseID:   uuid.New(),
		Filename: "scan.png",
		Data:     []byte("pixels"),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteDocument(context.Background(), res.Document.ID))
	assert.Empty(t, docs.docs)
	assert.Empty(t, store.blobs)
	assert.Equal(t, []uuid.UUID{res.Document.ID}, chunks.deleted)
}

func TestDownloadDocumentReturnsStoredBytes(t *testing.T) {
	docs := newFakeDocStore()
	store := newMemoryStorage()

	svc := NewDocumentService(
		WithDocumentStore(docs),
		WithChunkStore(&fakeChunkStore{}),
		WithBlobStorage(store),
		WithExtractor(passthroughExtractor{}),
	)

	res, err := svc.UploadDocument(context.Background(), UploadDocumentRequest{
		CaseID:   uuid.New(),
		Filename: "letter.txt",
		Data:     []byte("original bytes"),
	})
	require.NoError(t, err)

	doc, rc, err := svc.DownloadDocument(context.Background(), res.Document.ID)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "original bytes", string(data))
	assert.Equal(t, res.Document.ID, doc.ID)
}
