package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"lifebridge-backend/repository"
	"lifebridge-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// DocumentHandler handles HTTP requests for case documents
type DocumentHandler struct {
	caseRepo        *repository.CaseRepository
	documentService *service.DocumentService
	maxFileSize     int64
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(caseRepo *repository.CaseRepository, documentService *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		caseRepo:        caseRepo,
		documentService: documentService,
		maxFileSize:     20 * 1024 * 1024, // 20MB
	}
}

// UploadDocument handles POST /api/cases/:id/documents
func (h *DocumentHandler) UploadDocument(c *gin.Context) {
	caseID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if _, err := h.caseRepo.GetByID(c.Request.Context(), caseID); err != nil {
		respondCaseNotFound(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "File is required",
			},
		})
		return
	}

	if fileHeader.Size > h.maxFileSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_TOO_LARGE",
				"message": fmt.Sprintf("File exceeds the %dMB limit", h.maxFileSize/(1024*1024)),
			},
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "READ_FAILED",
				"message": err.Error(),
			},
		})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "READ_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	result, err := h.documentService.UploadDocument(c.Request.Context(), service.UploadDocumentRequest{
		CaseID:   caseID,
		Filename: fileHeader.Filename,
		MimeType: fileHeader.Header.Get("Content-Type"),
		Data:     data,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"document": result.Document,
			"chunks":   result.ChunkCount,
		},
	})
}

// ListDocuments handles GET /api/cases/:id/documents
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	caseID, ok := parseIDParam(c)
	if !ok {
		return
	}

	docs, err := h.documentService.ListDocuments(c.Request.Context(), caseID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "LIST_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    docs,
	})
}

// DownloadDocument handles GET /api/documents/:id/download
func (h *DocumentHandler) DownloadDocument(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	doc, rc, err := h.documentService.DownloadDocument(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DOCUMENT_NOT_FOUND",
					"message": "Document not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DOWNLOAD_FAILED",
				"message": err.Error(),
			},
		})
		return
	}
	defer rc.Close()

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, doc.Filename))
	c.Header("Content-Type", doc.MimeType)
	c.Status(http.StatusOK)
	io.Copy(c.Writer, rc)
}

// DeleteDocument handles DELETE /api/documents/:id
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.documentService.DeleteDocument(c.Request.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DOCUMENT_NOT_FOUND",
					"message": "Document not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DELETE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}
