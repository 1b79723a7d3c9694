package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"lifebridge-backend/models"
	"lifebridge-backend/reason"
	"lifebridge-backend/repository"
	"lifebridge-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CaseHandler handles HTTP requests for cases and their analysis outputs
type CaseHandler struct {
	caseRepo        *repository.CaseRepository
	docRepo         *repository.DocumentRepository
	outputRepo      *repository.OutputRepository
	analysisService *service.AnalysisService
}

// NewCaseHandler creates a new case handler
func NewCaseHandler(
	caseRepo *repository.CaseRepository,
	docRepo *repository.DocumentRepository,
	outputRepo *repository.OutputRepository,
	analysisService *service.AnalysisService,
) *CaseHandler {
	return &CaseHandler{
		caseRepo:        caseRepo,
		docRepo:         docRepo,
		outputRepo:      outputRepo,
		analysisService: analysisService,
	}
}

// CreateCaseRequest represents the request body for creating a case
type CreateCaseRequest struct {
	Title     string `json:"title" binding:"required"`
	Scenario  string `json:"scenario"`
	UserStory string `json:"user_story"`
	OwnerID   string `json:"owner_id"`
}

// CreateCase handles POST /api/cases
func (h *CaseHandler) CreateCase(c *gin.Context) {
	var req CreateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	newCase := &models.Case{
		Title:     strings.TrimSpace(req.Title),
		Scenario:  strings.TrimSpace(req.Scenario),
		UserStory: req.UserStory,
	}
	if newCase.Scenario == "" {
		newCase.Scenario = models.ScenarioOther
	}

	if req.OwnerID != "" {
		ownerID, err := uuid.Parse(req.OwnerID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_OWNER_ID",
					"message": "Invalid owner_id format",
				},
			})
			return
		}
		newCase.OwnerID = &ownerID
	}

	if err := h.caseRepo.Create(c.Request.Context(), newCase); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CREATE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    newCase,
	})
}

// GetCase handles GET /api/cases/:id
func (h *CaseHandler) GetCase(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	found, err := h.caseRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondCaseNotFound(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    found,
	})
}

// ListCases handles GET /api/cases
func (h *CaseHandler) ListCases(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	cases, err := h.caseRepo.List(c.Request.Context(), limit, offset)
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
		"data":    cases,
	})
}

// DeleteCase handles DELETE /api/cases/:id
func (h *CaseHandler) DeleteCase(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.caseRepo.Delete(c.Request.Context(), id); err != nil {
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

// UpdateStoryRequest represents the request body for updating a case story
type UpdateStoryRequest struct {
	Scenario  string `json:"scenario"`
	UserStory string `json:"user_story"`
}

// UpdateStory handles PATCH /api/cases/:id/story
func (h *CaseHandler) UpdateStory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	existing, err := h.caseRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondCaseNotFound(c, err)
		return
	}

	scenario := strings.TrimSpace(req.Scenario)
	if scenario == "" {
		scenario = existing.Scenario
	}

	if err := h.caseRepo.UpdateStory(c.Request.Context(), id, scenario, req.UserStory); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPDATE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	existing.Scenario = scenario
	existing.UserStory = req.UserStory

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    existing,
	})
}

// AnalyzeCase handles POST /api/cases/:id/analyze
func (h *CaseHandler) AnalyzeCase(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	outputs, err := h.analysisService.Analyze(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNoCaseContent) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NO_CASE_CONTENT",
					"message": "Upload a document or add a story before analyzing",
				},
			})
			return
		}
		if errors.Is(err, pgx.ErrNoRows) {
			respondCaseNotFound(c, err)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ANALYSIS_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    outputs,
	})
}

// GetOutputs handles GET /api/cases/:id/outputs
func (h *CaseHandler) GetOutputs(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	outputs, err := h.analysisService.Outputs(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondCaseNotFound(c, err)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "OUTPUTS_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    outputs,
	})
}

// UpdateStatusRequest represents a checklist or timeline status change
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func validPlanStatus(status string) bool {
	switch status {
	case reason.StatusTodo, reason.StatusInProgress, reason.StatusDone:
		return true
	}
	return false
}

// UpdateChecklistStatus handles PATCH /api/checklist/:id/status
func (h *CaseHandler) UpdateChecklistStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || !validPlanStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_STATUS",
				"message": "Status must be one of: todo, in_progress, done",
			},
		})
		return
	}

	item, err := h.outputRepo.UpdateChecklistStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ITEM_NOT_FOUND",
					"message": "Checklist item not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPDATE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    item,
	})
}

// UpdateTimelineStatus handles PATCH /api/timeline/:id/status
func (h *CaseHandler) UpdateTimelineStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || !validPlanStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_STATUS",
				"message": "Status must be one of: todo, in_progress, done",
			},
		})
		return
	}

	item, err := h.outputRepo.UpdateTimelineStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ITEM_NOT_FOUND",
					"message": "Timeline item not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPDATE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    item,
	})
}

// CaseStatistics handles GET /api/cases/:id/statistics
func (h *CaseHandler) CaseStatistics(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	counts, err := h.outputRepo.CountsByCaseID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STATISTICS_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    counts,
	})
}

// GlobalStatistics handles GET /api/statistics
func (h *CaseHandler) GlobalStatistics(c *gin.Context) {
	counts, err := h.outputRepo.GlobalCounts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STATISTICS_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	caseCount, err := h.caseRepo.Count(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STATISTICS_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	docCount, err := h.docRepo.CountAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STATISTICS_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"cases":     caseCount,
			"documents": docCount,
			"outputs":   counts,
		},
	})
}

// SearchCases handles GET /api/search
func (h *CaseHandler) SearchCases(c *gin.Context) {
	term := strings.TrimSpace(c.Query("q"))
	if term == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_QUERY",
				"message": "Query parameter q is required",
			},
		})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	cases, err := h.caseRepo.Search(c.Request.Context(), term, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SEARCH_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    cases,
	})
}

// demoPresets seed a ready-made case per scenario so the product can be
// shown without uploading real documents.
var demoPresets = map[string]struct {
	Title string
	Story string
}{
	models.ScenarioFamilyReunion: {
		Title: "Demo: Family reunion",
		Story: "I want to bring my spouse and daughter to join me. I have my approval notice but I am not sure what proof of relationship I still need.",
	},
	models.ScenarioH1BIssue: {
		Title: "Demo: H-1B travel problem",
		Story: "My H-1B petition was approved but my visa stamp is expired and I need to travel next month for a family emergency.",
	},
	models.ScenarioJobRelocation: {
		Title: "Demo: Job relocation",
		Story: "I received a job offer letter from a US employer and need to understand the onboarding and visa steps before my start date.",
	},
}

// DemoPresetRequest selects which preset to create
type DemoPresetRequest struct {
	Scenario string `json:"scenario" binding:"required"`
}

// CreateDemoPreset handles POST /api/demo/preset. It creates a preset
// case and runs a real analysis over it.
func (h *CaseHandler) CreateDemoPreset(c *gin.Context) {
	var req DemoPresetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	preset, ok := demoPresets[req.Scenario]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNKNOWN_SCENARIO",
				"message": "No demo preset for scenario: " + req.Scenario,
			},
		})
		return
	}

	demoCase := &models.Case{
		Title:     preset.Title,
		Scenario:  req.Scenario,
		UserStory: preset.Story,
	}
	if err := h.caseRepo.Create(c.Request.Context(), demoCase); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CREATE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	outputs, err := h.analysisService.Analyze(c.Request.Context(), demoCase.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ANALYSIS_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"case":    demoCase,
			"outputs": outputs,
		},
	})
}

// parseIDParam parses the :id path parameter, writing the error response
// itself so callers can just bail out.
func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid ID format",
			},
		})
		return uuid.Nil, false
	}
	return id, true
}

func respondCaseNotFound(c *gin.Context, err error) {
	if errors.Is(err, pgx.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CASE_NOT_FOUND",
				"message": "Case not found",
			},
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "LOOKUP_FAILED",
			"message": err.Error(),
		},
	})
}
