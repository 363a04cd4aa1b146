package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/prepedge/prepedge/internal/interview"
	"github.com/prepedge/prepedge/internal/logger"
	"github.com/prepedge/prepedge/internal/store"
)

const userHeader = "X-User-ID"

// APIResponse is the uniform envelope for every JSON endpoint.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SetupRequest mirrors the candidate context collected before an interview.
type SetupRequest struct {
	InterviewName      string `json:"interview_name" binding:"required"`
	NumQuestions       int    `json:"num_of_questions" binding:"required"`
	InterviewType      string `json:"interview_type" binding:"required"`
	Role               string `json:"role" binding:"required"`
	ExperienceLevel    string `json:"experience_level" binding:"required"`
	CompanyName        string `json:"company_name"`
	CompanyDescription string `json:"company_description"`
	JobDescription     string `json:"job_description"`
	ResumeLink         string `json:"resume_link"`
	FocusArea          string `json:"focus_area"`
}

// AnswerRequest carries one graded submission. QuestionID is a pointer so
// that index zero still satisfies the required binding.
type AnswerRequest struct {
	QuestionID *int   `json:"question_id" binding:"required"`
	Answer     string `json:"answer" binding:"required"`
}

type handler struct {
	svc    *interview.Service
	logger *zap.Logger
}

func newHandler(svc *interview.Service, log *zap.Logger) *handler {
	return &handler{svc: svc, logger: log}
}

func (h *handler) setupInterview(c *gin.Context) {
	userID := c.GetHeader(userHeader)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, APIResponse{
			Success: false,
			Error:   fmt.Sprintf("%s header is required", userHeader),
		})
		return
	}

	var req SetupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Error:   fmt.Sprintf("invalid request: %v", err),
		})
		return
	}

	iv, err := h.svc.Setup(c.Request.Context(), interview.SetupParams{
		UserID:             userID,
		Name:               req.InterviewName,
		NumQuestions:       req.NumQuestions,
		Type:               req.InterviewType,
		Role:               req.Role,
		ExperienceLevel:    req.ExperienceLevel,
		CompanyName:        req.CompanyName,
		CompanyDescription: req.CompanyDescription,
		JobDescription:     req.JobDescription,
		ResumeLink:         req.ResumeLink,
		FocusArea:          req.FocusArea,
	})
	if err != nil {
		var genErr *interview.GenerationError
		switch {
		case errors.As(err, &genErr):
			h.logger.Warn("question generation failed", zap.Error(err))
			c.JSON(http.StatusBadGateway, APIResponse{Success: false, Error: err.Error()})
		case errors.Is(err, interview.ErrInvalidParams):
			c.JSON(http.StatusBadRequest, APIResponse{Success: false, Error: err.Error()})
		default:
			h.logger.Error("interview setup failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, APIResponse{Success: false, Error: "failed to set up interview"})
		}
		return
	}

	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: iv})
}

func (h *handler) listInterviews(c *gin.Context) {
	userID := c.GetHeader(userHeader)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, APIResponse{
			Success: false,
			Error:   fmt.Sprintf("%s header is required", userHeader),
		})
		return
	}

	list, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("list interviews failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, APIResponse{Success: false, Error: "failed to list interviews"})
		return
	}

	c.JSON(http.StatusOK, APIResponse{Success: true, Data: list})
}

func (h *handler) getInterview(c *gin.Context) {
	iv, err := h.svc.Interview(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, APIResponse{Success: false, Error: "interview not found"})
		return
	}
	if err != nil {
		h.logger.Error("get interview failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, APIResponse{Success: false, Error: "failed to load interview"})
		return
	}

	c.JSON(http.StatusOK, APIResponse{Success: true, Data: iv})
}

func (h *handler) submitAnswer(c *gin.Context) {
	interviewID := c.Param("id")

	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Error:   fmt.Sprintf("invalid request: %v", err),
		})
		return
	}

	err := h.svc.SubmitAnswer(c.Request.Context(), interviewID, *req.QuestionID, req.Answer)
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, APIResponse{Success: false, Error: "interview not found"})
		return
	case errors.Is(err, interview.ErrQuestionOutOfRange):
		c.JSON(http.StatusBadRequest, APIResponse{Success: false, Error: err.Error()})
		return
	case err != nil:
		h.logger.Error("submit answer failed",
			zap.String(logger.FieldInterview, interviewID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, APIResponse{Success: false, Error: "failed to record answer"})
		return
	}

	c.JSON(http.StatusCreated, APIResponse{Success: true})
}

func (h *handler) getReport(c *gin.Context) {
	rep, err := h.svc.Report(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, APIResponse{Success: false, Error: "report not found"})
		return
	}
	if err != nil {
		h.logger.Error("get report failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, APIResponse{Success: false, Error: "failed to load report"})
		return
	}

	c.JSON(http.StatusOK, APIResponse{Success: true, Data: rep})
}
