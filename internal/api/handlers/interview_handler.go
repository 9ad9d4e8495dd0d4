package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/preplab/interviewd/internal/services"
	"github.com/preplab/interviewd/internal/utils"
)

type InterviewHandler struct {
	svc services.InterviewService
}

func NewInterviewHandler(svc services.InterviewService) *InterviewHandler {
	return &InterviewHandler{svc: svc}
}

type StartInterviewRequest struct {
	Name          string `json:"name" binding:"required"`
	JobRole       string `json:"job_role" binding:"required"`
	InterviewType string `json:"interview_type" binding:"required"`
}

func (h *InterviewHandler) Start(c *gin.Context) {
	var req StartInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.Start", "invalid request body", err))
		return
	}

	resp, err := h.svc.Start(c.Request.Context(), req.Name, req.JobRole, req.InterviewType)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

type InteractRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	UserInput string `json:"user_input" binding:"required"`
}

func (h *InterviewHandler) Interact(c *gin.Context) {
	var req InteractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.Interact", "invalid request body", err))
		return
	}

	resp, err := h.svc.Interact(c.Request.Context(), req.SessionID, req.UserInput)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

type SessionRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

func (h *InterviewHandler) NextQuestion(c *gin.Context) {
	var req SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.NextQuestion", "invalid request body", err))
		return
	}

	resp, err := h.svc.AdvanceQuestion(c.Request.Context(), req.SessionID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InterviewHandler) End(c *gin.Context) {
	var req SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.End", "invalid request body", err))
		return
	}

	summary, err := h.svc.End(c.Request.Context(), req.SessionID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *InterviewHandler) Get(c *gin.Context) {
	session, err := h.svc.Get(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *InterviewHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("session_id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
