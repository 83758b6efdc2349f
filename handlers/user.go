package handlers

import (
	"context"
	"errors"
	"net/http"

	"gemini-chat/models"
	"gemini-chat/store"
	"gemini-chat/workflows"

	"github.com/dbos-inc/dbos-transact-golang/dbos"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserStore is the read surface the handlers need for their prechecks.
type UserStore interface {
	GetUser(ctx context.Context, email string) (*models.User, error)
}

// UserHandler handles the per-user conversation CRUD endpoints. Mutations
// run as durable workflows; the existence checks that decide between 400,
// 404 and 500 read the store directly before the workflow starts.
type UserHandler struct {
	store     UserStore
	dbosCtx   dbos.DBOSContext
	workflows *workflows.UserWorkflows
	logger    *zap.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(st UserStore, dbosCtx dbos.DBOSContext, wf *workflows.UserWorkflows, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		store:     st,
		dbosCtx:   dbosCtx,
		workflows: wf,
		logger:    logger,
	}
}

// HandleSync finds or creates the user record for the signed-in email and
// returns it, including the full chats document.
func (h *UserHandler) HandleSync(c *gin.Context) {
	var req models.SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing email"})
		return
	}

	handle, err := dbos.RunWorkflow(h.dbosCtx, h.workflows.SyncUserWorkflow, workflows.SyncUserInput{
		Email:    req.Email,
		FullName: req.FullName,
	})
	if err != nil {
		h.logger.Error("failed to start SyncUser workflow", zap.String("requestID", RequestID(c)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	user, err := handle.GetResult()
	if err != nil {
		h.logger.Error("SyncUser workflow failed", zap.String("requestID", RequestID(c)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// HandleUpdate replaces the message list of one conversation, creating the
// title when it is new. The whole document is rewritten on every call.
func (h *UserHandler) HandleUpdate(c *gin.Context) {
	var req models.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Title == "" || req.Messages == nil || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing Value from Response"})
		return
	}

	if _, err := h.store.GetUser(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.logger.Error("failed to load user", zap.String("requestID", RequestID(c)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	handle, err := dbos.RunWorkflow(h.dbosCtx, h.workflows.UpsertChatWorkflow, workflows.UpsertChatInput{
		Email:    req.Email,
		Title:    req.Title,
		Messages: req.Messages,
	})
	if err != nil {
		h.logger.Error("failed to start UpsertChat workflow", zap.String("requestID", RequestID(c)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	user, err := handle.GetResult()
	if err != nil {
		h.logger.Error("UpsertChat workflow failed", zap.String("requestID", RequestID(c)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// HandleTitleUpdate renames a conversation. Renaming onto an existing
// title overwrites it silently.
func (h *UserHandler) HandleTitleUpdate(c *gin.Context) {
	var req models.TitleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Title == "" || req.NewTitle == "" || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing Value from Response"})
		return
	}

	user, err := h.store.GetUser(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.logger.Error("failed to load user", zap.String("requestID", RequestID(c)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	if _, ok := user.Chats[req.Title]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Old title not found in chats"})
		return
	}

	handle, err := dbos.RunWorkflow(h.dbosCtx, h.workflows.RenameChatWorkflow, workflows.RenameChatInput{
		Email:    req.Email,
		Title:    req.Title,
		NewTitle: req.NewTitle,
	})
	if err != nil {
		h.logger.Error("failed to start RenameChat workflow", zap.String("requestID", RequestID(c)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	updated, err := handle.GetResult()
	if err != nil {
		h.logger.Error("RenameChat workflow failed", zap.String("requestID", RequestID(c)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, models.StatusResponse{
		Success: true,
		Message: "Title renamed successfully",
		Data:    &updated,
	})
}

// HandleDelete removes a conversation from the user's chats document.
func (h *UserHandler) HandleDelete(c *gin.Context) {
	var req models.DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Title == "" || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing Value from Response"})
		return
	}

	user, err := h.store.GetUser(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.logger.Error("failed to load user", zap.String("requestID", RequestID(c)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	if _, ok := user.Chats[req.Title]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Title not found in chats"})
		return
	}

	handle, err := dbos.RunWorkflow(h.dbosCtx, h.workflows.DeleteChatWorkflow, workflows.DeleteChatInput{
		Email: req.Email,
		Title: req.Title,
	})
	if err != nil {
		h.logger.Error("failed to start DeleteChat workflow", zap.String("requestID", RequestID(c)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	updated, err := handle.GetResult()
	if err != nil {
		h.logger.Error("DeleteChat workflow failed", zap.String("requestID", RequestID(c)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, models.StatusResponse{
		Success: true,
		Message: "Title deleted successfully",
		Data:    &updated,
	})
}
