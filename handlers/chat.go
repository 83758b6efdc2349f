package handlers

import (
	"net/http"

	"gemini-chat/models"
	"gemini-chat/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Chat modes accepted by POST /chat.
const (
	TypeNone         = "none"
	TypeReason       = "reason"
	TypeDeepResearch = "deep_research"
	TypeCreateImage  = "create_image"
)

// ChatHandler handles the chat endpoints backed by Gemini
type ChatHandler struct {
	gemini *services.GeminiService
	logger *zap.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(gemini *services.GeminiService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		gemini: gemini,
		logger: logger,
	}
}

// HandleChat dispatches a prompt to one of the four chat modes and
// returns the normalized {reply, thoughts, image} envelope.
func (h *ChatHandler) HandleChat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var (
		model = services.ModelFlash
		cfg   *services.GenerationConfig
	)
	switch req.Type {
	case "", TypeNone:
		// fast model, plain generation
	case TypeReason:
		model = services.ModelReasoning
	case TypeDeepResearch:
		model = services.ModelReasoning
		cfg = &services.GenerationConfig{
			ThinkingConfig: &services.ThinkingConfig{IncludeThoughts: true},
		}
	case TypeCreateImage:
		model = services.ModelImageGen
		cfg = &services.GenerationConfig{
			ResponseModalities: []string{"Text", "Image"},
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request type"})
		return
	}

	result, err := h.gemini.GenerateContent(c.Request.Context(), model,
		[]services.Part{services.TextPart(req.Message)}, cfg)
	if err != nil {
		h.logger.Error("Gemini call failed",
			zap.String("type", req.Type),
			zap.String("model", model),
			zap.String("requestID", RequestID(c)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch Gemini response.",
			"details": err.Error(),
		})
		return
	}

	switch req.Type {
	case TypeDeepResearch:
		thoughts, reply := services.SplitThoughts(result)
		c.JSON(http.StatusOK, models.ChatResponse{Thoughts: thoughts, Reply: reply})
	case TypeCreateImage:
		reply, image, err := services.FormatImage(result)
		if err != nil {
			h.logger.Error("image generation returned no usable content",
				zap.String("requestID", RequestID(c)),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, models.ChatResponse{Reply: reply, Image: image})
	default:
		c.JSON(http.StatusOK, models.ChatResponse{Reply: services.JoinText(result)})
	}
}

// HandleImageUpload captions a user-supplied image. This path never
// returns an image of its own.
func (h *ChatHandler) HandleImageUpload(c *gin.Context) {
	var req models.ImageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.ImageBase64 == "" || req.MimeType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing image data or MIME type"})
		return
	}

	parts := []services.Part{
		services.InlinePart(req.MimeType, req.ImageBase64),
		services.TextPart(req.Message),
	}

	result, err := h.gemini.GenerateContent(c.Request.Context(), services.ModelFlash, parts, nil)
	if err != nil {
		h.logger.Error("image captioning failed",
			zap.String("mimeType", req.MimeType),
			zap.String("requestID", RequestID(c)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate image caption"})
		return
	}

	c.JSON(http.StatusOK, models.ChatResponse{Reply: services.JoinText(result)})
}
