package api

import (
	"errors"
	"io"
	"net/http"

	"reviewqr-backend/internal/genai"
	"reviewqr-backend/internal/storage"

	"github.com/gin-gonic/gin"
)

type GenerateHandler struct {
	Client *genai.Client
	Media  *storage.Store
}

func NewGenerateHandler(client *genai.Client, media *storage.Store) *GenerateHandler {
	return &GenerateHandler{Client: client, Media: media}
}

type generateRequest struct {
	Action  string `json:"action"`
	Content string `json:"content" binding:"required"`
}

func (h *GenerateHandler) Text(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	text, err := h.Client.GenerateText(req.Action, req.Content)
	if err != nil {
		if errors.Is(err, genai.ErrNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Text generation is not configured"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Generation failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"text": text})
}

func (h *GenerateHandler) Image(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	url, err := h.Client.GenerateImage(req.Action, req.Content)
	if err != nil {
		if errors.Is(err, genai.ErrNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Image generation is not configured"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Generation failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// UploadMedia stores a logo or other asset in the media bucket and returns
// its public URL.
func (h *GenerateHandler) UploadMedia(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
		return
	}

	url, err := h.Media.Save(data, header.Filename)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store upload"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": url})
}
