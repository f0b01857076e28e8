package genai

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"reviewqr-backend/internal/config"
	"reviewqr-backend/internal/models"
	"reviewqr-backend/internal/storage"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrNotConfigured is returned when no generation API key is present; the
// rest of the service keeps working without it.
var ErrNotConfigured = errors.New("generation API key not configured")

// Nominal per-call costs recorded in usage logs.
var (
	textCost  = decimal.NewFromFloat(0.002)
	imageCost = decimal.NewFromFloat(0.040)
)

const reviewSystemPrompt = "You write short, warm, first-person customer review text for local businesses. Keep it under 60 words and never mention being an AI."

// Client wraps an OpenAI-compatible endpoint. Generated image URLs from the
// vendor expire, so images are re-uploaded to the media bucket immediately.
type Client struct {
	Config *config.Config
	DB     *gorm.DB
	Media  *storage.Store
}

func NewClient(cfg *config.Config, db *gorm.DB, media *storage.Store) *Client {
	return &Client{Config: cfg, DB: db, Media: media}
}

func (c *Client) sendRequest(path string, body interface{}) ([]byte, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest("POST", c.Config.GenBaseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.Config.GenAPIKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return respBody, fmt.Errorf("API error: %s - %s", resp.Status, string(respBody))
	}

	return respBody, nil
}

// logUsage records the call best-effort; logging failures are swallowed.
func (c *Client) logUsage(kind, action, input string, cost decimal.Decimal) {
	go func() {
		entry := models.UsageLog{Kind: kind, Action: action, Input: input, Cost: cost}
		if err := c.DB.Create(&entry).Error; err != nil {
			log.Printf("usage log failed: %v", err)
		}
	}()
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// GenerateText posts the fixed system prompt plus the caller's content to the
// chat completion endpoint and returns trimmed assistant text.
func (c *Client) GenerateText(action, content string) (string, error) {
	if c.Config.GenAPIKey == "" {
		return "", ErrNotConfigured
	}

	req := chatRequest{
		Model: "gpt-4o-mini",
		Messages: []chatMessage{
			{Role: "system", Content: reviewSystemPrompt},
			{Role: "user", Content: content},
		},
	}

	respBody, err := c.sendRequest("/chat/completions", req)
	if err != nil {
		return "", err
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("empty completion response")
	}

	c.logUsage("text", action, content, textCost)
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

type imageRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size"`
}

type imageResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

// GenerateImage requests one image and immediately re-hosts it in the media
// bucket, because the vendor URL is time-limited. If the re-upload fails the
// expiring vendor URL is returned as a fallback.
func (c *Client) GenerateImage(action, prompt string) (string, error) {
	if c.Config.GenAPIKey == "" {
		return "", ErrNotConfigured
	}

	req := imageRequest{Model: "dall-e-3", Prompt: prompt, N: 1, Size: "1024x1024"}
	respBody, err := c.sendRequest("/images/generations", req)
	if err != nil {
		return "", err
	}

	var parsed imageResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Data) == 0 || parsed.Data[0].URL == "" {
		return "", errors.New("empty image response")
	}
	vendorURL := parsed.Data[0].URL

	c.logUsage("image", action, prompt, imageCost)

	permanent, err := c.rehost(vendorURL)
	if err != nil {
		log.Printf("image re-upload failed, falling back to vendor URL: %v", err)
		return vendorURL, nil
	}
	return permanent, nil
}

func (c *Client) rehost(url string) (string, error) {
	resp, err := http.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("fetch image: %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return c.Media.Save(data, "generated.png")
}
