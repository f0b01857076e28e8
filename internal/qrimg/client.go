package qrimg

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Client fetches PNG QR codes from the public render service so browsers
// never talk to the third party directly.
type Client struct {
	ServiceURL string
}

func NewClient(serviceURL string) *Client {
	return &Client{ServiceURL: serviceURL}
}

// Render returns the PNG bytes for a QR code encoding payload.
func (c *Client) Render(payload string, size int) ([]byte, error) {
	if size <= 0 {
		size = 300
	}

	u := fmt.Sprintf("%s?size=%dx%d&data=%s",
		strings.TrimRight(c.ServiceURL, "?"), size, size, url.QueryEscape(payload))

	resp, err := http.Get(u)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("QR service error: %s", resp.Status)
	}

	return io.ReadAll(resp.Body)
}
