package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aid-linh-pnp/test-question/internal/logger"
)

// Client pushes result files to a GitHub repository through the contents API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	owner      string
	repo       string
	token      string
	log        *logger.Logger
}

// New creates a client for the given repository. The token needs contents
// write access.
func New(owner, repo, token string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    "https://api.github.com",
		owner:      owner,
		repo:       repo,
		token:      token,
		log:        logger.Default().WithPrefix("github"),
	}
}

// WithBaseURL points the client at a different API host. Used in tests.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = url
	return c
}

// Configured reports whether the client has a target repository and token.
func (c *Client) Configured() bool {
	return c.owner != "" && c.repo != "" && c.token != ""
}

type putContentsRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
}

// PushFile creates path in the repository with the given content. Existing
// files are not overwritten; the API answers 422 for a path that already has
// content, which callers treat as already-pushed.
func (c *Client) PushFile(ctx context.Context, path, message string, content []byte) error {
	log := logger.FromContext(ctx).WithPrefix("github").WithField("path", path)
	url := fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.baseURL, c.owner, c.repo, path)

	body, err := json.Marshal(putContentsRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(content),
	})
	if err != nil {
		return err
	}

	log.Debug("pushing file to %s/%s", c.owner, c.repo)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		log.Error("failed to create request: %v", err)
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("failed to push file: %v", err)
		return err
	}
	defer resp.Body.Close()

	log.Debug("contents response received in %v, status=%d", time.Since(start), resp.StatusCode)

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		log.Info("pushed %s", path)
		return nil
	case http.StatusUnprocessableEntity:
		log.Warn("file already exists, treating as pushed: %s", path)
		return nil
	default:
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error("contents request failed: status=%d, body=%s", resp.StatusCode, string(respBody))
		return fmt.Errorf("contents status %d: %s", resp.StatusCode, string(respBody))
	}
}
