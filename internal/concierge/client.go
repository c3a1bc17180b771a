// Package concierge connects the portal to the Concierge Service: a question
// and answer endpoint plus policy document ingestion.
package concierge

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/oasis-hotel/portal/internal/backend"
	apperrors "github.com/oasis-hotel/portal/pkg/util/errorutil"
)

// ServiceName labels errors raised by the concierge client.
const ServiceName = "concierge"

// UploadField is the multipart field the ingestion endpoint reads.
const UploadField = "pdf"

const (
	askPath    = "/api/rag/ask"
	ingestPath = "/api/rag/ingest"
)

// Client calls the Concierge Service.
type Client struct {
	http *backend.Client
}

// NewClient wraps an HTTP client bound to the Concierge Service base URL.
func NewClient(transport *backend.Client) *Client {
	return &Client{http: transport}
}

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Answer string `json:"answer"`
	Data   *struct {
		Answer string `json:"answer"`
	} `json:"data,omitempty"`
}

// Ask sends a free-text question and returns the answer.
func (c *Client) Ask(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", apperrors.NewValidationError("question is required", nil)
	}
	var resp askResponse
	if err := c.http.PostJSON(ctx, askPath, askRequest{Question: question}, &resp); err != nil {
		return "", err
	}
	answer := resp.Answer
	if answer == "" && resp.Data != nil {
		answer = resp.Data.Answer
	}
	if answer == "" {
		return "", apperrors.NewBackendError(ServiceName, http.StatusOK, "empty answer")
	}
	return answer, nil
}

// IngestResult is the acknowledgment of a policy upload.
type IngestResult struct {
	Message string `json:"message"`
	File    string `json:"file"`
}

// Ingest uploads a policy PDF for the concierge to learn from.
func (c *Client) Ingest(ctx context.Context, filename string, document io.Reader) (IngestResult, error) {
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return IngestResult{}, apperrors.NewValidationError("only PDF documents can be ingested", map[string]any{"file": filename})
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile(UploadField, filepath.Base(filename))
	if err != nil {
		return IngestResult{}, apperrors.NewInternalError(err)
	}
	if _, err := io.Copy(part, document); err != nil {
		return IngestResult{}, apperrors.NewInternalError(err)
	}
	if err := form.Close(); err != nil {
		return IngestResult{}, apperrors.NewInternalError(err)
	}

	var result IngestResult
	if err := c.http.Do(ctx, http.MethodPost, ingestPath, form.FormDataContentType(), &body, &result); err != nil {
		return IngestResult{}, err
	}
	if result.File == "" {
		result.File = filepath.Base(filename)
	}
	return result, nil
}
