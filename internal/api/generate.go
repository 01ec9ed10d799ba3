package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	http "github.com/bogdanfinn/fhttp"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/promptdeck/internal/errors"
	"github.com/diogo/promptdeck/internal/models"
)

const (
	maxErrorBody    = 4096
	maxResponseBody = 1 << 20
)

// promptRequest is the JSON body sent to every prompt route
type promptRequest struct {
	Prompt string `json:"prompt"`
}

// Converse sends a prompt to the conversation route and returns the reply text
func (c *Client) Converse(ctx context.Context, prompt string) (string, error) {
	return c.postPrompt(ctx, c.conversationPath, prompt, models.FieldConversationOutput)
}

// GenerateMusic sends a prompt to the music route and returns the audio URL
func (c *Client) GenerateMusic(ctx context.Context, prompt string) (string, error) {
	return c.postPrompt(ctx, c.musicPath, prompt, models.FieldMusicAudio)
}

// postPrompt performs one POST {prompt} request and extracts field from the body.
// A 2xx body without a non-empty field is reported as a no-content error.
func (c *Client) postPrompt(ctx context.Context, path, prompt, field string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", apierrors.ErrEmptyPrompt
	}

	if c.IsClosed() {
		return "", apierrors.ErrClientClosed
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if err := c.wait(ctx, path); err != nil {
		return "", err
	}

	payload, err := json.Marshal(promptRequest{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("failed to build payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpointURL(path), bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}
	requestID := RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.Header.Set(models.HeaderRequestID, requestID)

	slog.Debug("submitting prompt", "endpoint", path, "request_id", requestID, "prompt_len", len(prompt))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(ctxErr, context.DeadlineExceeded) {
			return "", apierrors.NewTimeoutError(path)
		}
		return "", apierrors.NewNetworkError(path, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", apierrors.NewAPIErrorWithBody(resp.StatusCode, path, "request rejected", strings.TrimSpace(string(errorBody)))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return "", apierrors.NewNetworkError(path, fmt.Errorf("failed to read response: %w", err))
	}

	return extractField(body, path, field)
}

// extractField returns the string value of field in a JSON body
func extractField(body []byte, endpoint, field string) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", apierrors.NewNoContentError(endpoint, field)
	}

	value := gjson.GetBytes(body, field)
	if !value.Exists() || value.Type != gjson.String || value.String() == "" {
		return "", apierrors.NewNoContentError(endpoint, field)
	}

	return value.String(), nil
}

type requestIDKey struct{}

// WithRequestID attaches a request ID that postPrompt sends instead of a fresh one
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request ID attached with WithRequestID
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
