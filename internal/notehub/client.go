package notehub

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/notehub/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "notehub-tui/1.0"
)

// Client implements domain.NoteRepository over the NoteHub HTTP API
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new NoteHub API client
func NewClient(baseURL, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// SetTimeout overrides the per-request HTTP timeout
func (c *Client) SetTimeout(d time.Duration) {
	if d > 0 {
		c.httpClient.Timeout = d
	}
}

// SetToken replaces the bearer token sent with each request
func (c *Client) SetToken(token string) {
	c.token = token
}

// doRequest performs an authenticated request and decodes a JSON response into out.
// out may be nil when the body is not needed.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body, out any) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL = reqURL + "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debug("notehub request", "method", method, "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("notehub request failed", "method", method, "url", reqURL, "error", err)
		return fmt.Errorf("%w: %v", domain.ErrServerOffline, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := newAPIError(resp.StatusCode, data)
		c.logger.Error("notehub request error", "method", method, "url", reqURL, "status", resp.StatusCode, "message", apiErr.Message)
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		c.logger.Error("JSON parse error", "error", err, "bodyLen", len(data))
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// FetchNotes returns one page of notes. The search parameter is omitted when empty.
func (c *Client) FetchNotes(ctx context.Context, page, perPage int, search string) (domain.NotesPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("perPage", strconv.Itoa(perPage))
	if search != "" {
		query.Set("search", search)
	}

	var resp notesResponse
	if err := c.doRequest(ctx, http.MethodGet, "/notes", query, nil, &resp); err != nil {
		return domain.NotesPage{}, err
	}
	return resp.toDomain(), nil
}

// CreateNote posts a new note
func (c *Client) CreateNote(ctx context.Context, note domain.NewNote) (domain.Note, error) {
	var created domain.Note
	if err := c.doRequest(ctx, http.MethodPost, "/notes", nil, note, &created); err != nil {
		return domain.Note{}, err
	}
	return created, nil
}

// DeleteNote removes a note by ID
func (c *Client) DeleteNote(ctx context.Context, id int) (domain.Note, error) {
	var deleted domain.Note
	path := fmt.Sprintf("/notes/%d", id)
	if err := c.doRequest(ctx, http.MethodDelete, path, nil, nil, &deleted); err != nil {
		return domain.Note{}, err
	}
	return deleted, nil
}

// APIError is returned for any non-2xx response
type APIError struct {
	StatusCode int
	Message    string
}

func newAPIError(status int, body []byte) *APIError {
	var payload errorResponse
	msg := ""
	if json.Unmarshal(body, &payload) == nil {
		msg = payload.Message
	}
	return &APIError{StatusCode: status, Message: msg}
}

// Error keeps the status code in the text; callers match on it.
func (e *APIError) Error() string {
	s := fmt.Sprintf("request failed with status code %d", e.StatusCode)
	if e.Message != "" {
		s += ": " + e.Message
	}
	return s
}

// Unwrap maps well-known statuses onto domain sentinels
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusNotFound:
		return domain.ErrNoteNotFound
	}
	return nil
}

// StatusCode extracts the HTTP status from err, or 0 if err is not an APIError
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
