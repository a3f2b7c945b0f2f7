// Package catalog is the HTTP client for the remote catalog backend. It is a
// thin wrapper over net/http with a fixed base URL, a fixed request timeout,
// JSON by default and multipart for image uploads. It does not retry, queue,
// or cache; every call either returns a decoded body or a *domain.AppError
// classifying the failure.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mechashelf/admin/internal/domain"
)

// DefaultTimeout matches the backend's observed client configuration.
const DefaultTimeout = 10 * time.Second

// Client issues requests against the catalog backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// FileUpload is one image part of a multipart request. Content is passed
// through untouched; the backend owns validation of the image itself.
type FileUpload struct {
	Field    string
	Filename string
	Content  []byte
}

// NewClient creates a Client for the given base URL. A non-positive timeout
// falls back to DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Ping reports whether the backend is reachable. Any HTTP response counts,
// even an error status; only a transport-level failure is returned.
func (c *Client) Ping(ctx context.Context) error {
	err := c.Get(ctx, "/", nil, nil)
	if err != nil && domain.IsTransport(err) {
		return err
	}
	return nil
}

// Get issues a GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.send(ctx, http.MethodGet, path, query, "", nil, out)
}

// PostJSON issues a POST with a JSON body.
func (c *Client) PostJSON(ctx context.Context, path string, payload, out any) error {
	return c.sendJSON(ctx, http.MethodPost, path, payload, out)
}

// PatchJSON issues a PATCH with a partial JSON body.
func (c *Client) PatchJSON(ctx context.Context, path string, payload, out any) error {
	return c.sendJSON(ctx, http.MethodPatch, path, payload, out)
}

// PostMultipart issues a POST with a multipart form body. file may be nil.
func (c *Client) PostMultipart(ctx context.Context, path string, values map[string]string, file *FileUpload, out any) error {
	return c.sendMultipart(ctx, http.MethodPost, path, values, file, out)
}

// PatchMultipart issues a PATCH with a partial multipart form body. file may be nil.
func (c *Client) PatchMultipart(ctx context.Context, path string, values map[string]string, file *FileUpload, out any) error {
	return c.sendMultipart(ctx, http.MethodPatch, path, values, file, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return domain.NewAppError(domain.CodeInternal, "encode request body", err)
	}
	return c.send(ctx, method, path, nil, "application/json", bytes.NewReader(body), out)
}

func (c *Client) sendMultipart(ctx context.Context, method, path string, values map[string]string, file *FileUpload, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, value := range values {
		if err := w.WriteField(key, value); err != nil {
			return domain.NewAppError(domain.CodeInternal, "build multipart body", err)
		}
	}
	if file != nil {
		part, err := w.CreateFormFile(file.Field, file.Filename)
		if err != nil {
			return domain.NewAppError(domain.CodeInternal, "build multipart body", err)
		}
		if _, err := part.Write(file.Content); err != nil {
			return domain.NewAppError(domain.CodeInternal, "build multipart body", err)
		}
	}
	if err := w.Close(); err != nil {
		return domain.NewAppError(domain.CodeInternal, "build multipart body", err)
	}
	return c.send(ctx, method, path, nil, w.FormDataContentType(), &buf, out)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, contentType string, body io.Reader, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return domain.NewAppError(domain.CodeInternal, "build request", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return statusError(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.NewAppError(domain.CodeInternal, "decode response body", err)
	}
	return nil
}

// transportError classifies network-level failures: timeouts, DNS failures,
// connection resets. These never carry a remote status.
func transportError(err error) error {
	msg := "could not reach the catalog backend"
	var ue *url.Error
	if errors.As(err, &ue) && ue.Timeout() {
		msg = "request to the catalog backend timed out"
	}
	return domain.NewAppError(domain.CodeTransport, msg, err)
}

// statusError maps a non-2xx response to the error taxonomy: 404 is
// not-found, other 4xx carry the backend's field-keyed validation body,
// 5xx are backend faults.
func statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &domain.AppError{
			Code:    domain.CodeNotFound,
			Message: "not found",
			Status:  resp.StatusCode,
		}
	case resp.StatusCode >= 500:
		return &domain.AppError{
			Code:    domain.CodeRemoteFault,
			Message: "catalog backend error",
			Status:  resp.StatusCode,
			Err:     fmt.Errorf("status %d", resp.StatusCode),
		}
	default:
		appErr := &domain.AppError{
			Code:    domain.CodeRemoteValidation,
			Message: "the catalog backend rejected the request",
			Status:  resp.StatusCode,
		}
		if fields := parseFieldErrors(raw); len(fields) > 0 {
			appErr.Fields = fields
		}
		return appErr
	}
}

// parseFieldErrors decodes a field-keyed error body. The backend returns
// either {"field": ["msg", ...]} or {"field": "msg"}; both are normalized to
// string slices. Anything undecodable yields nil.
func parseFieldErrors(raw []byte) map[string][]string {
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil
	}
	fields := make(map[string][]string, len(payload))
	for key, value := range payload {
		switch v := value.(type) {
		case string:
			fields[key] = []string{v}
		case []any:
			msgs := make([]string, 0, len(v))
			for _, item := range v {
				if s, ok := item.(string); ok {
					msgs = append(msgs, s)
				}
			}
			if len(msgs) > 0 {
				fields[key] = msgs
			}
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
