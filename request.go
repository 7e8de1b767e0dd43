package plurk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	// Packages
	client "github.com/mutablelogic/go-client"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Call makes a signed request to an API path, for example
// "/APP/Profile/getOwnProfile". Parameters are sent as query values.
// When files is non-empty a multipart body is sent instead, with one
// part per file and one part per parameter. The decoded JSON payload is
// returned; any non-2xx response or transport failure is returned as an
// error carrying the HTTP status and error body
func (c *Client) Call(ctx context.Context, path string, params url.Values, files map[string]string) (json.RawMessage, error) {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil, ErrBadParameter.With("missing path")
	}
	if len(files) > 0 {
		return c.callMultipart(ctx, path, params, files)
	}

	// OptPath takes one value per path segment
	segments := strings.Split(path, "/")
	parts := make([]any, len(segments))
	for i, segment := range segments {
		parts[i] = segment
	}

	// Request -> Response
	var response json.RawMessage
	opts := []client.RequestOpt{client.OptPath(parts...)}
	if len(params) > 0 {
		opts = append(opts, client.OptQuery(params))
	}
	if err := c.DoWithContext(ctx, nil, &response, opts...); err != nil {
		return nil, err
	}

	// Return success
	return response, nil
}

// ErrStatus returns the HTTP status code carried by an error from a
// call, or zero when the error carries no status
func ErrStatus(err error) int {
	var status httpresponse.Err
	if errors.As(err, &status) {
		return int(status)
	}
	return 0
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// callMultipart posts a multipart body with one part per file and one
// part per parameter, signed through the OAuth1 transport
func (c *Client) callMultipart(ctx context.Context, path string, params url.Values, files map[string]string) (json.RawMessage, error) {
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	for field, filename := range files {
		if err := writeFilePart(writer, field, filename); err != nil {
			return nil, err
		}
	}
	for field := range params {
		if err := writer.WriteField(field, params.Get(field)); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	// Build the request. File upload endpoints ignore query parameters,
	// so everything travels in the multipart body
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/"+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", client.ContentTypeJson)

	// Use the underlying signing client directly
	resp, err := c.Client.Client.Do(req)
	if err != nil {
		return nil, ErrTransport.With(err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ErrTransport.With(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apiError(resp.StatusCode, payload)
	}

	// Return success
	return json.RawMessage(payload), nil
}

// writeFilePart streams one file into the multipart body
func writeFilePart(writer *multipart.Writer, field, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	part, err := writer.CreateFormFile(field, filepath.Base(filename))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, file); err != nil {
		return err
	}
	return nil
}

// apiError turns a non-2xx response into an error carrying the status
// and the error body. Plurk reports errors as {"error_text": "..."}
func apiError(status int, body []byte) error {
	var payload struct {
		ErrorText string `json:"error_text"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.ErrorText != "" {
		return httpresponse.Err(status).With(payload.ErrorText)
	}
	return httpresponse.Err(status).With(string(body))
}
