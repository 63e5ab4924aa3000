package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Response is a fully read HTTP response from the engine.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return nil
	}
	return json.Unmarshal(r.Body, v)
}

// Content returns the JSON body as a generic object.
// An empty body yields an empty map.
func (r *Response) Content() (map[string]any, error) {
	content := map[string]any{}
	if err := r.Decode(&content); err != nil {
		return nil, err
	}
	return content, nil
}

func newRequest(ctx context.Context, method string, base *url.URL, path string, args url.Values, body []byte) (*http.Request, error) {
	u := *base
	u.User = nil
	if path != "" {
		p, query, found := strings.Cut(path, "?")
		if found {
			u.RawQuery = query
		}
		unescaped, err := url.PathUnescape(p)
		if err != nil {
			return nil, fmt.Errorf("invalid request path %q: %w", p, err)
		}
		u.RawPath = u.EscapedPath() + p
		u.Path += unescaped
	}
	if len(args) > 0 {
		if u.RawQuery != "" {
			u.RawQuery += "&" + args.Encode()
		} else {
			u.RawQuery = args.Encode()
		}
	}

	var reader io.Reader
	if len(body) > 0 && string(body) != "null" {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if base.User != nil {
		password, _ := base.User.Password()
		req.SetBasicAuth(base.User.Username(), password)
	}
	return req, nil
}

func readResponse(resp *http.Response) (*Response, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Join(ErrTransport, err)
	}

	r := &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}
	if resp.StatusCode >= http.StatusBadRequest {
		if apiErr := parseAPIError(resp.StatusCode, body); apiErr != nil {
			return nil, apiErr
		}
	}
	return r, nil
}

func parseAPIError(status int, body []byte) *APIError {
	var payload struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Error) == 0 {
		return nil
	}

	apiErr := &APIError{StatusCode: status, Body: body}

	var reason string
	if err := json.Unmarshal(payload.Error, &reason); err == nil {
		apiErr.Reason = reason
		return apiErr
	}

	var detail struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal(payload.Error, &detail); err == nil {
		apiErr.Type = detail.Type
		apiErr.Reason = detail.Reason
	}
	return apiErr
}

// encodeBody marshals v to JSON. Empty maps produce no body at all.
func encodeBody(v map[string]any) ([]byte, error) {
	if len(v) == 0 {
		return nil, nil
	}
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return body, nil
}
