package opensearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Type is a document-type endpoint within an index. The name is stored in
// every document under TypeField and namespaces documents sharing an index.
type Type struct {
	index     *Index
	name      string
	documents DocumentFactory
}

// NewType creates the type name on index.
func NewType(index *Index, name string) *Type {
	return &Type{index: index, name: name}
}

// Name returns the type name.
func (t *Type) Name() string { return t.name }

// Index returns the owning index.
func (t *Type) Index() *Index { return t.index }

// Request delegates to the owning index.
func (t *Type) Request(ctx context.Context, method, path string, args url.Values, body []byte) (*Response, error) {
	return t.index.Request(ctx, method, path, args, body)
}

// FindDocumentByID loads a document. It returns nil without error when the
// server does not answer with 200.
func (t *Type) FindDocumentByID(ctx context.Context, id string) (*Document, error) {
	resp, err := t.Request(ctx, http.MethodGet, documentPath(id), nil, nil)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}
	return t.documents.CreateFromResponse(t, id, resp)
}

// DeleteDocumentByID deletes a document and reports whether the server
// confirmed the deletion.
func (t *Type) DeleteDocumentByID(ctx context.Context, id string) (bool, error) {
	resp, err := t.Request(ctx, http.MethodDelete, documentPath(id), nil, nil)
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, err
	}

	var result struct {
		Result string `json:"result"`
	}
	if err := resp.Decode(&result); err != nil {
		return false, fmt.Errorf("decode delete response: %w", err)
	}
	return resp.StatusCode == http.StatusOK && result.Result == "deleted", nil
}

// Count returns the number of documents in the index. ok is false when the
// server could not provide a count.
func (t *Type) Count(ctx context.Context) (count int64, ok bool, err error) {
	resp, err := t.Request(ctx, http.MethodGet, "/_count", nil, nil)
	if err != nil {
		if IsNotFound(err) {
			return 0, false, nil
		}
		return 0, false, err
	}
	if resp.StatusCode != http.StatusOK {
		return 0, false, nil
	}

	var result struct {
		Count int64 `json:"count"`
	}
	if err := resp.Decode(&result); err != nil {
		return 0, false, fmt.Errorf("decode count response: %w", err)
	}
	return result.Count, true, nil
}

// Search runs query against the index and returns the raw response.
func (t *Type) Search(ctx context.Context, query any) (*Response, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("encode search query: %w", err)
	}
	return t.Request(ctx, http.MethodGet, "/_search", nil, body)
}

func documentPath(id string) string {
	return "/_doc/" + url.PathEscape(id)
}
