package opensearch

import (
	"fmt"
)

// DocumentFactory reconstitutes documents from engine responses.
type DocumentFactory struct{}

// CreateFromResponse builds a clean Document from a GET /_doc/{id} response.
// Index name, type discriminator and id are checked against t and id; all
// disagreements are reported together in a *DocumentMismatchError.
func (DocumentFactory) CreateFromResponse(t *Type, id string, resp *Response) (*Document, error) {
	var payload struct {
		Index   *string        `json:"_index"`
		ID      *string        `json:"_id"`
		Version int64          `json:"_version"`
		Source  map[string]any `json:"_source"`
	}
	if err := resp.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode document response: %w", err)
	}

	var mismatches []Mismatch
	if payload.Index != nil && *payload.Index != t.Index().Name() {
		mismatches = append(mismatches, Mismatch{
			Property: "index name",
			Expected: t.Index().Name(),
			Received: *payload.Index,
		})
	}
	if received, _ := payload.Source[TypeField].(string); received != t.Name() {
		mismatches = append(mismatches, Mismatch{
			Property: "type name",
			Expected: t.Name(),
			Received: received,
		})
	}
	if payload.ID != nil && id != "" && *payload.ID != id {
		mismatches = append(mismatches, Mismatch{
			Property: "id",
			Expected: id,
			Received: *payload.ID,
		})
	}
	if len(mismatches) > 0 {
		return nil, &DocumentMismatchError{Mismatches: mismatches}
	}

	doc := NewDocument(t, payload.Source, WithID(id), WithVersion(payload.Version))
	doc.dirty = false
	return doc, nil
}
