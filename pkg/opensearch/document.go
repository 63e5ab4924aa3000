package opensearch

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
)

// Document is one indexed record. A fresh document is dirty; it becomes
// clean after a successful Store or when loaded from the server, and dirty
// again on any change of its data.
type Document struct {
	typ     *Type
	data    map[string]any
	id      string
	version int64
	dirty   bool
}

// DocumentOption configures a Document.
type DocumentOption func(*Document)

// WithID sets a client-chosen document id. Store then uses PUT.
func WithID(id string) DocumentOption {
	return func(d *Document) { d.id = id }
}

// WithVersion sets the known server version of the document.
func WithVersion(version int64) DocumentOption {
	return func(d *Document) { d.version = version }
}

// NewDocument creates a document of type t holding data.
func NewDocument(t *Type, data map[string]any, opts ...DocumentOption) *Document {
	d := &Document{typ: t, data: data, dirty: true}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Clone returns an unsaved copy: no id, no version, dirty.
func (d *Document) Clone() *Document {
	return &Document{
		typ:   d.typ,
		data:  maps.Clone(d.data),
		dirty: true,
	}
}

// Store writes the document. With an id it is PUT to /_doc/{id}, otherwise
// POSTed to /_doc/ and the server-assigned id is kept.
func (d *Document) Store(ctx context.Context) error {
	method, path := http.MethodPost, "/_doc/"
	if d.id != "" {
		method, path = http.MethodPut, documentPath(d.id)
	}

	body, err := json.Marshal(d.Data())
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	resp, err := d.typ.Request(ctx, method, path, nil, body)
	if err != nil {
		return err
	}

	var result struct {
		ID      string `json:"_id"`
		Version int64  `json:"_version"`
	}
	if err := resp.Decode(&result); err != nil {
		return fmt.Errorf("decode store response: %w", err)
	}

	d.id = result.ID
	d.version = result.Version
	d.dirty = false
	return nil
}

// ID returns the document id, empty for a document never stored.
func (d *Document) ID() string { return d.id }

// Version returns the server version, 0 for a document never stored.
func (d *Document) Version() int64 { return d.version }

// IsDirty reports whether the document has unsaved local changes.
func (d *Document) IsDirty() bool { return d.dirty }

// Type returns the owning type.
func (d *Document) Type() *Type { return d.typ }

// Data returns a copy of the document contents, stamped with the type
// discriminator. Use SetData or SetField to change the document.
func (d *Document) Data() map[string]any {
	data := maps.Clone(d.data)
	if data == nil {
		data = map[string]any{}
	}
	data[TypeField] = d.typ.Name()
	return data
}

// SetData replaces the document contents and marks it dirty.
func (d *Document) SetData(data map[string]any) {
	d.data = data
	d.dirty = true
}

// SetField sets a single field value and marks the document dirty.
func (d *Document) SetField(name string, value any) {
	if d.data == nil {
		d.data = map[string]any{}
	}
	d.data[name] = value
	d.dirty = true
}

// Field returns a single field value or ErrFieldNotPresent.
func (d *Document) Field(name string) (any, error) {
	v, ok := d.LookupField(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s in %s/%s", ErrFieldNotPresent, name, d.typ.Index().Name(), d.typ.Name())
	}
	return v, nil
}

// LookupField returns a single field value and whether it is present.
func (d *Document) LookupField(name string) (any, bool) {
	v, ok := d.data[name]
	return v, ok
}
