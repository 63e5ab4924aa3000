package opensearch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// updatableSettings lists the dotted index settings that may be changed on a live index.
var updatableSettings = []string{
	"index.number_of_replicas",
	"index.auto_expand_replicas",
	"index.blocks.read_only",
	"index.blocks.read",
	"index.blocks.write",
	"index.blocks.metadata",
	"index.refresh_interval",
	"index.index_concurrency",
	"index.codec",
	"index.codec.bloom.load",
	"index.fail_on_merge_failure",
	"index.translog.flush_threshold_ops",
	"index.translog.flush_threshold_size",
	"index.translog.flush_threshold_period",
	"index.translog.disable_flush",
	"index.cache.filter.max_size",
	"index.cache.filter.expire",
	"index.gateway.snapshot_interval",
	"index.routing.allocation.include",
	"index.routing.allocation.exclude",
	"index.routing.allocation.require",
	"index.routing.allocation.disable_allocation",
	"index.routing.allocation.disable_new_allocation",
	"index.routing.allocation.disable_replica_allocation",
	"index.routing.allocation.enable",
	"index.routing.allocation.total_shards_per_node",
	"index.recovery.initial_shards",
	"index.gc_deletes",
	"index.ttl.disable_purge",
	"index.translog.fs.type",
	"index.compound_format",
	"index.compound_on_flush",
	"index.warmer.enabled",
}

// indexCreateKeys are the only top-level configuration keys sent on index creation.
var indexCreateKeys = []string{"settings", "aliases", "mappings"}

// Index is a named index of the search engine.
type Index struct {
	name        string
	settingsKey string
	client      *Client
}

// NewIndex validates name and creates an Index. The client may be nil and
// attached later with SetClient.
func NewIndex(name string, client *Client) (*Index, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.HasPrefix(name, "_") {
		return nil, errors.Join(ErrInvalidIndexName,
			fmt.Errorf("the index name %q must not be empty and not start with an underscore", name))
	}
	if name != strings.ToLower(name) {
		return nil, errors.Join(ErrInvalidIndexName,
			fmt.Errorf("the index name %q must be all lowercase", name))
	}
	return &Index{name: name, settingsKey: name, client: client}, nil
}

// Name returns the effective name: "prefix-name" when a prefix is configured.
func (i *Index) Name() string {
	prefix := i.Configuration().Prefix()
	if prefix == "" {
		return i.name
	}
	return prefix + "-" + i.name
}

// OriginalName returns the name the index was created with.
func (i *Index) OriginalName() string { return i.name }

// Client returns the owning client, possibly nil.
func (i *Index) Client() *Client { return i.client }

// SetClient attaches the owning client.
func (i *Index) SetClient(c *Client) { i.client = c }

// SetSettingsKey makes the index read its configuration under another key.
func (i *Index) SetSettingsKey(key string) { i.settingsKey = key }

// Configuration returns the configuration block of this index in the client's
// bundle. Without a client there is no configuration.
func (i *Index) Configuration() IndexConfiguration {
	if i.client == nil {
		return nil
	}
	return i.client.IndexConfiguration(i.settingsKey)
}

// FindType returns the document type endpoint typeName of this index.
func (i *Index) FindType(typeName string) *Type {
	return NewType(i, typeName)
}

// RequestOption alters how Index.Request builds the path.
type RequestOption func(*requestOptions)

type requestOptions struct {
	noPrefix bool
}

// WithoutIndexPrefix sends the path as is, without "/{index}/" in front.
func WithoutIndexPrefix() RequestOption {
	return func(o *requestOptions) { o.noPrefix = true }
}

// Request sends a request below "/{name}/" through the owning client.
func (i *Index) Request(ctx context.Context, method, path string, args url.Values, body []byte, opts ...RequestOption) (*Response, error) {
	var o requestOptions
	for _, opt := range opts {
		opt(&o)
	}

	if i.client == nil {
		return nil, fmt.Errorf("%w: %q, hence no requests can be done", ErrIndexWithoutClient, i.Name())
	}

	path = strings.TrimLeft(strings.TrimSpace(path), "/")
	if o.noPrefix {
		path = "/" + path
	} else {
		path = "/" + i.Name() + "/" + path
	}
	return i.client.Request(ctx, method, path, args, body)
}

// Exists reports whether the index exists on the server.
func (i *Index) Exists(ctx context.Context) (bool, error) {
	resp, err := i.Request(ctx, http.MethodHead, "", nil, nil)
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return resp.StatusCode == http.StatusOK, nil
}

// Create creates the index with the settings, aliases and mappings of its
// configuration. Other configuration keys are never sent.
func (i *Index) Create(ctx context.Context) error {
	configuration := i.Configuration()
	create := make(map[string]any, len(indexCreateKeys))
	for _, key := range indexCreateKeys {
		if v, ok := configuration[key]; ok {
			create[key] = v
		}
	}

	body, err := encodeBody(create)
	if err != nil {
		return err
	}
	_, err = i.Request(ctx, http.MethodPut, "", nil, body)
	return err
}

// UpdateSettings sends the configured settings that may be changed on a live
// index. Nothing is sent when none of them is configured.
func (i *Index) UpdateSettings(ctx context.Context) error {
	settings := i.Configuration().Settings()
	var update map[string]any
	for _, settingPath := range updatableSettings {
		segments := splitPath(settingPath)
		if v, ok := valueByPath(settings, segments); ok && v != nil {
			update = setValueByPath(update, segments, v)
		}
	}
	if len(update) == 0 {
		return nil
	}

	body, err := encodeBody(update)
	if err != nil {
		return err
	}
	_, err = i.Request(ctx, http.MethodPut, "/_settings", nil, body)
	return err
}

// Delete deletes the index.
func (i *Index) Delete(ctx context.Context) (*Response, error) {
	return i.Request(ctx, http.MethodDelete, "", nil, nil)
}

// Refresh makes recent changes of the index searchable.
func (i *Index) Refresh(ctx context.Context) (*Response, error) {
	return i.Request(ctx, http.MethodPost, "/_refresh", nil, nil)
}
