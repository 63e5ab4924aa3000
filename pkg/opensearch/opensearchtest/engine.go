// Package opensearchtest provides an in-memory stand-in for an OpenSearch
// node. Engine implements the opensearch.Transport interface, so clients can
// be wired to it without any network.
//
// It understands the subset of the REST API used by searchkit: index
// create/exists/delete/refresh/settings/mapping, document CRUD, _count,
// _search with match_all, term and bool queries, and the cluster-wide _mapping.
package opensearchtest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Request is a request as received by the Engine.
type Request struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     []byte
}

type storedDocument struct {
	source  map[string]any
	version int64
}

type index struct {
	settings  map[string]any
	mappings  map[string]any
	aliases   map[string]any
	documents map[string]*storedDocument
	order     []string
}

// Engine is an in-memory OpenSearch node. It is safe for concurrent use.
type Engine struct {
	mu       sync.Mutex
	indexes  map[string]*index
	requests []Request
	seq      int
	failWith error
}

// NewEngine returns an empty engine.
func NewEngine() *Engine {
	return &Engine{indexes: make(map[string]*index)}
}

// FailWith makes every following Perform call fail with err. Pass nil to reset.
func (e *Engine) FailWith(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failWith = err
}

// Requests returns a copy of all requests received so far.
func (e *Engine) Requests() []Request {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Request(nil), e.requests...)
}

// LastRequest returns the most recent request, or a zero Request.
func (e *Engine) LastRequest() Request {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.requests) == 0 {
		return Request{}
	}
	return e.requests[len(e.requests)-1]
}

// Reset forgets recorded requests but keeps the stored data.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.requests = nil
}

// CreateIndex creates an empty index.
func (e *Engine) CreateIndex(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ensureIndex(name)
}

// HasIndex reports whether the index exists.
func (e *Engine) HasIndex(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.indexes[name]
	return ok
}

// SetMapping replaces the mapping of an index, creating it if needed.
func (e *Engine) SetMapping(name string, mappings map[string]any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ensureIndex(name).mappings = mappings
}

// Mapping returns the current mapping of an index.
func (e *Engine) Mapping(name string) map[string]any {
	e.mu.Lock()
	defer e.mu.Unlock()
	if idx, ok := e.indexes[name]; ok {
		return idx.mappings
	}
	return nil
}

// Settings returns the settings of an index as last created or updated.
func (e *Engine) Settings(name string) map[string]any {
	e.mu.Lock()
	defer e.mu.Unlock()
	if idx, ok := e.indexes[name]; ok {
		return idx.settings
	}
	return nil
}

// PutDocument stores source under id, creating the index if needed.
func (e *Engine) PutDocument(name, id string, source map[string]any) int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.put(e.ensureIndex(name), id, source)
}

// Document returns a stored document and its version.
func (e *Engine) Document(name, id string) (map[string]any, int64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	idx, ok := e.indexes[name]
	if !ok {
		return nil, 0, false
	}
	doc, ok := idx.documents[id]
	if !ok {
		return nil, 0, false
	}
	return doc.source, doc.version, true
}

// DocumentCount returns the number of documents in an index.
func (e *Engine) DocumentCount(name string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if idx, ok := e.indexes[name]; ok {
		return len(idx.documents)
	}
	return 0
}

// Perform implements opensearch.Transport.
func (e *Engine) Perform(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		var err error
		body, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.requests = append(e.requests, Request{
		Method:   req.Method,
		Path:     req.URL.Path,
		RawQuery: req.URL.RawQuery,
		Header:   req.Header.Clone(),
		Body:     body,
	})
	if e.failWith != nil {
		return nil, e.failWith
	}

	status, payload := e.route(req.Method, splitSegments(req.URL), body)
	return newResponse(req, status, payload), nil
}

func (e *Engine) route(method string, segments []string, body []byte) (int, any) {
	if len(segments) == 0 {
		if method == http.MethodGet || method == http.MethodHead {
			return http.StatusOK, map[string]any{
				"name":    "opensearchtest",
				"version": map[string]any{"distribution": "opensearch", "number": "2.11.0"},
			}
		}
		return badRequest("unsupported root method " + method)
	}

	if segments[0] == "_mapping" {
		return e.clusterMapping()
	}

	name := segments[0]
	if len(segments) == 1 {
		return e.indexOperation(method, name, body)
	}

	switch segments[1] {
	case "_doc":
		id := ""
		if len(segments) > 2 {
			id = segments[2]
		}
		return e.documentOperation(method, name, id, body)
	case "_count":
		return e.count(name)
	case "_refresh":
		if _, ok := e.indexes[name]; !ok {
			return indexNotFound(name)
		}
		return http.StatusOK, map[string]any{"_shards": map[string]any{"total": 1, "successful": 1, "failed": 0}}
	case "_settings":
		return e.updateSettings(name, body)
	case "_mapping":
		return e.indexMapping(method, name, body)
	case "_search":
		return e.search(name, body)
	}
	return badRequest("unsupported endpoint " + strings.Join(segments, "/"))
}

func (e *Engine) indexOperation(method, name string, body []byte) (int, any) {
	idx, exists := e.indexes[name]
	switch method {
	case http.MethodHead:
		if !exists {
			return http.StatusNotFound, nil
		}
		return http.StatusOK, nil
	case http.MethodPut:
		if exists {
			return http.StatusBadRequest, errorPayload(http.StatusBadRequest, "resource_already_exists_exception",
				fmt.Sprintf("index [%s] already exists", name))
		}
		var create map[string]any
		if len(body) > 0 {
			if err := json.Unmarshal(body, &create); err != nil {
				return badRequest(err.Error())
			}
		}
		idx = e.ensureIndex(name)
		idx.settings, _ = create["settings"].(map[string]any)
		idx.aliases, _ = create["aliases"].(map[string]any)
		if m, ok := create["mappings"].(map[string]any); ok {
			idx.mappings = m
		}
		return http.StatusOK, map[string]any{"acknowledged": true, "index": name}
	case http.MethodDelete:
		if !exists {
			return indexNotFound(name)
		}
		delete(e.indexes, name)
		return http.StatusOK, map[string]any{"acknowledged": true}
	case http.MethodGet:
		if !exists {
			return indexNotFound(name)
		}
		return http.StatusOK, map[string]any{name: map[string]any{
			"settings": idx.settings, "mappings": idx.mappings, "aliases": idx.aliases,
		}}
	}
	return badRequest("unsupported index method " + method)
}

func (e *Engine) documentOperation(method, name, id string, body []byte) (int, any) {
	switch method {
	case http.MethodPost, http.MethodPut:
		if method == http.MethodPut && id == "" {
			return badRequest("document id is required for PUT")
		}
		var source map[string]any
		if err := json.Unmarshal(body, &source); err != nil {
			return badRequest(err.Error())
		}
		idx := e.ensureIndex(name)
		if id == "" {
			e.seq++
			id = "generated-" + strconv.Itoa(e.seq)
		}
		result := "created"
		if _, ok := idx.documents[id]; ok {
			result = "updated"
		}
		version := e.put(idx, id, source)
		status := http.StatusOK
		if result == "created" {
			status = http.StatusCreated
		}
		return status, map[string]any{"_index": name, "_id": id, "_version": version, "result": result}
	case http.MethodGet:
		idx, ok := e.indexes[name]
		if !ok {
			return indexNotFound(name)
		}
		doc, ok := idx.documents[id]
		if !ok {
			return http.StatusNotFound, map[string]any{"_index": name, "_id": id, "found": false}
		}
		return http.StatusOK, map[string]any{
			"_index": name, "_id": id, "_version": doc.version, "found": true, "_source": doc.source,
		}
	case http.MethodDelete:
		idx, ok := e.indexes[name]
		if !ok {
			return indexNotFound(name)
		}
		doc, ok := idx.documents[id]
		if !ok {
			return http.StatusNotFound, map[string]any{"_index": name, "_id": id, "result": "not_found"}
		}
		delete(idx.documents, id)
		idx.order = removeString(idx.order, id)
		return http.StatusOK, map[string]any{"_index": name, "_id": id, "_version": doc.version + 1, "result": "deleted"}
	}
	return badRequest("unsupported document method " + method)
}

func (e *Engine) count(name string) (int, any) {
	idx, ok := e.indexes[name]
	if !ok {
		return indexNotFound(name)
	}
	return http.StatusOK, map[string]any{"count": len(idx.documents)}
}

func (e *Engine) updateSettings(name string, body []byte) (int, any) {
	idx, ok := e.indexes[name]
	if !ok {
		return indexNotFound(name)
	}
	var update map[string]any
	if err := json.Unmarshal(body, &update); err != nil {
		return badRequest(err.Error())
	}
	idx.settings = merge(idx.settings, update)
	return http.StatusOK, map[string]any{"acknowledged": true}
}

func (e *Engine) indexMapping(method, name string, body []byte) (int, any) {
	if method == http.MethodGet {
		idx, ok := e.indexes[name]
		if !ok {
			return indexNotFound(name)
		}
		return http.StatusOK, map[string]any{name: map[string]any{"mappings": idx.mappings}}
	}
	var mapping map[string]any
	if err := json.Unmarshal(body, &mapping); err != nil {
		return badRequest(err.Error())
	}
	idx := e.ensureIndex(name)
	idx.mappings = merge(idx.mappings, mapping)
	return http.StatusOK, map[string]any{"acknowledged": true}
}

func (e *Engine) clusterMapping() (int, any) {
	out := make(map[string]any, len(e.indexes))
	for name, idx := range e.indexes {
		mappings := idx.mappings
		if mappings == nil {
			mappings = map[string]any{}
		}
		out[name] = map[string]any{"mappings": mappings}
	}
	return http.StatusOK, out
}

func (e *Engine) search(name string, body []byte) (int, any) {
	idx, ok := e.indexes[name]
	if !ok {
		return indexNotFound(name)
	}

	var query struct {
		Query map[string]any `json:"query"`
		Size  *int           `json:"size"`
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &query); err != nil {
			return badRequest(err.Error())
		}
	}

	hits := make([]any, 0, len(idx.documents))
	for _, id := range idx.order {
		doc := idx.documents[id]
		if !matches(idx.mappings, query.Query, doc.source) {
			continue
		}
		if query.Size != nil && len(hits) >= *query.Size {
			break
		}
		hits = append(hits, map[string]any{"_index": name, "_id": id, "_version": doc.version, "_source": doc.source})
	}
	return http.StatusOK, map[string]any{
		"hits": map[string]any{
			"total": map[string]any{"value": len(hits), "relation": "eq"},
			"hits":  hits,
		},
	}
}

// matches evaluates term and bool queries; anything else matches all. A term
// on a field mapped as text compares against the lowercased value, as the
// standard analyzer would index it. A ".keyword" suffix compares exactly.
func matches(mappings, query, source map[string]any) bool {
	if term, ok := query["term"].(map[string]any); ok {
		for field, want := range term {
			if obj, ok := want.(map[string]any); ok {
				want = obj["value"]
			}
			name, exact := strings.CutSuffix(field, ".keyword")
			got, ok := source[name]
			if !ok {
				return false
			}
			value := fmt.Sprint(got)
			if !exact && isText(mappings, name) {
				value = strings.ToLower(value)
			}
			if value != fmt.Sprint(want) {
				return false
			}
		}
		return true
	}
	if b, ok := query["bool"].(map[string]any); ok {
		return matchesBool(mappings, b, source)
	}
	return true
}

func isText(mappings map[string]any, field string) bool {
	properties, _ := mappings["properties"].(map[string]any)
	property, _ := properties[field].(map[string]any)
	return property["type"] == "text"
}

func matchesBool(mappings, b, source map[string]any) bool {
	for _, clause := range clauses(b["must"]) {
		if !matches(mappings, clause, source) {
			return false
		}
	}
	for _, clause := range clauses(b["filter"]) {
		if !matches(mappings, clause, source) {
			return false
		}
	}
	for _, clause := range clauses(b["must_not"]) {
		if matches(mappings, clause, source) {
			return false
		}
	}
	should := clauses(b["should"])
	if len(should) == 0 {
		return true
	}
	minimum := 1
	if v, ok := b["minimum_should_match"].(float64); ok {
		minimum = int(v)
	}
	matched := 0
	for _, clause := range should {
		if matches(mappings, clause, source) {
			matched++
		}
	}
	return matched >= minimum
}

// clauses accepts a single clause object or a list of them.
func clauses(v any) []map[string]any {
	switch c := v.(type) {
	case map[string]any:
		return []map[string]any{c}
	case []any:
		out := make([]map[string]any, 0, len(c))
		for _, item := range c {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}

func (e *Engine) ensureIndex(name string) *index {
	idx, ok := e.indexes[name]
	if !ok {
		idx = &index{documents: make(map[string]*storedDocument)}
		e.indexes[name] = idx
	}
	return idx
}

func (e *Engine) put(idx *index, id string, source map[string]any) int64 {
	doc, ok := idx.documents[id]
	if !ok {
		doc = &storedDocument{}
		idx.documents[id] = doc
		idx.order = append(idx.order, id)
	}
	doc.version++
	doc.source = maps.Clone(source)
	return doc.version
}

func splitSegments(u *url.URL) []string {
	raw := strings.Trim(u.EscapedPath(), "/")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		if unescaped, err := url.PathUnescape(p); err == nil {
			p = unescaped
		}
		out = append(out, p)
	}
	return out
}

func newResponse(req *http.Request, status int, payload any) *http.Response {
	var body []byte
	if payload != nil && req.Method != http.MethodHead {
		body, _ = json.Marshal(payload)
	}
	header := http.Header{}
	header.Set("Content-Type", "application/json; charset=UTF-8")
	return &http.Response{
		StatusCode:    status,
		Status:        fmt.Sprintf("%d %s", status, http.StatusText(status)),
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}
}

func errorPayload(status int, typ, reason string) map[string]any {
	return map[string]any{
		"error": map[string]any{
			"root_cause": []any{map[string]any{"type": typ, "reason": reason}},
			"type":       typ,
			"reason":     reason,
		},
		"status": status,
	}
}

func indexNotFound(name string) (int, any) {
	return http.StatusNotFound, errorPayload(http.StatusNotFound, "index_not_found_exception",
		fmt.Sprintf("no such index [%s]", name))
}

func badRequest(reason string) (int, any) {
	return http.StatusBadRequest, errorPayload(http.StatusBadRequest, "illegal_argument_exception", reason)
}

func merge(base, override map[string]any) map[string]any {
	out := maps.Clone(base)
	if out == nil {
		out = map[string]any{}
	}
	for k, v := range override {
		if ov, ok := v.(map[string]any); ok {
			if bv, ok := out[k].(map[string]any); ok {
				out[k] = merge(bv, ov)
				continue
			}
		}
		out[k] = v
	}
	return out
}

func removeString(list []string, s string) []string {
	i := sort.SearchStrings(list, s)
	if i < len(list) && list[i] == s {
		return append(list[:i], list[i+1:]...)
	}
	for i, v := range list {
		if v == s {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
