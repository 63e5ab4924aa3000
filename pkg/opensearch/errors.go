package opensearch

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Configuration errors. They are never retried and surface immediately.
var (
	// ErrInvalidIndexName indicates an empty, non-lowercase or underscore-prefixed index name.
	ErrInvalidIndexName = errors.New("invalid index name")

	// ErrMissingClientBundle indicates the requested client bundle is not configured.
	ErrMissingClientBundle = errors.New("client settings bundle is not configured")

	// ErrIndexWithoutClient indicates a request on an Index that has no Client attached.
	ErrIndexWithoutClient = errors.New("index has no client attached")

	// ErrUnknownSetting indicates an unrecognized key in a client configuration block.
	ErrUnknownSetting = errors.New("unknown client configuration setting")

	// ErrNoClientConfiguration indicates a Client without any node configuration.
	ErrNoClientConfiguration = errors.New("client has no node configuration")
)

var (
	// ErrConnectionFailed indicates the OpenSearch transport could not be created
	// due to configuration issues. Use errors.Is() to check.
	ErrConnectionFailed = errors.New("opensearch connection failed")

	// ErrHealthcheckFailed indicates the cluster is unreachable or unhealthy.
	ErrHealthcheckFailed = errors.New("opensearch healthcheck failed")

	// ErrTransport indicates the HTTP exchange itself could not be completed.
	ErrTransport = errors.New("opensearch transport error")

	// ErrDocumentMismatch is matched by *DocumentMismatchError.
	ErrDocumentMismatch = errors.New("document properties do not match the expected ones")

	// ErrFieldNotPresent is returned by Document.Field for absent fields.
	ErrFieldNotPresent = errors.New("field not present in document data")
)

// IsConfigurationError reports whether err is one of the configuration errors.
func IsConfigurationError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrInvalidIndexName) ||
		errors.Is(err, ErrMissingClientBundle) ||
		errors.Is(err, ErrIndexWithoutClient) ||
		errors.Is(err, ErrUnknownSetting) ||
		errors.Is(err, ErrNoClientConfiguration)
}

// APIError maps a structured error payload returned by the engine itself,
// e.g. {"error":{"type":"index_not_found_exception",...},"status":404}.
// The HTTP exchange succeeded but the operation was rejected.
type APIError struct {
	StatusCode int
	Type       string
	Reason     string
	Body       []byte
}

func (e *APIError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "opensearch api error: status %d", e.StatusCode)
	if e.Type != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Type)
	}
	if e.Reason != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Reason)
	}
	return sb.String()
}

// IsAPIError reports whether err carries an *APIError.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// IsNotFound reports whether err is an API error with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Mismatch is a single disagreement between an expected and a received document property.
type Mismatch struct {
	Property string
	Expected string
	Received string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("the received %s %q does not match the expected one %q", m.Property, m.Received, m.Expected)
}

// DocumentMismatchError carries every mismatch found while reconstituting a document.
type DocumentMismatchError struct {
	Mismatches []Mismatch
}

func (e *DocumentMismatchError) Error() string {
	parts := make([]string, 0, len(e.Mismatches))
	for _, m := range e.Mismatches {
		parts = append(parts, m.String())
	}
	return ErrDocumentMismatch.Error() + ": " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrDocumentMismatch) succeed.
func (e *DocumentMismatchError) Is(target error) bool {
	return target == ErrDocumentMismatch
}
