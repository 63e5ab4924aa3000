package opensearch

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultBundle is the client bundle used when none is requested.
const DefaultBundle = "default"

// ClientConfiguration holds connection parameters of a single node.
type ClientConfiguration struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Scheme   string `yaml:"scheme"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

var clientConfigurationKeys = map[string]struct{}{
	"host":     {},
	"port":     {},
	"scheme":   {},
	"username": {},
	"password": {},
}

// UnmarshalYAML rejects keys that are not part of a client configuration,
// so typos in settings files fail at load time.
func (c *ClientConfiguration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i].Value
			if _, ok := clientConfigurationKeys[key]; !ok {
				return errors.Join(ErrUnknownSetting, fmt.Errorf(
					"setting key %q as client configuration value is not allowed (line %d)", key, node.Content[i].Line,
				))
			}
		}
	}
	type plain ClientConfiguration
	return node.Decode((*plain)(c))
}

// URI returns the base URI of the node including credentials, if any.
func (c ClientConfiguration) URI() *url.URL {
	scheme := c.Scheme
	if scheme == "" {
		scheme = "http"
	}
	host := c.Host
	if c.Port > 0 {
		host = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	}
	u := &url.URL{Scheme: scheme, Host: host}
	if c.Username != "" {
		u.User = url.UserPassword(c.Username, c.Password)
	}
	return u
}

// TransferSettings are passed straight through to the HTTP transport.
type TransferSettings struct {
	ConnectionTimeout time.Duration `yaml:"connectionTimeout"`
	SSLVerifyPeer     *bool         `yaml:"sslVerifyPeer"`
	SSLVerifyHost     *bool         `yaml:"sslVerifyHost"`
}

// VerifyPeer reports whether the server certificate chain is verified. Defaults to true.
func (t TransferSettings) VerifyPeer() bool {
	return t.SSLVerifyPeer == nil || *t.SSLVerifyPeer
}

// VerifyHost reports whether the certificate host name is verified. Defaults to true.
func (t TransferSettings) VerifyHost() bool {
	return t.SSLVerifyHost == nil || *t.SSLVerifyHost
}

// IndexConfiguration is the raw per-index configuration block:
// an optional name prefix plus OpenSearch settings, mappings and aliases.
type IndexConfiguration map[string]any

// Prefix returns the configured name prefix or an empty string.
func (c IndexConfiguration) Prefix() string {
	prefix, _ := c["prefix"].(string)
	return prefix
}

// Settings returns the raw OpenSearch index settings block.
func (c IndexConfiguration) Settings() map[string]any {
	settings, _ := asObject(c["settings"])
	return settings
}

// UnmarshalYAML decodes the block into plain maps, so nested objects are
// map[string]any rather than IndexConfiguration.
func (c *IndexConfiguration) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*c = IndexConfiguration(raw)
	return nil
}

// Settings is the full configuration surface of the library.
//
// Clients are keyed by bundle name; Indexes by bundle name, then index name.
type Settings struct {
	Clients  map[string][]ClientConfiguration         `yaml:"clients"`
	Indexes  map[string]map[string]IndexConfiguration `yaml:"indexes"`
	Transfer TransferSettings                         `yaml:"transfer"`
}
