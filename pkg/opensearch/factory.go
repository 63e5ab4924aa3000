package opensearch

import (
	"fmt"
	"log/slog"
)

// TransportFunc creates the transport for the first node of a bundle.
type TransportFunc func(node ClientConfiguration, transfer TransferSettings) (Transport, error)

// ClientFactory creates clients from Settings by bundle name.
type ClientFactory struct {
	settings     Settings
	newTransport TransportFunc
	logger       *slog.Logger
}

// FactoryOption configures a ClientFactory.
type FactoryOption func(*ClientFactory)

// WithTransportFunc replaces the opensearch-go transport, mostly for tests.
func WithTransportFunc(fn TransportFunc) FactoryOption {
	return func(f *ClientFactory) {
		if fn != nil {
			f.newTransport = fn
		}
	}
}

// WithFactoryLogger sets the logger handed to every created client.
func WithFactoryLogger(l *slog.Logger) FactoryOption {
	return func(f *ClientFactory) { f.logger = l }
}

func NewClientFactory(settings Settings, opts ...FactoryOption) *ClientFactory {
	f := &ClientFactory{
		settings: settings,
		newTransport: func(node ClientConfiguration, transfer TransferSettings) (Transport, error) {
			return NewTransport(node, transfer)
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Settings returns the settings the factory was created with.
func (f *ClientFactory) Settings() Settings { return f.settings }

// Create builds a Client for bundle. An empty bundle selects DefaultBundle.
func (f *ClientFactory) Create(bundle string) (*Client, error) {
	if bundle == "" {
		bundle = DefaultBundle
	}

	configurations, ok := f.settings.Clients[bundle]
	if !ok || len(configurations) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingClientBundle, bundle)
	}

	transport, err := f.newTransport(configurations[0], f.settings.Transfer)
	if err != nil {
		return nil, err
	}

	return NewClient(bundle, configurations, transport,
		WithIndexConfigurations(f.settings.Indexes[bundle]),
		WithTimeout(f.settings.Transfer.ConnectionTimeout),
		WithLogger(f.logger),
	), nil
}
