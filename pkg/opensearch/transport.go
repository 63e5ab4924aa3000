package opensearch

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"net/http"

	"github.com/opensearch-project/opensearch-go/v2"
)

// Transport performs a single HTTP exchange.
// *opensearch.Client from opensearch-go satisfies it.
type Transport interface {
	Perform(*http.Request) (*http.Response, error)
}

// NewTransport creates an opensearch-go client bound to the given node.
// Retries are disabled: every failure propagates to the caller.
func NewTransport(node ClientConfiguration, transfer TransferSettings) (*opensearch.Client, error) {
	base := node.URI()
	base.User = nil

	httpTransport := http.DefaultTransport.(*http.Transport).Clone()
	httpTransport.TLSClientConfig = tlsConfig(transfer)
	if transfer.ConnectionTimeout > 0 {
		httpTransport.DialContext = (&net.Dialer{Timeout: transfer.ConnectionTimeout}).DialContext
		httpTransport.TLSHandshakeTimeout = transfer.ConnectionTimeout
	}

	client, err := opensearch.NewClient(opensearch.Config{
		Addresses:    []string{base.String()},
		Username:     node.Username,
		Password:     node.Password,
		Transport:    httpTransport,
		DisableRetry: true,
	})
	if err != nil {
		return nil, errors.Join(ErrConnectionFailed, err)
	}

	return client, nil
}

func tlsConfig(transfer TransferSettings) *tls.Config {
	switch {
	case !transfer.VerifyPeer():
		return &tls.Config{InsecureSkipVerify: true} //nolint:gosec // explicitly configured
	case !transfer.VerifyHost():
		// Chain is still verified, only the host name check is skipped.
		return &tls.Config{
			InsecureSkipVerify: true, //nolint:gosec // chain verified in VerifyConnection
			VerifyConnection: func(cs tls.ConnectionState) error {
				if len(cs.PeerCertificates) == 0 {
					return errors.New("no peer certificates presented")
				}
				intermediates := x509.NewCertPool()
				for _, cert := range cs.PeerCertificates[1:] {
					intermediates.AddCert(cert)
				}
				_, err := cs.PeerCertificates[0].Verify(x509.VerifyOptions{Intermediates: intermediates})
				return err
			},
		}
	default:
		return nil
	}
}
