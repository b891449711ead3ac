// Package tlsconfig assembles the TLS configuration for connections to the
// Iris server.
package tlsconfig

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
)

// Create creates a new tls.Config object from the given certs, key, and CA files.
func Create(
	sslCA, sslCert, sslKey string,
	insecureSkipVerify bool,
) (*tls.Config, error) {
	t := &tls.Config{
		InsecureSkipVerify: insecureSkipVerify,
	}
	if sslCert != "" && sslKey != "" {
		cert, err := tls.LoadX509KeyPair(sslCert, sslKey)
		if err != nil {
			return nil, fmt.Errorf(
				"could not load TLS client key/certificate: %s",
				err)
		}
		t.Certificates = []tls.Certificate{cert}
	} else if sslCert != "" {
		return nil, errors.New("must provide both key and cert files: only cert file provided")
	} else if sslKey != "" {
		return nil, errors.New("must provide both key and cert files: only key file provided")
	}

	if sslCA != "" {
		caCert, err := os.ReadFile(sslCA)
		if err != nil {
			return nil, fmt.Errorf("could not load TLS CA: %s",
				err)
		}
		caCertPool := x509.NewCertPool()
		caCertPool.AppendCertsFromPEM(caCert)
		t.RootCAs = caCertPool
	}
	return t, nil
}
