/*
Copyright 2022 The Numaproj Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package util

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"github.com/numaproj/cdstream/pkg/config"
)

// GetTLSConfig builds a tls.Config from PEM files. A nil config disables TLS.
func GetTLSConfig(c *config.TLSConfig) (*tls.Config, error) {
	if c == nil {
		return nil, nil
	}
	if len(c.CertFile)+len(c.KeyFile) > 0 && len(c.CertFile)*len(c.KeyFile) == 0 {
		// Only one of certFile and keyFile is configured
		return nil, fmt.Errorf("invalid tls config, both certFile and keyFile need to be configured")
	}
	tc := &tls.Config{
		InsecureSkipVerify: c.InsecureSkipVerify,
	}
	if len(c.CACertFile) > 0 {
		caCert, err := os.ReadFile(c.CACertFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read ca cert file %s, %w", c.CACertFile, err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("no certificate found in ca cert file %s", c.CACertFile)
		}
		tc.RootCAs = pool
	}
	if len(c.CertFile) > 0 {
		clientCert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load client cert key pair (%s, %s), %w", c.CertFile, c.KeyFile, err)
		}
		tc.Certificates = []tls.Certificate{clientCert}
	}
	return tc, nil
}
