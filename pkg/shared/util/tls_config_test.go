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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numaproj/cdstream/pkg/config"
)

func TestGetTLSConfig_NilConfig(t *testing.T) {
	c, err := GetTLSConfig(nil)
	assert.NoError(t, err)
	assert.Nil(t, c)
}

func TestGetTLSConfig_InsecureOnly(t *testing.T) {
	c, err := GetTLSConfig(&config.TLSConfig{InsecureSkipVerify: true})
	require.NoError(t, err)
	assert.True(t, c.InsecureSkipVerify)
	assert.Nil(t, c.RootCAs)
	assert.Empty(t, c.Certificates)
}

func TestGetTLSConfig_CertWithoutKey(t *testing.T) {
	_, err := GetTLSConfig(&config.TLSConfig{CertFile: "/tmp/cert.pem"})
	assert.ErrorContains(t, err, "invalid tls config")
	_, err = GetTLSConfig(&config.TLSConfig{KeyFile: "/tmp/key.pem"})
	assert.ErrorContains(t, err, "invalid tls config")
}

func TestGetTLSConfig_CACert(t *testing.T) {
	_, err := GetTLSConfig(&config.TLSConfig{CACertFile: filepath.Join(t.TempDir(), "missing.pem")})
	assert.ErrorContains(t, err, "failed to read ca cert file")

	garbage := filepath.Join(t.TempDir(), "ca.pem")
	require.NoError(t, os.WriteFile(garbage, []byte("not a certificate"), 0o600))
	_, err = GetTLSConfig(&config.TLSConfig{CACertFile: garbage})
	assert.ErrorContains(t, err, "no certificate found")
}

func TestGetTLSConfig_MissingKeyPair(t *testing.T) {
	dir := t.TempDir()
	_, err := GetTLSConfig(&config.TLSConfig{CertFile: filepath.Join(dir, "c.pem"), KeyFile: filepath.Join(dir, "k.pem")})
	assert.ErrorContains(t, err, "failed to load client cert key pair")
}
