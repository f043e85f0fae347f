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

// Package nats wraps a NATS connection used by the NATS sink.
//
// NewNATSClient connects to the given url with automatic reconnects. Credentials are read
// from the optional environment variables CDSTREAM_NATS_USER and CDSTREAM_NATS_PASSWORD, and
// CDSTREAM_NATS_TLS_ENABLED=true switches on TLS.
//
// Function NewTestClient(t *testing.T, url string) returns a plain client, only used for
// testing.
package nats
