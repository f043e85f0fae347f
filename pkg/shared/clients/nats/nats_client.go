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

package nats

import (
	"context"
	"crypto/tls"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/numaproj/cdstream/pkg/shared/logging"
	sharedutil "github.com/numaproj/cdstream/pkg/shared/util"
)

const (
	EnvNATSUser       = "CDSTREAM_NATS_USER"
	EnvNATSPassword   = "CDSTREAM_NATS_PASSWORD"
	EnvNATSTLSEnabled = "CDSTREAM_NATS_TLS_ENABLED"
)

// Client is a client for NATS server shared by the publishers and the presence checks of a sink.
type Client struct {
	sync.Mutex
	nc    *nats.Conn
	jsCtx nats.JetStreamContext
	log   *zap.SugaredLogger
}

// NewNATSClient Create a new NATS client
func NewNATSClient(ctx context.Context, url string, natsOptions ...nats.Option) (*Client, error) {
	log := logging.FromContext(ctx)
	if url == "" {
		return nil, fmt.Errorf("nats url is required")
	}
	opts := []nats.Option{
		// if max reconnects is set to -1, it will try to reconnect forever
		nats.MaxReconnects(-1),
		nats.PingInterval(3 * time.Second),
		nats.MaxPingsOutstanding(2),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Errorw("Nats default: error occurred for subscription", zap.Error(err))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Info("Nats default: connection closed")
		}),
		// retry on failed connect should be true, else it wont try to reconnect during initial connect
		nats.RetryOnFailedConnect(true),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Errorw("Nats default: disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("Nats default: reconnected")
		}),
		// Write (and flush) timeout
		nats.FlusherTimeout(10 * time.Second),
	}
	if user := sharedutil.LookupEnvStringOr(EnvNATSUser, ""); user != "" {
		opts = append(opts, nats.UserInfo(user, sharedutil.LookupEnvStringOr(EnvNATSPassword, "")))
	}
	if sharedutil.LookupEnvBoolOr(EnvNATSTLSEnabled, false) {
		opts = append(opts, nats.Secure(&tls.Config{
			InsecureSkipVerify: true,
		}))
	}
	opts = append(opts, natsOptions...)
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats url=%s: %w", url, err)
	}
	jsCtx, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create to nats jetstream context: %w", err)
	}
	return &Client{nc: nc, jsCtx: jsCtx, log: log}, nil
}

// Publish sends data on a core NATS subject.
func (c *Client) Publish(subject string, data []byte) error {
	return c.nc.Publish(subject, data)
}

// Flush waits until the server has processed everything published so far.
func (c *Client) Flush(ctx context.Context) error {
	return c.nc.FlushWithContext(ctx)
}

// ConsumerCount returns the number of consumers bound to a JetStream stream.
func (c *Client) ConsumerCount(ctx context.Context, stream string) (int, error) {
	// the js context is shared by all callers
	c.Lock()
	defer c.Unlock()
	info, err := c.jsCtx.StreamInfo(stream, nats.Context(ctx))
	if err != nil {
		return 0, fmt.Errorf("failed to get stream info, %w", err)
	}
	return info.State.Consumers, nil
}

// JetStreamContext returns a new JetStreamContext
func (c *Client) JetStreamContext(opts ...nats.JSOpt) (nats.JetStreamContext, error) {
	return c.nc.JetStream(opts...)
}

// Close closes the NATS client
func (c *Client) Close() {
	c.nc.Close()
}

// NewTestClient creates a new NATS client for testing
// only use this for testing
func NewTestClient(t *testing.T, url string) *Client {
	t.Helper()
	nc, err := nats.Connect(url)
	if err != nil {
		t.Fatalf("failed to connect to %s: %v", url, err)
	}
	jsCtx, err := nc.JetStream()
	if err != nil {
		t.Fatalf("failed to create jetstream context: %v", err)
	}
	return &Client{nc: nc, jsCtx: jsCtx, log: zap.NewNop().Sugar()}
}

// NewTestClientWithServer is NewTestClient for an embedded server.
func NewTestClientWithServer(t *testing.T, s *server.Server) *Client {
	return NewTestClient(t, s.ClientURL())
}
