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

package redis

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisClient datatype to hold redis client attributes.
type RedisClient struct {
	Client redis.UniversalClient
}

// NewRedisClient returns a new Redis Client. A single address gives a plain client, several
// give a cluster client, and a MasterName switches to sentinel failover.
func NewRedisClient(options *redis.UniversalOptions) *RedisClient {
	client := new(RedisClient)
	client.Client = redis.NewUniversalClient(options)
	return client
}

// Ping checks the connection.
func (cl *RedisClient) Ping(ctx context.Context) error {
	if err := cl.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis, %w", err)
	}
	return nil
}

// Publish posts payload on a pub/sub channel and returns the number of clients that got it.
func (cl *RedisClient) Publish(ctx context.Context, channel string, payload []byte) (int64, error) {
	return cl.Client.Publish(ctx, channel, payload).Result()
}

// NumSubscribers returns the number of clients subscribed to channel.
func (cl *RedisClient) NumSubscribers(ctx context.Context, channel string) (int64, error) {
	counts, err := cl.Client.PubSubNumSub(ctx, channel).Result()
	if err != nil {
		return 0, err
	}
	return counts[channel], nil
}

// Close closes the underlying client.
func (cl *RedisClient) Close() error {
	return cl.Client.Close()
}

// IsConnectionError tells apart transport failures from command errors.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") || strings.Contains(msg, "i/o timeout") || strings.Contains(msg, redis.ErrClosed.Error())
}
