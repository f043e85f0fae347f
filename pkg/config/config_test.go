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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	c, err := Load(NewViper(), "")
	require.NoError(t, err)
	assert.Equal(t, "PropheseeCamera", c.CameraName)
	assert.Equal(t, 100*time.Microsecond, c.DeltaT)
	assert.Equal(t, 20*time.Millisecond, c.FrameAccumulationTime)
	assert.Equal(t, 30.0, c.FrameRate)
	assert.True(t, c.PublishEvents)
	assert.True(t, c.FlushOnStop)
	assert.Equal(t, 200*time.Millisecond, c.StatusInterval)
	assert.Equal(t, SourceTypeGenerator, c.Source.Type)
	assert.Equal(t, SinkTypeLog, c.Sink.Type)
	assert.Equal(t, []string{"localhost:6379"}, c.Sink.Redis.Addrs)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "cdstream.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
cameraName: gen3
deltaT: 1ms
frameRate: 60
source:
  type: replay
  replay:
    path: /data/recording.csv
    width: 1280
    height: 720
sink:
  type: kafka
  kafka:
    brokers: ["broker-0:9092", "broker-1:9092"]
    config: |
      producer:
        maxMessageBytes: 4194304
`), 0o644))
	t.Setenv("CDSTREAM_FRAMERATE", "25")

	c, err := Load(NewViper(), file)
	require.NoError(t, err)
	assert.Equal(t, "gen3", c.CameraName)
	assert.Equal(t, time.Millisecond, c.DeltaT)
	assert.Equal(t, 25.0, c.FrameRate)
	assert.Equal(t, SourceTypeReplay, c.Source.Type)
	assert.Equal(t, 1280, c.Source.Replay.Width)
	assert.Equal(t, []string{"broker-0:9092", "broker-1:9092"}, c.Sink.Kafka.Brokers)
	assert.Contains(t, c.Sink.Kafka.Config, "maxMessageBytes")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(NewViper(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c, err := Load(NewViper(), "")
		require.NoError(t, err)
		return c
	}
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"empty camera", func(c *Config) { c.CameraName = "" }},
		{"zero delta", func(c *Config) { c.DeltaT = 0 }},
		{"sub microsecond accumulation", func(c *Config) { c.FrameAccumulationTime = time.Nanosecond }},
		{"zero frame rate", func(c *Config) { c.FrameRate = 0 }},
		{"unknown source", func(c *Config) { c.Source.Type = "usb" }},
		{"replay without path", func(c *Config) { c.Source.Type = SourceTypeReplay }},
		{"bad generator geometry", func(c *Config) { c.Source.Generator.Width = 0 }},
		{"unknown sink", func(c *Config) { c.Sink.Type = "ros" }},
		{"kafka without brokers", func(c *Config) { c.Sink.Type = SinkTypeKafka; c.Sink.Kafka.Brokers = nil }},
		{"nats without url", func(c *Config) { c.Sink.Type = SinkTypeNATS; c.Sink.NATS.URL = "" }},
		{"redis without addrs", func(c *Config) { c.Sink.Type = SinkTypeRedis; c.Sink.Redis.Addrs = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}
