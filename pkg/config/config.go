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

// Package config loads the cdstream configuration from a YAML file, CDSTREAM_* environment
// variables and command line flags, in increasing order of precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	EnvPrefix = "CDSTREAM"

	SourceTypeGenerator = "generator"
	SourceTypeReplay    = "replay"

	SinkTypeLog       = "log"
	SinkTypeBlackhole = "blackhole"
	SinkTypeKafka     = "kafka"
	SinkTypeNATS      = "nats"
	SinkTypeRedis     = "redis"
)

// Config is the complete runtime configuration.
type Config struct {
	CameraName string `mapstructure:"cameraName"`
	// DeltaT is the minimum wall clock span of an event batch.
	DeltaT time.Duration `mapstructure:"deltaT"`
	// FrameAccumulationTime is how far back in event time a frame looks.
	FrameAccumulationTime time.Duration `mapstructure:"frameAccumulationTime"`
	// FrameRate is the number of frames per second of event time.
	FrameRate      float64       `mapstructure:"frameRate"`
	PublishEvents  bool          `mapstructure:"publishEvents"`
	PublishFrames  bool          `mapstructure:"publishFrames"`
	FlushOnStop    bool          `mapstructure:"flushOnStop"`
	StatusInterval time.Duration `mapstructure:"statusInterval"`
	MetricsPort    int           `mapstructure:"metricsPort"`
	Source         SourceConfig  `mapstructure:"source"`
	Sink           SinkConfig    `mapstructure:"sink"`
}

type SourceConfig struct {
	Type      string          `mapstructure:"type"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Replay    ReplayConfig    `mapstructure:"replay"`
}

type GeneratorConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
	// EventRate is the number of events generated per second of event time.
	EventRate int `mapstructure:"eventRate"`
	// ChunkPeriod is the event time covered by one delivered chunk.
	ChunkPeriod time.Duration `mapstructure:"chunkPeriod"`
	Seed        int64         `mapstructure:"seed"`
	// Duration stops the generator after this much event time, zero runs forever.
	Duration time.Duration `mapstructure:"duration"`
}

type ReplayConfig struct {
	Path   string `mapstructure:"path"`
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	// ChunkSize is the maximum number of events per delivered chunk.
	ChunkSize int `mapstructure:"chunkSize"`
	// Realtime paces delivery to the recorded event time.
	Realtime bool `mapstructure:"realtime"`
}

type SinkConfig struct {
	Type string `mapstructure:"type"`
	// PresenceInterval is how often remote consumer presence is refreshed.
	PresenceInterval time.Duration `mapstructure:"presenceInterval"`
	Kafka            KafkaConfig   `mapstructure:"kafka"`
	NATS             NATSConfig    `mapstructure:"nats"`
	Redis            RedisConfig   `mapstructure:"redis"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	// Config is a YAML document decoded into the sarama producer config.
	Config string     `mapstructure:"config"`
	TLS    *TLSConfig `mapstructure:"tls"`
}

// TLSConfig points at PEM files. Leaving it out disables TLS.
type TLSConfig struct {
	CACertFile         string `mapstructure:"caCertFile"`
	CertFile           string `mapstructure:"certFile"`
	KeyFile            string `mapstructure:"keyFile"`
	InsecureSkipVerify bool   `mapstructure:"insecureSkipVerify"`
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
	// Stream, when set, is a JetStream stream whose consumer count gates publishing.
	Stream string `mapstructure:"stream"`
}

type RedisConfig struct {
	Addrs    []string `mapstructure:"addrs"`
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("cameraName", "PropheseeCamera")
	v.SetDefault("deltaT", 100*time.Microsecond)
	v.SetDefault("frameAccumulationTime", 20*time.Millisecond)
	v.SetDefault("frameRate", 30.0)
	v.SetDefault("publishEvents", true)
	v.SetDefault("publishFrames", true)
	v.SetDefault("flushOnStop", true)
	v.SetDefault("statusInterval", 200*time.Millisecond)
	v.SetDefault("metricsPort", 2469)
	v.SetDefault("source.type", SourceTypeGenerator)
	v.SetDefault("source.generator.width", 640)
	v.SetDefault("source.generator.height", 480)
	v.SetDefault("source.generator.eventRate", 1000000)
	v.SetDefault("source.generator.chunkPeriod", time.Millisecond)
	v.SetDefault("source.generator.seed", 1)
	v.SetDefault("source.replay.width", 640)
	v.SetDefault("source.replay.height", 480)
	v.SetDefault("source.replay.chunkSize", 1024)
	v.SetDefault("sink.type", SinkTypeLog)
	v.SetDefault("sink.presenceInterval", time.Second)
	v.SetDefault("sink.nats.url", "nats://localhost:4222")
	v.SetDefault("sink.redis.addrs", []string{"localhost:6379"})
	v.SetDefault("sink.kafka.brokers", []string{"localhost:9092"})
}

// NewViper returns a viper instance with defaults and environment binding in place.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file and decodes v into a validated Config.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to load configuration file %q. %w", file, err)
		}
	}
	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("failed unmarshal configuration. %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.CameraName == "" {
		return fmt.Errorf("cameraName must not be empty")
	}
	if c.DeltaT <= 0 {
		return fmt.Errorf("deltaT must be positive, got %v", c.DeltaT)
	}
	if c.FrameAccumulationTime < time.Microsecond {
		return fmt.Errorf("frameAccumulationTime must be at least 1us, got %v", c.FrameAccumulationTime)
	}
	if c.FrameRate <= 0 {
		return fmt.Errorf("frameRate must be positive, got %v", c.FrameRate)
	}
	switch c.Source.Type {
	case SourceTypeGenerator:
		g := c.Source.Generator
		if g.Width <= 0 || g.Height <= 0 {
			return fmt.Errorf("invalid generator geometry %dx%d", g.Width, g.Height)
		}
		if g.EventRate <= 0 || g.ChunkPeriod <= 0 {
			return fmt.Errorf("generator eventRate and chunkPeriod must be positive")
		}
	case SourceTypeReplay:
		if c.Source.Replay.Path == "" {
			return fmt.Errorf("source.replay.path is required for the replay source")
		}
		if c.Source.Replay.Width <= 0 || c.Source.Replay.Height <= 0 {
			return fmt.Errorf("invalid replay geometry %dx%d", c.Source.Replay.Width, c.Source.Replay.Height)
		}
	default:
		return fmt.Errorf("unrecognized source type %q", c.Source.Type)
	}
	switch c.Sink.Type {
	case SinkTypeLog, SinkTypeBlackhole:
	case SinkTypeKafka:
		if len(c.Sink.Kafka.Brokers) == 0 {
			return fmt.Errorf("sink.kafka.brokers is required for the kafka sink")
		}
	case SinkTypeNATS:
		if c.Sink.NATS.URL == "" {
			return fmt.Errorf("sink.nats.url is required for the nats sink")
		}
	case SinkTypeRedis:
		if len(c.Sink.Redis.Addrs) == 0 {
			return fmt.Errorf("sink.redis.addrs is required for the redis sink")
		}
	default:
		return fmt.Errorf("unrecognized sink type %q", c.Sink.Type)
	}
	return nil
}
