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

package kafka

import (
	"context"
	"fmt"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/numaproj/cdstream/pkg/config"
	"github.com/numaproj/cdstream/pkg/events"
	"github.com/numaproj/cdstream/pkg/frames"
	"github.com/numaproj/cdstream/pkg/shared/logging"
	"github.com/numaproj/cdstream/pkg/shared/util"
	"github.com/numaproj/cdstream/pkg/sinks"
	"github.com/numaproj/cdstream/pkg/status"
	"github.com/numaproj/cdstream/pkg/window"
)

// ToKafka produces every output to a kafka topic of the camera. Kafka retains what it is
// given, so readers that attach later still find the data and both channels always count
// as consumed.
type ToKafka struct {
	camera   string
	producer sarama.SyncProducer
	encoder  *sinks.Encoder
	log      *zap.SugaredLogger
}

type Option func(*ToKafka) error

func WithLogger(log *zap.SugaredLogger) Option {
	return func(t *ToKafka) error {
		t.log = log
		return nil
	}
}

// WithProducer replaces the producer built from the configuration.
func WithProducer(p sarama.SyncProducer) Option {
	return func(t *ToKafka) error {
		t.producer = p
		return nil
	}
}

// NewToKafka returns ToKafka type.
func NewToKafka(ctx context.Context, info events.SensorInfo, kafkaSink config.KafkaConfig, opts ...Option) (*ToKafka, error) {
	toKafka := &ToKafka{
		camera:  info.CameraName,
		encoder: sinks.NewEncoder(info),
	}
	for _, o := range opts {
		if err := o(toKafka); err != nil {
			return nil, err
		}
	}
	if toKafka.log == nil {
		toKafka.log = logging.FromContext(ctx)
	}
	toKafka.log = toKafka.log.With("sinkType", "kafka").With("camera", info.CameraName)
	if toKafka.producer != nil {
		return toKafka, nil
	}
	cfg, err := util.NewSaramaProducerConfig(kafkaSink.Config, "cdstream-"+info.CameraName, kafkaSink.TLS)
	if err != nil {
		return nil, err
	}
	producer, err := sarama.NewSyncProducer(kafkaSink.Brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer. %w", err)
	}
	toKafka.producer = producer
	return toKafka, nil
}

// GetName returns the name.
func (tk *ToKafka) GetName() string {
	return "kafka"
}

func (tk *ToKafka) HasBatchConsumer(context.Context) bool {
	return true
}

func (tk *ToKafka) HasStatusConsumer(context.Context) bool {
	return true
}

// WriteBatch writes one batch as one record, keyed by camera.
func (tk *ToKafka) WriteBatch(_ context.Context, b *window.CompletedBatch) error {
	payload, err := tk.encoder.EncodeBatch(b)
	if err != nil {
		return fmt.Errorf("failed to encode batch, %w", err)
	}
	return tk.send(sinks.ChannelEvents, payload, b.WindowEnd.UnixMicro())
}

func (tk *ToKafka) WriteFrame(_ context.Context, f *frames.Frame) error {
	payload, err := tk.encoder.EncodeFrame(f)
	if err != nil {
		return fmt.Errorf("failed to encode frame, %w", err)
	}
	return tk.send(sinks.ChannelFrames, payload, f.T)
}

func (tk *ToKafka) WriteStatus(_ context.Context, s *status.Status) error {
	payload, err := tk.encoder.EncodeStatus(s)
	if err != nil {
		return fmt.Errorf("failed to encode status, %w", err)
	}
	return tk.send(sinks.ChannelInfo, payload, s.Stamp.UnixMicro())
}

func (tk *ToKafka) send(ch sinks.Channel, payload []byte, stampMicros int64) error {
	msg := &sarama.ProducerMessage{
		Topic: sinks.TopicName(tk.camera, ch),
		Key:   sarama.StringEncoder(tk.camera),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("stamp_us"), Value: []byte(fmt.Sprint(stampMicros))},
		},
	}
	if _, _, err := tk.producer.SendMessage(msg); err != nil {
		kafkaSinkWriteErrors.WithLabelValues(tk.camera, string(ch)).Inc()
		tk.log.Errorw("SendMessage failed", zap.String("topic", msg.Topic), zap.Error(err))
		return fmt.Errorf("failed to send to topic %s, %w", msg.Topic, err)
	}
	kafkaSinkWriteCount.WithLabelValues(tk.camera, string(ch)).Inc()
	kafkaSinkWriteBytes.WithLabelValues(tk.camera, string(ch)).Add(float64(len(payload)))
	return nil
}

func (tk *ToKafka) Close() error {
	tk.log.Info("Closing kafka producer...")
	return tk.producer.Close()
}

var _ sinks.Sinker = (*ToKafka)(nil)
