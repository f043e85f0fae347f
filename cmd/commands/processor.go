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

package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/numaproj/cdstream"
	"github.com/numaproj/cdstream/pkg/config"
	"github.com/numaproj/cdstream/pkg/metrics"
	"github.com/numaproj/cdstream/pkg/processor"
	"github.com/numaproj/cdstream/pkg/shared/logging"
)

func NewProcessorCommand() *cobra.Command {
	var configFile string
	v := config.NewViper()

	command := &cobra.Command{
		Use:   "run",
		Short: "Start streaming a camera",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(v, configFile)
			if err != nil {
				return err
			}
			log := logging.NewLogger().Named("processor")
			version := cdstream.GetVersion()
			log.Infow("Starting camera processor", "version", version)
			metrics.BuildInfo.WithLabelValues("processor", version.Version, version.Platform).Set(1)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx = logging.WithLogger(ctx, log)
			p := &processor.CameraProcessor{Config: c}
			return p.Start(ctx)
		},
	}
	command.Flags().StringVar(&configFile, "config", "", "Path of a YAML configuration file")
	command.Flags().String("camera-name", "", "Camera name, used in every published channel name")
	command.Flags().Duration("delta-t", 0, "Minimum wall clock span of an event batch, e.g. 100us")
	command.Flags().String("source", "", "Source type, 'generator' or 'replay'")
	command.Flags().String("replay-path", "", "Recorded event file played by the replay source")
	command.Flags().String("sink", "", "Sink type, 'log', 'blackhole', 'kafka', 'nats' or 'redis'")
	command.Flags().Bool("publish-frames", true, "Render and publish frames")
	command.Flags().Bool("flush-on-stop", true, "Publish the trailing partial batch when the stream ends")
	command.Flags().Int("metrics-port", 0, "Port of the metrics server")
	bindFlags(v, command, map[string]string{
		"cameraName":         "camera-name",
		"deltaT":             "delta-t",
		"source.type":        "source",
		"source.replay.path": "replay-path",
		"sink.type":          "sink",
		"publishFrames":      "publish-frames",
		"flushOnStop":        "flush-on-stop",
		"metricsPort":        "metrics-port",
	})
	return command
}

// bindFlags lets flags override configuration keys, only when set on the command line.
func bindFlags(v *viper.Viper, cmd *cobra.Command, keys map[string]string) {
	for key, flag := range keys {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %q: %v", flag, err))
		}
	}
}
