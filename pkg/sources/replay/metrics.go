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

package replay

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/numaproj/cdstream/pkg/metrics"
)

// replaySourceReadCount is used to indicate the number of events read from a recording
var replaySourceReadCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "replay_source",
	Name:      "read_total",
	Help:      "Total number of events read from the recording",
}, []string{metrics.LabelCamera})

// replaySourceLag is how far behind the recording's event time delivery is, in realtime mode
var replaySourceLag = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Subsystem: "replay_source",
	Name:      "lag_seconds",
	Help:      "Delay between the recorded time of the last event of a chunk and its delivery",
}, []string{metrics.LabelCamera})
