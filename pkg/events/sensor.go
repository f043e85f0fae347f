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

package events

// Geometry is the pixel resolution of the sensor.
type Geometry struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Contains reports whether the pixel coordinate falls inside the sensor.
func (g Geometry) Contains(x, y uint16) bool {
	return int(x) < g.Width && int(y) < g.Height
}

// SensorInfo identifies the sensor. It is read once at startup and republished as is.
type SensorInfo struct {
	CameraName   string   `json:"cameraName"`
	SerialNumber string   `json:"serialNumber"`
	FrameID      string   `json:"frameId"`
	Geometry     Geometry `json:"geometry"`
}
