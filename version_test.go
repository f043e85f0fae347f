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


package cdstream

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersion_String(t *testing.T) {
	v := Version{
		Version:      "v0.3.0",
		BuildDate:    "2024-07-01T00:00:00Z",
		GitCommit:    "0123456789abcdef",
		GitTag:       "v0.3.0",
		GitTreeState: "clean",
		GoVersion:    "go1.22.5",
		Compiler:     "gc",
		Platform:     "linux/arm64",
	}
	assert.Equal(t, "Version: v0.3.0, BuildDate: 2024-07-01T00:00:00Z, GitCommit: 0123456789abcdef, GitTag: v0.3.0, GitTreeState: clean, GoVersion: go1.22.5, Compiler: gc, Platform: linux/arm64", v.String())
}

func TestGetVersion(t *testing.T) {
	saved := [4]string{version, gitCommit, gitTag, gitTreeState}
	t.Cleanup(func() {
		version, gitCommit, gitTag, gitTreeState = saved[0], saved[1], saved[2], saved[3]
	})

	tests := []struct {
		name      string
		commit    string
		tag       string
		treeState string
		want      string
	}{
		{name: "tagged release", commit: "0123456789abcdef", tag: "v0.3.0", treeState: "clean", want: "v0.3.0"},
		{name: "dirty tree", commit: "0123456789abcdef", tag: "v0.3.0", treeState: "dirty", want: "dev+0123456.dirty"},
		{name: "untagged clean", commit: "0123456789abcdef", treeState: "clean", want: "dev+0123456"},
		{name: "short commit", commit: "0123", want: "dev+unknown"},
		{name: "no metadata", want: "dev+unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version, gitCommit, gitTag, gitTreeState = "dev", tt.commit, tt.tag, tt.treeState
			v := GetVersion()
			assert.Equal(t, tt.want, v.Version)
			assert.Equal(t, tt.commit, v.GitCommit)
			assert.Equal(t, runtime.Version(), v.GoVersion)
			assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, v.Platform)
		})
	}
}
