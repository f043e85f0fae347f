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
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numaproj/cdstream"
)

func Test_Commands(t *testing.T) {
	t.Run("root help", func(t *testing.T) {
		b := bytes.NewBufferString("")
		rootCmd.SetOut(b)
		rootCmd.SetArgs([]string{"help"})
		Execute()
		output, _ := io.ReadAll(b)
		assert.Contains(t, string(output), "Available Commands")
		assert.Contains(t, string(output), "run")
	})

	t.Run("version", func(t *testing.T) {
		cmd := NewVersionCommand()
		b := bytes.NewBufferString("")
		cmd.SetOut(b)
		cmd.SetArgs([]string{"--short"})
		require.NoError(t, cmd.Execute())
		assert.Equal(t, cdstream.GetVersion().Version+"\n", b.String())
	})

	t.Run("run flags", func(t *testing.T) {
		cmd := NewProcessorCommand()
		assert.True(t, cmd.HasLocalFlags())
		assert.Equal(t, "run", cmd.Use)
		assert.Equal(t, "duration", cmd.Flag("delta-t").Value.Type())
		assert.Equal(t, "string", cmd.Flag("sink").Value.Type())
		assert.Equal(t, "int", cmd.Flag("metrics-port").Value.Type())
	})

	t.Run("run invalid config", func(t *testing.T) {
		cmd := NewProcessorCommand()
		cmd.SetArgs([]string{"--delta-t=-1us"})
		cmd.SilenceUsage = true
		err := cmd.Execute()
		assert.ErrorContains(t, err, "deltaT must be positive")

		cmd = NewProcessorCommand()
		cmd.SetArgs([]string{"--config=/nonexistent/cdstream.yaml"})
		cmd.SilenceUsage = true
		err = cmd.Execute()
		assert.ErrorContains(t, err, "failed to load configuration file")
	})
}
