// SPDX-License-Identifier: Apache-2.0

package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// fakeEnvReader is a hand-written env.Reader fake for tests, avoiding the
// need for a generated mock for a single-method interface.
type fakeEnvReader map[string]string

func (f fakeEnvReader) Getenv(key string) string { return f[key] }

type mockDebugProvider struct {
	debug bool
}

func (m *mockDebugProvider) IsDebug() bool {
	return m.debug
}

func TestUnstructuredLogsCheck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		envValue string
		expected bool
	}{
		{"Default Case", "", true},
		{"Explicitly True", "true", true},
		{"Explicitly False", "false", false},
		{"Invalid Value", "not-a-bool", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			reader := fakeEnvReader{"UNSTRUCTURED_LOGS": tt.envValue}
			if got := unstructuredLogsWithEnv(reader); got != tt.expected {
				t.Errorf("unstructuredLogsWithEnv() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestInitializeWithDebug(t *testing.T) { //nolint:paralleltest // Uses global logger state
	t.Run("Debug Mode Enabled", func(t *testing.T) { //nolint:paralleltest // Uses global logger state
		reader := fakeEnvReader{"UNSTRUCTURED_LOGS": "false"}
		debugProvider := &mockDebugProvider{debug: true}
		InitializeWithOptions(reader, debugProvider)

		core, observedLogs := observer.New(zapcore.DebugLevel)
		logger := zap.New(core)
		zap.ReplaceGlobals(logger)

		Debugw("debug test message", "key", "value")

		allEntries := observedLogs.All()
		require.Len(t, allEntries, 1, "Expected one log entry")
		assert.Equal(t, "debug", allEntries[0].Level.String())
	})

	t.Run("Debug Mode Disabled", func(t *testing.T) { //nolint:paralleltest // Uses global logger state
		reader := fakeEnvReader{"UNSTRUCTURED_LOGS": "false"}
		debugProvider := &mockDebugProvider{debug: false}
		InitializeWithOptions(reader, debugProvider)

		core, observedLogs := observer.New(zapcore.InfoLevel)
		logger := zap.New(core)
		zap.ReplaceGlobals(logger)

		Debugw("debug test message - should not appear")

		allEntries := observedLogs.All()
		require.Len(t, allEntries, 0, "Expected no log entries below the configured level")
	})
}

