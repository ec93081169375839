package cmd

import (
	"testing"

	"github.com/Greenfield-Taster/ChatService/modules/api"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/stretchr/testify/assert"
)

// mockLogger implements types.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(_ string, _ ...any) {}
func (m *mockLogger) Info(_ string, _ ...any)  {}
func (m *mockLogger) Warn(_ string, _ ...any)  {}
func (m *mockLogger) Error(_ string, _ ...any) {}
func (m *mockLogger) With(_ ...any) types.Logger {
	return m
}
func (m *mockLogger) WithModule(_ string) types.Logger {
	return m
}
func (m *mockLogger) WithError(_ error) types.Logger {
	return m
}

func TestBannerEndpoints_AreRegistered(t *testing.T) {
	registered := make(map[string]bool)
	for _, r := range api.NewModule(api.DefaultConfig(), &mockLogger{}).Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	for _, e := range bannerEndpoints {
		assert.True(t, registered[e.Method+" "+e.Path], "%s %s is not a registered route", e.Method, e.Path)
	}
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		name string
		want mono.LogLevel
	}{
		{name: "debug", want: mono.LogLevelDebug},
		{name: "info", want: mono.LogLevelInfo},
		{name: "warn", want: mono.LogLevelWarn},
		{name: "error", want: mono.LogLevelError},
		{name: "", want: mono.LogLevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logLevel(tt.name))
		})
	}
}
