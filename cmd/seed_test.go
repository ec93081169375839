package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedCmd(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CHAT_AUTH_JWT_SECRET", "0123456789abcdef0123")
	dbPath := filepath.Join(t.TempDir(), "seed.db")

	run := func() string {
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetArgs([]string{"seed", "--db", dbPath})
		require.NoError(t, rootCmd.Execute())
		return out.String()
	}

	first := run()
	assert.Contains(t, first, "support@example.com")
	assert.Contains(t, first, "alice@example.com")
	assert.Equal(t, 4, strings.Count(first, "token: "))

	// Upserting by email keeps ids stable.
	second := run()
	firstIDs := idLines(first)
	assert.Equal(t, firstIDs, idLines(second))
	assert.Len(t, firstIDs, 4)
}

func idLines(out string) []string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		if line != "" && !strings.Contains(line, "token:") {
			lines = append(lines, line)
		}
	}
	return lines
}
