package version

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func withBuildVars(t *testing.T, v, commit, built string) {
	t.Helper()
	oldV, oldC, oldB := Version, GitCommit, BuildTime
	Version, GitCommit, BuildTime = v, commit, built
	t.Cleanup(func() {
		Version, GitCommit, BuildTime = oldV, oldC, oldB
	})
}

func TestGetShortVersion(t *testing.T) {
	t.Run("release with commit", func(t *testing.T) {
		withBuildVars(t, "v1.2.3", "abcdef0123456", "unknown")
		assert.Equal(t, "v1.2.3 (abcdef0)", GetShortVersion())
		assert.True(t, IsRelease())
	})

	t.Run("dev with commit", func(t *testing.T) {
		withBuildVars(t, "dev", "abcdef0123456", "unknown")
		assert.Equal(t, "dev-abcdef0", GetShortVersion())
		assert.False(t, IsRelease())
	})

	t.Run("release without commit", func(t *testing.T) {
		withBuildVars(t, "v0.1.0", "", "unknown")
		// Test binaries may still carry a VCS revision.
		assert.Contains(t, GetShortVersion(), "v0.1.0")
	})
}

func TestGetBuildInfo(t *testing.T) {
	withBuildVars(t, "v2.0.0", "1234567890", "2024-03-01T10:00:00Z")

	info := GetBuildInfo()
	assert.Equal(t, "v2.0.0", info.Version)
	assert.Equal(t, "1234567890", info.GitCommit)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), info.BuildTime)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
}

func TestParseBuildTime(t *testing.T) {
	tests := []struct {
		in   string
		zero bool
	}{
		{"2024-01-02T03:04:05Z", false},
		{"2024-01-02T03:04:05", false},
		{"2024-01-02 03:04:05", false},
		{"unknown", true},
		{"", true},
		{"yesterday", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.zero, parseBuildTime(tt.in).IsZero())
		})
	}
}
