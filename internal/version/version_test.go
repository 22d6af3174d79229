package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()

	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
	assert.Positive(t, info.NumCPU)
	assert.True(t, strings.HasPrefix(info.Version, info.SemVer))
}

func TestFullVersion(t *testing.T) {
	out := FullVersion()

	assert.True(t, strings.HasPrefix(out, "git2md "))
	assert.Contains(t, out, "Version Information:")
	assert.Contains(t, out, "Runtime Information:")
	assert.Contains(t, out, "Heap:")
}
