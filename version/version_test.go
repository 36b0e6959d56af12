package version

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	orig := GitRelease
	GitRelease = "v1.2.3"
	t.Cleanup(func() { GitRelease = orig })

	info := Get()
	assert.Equal(t, "v1.2.3", info.Release)
	assert.Equal(t, GitCommit, info.Commit)
	assert.Equal(t, runtime.Version()+" "+runtime.GOOS+"/"+runtime.GOARCH, info.Go)
	assert.True(t, strings.HasPrefix(info.String(), "freestyle v1.2.3 ("))
}
