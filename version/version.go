// Package version holds build information stamped in via -ldflags.
package version

import (
	"fmt"
	"runtime"
)

// These are set at build time:
//
//	go build -ldflags "-X github.com/jackzampolin/freestyle/version.GitRelease=v0.1.0 ..."
var (
	GitRelease    = "dev"
	GitCommit     = "unknown"
	GitCommitDate = "unknown"
	GoInfo        = fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)
)

// Info is the build description printed by `freestyle version`.
type Info struct {
	Release string `json:"release" yaml:"release"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
	Go      string `json:"go" yaml:"go"`
}

// Get returns the stamped build information.
func Get() Info {
	return Info{
		Release: GitRelease,
		Commit:  GitCommit,
		Date:    GitCommitDate,
		Go:      GoInfo,
	}
}

// String renders the one-line form logged at server start.
func (i Info) String() string {
	return fmt.Sprintf("freestyle %s (%s, %s)", i.Release, i.Commit, i.Go)
}
