package version

import (
	"fmt"
	"runtime"
)

// set at build time via -ldflags
var (
	Version   string
	Commit    string
	BuildTime string
)

type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildTime string `json:"build_time,omitempty"`
	GoVersion string `json:"go_version"`
}

func Details() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}
}

// String returns version details as pretty printed string.
func String() string {
	return fmt.Sprintf(
		"flamescale version %s, commit %s (%s), go version %s",
		Version,
		Commit,
		BuildTime,
		runtime.Version(),
	)
}
