package version

import (
	"fmt"
	"runtime"
)

// Overridden at build time through -ldflags.
var (
	Version   = "1.2.4"
	Commit    = "unknown"
	BuildDate = "unknown"
)

const serviceName = "gatehouse"

// Info is the payload served by the version endpoint.
type Info struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

func GetInfo() Info {
	return Info{
		Service:   serviceName,
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}
