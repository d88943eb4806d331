// Package version carries build metadata for the storagehub binaries.
// Release builds set the variables through -ldflags; dev builds fall back to the Go build info.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

const devVersion = "0.1.0-dev"

var (
	AppName   = "storagehub"
	Version   = devVersion
	Revision  = "HEAD"
	BuildDate = ""
)

// Info is the build metadata reported by the gateway
type Info struct {
	App       string `json:"app"`
	Version   string `json:"version"`
	Revision  string `json:"revision"`
	BuildDate string `json:"buildDate"`
	Go        string `json:"go"`
	Platform  string `json:"platform"`
}

func Current() Info {
	return Info{
		App:       AppName,
		Version:   Version,
		Revision:  Revision,
		BuildDate: BuildDate,
		Go:        runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// Short returns `0.1.0 (5e23a4)`
func Short() string {
	return fmt.Sprintf("%s (%s)", Version, Revision)
}

// ShortWithApp returns `storagehub 0.1.0 (5e23a4)`
func ShortWithApp() string {
	return AppName + " " + Short()
}

// Detailed returns `0.1.0 (5e23a4; go1.23.6; linux/amd64; 2025-03-14T09:26:53Z)`
func Detailed() string {
	i := Current()
	return fmt.Sprintf("%s (%s; %s; %s; %s)", i.Version, i.Revision, i.Go, i.Platform, i.BuildDate)
}

func DetailedWithApp() string {
	return AppName + " " + Detailed()
}

// fillFromBuildInfo only replaces values that ldflags left at their defaults
func fillFromBuildInfo(mainVersion string, settings map[string]string) {
	if (Version == devVersion || Version == "") && mainVersion != "" && mainVersion != "(devel)" {
		Version = strings.TrimPrefix(mainVersion, "v")
	}

	if rev := settings["vcs.revision"]; (Revision == "HEAD" || Revision == "") && rev != "" {
		if settings["vcs.modified"] == "true" {
			rev += "-dirty"
		}
		Revision = rev
	}

	if BuildDate == "" {
		BuildDate = settings["vcs.time"]
	}
}

func init() {
	if info, ok := debug.ReadBuildInfo(); ok && info != nil {
		settings := make(map[string]string, len(info.Settings))
		for _, s := range info.Settings {
			settings[s.Key] = s.Value
		}
		fillFromBuildInfo(info.Main.Version, settings)
	}
	if BuildDate == "" {
		BuildDate = time.Now().UTC().Format(time.RFC3339)
	}
}
