package anglify

import "runtime/debug"

const (
	Name        = "anglify"
	Description = "American and British English translator"
	Version     = "0.1.0"
)

// Stamped at release time:
//
//	go build -ldflags "-X github.com/ZaguanLabs/anglify.GitCommit=$(git rev-parse HEAD) -X github.com/ZaguanLabs/anglify.BuildDate=$(date -u +%FT%TZ)"
var (
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildDate string
	Modified  bool // built from a dirty tree
}

// Build returns the stamped build information. When the binary was not
// stamped, the commit and date fall back to the VCS data the go tool embeds.
func Build() BuildInfo {
	b := BuildInfo{Version: Version, Commit: GitCommit, BuildDate: BuildDate}
	if known(b.Commit) && known(b.BuildDate) {
		return b
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return b
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if !known(b.Commit) {
				b.Commit = s.Value
			}
		case "vcs.time":
			if !known(b.BuildDate) {
				b.BuildDate = s.Value
			}
		case "vcs.modified":
			b.Modified = s.Value == "true"
		}
	}
	return b
}

// FullVersion is Version with a short commit suffix when one is known,
// e.g. "0.1.0+1a2b3c4" or "0.1.0+1a2b3c4.dirty".
func FullVersion() string {
	b := Build()
	if !known(b.Commit) {
		return b.Version
	}
	v := b.Version + "+" + shortCommit(b.Commit)
	if b.Modified {
		v += ".dirty"
	}
	return v
}

func shortCommit(c string) string {
	if len(c) > 7 {
		return c[:7]
	}
	return c
}

func known(s string) bool {
	return s != "" && s != "unknown"
}
