package buildinfo

import (
	"fmt"
	"runtime/debug"
)

const devVersion = "dev"

// Version returns the module version or "dev" when unset.
func Version() string {
	info, _ := debug.ReadBuildInfo()
	return version(info)
}

// Revision returns the abbreviated VCS revision stamped at build time, with a
// "-dirty" suffix for modified trees, or "" when unknown.
func Revision() string {
	info, _ := debug.ReadBuildInfo()
	return revision(info)
}

// String returns the version followed by the revision when present.
func String() string {
	info, _ := debug.ReadBuildInfo()
	return format(info)
}

func format(info *debug.BuildInfo) string {
	v := version(info)
	rev := revision(info)
	if rev == "" {
		return v
	}
	return fmt.Sprintf("%s (%s)", v, rev)
}

func version(info *debug.BuildInfo) string {
	if info == nil {
		return devVersion
	}
	v := info.Main.Version
	if v == "" || v == "(devel)" {
		return devVersion
	}
	return v
}

func revision(info *debug.BuildInfo) string {
	if info == nil {
		return ""
	}
	var rev string
	var dirty bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			rev = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if len(rev) > 12 {
		rev = rev[:12]
	}
	if rev != "" && dirty {
		rev += "-dirty"
	}
	return rev
}
