// Package version reports the build version of the binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Info describes the running build.
type Info struct {
	Version   string
	Revision  string
	Modified  bool
	GoVersion string
	Install   InstallMethod
}

// String formats the info for `fathom version --verbose`.
func (i Info) String() string {
	s := fmt.Sprintf("fathom %s (%s", i.Version, i.GoVersion)
	if i.Revision != "" {
		s += ", rev " + shortRevision(i.Revision)
		if i.Modified {
			s += "+dirty"
		}
	}
	return s + ", installed via " + string(i.Install) + ")"
}

// Read collects the build info. ldflagsVersion is the value injected at
// build time with -X main.Version, possibly empty.
func Read(ldflagsVersion string) Info {
	info := Info{GoVersion: runtime.Version(), Install: DetectInstallMethod()}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.Revision, info.Modified = vcsSettings(bi.Settings)
		info.Version = resolve(ldflagsVersion, bi.Main.Version, info.Revision, info.Modified)
	} else {
		info.Version = resolve(ldflagsVersion, "", "", false)
	}
	return info
}

// resolve picks the version string: the injected one, then the module
// version, then a devel version built from the VCS revision.
func resolve(injected, module, revision string, dirty bool) string {
	if injected != "" {
		return injected
	}
	if module != "" && module != "(devel)" {
		return module
	}
	if revision == "" {
		return "devel"
	}
	v := "devel+" + shortRevision(revision)
	if dirty {
		v += "+dirty"
	}
	return v
}

func vcsSettings(settings []debug.BuildSetting) (revision string, modified bool) {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}
	return revision, modified
}

// shortRevision returns the first 12 chars of a revision.
func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}
