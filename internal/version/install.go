package version

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// InstallMethod is how the binary got onto the machine.
type InstallMethod string

const (
	InstallMethodHomebrew InstallMethod = "homebrew"
	InstallMethodGo       InstallMethod = "go"
	InstallMethodBinary   InstallMethod = "binary"
)

var (
	detectedMethod     InstallMethod
	detectedMethodOnce sync.Once
)

// DetectInstallMethod classifies the running executable. The result is
// cached for the lifetime of the process.
func DetectInstallMethod() InstallMethod {
	detectedMethodOnce.Do(func() {
		exe, err := os.Executable()
		if err == nil {
			if resolved, err := filepath.EvalSymlinks(exe); err == nil {
				exe = resolved
			}
		}
		home, _ := os.UserHomeDir()
		detectedMethod = classify(exe, os.Getenv, home)
	})
	return detectedMethod
}

// classify decides the install method from the executable path alone.
func classify(exe string, getenv func(string) string, home string) InstallMethod {
	if exe == "" {
		return InstallMethodBinary
	}
	sep := string(filepath.Separator)
	if strings.Contains(exe, sep+"Cellar"+sep) || strings.Contains(exe, sep+"homebrew"+sep) ||
		strings.Contains(exe, sep+"linuxbrew"+sep) {
		return InstallMethodHomebrew
	}

	dir := filepath.Dir(exe)
	var goBins []string
	if gobin := getenv("GOBIN"); gobin != "" {
		goBins = append(goBins, gobin)
	}
	if gopath := getenv("GOPATH"); gopath != "" {
		for _, p := range filepath.SplitList(gopath) {
			goBins = append(goBins, filepath.Join(p, "bin"))
		}
	}
	if home != "" {
		goBins = append(goBins, filepath.Join(home, "go", "bin"))
	}
	for _, b := range goBins {
		if dir == filepath.Clean(b) {
			return InstallMethodGo
		}
	}
	if strings.Contains(exe, sep+"go"+sep+"bin"+sep) {
		return InstallMethodGo
	}
	return InstallMethodBinary
}
