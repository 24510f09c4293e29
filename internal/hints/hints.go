// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-md2wechat/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for snapshot browser connection errors.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}

	return formatHints(hints)
}

// ForConfigNotFound suggests --config or a file in the user config directory.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"
	for _, p := range searchedPaths {
		if strings.Contains(slashed(p), ".config/go-md2wechat") {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

// ForStyleNotFound lists the available style profiles.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForClipboard explains how to get a clipboard tool or avoid needing one.
func ForClipboard() string {
	return format("install wl-clipboard or xclip, or use --out DIR to write files")
}

// ForUploadHost points at the upload host configuration.
func ForUploadHost() string {
	return format("configure upload.primary in the config file; images are embedded until then")
}

// ForFetchTimeout suggests raising the image fetch timeout.
func ForFetchTimeout() string {
	return format("raise export.fetchTimeout for slow image hosts")
}

func slashed(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
