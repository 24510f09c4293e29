package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/alnah/go-md2wechat/internal/doctree"
)

// ResolveImagePaths rewrites relative <img src> values to absolute file://
// URLs under sourceDir so the export inliner can read them from disk. It
// returns the number of rewritten images. An empty sourceDir is a no-op.
//
// Paths that would escape sourceDir are left untouched.
func ResolveImagePaths(t *doctree.Tree, sourceDir string) (int, error) {
	if sourceDir == "" {
		return 0, nil
	}
	absDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, img := range t.FindAll(t.Root(), "img") {
		src := t.AttrOr(img, "src", "")
		if !isRelativePath(src) {
			continue
		}
		absPath := filepath.Join(absDir, src)
		if !isPathUnderDir(absPath, absDir) {
			continue
		}
		t.SetAttr(img, "src", pathToFileURL(absPath))
		n++
	}
	return n, nil
}

// isRelativePath reports whether src is a relative filesystem path rather
// than a URL, an anchor or an absolute path.
func isRelativePath(src string) bool {
	if src == "" || strings.HasPrefix(src, "#") || strings.HasPrefix(src, "//") {
		return false
	}
	for _, scheme := range []string{"http://", "https://", "file://", "data:"} {
		if strings.HasPrefix(strings.ToLower(src), scheme) {
			return false
		}
	}
	return !filepath.IsAbs(src)
}

// isPathUnderDir checks that absPath stays inside dir.
func isPathUnderDir(absPath, dir string) bool {
	cleanDir := filepath.Clean(dir)
	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}
	return strings.HasPrefix(filepath.Clean(absPath)+string(filepath.Separator), cleanDir)
}

// pathToFileURL converts an absolute path to a file:// URL.
func pathToFileURL(absPath string) string {
	p := filepath.ToSlash(absPath)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p // Windows drive letters
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}

// FileURLToPath converts a file:// URL produced by ResolveImagePaths back to
// a local path.
func FileURLToPath(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "file" {
		return "", false
	}
	p := u.Path
	if len(p) >= 3 && p[0] == '/' && p[2] == ':' {
		p = p[1:] // "/C:/x" on Windows
	}
	return filepath.FromSlash(p), true
}
