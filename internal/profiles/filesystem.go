package profiles

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FilesystemLoader loads profiles from {basePath}/{key}.yaml.
type FilesystemLoader struct {
	basePath string
}

// NewFilesystemLoader creates a FilesystemLoader for a readable directory.
func NewFilesystemLoader(basePath string) (*FilesystemLoader, error) {
	if basePath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	// Resolve symlinks so containment checks compare real paths.
	if realPath, err := filepath.EvalSymlinks(absPath); err == nil {
		absPath = realPath
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, absPath)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, absPath)
	}

	return &FilesystemLoader{basePath: absPath}, nil
}

// Load reads {basePath}/{key}.yaml, falling back to the .yml extension.
func (f *FilesystemLoader) Load(key string) (Profile, error) {
	if err := ValidateKey(key); err != nil {
		return Profile{}, err
	}

	for _, ext := range []string{".yaml", ".yml"} {
		filePath := filepath.Join(f.basePath, key+ext)
		if err := f.verifyPathContainment(filePath); err != nil {
			return Profile{}, err
		}
		data, err := os.ReadFile(filePath) // #nosec G304 -- path validated above
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return Profile{}, fmt.Errorf("%w: %v", ErrProfileRead, err)
		}
		return Parse(key, data)
	}
	return Profile{}, fmt.Errorf("%w: %q", ErrProfileNotFound, key)
}

// Keys lists profile files in the directory.
func (f *FilesystemLoader) Keys() ([]string, error) {
	entries, err := os.ReadDir(f.basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileRead, err)
	}
	seen := make(map[string]bool)
	var keys []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		key := strings.TrimSuffix(name, ext)
		if ValidateKey(key) != nil || seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// verifyPathContainment rejects paths that resolve outside basePath,
// including through symlinks.
func (f *FilesystemLoader) verifyPathContainment(filePath string) error {
	absFilePath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("%w: cannot resolve path", ErrPathTraversal)
	}
	if realPath, err := filepath.EvalSymlinks(absFilePath); err == nil {
		absFilePath = realPath
	}

	base := filepath.Clean(f.basePath) + string(filepath.Separator)
	if !strings.HasPrefix(filepath.Clean(absFilePath), base) {
		return fmt.Errorf("%w: %s", ErrPathTraversal, filePath)
	}
	return nil
}

// Compile-time interface check.
var _ Loader = (*FilesystemLoader)(nil)
