// Package discovery finds project snapshot files on disk.
package discovery

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/dotcommander/igbcscore/internal/project"
)

// DefaultPatterns match snapshot files anywhere below the root.
var DefaultPatterns = []string{
	"**/*.igbc.yaml",
	"**/*.igbc.yml",
	"**/*.igbc.json",
	"**/*.igbc.toml",
}

// File represents a discovered snapshot file
type File struct {
	Path    string
	RelPath string
	Size    int64
	Format  project.Format
}

// IsSnapshotPath reports whether the file name matches one of the patterns.
func IsSnapshotPath(path string, patterns []string) bool {
	slashed := filepath.ToSlash(path)
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, slashed); err == nil && ok {
			return true
		}
		// "**/" also matches a bare file name
		if ok, err := doublestar.Match(strings.TrimPrefix(p, "**/"), filepath.Base(slashed)); err == nil && ok {
			return true
		}
	}
	return false
}

// ValidateFilePath checks that a single file can be read as a snapshot.
//
// The path is resolved to an absolute path; symlinks are followed. The file
// must exist, be a regular non-empty file, have a supported extension and
// must not look binary.
func ValidateFilePath(path string) (absPath string, err error) {
	absPath, err = filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}

	info, err := os.Lstat(absPath) // Lstat to detect symlinks
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %s", absPath)
		}
		if os.IsPermission(err) {
			return "", fmt.Errorf("permission denied: %s", absPath)
		}
		return "", fmt.Errorf("cannot access file: %s: %w", absPath, err)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		realPath, evalErr := filepath.EvalSymlinks(absPath)
		if evalErr != nil {
			return "", fmt.Errorf("cannot resolve symlink %s: %w", absPath, evalErr)
		}
		absPath = realPath
		info, err = os.Stat(absPath)
		if err != nil {
			return "", fmt.Errorf("symlink target inaccessible: %s: %w", absPath, err)
		}
	}

	if info.IsDir() {
		return "", fmt.Errorf("path is a directory, not a file: %s", absPath)
	}
	if info.Size() == 0 {
		return "", fmt.Errorf("file is empty: %s", absPath)
	}
	if _, err := project.FormatFromPath(absPath); err != nil {
		return "", err
	}

	f, err := os.Open(absPath)
	if err != nil {
		return "", fmt.Errorf("cannot read file: %s: %w", absPath, err)
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil {
		return "", fmt.Errorf("cannot read file: %s: %w", absPath, err)
	}
	if bytes.Contains(buf[:n], []byte{0}) {
		return "", fmt.Errorf("file appears to be binary, not text: %s", absPath)
	}

	return absPath, nil
}

// FileDiscovery manages file discovery operations
type FileDiscovery struct {
	rootPath       string
	followSymlinks bool
	patterns       []string
}

// NewFileDiscovery creates a FileDiscovery. Without patterns it uses
// DefaultPatterns.
func NewFileDiscovery(rootPath string, followSymlinks bool, patterns ...string) *FileDiscovery {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	return &FileDiscovery{
		rootPath:       rootPath,
		followSymlinks: followSymlinks,
		patterns:       patterns,
	}
}

// DiscoverFiles finds every snapshot file below the root, sorted by relative
// path. A file matched by several patterns is returned once.
func (fd *FileDiscovery) DiscoverFiles() ([]File, error) {
	seen := make(map[string]bool)
	var files []File

	for _, pattern := range fd.patterns {
		matches, err := doublestar.Glob(os.DirFS(fd.rootPath), pattern)
		if err != nil {
			return nil, fmt.Errorf("error evaluating pattern %s: %w", pattern, err)
		}
		for _, match := range matches {
			if seen[match] {
				continue
			}
			if f, ok := fd.processMatch(match); ok {
				seen[match] = true
				files = append(files, f)
			}
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}

// processMatch converts a glob match into a File, returning false if the match should be skipped.
func (fd *FileDiscovery) processMatch(match string) (File, bool) {
	fullPath := filepath.Join(fd.rootPath, match)

	info, err := os.Lstat(fullPath)
	if err != nil {
		return File{}, false
	}
	if info.Mode()&os.ModeSymlink != 0 {
		resolvedInfo, ok := fd.resolveSymlink(fullPath)
		if !ok {
			return File{}, false
		}
		info = resolvedInfo
	}
	if info.IsDir() {
		return File{}, false
	}

	format, err := project.FormatFromPath(match)
	if err != nil {
		return File{}, false
	}

	return File{
		Path:    fullPath,
		RelPath: filepath.ToSlash(match),
		Size:    info.Size(),
		Format:  format,
	}, true
}

// resolveSymlink follows a symlink if configured. Targets outside the root
// are skipped.
func (fd *FileDiscovery) resolveSymlink(fullPath string) (os.FileInfo, bool) {
	if !fd.followSymlinks {
		return nil, false
	}

	realPath, err := filepath.EvalSymlinks(fullPath)
	if err != nil {
		return nil, false
	}
	root, err := filepath.EvalSymlinks(fd.rootPath)
	if err != nil {
		root = fd.rootPath
	}
	if !strings.HasPrefix(realPath, root) {
		return nil, false
	}

	info, err := os.Stat(realPath)
	if err != nil {
		return nil, false
	}
	return info, true
}

// Collect resolves command-line arguments into snapshot files. Directories
// are searched with the patterns; files are validated and taken as given.
// With no arguments the current directory is searched.
func Collect(args []string, patterns []string, followSymlinks bool) ([]File, error) {
	if len(args) == 0 {
		args = []string{"."}
	}

	var files []File
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if info.IsDir() {
			found, err := NewFileDiscovery(arg, followSymlinks, patterns...).DiscoverFiles()
			if err != nil {
				return nil, err
			}
			files = append(files, found...)
			continue
		}

		abs, err := ValidateFilePath(arg)
		if err != nil {
			return nil, err
		}
		format, _ := project.FormatFromPath(abs)
		files = append(files, File{
			Path:    abs,
			RelPath: filepath.ToSlash(filepath.Clean(arg)),
			Size:    info.Size(),
			Format:  format,
		})
	}
	return files, nil
}
