// Package git lists snapshot files with uncommitted changes, so hooks can
// score only what a commit touches.
package git

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/dotcommander/igbcscore/internal/discovery"
)

// StagedSnapshots returns absolute paths of staged snapshot files below
// rootPath. Returns an empty slice outside a git repository.
func StagedSnapshots(rootPath string, patterns []string) ([]string, error) {
	if !IsGitRepo(rootPath) {
		return []string{}, nil
	}

	output, err := run(rootPath, "diff", "--name-only", "--relative", "--staged")
	if err != nil {
		return nil, err
	}
	return filterSnapshots(output, rootPath, patterns), nil
}

// ChangedSnapshots returns absolute paths of snapshot files with staged or
// unstaged changes below rootPath. In a repository without commits every
// tracked snapshot counts as changed.
func ChangedSnapshots(rootPath string, patterns []string) ([]string, error) {
	if !IsGitRepo(rootPath) {
		return []string{}, nil
	}

	check := exec.Command("git", "rev-parse", "HEAD")
	check.Dir = rootPath
	if err := check.Run(); err != nil {
		output, err := run(rootPath, "ls-files")
		if err != nil {
			return nil, err
		}
		return filterSnapshots(output, rootPath, patterns), nil
	}

	output, err := run(rootPath, "diff", "--name-only", "--relative", "HEAD")
	if err != nil {
		return nil, err
	}
	return filterSnapshots(output, rootPath, patterns), nil
}

// IsGitRepo checks if the given directory is within a git repository.
func IsGitRepo(rootPath string) bool {
	cmd := exec.Command("git", "rev-parse", "--git-dir")
	cmd.Dir = rootPath
	return cmd.Run() == nil
}

func run(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s failed: %w: %s", strings.Join(args, " "), err, output)
	}
	return string(output), nil
}

// filterSnapshots keeps the existing files of git's path list that match the
// snapshot patterns. Deleted files are reported by git too and are dropped.
func filterSnapshots(gitOutput, rootPath string, patterns []string) []string {
	files := []string{}
	for _, line := range strings.Split(strings.TrimSpace(gitOutput), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !discovery.IsSnapshotPath(line, patterns) {
			continue
		}
		abs := filepath.Join(rootPath, line)
		if _, err := os.Stat(abs); err != nil {
			continue
		}
		files = append(files, abs)
	}
	return files
}
