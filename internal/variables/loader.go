package variables

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"bennypowers.dev/cssa/internal/log"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
)

// Load reads every variables file named by patterns and merges their
// declarations into one index. Patterns are paths or doublestar globs,
// relative to root unless absolute.
//
// Files that cannot be resolved or read are reported through the returned
// error; the index still holds whatever could be read, so callers can log the
// error and carry on.
func Load(fsys afero.Fs, root string, patterns []string) (*Index, []string, error) {
	idx := Empty()
	var files []string
	var errs error

	for _, pattern := range patterns {
		paths, err := ResolvePaths(fsys, root, pattern)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if len(paths) == 0 {
			errs = multierr.Append(errs, fmt.Errorf("no variables file matches %q", pattern))
			continue
		}

		for _, path := range paths {
			data, err := afero.ReadFile(fsys, path)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("failed to read variables file %s: %w", path, err))
				continue
			}
			fileIdx := buildFrom(string(data), path)
			log.Info("Indexed %d values from %s", fileIdx.Len(), path)
			idx = idx.Merge(fileIdx)
			files = append(files, path)
		}
	}

	return idx, files, errs
}

// ResolvePaths expands one configured variables file path against root.
// A pattern without glob syntax resolves to exactly one path, whether or not
// the file exists.
func ResolvePaths(fsys afero.Fs, root, pattern string) ([]string, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil, fmt.Errorf("variables file path must not be empty")
	}

	abs := absolutePattern(root, pattern)
	if !hasGlobMeta(pattern) {
		return []string{abs}, nil
	}

	base, rel := splitPattern(abs)
	matches, err := doublestar.Glob(afero.NewIOFS(afero.NewBasePathFs(fsys, base)), rel)
	if err != nil {
		return nil, fmt.Errorf("invalid variables file pattern %q: %w", pattern, err)
	}

	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		paths = append(paths, filepath.Join(base, filepath.FromSlash(m)))
	}
	sort.Strings(paths)
	return paths, nil
}

// Matches reports whether path is one of the files the patterns select.
func Matches(root string, patterns []string, path string) bool {
	target := filepath.ToSlash(filepath.Clean(path))
	for _, pattern := range patterns {
		if strings.TrimSpace(pattern) == "" {
			continue
		}
		abs := filepath.ToSlash(absolutePattern(root, pattern))
		if ok, err := doublestar.Match(abs, target); err == nil && ok {
			return true
		}
	}
	return false
}

// WatchDir is a directory whose contents decide which files a set of
// patterns selects. Recursive directories need their subdirectories
// watched too.
type WatchDir struct {
	Path      string
	Recursive bool
}

// WatchDirs returns the directories to watch for patterns: the parent of
// each literal path, and the literal prefix of each glob. Only globs that
// reach below their prefix, such as tokens/**/*.less, are recursive. The
// result is sorted by path and holds each directory once.
func WatchDirs(root string, patterns []string) []WatchDir {
	recursive := map[string]bool{}
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		abs := absolutePattern(root, pattern)
		if !hasGlobMeta(pattern) {
			dir := filepath.Dir(abs)
			if _, seen := recursive[dir]; !seen {
				recursive[dir] = false
			}
			continue
		}
		base, rel := splitPattern(abs)
		recursive[base] = recursive[base] || strings.Contains(rel, "/") || strings.Contains(rel, "**")
	}

	dirs := make([]WatchDir, 0, len(recursive))
	for path, r := range recursive {
		dirs = append(dirs, WatchDir{Path: path, Recursive: r})
	}
	sort.Slice(dirs, func(i, j int) bool { return dirs[i].Path < dirs[j].Path })
	return dirs
}

func absolutePattern(root, pattern string) string {
	pattern = strings.TrimPrefix(pattern, "./")
	if filepath.IsAbs(pattern) || root == "" {
		return filepath.Clean(pattern)
	}
	return filepath.Join(root, pattern)
}

func hasGlobMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// splitPattern splits an absolute glob into the longest literal directory
// prefix and the remaining slash-separated pattern.
func splitPattern(abs string) (base, rel string) {
	segments := strings.Split(filepath.ToSlash(abs), "/")
	i := 0
	for ; i < len(segments)-1; i++ {
		if hasGlobMeta(segments[i]) {
			break
		}
	}
	base = strings.Join(segments[:i], "/")
	if base == "" {
		base = "/"
	}
	return filepath.FromSlash(base), strings.Join(segments[i:], "/")
}
