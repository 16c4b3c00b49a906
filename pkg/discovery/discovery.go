// Package discovery selects the headers to translate under a root
// directory using glob patterns with ignore rules.
package discovery

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// HeaderDiscovery walks a directory tree for headers matching the
// configured patterns.
type HeaderDiscovery struct {
	rootDir        string
	patterns       []compiledPattern
	ignorePatterns []compiledPattern
}

// NewHeaderDiscovery compiles the header and ignore patterns. An empty
// pattern list defaults to every .h file in the tree.
func NewHeaderDiscovery(rootDir string, patterns, ignorePatterns []string) (*HeaderDiscovery, error) {
	if len(patterns) == 0 {
		patterns = []string{"**/*.h"}
	}

	hd := &HeaderDiscovery{rootDir: rootDir}

	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		hd.patterns = append(hd.patterns, compiledPattern{pattern: pattern, glob: g})
	}

	for _, pattern := range ignorePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		hd.ignorePatterns = append(hd.ignorePatterns, compiledPattern{pattern: pattern, glob: g})
	}

	return hd, nil
}

// Discover walks the tree and returns matching header paths in a stable
// order.
func (hd *HeaderDiscovery) Discover() ([]string, error) {
	headers := []string{}

	err := filepath.Walk(hd.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(hd.rootDir, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if hd.shouldIgnore(relPath) {
			return nil
		}
		if matchesAnyPattern(relPath, hd.patterns) {
			headers = append(headers, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(headers)
	return headers, nil
}

// shouldIgnore checks if a path matches any ignore pattern. A "dir/**"
// pattern also covers the directory entry itself.
func (hd *HeaderDiscovery) shouldIgnore(relPath string) bool {
	if matchesAnyPattern(relPath, hd.ignorePatterns) {
		return true
	}
	return matchesAnyPattern(relPath+"/**", hd.ignorePatterns)
}

// matchesAnyPattern checks if a path matches any of the given patterns.
// Root-level files also match "**/"-prefixed patterns with the prefix
// stripped, so "**/*.h" covers both "api.h" and "sys/api.h".
func matchesAnyPattern(path string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
	}

	if !strings.Contains(path, "/") {
		for _, cp := range patterns {
			if strings.HasPrefix(cp.pattern, "**/") {
				simplified := strings.TrimPrefix(cp.pattern, "**/")
				if simplifiedGlob, err := glob.Compile(simplified, '/'); err == nil {
					if simplifiedGlob.Match(path) {
						return true
					}
				}
			}
		}
	}

	return false
}
