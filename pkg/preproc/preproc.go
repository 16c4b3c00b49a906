// Package preproc runs the system C preprocessor over input headers and
// interprets the line markers it leaves behind.
package preproc

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Options configures the preprocessing step
type Options struct {
	IncludePaths []string          // -I directories
	SystemPaths  []string          // -isystem directories
	Defines      map[string]string // -D macros (name -> value, empty string for simple define)
	Undefines    []string          // -U macros
	ExtraFlags   []string          // passed through verbatim
	Command      string            // preprocessor to run; empty means first of cc, gcc, clang
}

// Preprocess runs the system C preprocessor on the given file and returns
// the preprocessed source, line markers included. A failure carries the
// tool's stderr.
func Preprocess(filename string, opts *Options) (string, error) {
	args := []string{"-E"}

	if opts != nil {
		for _, path := range opts.IncludePaths {
			args = append(args, "-I"+path)
		}
		for _, path := range opts.SystemPaths {
			args = append(args, "-isystem", path)
		}
		for name, value := range opts.Defines {
			if value == "" {
				args = append(args, "-D"+name)
			} else {
				args = append(args, "-D"+name+"="+value)
			}
		}
		for _, name := range opts.Undefines {
			args = append(args, "-U"+name)
		}
		args = append(args, opts.ExtraFlags...)
	}

	args = append(args, filename)

	cppCmd := ""
	if opts != nil {
		cppCmd = opts.Command
	}
	if cppCmd == "" {
		cppCmd = FindPreprocessor()
	}
	if cppCmd == "" {
		return "", fmt.Errorf("no C preprocessor found (tried: cc, gcc, clang)")
	}

	cmd := exec.Command(cppCmd, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// Relative includes resolve against the file's own directory.
	cmd.Dir = filepath.Dir(filename)

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("preprocessing failed: %v\n%s", err, stderr.String())
	}

	return stdout.String(), nil
}

// PreprocessString preprocesses C source code provided as a string.
// It writes the source to a temporary file, preprocesses it, then cleans up.
func PreprocessString(source, filename string, opts *Options) (string, error) {
	tmpDir := os.TempDir()
	baseName := filepath.Base(filename)
	if baseName == "." || baseName == string(filepath.Separator) {
		baseName = "source.h"
	}
	tmpFile := filepath.Join(tmpDir, "hscgen-"+baseName)

	if err := os.WriteFile(tmpFile, []byte(source), 0644); err != nil {
		return "", fmt.Errorf("failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile)

	return Preprocess(tmpFile, opts)
}

// NeedsPreprocessing returns true if the file might need preprocessing.
// Files ending in .i are considered already preprocessed.
func NeedsPreprocessing(filename string) bool {
	return strings.ToLower(filepath.Ext(filename)) != ".i"
}

// FindPreprocessor searches for a C preprocessor on the system
func FindPreprocessor() string {
	candidates := []string{"cc", "gcc", "clang"}

	for _, cmd := range candidates {
		if path, err := exec.LookPath(cmd); err == nil {
			return path
		}
	}
	return ""
}
