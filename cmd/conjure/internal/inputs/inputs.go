// Package inputs turns command-line arguments into source files and a
// configured compiler.
package inputs

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/broady/conjure"
)

// IsSource reports whether name has a definition file extension.
func IsSource(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yml" || ext == ".yaml"
}

// Expand returns the source files named by paths. A directory contributes
// its .yml and .yaml files in name order; subdirectories are not searched.
// Each file appears once.
func Expand(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = appendUnique(files, filepath.Clean(p))
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.Type().IsRegular() && IsSource(e.Name()) {
				files = appendUnique(files, filepath.Join(p, e.Name()))
			}
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .yml or .yaml files in %s", strings.Join(paths, ", "))
	}
	return files, nil
}

func appendUnique(files []string, f string) []string {
	if slices.Contains(files, f) {
		return files
	}
	return append(files, f)
}

// Logger returns a text logger on w. Verbose enables debug output.
func Logger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Compiler returns a compiler configured from key=value options.
func Compiler(options map[string]string, logger *slog.Logger) (*conjure.Compiler, error) {
	values := make(map[string][]string, len(options))
	for k, v := range options {
		values[k] = []string{v}
	}
	opts, err := conjure.ParseOptions(values)
	if err != nil {
		return nil, err
	}
	return conjure.New().WithOptions(opts).WithLogger(logger), nil
}
