package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// inputExtensions are the file extensions picked up from a directory.
var inputExtensions = map[string]bool{
	".csv":  true,
	".txt":  true,
	".xlsx": true,
	".xlsm": true,
}

// expandPaths resolves configured paths into input files. A glob pattern
// expands to its matches and a directory to the dividend files directly
// inside it, both sorted by name. Other paths pass through unchanged so a
// missing file surfaces as a load error.
func expandPaths(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		if strings.ContainsAny(p, "*?[") {
			matches, err := filepath.Glob(p)
			if err != nil {
				return nil, fmt.Errorf("invalid source pattern %s: %w", p, err)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("no files match %s", p)
			}
			sort.Strings(matches)
			out = append(out, matches...)
			continue
		}

		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			out = append(out, p)
			continue
		}

		files, err := findInputFiles(p)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no dividend files found in %s", p)
		}
		out = append(out, files...)
	}
	return out, nil
}

// findInputFiles lists the files of dir with a known input extension.
// Subdirectories and editor lock files are ignored.
func findInputFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "~$") || strings.HasPrefix(name, ".") {
			continue
		}
		if inputExtensions[strings.ToLower(filepath.Ext(name))] {
			files = append(files, filepath.Join(dir, name))
		}
	}

	sort.Strings(files)
	return files, nil
}
