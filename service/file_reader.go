package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ludo-technologies/clumpscan/domain"
)

// FileReaderImpl implements the FileReader interface
type FileReaderImpl struct{}

// NewFileReader creates a new file reader service
func NewFileReader() *FileReaderImpl {
	return &FileReaderImpl{}
}

// CollectInputFiles finds all parsed-AST JSON documents in the given paths.
// Explicitly named files are always kept when they have a .json extension;
// directory entries must also pass the include/exclude patterns.
func (f *FileReaderImpl) CollectInputFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	add := func(path string) {
		clean := filepath.Clean(path)
		if seen[clean] {
			return
		}
		seen[clean] = true
		files = append(files, clean)
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, domain.NewFileNotFoundError(path, err)
		}

		if info.IsDir() {
			dirFiles, err := f.collectFromDirectory(path, recursive, includePatterns, excludePatterns)
			if err != nil {
				return nil, err
			}
			for _, file := range dirFiles {
				add(file)
			}
			continue
		}

		if f.IsValidInputFile(path) && !f.isExcluded(path, excludePatterns) {
			add(path)
		}
	}

	return files, nil
}

// ReadFile reads the content of a file
func (f *FileReaderImpl) ReadFile(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewFileNotFoundError(path, err)
	}
	return content, nil
}

// IsValidInputFile checks if a file has a JSON extension
func (f *FileReaderImpl) IsValidInputFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// FileExists checks if a file exists
func (f *FileReaderImpl) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}

// collectFromDirectory collects documents from a directory in lexical order
func (f *FileReaderImpl) collectFromDirectory(dirPath string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	var files []string

	walkFunc := func(path string, d os.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped; the remaining tree is still collected
			return nil
		}

		if d.IsDir() {
			if path == dirPath {
				return nil
			}
			if !recursive || strings.HasPrefix(d.Name(), ".") || f.shouldSkipDirectory(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}

		rel, relErr := filepath.Rel(dirPath, path)
		if relErr != nil {
			rel = path
		}
		if f.IsValidInputFile(path) && f.shouldIncludeFile(rel, includePatterns, excludePatterns) {
			files = append(files, path)
		}
		return nil
	}

	if err := filepath.WalkDir(dirPath, walkFunc); err != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", dirPath, err)
	}

	return files, nil
}

// shouldIncludeFile checks if a file should be included based on patterns
func (f *FileReaderImpl) shouldIncludeFile(path string, includePatterns, excludePatterns []string) bool {
	if f.isExcluded(path, excludePatterns) {
		return false
	}

	// If no include patterns specified, include by default
	if len(includePatterns) == 0 {
		return true
	}

	for _, pattern := range includePatterns {
		if f.matchesPattern(pattern, path) {
			return true
		}
	}
	return false
}

func (f *FileReaderImpl) isExcluded(path string, excludePatterns []string) bool {
	for _, pattern := range excludePatterns {
		if f.matchesPattern(pattern, path) {
			return true
		}
	}
	return false
}

// matchesPattern matches a doublestar pattern against the base name, the whole
// path, and every trailing sub-path, so "gen/**" also excludes "/abs/src/gen/x.json".
func (f *FileReaderImpl) matchesPattern(pattern, path string) bool {
	slashed := filepath.ToSlash(path)
	pattern = filepath.ToSlash(pattern)

	if matched, _ := doublestar.Match(pattern, filepath.Base(path)); matched {
		return true
	}

	segments := strings.Split(strings.TrimPrefix(slashed, "/"), "/")
	for i := range segments {
		if matched, _ := doublestar.Match(pattern, strings.Join(segments[i:], "/")); matched {
			return true
		}
	}
	return false
}

// shouldSkipDirectory checks if a directory should be skipped entirely
func (f *FileReaderImpl) shouldSkipDirectory(dirName string) bool {
	skipDirs := []string{
		"node_modules",
		"__pycache__",
	}

	dirLower := strings.ToLower(dirName)
	for _, skipDir := range skipDirs {
		if dirLower == skipDir {
			return true
		}
	}
	return false
}

// ValidatePaths validates that all provided paths exist and are accessible
func (f *FileReaderImpl) ValidatePaths(paths []string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return domain.NewFileNotFoundError(path, err)
			}
			return domain.NewInvalidInputError(fmt.Sprintf("cannot access path: %s", path), err)
		}
	}
	return nil
}
