package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ludo-technologies/clumpscan/domain"
	"github.com/ludo-technologies/clumpscan/service"
)

// DefaultReportDirectory is used for generated report files when no
// output directory is configured
var DefaultReportDirectory = filepath.Join(".clumpscan", "reports")

// reportFilePrefix names generated report files
const reportFilePrefix = "dataclumps"

// ResolveConfigSearchDir returns the directory where .clumpscan.toml
// discovery starts for the given input path. Files start in their parent
// directory and missing paths in the working directory.
func ResolveConfigSearchDir(fileReader domain.FileReader, path string) string {
	if path == "" {
		return "."
	}
	if fileReader != nil {
		if exists, err := fileReader.FileExists(path); err == nil && exists {
			return filepath.Dir(path)
		}
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return path
	}
	return "."
}

// GenerateTimestampedFileName generates a report filename with a timestamp suffix
func GenerateTimestampedFileName(extension string, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", reportFilePrefix, now.Format("20060102_150405"), extension)
}

// ResolveOutputPath decides where a report goes.
//
// An explicit OutputPath always wins. A request with an output writer and no
// path streams to the writer (empty result). Otherwise non-text formats get a
// timestamped file under OutputDirectory, or DefaultReportDirectory
// in the working directory when that is unset.
func ResolveOutputPath(req domain.DataClumpsRequest, now time.Time) (string, error) {
	if req.OutputPath != "" {
		return req.OutputPath, nil
	}
	if req.OutputWriter != nil {
		return "", nil
	}

	format := req.OutputFormat
	if format == "" || format == domain.OutputFormatText {
		return "", fmt.Errorf("text output requires an output writer or an output path")
	}

	dir := req.OutputDirectory
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			dir = DefaultReportDirectory
		} else {
			dir = filepath.Join(cwd, DefaultReportDirectory)
		}
	}

	return filepath.Join(dir, GenerateTimestampedFileName(service.NewOutputFormatResolver().Extension(format), now)), nil
}
