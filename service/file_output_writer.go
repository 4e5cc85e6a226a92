package service

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/ludo-technologies/clumpscan/domain"
)

// FileOutputWriter writes reports to files or provided writers and optionally opens HTML in a browser.
type FileOutputWriter struct {
	status io.Writer // where to print status messages (typically stderr)
	open   func(url string) error
}

// NewFileOutputWriter creates a new FileOutputWriter.
func NewFileOutputWriter(status io.Writer) *FileOutputWriter {
	if status == nil {
		status = os.Stderr
	}
	return &FileOutputWriter{status: status, open: OpenBrowser}
}

// SetBrowserOpener replaces the function used to open HTML reports
func (w *FileOutputWriter) SetBrowserOpener(open func(url string) error) {
	w.open = open
}

// Write implements domain.ReportWriter.
func (w *FileOutputWriter) Write(writer io.Writer, outputPath string, format domain.OutputFormat, noOpen bool, writeFunc func(io.Writer) error) error {
	if outputPath == "" {
		if writer == nil {
			writer = os.Stdout
		}
		if err := writeFunc(writer); err != nil {
			return domain.NewOutputError("failed to write output", err)
		}
		return nil
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return domain.NewOutputError(fmt.Sprintf("failed to create output directory: %s", dir), err)
		}
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return domain.NewOutputError(fmt.Sprintf("failed to create output file: %s", outputPath), err)
	}
	if err := writeFunc(file); err != nil {
		file.Close()
		return domain.NewOutputError("failed to write output", err)
	}
	if err := file.Close(); err != nil {
		return domain.NewOutputError(fmt.Sprintf("failed to close output file: %s", outputPath), err)
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		absPath = outputPath
	}

	if format != domain.OutputFormatHTML {
		fmt.Fprintf(w.status, "%s report generated: %s\n", strings.ToUpper(string(format)), absPath)
		return nil
	}

	if noOpen || w.open == nil {
		fmt.Fprintf(w.status, "HTML report generated: %s\n", absPath)
		return nil
	}
	if err := w.open("file://" + absPath); err != nil {
		fmt.Fprintf(w.status, "Warning: Could not open browser: %v\n", err)
		fmt.Fprintf(w.status, "HTML report generated: %s\n", absPath)
		return nil
	}
	fmt.Fprintf(w.status, "HTML report generated and opened: %s\n", absPath)
	return nil
}

// OpenBrowser opens the specified URL in the default browser
func OpenBrowser(url string) error {
	name, args, err := browserCommand(runtime.GOOS, url, exec.LookPath)
	if err != nil {
		return err
	}
	// Start rather than Run: the browser outlives the process
	if err := exec.Command(name, args...).Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}

// browserCommand resolves the opener command for a platform
func browserCommand(goos, url string, lookPath func(string) (string, error)) (string, []string, error) {
	switch goos {
	case "darwin":
		return "open", []string{url}, nil
	case "windows":
		return "cmd", []string{"/c", "start", url}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		for _, opener := range []string{"xdg-open", "wslview", "gnome-open", "kde-open"} {
			if _, err := lookPath(opener); err == nil {
				return opener, []string{url}, nil
			}
		}
		return "", nil, fmt.Errorf("no suitable browser opener found for %s", goos)
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}
