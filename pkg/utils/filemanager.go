// =============================================================================
// MailPrep - File Manager Utility
// =============================================================================
//
// This module provides file helpers for the job workflow:
//   - Intake file discovery by extension
//   - Mapping file naming
//   - Atomic file replacement
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MappingFileExtension is appended to generated mapping file names.
const MappingFileExtension = ".ini"

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// DiscoverInputFiles lists the files in dir whose extension is one of
// extensions (compared case-insensitively). Subdirectories are not scanned.
//
// RETURNS:
//   - The matching file paths, sorted by name.
//   - An error if the directory cannot be read.
func DiscoverInputFiles(dir string, extensions []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan input directory: %w", err)
	}

	wanted := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		wanted[NormalizeExtension(ext)] = true
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		// Office lock files ("~$list.xlsx") are never intake files.
		if strings.HasPrefix(entry.Name(), "~$") {
			continue
		}
		if wanted[NormalizeExtension(filepath.Ext(entry.Name()))] {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}

	sort.Strings(files)
	return files, nil
}

// NormalizeExtension lower-cases an extension and ensures a leading dot.
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName builds a mapping file name from a format string.
//
// PARAMETERS:
//   - format: The format string for the file name.
//             Placeholders:
//               {job}       - The job name
//               {uuid}      - A random UUID
//               {timestamp} - The time as YYYYMMDD_HHMMSS
//               {date}      - The date as YYYYMMDD
//   - job: The job name.
//   - now: The time used for {timestamp} and {date}.
//
// EXAMPLE:
//   format: "{job}_{timestamp}.ini"
//   job:    "spring_appeal"
//   output: "spring_appeal_20240115_143022.ini"
func GenerateOutputFileName(format, job string, now time.Time) string {
	replacer := strings.NewReplacer(
		"{job}", job,
		"{uuid}", uuid.New().String(),
		"{timestamp}", now.Format("20060102_150405"),
		"{date}", now.Format("20060102"),
	)
	result := replacer.Replace(format)

	if !strings.HasSuffix(strings.ToLower(result), MappingFileExtension) {
		result += MappingFileExtension
	}
	return result
}

// =============================================================================
// FILE REPLACEMENT
// =============================================================================

// WriteFileAtomic writes data to a temporary file next to path and renames it
// into place, so readers never observe a partially written mapping.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
