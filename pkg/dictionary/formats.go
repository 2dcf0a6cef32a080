package dictionary

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
)

// FileFormat represents the corpus file formats the loader understands.
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatText               // one sentence per line
)

// FormatInfo contains metadata about a corpus file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MinSize     int64
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatText: {
		Format:      FormatText,
		Description: "Plain Text Corpus",
		Extensions:  []string{".txt", ".text", ".corpus"},
		MinSize:     1,
	},
}

// sniffSize is how much of a file is checked for binary content.
const sniffSize = 1024

// ValidateFileFormat checks that filename looks like the expected format.
func ValidateFileFormat(filename string, expected FileFormat) error {
	info, exists := supportedFormats[expected]
	if !exists {
		return fmt.Errorf("unknown format: %v", expected)
	}

	stat, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}
	if stat.IsDir() {
		return fmt.Errorf("%s is a directory", filename)
	}
	if stat.Size() < info.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for format %s", filename, stat.Size(), info.Description)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	validExt := false
	for _, e := range info.Extensions {
		if ext == e {
			validExt = true
			break
		}
	}
	if !validExt {
		return fmt.Errorf("file %s has invalid extension %q for format %s (expected: %v)",
			filename, ext, info.Description, info.Extensions)
	}

	return validateTextFormat(filename)
}

// validateTextFormat rejects files whose head is not UTF-8 text.
func validateTextFormat(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	buf := make([]byte, sniffSize)
	n, err := file.Read(buf)
	if err != nil {
		return fmt.Errorf("failed to read from text file %s: %w", filename, err)
	}
	head := buf[:n]
	if bytes.IndexByte(head, 0) >= 0 {
		return fmt.Errorf("file %s looks binary", filename)
	}
	// a multi-byte rune may be cut at the sniff boundary
	if n == sniffSize {
		for i := 0; i < utf8.UTFMax-1 && !utf8.Valid(head); i++ {
			head = head[:len(head)-1]
		}
	}
	if !utf8.Valid(head) {
		return fmt.Errorf("file %s is not valid UTF-8", filename)
	}

	log.Debugf("Text file %s validated", filename)
	return nil
}

// DetectFileFormat attempts to detect the format of a file
func DetectFileFormat(filename string) (FileFormat, error) {
	if err := ValidateFileFormat(filename, FormatText); err != nil {
		return FormatUnknown, fmt.Errorf("unable to detect format for file %s: %w", filename, err)
	}
	return FormatText, nil
}

// GetFormatInfo returns information about a specific format
func GetFormatInfo(format FileFormat) (FormatInfo, bool) {
	info, exists := supportedFormats[format]
	return info, exists
}
