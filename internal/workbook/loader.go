package workbook

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Loader decodes raw workbook bytes into a Workbook.
type Loader interface {
	Load(r io.Reader, filename string) (*Workbook, error)
}

// ErrUnsupportedFormat is wrapped by FormatError for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported workbook format")

// FormatError reports a file that cannot be opened as a workbook.
type FormatError struct {
	Filename string
	Err      error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid workbook %q: %v", e.Filename, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func formatErr(filename string, err error) error {
	return &FormatError{Filename: filename, Err: err}
}

// SupportedExtensions lists file extensions this service can load.
var SupportedExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".xls":  true,
	".csv":  true,
}

// ForFile returns the appropriate loader for a filename.
func ForFile(filename string) (Loader, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xlsx", ".xlsm":
		return &XLSXLoader{}, nil
	case ".xls":
		return &XLSLoader{}, nil
	case ".csv":
		return &CSVLoader{}, nil
	default:
		return nil, formatErr(filename, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext))
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// Load picks a loader by extension and decodes r.
func Load(r io.Reader, filename string) (*Workbook, error) {
	l, err := ForFile(filename)
	if err != nil {
		return nil, err
	}
	return l.Load(r, filename)
}

func bookName(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
