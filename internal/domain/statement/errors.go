package statement

import (
	"errors"
	"fmt"
)

// ErrFileNotFound reports that the statement source path does not exist.
var ErrFileNotFound = errors.New("statement file not found")

// ErrDuplicateStatement reports that the owner already uploaded a file
// with the same original filename.
var ErrDuplicateStatement = errors.New("a statement with this filename has already been uploaded")

// UnsupportedFormatError reports a file extension outside the supported
// set. The statement stays pending when this is returned.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format %q: only csv, pdf, jpg, jpeg and png are accepted", e.Ext)
}

// ExtractionError wraps a fatal failure of a whole extraction stage, as
// opposed to per-row problems which are dropped and counted.
type ExtractionError struct {
	Stage string
	Err   error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s extraction failed: %v", e.Stage, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
