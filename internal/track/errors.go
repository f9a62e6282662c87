package track

import (
	"errors"
	"fmt"
)

// Lookup and playback errors.
var (
	ErrFileNotFound      = errors.New("file not found")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrQueueEmpty        = errors.New("playlist queue is empty")
)

// Format failure reasons. A *FormatError always carries one of these as its
// Reason so callers can match with errors.Is.
var (
	ErrMissingMagic     = errors.New(`"Vgm " file ident missing`)
	ErrNoGD3Tag         = errors.New("GD3 tag not present")
	ErrMissingGD3Marker = errors.New(`"Gd3 " marker missing`)
	ErrBadCompression   = errors.New("gzip decompression failed")
	ErrBadSignature     = errors.New("invalid SPC signature")
	ErrBadHeaderBytes   = errors.New("SPC header bytes 0x21-0x22 must be (26,26)")
	ErrUnknownChunkID   = errors.New("unknown Xid6 chunk id")
	ErrBadArchive       = errors.New("archive could not be read")
	ErrTruncated        = errors.New("unexpected end of stream")
)

// Stage names the parsing step that failed.
type Stage string

// Parsing stages reported in FormatError.
const (
	StageVGMHeader Stage = "vgm-header"
	StageGD3       Stage = "gd3"
	StageGzip      Stage = "gzip"
	StageSPCHeader Stage = "spc-header"
	StageID666     Stage = "id666"
	StageXid6      Stage = "xid6"
	StageArchive   Stage = "archive"
)

// FormatError reports a structural problem found while decoding a file.
type FormatError struct {
	Path   string
	Stage  Stage
	Offset int64
	Reason error // one of the Err* reasons above
	Err    error // underlying cause, may be nil
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("%s at offset %#x: %v", e.Stage, e.Offset, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Path != "" {
		return e.Path + ": " + msg
	}
	return msg
}

// Unwrap exposes both the reason and the underlying cause.
func (e *FormatError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Reason}
	}
	return []error{e.Reason, e.Err}
}

// NewFormatError builds a FormatError without a path; the metadata facade
// fills the path in on the way out.
func NewFormatError(stage Stage, offset int64, reason, cause error) *FormatError {
	return &FormatError{
		Stage:  stage,
		Offset: offset,
		Reason: reason,
		Err:    cause,
	}
}

// WithPath attaches path to err if it is a *FormatError without one.
func WithPath(err error, path string) error {
	var fe *FormatError
	if errors.As(err, &fe) && fe.Path == "" {
		fe.Path = path
	}
	return err
}
