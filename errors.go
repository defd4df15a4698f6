package inkboard

import "errors"

// Errors returned by the persistence layer. They are wrapped together with
// the underlying cause, so callers should test for them with errors.Is.
var (
	// ErrIO reports a target that cannot be written or a source that cannot be read.
	ErrIO = errors.New("i/o error")
	// ErrNotFound reports a missing source image. It always comes along with ErrIO.
	ErrNotFound = errors.New("image not found")
	// ErrDecode reports bytes that are not a valid image.
	ErrDecode = errors.New("invalid image data")
	// ErrUnsupportedFormat reports an output format without lossless encoding.
	ErrUnsupportedFormat = errors.New("unsupported image format")
)
