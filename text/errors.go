package text

import "errors"

// Sentinel errors for text package.
var (
	// ErrMultiChunk is the panic value of DrawStr when the wrapping
	// produces more than one chunk. DrawStr draws single-line text only;
	// use DrawWalk for wrapped text.
	ErrMultiChunk = errors.New("text: DrawStr only supports single-line text")

	// ErrNoInstancer is returned by the draw entry points when Env has no
	// Instancer.
	ErrNoInstancer = errors.New("text: env has no instancer")

	// ErrUnknownWrapMode is returned by ParseWrapMode.
	ErrUnknownWrapMode = errors.New("text: unknown wrap mode")
)
