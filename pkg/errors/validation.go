package errors

import "math"

// MaxChunkWidth bounds the number of cells a single table segment may hold.
// Anything wider cannot fit the fixed card viewport in one line.
const MaxChunkWidth = 64

// ValidateChunkWidth checks a deployment's table chunk width.
// Widths below one would never terminate chunking; huge widths defeat it.
func ValidateChunkWidth(width int) error {
	if width < 1 {
		return New(ErrCodeConfigInvalid, "chunk width must be at least 1, got %d", width)
	}
	if width > MaxChunkWidth {
		return New(ErrCodeConfigInvalid, "chunk width too large (max %d), got %d", MaxChunkWidth, width)
	}
	return nil
}

// ValidateViewport checks the dimensions handed to a rendering backend.
//
// Validation rules:
//   - Width and height must be positive
//   - Neither side may exceed 16384 device-independent pixels
//   - Scale must be a finite number in (0, 4]
func ValidateViewport(width, height int, scale float64) error {
	const maxSide = 16384
	if width <= 0 || height <= 0 {
		return New(ErrCodeConfigInvalid, "viewport must be positive, got %dx%d", width, height)
	}
	if width > maxSide || height > maxSide {
		return New(ErrCodeConfigInvalid, "viewport too large (max %d per side), got %dx%d", maxSide, width, height)
	}
	if math.IsNaN(scale) || math.IsInf(scale, 0) || scale <= 0 || scale > 4 {
		return New(ErrCodeConfigInvalid, "viewport scale must be in (0, 4], got %v", scale)
	}
	return nil
}

// ValidateFormat checks that an output format is one the pipeline can emit.
func ValidateFormat(format string, valid map[string]bool) error {
	if !valid[format] {
		return New(ErrCodeInvalidFormat, "unsupported format %q", format)
	}
	return nil
}
