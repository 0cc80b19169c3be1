package media

import "fmt"

// ValidationError rejects an input before any store call is made.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}

// DecodeError wraps a failure to decode the selected bytes as an image.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// UploadError wraps a store rejection or network failure during upload.
// No link is committed when it is returned.
type UploadError struct {
	Err error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload: %v", e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// CleanupError wraps a failure deleting a superseded or orphaned object.
// It never aborts the main flow; callers log it and move on.
type CleanupError struct {
	Key string
	Err error
}

func (e *CleanupError) Error() string {
	return fmt.Sprintf("cleanup %s: %v", e.Key, e.Err)
}

func (e *CleanupError) Unwrap() error { return e.Err }
