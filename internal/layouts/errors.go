package layouts

// notFoundError signals a missing layout id for 404 mapping.
type notFoundError struct{ id string }

func (e notFoundError) Error() string { return "layout not found: " + e.id }

// ErrNotFound returns an error for a layout id absent from the registry.
func ErrNotFound(id string) error { return notFoundError{id: id} }

// IsNotFound reports whether the error indicates a missing layout id.
func IsNotFound(err error) bool {
	_, ok := err.(notFoundError)
	return ok
}

// applierUnavailableError signals that no working applier is configured,
// so the HTTP layer can return 503 Service Unavailable instead of 500.
type applierUnavailableError struct{ msg string }

func (e applierUnavailableError) Error() string { return e.msg }

// ErrApplierUnavailable constructs an applierUnavailableError.
func ErrApplierUnavailable(msg string) error { return applierUnavailableError{msg: msg} }

// IsApplierUnavailable reports whether err indicates a missing applier.
func IsApplierUnavailable(err error) bool {
	_, ok := err.(applierUnavailableError)
	return ok
}
