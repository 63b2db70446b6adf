package chaindb

import "github.com/pkg/errors"

// NotFoundError reports a chain-database lookup that found nothing. The
// "no canonical head" case is expected on a fresh database and is recovered
// by the initializer; it never surfaces from Initialize.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string {
	return e.Msg
}

// errCanonicalHeadNotFound is the head-read failure a fresh database yields.
func errCanonicalHeadNotFound() error {
	return &NotFoundError{Msg: "canonical head not found"}
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}
