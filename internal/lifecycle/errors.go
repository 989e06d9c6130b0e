package lifecycle

import (
	"fmt"
	"strings"

	domainerrors "github.com/tagandtake/tagandtake-server/internal/errors"
)

// MalformedListingError reports a payload that matches none of the known
// record shapes, or a record value that cannot be evaluated.
type MalformedListingError struct {
	// Reason is a short human-readable description of the problem.
	Reason string
	// Keys lists the top-level keys the payload carried, sorted.
	Keys []string
	Err  error
}

func (e *MalformedListingError) Error() string {
	var b strings.Builder
	b.WriteString("malformed listing: ")
	b.WriteString(e.Reason)
	if len(e.Keys) > 0 {
		fmt.Fprintf(&b, " (keys: %s)", strings.Join(e.Keys, ", "))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *MalformedListingError) Unwrap() error {
	return e.Err
}

// Is matches errors.ErrMalformedListing and any other MALFORMED_LISTING error.
func (e *MalformedListingError) Is(target error) bool {
	return domainerrors.ErrMalformedListing.Is(target)
}

// ExitCode implements errors.ExitCoder.
func (e *MalformedListingError) ExitCode() int {
	return domainerrors.CodeMalformedListing.ExitCode()
}

func malformed(reason string) *MalformedListingError {
	return &MalformedListingError{Reason: reason}
}

var errNoRecord = malformed("no record to evaluate")

func errUnknownRole(role Role) error {
	return domainerrors.Validationf("unknown role %q", role)
}
