package common

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoHistory              = fmt.Errorf("no recorded history")
	ErrRevisionUnavailable    = fmt.Errorf("revision content unavailable")
	ErrDuplicateNumbers       = fmt.Errorf("duplicate entry numbers found")
	ErrInvalidNumber          = fmt.Errorf("invalid entry number")
	ErrBuildHasAlreadyStarted = fmt.Errorf("build process has already started")
)

// DuplicateNumbersError lists every number shared by more than one entry.
type DuplicateNumbersError struct {
	Numbers []string
}

func (e *DuplicateNumbersError) Error() string {
	return fmt.Sprintf("%s: {%s}", ErrDuplicateNumbers, strings.Join(e.Numbers, ", "))
}

func (e *DuplicateNumbersError) Unwrap() error {
	return ErrDuplicateNumbers
}

// DuplicateNumbers returns the duplicated numbers carried by err, if any.
func DuplicateNumbers(err error) ([]string, bool) {
	var dErr *DuplicateNumbersError
	if errors.As(err, &dErr) {
		return dErr.Numbers, true
	}

	return nil, false
}
