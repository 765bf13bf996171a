// Package receipt validates and stores the images attached to bills.
package receipt

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var ErrUnsupportedExtension = errors.New("unsupported file extension")

// AcceptedExtensions are the receipt formats a bill may carry.
var AcceptedExtensions = []string{"jpg", "jpeg", "png"}

// Extension returns the lower-cased last dot-delimited segment of name.
// A name without a dot is a single segment, so "png" yields "png".
func Extension(name string) string {
	return strings.ToLower(name[strings.LastIndex(name, ".")+1:])
}

// ValidateFileName reports whether name has one of the accepted extensions.
func ValidateFileName(name string) error {
	ext := Extension(name)
	if !slices.Contains(AcceptedExtensions, ext) {
		return fmt.Errorf("%w: %q (allowed: %s)", ErrUnsupportedExtension, name, strings.Join(AcceptedExtensions, ", "))
	}

	return nil
}
