package imdb

import (
	"fmt"
	"regexp"
)

// An IMDb id is a two-letter entity prefix followed by seven digits
// (tt0111161, nm0000151, ...). The pattern is anchored at the start only:
// trailing characters are tolerated, matching the service's own behavior.
var idPattern = regexp.MustCompile(`^[a-zA-Z]{2}[0-9]{7}`)

// ValidateID checks that imdbID names a title or person. It returns
// ErrInvalidID for anything that does not match the id shape, including
// the empty string.
func ValidateID(imdbID string) error {
	if !idPattern.MatchString(imdbID) {
		return fmt.Errorf("%w: %q", ErrInvalidID, imdbID)
	}
	return nil
}
