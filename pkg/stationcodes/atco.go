package stationcodes

import (
	"errors"
	"fmt"
)

var ErrInvalidAtco = errors.New("invalid ATCO code")

// AtcoToTiploc strips the area prefix from an ATCO code, 910GSUTTON becomes SUTTON.
// The prefix is a 3 digit area code followed by 0 or G (TfL uses both).
func AtcoToTiploc(atco string) (string, error) {
	if len(atco) < 4 {
		return "", fmt.Errorf("%w: %q must be at least 4 characters long", ErrInvalidAtco, atco)
	}

	for i := 0; i < 3; i++ {
		if atco[i] < '0' || atco[i] > '9' {
			return "", fmt.Errorf("%w: %q must start with a 3-digit area code", ErrInvalidAtco, atco)
		}
	}

	if atco[3] != '0' && atco[3] != 'G' {
		return "", fmt.Errorf("%w: %q area code must be followed by either 0 or G", ErrInvalidAtco, atco)
	}

	return atco[4:], nil
}
