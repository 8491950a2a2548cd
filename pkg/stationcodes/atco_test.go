package stationcodes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAtcoToTiploc(t *testing.T) {
	tests := []struct {
		atco     string
		expected string
		valid    bool
	}{
		{"910GSUTTON", "SUTTON", true},
		{"9100SURBITN", "SURBITN", true},
		{"910GWATRLMN", "WATRLMN", true},
		{"910", "", false},
		{"", "", false},
		{"91AGSUTTON", "", false},
		{"X10GSUTTON", "", false},
		{"910XSUTTON", "", false},
		{"940GZZLUSTD", "ZZLUSTD", true},
	}

	for _, tc := range tests {
		t.Run(tc.atco, func(t *testing.T) {
			tiploc, err := AtcoToTiploc(tc.atco)

			if tc.valid {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, tiploc)
			} else {
				assert.ErrorIs(t, err, ErrInvalidAtco)
				assert.Empty(t, tiploc)
			}
		})
	}
}
