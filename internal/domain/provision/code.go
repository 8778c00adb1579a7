// Package provision derives the retrieval references and file names for
// the scannable door codes. Everything here is a pure function of the
// calendar parameters, so regenerating the codes for the same calendar
// always yields the same references and names. There is no stored
// mapping to drift out of sync with the live table.
package provision

import (
	"fmt"

	"adventcal/internal/domain/door"
)

// Code is one provisioned door code: the reference a scanner resolves to
// and the PNG bytes encoding it. Generated on demand for a bundle request
// and never persisted.
type Code struct {
	Day       int
	Kid       int
	Reference string
	FileName  string
	Image     []byte
}

// Reference returns the canonical retrieval reference for one door and
// recipient: the configured base address plus the door-message path and
// query parameters.
func Reference(cal door.Calendar, day, kid int) string {
	return fmt.Sprintf("%s/Door_Message?day=%d&kid=%d", cal.BaseURL, day, kid)
}

// FileName returns the deterministic bundle entry name for one code.
func FileName(cal door.Calendar, day, kid int) string {
	return fmt.Sprintf("QR_Day_%d_%s.png", day, cal.KidName(kid))
}

// Enumerate lists every (day, kid) pair for the calendar in bundle order:
// days ascending, kid 1 before kid 2 within a day. References and file
// names are filled in; images are left to the encoder.
func Enumerate(cal door.Calendar) []Code {
	codes := make([]Code, 0, 2*cal.MaxDay)
	for day := 1; day <= cal.MaxDay; day++ {
		for _, kid := range []int{door.Kid1, door.Kid2} {
			codes = append(codes, Code{
				Day:       day,
				Kid:       kid,
				Reference: Reference(cal, day, kid),
				FileName:  FileName(cal, day, kid),
			})
		}
	}
	return codes
}
