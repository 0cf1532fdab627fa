package capture

import (
	"fmt"
	"strconv"
)

// PadFor returns the zero-padding width to use for index, starting from pad.
// The width is raised to the number of digits of index if that is more than
// pad, ie while index >= 10^pad. Index 0 never raises the width.
func PadFor(index, pad int) int {
	if pad < 1 {
		pad = 1
	}
	if n := len(strconv.Itoa(index)); n > pad {
		pad = n
	}
	return pad
}

// Filename returns the file name for frame index: base, the index
// zero-padded to pad digits, and extension ext (without dot).
func Filename(base string, index, pad int, ext string) string {
	return fmt.Sprintf("%s%0*d.%s", base, pad, index, ext)
}
