package resolution

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lapsecam/lapsecam"
)

var errInvalidSelection = errors.New("invalid resolution number")

// parseChoice returns the 0-based index for a menu answer, or -1 for 0 (no
// selection).
func parseChoice(s string, n int) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 0 || v > n {
		return 0, errInvalidSelection
	}
	return v - 1, nil
}

// Select shows the resolutions of probed as a numbered menu on out, and reads
// the user's choice from in, asking again until the answer is 0 or a listed
// number. For 0, ok is false. An error is only returned if in ends (wrapping
// io.ErrUnexpectedEOF) or out cannot be written.
func Select(in io.Reader, out io.Writer, probed Catalog) (r lapsecam.Resolution, ok bool, rerr error) {
	scanner := bufio.NewScanner(in)
	for {
		if _, err := fmt.Fprintf(out, "\nSelect one of the resolutions, or 0 for none:\n"); err != nil {
			return r, false, err
		}
		for i, c := range probed {
			fmt.Fprintf(out, "\t%d) %d x %d\n", i+1, c.Width, c.Height)
		}
		fmt.Fprintf(out, "> ")

		if !scanner.Scan() {
			err := scanner.Err()
			if err == nil {
				err = io.ErrUnexpectedEOF
			}
			return r, false, fmt.Errorf("reading selection: %w", err)
		}
		i, err := parseChoice(scanner.Text(), len(probed))
		if err != nil {
			fmt.Fprintf(out, "\n\nPlease enter a valid resolution number!\n")
			continue
		}
		if i < 0 {
			return r, false, nil
		}
		return probed[i], true, nil
	}
}
