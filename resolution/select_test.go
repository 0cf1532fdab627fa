package resolution

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/lapsecam/lapsecam"
)

func TestSelect(t *testing.T) {
	probed := Catalog{{Width: 640, Height: 480}, {Width: 1280, Height: 720}}

	var out bytes.Buffer
	r, ok, err := Select(strings.NewReader("abc\n99\n2\n"), &out, probed)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if !ok || r != probed[1] {
		t.Fatalf("got %v %v, expected %v", r, ok, probed[1])
	}
	if n := strings.Count(out.String(), "Please enter a valid resolution number!"); n != 2 {
		t.Fatalf("expected 2 reprompts, got %d:\n%s", n, out.String())
	}
	if n := strings.Count(out.String(), "Select one of the resolutions"); n != 3 {
		t.Fatalf("expected menu 3 times, got %d", n)
	}
	if !strings.Contains(out.String(), "\t2) 1280 x 720\n") {
		t.Fatalf("menu entry missing:\n%s", out.String())
	}

	r, ok, err = Select(strings.NewReader(" 0 \n"), io.Discard, probed)
	if err != nil || ok || r != (lapsecam.Resolution{}) {
		t.Fatalf("select none, got %v %v %v", r, ok, err)
	}

	_, _, err = Select(strings.NewReader("-5\n3\n"), io.Discard, probed)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected unexpected EOF, got %v", err)
	}

	// Nothing probed, only 0 is valid.
	_, ok, err = Select(strings.NewReader("1\n0\n"), io.Discard, nil)
	if err != nil || ok {
		t.Fatalf("select from empty list, got %v %v", ok, err)
	}
}

func TestParseChoice(t *testing.T) {
	cases := []struct {
		in  string
		exp int
		ok  bool
	}{
		{"0", -1, true},
		{"1", 0, true},
		{"3", 2, true},
		{"4", 0, false},
		{"-1", 0, false},
		{"", 0, false},
		{"1.5", 0, false},
		{"x", 0, false},
	}
	for _, c := range cases {
		got, err := parseChoice(c.in, 3)
		if (err == nil) != c.ok || (c.ok && got != c.exp) {
			t.Errorf("parseChoice(%q), got %d %v", c.in, got, err)
		}
	}
}
