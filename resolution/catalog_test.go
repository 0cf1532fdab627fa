package resolution

import (
	"io/ioutil"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/lapsecam/lapsecam"
)

func TestCache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "res.json")

	c := Catalog{{Width: 640, Height: 480}, {Width: 1280, Height: 720}}
	if err := WriteCache(path, c); err != nil {
		t.Fatalf("write cache: %v", err)
	}
	buf, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if exp := `{"widths":[640,1280],"heights":[480,720]}`; string(buf) != exp {
		t.Fatalf("cache file, got %s, expected %s", buf, exp)
	}

	got, err := ReadCache(path)
	if err != nil {
		t.Fatalf("read cache: %v", err)
	}
	if !reflect.DeepEqual(got, c) {
		t.Fatalf("got %v, expected %v", got, c)
	}

	if err := WriteCache(path, Catalog{}); err != nil {
		t.Fatalf("write empty cache: %v", err)
	}
	buf, _ = ioutil.ReadFile(path)
	if exp := `{"widths":[],"heights":[]}`; string(buf) != exp {
		t.Fatalf("empty cache file, got %s, expected %s", buf, exp)
	}
}

func TestReadCacheInvalid(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"unequal.json":  `{"widths":[640,800],"heights":[480]}`,
		"negative.json": `{"widths":[-640],"heights":[480]}`,
		"syntax.json":   `{"widths":[640`,
		"strings.json":  `{"widths":["640"],"heights":["480"]}`,
	}
	for name, content := range cases {
		path := filepath.Join(dir, name)
		if err := ioutil.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
		if _, err := ReadCache(path); err == nil {
			t.Errorf("%s: missing error", name)
		}
	}
	if _, err := ReadCache(filepath.Join(dir, "missing.json")); err == nil {
		t.Errorf("missing error for absent cache")
	}

	// Order of the fields does not matter.
	path := filepath.Join(dir, "reversed.json")
	ioutil.WriteFile(path, []byte(`{"heights":[1080],"widths":[1920]}`), 0644)
	c, err := ReadCache(path)
	if err != nil || len(c) != 1 || c[0] != (lapsecam.Resolution{Width: 1920, Height: 1080}) {
		t.Fatalf("reversed fields, got %v %v", c, err)
	}
}
