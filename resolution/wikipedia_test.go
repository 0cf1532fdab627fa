package resolution

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

// Shaped like the first table of the Wikipedia page: a two-level header, and
// cells spanning rows.
const resolutionsPage = `<!DOCTYPE html>
<html><head><title>List of common resolutions</title></head>
<body>
<table class="navbox"><tr><td>not this one</td></tr></table>
<table class="wikitable sortable">
<thead>
<tr>
  <th rowspan="2">Designation</th>
  <th rowspan="2">Usage</th>
  <th colspan="2">Size</th>
  <th colspan="3">Aspect ratio</th>
</tr>
<tr>
  <th>W</th><th>H</th><th>Storage</th><th>Display</th><th>Pixel</th>
</tr>
</thead>
<tbody>
<tr><td>VGA</td><td rowspan="2">Computer</td><td>640</td><td>480</td><td>4:3</td><td>4:3</td><td>1:1</td></tr>
<tr><td>SVGA</td><td>800</td><td>600<sup>[a]</sup></td><td>4:3</td><td>4:3</td><td>1:1</td></tr>
<tr><td>HD</td><td>Video</td><td>1,280</td><td>720</td><td>16:9</td><td>16:9</td><td>1:1</td></tr>
<tr><td>Note</td><td colspan="6">varies</td></tr>
<tr><td>FHD</td><td>Video</td><td>1920</td><td>1080</td><td>16:9</td><td>16:9</td><td>1:1</td></tr>
</tbody>
</table>
</body></html>
`

func TestParseTable(t *testing.T) {
	c, err := parseTable(strings.NewReader(resolutionsPage))
	if err != nil {
		t.Fatalf("parse table: %v", err)
	}
	exp := Catalog{{Width: 640, Height: 480}, {Width: 800, Height: 600}, {Width: 1280, Height: 720}, {Width: 1920, Height: 1080}}
	if !reflect.DeepEqual(c, exp) {
		t.Fatalf("got %v, expected %v", c, exp)
	}

	if _, err := parseTable(strings.NewReader(`<html><body><p>nothing</p></body></html>`)); err == nil {
		t.Fatalf("missing error for page without table")
	}
	if _, err := parseTable(strings.NewReader(`<table class="wikitable"><tr><th>A</th><th>B</th></tr><tr><td>1</td><td>2</td></tr></table>`)); err == nil {
		t.Fatalf("missing error for table without W and H")
	}
}

func TestWikipediaFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/wiki/List_of_common_resolutions" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(resolutionsPage))
	}))
	defer srv.Close()

	f := &WikipediaFetcher{URL: srv.URL + "/wiki/List_of_common_resolutions"}
	c, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(c) != 4 {
		t.Fatalf("expected 4 resolutions, got %v", c)
	}

	f = &WikipediaFetcher{URL: srv.URL + "/missing", HTTPClient: srv.Client()}
	_, err = f.Fetch(context.Background())
	var herr HTTPError
	if !errors.As(err, &herr) || herr.Code != http.StatusNotFound {
		t.Fatalf("expected HTTPError 404, got %v", err)
	}
}
