package resolution

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/lapsecam/lapsecam"
)

// WikipediaURL is the page with the table of common resolutions.
var WikipediaURL = "https://en.wikipedia.org/wiki/List_of_common_resolutions"

// WikipediaFetcher fetches the first table of the Wikipedia list of common
// resolutions, using its W and H columns.
type WikipediaFetcher struct {
	HTTPClient *http.Client // If nil, http.DefaultClient is used.
	URL        string       // If empty, WikipediaURL is used.
}

var _ Fetcher = (*WikipediaFetcher)(nil)

// HTTPError represents an HTTP error code and message.
type HTTPError struct {
	Code   int    // HTTP status code, eg 404 or 500.
	Status string // Status line of the response.
}

// Error returns a human-readable description of the HTTP error.
func (e HTTPError) Error() string {
	return fmt.Sprintf("http response error, code %d: %s", e.Code, e.Status)
}

// Fetch downloads and parses the resolution table.
func (f *WikipediaFetcher) Fetch(ctx context.Context) (Catalog, error) {
	url := f.URL
	if url == "" {
		url = WikipediaURL
	}
	client := f.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("new HTTP request: %v", err)
	}
	req.Header.Set("User-Agent", "lapsecam (resolution probe)")
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(ioutil.Discard, resp.Body)
		return nil, HTTPError{resp.StatusCode, resp.Status}
	}
	return parseTable(resp.Body)
}

type cell struct {
	text   string
	header bool
}

// parseTable parses the first wikitable (or first table) of an HTML page.
// The columns are found by header cells "W" and "H". Later rows whose W and
// H cells hold numbers are returned, in table order.
func parseTable(r io.Reader) (Catalog, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %v", err)
	}
	table := findTable(doc)
	if table == nil {
		return nil, fmt.Errorf("no table in page")
	}
	grid := tableGrid(table)

	wcol, hcol, hrow := -1, -1, -1
	for i, row := range grid {
		wcol, hcol = -1, -1
		for j, c := range row {
			if !c.header {
				continue
			}
			switch c.text {
			case "W":
				wcol = j
			case "H":
				hcol = j
			}
		}
		if wcol >= 0 && hcol >= 0 {
			hrow = i
			break
		}
	}
	if hrow < 0 {
		return nil, fmt.Errorf("no W and H columns in table")
	}

	var c Catalog
	for _, row := range grid[hrow+1:] {
		if wcol >= len(row) || hcol >= len(row) {
			continue
		}
		w, werr := leadingInt(row[wcol].text)
		h, herr := leadingInt(row[hcol].text)
		if werr != nil || herr != nil {
			continue
		}
		res := lapsecam.Resolution{Width: w, Height: h}
		if res.Valid() {
			c = append(c, res)
		}
	}
	if len(c) == 0 {
		return nil, fmt.Errorf("no resolutions in table")
	}
	return c, nil
}

// leadingInt parses the digits at the start of s, ignoring thousands
// separators.
func leadingInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if r == ',' {
			continue
		} else {
			break
		}
	}
	return strconv.Atoi(b.String())
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" {
			for _, c := range strings.Fields(a.Val) {
				if c == class {
					return true
				}
			}
		}
	}
	return false
}

func findTable(doc *html.Node) *html.Node {
	var first, wiki *html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if wiki != nil {
			return
		}
		if n.Type == html.ElementNode && n.Data == "table" {
			if first == nil {
				first = n
			}
			if hasClass(n, "wikitable") {
				wiki = n
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	if wiki != nil {
		return wiki
	}
	return first
}

// rows returns the tr elements of table, without descending into nested
// tables.
func rows(table *html.Node) []*html.Node {
	var l []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.Data {
			case "table":
				continue
			case "tr":
				l = append(l, c)
			default:
				walk(c)
			}
		}
	}
	walk(table)
	return l
}

// text returns the text content of n, without footnote markers.
func text(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		if n.Type == html.ElementNode && (n.Data == "sup" || n.Data == "style" || n.Data == "script") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

func spanAttr(n *html.Node, key string) int {
	for _, a := range n.Attr {
		if a.Key == key {
			if v, err := strconv.Atoi(strings.TrimSpace(a.Val)); err == nil && v > 0 {
				return v
			}
		}
	}
	return 1
}

// tableGrid lays out the cells of table in a grid, repeating cells that span
// multiple columns or rows.
func tableGrid(table *html.Node) [][]cell {
	type span struct {
		c    cell
		left int
	}
	spans := map[int]*span{}

	var grid [][]cell
	for _, tr := range rows(table) {
		var row []cell
		col := 0
		fill := func() {
			for {
				s, ok := spans[col]
				if !ok || s.left == 0 {
					return
				}
				row = append(row, s.c)
				s.left--
				col++
			}
		}
		for td := tr.FirstChild; td != nil; td = td.NextSibling {
			if td.Type != html.ElementNode || (td.Data != "td" && td.Data != "th") {
				continue
			}
			fill()
			c := cell{text(td), td.Data == "th"}
			colspan := spanAttr(td, "colspan")
			rowspan := spanAttr(td, "rowspan")
			for k := 0; k < colspan; k++ {
				row = append(row, c)
				if rowspan > 1 {
					spans[col] = &span{c, rowspan - 1}
				}
				col++
			}
		}
		fill()
		grid = append(grid, row)
	}
	return grid
}
