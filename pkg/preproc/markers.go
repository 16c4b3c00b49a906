package preproc

import (
	"regexp"
	"sort"
	"strings"
)

// markerRe matches GNU line markers: # <line> "<file>" <flags...>
var markerRe = regexp.MustCompile(`^#\s+\d+\s+"([^"]*)"`)

// Origins maps rows of the preprocessed stream to the header each row was
// pulled from.
type Origins struct {
	rows  []int
	files []string
}

// OriginAt returns the file that produced the given zero-based row, or ""
// when no marker preceded it (raw input with no preprocessing).
func (o *Origins) OriginAt(row int) string {
	i := sort.SearchInts(o.rows, row+1) - 1
	if i < 0 {
		return ""
	}
	return o.files[i]
}

// ScanMarkers extracts the line markers from preprocessed text. It returns
// the text with marker lines blanked, so row numbers seen by the parser
// still match the original stream, and the row-to-file table built from
// the markers.
func ScanMarkers(text string) (string, *Origins) {
	lines := strings.Split(text, "\n")
	origins := &Origins{}
	for i, line := range lines {
		m := markerRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		lines[i] = ""
		// The marker names the file for the rows that follow it.
		origins.rows = append(origins.rows, i+1)
		origins.files = append(origins.files, m[1])
	}
	return strings.Join(lines, "\n"), origins
}
