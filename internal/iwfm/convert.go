// Package iwfm reads IWFM-style text head output. Convert rewrites the
// legacy report, where layers are implied by record order under each time
// marker, into an artifact whose records carry an explicit time label and
// layer number. LoadTable parses an artifact into a columnar Table.
package iwfm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/zarladar/interactive-hydrograph/internal/herr"
)

// Family names the model family whose arrays this package produces.
const Family = "IWFM"

const (
	sentinel   = "*"
	timeMarker = "TIME"
	layerTag   = "LAYER"
)

// maxLine bounds a single report line. A record holds one value per
// node, so lines run to hundreds of kilobytes on large meshes.
var maxLine = 64 << 20

// scanErr converts a scanner failure after line into an error. An
// over-long line is a malformed source.
func scanErr(err error, source string, line int) error {
	if errors.Is(err, bufio.ErrTooLong) {
		return &herr.MalformedSourceError{Source: source, Line: line + 1, Reason: fmt.Sprintf("line exceeds %d bytes", maxLine)}
	}
	return fmt.Errorf("reading %s: %w", source, err)
}

var datePattern = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{2,4}(_\d{2}:\d{2})?`)

// ConvertStats summarises one conversion.
type ConvertStats struct {
	Lines    int
	Steps    int
	Records  int
	Comments int
}

// Convert streams the report from r to w. source names r in errors.
//
// A line containing TIME starts a step; its label is the first token
// after the marker. A line starting with the sentinel is a comment.
// Every other non-blank line is a record: a leading date token replaces
// the current label and restarts the layer count, otherwise the current
// label is prepended. Records are written as "label v1 ... vN layer"
// and each step gets a "#TIME label LAYER" header.
func Convert(r io.Reader, w io.Writer, source string) (ConvertStats, error) {
	var st ConvertStats
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, min(64*1024, maxLine)), maxLine)
	bw := bufio.NewWriter(w)

	label, layer := "", 0
	header := func() error {
		st.Steps++
		_, err := fmt.Fprintf(bw, "#%s %s %s\n", timeMarker, label, layerTag)
		return err
	}

	for sc.Scan() {
		st.Lines++
		line := sc.Text()
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			continue
		case strings.Contains(line, timeMarker):
			label, layer = timeLabel(line), 0
			if label == "" {
				continue
			}
			if err := header(); err != nil {
				return st, err
			}
			continue
		case strings.HasPrefix(trimmed, sentinel):
			st.Comments++
			continue
		}

		fields := strings.Fields(trimmed)
		if datePattern.MatchString(fields[0]) {
			label, layer = fields[0], 0
			fields = fields[1:]
			if err := header(); err != nil {
				return st, err
			}
		} else if label == "" {
			return st, &herr.MalformedSourceError{Source: source, Line: st.Lines, Reason: "data record before any time marker"}
		}
		if len(fields) == 0 {
			return st, &herr.MalformedSourceError{Source: source, Line: st.Lines, Reason: "record has no values"}
		}

		layer++
		st.Records++
		bw.WriteString(label)
		for _, f := range fields {
			bw.WriteByte(' ')
			bw.WriteString(f)
		}
		bw.WriteByte(' ')
		bw.WriteString(strconv.Itoa(layer))
		if err := bw.WriteByte('\n'); err != nil {
			return st, err
		}
	}
	if err := sc.Err(); err != nil {
		return st, scanErr(err, source, st.Lines)
	}
	return st, bw.Flush()
}

// timeLabel returns the first token following TIME with sentinels removed.
func timeLabel(line string) string {
	_, rest, _ := strings.Cut(line, timeMarker)
	fields := strings.Fields(strings.ReplaceAll(rest, sentinel, " "))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
