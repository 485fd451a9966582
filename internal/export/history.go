// Package export writes draw history and drum snapshots to files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/san-kum/lottosim/internal/history"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("export: unknown format %q", s)
	}
}

func WriteHistory(w io.Writer, f Format, entries []history.Entry) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, entries)
	case FormatCSV:
		return WriteCSV(w, entries)
	default:
		return fmt.Errorf("export: unknown format %q", f)
	}
}

// WriteJSON writes entries in the same layout the history log stores them,
// indented for reading.
func WriteJSON(w io.Writer, entries []history.Entry) error {
	if entries == nil {
		entries = []history.Entry{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(entries)
}

// WriteCSV writes one row per entry: timestamp, date, then the numbers
// separated by spaces.
func WriteCSV(w io.Writer, entries []history.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"timestamp", "date", "numbers"}); err != nil {
		return err
	}
	for _, e := range entries {
		nums := make([]string, len(e.Numbers))
		for i, n := range e.Numbers {
			nums[i] = strconv.Itoa(n)
		}
		row := []string{strconv.FormatInt(e.Timestamp, 10), e.Date, strings.Join(nums, " ")}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
