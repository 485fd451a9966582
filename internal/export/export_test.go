package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/san-kum/lottosim/internal/config"
	"github.com/san-kum/lottosim/internal/history"
	"github.com/san-kum/lottosim/internal/machine"
	"github.com/san-kum/lottosim/internal/render"
)

var entries = []history.Entry{
	{Numbers: []int{3, 11, 19, 27, 36, 44}, Date: "2024. 03. 09. 오후 02:05:16", Timestamp: 1709993116000},
	{Numbers: []int{1, 2, 3, 4, 5, 6}, Date: "2024. 03. 09. 오전 09:00:00", Timestamp: 1709974800000},
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"CSV", FormatCSV, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteHistory(&buf, FormatJSON, entries); err != nil {
		t.Fatal(err)
	}

	var back []history.Entry
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(back) != 2 || back[0].Timestamp != entries[0].Timestamp {
		t.Errorf("unexpected entries %+v", back)
	}

	buf.Reset()
	if err := WriteJSON(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("expected empty array, got %q", buf.String())
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteHistory(&buf, FormatCSV, entries); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(lines))
	}
	if lines[0] != "timestamp,date,numbers" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if lines[1] != "1709993116000,2024. 03. 09. 오후 02:05:16,3 11 19 27 36 44" {
		t.Errorf("unexpected row %q", lines[1])
	}
}

func TestDrumSVG(t *testing.T) {
	drum := config.DefaultMachine()
	ps := []machine.Particle{
		{ID: 5, X: 250, Y: 250, Radius: 24, Visible: true},
		{ID: 23, X: 200, Y: 300, Radius: 24, Visible: true, State: render.Dimmed},
		{ID: 44, X: 300, Y: 300, Radius: 24, Visible: true, State: render.Picked},
		{ID: 9, X: 300, Y: 200, Radius: 24, Visible: false},
	}

	svg := DrumSVG(ps, drum)
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("expected a complete svg document")
	}
	if got := strings.Count(svg, "<text"); got != 3 {
		t.Errorf("expected 3 numbered balls, got %d", got)
	}
	if strings.Contains(svg, ">9</text>") {
		t.Error("hidden ball should not be drawn")
	}
	if !strings.Contains(svg, `fill="#ff7272" stroke="none" stroke-width="2" opacity="0.3"`) {
		t.Error("expected ball 23 faded in the red band")
	}
	if !strings.Contains(svg, `fill="#b0d840" stroke="#ffffff"`) {
		t.Error("expected ball 44 ringed in the green band")
	}
}

func TestTrailSVG(t *testing.T) {
	drum := config.DefaultMachine()
	if TrailSVG([]Point{{1, 1}}, drum, "#fff") != "" {
		t.Error("expected empty output for a single point")
	}
	svg := TrailSVG([]Point{{250, 250}, {260, 255}, {270, 240}}, drum, "#00ff00")
	if !strings.Contains(svg, `d="M250.0,250.0 L260.0,255.0 L270.0,240.0"`) {
		t.Errorf("unexpected path in %s", svg)
	}
}
