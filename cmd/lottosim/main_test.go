package main

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
)

func TestParseGrid(t *testing.T) {
	names, ranges, err := parseGrid([]string{"gravity=0.1,0.2", "jitter= 0 , 0.5 ,1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "gravity" || names[1] != "jitter" {
		t.Errorf("unexpected names: %v", names)
	}
	if len(ranges[1]) != 3 || ranges[1][2] != 1 {
		t.Errorf("unexpected ranges: %v", ranges)
	}

	for _, bad := range [][]string{nil, {"gravity"}, {"=1"}, {"gravity=a"}} {
		if _, _, err := parseGrid(bad); err == nil {
			t.Errorf("expected error for %v", bad)
		}
	}
}

func TestLinePrompter(t *testing.T) {
	tests := []struct {
		input string
		yes   bool
		want  bool
	}{
		{"y\n", false, true},
		{"YES\n", false, true},
		{"n\n", false, false},
		{"\n", false, false},
		{"", false, false},
		{"", true, true},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		p := &linePrompter{in: bufio.NewReader(strings.NewReader(tt.input)), out: &out, yes: tt.yes}
		if got := p.Confirm("clear?"); got != tt.want {
			t.Errorf("input %q yes=%v: expected %v, got %v", tt.input, tt.yes, tt.want, got)
		}
		if !tt.yes && !strings.Contains(out.String(), "[y/N]") {
			t.Errorf("expected prompt, got %q", out.String())
		}
	}
}
