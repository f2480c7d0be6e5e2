package statsui

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/typedrift/retype/internal/model"
	"github.com/typedrift/retype/internal/store"
)

func TestSparkline(t *testing.T) {
	if got := Sparkline(nil); got != "" {
		t.Fatalf("expected empty sparkline for no values, got %q", got)
	}

	flat := Sparkline([]float64{30, 30, 30})
	if len(flat) != 3 {
		t.Fatalf("expected 3 cells, got %q", flat)
	}
	if flat != strings.Repeat(string(flat[0]), 3) {
		t.Fatalf("expected uniform cells for flat values, got %q", flat)
	}

	ramp := Sparkline([]float64{0, 50, 100})
	if len(ramp) != 3 {
		t.Fatalf("expected 3 cells, got %q", ramp)
	}
	if ramp[0] != sparkChars[0] {
		t.Errorf("minimum should map to the lowest glyph, got %q", ramp)
	}
	if ramp[2] != sparkChars[len(sparkChars)-1] {
		t.Errorf("maximum should map to the highest glyph, got %q", ramp)
	}
	if ramp[0] == ramp[2] {
		t.Errorf("min and max share a glyph: %q", ramp)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		seconds int64
		want    string
	}{
		{0, "0s"},
		{59, "59s"},
		{60, "1m 0s"},
		{125, "2m 5s"},
		{3600, "1h 0m"},
		{7425, "2h 3m"},
	}
	for _, tc := range cases {
		if got := formatDuration(tc.seconds); got != tc.want {
			t.Errorf("formatDuration(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestFitLines(t *testing.T) {
	got := fitLines("ab\ncdef", 4, 3)
	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	for i, line := range lines {
		if len(line) != 4 {
			t.Errorf("line %d not padded to width: %q", i, line)
		}
	}

	got = fitLines("a\nb\nc\nd", 1, 2)
	if got != "a\nb" {
		t.Fatalf("expected truncation to 2 lines, got %q", got)
	}
}

func TestMoveTabCycles(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "retype.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if cerr := st.Close(); cerr != nil {
			t.Errorf("close store: %v", cerr)
		}
	})

	m := NewModel(st)
	if m.activeTab != tabOverview {
		t.Fatalf("expected overview tab active initially, got %d", m.activeTab)
	}
	m.moveTab(1)
	if m.activeTab != tabHistory {
		t.Fatalf("expected history tab after move, got %d", m.activeTab)
	}
	m.moveTab(1)
	if m.activeTab != tabOverview {
		t.Fatalf("expected wrap back to overview, got %d", m.activeTab)
	}
	m.moveTab(-1)
	if m.activeTab != tabHistory {
		t.Fatalf("expected backward wrap to history, got %d", m.activeTab)
	}
}

func TestRenderOverview(t *testing.T) {
	prof := model.Profile{
		TotalTimeSeconds: 125,
		StreakCurrent:    3,
		StreakBest:       7,
		TestsStarted:     12,
		TestsCompleted:   10,
	}
	history := []model.SentenceRecord{
		{WPM: 30, CorrectChars: 18, TotalChars: 20},
		{WPM: 50, CorrectChars: 20, TotalChars: 20},
	}

	out := renderOverview(prof, history, 42, 100)
	for _, want := range []string{"42", "2m 5s", "3d (best 7d)", "12", "10", "40.0", "95.0%", "Recent WPM"} {
		if !strings.Contains(out, want) {
			t.Errorf("overview missing %q:\n%s", want, out)
		}
	}
}

func TestRenderOverviewNoHistory(t *testing.T) {
	out := renderOverview(model.Profile{}, nil, 0, 100)
	if strings.Contains(out, "Avg WPM") || strings.Contains(out, "Recent WPM") {
		t.Fatalf("expected no averages or sparkline without history:\n%s", out)
	}
}
