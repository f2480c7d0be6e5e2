package text

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"em dash", "well—known", "well-known"},
		{"en dash", "1–2", "1-2"},
		{"double quotes", "“quoted”", `"quoted"`},
		{"single quotes", "‘it’s’", "'it's'"},
		{"ellipsis", "wait…", "wait..."},
		{"plain ascii", "plain text", "plain text"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.in); got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestCountWords(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"The cat sat", 3},
		{"one", 1},
		{"", 0},
		{"   ", 0},
		{"double  space", 2},
		{" leading and trailing ", 3},
	}
	for _, tc := range cases {
		if got := CountWords(tc.in); got != tc.want {
			t.Errorf("CountWords(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestNewPassageDropsEmptyLines(t *testing.T) {
	p := NewPassage([]string{"First line.", "", "  ", "Second—line."})
	if p.Len() != 2 {
		t.Fatalf("expected 2 sentences, got %d", p.Len())
	}
	if p.Sentence(1) != "Second-line." {
		t.Fatalf("expected normalized sentence, got %q", p.Sentence(1))
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "passage.txt")
	content := "The “quick” fox.\n\nIt ran—fast.\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write passage: %v", err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("load passage: %v", err)
	}
	if p.Len() != 2 {
		t.Fatalf("expected 2 sentences, got %d", p.Len())
	}
	if p.Sentence(0) != `The "quick" fox.` {
		t.Fatalf("unexpected first sentence: %q", p.Sentence(0))
	}
}

func TestLoadEmptyPassage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, []byte("\n\n"), 0o644); err != nil {
		t.Fatalf("write passage: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for empty passage")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestDefaultPassage(t *testing.T) {
	p := Default()
	if p.Len() == 0 {
		t.Fatalf("default passage is empty")
	}
	for i := 0; i < p.Len(); i++ {
		if p.Sentence(i) == "" {
			t.Fatalf("default passage has empty sentence at %d", i)
		}
	}
}
