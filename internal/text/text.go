// Package text loads and normalizes typing passages.
package text

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

var normalizer = strings.NewReplacer(
	"—", "-", // em dash
	"–", "-", // en dash
	"“", `"`, // left double quote
	"”", `"`, // right double quote
	"‘", "'", // left single quote
	"’", "'", // right single quote
	"…", "...", // ellipsis
)

// Normalize substitutes typographic punctuation with the ASCII characters a
// keyboard produces, so character-equality comparisons are well-defined.
func Normalize(s string) string {
	return normalizer.Replace(s)
}

// Passage is an ordered sequence of normalized sentences.
type Passage struct {
	sentences []string
}

// NewPassage normalizes the given sentences and drops empty ones.
func NewPassage(sentences []string) *Passage {
	out := make([]string, 0, len(sentences))
	for _, s := range sentences {
		s = strings.TrimSpace(Normalize(s))
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return &Passage{sentences: out}
}

// Sentence returns the sentence at index i.
func (p *Passage) Sentence(i int) string {
	return p.sentences[i]
}

// Len returns the number of sentences.
func (p *Passage) Len() int {
	return len(p.sentences)
}

// Load reads a passage from a file, one sentence per line.
func Load(path string) (*Passage, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only passage.
			_ = cerr
		}
	}()

	var sentences []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		sentences = append(sentences, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	p := NewPassage(sentences)
	if p.Len() == 0 {
		return nil, fmt.Errorf("passage is empty")
	}
	return p, nil
}

// CountWords counts the non-empty space-delimited tokens in a sentence.
// Consecutive spaces yield no empty tokens.
func CountWords(s string) int {
	count := 0
	for _, tok := range strings.Split(s, " ") {
		if strings.TrimSpace(tok) != "" {
			count++
		}
	}
	return count
}
