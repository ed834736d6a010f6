// Package badwords flags review and complaint text containing blocked words.
package badwords

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"unicode"

	"github.com/joy095/studio/logger"
)

var (
	mu    sync.RWMutex
	words = map[string]struct{}{}
)

// LoadBadWords replaces the list with the words in filename, one per line.
// Blank lines and lines starting with # are ignored.
func LoadBadWords(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to read bad words file: %w", err)
	}
	defer f.Close()

	n, err := Load(f)
	if err != nil {
		return err
	}
	logger.InfoLogger.Infof("Loaded %d bad words from %s", n, filename)
	return nil
}

// Load replaces the list with the words read from r.
func Load(r io.Reader) (int, error) {
	next := make(map[string]struct{})
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		next[strings.ToLower(line)] = struct{}{}
	}
	if err := sc.Err(); err != nil {
		return 0, fmt.Errorf("failed to scan bad words: %w", err)
	}

	mu.Lock()
	words = next
	mu.Unlock()
	return len(next), nil
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Matches returns the distinct blocked words found in text, in order of appearance.
func Matches(text string) []string {
	mu.RLock()
	defer mu.RUnlock()

	if len(words) == 0 {
		return nil
	}

	var found []string
	seen := make(map[string]bool)
	for _, w := range tokenize(text) {
		if _, ok := words[w]; ok && !seen[w] {
			seen[w] = true
			found = append(found, w)
		}
	}
	return found
}

// ContainsBadWords reports whether text contains any blocked word.
func ContainsBadWords(text string) bool {
	return len(Matches(text)) > 0
}

// Censor replaces every blocked word with asterisks of the same length.
func Censor(text string) string {
	hits := Matches(text)
	if len(hits) == 0 {
		return text
	}
	blocked := make(map[string]bool, len(hits))
	for _, h := range hits {
		blocked[h] = true
	}

	var b strings.Builder
	var word []rune
	flush := func() {
		if len(word) == 0 {
			return
		}
		if blocked[strings.ToLower(string(word))] {
			b.WriteString(strings.Repeat("*", len(word)))
		} else {
			b.WriteString(string(word))
		}
		word = word[:0]
	}
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			word = append(word, r)
			continue
		}
		flush()
		b.WriteRune(r)
	}
	flush()
	return b.String()
}

// AddBadWord adds a word at runtime.
func AddBadWord(word string) error {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return fmt.Errorf("bad word must not be empty")
	}
	mu.Lock()
	words[word] = struct{}{}
	mu.Unlock()
	return nil
}

func Count() int {
	mu.RLock()
	defer mu.RUnlock()
	return len(words)
}
