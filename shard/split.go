package shard

import (
	"unicode/utf8"

	"github.com/wippyai/wasm-bundler/errors"
)

// DefaultMaxChars is the per-shard ceiling. Some extension stores reject
// individual files above a few MiB, 1 MiB of characters stays well clear.
const DefaultMaxChars = 1 << 20

// Split cuts text into consecutive chunks of at most maxChars code points.
// Chunks never end inside a multi-byte character, and no chunk is empty.
func Split(text string, maxChars int) ([]string, error) {
	if maxChars <= 0 {
		return nil, errors.New(errors.PhaseShard, errors.KindInvalidInput).
			Value(maxChars).
			Detail("max chars must be positive, got %d", maxChars).
			Build()
	}

	var chunks []string
	for len(text) > 0 {
		n := prefixLen(text, maxChars)
		chunks = append(chunks, text[:n])
		text = text[n:]
	}
	return chunks, nil
}

// prefixLen returns the byte length of the first maxChars code points of s.
func prefixLen(s string, maxChars int) int {
	if len(s) <= maxChars {
		if isASCII(s) {
			return len(s)
		}
	} else if isASCII(s[:maxChars]) {
		return maxChars
	}

	i, count := 0, 0
	for i < len(s) && count < maxChars {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		count++
	}
	return i
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
