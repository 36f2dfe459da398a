package text

import (
	"sync"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

var (
	tokenizerOnce sync.Once
	tokenizer     *sentences.DefaultSentenceTokenizer
	tokenizerErr  error
)

func englishTokenizer() (*sentences.DefaultSentenceTokenizer, error) {
	tokenizerOnce.Do(func() {
		tokenizer, tokenizerErr = english.NewSentenceTokenizer(nil)
	})
	return tokenizer, tokenizerErr
}

// Summary returns first sentence of a goody description squashed into a
// single line. When tokenizer is not available the whole squashed
// description is returned.
func Summary(description string) string {
	s := SquashWhitespace(description)
	if s == "" {
		return ""
	}
	tok, err := englishTokenizer()
	if err != nil {
		return s
	}
	for _, sentence := range tok.Tokenize(s) {
		if first := SquashWhitespace(sentence.Text); first != "" {
			return first
		}
	}
	return s
}
