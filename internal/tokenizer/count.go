package tokenizer

import "errors"

var errNilCounter = errors.New("nil tokenizer counter")

// CountResult captures the outcome of counting a document.
type CountResult struct {
	Tokens  int
	Counted bool
}

// CountText estimates tokens for text.
func CountText(counter Counter, text string) (CountResult, error) {
	if counter == nil {
		return CountResult{}, errNilCounter
	}
	tokens, countError := counter.CountString(text)
	if countError != nil {
		return CountResult{}, countError
	}
	return CountResult{Tokens: tokens, Counted: true}, nil
}
