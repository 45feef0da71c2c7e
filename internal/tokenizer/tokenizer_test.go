package tokenizer

import (
	"errors"
	"testing"
)

type testCounter struct{}

func (testCounter) Name() string { return "stub" }

func (testCounter) CountString(input string) (int, error) { return len([]rune(input)), nil }

type failingCounter struct{}

func (failingCounter) Name() string { return "failing" }

func (failingCounter) CountString(string) (int, error) { return 0, errors.New("boom") }

func TestCountText(t *testing.T) {
	result, err := CountText(testCounter{}, "hello")
	if err != nil {
		t.Fatalf("CountText error: %v", err)
	}
	if !result.Counted || result.Tokens != 5 {
		t.Fatalf("expected 5 counted tokens, got %+v", result)
	}
}

func TestCountTextEmpty(t *testing.T) {
	result, err := CountText(testCounter{}, "")
	if err != nil {
		t.Fatalf("CountText error: %v", err)
	}
	if !result.Counted || result.Tokens != 0 {
		t.Fatalf("unexpected result for empty text: %+v", result)
	}
}

func TestCountTextErrors(t *testing.T) {
	if _, err := CountText(nil, "x"); err == nil {
		t.Fatalf("expected error for nil counter")
	}
	if _, err := CountText(failingCounter{}, "x"); err == nil {
		t.Fatalf("expected counter error to propagate")
	}
}

func TestIsOpenAIModel(t *testing.T) {
	testCases := map[string]bool{
		"gpt-4o":                 true,
		"text-embedding-3-small": true,
		"claude-3-opus":          false,
		"llama-3":                false,
	}
	for model, expected := range testCases {
		if actual := isOpenAIModel(model); actual != expected {
			t.Fatalf("%s: expected %t, got %t", model, expected, actual)
		}
	}
}
