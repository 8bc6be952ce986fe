package answers

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindOption
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindOption:
		return "option"
	default:
		return "text"
	}
}

// Value is an answer held by the store. Text is what the user typed and is
// what gets saved; Number is a typed read of it for previews.
type Value struct {
	Kind   Kind
	Text   string
	Number decimal.Decimal
	Code   string
}

func Text(s string) Value {
	return Value{Kind: KindText, Text: s}
}

// Number is a computed amount; its text is the canonical decimal form
func Number(d decimal.Decimal) Value {
	return Value{Kind: KindNumber, Text: d.String(), Number: d}
}

func Option(code string) Value {
	return Value{Kind: KindOption, Code: code}
}

// Infer types a raw value: numeric text becomes KindNumber, everything else KindText.
// Decimal commas are accepted. The raw text is kept either way.
func Infer(raw string) Value {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Text(raw)
	}
	if d, err := decimal.NewFromString(strings.ReplaceAll(trimmed, ",", ".")); err == nil {
		return Value{Kind: KindNumber, Text: raw, Number: d}
	}
	return Text(raw)
}

// ForQuestion types user input for a question: choice questions hold option codes
func ForQuestion(choice bool, raw string) Value {
	if choice {
		return Option(strings.TrimSpace(raw))
	}
	return Infer(raw)
}

// String is the wire form of the value
func (v Value) String() string {
	if v.Kind == KindOption {
		return v.Code
	}
	return v.Text
}

// Empty reports whether the value counts as unanswered
func (v Value) Empty() bool {
	return strings.TrimSpace(v.String()) == ""
}
