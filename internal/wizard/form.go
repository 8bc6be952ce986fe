package wizard

import (
	"sort"
	"strings"

	"github.com/futig/cbam-wizard/internal/entity"
)

// Question codes used by the anode step and its preview
const (
	QuestionPrebakedQuantity         = "PREBAKED_ANODE_QUANTITY"
	QuestionPrebakedHasCarbonPercent = "PREBAKED_HAS_CARBON_PERCENT"
	QuestionPrebakedCarbonPercent    = "PREBAKED_CARBON_PERCENT"
	QuestionSoderbergQuantity        = "SODERBERG_PASTE_QUANTITY"
	QuestionSoderbergHasCarbon       = "SODERBERG_HAS_CARBON_PERCENT"
	QuestionSoderbergCarbonPercent   = "SODERBERG_CARBON_PERCENT"

	// QuestionPrecursorList receives the precursor rows as one JSON answer
	QuestionPrecursorList = "PRECURSOR_LIST"
)

// visibilityGates maps a detail question to the sibling that must be affirmative for it to show
var visibilityGates = map[string]string{
	QuestionPrebakedCarbonPercent:  QuestionPrebakedHasCarbonPercent,
	QuestionSoderbergCarbonPercent: QuestionSoderbergHasCarbon,
}

// IsAffirmative matches the yes answers of both languages, verbatim
func IsAffirmative(v string) bool {
	switch v {
	case "YES", "yes", "DA", "da":
		return true
	default:
		return false
	}
}

// AnswerFunc returns the current answer of a question or "" when unset
type AnswerFunc func(questionID entity.ID) string

// Form is the rendered question list of a dynamic step
type Form struct {
	Controls   []entity.Control
	CanAdvance bool
}

// VisibleQuestions drops the detail questions whose gate is not affirmative
func VisibleQuestions(questions []entity.QuestionWithOptions, answer AnswerFunc) []entity.QuestionWithOptions {
	byCode := make(map[string]entity.ID, len(questions))
	for _, q := range questions {
		if _, ok := byCode[q.Code]; !ok {
			byCode[q.Code] = q.ID
		}
	}

	visible := make([]entity.QuestionWithOptions, 0, len(questions))
	for _, q := range questions {
		if gate, gated := visibilityGates[q.Code]; gated {
			id, ok := byCode[gate]
			if !ok || !IsAffirmative(answer(id)) {
				continue
			}
		}
		visible = append(visible, q)
	}

	return visible
}

// BuildForm renders one control per visible question. The question list is trusted
// to be ordered and free of duplicate codes.
func BuildForm(questions []entity.QuestionWithOptions, answer AnswerFunc) Form {
	visible := VisibleQuestions(questions, answer)

	form := Form{
		Controls:   make([]entity.Control, 0, len(visible)),
		CanAdvance: true,
	}
	for _, q := range visible {
		value := answer(q.ID)
		if strings.TrimSpace(value) == "" {
			form.CanAdvance = false
		}

		ctrl := entity.Control{
			QuestionID: q.ID,
			Code:       q.Code,
			Kind:       entity.ControlInput,
			Label:      q.Label,
			Value:      value,
		}
		if q.HelpText != nil {
			ctrl.HelpText = *q.HelpText
		}
		if q.QuestionType.IsChoice() {
			ctrl.Kind = entity.ControlRadio
			ctrl.Options = sortedOptions(q.Options)
		}

		form.Controls = append(form.Controls, ctrl)
	}

	return form
}

func sortedOptions(options []entity.QuestionOption) []entity.ControlOption {
	sorted := append([]entity.QuestionOption(nil), options...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SortOrder < sorted[j].SortOrder
	})

	out := make([]entity.ControlOption, 0, len(sorted))
	for _, o := range sorted {
		out = append(out, entity.ControlOption{Code: o.Code, Label: o.Label})
	}
	return out
}

// ValidOption reports whether code is an option of a choice question.
// VALUE questions accept any text.
func ValidOption(q entity.QuestionWithOptions, code string) bool {
	if !q.QuestionType.IsChoice() || code == "" {
		return true
	}
	for _, o := range q.Options {
		if o.Code == code {
			return true
		}
	}
	return false
}

// FindQuestion returns the first question with the given code
func FindQuestion(questions []entity.QuestionWithOptions, code string) (entity.QuestionWithOptions, bool) {
	for _, q := range questions {
		if q.Code == code {
			return q, true
		}
	}
	return entity.QuestionWithOptions{}, false
}

// AnodeQuestions keeps the anode type question and the sub-form of the chosen anode type.
// The three anode step codes are fetched together and told apart by step code.
func AnodeQuestions(questions []entity.QuestionWithOptions, anodeType string) []entity.QuestionWithOptions {
	out := make([]entity.QuestionWithOptions, 0, len(questions))
	for _, q := range questions {
		switch q.StepCode {
		case StepPrebakedAnodes:
			if anodeType != AnodePrebaked {
				continue
			}
		case StepSoderbergAnodes:
			if anodeType != AnodeSoderberg {
				continue
			}
		}
		out = append(out, q)
	}
	return out
}

// WithoutCodes drops the questions that are answered by rows instead of controls
func WithoutCodes(questions []entity.QuestionWithOptions, codes ...string) []entity.QuestionWithOptions {
	if len(codes) == 0 {
		return questions
	}
	out := make([]entity.QuestionWithOptions, 0, len(questions))
	for _, q := range questions {
		skip := false
		for _, c := range codes {
			if q.Code == c {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, q)
		}
	}
	return out
}
