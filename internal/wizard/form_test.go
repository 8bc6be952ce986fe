package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/futig/cbam-wizard/internal/entity"
)

func anodeQuestions() []entity.QuestionWithOptions {
	yesNo := []entity.QuestionOption{
		{ID: "o2", Code: "NO", Label: "No", SortOrder: 2},
		{ID: "o1", Code: "YES", Label: "Yes", SortOrder: 1},
	}
	return []entity.QuestionWithOptions{
		{Question: entity.Question{ID: "10", Code: QuestionAnodeType, QuestionType: entity.QuestionTypeSingleChoice, StepCode: StepAnodes, SortOrder: 1},
			Options: []entity.QuestionOption{{Code: "PREBAKED", SortOrder: 1}, {Code: "SODERBERG", SortOrder: 2}}},
		{Question: entity.Question{ID: "11", Code: QuestionPrebakedQuantity, QuestionType: entity.QuestionTypeValue, StepCode: StepPrebakedAnodes, SortOrder: 2}},
		{Question: entity.Question{ID: "12", Code: QuestionPrebakedHasCarbonPercent, QuestionType: entity.QuestionTypeSingleChoice, StepCode: StepPrebakedAnodes, SortOrder: 3}, Options: yesNo},
		{Question: entity.Question{ID: "13", Code: QuestionPrebakedCarbonPercent, QuestionType: entity.QuestionTypeValue, StepCode: StepPrebakedAnodes, SortOrder: 4}},
		{Question: entity.Question{ID: "21", Code: QuestionSoderbergQuantity, QuestionType: entity.QuestionTypeValue, StepCode: StepSoderbergAnodes, SortOrder: 5}},
	}
}

func answers(m map[entity.ID]string) AnswerFunc {
	return func(id entity.ID) string { return m[id] }
}

func TestBuildForm_VisibilityGate(t *testing.T) {
	questions := AnodeQuestions(anodeQuestions(), AnodePrebaked)
	values := map[entity.ID]string{"10": "PREBAKED", "11": "10", "12": "NO"}

	form := BuildForm(questions, answers(values))
	require.Len(t, form.Controls, 3)
	assert.True(t, form.CanAdvance)

	for _, v := range []string{"YES", "yes", "DA", "da"} {
		values["12"] = v
		form = BuildForm(questions, answers(values))
		require.Len(t, form.Controls, 4, v)
		assert.False(t, form.CanAdvance, "carbon percent is required once visible")
	}

	values["13"] = "80"
	form = BuildForm(questions, answers(values))
	assert.True(t, form.CanAdvance)

	for _, v := range []string{"Yes", "Y", " YES", "true"} {
		values["12"] = v
		form = BuildForm(questions, answers(values))
		assert.Len(t, form.Controls, 3, v)
	}
}

func TestBuildForm_CanAdvanceGuard(t *testing.T) {
	questions := AnodeQuestions(anodeQuestions(), AnodePrebaked)
	values := map[entity.ID]string{"10": "PREBAKED", "11": "10", "12": "NO"}
	require.True(t, BuildForm(questions, answers(values)).CanAdvance)

	values["11"] = "   "
	assert.False(t, BuildForm(questions, answers(values)).CanAdvance)
	values["11"] = "10"

	// hidden question answer does not matter
	values["13"] = ""
	assert.True(t, BuildForm(questions, answers(values)).CanAdvance)

	extra := append(questions, entity.QuestionWithOptions{
		Question: entity.Question{ID: "99", Code: "EXTRA", QuestionType: entity.QuestionTypeValue},
	})
	assert.False(t, BuildForm(extra, answers(values)).CanAdvance)
}

func TestBuildForm_Controls(t *testing.T) {
	help := "Tonnes per year"
	questions := []entity.QuestionWithOptions{
		{Question: entity.Question{ID: "1", Code: "Q", QuestionType: entity.QuestionTypeValue, Label: "Quantity", HelpText: &help}},
		{Question: entity.Question{ID: "2", Code: "C", QuestionType: entity.QuestionTypeMultiChoice, Label: "Pick"},
			Options: []entity.QuestionOption{{Code: "B", Label: "b", SortOrder: 2}, {Code: "A", Label: "a", SortOrder: 1}}},
	}

	form := BuildForm(questions, answers(map[entity.ID]string{"2": "B"}))
	require.Len(t, form.Controls, 2)
	assert.Equal(t, entity.ControlInput, form.Controls[0].Kind)
	assert.Equal(t, help, form.Controls[0].HelpText)
	assert.Equal(t, entity.ControlRadio, form.Controls[1].Kind)
	assert.Equal(t, "B", form.Controls[1].Value)
	assert.Equal(t, []entity.ControlOption{{Code: "A", Label: "a"}, {Code: "B", Label: "b"}}, form.Controls[1].Options)
}

func TestAnodeQuestions_FiltersByAnodeType(t *testing.T) {
	assert.Len(t, AnodeQuestions(anodeQuestions(), ""), 1)
	assert.Len(t, AnodeQuestions(anodeQuestions(), AnodePrebaked), 4)
	assert.Len(t, AnodeQuestions(anodeQuestions(), AnodeSoderberg), 2)
}

func TestValidOption(t *testing.T) {
	q := anodeQuestions()[0]
	assert.True(t, ValidOption(q, "SODERBERG"))
	assert.False(t, ValidOption(q, "GRAPHITE"))
	assert.True(t, ValidOption(anodeQuestions()[1], "anything"))
}
