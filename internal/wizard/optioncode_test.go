package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptionCodes_RoundTrip(t *testing.T) {
	for _, q := range TranslatedQuestions() {
		codes := OptionCodes(q)
		assert.NotEmpty(t, codes, q)
		for _, code := range codes {
			assert.Equal(t, code, StateToCode(q, CodeToState(q, code)), "%s/%s", q, code)
		}
	}
}

func TestOptionCodes_KnownPairs(t *testing.T) {
	tests := []struct {
		question string
		code     string
		value    string
	}{
		{QuestionProductionProcess, "SECONDARY", ProcessSecondary},
		{QuestionProductSubtype, "BARS_RODS_PROFILES", SubtypeBarsRodsProfiles},
		{QuestionDataQuality, "CALCULATED_EMISSIONS", DataQualityCalculated},
		{QuestionAnodeType, "PREBAKED", AnodePrebaked},
		{QuestionElectricitySource, "SELF_POWER", SourceSelfPower},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.value, CodeToState(tt.question, tt.code))
			assert.Equal(t, tt.code, StateToCode(tt.question, tt.value))
		})
	}
}

func TestOptionCodes_Fallback(t *testing.T) {
	assert.Equal(t, "recycled", CodeToState(QuestionProductionProcess, "RECYCLED"))
	assert.Equal(t, "RECYCLED", StateToCode(QuestionProductionProcess, "recycled"))
	assert.Equal(t, "whatever", CodeToState("NOT_A_QUESTION", "WHATEVER"))
}

func TestOptionCodes_NoLeakBetweenQuestions(t *testing.T) {
	// PREBAKED is declared for ANODE_TYPE only
	assert.Equal(t, "prebaked", CodeToState(QuestionPFCMethod, "PREBAKED"))
	assert.Equal(t, "PRE-BAKED", StateToCode(QuestionPFCMethod, AnodePrebaked))
}
