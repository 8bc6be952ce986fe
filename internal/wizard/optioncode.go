package wizard

import "strings"

// Question codes whose option codes translate to wizard values
const (
	QuestionProductType       = "ALU_PRODUCT_TYPE"
	QuestionProductionProcess = "PRODUCTION_PROCESS"
	QuestionProductSubtype    = "ALU_PRODUCT_SUBTYPE"
	QuestionDataQuality       = "DATA_QUALITY_LEVEL"
	QuestionAnodeType         = "ANODE_TYPE"
	QuestionPFCMethod         = "PFC_METHOD"
	QuestionElectricitySource = "ELECTRICITY_SOURCE"
)

type codePair struct {
	code  string
	value string
}

// optionCodes is closed per question code. A pair never applies to another question.
var optionCodes = map[string][]codePair{
	QuestionProductType: {
		{"UNWROUGHT", ProductTypeUnwrought},
		{"PRODUCTS", ProductTypeProducts},
	},
	QuestionProductionProcess: {
		{"PRIMARY", ProcessPrimary},
		{"SECONDARY", ProcessSecondary},
		{"UNKNOWN", ProcessUnknown},
	},
	QuestionProductSubtype: {
		{"BARS_RODS_PROFILES", SubtypeBarsRodsProfiles},
		{"WIRE", SubtypeWire},
		{"PLATES_SHEETS", SubtypePlatesSheets},
		{"FOIL", SubtypeFoil},
		{"TUBES_PIPES", SubtypeTubesPipes},
		{"STRUCTURES", SubtypeStructures},
	},
	QuestionDataQuality: {
		{"REAL_DATA", DataQualityReal},
		{"CALCULATED_EMISSIONS", DataQualityCalculated},
		{"DEFAULT_VALUES", DataQualityDefault},
	},
	QuestionAnodeType: {
		{"PREBAKED", AnodePrebaked},
		{"SODERBERG", AnodeSoderberg},
	},
	QuestionPFCMethod: {
		{"SLOPE", PFCSlope},
		{"OVERVOLTAGE", PFCOvervoltage},
	},
	QuestionElectricitySource: {
		{"GRID", SourceGrid},
		{"SELF_POWER", SourceSelfPower},
		{"PPA", SourcePPA},
	},
}

// CodeToState translates a backend option code into the wizard value.
// Unknown codes are lowercased.
func CodeToState(questionCode, optionCode string) string {
	for _, p := range optionCodes[questionCode] {
		if p.code == optionCode {
			return p.value
		}
	}
	return strings.ToLower(optionCode)
}

// StateToCode translates a wizard value into the backend option code.
// Unknown values are uppercased.
func StateToCode(questionCode, value string) string {
	for _, p := range optionCodes[questionCode] {
		if p.value == value {
			return p.code
		}
	}
	return strings.ToUpper(value)
}

// OptionCodes lists the declared option codes of a question in declaration order
func OptionCodes(questionCode string) []string {
	pairs := optionCodes[questionCode]
	codes := make([]string, 0, len(pairs))
	for _, p := range pairs {
		codes = append(codes, p.code)
	}
	return codes
}

// TranslatedQuestions lists the question codes with declared option tables
func TranslatedQuestions() []string {
	return []string{
		QuestionProductType,
		QuestionProductionProcess,
		QuestionProductSubtype,
		QuestionDataQuality,
		QuestionAnodeType,
		QuestionPFCMethod,
		QuestionElectricitySource,
	}
}
