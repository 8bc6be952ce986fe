package wizard

import "strings"

// Backend step codes
const (
	StepFuelInput         = "FUEL_INPUT"
	StepEmissionsInput    = "ALU_EMISSIONS_INPUT"
	StepAnodes            = "ALU_ANODES_INPUT"
	StepPrebakedAnodes    = "ALU_PREBAKED_ANODES_INPUT"
	StepSoderbergAnodes   = "ALU_SODERBERG_ANODES_INPUT"
	StepFlueGas           = "ALU_FLUE_GAS_INPUT"
	StepPFCSlope          = "ALU_PFC_SLOPE_INPUT"
	StepPFCOvervoltage    = "ALU_PFC_OVERVOLTAGE_INPUT"
	StepPrecursors        = "ALU_PRECURSORS_INPUT"
	StepElectricitySource = "ELECTRICITY_SOURCE"
)

// StepCodes is the set of backend step codes a screen draws its questions from.
// A nil value means the screen has no backend-driven questions.
type StepCodes []string

// ResolveStepCode maps a wizard position to the step codes to fetch
func ResolveStepCode(step int, category, productType, pathname, dataQualityLevel string) StepCodes {
	if step <= 4 || category != Aluminium {
		return nil
	}
	if productType == ProductTypeProducts {
		return nil
	}

	switch step {
	case 5:
		if dataQualityLevel == DataQualityCalculated {
			return StepCodes{StepEmissionsInput}
		}
		return StepCodes{StepFuelInput}
	case 6:
		return StepCodes{StepAnodes, StepPrebakedAnodes, StepSoderbergAnodes}
	case 7:
		return StepCodes{StepFlueGas}
	case 8:
		if strings.HasSuffix(pathname, "/"+PFCOvervoltage) {
			return StepCodes{StepPFCOvervoltage}
		}
		return StepCodes{StepPFCSlope}
	case 9:
		return StepCodes{StepPrecursors}
	case 10:
		for _, s := range sourceSlugs {
			if strings.HasSuffix(pathname, "/"+s.slug) {
				return nil
			}
		}
		return StepCodes{StepElectricitySource}
	default:
		return nil
	}
}
