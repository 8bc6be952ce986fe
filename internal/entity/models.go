package entity

import (
	"encoding/json"
	"time"
)

type QuestionType string

const (
	QuestionTypeValue        QuestionType = "VALUE"
	QuestionTypeSingleChoice QuestionType = "SINGLE_CHOICE"
	QuestionTypeMultiChoice  QuestionType = "MULTI_CHOICE"
)

// IsChoice reports whether answers to the question are option codes
func (t QuestionType) IsChoice() bool {
	return t == QuestionTypeSingleChoice || t == QuestionTypeMultiChoice
}

type Question struct {
	ID           ID           `json:"id"`
	Code         string       `json:"code"`
	QuestionType QuestionType `json:"questionType"`
	Label        string       `json:"label"`
	HelpText     *string      `json:"helpText,omitempty"`
	StepCode     string       `json:"stepCode"`
	SortOrder    int          `json:"sortOrder"`
}

type QuestionOption struct {
	ID         ID     `json:"id"`
	Code       string `json:"code"`
	Label      string `json:"label"`
	SortOrder  int    `json:"sortOrder"`
	QuestionID ID     `json:"questionId"`
}

// QuestionWithOptions is a question as rendered by a wizard step.
// VALUE questions carry an empty option list.
type QuestionWithOptions struct {
	Question
	Options []QuestionOption `json:"options"`
}

type Answer struct {
	ID               ID     `json:"id,omitempty"`
	QuestionID       ID     `json:"questionId"`
	ValueText        string `json:"valueText"`
	EmissionFactorID *ID    `json:"emissionFactorId,omitempty"`
}

type CalculationStatus string

const (
	CalculationStatusDraft      CalculationStatus = "DRAFT"
	CalculationStatusInProgress CalculationStatus = "IN_PROGRESS"
	CalculationStatusSubmitted  CalculationStatus = "SUBMITTED"
	CalculationStatusCompleted  CalculationStatus = "COMPLETED"
)

type Calculation struct {
	ID          ID                `json:"id"`
	Status      CalculationStatus `json:"status"`
	CurrentStep int               `json:"currentStep"`
	ProductName string            `json:"productName,omitempty"`
	Category    string            `json:"category,omitempty"`
	UpdatedAt   *time.Time        `json:"updatedAt,omitempty"`
}

type ResultLine struct {
	Source    string  `json:"source"`
	Emissions float64 `json:"emissions"`
	Unit      string  `json:"unit"`
}

// CalculationResult is the computed outcome shown on the complete screen
type CalculationResult struct {
	CalculationID     ID           `json:"calculationId"`
	ProductName       string       `json:"productName"`
	Category          string       `json:"category"`
	DirectEmissions   float64      `json:"directEmissions"`
	IndirectEmissions float64      `json:"indirectEmissions"`
	TotalEmissions    float64      `json:"totalEmissions"`
	SpecificEmissions *float64     `json:"specificEmissions,omitempty"`
	Unit              string       `json:"unit"`
	Lines             []ResultLine `json:"lines"`
}

type EmissionFactor struct {
	ID          ID      `json:"id"`
	Name        string  `json:"name"`
	Value       float64 `json:"value"`
	Unit        string  `json:"unit"`
	Denominator string  `json:"denominator"`
}

// EmissionFactorQuery selects a node of the sector -> denominator cascade
type EmissionFactorQuery struct {
	Sector       string `json:"sector,omitempty"`
	Subsector    string `json:"subsector,omitempty"`
	Subsubsector string `json:"subsubsector,omitempty"`
	Name         string `json:"name,omitempty"`
	Denominator  string `json:"denominator,omitempty"`
}

// Complete reports whether the query pins down a single emission factor
func (q EmissionFactorQuery) Complete() bool {
	return q.Sector != "" && q.Subsector != "" && q.Subsubsector != "" && q.Name != "" && q.Denominator != ""
}

// FuelAnswerItem is one fuel row inside the JSON answer of the fuel step
type FuelAnswerItem struct {
	EmissionFactorID   ID     `json:"emissionFactorId"`
	EmissionFactorName string `json:"emissionFactorName"`
	Denominator        string `json:"denominator"`
	Amount             string `json:"amount"`
}

// FuelEntry is a fuel consumption row held by the wizard until advance
type FuelEntry struct {
	ID                  string   `json:"id"`
	Sector              string   `json:"sector"`
	Subsector           string   `json:"subsector"`
	Subsubsector        string   `json:"subsubsector"`
	EmissionFactorName  string   `json:"emissionFactorName"`
	Denominator         string   `json:"denominator"`
	Amount              string   `json:"amount"`
	EmissionFactorID    *ID      `json:"emissionFactorId,omitempty"`
	EmissionFactorValue *float64 `json:"emissionFactorValue,omitempty"`
	EmissionFactorUnit  string   `json:"emissionFactorUnit,omitempty"`
	LookupError         string   `json:"lookupError,omitempty"`
}

func (f *FuelEntry) Query() EmissionFactorQuery {
	return EmissionFactorQuery{
		Sector:       f.Sector,
		Subsector:    f.Subsector,
		Subsubsector: f.Subsubsector,
		Name:         f.EmissionFactorName,
		Denominator:  f.Denominator,
	}
}

// PrecursorEntry is a purchased precursor row (type, quantity, embedded emissions)
type PrecursorEntry struct {
	ID               string `json:"id"`
	Vrsta            string `json:"vrsta"`
	Kolicina         string `json:"kolicina"`
	UgradjeneEmisije string `json:"ugradjeneEmisije"`
}

// WizardSession is the persisted wizard position of one calculation
type WizardSession struct {
	CalculationID string           `json:"calculation_id"`
	StateData     json.RawMessage  `json:"state_data,omitempty"`
	FuelRows      []FuelEntry      `json:"fuel_rows,omitempty"`
	PrecursorRows []PrecursorEntry `json:"precursor_rows,omitempty"`
	// Answers is the local answer map; nil until loaded from the backend
	Answers   map[ID]string `json:"answers,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// CalculationUpdate patches the wizard position of a calculation. Empty fields are left untouched.
type CalculationUpdate struct {
	CurrentStep       *int              `json:"currentStep,omitempty"`
	Status            CalculationStatus `json:"status,omitempty"`
	ProductName       string            `json:"productName,omitempty"`
	Category          string            `json:"category,omitempty"`
	ProductType       string            `json:"productType,omitempty"`
	ProductSubtype    string            `json:"productSubtype,omitempty"`
	ProductionProcess string            `json:"productionProcess,omitempty"`
	DataQualityLevel  string            `json:"dataQualityLevel,omitempty"`
}
