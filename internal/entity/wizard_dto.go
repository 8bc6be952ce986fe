package entity

type ResultFormat string

const (
	FormatMarkdown ResultFormat = "markdown"
	FormatJSON     ResultFormat = "json"
	FormatDOCX     ResultFormat = "docx"
	FormatPDF      ResultFormat = "pdf"
)

func (f ResultFormat) IsValid() bool {
	switch f {
	case FormatMarkdown, FormatJSON, FormatDOCX, FormatPDF:
		return true
	default:
		return false
	}
}

type OpenWizardRequest struct {
	Path string `json:"path" validate:"required,max=512"`
}

// EditWizardRequest changes the pending input of a static wizard screen
type EditWizardRequest struct {
	ProductName *string `json:"product_name,omitempty" validate:"omitempty,max=200"`
	Category    *string `json:"category,omitempty" validate:"omitempty,max=100"`
	Choice      *string `json:"choice,omitempty" validate:"omitempty,max=100"`
}

type SetAnswerRequest struct {
	Value string `json:"value" validate:"max=2000"`
}

type FuelRowRequest struct {
	Sector             *string `json:"sector,omitempty" validate:"omitempty,max=200"`
	Subsector          *string `json:"subsector,omitempty" validate:"omitempty,max=200"`
	Subsubsector       *string `json:"subsubsector,omitempty" validate:"omitempty,max=200"`
	EmissionFactorName *string `json:"emissionFactorName,omitempty" validate:"omitempty,max=200"`
	Denominator        *string `json:"denominator,omitempty" validate:"omitempty,max=50"`
	Amount             *string `json:"amount,omitempty" validate:"omitempty,max=50"`
}

type PrecursorRowRequest struct {
	Vrsta            *string `json:"vrsta,omitempty" validate:"omitempty,max=200"`
	Kolicina         *string `json:"kolicina,omitempty" validate:"omitempty,max=50"`
	UgradjeneEmisije *string `json:"ugradjeneEmisije,omitempty" validate:"omitempty,max=50"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ControlKind is how a question is rendered
type ControlKind string

const (
	ControlInput ControlKind = "input"
	ControlRadio ControlKind = "radio"
)

type ControlOption struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// Control is one rendered question of a dynamic step
type Control struct {
	QuestionID ID              `json:"questionId"`
	Code       string          `json:"code"`
	Kind       ControlKind     `json:"kind"`
	Label      string          `json:"label"`
	HelpText   string          `json:"helpText,omitempty"`
	Value      string          `json:"value"`
	Options    []ControlOption `json:"options,omitempty"`
}

// Choice is a selectable value of a static wizard screen
type Choice struct {
	Value string `json:"value"`
	Code  string `json:"code"`
	Slug  string `json:"slug"`
}

type FuelRowView struct {
	FuelEntry
	Emissions string `json:"emissions,omitempty"`
}

type PrecursorRowView struct {
	PrecursorEntry
	Emissions string `json:"emissions,omitempty"`
}

// WizardView is everything a client needs to render the current wizard screen
type WizardView struct {
	CalculationID  string             `json:"calculationId"`
	Step           int                `json:"step"`
	Screen         string             `json:"screen"`
	Path           string             `json:"path"`
	Redirect       string             `json:"redirect,omitempty"`
	ProductName    string             `json:"productName,omitempty"`
	Category       string             `json:"category,omitempty"`
	Selected       string             `json:"selected,omitempty"`
	Choices        []Choice           `json:"choices,omitempty"`
	StepCodes      []string           `json:"stepCodes,omitempty"`
	Controls       []Control          `json:"controls,omitempty"`
	CanAdvance     bool               `json:"canAdvance"`
	CanGoBack      bool               `json:"canGoBack"`
	FuelRows       []FuelRowView      `json:"fuelRows,omitempty"`
	FuelTotal      string             `json:"fuelTotal,omitempty"`
	PrecursorRows  []PrecursorRowView `json:"precursorRows,omitempty"`
	PrecursorTotal string             `json:"precursorTotal,omitempty"`
	AnodePreview   string             `json:"anodePreview,omitempty"`
	CatalogError   string             `json:"catalogError,omitempty"`
	AnswerError    string             `json:"answerError,omitempty"`
	Result         *CalculationResult `json:"result,omitempty"`
	ResultError    string             `json:"resultError,omitempty"`
}
