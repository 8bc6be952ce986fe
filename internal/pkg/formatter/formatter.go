package formatter

import (
	"fmt"
	"strconv"

	"github.com/futig/cbam-wizard/internal/entity"
)

const baseTitle = "CBAM emissions report"

type Formatter interface {
	Format(result *entity.CalculationResult) ([]byte, error)
	ContentType() string
	FileExtension() string
}

// Factory builds formatters. DOCX needs a unioffice license and stays
// unavailable unless the factory is told the license is set.
type Factory struct {
	docx bool
}

func NewFactory(docxLicensed bool) *Factory {
	return &Factory{docx: docxLicensed}
}

func (f *Factory) Create(format entity.ResultFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatJSON:
		return NewJSONFormatter(), nil
	case entity.FormatDOCX:
		if !f.docx {
			return nil, fmt.Errorf("%w: %s needs a unioffice license key", entity.ErrFormatUnavailable, format)
		}
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", entity.ErrInvalidParameter, format)
	}
}

// row is one label/value line shared by the document formats
type row struct {
	label string
	value string
}

func amount(v float64, unit string) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + " " + unit
}

// summary lists the header facts of a result
func summary(r *entity.CalculationResult) []row {
	rows := []row{
		{"Calculation", r.CalculationID.String()},
	}
	if r.ProductName != "" {
		rows = append(rows, row{"Product", r.ProductName})
	}
	if r.Category != "" {
		rows = append(rows, row{"Category", r.Category})
	}
	rows = append(rows,
		row{"Direct emissions", amount(r.DirectEmissions, r.Unit)},
		row{"Indirect emissions", amount(r.IndirectEmissions, r.Unit)},
		row{"Total emissions", amount(r.TotalEmissions, r.Unit)},
	)
	if r.SpecificEmissions != nil {
		rows = append(rows, row{"Specific emissions", amount(*r.SpecificEmissions, r.Unit+"/t")})
	}
	return rows
}

// sources lists the per-source result lines
func sources(r *entity.CalculationResult) []row {
	rows := make([]row, 0, len(r.Lines))
	for _, l := range r.Lines {
		rows = append(rows, row{l.Source, amount(l.Emissions, l.Unit)})
	}
	return rows
}
