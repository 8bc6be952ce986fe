package formatter

import (
	"bytes"

	"github.com/unidoc/unioffice/document"

	"github.com/futig/cbam-wizard/internal/entity"
)

const (
	docxContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	docxFileExtension = ".docx"
)

type DOCXFormatter struct{}

func NewDOCXFormatter() *DOCXFormatter {
	return &DOCXFormatter{}
}

func (mf *DOCXFormatter) Format(result *entity.CalculationResult) ([]byte, error) {
	doc := document.New()
	defer doc.Close()

	titlePar := doc.AddParagraph()
	titlePar.SetStyle("Heading1")
	titleRun := titlePar.AddRun()
	titleRun.AddText(baseTitle)

	doc.AddParagraph()
	addRows(doc, summary(result))

	if lines := sources(result); len(lines) > 0 {
		headPar := doc.AddParagraph()
		headPar.SetStyle("Heading2")
		headPar.AddRun().AddText("Emission sources")
		addRows(doc, lines)
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (mf *DOCXFormatter) ContentType() string {
	return docxContentType
}

func (mf *DOCXFormatter) FileExtension() string {
	return docxFileExtension
}

func addRows(doc *document.Document, rows []row) {
	for _, r := range rows {
		par := doc.AddParagraph()
		label := par.AddRun()
		label.Properties().SetBold(true)
		label.AddText(r.label + ": ")
		par.AddRun().AddText(r.value)
	}
}
