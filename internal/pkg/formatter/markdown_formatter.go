package formatter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/futig/cbam-wizard/internal/entity"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (mf *MarkdownFormatter) Format(result *entity.CalculationResult) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n", baseTitle)

	for _, r := range summary(result) {
		fmt.Fprintf(&buf, "- **%s:** %s\n", r.label, escapeCell(r.value))
	}

	if lines := sources(result); len(lines) > 0 {
		buf.WriteString("\n## Emission sources\n\n| Source | Emissions |\n|---|---|\n")
		for _, r := range lines {
			fmt.Fprintf(&buf, "| %s | %s |\n", escapeCell(r.label), escapeCell(r.value))
		}
	}

	return buf.Bytes(), nil
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
