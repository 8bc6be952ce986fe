package formatter

import (
	"github.com/bytedance/sonic"

	"github.com/futig/cbam-wizard/internal/entity"
)

const (
	jsonContentType   = "application/json"
	jsonFileExtension = ".json"
)

type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

func (jf *JSONFormatter) Format(result *entity.CalculationResult) ([]byte, error) {
	return sonic.ConfigStd.MarshalIndent(result, "", "  ")
}

func (jf *JSONFormatter) ContentType() string {
	return jsonContentType
}

func (jf *JSONFormatter) FileExtension() string {
	return jsonFileExtension
}
