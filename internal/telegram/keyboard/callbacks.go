package keyboard

import (
	"fmt"
	"strconv"
	"strings"
)

// Callback actions
const (
	ActionPick     = "pick" // static screen choice, value is the slug
	ActionOption   = "opt"  // radio option, value is "<control>:<option>"
	ActionNav      = "nav"  // next, back or refetch
	ActionDownload = "dl"   // report format
)

const (
	NavNext    = "next"
	NavBack    = "back"
	NavRefetch = "refetch"
)

// CallbackData represents parsed callback data
type CallbackData struct {
	Action string
	Value  string
}

// ParseCallback parses callback data string
func ParseCallback(data string) (*CallbackData, error) {
	parts := strings.SplitN(data, ":", 2)
	if len(parts) != 2 || parts[0] == "" {
		return nil, fmt.Errorf("invalid callback format: %s", data)
	}

	return &CallbackData{
		Action: parts[0],
		Value:  parts[1],
	}, nil
}

// EncodeCallback creates callback data string
func EncodeCallback(action, value string) string {
	return fmt.Sprintf("%s:%s", action, value)
}

// EncodeOption addresses a radio option by position. Option codes can exceed
// the 64 byte callback limit, positions never do.
func EncodeOption(control, option int) string {
	return EncodeCallback(ActionOption, fmt.Sprintf("%d:%d", control, option))
}

// ParseOption is the inverse of EncodeOption for the callback value
func ParseOption(value string) (control, option int, err error) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid option callback: %s", value)
	}
	if control, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, fmt.Errorf("invalid option callback: %s", value)
	}
	if option, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, fmt.Errorf("invalid option callback: %s", value)
	}
	return control, option, nil
}
