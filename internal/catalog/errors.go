package catalog

import "errors"

// ErrSuperseded is returned by fetches that a newer fetch for the same wizard replaced
var ErrSuperseded = errors.New("question fetch superseded")
