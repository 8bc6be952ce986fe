package cbam

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/bytedance/sonic"

	"github.com/futig/cbam-wizard/internal/entity"
	pkghttp "github.com/futig/cbam-wizard/pkg/http"
)

// envelope is the {success, <payload key>, message} wrapper of every backend response
type envelope map[string]json.RawMessage

func (e envelope) success() bool {
	raw, ok := e["success"]
	if !ok {
		return true
	}
	var v bool
	if err := sonic.Unmarshal(raw, &v); err != nil {
		return false
	}
	return v
}

func (e envelope) message() string {
	var msg string
	if raw, ok := e["message"]; ok {
		_ = sonic.Unmarshal(raw, &msg)
	}
	return msg
}

// payload decodes the value under key into T. A missing or null key yields the zero value.
func payload[T any](e envelope, key string) (T, error) {
	var out T
	if !e.success() {
		msg := e.message()
		if msg == "" {
			msg = "request was not successful"
		}
		return out, fmt.Errorf("%w: %s", entity.ErrBackend, msg)
	}

	raw, ok := e[key]
	if !ok || string(raw) == "null" {
		return out, nil
	}
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("%w: decode %s: %v", entity.ErrBackend, key, err)
	}
	return out, nil
}

// mapError turns transport failures into domain errors. notFound is used for 404 responses.
func mapError(err error, notFound error) error {
	if err == nil {
		return nil
	}

	var httpErr *pkghttp.HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.StatusCode {
		case http.StatusUnauthorized:
			return entity.ErrSessionExpired
		case http.StatusNotFound:
			if notFound != nil {
				return notFound
			}
		}

		var env envelope
		if sonic.Unmarshal(httpErr.Body, &env) == nil && env.message() != "" {
			return fmt.Errorf("%w: HTTP %d: %s", entity.ErrBackend, httpErr.StatusCode, env.message())
		}
		return fmt.Errorf("%w: HTTP %d", entity.ErrBackend, httpErr.StatusCode)
	}

	if errors.Is(err, entity.ErrBackend) || errors.Is(err, entity.ErrSessionExpired) {
		return err
	}

	return fmt.Errorf("%w: %w", entity.ErrBackend, err)
}
