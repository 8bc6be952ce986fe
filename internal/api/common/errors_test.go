package common

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/futig/cbam-wizard/internal/catalog"
	"github.com/futig/cbam-wizard/internal/entity"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("fetch answers: %w", entity.ErrSessionExpired), http.StatusUnauthorized, CodeSessionExpired},
		{entity.ErrCalculationNotFound, http.StatusNotFound, CodeNotFound},
		{fmt.Errorf("%w: fuel row x", entity.ErrRowNotFound), http.StatusNotFound, CodeNotFound},
		{entity.ErrInvalidPath, http.StatusBadRequest, CodeInvalidRequest},
		{entity.ErrCannotAdvance, http.StatusConflict, CodeConflict},
		{catalog.ErrSuperseded, http.StatusConflict, CodeConflict},
		{entity.ErrInvalidChoice, http.StatusUnprocessableEntity, CodeUnprocessable},
		{fmt.Errorf("%w: boom", entity.ErrBackend), http.StatusBadGateway, CodeBackend},
		{fmt.Errorf("%w: docx needs a unioffice license key", entity.ErrFormatUnavailable), http.StatusNotImplemented, CodeUnavailable},
		{fmt.Errorf("disk full"), http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, code := Status(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}
