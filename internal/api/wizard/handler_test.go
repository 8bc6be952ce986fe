package wizard

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/futig/cbam-wizard/internal/api/common"
	"github.com/futig/cbam-wizard/internal/entity"
	"github.com/futig/cbam-wizard/internal/pkg/validator"
	wizarduc "github.com/futig/cbam-wizard/internal/usecase/wizard"
	pkghttp "github.com/futig/cbam-wizard/pkg/http"
)

// stubUsecase records the last call and answers with a fixed view or error
type stubUsecase struct {
	err        error
	lastCalc   string
	lastPath   string
	lastQID    entity.ID
	lastValue  string
	lastRow    string
	lastToken  string
	lastEdit   *entity.EditWizardRequest
	lastFuel   *entity.FuelRowRequest
	lastFormat entity.ResultFormat
}

func (s *stubUsecase) view(ctx context.Context, calculationID string) (*entity.WizardView, error) {
	s.lastCalc = calculationID
	s.lastToken, _ = pkghttp.TokenFromContext(ctx)
	if s.err != nil {
		return nil, s.err
	}
	return &entity.WizardView{CalculationID: calculationID, Step: 1, Screen: "product-entry", Path: "/new-calculation"}, nil
}

func (s *stubUsecase) Open(ctx context.Context, calculationID, path string) (*entity.WizardView, error) {
	s.lastPath = path
	return s.view(ctx, calculationID)
}

func (s *stubUsecase) View(ctx context.Context, calculationID string) (*entity.WizardView, error) {
	return s.view(ctx, calculationID)
}

func (s *stubUsecase) Refetch(ctx context.Context, calculationID string) (*entity.WizardView, error) {
	return s.view(ctx, calculationID)
}

func (s *stubUsecase) Edit(ctx context.Context, calculationID string, req *entity.EditWizardRequest) (*entity.WizardView, error) {
	s.lastEdit = req
	return s.view(ctx, calculationID)
}

func (s *stubUsecase) SetAnswer(ctx context.Context, calculationID string, questionID entity.ID, value string) (*entity.WizardView, error) {
	s.lastQID, s.lastValue = questionID, value
	return s.view(ctx, calculationID)
}

func (s *stubUsecase) Next(ctx context.Context, calculationID string) (*entity.WizardView, error) {
	return s.view(ctx, calculationID)
}

func (s *stubUsecase) Back(ctx context.Context, calculationID string) (*entity.WizardView, error) {
	v, err := s.view(ctx, calculationID)
	if err == nil {
		v.Redirect = "/dashboard"
	}
	return v, err
}

func (s *stubUsecase) AddFuelRow(ctx context.Context, calculationID string, req *entity.FuelRowRequest) (*entity.WizardView, error) {
	s.lastFuel = req
	return s.view(ctx, calculationID)
}

func (s *stubUsecase) UpdateFuelRow(ctx context.Context, calculationID, rowID string, req *entity.FuelRowRequest) (*entity.WizardView, error) {
	s.lastRow, s.lastFuel = rowID, req
	return s.view(ctx, calculationID)
}

func (s *stubUsecase) DeleteFuelRow(ctx context.Context, calculationID, rowID string) (*entity.WizardView, error) {
	s.lastRow = rowID
	return s.view(ctx, calculationID)
}

func (s *stubUsecase) AddPrecursorRow(ctx context.Context, calculationID string, _ *entity.PrecursorRowRequest) (*entity.WizardView, error) {
	return s.view(ctx, calculationID)
}

func (s *stubUsecase) UpdatePrecursorRow(ctx context.Context, calculationID, rowID string, _ *entity.PrecursorRowRequest) (*entity.WizardView, error) {
	s.lastRow = rowID
	return s.view(ctx, calculationID)
}

func (s *stubUsecase) DeletePrecursorRow(ctx context.Context, calculationID, rowID string) (*entity.WizardView, error) {
	s.lastRow = rowID
	return s.view(ctx, calculationID)
}

func (s *stubUsecase) Result(_ context.Context, calculationID string) (*entity.CalculationResult, error) {
	s.lastCalc = calculationID
	if s.err != nil {
		return nil, s.err
	}
	return &entity.CalculationResult{Unit: "tCO2e"}, nil
}

func (s *stubUsecase) Report(_ context.Context, calculationID string, format entity.ResultFormat) (*wizarduc.Report, error) {
	s.lastCalc, s.lastFormat = calculationID, format
	if s.err != nil {
		return nil, s.err
	}
	return &wizarduc.Report{Body: []byte("# report"), ContentType: "text/markdown", Filename: "cbam-" + calculationID + ".md"}, nil
}

func newTestRouter(uc *stubUsecase) http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(uc, validator.New()))
	return r
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer opaque-token")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) entity.ErrorResponse {
	t.Helper()
	var resp entity.ErrorResponse
	require.NoError(t, sonic.ConfigStd.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHandler_RequiresBearerToken(t *testing.T) {
	h := newTestRouter(&stubUsecase{})

	req := httptest.NewRequest(http.MethodGet, "/calculations/42/wizard", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, common.CodeSessionExpired, decodeError(t, rec).Error)
}

func TestHandler_OpenForwardsPathAndToken(t *testing.T) {
	uc := &stubUsecase{}
	h := newTestRouter(uc)

	rec := do(t, h, http.MethodPost, "/calculations/42/wizard/open", `{"path":"/new-calculation/iron-and-steel"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "42", uc.lastCalc)
	assert.Equal(t, "/new-calculation/iron-and-steel", uc.lastPath)
	assert.Equal(t, "opaque-token", uc.lastToken)

	var view entity.WizardView
	require.NoError(t, sonic.ConfigStd.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "42", view.CalculationID)
	assert.Equal(t, "product-entry", view.Screen)
}

func TestHandler_RejectsInvalidBodies(t *testing.T) {
	tests := []struct {
		name   string
		method string
		target string
		body   string
	}{
		{"malformed json", http.MethodPost, "/calculations/42/wizard/open", `{"path":`},
		{"missing path", http.MethodPost, "/calculations/42/wizard/open", `{}`},
		{"malformed answer", http.MethodPut, "/calculations/42/wizard/answers/7", `[1]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &stubUsecase{}
			rec := do(t, newTestRouter(uc), tt.method, tt.target, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, common.CodeInvalidRequest, decodeError(t, rec).Error)
			assert.Empty(t, uc.lastCalc, "usecase must not be called")
		})
	}
}

func TestHandler_MapsUsecaseErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("load: %w", entity.ErrSessionExpired), http.StatusUnauthorized, common.CodeSessionExpired},
		{entity.ErrWizardNotOpened, http.StatusNotFound, common.CodeNotFound},
		{entity.ErrCannotAdvance, http.StatusConflict, common.CodeConflict},
		{entity.ErrInvalidChoice, http.StatusUnprocessableEntity, common.CodeUnprocessable},
		{fmt.Errorf("upsert: %w", entity.ErrBackend), http.StatusBadGateway, common.CodeBackend},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			rec := do(t, newTestRouter(&stubUsecase{err: tt.err}), http.MethodPost, "/calculations/42/wizard/next", "")

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, decodeError(t, rec).Error)
		})
	}
}

func TestHandler_SetAnswerAndRows(t *testing.T) {
	uc := &stubUsecase{}
	h := newTestRouter(uc)

	rec := do(t, h, http.MethodPut, "/calculations/42/wizard/answers/17", `{"value":"12.5"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, entity.ID("17"), uc.lastQID)
	assert.Equal(t, "12.5", uc.lastValue)

	rec = do(t, h, http.MethodPut, "/calculations/42/wizard/fuels/row-1", `{"amount":"100"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "row-1", uc.lastRow)
	require.NotNil(t, uc.lastFuel)
	require.NotNil(t, uc.lastFuel.Amount)
	assert.Equal(t, "100", *uc.lastFuel.Amount)
	assert.Nil(t, uc.lastFuel.Sector)

	rec = do(t, h, http.MethodDelete, "/calculations/42/wizard/precursors/row-2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "row-2", uc.lastRow)
}

func TestHandler_BackCarriesRedirect(t *testing.T) {
	rec := do(t, newTestRouter(&stubUsecase{}), http.MethodPost, "/calculations/42/wizard/back", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var view entity.WizardView
	require.NoError(t, sonic.ConfigStd.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "/dashboard", view.Redirect)
}

func TestHandler_GetResult(t *testing.T) {
	t.Run("json result without format", func(t *testing.T) {
		rec := do(t, newTestRouter(&stubUsecase{}), http.MethodGet, "/calculations/42/result", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), `"unit":"tCO2e"`)
	})

	t.Run("document download", func(t *testing.T) {
		uc := &stubUsecase{}
		rec := do(t, newTestRouter(uc), http.MethodGet, "/calculations/42/result?format=markdown", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, entity.FormatMarkdown, uc.lastFormat)
		assert.Equal(t, "text/markdown", rec.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="cbam-42.md"`, rec.Header().Get("Content-Disposition"))
		assert.Equal(t, "# report", rec.Body.String())
	})

	t.Run("unknown format", func(t *testing.T) {
		uc := &stubUsecase{}
		rec := do(t, newTestRouter(uc), http.MethodGet, "/calculations/42/result?format=xlsx", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, uc.lastCalc)
	})

	t.Run("incomplete calculation", func(t *testing.T) {
		rec := do(t, newTestRouter(&stubUsecase{err: entity.ErrNotComplete}), http.MethodGet, "/calculations/42/result?format=pdf", "")

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}
