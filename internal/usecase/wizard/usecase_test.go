package wizard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/futig/cbam-wizard/internal/catalog"
	"github.com/futig/cbam-wizard/internal/entity"
	"github.com/futig/cbam-wizard/internal/integration/cbam"
	"github.com/futig/cbam-wizard/internal/pkg/formatter"
	"github.com/futig/cbam-wizard/internal/repository"
	"github.com/futig/cbam-wizard/internal/usecase/emissionfactor"
	wz "github.com/futig/cbam-wizard/internal/wizard"
)

const calcID = "42"

// recordingConnector wraps the mock backend to observe and break it
type recordingConnector struct {
	*cbam.MockConnector

	mu            sync.Mutex
	updates       []entity.CalculationUpdate
	upserts       int
	questionsErr  error
	listErr       error
	calcErr       error
	updateErr     error
	submitsStatus entity.CalculationStatus
}

// rejectToken makes every backend call fail the way an expired token does
func (c *recordingConnector) rejectToken() {
	c.questionsErr = entity.ErrSessionExpired
	c.listErr = entity.ErrSessionExpired
	c.calcErr = entity.ErrSessionExpired
	c.updateErr = entity.ErrSessionExpired
}

func (c *recordingConnector) GetCalculation(ctx context.Context, calculationID entity.ID) (*entity.Calculation, error) {
	if c.calcErr != nil {
		return nil, c.calcErr
	}
	return c.MockConnector.GetCalculation(ctx, calculationID)
}

func (c *recordingConnector) QuestionsByStep(ctx context.Context, stepCode string) ([]entity.Question, error) {
	if c.questionsErr != nil {
		return nil, c.questionsErr
	}
	return c.MockConnector.QuestionsByStep(ctx, stepCode)
}

func (c *recordingConnector) ListAnswers(ctx context.Context, calculationID entity.ID) ([]entity.Answer, error) {
	if c.listErr != nil {
		return nil, c.listErr
	}
	return c.MockConnector.ListAnswers(ctx, calculationID)
}

func (c *recordingConnector) UpsertAnswer(ctx context.Context, calculationID entity.ID, answer entity.Answer) (*entity.Answer, error) {
	c.mu.Lock()
	c.upserts++
	c.mu.Unlock()
	return c.MockConnector.UpsertAnswer(ctx, calculationID, answer)
}

func (c *recordingConnector) UpdateCalculation(ctx context.Context, calculationID entity.ID, update entity.CalculationUpdate) (*entity.Calculation, error) {
	if c.updateErr != nil {
		return nil, c.updateErr
	}
	c.mu.Lock()
	c.updates = append(c.updates, update)
	c.mu.Unlock()

	calc, err := c.MockConnector.UpdateCalculation(ctx, calculationID, update)
	if err == nil && update.Status == entity.CalculationStatusSubmitted && c.submitsStatus != "" {
		calc.Status = c.submitsStatus
	}
	return calc, err
}

func (c *recordingConnector) lastUpdate(t *testing.T) entity.CalculationUpdate {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	require.NotEmpty(t, c.updates)
	return c.updates[len(c.updates)-1]
}

func (c *recordingConnector) storedAnswers(t *testing.T) map[entity.ID]entity.Answer {
	t.Helper()
	list, err := c.MockConnector.ListAnswers(context.Background(), calcID)
	require.NoError(t, err)
	out := make(map[entity.ID]entity.Answer, len(list))
	for _, a := range list {
		out[a.QuestionID] = a
	}
	return out
}

func newTestUsecase(t *testing.T) (*WizardUsecase, *recordingConnector) {
	t.Helper()
	mock, err := cbam.NewMockConnector(zap.NewNop())
	require.NoError(t, err)

	conn := &recordingConnector{MockConnector: mock}
	uc := NewUsecase(
		conn,
		repository.NewWizardSessionMemory(time.Hour),
		catalog.NewClient(conn, time.Minute),
		emissionfactor.NewUsecase(conn, time.Minute, zap.NewNop()),
		formatter.NewFactory(false),
		wz.NewRouter("/new-calculation", []string{"Iron and Steel"}),
		"/dashboard",
		zap.NewNop(),
	)
	return uc, conn
}

func strPtr(s string) *string { return &s }

func storedFuelRows(t *testing.T, conn *recordingConnector) []entity.FuelAnswerItem {
	t.Helper()
	answer, ok := conn.storedAnswers(t)["501"]
	require.True(t, ok, "fuel answer stored")
	assert.Nil(t, answer.EmissionFactorID)

	var items []entity.FuelAnswerItem
	require.NoError(t, sonic.ConfigStd.UnmarshalFromString(answer.ValueText, &items))
	return items
}

func naturalGasRow(amount string) *entity.FuelRowRequest {
	return &entity.FuelRowRequest{
		Sector:             strPtr("Energy"),
		Subsector:          strPtr("Stationary combustion"),
		Subsubsector:       strPtr("Gaseous fuels"),
		EmissionFactorName: strPtr("Natural gas"),
		Denominator:        strPtr("m3"),
		Amount:             strPtr(amount),
	}
}

func controlCodes(v *entity.WizardView) []string {
	codes := make([]string, 0, len(v.Controls))
	for _, c := range v.Controls {
		codes = append(codes, c.Code)
	}
	return codes
}

func mustView(t *testing.T) func(v *entity.WizardView, err error) *entity.WizardView {
	return func(v *entity.WizardView, err error) *entity.WizardView {
		t.Helper()
		require.NoError(t, err)
		require.NotNil(t, v)
		return v
	}
}

func TestWizard_UnwroughtRealDataToComplete(t *testing.T) {
	uc, conn := newTestUsecase(t)
	ctx := context.Background()
	must := mustView(t)

	v := must(uc.View(ctx, calcID))
	assert.Equal(t, string(wz.ScreenProductEntry), v.Screen)
	assert.Equal(t, "/new-calculation", v.Path)
	assert.False(t, v.CanAdvance)
	assert.True(t, v.CanGoBack)

	v = must(uc.Edit(ctx, calcID, &entity.EditWizardRequest{ProductName: strPtr(" Ingots "), Category: strPtr("aluminium")}))
	assert.True(t, v.CanAdvance)

	v = must(uc.Next(ctx, calcID))
	assert.Equal(t, "/new-calculation/aluminium", v.Path)
	assert.Equal(t, "Ingots", conn.lastUpdate(t).ProductName)
	assert.Equal(t, "Aluminium", conn.lastUpdate(t).Category)

	must(uc.Edit(ctx, calcID, &entity.EditWizardRequest{Choice: strPtr("UNWROUGHT")}))
	v = must(uc.Next(ctx, calcID))
	assert.Equal(t, "/new-calculation/aluminium/unwrought", v.Path)
	assert.Equal(t, "UNWROUGHT", conn.lastUpdate(t).ProductType)

	must(uc.Edit(ctx, calcID, &entity.EditWizardRequest{Choice: strPtr("unknown")}))
	v = must(uc.Next(ctx, calcID))
	assert.Equal(t, string(wz.ScreenDataQuality), v.Screen)
	assert.Equal(t, "PRIMARY", conn.lastUpdate(t).ProductionProcess, "unknown is computed as primary")

	must(uc.Edit(ctx, calcID, &entity.EditWizardRequest{Choice: strPtr("fuels")}))
	v = must(uc.Next(ctx, calcID))
	assert.Equal(t, "/new-calculation/aluminium/unwrought/unknown/fuels", v.Path)
	assert.Equal(t, []string{wz.StepFuelInput}, v.StepCodes)
	assert.False(t, v.CanAdvance, "no fuel rows yet")

	v = must(uc.AddFuelRow(ctx, calcID, naturalGasRow("100")))
	require.Len(t, v.FuelRows, 1)
	assert.Equal(t, "206.67 kg CO₂e", v.FuelRows[0].Emissions)
	assert.Equal(t, "206.67 kg CO₂e", v.FuelTotal)
	assert.True(t, v.CanAdvance)

	v = must(uc.Next(ctx, calcID))
	assert.Equal(t, string(wz.ScreenAnodeInput), v.Screen)
	assert.Equal(t, "/new-calculation/aluminium/unwrought/unknown/fuels/anode-elektrode", v.Path)
	fuel := storedFuelRows(t, conn)
	require.Len(t, fuel, 1)
	assert.Equal(t, entity.FuelAnswerItem{
		EmissionFactorID:   "1",
		EmissionFactorName: "Natural gas",
		Denominator:        "m3",
		Amount:             "100",
	}, fuel[0])

	assert.Equal(t, []string{"ANODE_TYPE"}, controlCodes(v))

	v = must(uc.SetAnswer(ctx, calcID, "601", "PREBAKED"))
	assert.Equal(t, []string{"ANODE_TYPE", wz.QuestionPrebakedQuantity, wz.QuestionPrebakedHasCarbonPercent}, controlCodes(v))

	_, err := uc.SetAnswer(ctx, calcID, "601", "ELECTRODES")
	require.ErrorIs(t, err, entity.ErrInvalidChoice)
	_, err = uc.SetAnswer(ctx, calcID, "621", "5")
	require.ErrorIs(t, err, entity.ErrQuestionNotFound)

	must(uc.SetAnswer(ctx, calcID, "611", "10"))
	v = must(uc.SetAnswer(ctx, calcID, "612", "YES"))
	assert.Contains(t, controlCodes(v), wz.QuestionPrebakedCarbonPercent)
	assert.False(t, v.CanAdvance, "carbon percent is visible and empty")

	v = must(uc.SetAnswer(ctx, calcID, "613", "99"))
	assert.Equal(t, "36.30 t CO₂e", v.AnodePreview)
	assert.True(t, v.CanAdvance)

	v = must(uc.Next(ctx, calcID))
	assert.Equal(t, string(wz.ScreenFlueGasInput), v.Screen)
	assert.Equal(t, "PREBAKED", conn.storedAnswers(t)["601"].ValueText)

	must(uc.SetAnswer(ctx, calcID, "701", "1000"))
	must(uc.SetAnswer(ctx, calcID, "702", "OVERVOLTAGE"))
	v = must(uc.Next(ctx, calcID))
	assert.Equal(t, "/new-calculation/aluminium/unwrought/unknown/fuels/anode-elektrode/dimni-plinovi/overvoltage", v.Path)
	assert.Equal(t, []string{wz.StepPFCOvervoltage}, v.StepCodes)

	must(uc.SetAnswer(ctx, calcID, "811", "5"))
	must(uc.SetAnswer(ctx, calcID, "812", "95"))
	v = must(uc.Next(ctx, calcID))
	assert.Equal(t, string(wz.ScreenPrecursorInput), v.Screen)
	assert.Empty(t, v.Controls, "precursor list is answered by rows")

	v = must(uc.AddPrecursorRow(ctx, calcID, &entity.PrecursorRowRequest{
		Vrsta:            strPtr("Alumina"),
		Kolicina:         strPtr("2"),
		UgradjeneEmisije: strPtr("1,8"),
	}))
	assert.Equal(t, "3.60 t CO₂e", v.PrecursorTotal)

	v = must(uc.Next(ctx, calcID))
	assert.Equal(t, string(wz.ScreenElectricitySource), v.Screen)
	assert.Contains(t, conn.storedAnswers(t)["901"].ValueText, `"vrsta":"Alumina"`)

	must(uc.SetAnswer(ctx, calcID, "1001", "GRID"))
	v = must(uc.Next(ctx, calcID))
	assert.Equal(t, string(wz.ScreenElectricityInput), v.Screen)
	assert.Equal(t, "/new-calculation/aluminium/unwrought/unknown/fuels/anode-elektrode/dimni-plinovi/overvoltage/prekursori/elektricna-energija/grid", v.Path)
	assert.Empty(t, v.StepCodes)
	assert.True(t, v.CanAdvance)

	v = must(uc.Next(ctx, calcID))
	assert.Equal(t, string(wz.ScreenComplete), v.Screen)
	assert.False(t, v.CanGoBack)
	assert.False(t, v.CanAdvance)
	assert.Equal(t, entity.CalculationStatusSubmitted, conn.lastUpdate(t).Status)
	require.NotNil(t, v.Result)
	assert.InDelta(t, 0.206672, v.Result.TotalEmissions, 1e-9)

	report, err := uc.Report(ctx, calcID, entity.FormatMarkdown)
	require.NoError(t, err)
	assert.Equal(t, "cbam-42.md", report.Filename)
	assert.Contains(t, string(report.Body), "Natural gas")

	_, err = uc.Report(ctx, calcID, entity.FormatDOCX)
	assert.ErrorIs(t, err, entity.ErrFormatUnavailable)
}

func TestWizard_OpenHasNoSideEffects(t *testing.T) {
	uc, conn := newTestUsecase(t)
	ctx := context.Background()

	v, err := uc.Open(ctx, calcID, "/new-calculation/aluminium/unwrought/primary/fuels/anode-elektrode?tab=1")
	require.NoError(t, err)
	assert.Equal(t, string(wz.ScreenAnodeInput), v.Screen)
	assert.Equal(t, 6, v.Step)
	assert.Empty(t, conn.updates)
	assert.Zero(t, conn.upserts)

	v, err = uc.Open(ctx, calcID, "/new-calculation/aluminium/unwrought/bogus/fuels")
	require.NoError(t, err)
	assert.Equal(t, string(wz.ScreenProductionProcess), v.Screen)
	assert.Equal(t, "/new-calculation/aluminium/unwrought", v.Path)

	_, err = uc.Open(ctx, calcID, "/elsewhere/aluminium")
	assert.ErrorIs(t, err, entity.ErrInvalidPath)
}

func TestWizard_BackDeletesAnswersOfLeftStep(t *testing.T) {
	uc, conn := newTestUsecase(t)
	ctx := context.Background()
	must := mustView(t)

	must(uc.Open(ctx, calcID, "/new-calculation/aluminium/unwrought/primary/fuels/anode-elektrode"))
	must(uc.SetAnswer(ctx, calcID, "601", "SODERBERG"))
	must(uc.SetAnswer(ctx, calcID, "621", "10"))
	v := must(uc.SetAnswer(ctx, calcID, "622", "NE"))
	assert.Equal(t, "31.17 t CO₂e", v.AnodePreview, "soderberg paste defaults to 85% carbon")
	must(uc.SetAnswer(ctx, calcID, "622", "DA"))
	v = must(uc.SetAnswer(ctx, calcID, "623", "80"))
	assert.Equal(t, "29.33 t CO₂e", v.AnodePreview)

	must(uc.Next(ctx, calcID))
	must(uc.SetAnswer(ctx, calcID, "701", "1000"))

	v = must(uc.Back(ctx, calcID))
	assert.Equal(t, string(wz.ScreenAnodeInput), v.Screen)
	stored := conn.storedAnswers(t)
	assert.Contains(t, stored, entity.ID("601"))
	assert.NotContains(t, stored, entity.ID("701"))
	assert.Equal(t, "SODERBERG", v.Controls[0].Value, "answers of the step returned to are kept")

	v = must(uc.Back(ctx, calcID))
	assert.Equal(t, string(wz.ScreenFuelInput), v.Screen)
	require.NotNil(t, conn.lastUpdate(t).CurrentStep)
	assert.Equal(t, 5, *conn.lastUpdate(t).CurrentStep)
	assert.Empty(t, conn.storedAnswers(t))
}

func TestWizard_BackFromFirstStepLeaves(t *testing.T) {
	uc, _ := newTestUsecase(t)

	v, err := uc.Back(context.Background(), calcID)
	require.NoError(t, err)
	assert.Equal(t, "/dashboard", v.Redirect)
	assert.Equal(t, string(wz.ScreenProductEntry), v.Screen)
}

func TestWizard_FinishRequiresCompletedCalculation(t *testing.T) {
	uc, conn := newTestUsecase(t)
	conn.submitsStatus = entity.CalculationStatusSubmitted
	ctx := context.Background()

	_, err := uc.Open(ctx, calcID, "/new-calculation/aluminium/unwrought/secundary/nothing")
	require.NoError(t, err)

	_, err = uc.Next(ctx, calcID)
	require.ErrorIs(t, err, entity.ErrNotComplete)

	v, err := uc.View(ctx, calcID)
	require.NoError(t, err)
	assert.Equal(t, string(wz.ScreenDefaultValues), v.Screen)

	conn.submitsStatus = ""
	v, err = uc.Next(ctx, calcID)
	require.NoError(t, err)
	assert.Equal(t, string(wz.ScreenComplete), v.Screen)
	assert.Equal(t, "SECONDARY", conn.lastUpdate(t).ProductionProcess)
}

func TestWizard_FuelRows(t *testing.T) {
	uc, _ := newTestUsecase(t)
	ctx := context.Background()
	must := mustView(t)

	_, err := uc.AddFuelRow(ctx, calcID, naturalGasRow("1"))
	require.ErrorIs(t, err, entity.ErrUnsupportedInput)

	must(uc.Open(ctx, calcID, "/new-calculation/aluminium/unwrought/primary/fuels"))

	_, err = uc.AddFuelRow(ctx, calcID, naturalGasRow("lots"))
	require.ErrorIs(t, err, entity.ErrInvalidFormat)

	v := must(uc.AddFuelRow(ctx, calcID, naturalGasRow("100")))
	rowID := v.FuelRows[0].ID
	require.NotEmpty(t, rowID)

	t.Run("changing a selector clears the ones below", func(t *testing.T) {
		v := must(uc.UpdateFuelRow(ctx, calcID, rowID, &entity.FuelRowRequest{Subsubsector: strPtr("Liquid fuels")}))
		row := v.FuelRows[0]
		assert.Equal(t, "Energy", row.Sector)
		assert.Empty(t, row.EmissionFactorName)
		assert.Empty(t, row.Denominator)
		assert.Nil(t, row.EmissionFactorID)
		assert.Empty(t, row.Emissions)
		assert.False(t, v.CanAdvance)
	})

	t.Run("unknown factor is reported on the row", func(t *testing.T) {
		v := must(uc.UpdateFuelRow(ctx, calcID, rowID, &entity.FuelRowRequest{
			EmissionFactorName: strPtr("Diesel"),
			Denominator:        strPtr("barrels"),
		}))
		row := v.FuelRows[0]
		assert.Nil(t, row.EmissionFactorID)
		assert.NotEmpty(t, row.LookupError)
	})

	t.Run("rows resolve independently", func(t *testing.T) {
		v := must(uc.AddFuelRow(ctx, calcID, naturalGasRow("10")))
		require.Len(t, v.FuelRows, 2)
		assert.NotNil(t, v.FuelRows[1].EmissionFactorID)
		assert.Equal(t, "20.67 kg CO₂e", v.FuelTotal)
	})

	_, err = uc.UpdateFuelRow(ctx, calcID, "missing", &entity.FuelRowRequest{})
	require.ErrorIs(t, err, entity.ErrRowNotFound)

	v = must(uc.DeleteFuelRow(ctx, calcID, rowID))
	assert.Len(t, v.FuelRows, 1)
}

func TestWizard_SetAnswerOnStaticScreen(t *testing.T) {
	uc, _ := newTestUsecase(t)

	_, err := uc.SetAnswer(context.Background(), calcID, "601", "PREBAKED")
	assert.ErrorIs(t, err, entity.ErrUnsupportedInput)
}

func TestWizard_CatalogFailureBlocksAdvance(t *testing.T) {
	uc, conn := newTestUsecase(t)
	conn.questionsErr = entity.ErrBackend
	ctx := context.Background()

	v, err := uc.Open(ctx, calcID, "/new-calculation/aluminium/unwrought/primary/emissions")
	require.NoError(t, err)
	assert.NotEmpty(t, v.CatalogError)
	assert.Empty(t, v.Controls)
	assert.False(t, v.CanAdvance)

	_, err = uc.Next(ctx, calcID)
	require.ErrorIs(t, err, entity.ErrCannotAdvance)

	conn.questionsErr = nil
	v, err = uc.Refetch(ctx, calcID)
	require.NoError(t, err)
	assert.Empty(t, v.CatalogError)
	assert.Len(t, v.Controls, 3)
}

func TestWizard_ExpiredSessionSurfaces(t *testing.T) {
	uc, conn := newTestUsecase(t)
	conn.listErr = entity.ErrSessionExpired

	_, err := uc.View(context.Background(), calcID)
	assert.True(t, errors.Is(err, entity.ErrSessionExpired))
}

func TestWizard_NextSavesEveryFuelRow(t *testing.T) {
	uc, conn := newTestUsecase(t)
	ctx := context.Background()
	must := mustView(t)

	must(uc.Open(ctx, calcID, "/new-calculation/aluminium/unwrought/primary/fuels"))
	must(uc.AddFuelRow(ctx, calcID, naturalGasRow("100")))
	kwh := naturalGasRow("10,5")
	kwh.Denominator = strPtr("kWh")
	v := must(uc.AddFuelRow(ctx, calcID, kwh))
	require.Len(t, v.FuelRows, 2)

	v = must(uc.Next(ctx, calcID))
	assert.Equal(t, string(wz.ScreenAnodeInput), v.Screen)

	rows := storedFuelRows(t, conn)
	require.Len(t, rows, 2)
	assert.Equal(t, entity.ID("1"), rows[0].EmissionFactorID)
	assert.Equal(t, "100", rows[0].Amount)
	assert.Equal(t, entity.ID("2"), rows[1].EmissionFactorID)
	assert.Equal(t, "10,5", rows[1].Amount, "amount is saved as typed")
}

func TestWizard_RejectedTokenOnCachedSession(t *testing.T) {
	uc, conn := newTestUsecase(t)
	ctx := context.Background()

	v, err := uc.Open(ctx, calcID, "/new-calculation/aluminium/unwrought/primary")
	require.NoError(t, err)
	require.Equal(t, string(wz.ScreenDataQuality), v.Screen)

	conn.rejectToken()

	_, err = uc.View(ctx, calcID)
	assert.ErrorIs(t, err, entity.ErrSessionExpired)

	_, err = uc.Edit(ctx, calcID, &entity.EditWizardRequest{Choice: strPtr("fuels")})
	assert.ErrorIs(t, err, entity.ErrSessionExpired)

	_, err = uc.Back(ctx, calcID)
	assert.ErrorIs(t, err, entity.ErrSessionExpired)
}

func TestWizard_ExpiredTokenFailsStaticTransition(t *testing.T) {
	uc, conn := newTestUsecase(t)
	ctx := context.Background()
	must := mustView(t)

	must(uc.Open(ctx, calcID, "/new-calculation/aluminium/unwrought"))
	must(uc.Edit(ctx, calcID, &entity.EditWizardRequest{Choice: strPtr("primary")}))

	conn.updateErr = entity.ErrSessionExpired
	_, err := uc.Next(ctx, calcID)
	require.ErrorIs(t, err, entity.ErrSessionExpired)

	_, err = uc.Back(ctx, calcID)
	require.ErrorIs(t, err, entity.ErrSessionExpired)

	conn.updateErr = nil
	v := must(uc.View(ctx, calcID))
	assert.Equal(t, string(wz.ScreenProductionProcess), v.Screen, "failed transitions leave the position unchanged")
}
