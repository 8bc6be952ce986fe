package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/futig/cbam-wizard/internal/entity"
)

func TestFuelRowEmissions(t *testing.T) {
	factor := 2.06672
	row := entity.FuelEntry{
		EmissionFactorName:  "Natural gas",
		Denominator:         "m3",
		Amount:              "100",
		EmissionFactorValue: &factor,
	}

	e, ok := FuelRowEmissions(row)
	require.True(t, ok)
	assert.Equal(t, "206.67 kg CO₂e", FormatKg(e))

	second := row
	second.Amount = "50,5"
	missing := row
	missing.Denominator = ""

	total, ok := FuelTotal([]entity.FuelEntry{row, second, missing})
	require.True(t, ok)
	assert.Equal(t, "311.04 kg CO₂e", FormatKg(total))

	assert.False(t, FuelRowsComplete([]entity.FuelEntry{row, missing}))
	assert.False(t, FuelRowsComplete(nil))
	assert.True(t, FuelRowsComplete([]entity.FuelEntry{row, second}))
}

func TestAnodeEmissions(t *testing.T) {
	tests := []struct {
		name       string
		anodeType  string
		qty        string
		hasCarbon  string
		percent    string
		want       string
		computable bool
	}{
		{"pre-baked default ratio", AnodePrebaked, "10", "NO", "", "36.30 t CO₂e", true},
		{"pre-baked with percent", AnodePrebaked, "10", "YES", "80", "29.33 t CO₂e", true},
		{"soderberg default ratio", AnodeSoderberg, "12", "ne", "", "37.40 t CO₂e", true},
		{"affirmative without percent", AnodePrebaked, "10", "DA", "", "", false},
		{"no quantity", AnodeSoderberg, "", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := AnodeEmissions(tt.anodeType, tt.qty, tt.hasCarbon, tt.percent)
			require.Equal(t, tt.computable, ok)
			if ok {
				assert.Equal(t, tt.want, FormatTonnes(got))
			}
		})
	}
}

func TestAnodePreview_ReadsByCode(t *testing.T) {
	values := map[string]string{
		QuestionPrebakedQuantity:         "10",
		QuestionPrebakedHasCarbonPercent: "NO",
	}
	byCode := func(code string) string { return values[code] }

	got, ok := AnodePreview(AnodePrebaked, byCode)
	require.True(t, ok)
	assert.Equal(t, "36.30", got.StringFixed(2))

	values[QuestionPrebakedHasCarbonPercent] = "YES"
	values[QuestionPrebakedCarbonPercent] = "80"
	got, ok = AnodePreview(AnodePrebaked, byCode)
	require.True(t, ok)
	assert.Equal(t, "29.33", got.StringFixed(2))

	_, ok = AnodePreview("", byCode)
	assert.False(t, ok)
}

func TestPrecursorTotal(t *testing.T) {
	rows := []entity.PrecursorEntry{
		{Vrsta: "Alumina", Kolicina: "2", UgradjeneEmisije: "1.5"},
		{Vrsta: "Scrap", Kolicina: "3", UgradjeneEmisije: "0,2"},
		{Vrsta: "Empty"},
	}

	total, ok := PrecursorTotal(rows)
	require.True(t, ok)
	assert.Equal(t, "3.60", total.StringFixed(2))
}
