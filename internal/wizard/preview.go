package wizard

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/futig/cbam-wizard/internal/entity"
)

var (
	co2PerCarbon = decimal.NewFromInt(44)
	carbonMass   = decimal.NewFromInt(12)
	hundred      = decimal.NewFromInt(100)

	// default carbon content when no percentage is supplied
	prebakedRatio  = decimal.RequireFromString("0.99")
	soderbergRatio = decimal.RequireFromString("0.85")
)

// ParseAmount reads a user-entered number. A decimal comma is accepted.
func ParseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func FormatKg(d decimal.Decimal) string {
	return d.StringFixed(2) + " kg CO₂e"
}

func FormatTonnes(d decimal.Decimal) string {
	return d.StringFixed(2) + " t CO₂e"
}

// FuelRowComplete reports whether the row has fuel, unit and amount
func FuelRowComplete(row entity.FuelEntry) bool {
	return strings.TrimSpace(row.EmissionFactorName) != "" &&
		strings.TrimSpace(row.Denominator) != "" &&
		strings.TrimSpace(row.Amount) != ""
}

// FuelRowsComplete requires at least one row and every row complete
func FuelRowsComplete(rows []entity.FuelEntry) bool {
	if len(rows) == 0 {
		return false
	}
	for _, r := range rows {
		if !FuelRowComplete(r) {
			return false
		}
	}
	return true
}

// FuelRowEmissions is amount x emission factor, in the unit of the factor
func FuelRowEmissions(row entity.FuelEntry) (decimal.Decimal, bool) {
	if !FuelRowComplete(row) || row.EmissionFactorValue == nil {
		return decimal.Zero, false
	}
	amount, ok := ParseAmount(row.Amount)
	if !ok {
		return decimal.Zero, false
	}
	return amount.Mul(decimal.NewFromFloat(*row.EmissionFactorValue)), true
}

// FuelTotal sums the emissions of every computable row
func FuelTotal(rows []entity.FuelEntry) (decimal.Decimal, bool) {
	total, found := decimal.Zero, false
	for _, r := range rows {
		if e, ok := FuelRowEmissions(r); ok {
			total = total.Add(e)
			found = true
		}
	}
	return total, found
}

// AnodeEmissions previews the CO2 of consumed anodes in tonnes.
// With an affirmative carbon-percentage answer: qty x pct/100 x 44/12,
// otherwise qty x 44/12 x the default ratio of the anode type.
func AnodeEmissions(anodeType, quantity, hasCarbonPercent, carbonPercent string) (decimal.Decimal, bool) {
	qty, ok := ParseAmount(quantity)
	if !ok {
		return decimal.Zero, false
	}

	if IsAffirmative(hasCarbonPercent) {
		pct, ok := ParseAmount(carbonPercent)
		if !ok {
			return decimal.Zero, false
		}
		return qty.Mul(pct).Mul(co2PerCarbon).Div(hundred.Mul(carbonMass)), true
	}

	var ratio decimal.Decimal
	switch anodeType {
	case AnodePrebaked:
		ratio = prebakedRatio
	case AnodeSoderberg:
		ratio = soderbergRatio
	default:
		return decimal.Zero, false
	}
	return qty.Mul(co2PerCarbon).Mul(ratio).Div(carbonMass), true
}

// AnodePreview reads the anode answers by question code and previews their emissions
func AnodePreview(anodeType string, byCode func(code string) string) (decimal.Decimal, bool) {
	switch anodeType {
	case AnodePrebaked:
		return AnodeEmissions(anodeType,
			byCode(QuestionPrebakedQuantity),
			byCode(QuestionPrebakedHasCarbonPercent),
			byCode(QuestionPrebakedCarbonPercent))
	case AnodeSoderberg:
		return AnodeEmissions(anodeType,
			byCode(QuestionSoderbergQuantity),
			byCode(QuestionSoderbergHasCarbon),
			byCode(QuestionSoderbergCarbonPercent))
	default:
		return decimal.Zero, false
	}
}

// PrecursorEmissions is kolicina x ugradjene emisije
func PrecursorEmissions(row entity.PrecursorEntry) (decimal.Decimal, bool) {
	qty, ok := ParseAmount(row.Kolicina)
	if !ok {
		return decimal.Zero, false
	}
	embedded, ok := ParseAmount(row.UgradjeneEmisije)
	if !ok {
		return decimal.Zero, false
	}
	return qty.Mul(embedded), true
}

func PrecursorTotal(rows []entity.PrecursorEntry) (decimal.Decimal, bool) {
	total, found := decimal.Zero, false
	for _, r := range rows {
		if e, ok := PrecursorEmissions(r); ok {
			total = total.Add(e)
			found = true
		}
	}
	return total, found
}
