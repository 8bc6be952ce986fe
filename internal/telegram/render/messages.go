package render

import (
	"fmt"
	"strings"

	"github.com/futig/cbam-wizard/internal/entity"
	wz "github.com/futig/cbam-wizard/internal/wizard"
)

const (
	MsgWelcome = `👋 Hi! I walk you through a CBAM emissions calculation step by step.

Attach a calculation with /calc <id> to start or resume the wizard.`

	MsgHelp = `🤖 Commands:

/calc <id> - open the wizard of a calculation
/view - show the current step again
/fuel sector | subsector | subsubsector | name | denominator | amount - add a fuel row
/precursor type | quantity | embedded emissions - add a precursor row
/delfuel <n>, /delprecursor <n> - remove a row
/cancel - detach this chat

On question steps reply with the answer. With several fields send "<n>: value".`

	MsgDetached = `👋 Chat detached from the calculation.

Use /calc <id> to continue later.`

	MsgLeftWizard = `↩️ You left the wizard. Your answers are kept, use /calc to come back.`

	MsgFieldNumber = `✏️ Several fields are filled. Send "<n>: value" to change field n.`
	MsgNoInput     = `ℹ️ This step is answered with the buttons.`
	MsgReportReady = `✅ Report ready.`

	ErrGeneric           = `❌ Something went wrong. Try again or use /view.`
	ErrNotAttached       = `❌ No calculation is attached. Use /calc <id>.`
	ErrSessionExpired    = `🔒 Your session expired. Log in again and reattach with /calc <id>.`
	ErrNotFound          = `❌ Calculation not found. Check the id and use /calc <id>.`
	ErrCannotAdvance     = `⚠️ Complete the current step first.`
	ErrNotComplete       = `⏳ The calculation is not completed yet. Try Next again in a moment.`
	ErrInvalidInput      = `❌ That value is not accepted here.`
	ErrBackend           = `❌ The CBAM service is unavailable. Try again in a few minutes.`
	ErrFormatUnavailable = `⚠️ This report format is not enabled. Pick another one.`
	ErrBadCommand        = `❌ Wrong command format. See /help.`
)

var screenTitles = map[wz.Screen]string{
	wz.ScreenProductEntry:        "Product",
	wz.ScreenCategoryPlaceholder: "Category",
	wz.ScreenProductType:         "Product type",
	wz.ScreenProductSubtype:      "Product subtype",
	wz.ScreenProductsPlaceholder: "Products",
	wz.ScreenProductionProcess:   "Production process",
	wz.ScreenDataQuality:         "Data quality",
	wz.ScreenFuelInput:           "Fuels",
	wz.ScreenEmissionsInput:      "Emissions",
	wz.ScreenDefaultValues:       "Default values",
	wz.ScreenAnodeInput:          "Anodes",
	wz.ScreenFlueGasInput:        "Flue gas",
	wz.ScreenPFCInput:            "PFC emissions",
	wz.ScreenPrecursorInput:      "Precursors",
	wz.ScreenElectricitySource:   "Electricity source",
	wz.ScreenElectricityInput:    "Electricity",
	wz.ScreenComplete:            "Result",
}

// ScreenTitle returns a human title of a wizard screen
func ScreenTitle(screen string) string {
	if t, ok := screenTitles[wz.Screen(screen)]; ok {
		return t
	}
	return screen
}

// RenderView formats a wizard view as a chat message
func RenderView(view *entity.WizardView) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "📌 Step %d: %s\n", view.Step, ScreenTitle(view.Screen))

	switch wz.Screen(view.Screen) {
	case wz.ScreenProductEntry:
		fmt.Fprintf(&sb, "\nProduct name: %s\n", orDash(view.ProductName))
		fmt.Fprintf(&sb, "Category: %s\n", orDash(view.Category))
		sb.WriteString("\nSend the product name as a message and pick a category.\n")
	case wz.ScreenCategoryPlaceholder, wz.ScreenProductsPlaceholder:
		sb.WriteString("\nThis part of the wizard is not available yet.\n")
	}

	if view.ProductName != "" && wz.Screen(view.Screen) != wz.ScreenProductEntry {
		fmt.Fprintf(&sb, "Product: %s (%s)\n", view.ProductName, view.Category)
	}

	if len(view.Controls) > 0 {
		sb.WriteString("\n")
		for i, c := range view.Controls {
			fmt.Fprintf(&sb, "%d. %s: %s\n", i+1, c.Label, orDash(controlValue(c)))
			if c.HelpText != "" {
				fmt.Fprintf(&sb, "   %s\n", c.HelpText)
			}
		}
	}

	if len(view.FuelRows) > 0 {
		sb.WriteString("\nFuels:\n")
		for i, r := range view.FuelRows {
			fmt.Fprintf(&sb, "%d. %s, %s %s", i+1, orDash(r.EmissionFactorName), orDash(r.Amount), r.Denominator)
			if r.Emissions != "" {
				fmt.Fprintf(&sb, " = %s kg CO2", r.Emissions)
			}
			if r.LookupError != "" {
				fmt.Fprintf(&sb, " (%s)", r.LookupError)
			}
			sb.WriteString("\n")
		}
		if view.FuelTotal != "" {
			fmt.Fprintf(&sb, "Total: %s kg CO2\n", view.FuelTotal)
		}
	}

	if len(view.PrecursorRows) > 0 {
		sb.WriteString("\nPrecursors:\n")
		for i, r := range view.PrecursorRows {
			fmt.Fprintf(&sb, "%d. %s, %s t x %s", i+1, orDash(r.Vrsta), orDash(r.Kolicina), orDash(r.UgradjeneEmisije))
			if r.Emissions != "" {
				fmt.Fprintf(&sb, " = %s t CO2", r.Emissions)
			}
			sb.WriteString("\n")
		}
		if view.PrecursorTotal != "" {
			fmt.Fprintf(&sb, "Total: %s t CO2\n", view.PrecursorTotal)
		}
	}

	if view.AnodePreview != "" {
		fmt.Fprintf(&sb, "\nAnode emissions: %s t CO2\n", view.AnodePreview)
	}

	if view.Result != nil {
		sb.WriteString("\n")
		sb.WriteString(RenderResult(view.Result))
	}

	for _, e := range []string{view.CatalogError, view.AnswerError, view.ResultError} {
		if e != "" {
			fmt.Fprintf(&sb, "\n⚠️ %s\n", e)
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

// RenderResult formats the emissions summary of a completed calculation
func RenderResult(r *entity.CalculationResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Direct: %.4f %s\n", r.DirectEmissions, r.Unit)
	fmt.Fprintf(&sb, "Indirect: %.4f %s\n", r.IndirectEmissions, r.Unit)
	fmt.Fprintf(&sb, "Total: %.4f %s\n", r.TotalEmissions, r.Unit)
	if r.SpecificEmissions != nil {
		fmt.Fprintf(&sb, "Specific: %.4f %s/t\n", *r.SpecificEmissions, r.Unit)
	}
	for _, l := range r.Lines {
		fmt.Fprintf(&sb, "• %s: %.4f %s\n", l.Source, l.Emissions, l.Unit)
	}
	return sb.String()
}

func controlValue(c entity.Control) string {
	if c.Kind != entity.ControlRadio {
		return c.Value
	}
	for _, o := range c.Options {
		if o.Code == c.Value {
			return o.Label
		}
	}
	return c.Value
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}
