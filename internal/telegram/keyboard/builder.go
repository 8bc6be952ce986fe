package keyboard

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/futig/cbam-wizard/internal/entity"
)

// choicesPerRow keeps long category names readable on phones
const choicesPerRow = 2

// Builder creates inline keyboards
type Builder struct{}

// NewBuilder creates a keyboard builder
func NewBuilder() *Builder {
	return &Builder{}
}

// WizardKeyboard renders the buttons of a wizard view: static choices, radio
// options of the dynamic form, report downloads on the complete screen and
// the navigation row. Returns nil when the view has no buttons.
func (b *Builder) WizardKeyboard(view *entity.WizardView) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	rows = append(rows, b.choiceRows(view)...)
	rows = append(rows, b.optionRows(view)...)

	if view.Result != nil {
		rows = append(rows, b.downloadRow())
	}

	if nav := b.navRow(view); len(nav) > 0 {
		rows = append(rows, nav)
	}

	if len(rows) == 0 {
		return nil
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}

func (b *Builder) choiceRows(view *entity.WizardView) [][]tgbotapi.InlineKeyboardButton {
	var (
		rows [][]tgbotapi.InlineKeyboardButton
		row  []tgbotapi.InlineKeyboardButton
	)
	for _, c := range view.Choices {
		label := c.Value
		if c.Value == view.Selected || (view.Selected == "" && c.Value == view.Category) {
			label = "✅ " + label
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, EncodeCallback(ActionPick, c.Slug)))
		if len(row) == choicesPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

func (b *Builder) optionRows(view *entity.WizardView) [][]tgbotapi.InlineKeyboardButton {
	var rows [][]tgbotapi.InlineKeyboardButton
	for ci, c := range view.Controls {
		if c.Kind != entity.ControlRadio {
			continue
		}
		row := make([]tgbotapi.InlineKeyboardButton, 0, len(c.Options))
		for oi, o := range c.Options {
			label := o.Label
			if o.Code == c.Value {
				label = "✅ " + label
			}
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, EncodeOption(ci, oi)))
		}
		rows = append(rows, row)
	}
	return rows
}

func (b *Builder) downloadRow() []tgbotapi.InlineKeyboardButton {
	formats := []entity.ResultFormat{entity.FormatPDF, entity.FormatDOCX, entity.FormatMarkdown, entity.FormatJSON}
	row := make([]tgbotapi.InlineKeyboardButton, 0, len(formats))
	for _, f := range formats {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("📄 "+string(f), EncodeCallback(ActionDownload, string(f))))
	}
	return row
}

func (b *Builder) navRow(view *entity.WizardView) []tgbotapi.InlineKeyboardButton {
	var row []tgbotapi.InlineKeyboardButton
	if view.CanGoBack {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("⬅️ Back", EncodeCallback(ActionNav, NavBack)))
	}
	if view.CatalogError != "" {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("🔄 Retry", EncodeCallback(ActionNav, NavRefetch)))
	}
	if view.CanAdvance {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("Next ➡️", EncodeCallback(ActionNav, NavNext)))
	}
	return row
}
