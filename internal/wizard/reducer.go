package wizard

import (
	"fmt"
	"strings"

	"github.com/futig/cbam-wizard/internal/entity"
)

// Edit changes the pending input of a static screen. Nil fields are left untouched.
type Edit struct {
	ProductName *string
	Category    *string
	Choice      *string
}

// Facts are what the controller knows about the current screen when Next is pressed
type Facts struct {
	// FormComplete is true when every visible question of the step is answered
	FormComplete bool
	// FuelRowsComplete is true when at least one fuel row exists and every row has fuel, unit and amount
	FuelRowsComplete bool
	// PFCMethod is the wizard value of the PFC_METHOD answer
	PFCMethod string
	// ElectricitySource is the wizard value of the ELECTRICITY_SOURCE answer
	ElectricitySource string
}

// Apply edits the pending selection of s
func Apply(s State, e Edit) (State, error) {
	if e.ProductName == nil && e.Category == nil && e.Choice == nil {
		return s, nil
	}

	if st, ok := s.(ProductEntry); ok {
		if e.Choice != nil {
			return s, entity.ErrUnsupportedInput
		}
		if e.ProductName != nil {
			st.ProductName = *e.ProductName
		}
		if e.Category != nil {
			st.Category = *e.Category
		}
		return st, nil
	}

	if e.ProductName != nil || e.Category != nil || e.Choice == nil {
		return s, entity.ErrUnsupportedInput
	}

	switch st := s.(type) {
	case ProductTypeSelection:
		v, err := choose(productTypeSlugs, QuestionProductType, *e.Choice)
		if err != nil {
			return s, err
		}
		st.Selected = v
		return st, nil
	case SubtypeSelection:
		v, err := choose(subtypeSlugs, QuestionProductSubtype, *e.Choice)
		if err != nil {
			return s, err
		}
		st.Selected = v
		return st, nil
	case ProcessSelection:
		v, err := choose(processSlugs, QuestionProductionProcess, *e.Choice)
		if err != nil {
			return s, err
		}
		st.Selected = v
		return st, nil
	case DataQualitySelection:
		v, err := choose(dataQualitySlugs, QuestionDataQuality, *e.Choice)
		if err != nil {
			return s, err
		}
		st.Selected = v
		return st, nil
	default:
		return s, entity.ErrUnsupportedInput
	}
}

// choose accepts a wizard value, its URL slug or its option code
func choose(table []slugged, questionCode, in string) (string, error) {
	in = strings.TrimSpace(in)
	if known(table, in) {
		return in, nil
	}
	if v, ok := valueOf(table, in); ok {
		return v, nil
	}
	if v := CodeToState(questionCode, in); known(table, v) {
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", entity.ErrInvalidChoice, in)
}

// RendersForm reports whether the screen shows backend questions as controls
func RendersForm(s State) bool {
	switch s.(type) {
	case EmissionsInput, AnodeInput, FlueGasInput, PFCInput, PrecursorInput, ElectricitySourceInput:
		return true
	default:
		return false
	}
}

// IsFinishing reports whether Next on s submits the calculation
func IsFinishing(s State) bool {
	switch s.(type) {
	case EmissionsInput, DefaultValues, ElectricityInput:
		return true
	default:
		return false
	}
}

// CanGoBack reports whether Back is offered. From step 1 it leaves the wizard.
func CanGoBack(s State) bool {
	_, done := s.(Complete)
	return !done
}

// Next advances s. On a finishing screen it proposes Complete, which the caller
// commits only once the backend reports the calculation as completed.
func Next(s State, f Facts) (State, error) {
	switch st := s.(type) {
	case ProductEntry:
		if strings.TrimSpace(st.ProductName) == "" || strings.TrimSpace(st.Category) == "" {
			return s, fmt.Errorf("%w: product name and category are required", entity.ErrCannotAdvance)
		}
		if st.Category == Aluminium {
			return ProductTypeSelection{ProductName: st.ProductName}, nil
		}
		return CategoryPlaceholder{ProductName: st.ProductName, Category: st.Category}, nil

	case ProductTypeSelection:
		switch st.Selected {
		case ProductTypeUnwrought:
			return ProcessSelection{ProductName: st.ProductName}, nil
		case ProductTypeProducts:
			return SubtypeSelection{ProductName: st.ProductName}, nil
		}
		return s, fmt.Errorf("%w: product type is not selected", entity.ErrCannotAdvance)

	case SubtypeSelection:
		if !known(subtypeSlugs, st.Selected) {
			return s, fmt.Errorf("%w: product subtype is not selected", entity.ErrCannotAdvance)
		}
		return ProductsPlaceholder{ProductName: st.ProductName, Subtype: st.Selected}, nil

	case ProductsPlaceholder:
		if st.Final {
			return s, entity.ErrCannotAdvance
		}
		st.Final = true
		return st, nil

	case ProcessSelection:
		if !known(processSlugs, st.Selected) {
			return s, fmt.Errorf("%w: production process is not selected", entity.ErrCannotAdvance)
		}
		return DataQualitySelection{ProductName: st.ProductName, Process: st.Selected}, nil

	case DataQualitySelection:
		switch st.Selected {
		case DataQualityReal:
			return FuelInput{ProductName: st.ProductName, Process: st.Process}, nil
		case DataQualityCalculated:
			return EmissionsInput{ProductName: st.ProductName, Process: st.Process}, nil
		case DataQualityDefault:
			return DefaultValues{ProductName: st.ProductName, Process: st.Process}, nil
		}
		return s, fmt.Errorf("%w: data quality level is not selected", entity.ErrCannotAdvance)

	case FuelInput:
		if !f.FuelRowsComplete {
			return s, fmt.Errorf("%w: every fuel row needs fuel, unit and amount", entity.ErrCannotAdvance)
		}
		return AnodeInput(st), nil

	case EmissionsInput:
		if !f.FormComplete {
			return s, fmt.Errorf("%w: unanswered questions", entity.ErrCannotAdvance)
		}
		return Complete{Last: st}, nil

	case DefaultValues:
		return Complete{Last: st}, nil

	case AnodeInput:
		if !f.FormComplete {
			return s, fmt.Errorf("%w: unanswered questions", entity.ErrCannotAdvance)
		}
		return FlueGasInput(st), nil

	case FlueGasInput:
		if !f.FormComplete {
			return s, fmt.Errorf("%w: unanswered questions", entity.ErrCannotAdvance)
		}
		if !known(pfcSlugs, f.PFCMethod) {
			return s, fmt.Errorf("%w: PFC method is not selected", entity.ErrCannotAdvance)
		}
		return PFCInput{ProductName: st.ProductName, Process: st.Process, Method: f.PFCMethod}, nil

	case PFCInput:
		if !f.FormComplete {
			return s, fmt.Errorf("%w: unanswered questions", entity.ErrCannotAdvance)
		}
		return PrecursorInput(st), nil

	case PrecursorInput:
		if !f.FormComplete {
			return s, fmt.Errorf("%w: unanswered questions", entity.ErrCannotAdvance)
		}
		return ElectricitySourceInput(st), nil

	case ElectricitySourceInput:
		if !known(sourceSlugs, f.ElectricitySource) {
			return s, fmt.Errorf("%w: electricity source is not selected", entity.ErrCannotAdvance)
		}
		return ElectricityInput{
			ProductName: st.ProductName,
			Process:     st.Process,
			Method:      st.Method,
			Source:      f.ElectricitySource,
		}, nil

	case ElectricityInput:
		return Complete{Last: st}, nil
	}

	return s, entity.ErrCannotAdvance
}

// Back mirrors Next. The screen returned to keeps its selection, the choice of
// the screen being left is dropped. left is true when Back leaves the wizard.
func Back(s State) (prev State, left bool, err error) {
	switch st := s.(type) {
	case ProductEntry:
		return st, true, nil
	case CategoryPlaceholder:
		return ProductEntry{ProductName: st.ProductName, Category: st.Category}, false, nil
	case ProductTypeSelection:
		return ProductEntry{ProductName: st.ProductName, Category: Aluminium}, false, nil
	case SubtypeSelection:
		return ProductTypeSelection{ProductName: st.ProductName, Selected: ProductTypeProducts}, false, nil
	case ProductsPlaceholder:
		if st.Final {
			st.Final = false
			return st, false, nil
		}
		return SubtypeSelection{ProductName: st.ProductName, Selected: st.Subtype}, false, nil
	case ProcessSelection:
		return ProductTypeSelection{ProductName: st.ProductName, Selected: ProductTypeUnwrought}, false, nil
	case DataQualitySelection:
		return ProcessSelection{ProductName: st.ProductName, Selected: st.Process}, false, nil
	case FuelInput:
		return DataQualitySelection{ProductName: st.ProductName, Process: st.Process, Selected: DataQualityReal}, false, nil
	case EmissionsInput:
		return DataQualitySelection{ProductName: st.ProductName, Process: st.Process, Selected: DataQualityCalculated}, false, nil
	case DefaultValues:
		return DataQualitySelection{ProductName: st.ProductName, Process: st.Process, Selected: DataQualityDefault}, false, nil
	case AnodeInput:
		return FuelInput(st), false, nil
	case FlueGasInput:
		return AnodeInput(st), false, nil
	case PFCInput:
		return FlueGasInput{ProductName: st.ProductName, Process: st.Process}, false, nil
	case PrecursorInput:
		return PFCInput(st), false, nil
	case ElectricitySourceInput:
		return PrecursorInput(st), false, nil
	case ElectricityInput:
		return ElectricitySourceInput{ProductName: st.ProductName, Process: st.Process, Method: st.Method}, false, nil
	}

	return s, false, entity.ErrCannotGoBack
}

// Restore rebuilds the state a Snapshot was taken from
func Restore(snap Snapshot) (State, error) {
	if snap.Completed {
		last := snap
		last.Completed = false
		st, err := Restore(last)
		if err != nil {
			return nil, err
		}
		return Complete{Last: st}, nil
	}

	name, process := snap.ProductName, snap.ProductionProcess
	needProcess := func(s State) (State, error) {
		if !known(processSlugs, process) {
			return nil, fmt.Errorf("%w: snapshot %s has production process %q", entity.ErrInvalidPath, snap.Screen, process)
		}
		return s, nil
	}
	needMethod := func(s State) (State, error) {
		if !known(pfcSlugs, snap.PFCMethod) {
			return nil, fmt.Errorf("%w: snapshot %s has PFC method %q", entity.ErrInvalidPath, snap.Screen, snap.PFCMethod)
		}
		return needProcess(s)
	}

	switch snap.Screen {
	case ScreenProductEntry:
		return ProductEntry{ProductName: name, Category: snap.Category}, nil
	case ScreenCategoryPlaceholder:
		return CategoryPlaceholder{ProductName: name, Category: snap.Category}, nil
	case ScreenProductType:
		return ProductTypeSelection{ProductName: name, Selected: snap.Selected}, nil
	case ScreenProductSubtype:
		return SubtypeSelection{ProductName: name, Selected: snap.Selected}, nil
	case ScreenProductsPlaceholder:
		if !known(subtypeSlugs, snap.ProductSubtype) {
			return nil, fmt.Errorf("%w: snapshot has product subtype %q", entity.ErrInvalidPath, snap.ProductSubtype)
		}
		return ProductsPlaceholder{ProductName: name, Subtype: snap.ProductSubtype, Final: snap.Step == 5}, nil
	case ScreenProductionProcess:
		return ProcessSelection{ProductName: name, Selected: snap.Selected}, nil
	case ScreenDataQuality:
		return needProcess(DataQualitySelection{ProductName: name, Process: process, Selected: snap.Selected})
	case ScreenFuelInput:
		return needProcess(FuelInput{ProductName: name, Process: process})
	case ScreenEmissionsInput:
		return needProcess(EmissionsInput{ProductName: name, Process: process})
	case ScreenDefaultValues:
		return needProcess(DefaultValues{ProductName: name, Process: process})
	case ScreenAnodeInput:
		return needProcess(AnodeInput{ProductName: name, Process: process})
	case ScreenFlueGasInput:
		return needProcess(FlueGasInput{ProductName: name, Process: process})
	case ScreenPFCInput:
		return needMethod(PFCInput{ProductName: name, Process: process, Method: snap.PFCMethod})
	case ScreenPrecursorInput:
		return needMethod(PrecursorInput{ProductName: name, Process: process, Method: snap.PFCMethod})
	case ScreenElectricitySource:
		return needMethod(ElectricitySourceInput{ProductName: name, Process: process, Method: snap.PFCMethod})
	case ScreenElectricityInput:
		if !known(sourceSlugs, snap.ElectricitySource) {
			return nil, fmt.Errorf("%w: snapshot has electricity source %q", entity.ErrInvalidPath, snap.ElectricitySource)
		}
		return needMethod(ElectricityInput{
			ProductName: name,
			Process:     process,
			Method:      snap.PFCMethod,
			Source:      snap.ElectricitySource,
		})
	}

	return nil, fmt.Errorf("%w: unknown screen %q", entity.ErrInvalidPath, snap.Screen)
}

// WithProductName returns s with the product name replaced
func WithProductName(s State, name string) State {
	snap := TakeSnapshot(s)
	snap.ProductName = name
	restored, err := Restore(snap)
	if err != nil {
		return s
	}
	return restored
}
