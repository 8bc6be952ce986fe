package wizard

// Screen names one reachable wizard screen
type Screen string

const (
	ScreenProductEntry        Screen = "product-entry"
	ScreenCategoryPlaceholder Screen = "category-placeholder"
	ScreenProductType         Screen = "product-type"
	ScreenProductSubtype      Screen = "product-subtype"
	ScreenProductsPlaceholder Screen = "products-placeholder"
	ScreenProductionProcess   Screen = "production-process"
	ScreenDataQuality         Screen = "data-quality"
	ScreenFuelInput           Screen = "fuel-input"
	ScreenEmissionsInput      Screen = "emissions-input"
	ScreenDefaultValues       Screen = "default-values"
	ScreenAnodeInput          Screen = "anode-input"
	ScreenFlueGasInput        Screen = "flue-gas-input"
	ScreenPFCInput            Screen = "pfc-input"
	ScreenPrecursorInput      Screen = "precursor-input"
	ScreenElectricitySource   Screen = "electricity-source"
	ScreenElectricityInput    Screen = "electricity-input"
	ScreenComplete            Screen = "complete"
)

// State is the wizard position. Every concrete type is one screen,
// so a state only carries the choices that lead to it.
type State interface {
	Step() int
	Screen() Screen
	state()
}

// ProductEntry is step 1: product name and category
type ProductEntry struct {
	ProductName string
	Category    string
}

// CategoryPlaceholder is step 2 of every category but aluminium
type CategoryPlaceholder struct {
	ProductName string
	Category    string
}

// ProductTypeSelection is step 2 of aluminium
type ProductTypeSelection struct {
	ProductName string
	Selected    string
}

// SubtypeSelection is step 3 of aluminium products
type SubtypeSelection struct {
	ProductName string
	Selected    string
}

// ProductsPlaceholder covers steps 4 and 5 of aluminium products
type ProductsPlaceholder struct {
	ProductName string
	Subtype     string
	Final       bool
}

// ProcessSelection is step 3 of unwrought aluminium
type ProcessSelection struct {
	ProductName string
	Selected    string
}

// DataQualitySelection is step 4 of unwrought aluminium
type DataQualitySelection struct {
	ProductName string
	Process     string
	Selected    string
}

// FuelInput is step 5 with real data: repeatable fuel rows
type FuelInput struct {
	ProductName string
	Process     string
}

// EmissionsInput is step 5 with calculated emissions
type EmissionsInput struct {
	ProductName string
	Process     string
}

// DefaultValues is step 5 with default values
type DefaultValues struct {
	ProductName string
	Process     string
}

type AnodeInput struct {
	ProductName string
	Process     string
}

type FlueGasInput struct {
	ProductName string
	Process     string
}

type PFCInput struct {
	ProductName string
	Process     string
	Method      string
}

type PrecursorInput struct {
	ProductName string
	Process     string
	Method      string
}

type ElectricitySourceInput struct {
	ProductName string
	Process     string
	Method      string
}

// ElectricityInput is step 10 once the source leaf is in the path
type ElectricityInput struct {
	ProductName string
	Process     string
	Method      string
	Source      string
}

// Complete is the terminal screen, entered only after the backend reports a completed calculation
type Complete struct {
	Last State
}

func (ProductEntry) Step() int           { return 1 }
func (CategoryPlaceholder) Step() int    { return 2 }
func (ProductTypeSelection) Step() int   { return 2 }
func (SubtypeSelection) Step() int       { return 3 }
func (ProcessSelection) Step() int       { return 3 }
func (DataQualitySelection) Step() int   { return 4 }
func (FuelInput) Step() int              { return 5 }
func (EmissionsInput) Step() int         { return 5 }
func (DefaultValues) Step() int          { return 5 }
func (AnodeInput) Step() int             { return 6 }
func (FlueGasInput) Step() int           { return 7 }
func (PFCInput) Step() int               { return 8 }
func (PrecursorInput) Step() int         { return 9 }
func (ElectricitySourceInput) Step() int { return 10 }
func (ElectricityInput) Step() int       { return 10 }

func (s ProductsPlaceholder) Step() int {
	if s.Final {
		return 5
	}
	return 4
}

func (s Complete) Step() int {
	if s.Last == nil {
		return 0
	}
	return s.Last.Step()
}

func (ProductEntry) Screen() Screen           { return ScreenProductEntry }
func (CategoryPlaceholder) Screen() Screen    { return ScreenCategoryPlaceholder }
func (ProductTypeSelection) Screen() Screen   { return ScreenProductType }
func (SubtypeSelection) Screen() Screen       { return ScreenProductSubtype }
func (ProductsPlaceholder) Screen() Screen    { return ScreenProductsPlaceholder }
func (ProcessSelection) Screen() Screen       { return ScreenProductionProcess }
func (DataQualitySelection) Screen() Screen   { return ScreenDataQuality }
func (FuelInput) Screen() Screen              { return ScreenFuelInput }
func (EmissionsInput) Screen() Screen         { return ScreenEmissionsInput }
func (DefaultValues) Screen() Screen          { return ScreenDefaultValues }
func (AnodeInput) Screen() Screen             { return ScreenAnodeInput }
func (FlueGasInput) Screen() Screen           { return ScreenFlueGasInput }
func (PFCInput) Screen() Screen               { return ScreenPFCInput }
func (PrecursorInput) Screen() Screen         { return ScreenPrecursorInput }
func (ElectricitySourceInput) Screen() Screen { return ScreenElectricitySource }
func (ElectricityInput) Screen() Screen       { return ScreenElectricityInput }
func (Complete) Screen() Screen               { return ScreenComplete }

func (ProductEntry) state()           {}
func (CategoryPlaceholder) state()    {}
func (ProductTypeSelection) state()   {}
func (SubtypeSelection) state()       {}
func (ProductsPlaceholder) state()    {}
func (ProcessSelection) state()       {}
func (DataQualitySelection) state()   {}
func (FuelInput) state()              {}
func (EmissionsInput) state()         {}
func (DefaultValues) state()          {}
func (AnodeInput) state()             {}
func (FlueGasInput) state()           {}
func (PFCInput) state()               {}
func (PrecursorInput) state()         {}
func (ElectricitySourceInput) state() {}
func (ElectricityInput) state()       {}
func (Complete) state()               {}

// Snapshot is the flat, persistable form of a State
type Snapshot struct {
	Screen            Screen `json:"screen"`
	Step              int    `json:"step"`
	ProductName       string `json:"product_name,omitempty"`
	Category          string `json:"category,omitempty"`
	ProductType       string `json:"product_type,omitempty"`
	ProductSubtype    string `json:"product_subtype,omitempty"`
	ProductionProcess string `json:"production_process,omitempty"`
	DataQualityLevel  string `json:"data_quality_level,omitempty"`
	PFCMethod         string `json:"pfc_method,omitempty"`
	ElectricitySource string `json:"electricity_source,omitempty"`
	Selected          string `json:"selected,omitempty"`
	Completed         bool   `json:"completed,omitempty"`
}

func unwrought(name, process string) Snapshot {
	return Snapshot{
		ProductName:       name,
		Category:          Aluminium,
		ProductType:       ProductTypeUnwrought,
		ProductionProcess: process,
	}
}

func realData(name, process string) Snapshot {
	s := unwrought(name, process)
	s.DataQualityLevel = DataQualityReal
	return s
}

// TakeSnapshot flattens s into the wizard position it encodes
func TakeSnapshot(s State) Snapshot {
	var snap Snapshot

	switch st := s.(type) {
	case ProductEntry:
		snap = Snapshot{ProductName: st.ProductName, Category: st.Category}
	case CategoryPlaceholder:
		snap = Snapshot{ProductName: st.ProductName, Category: st.Category}
	case ProductTypeSelection:
		snap = Snapshot{ProductName: st.ProductName, Category: Aluminium, Selected: st.Selected}
	case SubtypeSelection:
		snap = Snapshot{ProductName: st.ProductName, Category: Aluminium, ProductType: ProductTypeProducts, Selected: st.Selected}
	case ProductsPlaceholder:
		snap = Snapshot{ProductName: st.ProductName, Category: Aluminium, ProductType: ProductTypeProducts, ProductSubtype: st.Subtype}
	case ProcessSelection:
		snap = Snapshot{ProductName: st.ProductName, Category: Aluminium, ProductType: ProductTypeUnwrought, Selected: st.Selected}
	case DataQualitySelection:
		snap = unwrought(st.ProductName, st.Process)
		snap.Selected = st.Selected
	case FuelInput:
		snap = realData(st.ProductName, st.Process)
	case EmissionsInput:
		snap = unwrought(st.ProductName, st.Process)
		snap.DataQualityLevel = DataQualityCalculated
	case DefaultValues:
		snap = unwrought(st.ProductName, st.Process)
		snap.DataQualityLevel = DataQualityDefault
	case AnodeInput:
		snap = realData(st.ProductName, st.Process)
	case FlueGasInput:
		snap = realData(st.ProductName, st.Process)
	case PFCInput:
		snap = realData(st.ProductName, st.Process)
		snap.PFCMethod = st.Method
	case PrecursorInput:
		snap = realData(st.ProductName, st.Process)
		snap.PFCMethod = st.Method
	case ElectricitySourceInput:
		snap = realData(st.ProductName, st.Process)
		snap.PFCMethod = st.Method
	case ElectricityInput:
		snap = realData(st.ProductName, st.Process)
		snap.PFCMethod = st.Method
		snap.ElectricitySource = st.Source
	case Complete:
		if st.Last != nil {
			snap = TakeSnapshot(st.Last)
		}
		snap.Completed = true
		return snap
	}

	snap.Screen = s.Screen()
	snap.Step = s.Step()
	return snap
}
