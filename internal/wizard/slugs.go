package wizard

import "strings"

// Aluminium is the only category with a backend-driven question flow
const Aluminium = "Aluminium"

const (
	ProductTypeUnwrought = "unwrought"
	ProductTypeProducts  = "products"
)

const (
	ProcessPrimary   = "primary"
	ProcessSecondary = "secondary"
	ProcessUnknown   = "unknown"
)

const (
	SubtypeBarsRodsProfiles = "bars-rods-profiles"
	SubtypeWire             = "wire"
	SubtypePlatesSheets     = "plates-sheets"
	SubtypeFoil             = "foil"
	SubtypeTubesPipes       = "tubes-pipes"
	SubtypeStructures       = "structures"
)

const (
	DataQualityReal       = "real-data"
	DataQualityCalculated = "calculated-emissions"
	DataQualityDefault    = "default-values"
)

const (
	AnodePrebaked  = "pre-baked"
	AnodeSoderberg = "soderberg"
)

const (
	PFCSlope       = "slope"
	PFCOvervoltage = "overvoltage"
)

const (
	SourceGrid      = "grid"
	SourceSelfPower = "self-power"
	SourcePPA       = "ppa"
)

// Fixed URL segments of the aluminium/unwrought/real-data flow
const (
	SegmentAnode       = "anode-elektrode"
	SegmentFlueGas     = "dimni-plinovi"
	SegmentPrecursors  = "prekursori"
	SegmentElectricity = "elektricna-energija"
)

// slugged is a wizard choice whose URL segment may differ from its value
type slugged struct {
	value string
	slug  string
}

var (
	productTypeSlugs = []slugged{
		{ProductTypeUnwrought, "unwrought"},
		{ProductTypeProducts, "products"},
	}
	processSlugs = []slugged{
		{ProcessPrimary, "primary"},
		{ProcessSecondary, "secundary"},
		{ProcessUnknown, "unknown"},
	}
	subtypeSlugs = []slugged{
		{SubtypeBarsRodsProfiles, "sipke"},
		{SubtypeWire, "zica"},
		{SubtypePlatesSheets, "ploce"},
		{SubtypeFoil, "folija"},
		{SubtypeTubesPipes, "cijevi"},
		{SubtypeStructures, "konstrukcije"},
	}
	dataQualitySlugs = []slugged{
		{DataQualityReal, "fuels"},
		{DataQualityCalculated, "emissions"},
		{DataQualityDefault, "nothing"},
	}
	pfcSlugs = []slugged{
		{PFCSlope, "slope"},
		{PFCOvervoltage, "overvoltage"},
	}
	sourceSlugs = []slugged{
		{SourceGrid, "grid"},
		{SourceSelfPower, "self-power"},
		{SourcePPA, "ppa"},
	}
)

func slugOf(table []slugged, value string) string {
	for _, s := range table {
		if s.value == value {
			return s.slug
		}
	}
	return ""
}

func valueOf(table []slugged, slug string) (string, bool) {
	for _, s := range table {
		if s.slug == slug {
			return s.value, true
		}
	}
	return "", false
}

func known(table []slugged, value string) bool {
	return slugOf(table, value) != ""
}

// CategorySlug turns a category name into its URL segment, e.g. "Iron and Steel" -> "iron-and-steel"
func CategorySlug(category string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(category)), " ", "-")
}

// ComputationProcess is the production process used for emission computation.
// The unknown process is computed as primary while keeping its own slug.
func ComputationProcess(process string) string {
	if process == ProcessUnknown {
		return ProcessPrimary
	}
	return process
}
