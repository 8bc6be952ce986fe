package wizard

import (
	"fmt"
	"strings"

	"github.com/futig/cbam-wizard/internal/entity"
)

// Router maps wizard states to URL paths under a base path and back
type Router struct {
	basePath   string
	categories []string
}

// NewRouter builds a router. Aluminium is always a known category.
func NewRouter(basePath string, categories []string) *Router {
	basePath = "/" + strings.Trim(basePath, "/")
	if basePath == "/" {
		basePath = ""
	}

	cats := make([]string, 0, len(categories)+1)
	seen := make(map[string]struct{}, len(categories)+1)
	for _, c := range append([]string{Aluminium}, categories...) {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, ok := seen[CategorySlug(c)]; ok {
			continue
		}
		seen[CategorySlug(c)] = struct{}{}
		cats = append(cats, c)
	}

	return &Router{basePath: basePath, categories: cats}
}

func (r *Router) BasePath() string {
	if r.basePath == "" {
		return "/"
	}
	return r.basePath
}

func (r *Router) Categories() []string {
	return append([]string(nil), r.categories...)
}

// Category resolves a category name or slug to its canonical name
func (r *Router) Category(nameOrSlug string) (string, bool) {
	slug := CategorySlug(nameOrSlug)
	for _, c := range r.categories {
		if CategorySlug(c) == slug {
			return c, true
		}
	}
	return "", false
}

// Segments lists the URL segments that encode s below the base path
func Segments(s State) []string {
	snap := TakeSnapshot(s)
	if snap.Screen == ScreenProductEntry {
		return nil
	}

	segs := []string{CategorySlug(snap.Category)}
	if snap.Category != Aluminium {
		return segs
	}

	if snap.ProductType == "" {
		return segs
	}
	segs = append(segs, slugOf(productTypeSlugs, snap.ProductType))

	if snap.ProductType == ProductTypeProducts {
		if snap.ProductSubtype != "" {
			segs = append(segs, slugOf(subtypeSlugs, snap.ProductSubtype))
		}
		return segs
	}

	if snap.ProductionProcess == "" {
		return segs
	}
	segs = append(segs, slugOf(processSlugs, snap.ProductionProcess))

	if snap.DataQualityLevel == "" {
		return segs
	}
	segs = append(segs, slugOf(dataQualitySlugs, snap.DataQualityLevel))

	step := snap.Step
	if step >= 6 {
		segs = append(segs, SegmentAnode)
	}
	if step >= 7 {
		segs = append(segs, SegmentFlueGas)
	}
	if step >= 8 {
		segs = append(segs, slugOf(pfcSlugs, snap.PFCMethod))
	}
	if step >= 9 {
		segs = append(segs, SegmentPrecursors)
	}
	if step >= 10 {
		segs = append(segs, SegmentElectricity)
	}
	if snap.ElectricitySource != "" {
		segs = append(segs, slugOf(sourceSlugs, snap.ElectricitySource))
	}

	return segs
}

// Path is the canonical URL of s
func (r *Router) Path(s State) string {
	segs := Segments(s)
	if len(segs) == 0 {
		return r.BasePath()
	}
	return r.basePath + "/" + strings.Join(segs, "/")
}

// StepCodes resolves the backend step codes shown on s
func (r *Router) StepCodes(s State) StepCodes {
	if _, done := s.(Complete); done {
		return nil
	}
	snap := TakeSnapshot(s)
	return ResolveStepCode(snap.Step, snap.Category, snap.ProductType, r.Path(s), snap.DataQualityLevel)
}

// ParsePath rebuilds the state encoded by path. Parsing stops at the first
// segment that does not continue the flow, so the result is the deepest valid prefix.
// No transition side effects are replayed.
func (r *Router) ParsePath(path, productName string) (State, error) {
	path = strings.TrimSpace(path)
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	rest, ok := strings.CutPrefix(path, r.basePath)
	if !ok || (rest != "" && !strings.HasPrefix(rest, "/")) {
		return nil, fmt.Errorf("%w: %q is outside %q", entity.ErrInvalidPath, path, r.BasePath())
	}

	var segs []string
	for _, seg := range strings.Split(rest, "/") {
		if seg != "" {
			segs = append(segs, strings.ToLower(seg))
		}
	}

	next := func() (string, bool) {
		if len(segs) == 0 {
			return "", false
		}
		seg := segs[0]
		segs = segs[1:]
		return seg, true
	}

	var st State = ProductEntry{ProductName: productName}

	seg, ok := next()
	if !ok {
		return st, nil
	}
	category, ok := r.Category(seg)
	if !ok {
		return st, nil
	}
	if category != Aluminium {
		return CategoryPlaceholder{ProductName: productName, Category: category}, nil
	}
	st = ProductTypeSelection{ProductName: productName}

	seg, _ = next()
	productType, ok := valueOf(productTypeSlugs, seg)
	if !ok {
		return st, nil
	}

	if productType == ProductTypeProducts {
		st = SubtypeSelection{ProductName: productName}
		seg, _ = next()
		subtype, ok := valueOf(subtypeSlugs, seg)
		if !ok {
			return st, nil
		}
		return ProductsPlaceholder{ProductName: productName, Subtype: subtype}, nil
	}

	st = ProcessSelection{ProductName: productName}
	seg, _ = next()
	process, ok := valueOf(processSlugs, seg)
	if !ok {
		return st, nil
	}
	st = DataQualitySelection{ProductName: productName, Process: process}

	seg, _ = next()
	level, ok := valueOf(dataQualitySlugs, seg)
	if !ok {
		return st, nil
	}
	switch level {
	case DataQualityCalculated:
		return EmissionsInput{ProductName: productName, Process: process}, nil
	case DataQualityDefault:
		return DefaultValues{ProductName: productName, Process: process}, nil
	}
	st = FuelInput{ProductName: productName, Process: process}

	if seg, _ = next(); seg != SegmentAnode {
		return st, nil
	}
	st = AnodeInput{ProductName: productName, Process: process}

	if seg, _ = next(); seg != SegmentFlueGas {
		return st, nil
	}
	st = FlueGasInput{ProductName: productName, Process: process}

	seg, _ = next()
	method, ok := valueOf(pfcSlugs, seg)
	if !ok {
		return st, nil
	}
	st = PFCInput{ProductName: productName, Process: process, Method: method}

	if seg, _ = next(); seg != SegmentPrecursors {
		return st, nil
	}
	st = PrecursorInput{ProductName: productName, Process: process, Method: method}

	if seg, _ = next(); seg != SegmentElectricity {
		return st, nil
	}
	st = ElectricitySourceInput{ProductName: productName, Process: process, Method: method}

	seg, _ = next()
	source, ok := valueOf(sourceSlugs, seg)
	if !ok {
		return st, nil
	}
	return ElectricityInput{ProductName: productName, Process: process, Method: method, Source: source}, nil
}

// Choices lists the selectable values of a static screen
func (r *Router) Choices(s State) []entity.Choice {
	switch s.(type) {
	case ProductEntry:
		out := make([]entity.Choice, 0, len(r.categories))
		for _, c := range r.categories {
			out = append(out, entity.Choice{Value: c, Slug: CategorySlug(c)})
		}
		return out
	case ProductTypeSelection:
		return choices(productTypeSlugs, QuestionProductType)
	case SubtypeSelection:
		return choices(subtypeSlugs, QuestionProductSubtype)
	case ProcessSelection:
		return choices(processSlugs, QuestionProductionProcess)
	case DataQualitySelection:
		return choices(dataQualitySlugs, QuestionDataQuality)
	default:
		return nil
	}
}

func choices(table []slugged, questionCode string) []entity.Choice {
	out := make([]entity.Choice, 0, len(table))
	for _, s := range table {
		out = append(out, entity.Choice{
			Value: s.value,
			Code:  StateToCode(questionCode, s.value),
			Slug:  s.slug,
		})
	}
	return out
}

// Selected is the pending choice of a static screen
func Selected(s State) string {
	switch st := s.(type) {
	case ProductTypeSelection:
		return st.Selected
	case SubtypeSelection:
		return st.Selected
	case ProcessSelection:
		return st.Selected
	case DataQualitySelection:
		return st.Selected
	case ProductEntry:
		return st.Category
	default:
		return ""
	}
}
