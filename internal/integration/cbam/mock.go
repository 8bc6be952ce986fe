package cbam

import (
	"context"
	_ "embed"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/futig/cbam-wizard/internal/entity"
)

//go:embed catalog.yaml
var catalogYAML []byte

type fixtureOption struct {
	ID        int64  `yaml:"id"`
	Code      string `yaml:"code"`
	Label     string `yaml:"label"`
	SortOrder int    `yaml:"sortOrder"`
}

type fixtureQuestion struct {
	ID        int64           `yaml:"id"`
	Code      string          `yaml:"code"`
	Type      string          `yaml:"type"`
	Label     string          `yaml:"label"`
	HelpText  string          `yaml:"helpText"`
	StepCode  string          `yaml:"stepCode"`
	SortOrder int             `yaml:"sortOrder"`
	Options   []fixtureOption `yaml:"options"`
}

type fixtureFactor struct {
	ID           int64   `yaml:"id"`
	Sector       string  `yaml:"sector"`
	Subsector    string  `yaml:"subsector"`
	Subsubsector string  `yaml:"subsubsector"`
	Name         string  `yaml:"name"`
	Denominator  string  `yaml:"denominator"`
	Value        float64 `yaml:"value"`
	Unit         string  `yaml:"unit"`
}

type fixture struct {
	Questions       []fixtureQuestion `yaml:"questions"`
	EmissionFactors []fixtureFactor   `yaml:"emissionFactors"`
}

// MockConnector is an in-memory CBAM backend for local runs and tests.
// Submitted calculations complete immediately.
type MockConnector struct {
	logger  *zap.Logger
	fixture fixture

	mu           sync.Mutex
	answers      map[entity.ID]map[entity.ID]entity.Answer
	calculations map[entity.ID]*entity.Calculation
	nextID       int64
}

func NewMockConnector(logger *zap.Logger) (*MockConnector, error) {
	var f fixture
	if err := yaml.Unmarshal(catalogYAML, &f); err != nil {
		return nil, fmt.Errorf("parse mock catalog: %w", err)
	}

	return &MockConnector{
		logger:       logger,
		fixture:      f,
		answers:      make(map[entity.ID]map[entity.ID]entity.Answer),
		calculations: make(map[entity.ID]*entity.Calculation),
	}, nil
}

func idOf(n int64) entity.ID {
	return entity.ID(strconv.FormatInt(n, 10))
}

func (m *MockConnector) QuestionsByStep(ctx context.Context, stepCode string) ([]entity.Question, error) {
	ctxzap.Debug(ctx, "[MOCK] fetching questions", zap.String("step_code", stepCode))

	var out []entity.Question
	for _, q := range m.fixture.Questions {
		if q.StepCode != stepCode {
			continue
		}
		question := entity.Question{
			ID:           idOf(q.ID),
			Code:         q.Code,
			QuestionType: entity.QuestionType(q.Type),
			Label:        q.Label,
			StepCode:     q.StepCode,
			SortOrder:    q.SortOrder,
		}
		if q.HelpText != "" {
			help := q.HelpText
			question.HelpText = &help
		}
		out = append(out, question)
	}
	return out, nil
}

func (m *MockConnector) OptionsByQuestion(ctx context.Context, questionID entity.ID) ([]entity.QuestionOption, error) {
	for _, q := range m.fixture.Questions {
		if idOf(q.ID) != questionID {
			continue
		}
		out := make([]entity.QuestionOption, 0, len(q.Options))
		for _, o := range q.Options {
			out = append(out, entity.QuestionOption{
				ID:         idOf(o.ID),
				Code:       o.Code,
				Label:      o.Label,
				SortOrder:  o.SortOrder,
				QuestionID: questionID,
			})
		}
		return out, nil
	}
	return nil, entity.ErrQuestionNotFound
}

func (m *MockConnector) ListAnswers(ctx context.Context, calculationID entity.ID) ([]entity.Answer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := m.answers[calculationID]
	out := make([]entity.Answer, 0, len(stored))
	for _, a := range stored {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionID < out[j].QuestionID })
	return out, nil
}

func (m *MockConnector) UpsertAnswer(ctx context.Context, calculationID entity.ID, answer entity.Answer) (*entity.Answer, error) {
	ctxzap.Debug(ctx, "[MOCK] saving answer", zap.String("question_id", answer.QuestionID.String()))

	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.answers[calculationID]
	if !ok {
		stored = make(map[entity.ID]entity.Answer)
		m.answers[calculationID] = stored
	}
	if prev, ok := stored[answer.QuestionID]; ok {
		answer.ID = prev.ID
	} else {
		m.nextID++
		answer.ID = idOf(m.nextID)
	}
	stored[answer.QuestionID] = answer
	return &answer, nil
}

func (m *MockConnector) DeleteAnswers(ctx context.Context, calculationID entity.ID, questionIDs []entity.ID) error {
	ctxzap.Debug(ctx, "[MOCK] deleting answers", zap.Int("count", len(questionIDs)))

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range questionIDs {
		delete(m.answers[calculationID], id)
	}
	return nil
}

// calculation returns the stored calculation, creating a draft on first access. Caller holds mu.
func (m *MockConnector) calculation(id entity.ID) *entity.Calculation {
	calc, ok := m.calculations[id]
	if !ok {
		calc = &entity.Calculation{ID: id, Status: entity.CalculationStatusDraft, CurrentStep: 1}
		m.calculations[id] = calc
	}
	return calc
}

func (m *MockConnector) GetCalculation(ctx context.Context, calculationID entity.ID) (*entity.Calculation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	calc := *m.calculation(calculationID)
	return &calc, nil
}

func (m *MockConnector) UpdateCalculation(ctx context.Context, calculationID entity.ID, update entity.CalculationUpdate) (*entity.Calculation, error) {
	ctxzap.Info(ctx, "[MOCK] updating calculation", zap.String("status", string(update.Status)))

	m.mu.Lock()
	defer m.mu.Unlock()

	calc := m.calculation(calculationID)
	if update.CurrentStep != nil {
		calc.CurrentStep = *update.CurrentStep
		if calc.Status == entity.CalculationStatusDraft {
			calc.Status = entity.CalculationStatusInProgress
		}
	}
	if update.ProductName != "" {
		calc.ProductName = update.ProductName
	}
	if update.Category != "" {
		calc.Category = update.Category
	}
	if update.Status == entity.CalculationStatusSubmitted {
		calc.Status = entity.CalculationStatusCompleted
	} else if update.Status != "" {
		calc.Status = update.Status
	}

	out := *calc
	return &out, nil
}

// GetResult sums fuel answers: single answers carrying an emission factor and
// fuel row lists
func (m *MockConnector) GetResult(ctx context.Context, calculationID entity.ID) (*entity.CalculationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	calc := m.calculation(calculationID)
	if calc.Status != entity.CalculationStatusCompleted {
		return nil, entity.ErrNotComplete
	}

	factors := make(map[entity.ID]fixtureFactor, len(m.fixture.EmissionFactors))
	for _, f := range m.fixture.EmissionFactors {
		factors[idOf(f.ID)] = f
	}

	thousand := decimal.NewFromInt(1000)
	direct := decimal.Zero
	var lines []entity.ResultLine
	add := func(factorID entity.ID, rawAmount string) {
		f, ok := factors[factorID]
		if !ok {
			return
		}
		amount, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(rawAmount), ",", "."))
		if err != nil {
			return
		}
		tonnes := amount.Mul(decimal.NewFromFloat(f.Value)).Div(thousand)
		direct = direct.Add(tonnes)
		lines = append(lines, entity.ResultLine{Source: f.Name, Emissions: tonnes.InexactFloat64(), Unit: "t CO2e"})
	}

	for _, a := range m.answers[calculationID] {
		if a.EmissionFactorID != nil {
			add(*a.EmissionFactorID, a.ValueText)
			continue
		}
		var items []entity.FuelAnswerItem
		if strings.HasPrefix(strings.TrimSpace(a.ValueText), "[") &&
			sonic.ConfigStd.UnmarshalFromString(a.ValueText, &items) == nil {
			for _, it := range items {
				add(it.EmissionFactorID, it.Amount)
			}
		}
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Source < lines[j].Source })

	total := direct.InexactFloat64()
	return &entity.CalculationResult{
		CalculationID:   calculationID,
		ProductName:     calc.ProductName,
		Category:        calc.Category,
		DirectEmissions: total,
		TotalEmissions:  total,
		Unit:            "t CO2e",
		Lines:           lines,
	}, nil
}

func (m *MockConnector) distinct(match func(f fixtureFactor) bool, field func(f fixtureFactor) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, f := range m.fixture.EmissionFactors {
		if !match(f) {
			continue
		}
		v := field(f)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func (m *MockConnector) Sectors(ctx context.Context) ([]string, error) {
	return m.distinct(
		func(fixtureFactor) bool { return true },
		func(f fixtureFactor) string { return f.Sector },
	), nil
}

func (m *MockConnector) Subsectors(ctx context.Context, sector string) ([]string, error) {
	return m.distinct(
		func(f fixtureFactor) bool { return f.Sector == sector },
		func(f fixtureFactor) string { return f.Subsector },
	), nil
}

func (m *MockConnector) Subsubsectors(ctx context.Context, sector, subsector string) ([]string, error) {
	return m.distinct(
		func(f fixtureFactor) bool { return f.Sector == sector && f.Subsector == subsector },
		func(f fixtureFactor) string { return f.Subsubsector },
	), nil
}

func (m *MockConnector) Names(ctx context.Context, q entity.EmissionFactorQuery) ([]string, error) {
	return m.distinct(
		func(f fixtureFactor) bool {
			return f.Sector == q.Sector && f.Subsector == q.Subsector && f.Subsubsector == q.Subsubsector
		},
		func(f fixtureFactor) string { return f.Name },
	), nil
}

func (m *MockConnector) Denominators(ctx context.Context, q entity.EmissionFactorQuery) ([]string, error) {
	return m.distinct(
		func(f fixtureFactor) bool {
			return f.Sector == q.Sector && f.Subsector == q.Subsector && f.Subsubsector == q.Subsubsector && f.Name == q.Name
		},
		func(f fixtureFactor) string { return f.Denominator },
	), nil
}

func (m *MockConnector) ResolveFactor(ctx context.Context, q entity.EmissionFactorQuery) (*entity.EmissionFactor, error) {
	for _, f := range m.fixture.EmissionFactors {
		if f.Sector == q.Sector && f.Subsector == q.Subsector && f.Subsubsector == q.Subsubsector &&
			f.Name == q.Name && f.Denominator == q.Denominator {
			return &entity.EmissionFactor{
				ID:          idOf(f.ID),
				Name:        f.Name,
				Value:       f.Value,
				Unit:        f.Unit,
				Denominator: f.Denominator,
			}, nil
		}
	}
	return nil, entity.ErrFactorNotFound
}
