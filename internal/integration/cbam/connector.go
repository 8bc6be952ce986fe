package cbam

import (
	"context"
	"net/http"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/futig/cbam-wizard/internal/config"
	"github.com/futig/cbam-wizard/internal/entity"
	pkghttp "github.com/futig/cbam-wizard/pkg/http"
)

// Connector talks to the CBAM REST backend that owns questions, answers, calculations and emission factors
type Connector struct {
	config    config.CBAMConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

// NewConnector builds the backend client. A user token in the request context wins
// over the configured service token.
func NewConnector(
	cfg config.CBAMConnectorConfig,
	logger *zap.Logger,
) *Connector {
	client := cfg.HTTPClientConfig
	conn := pkghttp.NewConnector(
		&pkghttp.ConnectorConfig{BaseURL: strings.TrimRight(client.Url, "/"), Logger: logger},
		pkghttp.WithRequestTimeout(client.RequestTimeout),
		pkghttp.WithConnClientTimeout(client.ConnTimeout),
		pkghttp.WithClientKeepAlive(client.KeepAlive),
		pkghttp.WithIdleConnTimeout(client.IdleConnTimeout),
		pkghttp.WithResponseHeaderTimeout(client.ResponseHeaderTimeout),
		pkghttp.WithMaxIdleConnsPerHost(client.MaxIdleConnsPerHost),
		pkghttp.WithRequestLogging(),
		pkghttp.WithAuthToken(client.Token),
	)

	return &Connector{
		connector: conn,
		config:    cfg,
		logger:    logger,
	}
}

func expand(endpoint string, id entity.ID) string {
	return strings.ReplaceAll(endpoint, "{id}", string(id))
}

// call performs a request with retries and unwraps the envelope
func (c *Connector) call(ctx context.Context, method, endpoint string, body any, opts ...pkghttp.RequestOpt) (envelope, error) {
	var env envelope
	err := c.config.Retry.Do(ctx, func(ctx context.Context) error {
		env = nil
		return c.connector.DoRequest(ctx, method, endpoint, body, &env, opts...)
	})
	return env, err
}

// QuestionsByStep lists the questions of one backend step code
func (c *Connector) QuestionsByStep(ctx context.Context, stepCode string) ([]entity.Question, error) {
	ctxzap.Debug(ctx, "fetching questions", zap.String("step_code", stepCode))

	env, err := c.call(ctx, http.MethodGet, c.config.QuestionsEndpoint, nil, pkghttp.WithQuery("stepCode", stepCode))
	if err != nil {
		return nil, mapError(err, nil)
	}

	questions, err := payload[[]entity.Question](env, "questions")
	if err != nil {
		return nil, err
	}

	ctxzap.Debug(ctx, "questions fetched", zap.String("step_code", stepCode), zap.Int("count", len(questions)))

	return questions, nil
}

// OptionsByQuestion lists the options of a choice question
func (c *Connector) OptionsByQuestion(ctx context.Context, questionID entity.ID) ([]entity.QuestionOption, error) {
	env, err := c.call(ctx, http.MethodGet, expand(c.config.OptionsEndpoint, questionID), nil)
	if err != nil {
		return nil, mapError(err, entity.ErrQuestionNotFound)
	}

	return payload[[]entity.QuestionOption](env, "options")
}

// answerPayload accepts both a nested question.id and a flat questionId
type answerPayload struct {
	ID         entity.ID `json:"id"`
	QuestionID entity.ID `json:"questionId"`
	Question   *struct {
		ID entity.ID `json:"id"`
	} `json:"question"`
	ValueText        string     `json:"valueText"`
	EmissionFactorID *entity.ID `json:"emissionFactorId"`
}

func (p answerPayload) toEntity() entity.Answer {
	qid := p.QuestionID
	if p.Question != nil && p.Question.ID != "" {
		qid = p.Question.ID
	}
	return entity.Answer{
		ID:               p.ID,
		QuestionID:       qid,
		ValueText:        p.ValueText,
		EmissionFactorID: p.EmissionFactorID,
	}
}

// ListAnswers lists every stored answer of a calculation
func (c *Connector) ListAnswers(ctx context.Context, calculationID entity.ID) ([]entity.Answer, error) {
	env, err := c.call(ctx, http.MethodGet, expand(c.config.AnswersEndpoint, calculationID), nil)
	if err != nil {
		return nil, mapError(err, entity.ErrCalculationNotFound)
	}

	raw, err := payload[[]answerPayload](env, "answers")
	if err != nil {
		return nil, err
	}

	answers := make([]entity.Answer, 0, len(raw))
	for _, a := range raw {
		answer := a.toEntity()
		if answer.QuestionID == "" {
			continue
		}
		answers = append(answers, answer)
	}

	return answers, nil
}

// UpsertAnswer creates or replaces the answer of one question
func (c *Connector) UpsertAnswer(ctx context.Context, calculationID entity.ID, answer entity.Answer) (*entity.Answer, error) {
	ctxzap.Debug(ctx, "saving answer", zap.String("question_id", answer.QuestionID.String()))

	env, err := c.call(ctx, http.MethodPut, expand(c.config.AnswersEndpoint, calculationID), answer)
	if err != nil {
		return nil, mapError(err, entity.ErrCalculationNotFound)
	}

	saved, err := payload[*answerPayload](env, "answer")
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return &answer, nil
	}

	out := saved.toEntity()
	return &out, nil
}

type bulkDeleteRequest struct {
	QuestionIDs []entity.ID `json:"questionIds"`
}

// DeleteAnswers removes the answers of exactly the given questions
func (c *Connector) DeleteAnswers(ctx context.Context, calculationID entity.ID, questionIDs []entity.ID) error {
	if len(questionIDs) == 0 {
		return nil
	}

	ctxzap.Debug(ctx, "deleting answers", zap.Int("count", len(questionIDs)))

	env, err := c.call(ctx, http.MethodPost, expand(c.config.AnswersBulkDeleteEndpoint, calculationID),
		bulkDeleteRequest{QuestionIDs: questionIDs})
	if err != nil {
		return mapError(err, entity.ErrCalculationNotFound)
	}

	_, err = payload[any](env, "deleted")
	return err
}

func (c *Connector) GetCalculation(ctx context.Context, calculationID entity.ID) (*entity.Calculation, error) {
	env, err := c.call(ctx, http.MethodGet, expand(c.config.CalculationEndpoint, calculationID), nil)
	if err != nil {
		return nil, mapError(err, entity.ErrCalculationNotFound)
	}

	calc, err := payload[*entity.Calculation](env, "calculation")
	if err != nil {
		return nil, err
	}
	if calc == nil {
		return nil, entity.ErrCalculationNotFound
	}
	return calc, nil
}

// UpdateCalculation patches the wizard step and status. The returned calculation carries the status decided by the backend.
func (c *Connector) UpdateCalculation(ctx context.Context, calculationID entity.ID, update entity.CalculationUpdate) (*entity.Calculation, error) {
	ctxzap.Info(ctx, "updating calculation", zap.String("status", string(update.Status)))

	env, err := c.call(ctx, http.MethodPatch, expand(c.config.CalculationEndpoint, calculationID), update)
	if err != nil {
		return nil, mapError(err, entity.ErrCalculationNotFound)
	}

	calc, err := payload[*entity.Calculation](env, "calculation")
	if err != nil {
		return nil, err
	}
	if calc == nil {
		return nil, entity.ErrCalculationNotFound
	}
	return calc, nil
}

func (c *Connector) GetResult(ctx context.Context, calculationID entity.ID) (*entity.CalculationResult, error) {
	env, err := c.call(ctx, http.MethodGet, expand(c.config.ResultEndpoint, calculationID), nil)
	if err != nil {
		return nil, mapError(err, entity.ErrCalculationNotFound)
	}

	result, err := payload[*entity.CalculationResult](env, "result")
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, entity.ErrNotComplete
	}
	return result, nil
}

func (c *Connector) efList(ctx context.Context, level, key string, q entity.EmissionFactorQuery) ([]string, error) {
	env, err := c.call(ctx, http.MethodGet, c.config.EmissionFactorsEndpoint+"/"+level, nil,
		pkghttp.WithQuery("sector", q.Sector),
		pkghttp.WithQuery("subsector", q.Subsector),
		pkghttp.WithQuery("subsubsector", q.Subsubsector),
		pkghttp.WithQuery("name", q.Name),
	)
	if err != nil {
		return nil, mapError(err, entity.ErrFactorNotFound)
	}

	return payload[[]string](env, key)
}

func (c *Connector) Sectors(ctx context.Context) ([]string, error) {
	return c.efList(ctx, "sectors", "sectors", entity.EmissionFactorQuery{})
}

func (c *Connector) Subsectors(ctx context.Context, sector string) ([]string, error) {
	return c.efList(ctx, "subsectors", "subsectors", entity.EmissionFactorQuery{Sector: sector})
}

func (c *Connector) Subsubsectors(ctx context.Context, sector, subsector string) ([]string, error) {
	return c.efList(ctx, "subsubsectors", "subsubsectors", entity.EmissionFactorQuery{Sector: sector, Subsector: subsector})
}

func (c *Connector) Names(ctx context.Context, q entity.EmissionFactorQuery) ([]string, error) {
	q.Name, q.Denominator = "", ""
	return c.efList(ctx, "names", "names", q)
}

func (c *Connector) Denominators(ctx context.Context, q entity.EmissionFactorQuery) ([]string, error) {
	q.Denominator = ""
	return c.efList(ctx, "denominators", "denominators", q)
}

// ResolveFactor returns the id and value of the factor pinned down by a complete query
func (c *Connector) ResolveFactor(ctx context.Context, q entity.EmissionFactorQuery) (*entity.EmissionFactor, error) {
	env, err := c.call(ctx, http.MethodGet, c.config.EmissionFactorsEndpoint+"/resolve", nil,
		pkghttp.WithQuery("sector", q.Sector),
		pkghttp.WithQuery("subsector", q.Subsector),
		pkghttp.WithQuery("subsubsector", q.Subsubsector),
		pkghttp.WithQuery("name", q.Name),
		pkghttp.WithQuery("denominator", q.Denominator),
	)
	if err != nil {
		return nil, mapError(err, entity.ErrFactorNotFound)
	}

	factor, err := payload[*entity.EmissionFactor](env, "emissionFactor")
	if err != nil {
		return nil, err
	}
	if factor == nil {
		return nil, entity.ErrFactorNotFound
	}
	return factor, nil
}
