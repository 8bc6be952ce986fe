package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/futig/cbam-wizard/internal/entity"
	"github.com/futig/cbam-wizard/internal/pkg/supersede"
)

// Client fetches the questions of wizard steps with their options.
// Step results are cached per step code.
type Client struct {
	source  QuestionSource
	cache   *cache.Cache
	tracker *supersede.Tracker
}

func NewClient(source QuestionSource, ttl time.Duration) *Client {
	return &Client{
		source:  source,
		cache:   cache.New(ttl, 2*ttl+time.Minute),
		tracker: supersede.NewTracker(),
	}
}

// FetchQuestions returns the merged questions of all step codes, ordered by sortOrder,
// with one entry per question code. Any failed request fails the whole step.
func (c *Client) FetchQuestions(ctx context.Context, codes ...string) ([]entity.QuestionWithOptions, error) {
	return c.fetch(ctx, false, codes)
}

// Refetch is FetchQuestions without the cache
func (c *Client) Refetch(ctx context.Context, codes ...string) ([]entity.QuestionWithOptions, error) {
	return c.fetch(ctx, true, codes)
}

// FetchLatest fetches for the wizard identified by key. When a newer fetch for the same key
// starts, this one is cancelled and returns ErrSuperseded.
func (c *Client) FetchLatest(ctx context.Context, key string, refetch bool, codes ...string) ([]entity.QuestionWithOptions, error) {
	ctx, gen, done := c.tracker.Begin(ctx, key)
	defer done()

	questions, err := c.fetch(ctx, refetch, codes)
	if !c.tracker.Current(key, gen) {
		return nil, ErrSuperseded
	}
	return questions, err
}

// Invalidate drops cached steps; no codes drops everything
func (c *Client) Invalidate(codes ...string) {
	if len(codes) == 0 {
		c.cache.Flush()
		return
	}
	for _, code := range codes {
		c.cache.Delete(code)
	}
}

func (c *Client) fetch(ctx context.Context, refetch bool, codes []string) ([]entity.QuestionWithOptions, error) {
	if len(codes) == 0 {
		return nil, nil
	}

	perStep := make([][]entity.QuestionWithOptions, len(codes))
	g, gctx := errgroup.WithContext(ctx)
	for i, code := range codes {
		if !refetch {
			if cached, ok := c.cache.Get(code); ok {
				perStep[i] = cached.([]entity.QuestionWithOptions)
				continue
			}
		}

		g.Go(func() error {
			questions, err := c.fetchStep(gctx, code)
			if err != nil {
				return fmt.Errorf("step %s: %w", code, err)
			}
			perStep[i] = questions
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		ctxzap.Warn(ctx, "question catalog fetch failed", zap.Strings("step_codes", codes), zap.Error(err))
		return nil, err
	}

	for i, code := range codes {
		c.cache.SetDefault(code, perStep[i])
	}

	return Merge(perStep...), nil
}

// fetchStep loads one step code and the options of its choice questions in parallel
func (c *Client) fetchStep(ctx context.Context, code string) ([]entity.QuestionWithOptions, error) {
	questions, err := c.source.QuestionsByStep(ctx, code)
	if err != nil {
		return nil, err
	}

	out := make([]entity.QuestionWithOptions, len(questions))
	g, gctx := errgroup.WithContext(ctx)
	for i, q := range questions {
		out[i] = entity.QuestionWithOptions{Question: q, Options: []entity.QuestionOption{}}
		if !q.QuestionType.IsChoice() {
			continue
		}

		g.Go(func() error {
			options, err := c.source.OptionsByQuestion(gctx, q.ID)
			if err != nil {
				return fmt.Errorf("options of question %s: %w", q.ID, err)
			}
			sort.SliceStable(options, func(a, b int) bool {
				return options[a].SortOrder < options[b].SortOrder
			})
			out[i].Options = options
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Merge flattens per-step lists: merge by id keeping the first, stable sort by sortOrder,
// then one entry per code with the first occurrence winning.
func Merge(lists ...[]entity.QuestionWithOptions) []entity.QuestionWithOptions {
	seenID := make(map[entity.ID]struct{})
	var merged []entity.QuestionWithOptions
	for _, list := range lists {
		for _, q := range list {
			if _, ok := seenID[q.ID]; ok {
				continue
			}
			seenID[q.ID] = struct{}{}
			merged = append(merged, q)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].SortOrder < merged[j].SortOrder
	})

	seenCode := make(map[string]struct{}, len(merged))
	out := make([]entity.QuestionWithOptions, 0, len(merged))
	for _, q := range merged {
		code := strings.TrimSpace(q.Code)
		if _, ok := seenCode[code]; ok {
			continue
		}
		seenCode[code] = struct{}{}
		out = append(out, q)
	}

	return out
}
