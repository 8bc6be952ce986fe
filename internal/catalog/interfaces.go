package catalog

import (
	"context"

	"github.com/futig/cbam-wizard/internal/entity"
)

// QuestionSource is the backend side of the catalog
type QuestionSource interface {
	QuestionsByStep(ctx context.Context, stepCode string) ([]entity.Question, error)
	OptionsByQuestion(ctx context.Context, questionID entity.ID) ([]entity.QuestionOption, error)
}
