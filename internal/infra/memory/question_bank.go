package memory

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/StarRy7c/Gamebot/internal/domain"
	"golang.org/x/sync/singleflight"
)

// QuestionLoader fetches the full question set from a backing store
// (Postgres, a JSON file, a static map).
type QuestionLoader interface {
	LoadQuestions(ctx context.Context) ([]domain.Question, error)
}

// QuestionBank holds the loaded question set and draws unused prompts for
// rooms. The set is loaded once, lazily, guarded by singleflight so
// concurrent first draws hit the loader a single time.
type QuestionBank struct {
	loader QuestionLoader
	sf     singleflight.Group

	mu        sync.RWMutex
	questions []domain.Question
	loaded    bool
	rnd       *rand.Rand
}

func NewQuestionBank(loader QuestionLoader) *QuestionBank {
	return &QuestionBank{
		loader: loader,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Draw picks one question uniformly at random among those whose lowercased
// word is absent from used. Selection never mutates bank state; the caller
// records the word as used.
func (b *QuestionBank) Draw(ctx context.Context, used map[string]struct{}) (domain.Question, error) {
	questions, err := b.load(ctx)
	if err != nil {
		return domain.Question{}, err
	}

	eligible := make([]domain.Question, 0, len(questions))
	for _, q := range questions {
		if _, taken := used[strings.ToLower(q.Word)]; !taken {
			eligible = append(eligible, q)
		}
	}
	if len(eligible) == 0 {
		return domain.Question{}, domain.ErrNoQuestionsLeft
	}

	b.mu.Lock()
	pick := b.rnd.Intn(len(eligible))
	b.mu.Unlock()
	return eligible[pick], nil
}

// Size reports how many questions are loaded, forcing the initial load.
func (b *QuestionBank) Size(ctx context.Context) (int, error) {
	questions, err := b.load(ctx)
	if err != nil {
		return 0, err
	}
	return len(questions), nil
}

func (b *QuestionBank) load(ctx context.Context) ([]domain.Question, error) {
	b.mu.RLock()
	if b.loaded {
		defer b.mu.RUnlock()
		return b.questions, nil
	}
	b.mu.RUnlock()

	result, err, _ := b.sf.Do("load", func() (interface{}, error) {
		b.mu.RLock()
		if b.loaded {
			defer b.mu.RUnlock()
			return b.questions, nil
		}
		b.mu.RUnlock()

		questions, err := b.loader.LoadQuestions(ctx)
		if err != nil {
			return nil, err
		}
		if len(questions) == 0 {
			return nil, domain.ErrNoQuestionsLoaded
		}

		b.mu.Lock()
		b.questions = questions
		b.loaded = true
		b.mu.Unlock()
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

// StaticQuestionLoader is a loader backed by a fixed slice (tests/demos).
type StaticQuestionLoader struct {
	questions []domain.Question
}

func NewStaticQuestionLoader(questions []domain.Question) *StaticQuestionLoader {
	return &StaticQuestionLoader{questions: questions}
}

func (l *StaticQuestionLoader) LoadQuestions(_ context.Context) ([]domain.Question, error) {
	return l.questions, nil
}
