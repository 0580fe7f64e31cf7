package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/StarRy7c/Gamebot/internal/domain"
)

func TestQuestionBankDrawExcludesUsed(t *testing.T) {
	bank := NewQuestionBank(NewStaticQuestionLoader(sampleQuestions()))

	used := map[string]struct{}{"volcano": {}, "chess": {}}
	for i := 0; i < 10; i++ {
		q, err := bank.Draw(context.Background(), used)
		if err != nil {
			t.Fatalf("draw: %v", err)
		}
		if q.Word != "telescope" {
			t.Fatalf("expected the only eligible word, got %q", q.Word)
		}
	}
}

func TestQuestionBankDrawDoesNotMutate(t *testing.T) {
	bank := NewQuestionBank(NewStaticQuestionLoader(sampleQuestions()))

	// Selection leaves the pool untouched; only the caller records usage.
	for i := 0; i < 5; i++ {
		if _, err := bank.Draw(context.Background(), nil); err != nil {
			t.Fatalf("draw %d: %v", i, err)
		}
	}
	if n, _ := bank.Size(context.Background()); n != 3 {
		t.Fatalf("expected pool size 3, got %d", n)
	}
}

func TestQuestionBankExhausted(t *testing.T) {
	bank := NewQuestionBank(NewStaticQuestionLoader(sampleQuestions()))

	used := map[string]struct{}{"telescope": {}, "volcano": {}, "chess": {}}
	if _, err := bank.Draw(context.Background(), used); !errors.Is(err, domain.ErrNoQuestionsLeft) {
		t.Fatalf("expected ErrNoQuestionsLeft, got %v", err)
	}
}

func TestQuestionBankLoadsOnce(t *testing.T) {
	loader := &countingLoader{QuestionLoader: NewStaticQuestionLoader(sampleQuestions())}
	bank := NewQuestionBank(loader)

	if _, err := bank.Draw(context.Background(), nil); err != nil {
		t.Fatalf("draw: %v", err)
	}
	if _, err := bank.Draw(context.Background(), nil); err != nil {
		t.Fatalf("draw: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
}

func TestQuestionBankEmptyLoader(t *testing.T) {
	bank := NewQuestionBank(NewStaticQuestionLoader(nil))
	if _, err := bank.Draw(context.Background(), nil); !errors.Is(err, domain.ErrNoQuestionsLoaded) {
		t.Fatalf("expected ErrNoQuestionsLoaded, got %v", err)
	}
}

type countingLoader struct {
	QuestionLoader
	calls int
}

func (l *countingLoader) LoadQuestions(ctx context.Context) ([]domain.Question, error) {
	l.calls++
	return l.QuestionLoader.LoadQuestions(ctx)
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{Word: "telescope", Category: "Science", Hints: []string{"a", "b", "c", "d", "e"}},
		{Word: "volcano", Category: "Nature", Hints: []string{"a", "b", "c", "d", "e"}},
		{Word: "chess", Category: "Games", Hints: []string{"a", "b", "c", "d", "e"}},
	}
}
