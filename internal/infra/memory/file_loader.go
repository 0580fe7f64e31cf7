package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/StarRy7c/Gamebot/internal/domain"
)

// FileQuestionLoader reads the question set from a JSON file: an array of
// {word, category, hints} records.
type FileQuestionLoader struct {
	path string
}

func NewFileQuestionLoader(path string) *FileQuestionLoader {
	return &FileQuestionLoader{path: path}
}

func (l *FileQuestionLoader) LoadQuestions(_ context.Context) ([]domain.Question, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read questions file: %w", err)
	}
	var questions []domain.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("unmarshal questions file: %w", err)
	}
	return questions, nil
}
