package domain

import (
	"fmt"
	"strings"

	apperrors "pomocoin/internal/platform/errors"
)

const (
	MinValue = 1
	MaxValue = 5
)

// Task is a pending to-do item worth Value coins. Done tasks only exist in
// legacy data; completion removes a task from the list.
type Task struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Value int    `json:"value"`
	Done  bool   `json:"done"`
}

func NormalizeText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", fmt.Errorf("task text is required: %w", apperrors.ErrInvalidInput)
	}
	return trimmed, nil
}

func ValidateValue(value int) error {
	if value < MinValue || value > MaxValue {
		return fmt.Errorf("task value %d outside %d..%d: %w", value, MinValue, MaxValue, apperrors.ErrInvalidInput)
	}
	return nil
}

func New(id, text string, value int) (Task, error) {
	text, err := NormalizeText(text)
	if err != nil {
		return Task{}, err
	}
	if err := ValidateValue(value); err != nil {
		return Task{}, err
	}
	return Task{ID: id, Text: text, Value: value}, nil
}

// Index returns the position of id in tasks, or -1.
func Index(tasks []Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Pending drops done tasks, keeping order.
func Pending(tasks []Task) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.Done {
			out = append(out, t)
		}
	}
	return out
}
