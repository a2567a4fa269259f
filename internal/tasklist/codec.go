package tasklist

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/Makepad-fr/tasks/internal/model"
)

// Encode serializes the full list as a compact JSON array. Each element has
// exactly the fields title and isCompleted, in list order.
func Encode(tasks []model.Task) (string, error) {
	if tasks == nil {
		tasks = []model.Task{}
	}
	b, err := json.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("json marshal: %w", err)
	}
	return string(b), nil
}

// Decode parses a value written by Encode. An empty value yields an empty
// list. Comments and trailing commas are tolerated so the file backend can
// be edited by hand. Every task gets a fresh in-memory ID.
func Decode(value string) ([]model.Task, error) {
	if strings.TrimSpace(value) == "" {
		return []model.Task{}, nil
	}
	var raw []model.Task
	if err := json.Unmarshal(jsonc.ToJSON([]byte(value)), &raw); err != nil {
		return nil, fmt.Errorf("%w: json unmarshal: %v", ErrCorruptState, err)
	}
	out := make([]model.Task, 0, len(raw))
	for i, t := range raw {
		if strings.TrimSpace(t.Title) == "" {
			return nil, fmt.Errorf("%w: task %d has an empty title", ErrCorruptState, i+1)
		}
		nt := model.New(t.Title)
		nt.IsCompleted = t.IsCompleted
		out = append(out, nt)
	}
	return out, nil
}
