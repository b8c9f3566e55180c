package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// TaskInput is one extracted task before normalization. Upstream payloads
// represent tasks either as a bare string or as an object with optional
// fields; both decode into this one shape so downstream code never does
// runtime type inspection.
type TaskInput struct {
	Task     string `json:"task"`
	Priority string `json:"priority,omitempty"`
	Deadline string `json:"deadline,omitempty"`
	Category string `json:"category,omitempty"`
	Reason   string `json:"reason,omitempty"`

	// Plain records that the input arrived as a bare string.
	Plain bool `json:"-"`
}

// PlainTask wraps bare task text.
func PlainTask(text string) TaskInput {
	return TaskInput{Task: text, Plain: true}
}

// FlexInt decodes from a JSON number or a numeric string. Annotation
// payloads are not strict about which one they send for energy levels.
type FlexInt int

func (n *FlexInt) UnmarshalJSON(data []byte) error {
	var i int
	if err := json.Unmarshal(data, &i); err == nil {
		*n = FlexInt(i)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("value is neither number nor string: %s", data)
	}
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("value %q is not numeric: %w", s, err)
	}
	*n = FlexInt(i)
	return nil
}

func (t *TaskInput) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*t = PlainTask(text)
		return nil
	}

	type structured TaskInput
	var s structured
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("task input is neither string nor object: %w", err)
	}
	*t = TaskInput(s)
	return nil
}
