package journal

import (
	"fmt"
	"time"

	"github.com/journalbackend/internal/models"
)

// NormalizeTasks flattens heterogeneous task inputs into uniform task
// records for the given date. Structured fields pass through; priority
// defaults to medium; inputs with no task text are skipped. Identifiers
// and timestamps are left unset for the store to assign at insertion.
func NormalizeTasks(inputs []models.TaskInput, date, defaultStatus, defaultSource string) ([]models.TaskRecord, error) {
	if _, err := time.Parse(DateFormat, date); err != nil {
		return nil, fmt.Errorf("normalize tasks: invalid date %q: %w", date, err)
	}
	if defaultStatus == "" {
		return nil, fmt.Errorf("normalize tasks: default status is empty")
	}
	if defaultSource == "" {
		return nil, fmt.Errorf("normalize tasks: default source is empty")
	}

	records := make([]models.TaskRecord, 0, len(inputs))
	for _, in := range inputs {
		if in.Task == "" {
			continue
		}
		priority := in.Priority
		if priority == "" {
			priority = models.TaskPriorityMedium
		}
		records = append(records, models.TaskRecord{
			Date:     date,
			Task:     in.Task,
			Status:   defaultStatus,
			Priority: priority,
			Category: in.Category,
			Deadline: in.Deadline,
			Reason:   in.Reason,
			Source:   defaultSource,
		})
	}

	return records, nil
}

// SuggestionInputs converts AI next-day suggestions into task inputs so
// they flow through the same normalization as extracted tasks.
func SuggestionInputs(suggestions []models.Suggestion) []models.TaskInput {
	inputs := make([]models.TaskInput, 0, len(suggestions))
	for _, s := range suggestions {
		inputs = append(inputs, models.TaskInput{
			Task:     s.Task,
			Priority: s.Priority,
			Category: s.Category,
			Reason:   s.Reason,
		})
	}
	return inputs
}
