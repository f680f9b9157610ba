package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spec-kit/ticket-desk/internal/domain"
)

// BuildPrompt renders the fixed classification template around text.
func BuildPrompt(text string) string {
	categories := make([]string, 0, 4)
	for _, c := range domain.AllTicketCategories() {
		categories = append(categories, string(c))
	}
	priorities := make([]string, 0, 4)
	for _, p := range domain.AllTicketPriorities() {
		priorities = append(priorities, string(p))
	}

	return fmt.Sprintf(`Classify this support ticket.
Return ONLY JSON:
{"suggested_category":"billing","suggested_priority":"low"}
Categories: %s
Priorities: %s
Text: %s
`, strings.Join(categories, " "), strings.Join(priorities, " "), text)
}

// stripCodeFence removes a surrounding markdown fence, tagged json or not.
func stripCodeFence(raw string) string {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if len(text) >= 4 && strings.EqualFold(text[:4], "json") {
			text = text[4:]
		}
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

const (
	categoryKey = "suggested_category"
	priorityKey = "suggested_priority"
)

// ParseSuggestion decodes the model reply. Both keys must be present with
// their exact spelling and hold strings.
func ParseSuggestion(raw string) (Suggestion, error) {
	text := stripCodeFence(raw)
	if text == "" {
		return Suggestion{}, errors.New("empty model response")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return Suggestion{}, fmt.Errorf("decode model response: %w", err)
	}

	var missing []string
	for _, key := range []string{categoryKey, priorityKey} {
		if _, ok := fields[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return Suggestion{}, fmt.Errorf("model response missing %s", strings.Join(missing, ", "))
	}

	category, err := stringField(fields, categoryKey)
	if err != nil {
		return Suggestion{}, err
	}
	priority, err := stringField(fields, priorityKey)
	if err != nil {
		return Suggestion{}, err
	}
	return Suggestion{Category: category, Priority: priority}, nil
}

func stringField(fields map[string]json.RawMessage, key string) (string, error) {
	value := fields[key]
	if string(value) == "null" {
		return "", fmt.Errorf("model response %s is null", key)
	}
	var out string
	if err := json.Unmarshal(value, &out); err != nil {
		return "", fmt.Errorf("model response %s is not a string: %w", key, err)
	}
	return out, nil
}
