package llm

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/carbonwise/backend/internal/domain"
)

var integerPattern = regexp.MustCompile(`\d+`)

// ParseEstimate extracts the last integer in the model output.
// "Roughly 12 kg, final answer: 15" yields 15.
func ParseEstimate(text string) (int, error) {
	matches := integerPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return 0, fmt.Errorf("%w: %q", domain.ErrLLMNoNumber, truncate(strings.TrimSpace(text), 200))
	}

	value, err := strconv.Atoi(matches[len(matches)-1])
	if err != nil {
		// Only overflow can get here
		return 0, fmt.Errorf("%w: %v", domain.ErrLLMNoNumber, err)
	}
	return value, nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
