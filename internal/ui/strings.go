package ui

import (
	"errors"

	"github.com/kmorrow/shopkeep/internal/catalog"
	"github.com/kmorrow/shopkeep/internal/mutate"
)

// truncate shortens a string to maxLen runes, adding an ellipsis.
func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen == 1 {
		return "…"
	}
	return string(runes[:maxLen-1]) + "…"
}

func clampWidth(w, min, max int) int {
	if w < min {
		return min
	}
	if w > max {
		return max
	}
	return w
}

// categoryIndex finds the position of a category id, -1 when absent or empty.
func categoryIndex(categories []catalog.Category, id string) int {
	if id == "" {
		return -1
	}
	for i, c := range categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// categoryID resolves a choice index back to a category id. Index -1 is the
// unselected choice.
func categoryID(categories []catalog.Category, idx int) string {
	if idx < 0 || idx >= len(categories) {
		return ""
	}
	return categories[idx].ID
}

// prevChoice steps the category choice left, stopping at unselected.
func prevChoice(idx int) int {
	if idx <= -1 {
		return -1
	}
	return idx - 1
}

// nextChoice steps the category choice right, stopping at the last category.
func nextChoice(idx, count int) int {
	if idx >= count-1 {
		return count - 1
	}
	return idx + 1
}

// validationMessage maps a validation failure to the message shown by the
// form.
func validationMessage(err error) string {
	if errors.Is(err, mutate.ErrUnknownCategory) {
		return "Selected category does not exist."
	}
	if errors.Is(err, mutate.ErrNotEditing) {
		return "No product is being edited."
	}
	return "Product name and category are required."
}
