package recommendation

import (
	"strings"
	"unicode"
)

// Section is a titled group of recommendation items.
type Section struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

var bulletMarkers = []string{"•", "-", "*"}

// ParseSections splits model output into sections. A header is a line ending
// in ':' that is not a bullet; bullets and plain lines become items of the
// most recent header. Lines seen before the first header are dropped.
func ParseSections(text string) []Section {
	sections := []Section{}
	var current *Section

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		marker, isBullet := bulletMarker(trimmed)
		switch {
		case !isBullet && strings.HasSuffix(trimmed, ":"):
			if current != nil {
				sections = append(sections, *current)
			}
			current = &Section{Title: strings.TrimSuffix(trimmed, ":"), Items: []string{}}
		case isBullet:
			if current != nil {
				item := strings.TrimLeftFunc(strings.TrimPrefix(trimmed, marker), unicode.IsSpace)
				current.Items = append(current.Items, item)
			}
		default:
			if current != nil {
				current.Items = append(current.Items, trimmed)
			}
		}
	}

	if current != nil {
		sections = append(sections, *current)
	}
	return sections
}

func bulletMarker(line string) (string, bool) {
	for _, marker := range bulletMarkers {
		if strings.HasPrefix(line, marker) {
			return marker, true
		}
	}
	return "", false
}
