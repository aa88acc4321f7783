package extraction

import "strings"

const (
	// capabilityGenerate is the generation method a model must support
	// to be usable for extraction.
	capabilityGenerate = "generateContent"

	// fastMarker identifies the fast model variants we prefer for
	// interactive capture.
	fastMarker = "flash"
)

// ModelInfo is one entry from the provider's capability query.
type ModelInfo struct {
	Name         string
	Capabilities []string
}

// SelectionErrorKind classifies model selection failures.
type SelectionErrorKind string

// NoUsableModel means the catalog contained no model supporting
// content generation.
const NoUsableModel SelectionErrorKind = "no_usable_model"

// SelectionError is returned when no model can be selected from a
// catalog.
type SelectionError struct {
	Kind SelectionErrorKind
}

func (e *SelectionError) Error() string {
	return "selecting model: " + string(e.Kind)
}

func supportsGeneration(m ModelInfo) bool {
	for _, c := range m.Capabilities {
		if c == capabilityGenerate {
			return true
		}
	}
	return false
}

// SelectModel picks a usable model from a catalog. Among models that
// support content generation it prefers the first fast variant, then
// falls back to the first survivor. Selection is deterministic for a
// fixed catalog order.
func SelectModel(catalog []ModelInfo) (string, error) {
	var first string
	for _, m := range catalog {
		if !supportsGeneration(m) {
			continue
		}
		if strings.Contains(m.Name, fastMarker) {
			return m.Name, nil
		}
		if first == "" {
			first = m.Name
		}
	}
	if first == "" {
		return "", &SelectionError{Kind: NoUsableModel}
	}
	return first, nil
}
