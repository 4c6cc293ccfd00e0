package lead

import (
	"pipedesk/models"
)

// Filters holds the three independent selectors of the pipeline view. Each
// is either a concrete value or models.FilterAll.
type Filters struct {
	Status      string
	Category    string
	Temperature string
}

// Filter returns the leads matching every active selector. A lead without
// an AI analysis block never matches a concrete category or temperature
// selector: absence of a classification is not a wildcard.
func Filter(leads []models.Lead, f Filters) []models.Lead {
	out := make([]models.Lead, 0, len(leads))
	for _, l := range leads {
		if !matches(l, f) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func matches(l models.Lead, f Filters) bool {
	if f.Status != models.FilterAll && string(l.Status) != f.Status {
		return false
	}
	if f.Category != models.FilterAll {
		if l.AIAnalysis == nil || string(l.AIAnalysis.Category) != f.Category {
			return false
		}
	}
	if f.Temperature != models.FilterAll {
		if l.AIAnalysis == nil || string(l.AIAnalysis.Temperature) != f.Temperature {
			return false
		}
	}
	return true
}
