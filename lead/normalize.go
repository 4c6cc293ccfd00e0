package lead

import (
	"pipedesk/models"
)

// Normalize maps a raw store record into the canonical Lead shape plus the
// record's capability descriptor. It is total: any input, including nil or
// wildly malformed maps, yields a usable lead with defaults substituted.
// Timestamp fields are read under both camel- and snake-case keys because
// records written by older intake channels predate the rename.
func Normalize(raw map[string]any) (models.Lead, models.Capabilities) {
	l := models.Lead{
		ID:      stringField(raw, "id"),
		Name:    stringField(raw, "name"),
		Email:   stringField(raw, "email"),
		Company: stringField(raw, "company"),
		Message: stringField(raw, "message"),
		Origin:  stringField(raw, "origin"),
		Source:  stringField(raw, "source"),
	}

	l.Status = models.LeadStatus(stringField(raw, "status"))
	if l.Status == "" {
		l.Status = models.StatusNew
	}

	l.CreatedAt = firstString(raw, "createdAt", "created_at")
	l.LastInteraction = firstString(raw, "lastInteraction", "last_interaction")
	l.AIAnalysis = analysisField(raw, "aiAnalysis", "ai_analysis")
	l.History = historyField(raw)

	caps := models.Capabilities{
		SupportsHistory:         hasKey(raw, "history"),
		SupportsLastInteraction: hasKey(raw, "lastInteraction") || hasKey(raw, "last_interaction"),
	}
	return l, caps
}

func hasKey(raw map[string]any, key string) bool {
	_, ok := raw[key]
	return ok
}

func stringField(raw map[string]any, key string) string {
	s, _ := raw[key].(string)
	return s
}

func firstString(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := stringField(raw, key); s != "" {
			return s
		}
	}
	return ""
}

func analysisField(raw map[string]any, keys ...string) *models.AIAnalysis {
	for _, key := range keys {
		block, ok := raw[key].(map[string]any)
		if !ok || len(block) == 0 {
			continue
		}
		return &models.AIAnalysis{
			Category:       models.LeadCategory(stringField(block, "category")),
			Temperature:    models.LeadTemperature(stringField(block, "temperature")),
			Summary:        stringField(block, "summary"),
			Recommendation: stringField(block, "recommendation"),
		}
	}
	return nil
}

// historyField degrades to an empty sequence whenever the source value is
// not a sequence; individual malformed entries degrade to zero values rather
// than dropping, so entry count is preserved.
func historyField(raw map[string]any) []models.HistoryEntry {
	seq, ok := raw["history"].([]any)
	if !ok {
		return []models.HistoryEntry{}
	}
	entries := make([]models.HistoryEntry, 0, len(seq))
	for _, item := range seq {
		entry, _ := item.(map[string]any)
		entries = append(entries, models.HistoryEntry{
			ID:      stringField(entry, "id"),
			Type:    stringField(entry, "type"),
			Content: stringField(entry, "content"),
			Date:    stringField(entry, "date"),
		})
	}
	return entries
}
