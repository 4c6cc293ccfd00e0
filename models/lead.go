package models

// LeadStatus is the pipeline lifecycle stage of a lead.
type LeadStatus string

const (
	StatusNew       LeadStatus = "new"
	StatusContacted LeadStatus = "contacted"
	StatusFollowing LeadStatus = "following"
	StatusClosed    LeadStatus = "closed"
	StatusLost      LeadStatus = "lost"
)

// Valid reports whether s is one of the known pipeline statuses.
// Transitions between valid statuses are intentionally unrestricted;
// ordering is left to operator judgment.
func (s LeadStatus) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusFollowing, StatusClosed, StatusLost:
		return true
	}
	return false
}

// LeadCategory is the AI-assigned vertical of a lead.
type LeadCategory string

const (
	CategoryBranding  LeadCategory = "branding"
	CategoryWebDesign LeadCategory = "web-design"
	CategoryEcommerce LeadCategory = "ecommerce"
	CategorySaaS      LeadCategory = "saas"
	CategoryCreators  LeadCategory = "creators"
	CategoryOther     LeadCategory = "other"
)

// LeadTemperature is the AI-assigned buying-intent signal.
type LeadTemperature string

const (
	TemperatureCold LeadTemperature = "cold"
	TemperatureWarm LeadTemperature = "warm"
	TemperatureHot  LeadTemperature = "hot"
)

// FilterAll is the sentinel selector meaning "no filtering on this axis".
const FilterAll = "all"

// History entry types. The history sequence is append-only; entries are
// never edited, removed or reordered.
const (
	HistoryStatusChange = "status_change"
	HistoryNote         = "note"
	HistorySystem       = "system"
)

// AIAnalysis is the classification block attached by the analysis
// side-channel (or the manual-intake placeholder). Read-only after creation.
type AIAnalysis struct {
	Category       LeadCategory    `json:"category"`
	Temperature    LeadTemperature `json:"temperature"`
	Summary        string          `json:"summary,omitempty"`
	Recommendation string          `json:"recommendation,omitempty"`
}

// HistoryEntry is one immutable audit record on a lead.
type HistoryEntry struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Content string `json:"content"`
	Date    string `json:"date"`
}

// Lead is the canonical shape produced by the normalizer. Raw store records
// may be missing any of these fields; the normalizer substitutes defaults so
// Status, CreatedAt, LastInteraction and History are always usable.
type Lead struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company,omitempty"`
	Message string `json:"message,omitempty"`

	Status LeadStatus `json:"status"`
	Origin string     `json:"origin,omitempty"`
	Source string     `json:"source,omitempty"`

	AIAnalysis *AIAnalysis `json:"aiAnalysis,omitempty"`

	CreatedAt       string `json:"createdAt"`
	LastInteraction string `json:"lastInteraction"`

	History []HistoryEntry `json:"history"`
}

// Capabilities describes which optional fields a raw record actually
// carries. Computed once at normalization time so callers never re-inspect
// raw shape; partial updates only include keys the record supports, which
// keeps older, narrower records untouched.
type Capabilities struct {
	SupportsHistory         bool `json:"supportsHistory"`
	SupportsLastInteraction bool `json:"supportsLastInteraction"`
}
