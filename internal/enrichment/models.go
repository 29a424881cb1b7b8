package enrichment

// placeholder marks a bill field the upstream source could not supply.
const placeholder = "N/A"

// BillMetadata is the display payload for a proposal's tracked bill. Fields
// the source could not supply hold the placeholder value, never empty
// strings, so the dashboard always has something to render.
type BillMetadata struct {
	Title          string `json:"title"`
	Sponsor        string `json:"sponsor"`
	IntroducedDate string `json:"introduced_date"`
	LatestAction   string `json:"latest_action"`
}

// Placeholder returns metadata with every field degraded.
func Placeholder() BillMetadata {
	return BillMetadata{
		Title:          placeholder,
		Sponsor:        placeholder,
		IntroducedDate: placeholder,
		LatestAction:   placeholder,
	}
}

// normalize replaces empty fields with the placeholder.
func (m BillMetadata) normalize() BillMetadata {
	if m.Title == "" {
		m.Title = placeholder
	}
	if m.Sponsor == "" {
		m.Sponsor = placeholder
	}
	if m.IntroducedDate == "" {
		m.IntroducedDate = placeholder
	}
	if m.LatestAction == "" {
		m.LatestAction = placeholder
	}
	return m
}
