package domain

// Extension bag keys owned by the application.
const (
	BagKeyBANT             = "bant"
	BagKeyPresentationData = "presentation_data"
)

// BANT is the lead qualification record: budget, authority, need, timing.
// A nil field was not submitted; an empty string was submitted blank.
type BANT struct {
	Budget    *string `json:"budget,omitempty"`
	Authority *string `json:"authority,omitempty"`
	Need      *string `json:"need,omitempty"`
	Timing    *string `json:"timing,omitempty"`
}

// AsMap returns the submitted BANT fields keyed by their JSON names.
func (b BANT) AsMap() map[string]any {
	m := make(map[string]any, 4)
	put := func(key string, v *string) {
		if v != nil {
			m[key] = *v
		}
	}
	put("budget", b.Budget)
	put("authority", b.Authority)
	put("need", b.Need)
	put("timing", b.Timing)
	return m
}

// MergeSection returns a copy of bag with key replaced wholesale by value.
// All other top-level keys are carried over untouched; bag is not modified.
func MergeSection(bag map[string]any, key string, value any) map[string]any {
	out := make(map[string]any, len(bag)+1)
	for k, v := range bag {
		out[k] = v
	}
	out[key] = value
	return out
}
