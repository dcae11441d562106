package domain

import (
	"strconv"
	"strings"
	"time"

	"sales_pipeline_backend/platform/sanitize"
)

// NewLead is the canonical lead-creation record derived from an inbound payload.
type NewLead struct {
	BusinessName     string
	Address          string
	Website          string
	Phone            string
	Email            string
	Industry         string
	Description      string
	PainPoint        string
	SuggestedMessage string
	Stage            string
	Status           string
	LastActionAt     time.Time
	RawData          map[string]any
}

// MissingFieldError names a required payload field that could not be resolved.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string { return e.Field + ": required" }

// Candidate paths per field, in resolution order: nested object, flattened
// camelCase, flattened snake_case, raw top-level.
var (
	namePaths        = []string{"business.name", "lead.businessName", "lead.business_name", "businessName", "business_name", "name"}
	addressPaths     = []string{"business.address", "lead.address", "address"}
	websitePaths     = []string{"business.website", "lead.website", "website"}
	phonePaths       = []string{"business.phone", "lead.phone", "phone", "phoneNumber", "phone_number"}
	emailPaths       = []string{"business.email", "lead.email", "email"}
	industryPaths    = []string{"business.industry", "lead.industry", "business.category", "industry", "category"}
	descriptionPaths = []string{"business.description", "lead.description", "description"}
	painPointPaths   = []string{"lead.painPoint", "lead.pain_point", "painPoint", "pain_point"}
	suggestedPaths   = []string{"lead.suggestedMessage", "lead.suggested_message", "suggestedMessage", "suggested_message"}
)

// Normalize resolves an arbitrarily shaped payload into a NewLead. The only
// required field is the business name. The payload is kept verbatim as RawData.
func Normalize(payload map[string]any, now time.Time) (NewLead, error) {
	name := resolveClean(payload, namePaths, sanitize.Line)
	if name == "" {
		return NewLead{}, &MissingFieldError{Field: "business.name"}
	}

	raw := payload
	if raw == nil {
		raw = map[string]any{}
	}

	return NewLead{
		BusinessName:     name,
		Address:          resolve(payload, addressPaths),
		Website:          resolve(payload, websitePaths),
		Phone:            resolve(payload, phonePaths),
		Email:            resolve(payload, emailPaths),
		Industry:         resolve(payload, industryPaths),
		Description:      resolve(payload, descriptionPaths),
		PainPoint:        resolve(payload, painPointPaths),
		SuggestedMessage: resolve(payload, suggestedPaths),
		Stage:            PipelineStageNew,
		Status:           LeadStatusActive,
		LastActionAt:     now,
		RawData:          raw,
	}, nil
}

// resolve returns the first non-empty value found along paths.
func resolve(payload map[string]any, paths []string) string {
	return resolveClean(payload, paths, nil)
}

// resolveClean is resolve with each candidate passed through clean first, so
// a value that cleans to empty falls through to the next path.
func resolveClean(payload map[string]any, paths []string, clean func(string) string) string {
	for _, p := range paths {
		v := lookup(payload, p)
		if clean != nil {
			v = clean(v)
		}
		if v != "" {
			return v
		}
	}
	return ""
}

func lookup(payload map[string]any, path string) string {
	var cur any = payload
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return ""
		}
		cur, ok = obj[part]
		if !ok {
			return ""
		}
	}
	return scalarString(cur)
}

func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}
