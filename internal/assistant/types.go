package assistant

import (
	"sales_pipeline_backend/internal/adapters/storage"
)

// DocType names a generated sales document.
type DocType string

const (
	DocOnboarding  DocType = "onboarding"
	DocProposal    DocType = "proposal"
	DocAudit       DocType = "audit"
	DocContract    DocType = "contract"
	DocMeetingPlan DocType = "meeting_plan"
)

// DocTypes lists every supported document type.
var DocTypes = []DocType{DocOnboarding, DocProposal, DocAudit, DocContract, DocMeetingPlan}

// Source reports whether a result came from the model or a canned fallback.
type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
)

// PromptData is the lead context prompts are rendered with. Empty fields
// are replaced with neutral placeholders before rendering.
type PromptData struct {
	BusinessName string
	Industry     string
	PainPoint    string
	Description  string
	Address      string
	Phone        string
	ContactName  string
	Brief        string
}

// Notification is what the assistant raises through the notifier.
type Notification struct {
	Type    string
	Title   string
	Message string
	Link    string
}

// Analysis is the technical breakdown of a lead's pain point.
type Analysis struct {
	BudgetEstimate string   `json:"budget_estimate"`
	TechStack      []string `json:"tech_stack"`
	DevTranslation string   `json:"dev_translation"`
}

// Slide is one generated deck slide.
type Slide struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

// Deck is the presentation stored under raw_data.presentation_data.
type Deck struct {
	Hook   string  `json:"hook"`
	Slides []Slide `json:"slides"`
}

type OutreachResponse struct {
	Message string `json:"message"`
}

type QuestionsResponse struct {
	Questions []string `json:"questions"`
	Source    Source   `json:"source"`
}

type AnalysisResponse struct {
	Analysis Analysis `json:"analysis"`
	Source   Source   `json:"source"`
}

type DocumentRequest struct {
	DocType DocType `json:"docType" validate:"omitempty,oneof=onboarding proposal audit contract meeting_plan"`
}

type DocumentResponse struct {
	DocType  DocType               `json:"docType"`
	Document string                `json:"document"`
	Download *storage.PresignedURL `json:"download,omitempty"`
}

type DeckResponse struct {
	Deck   Deck   `json:"deck"`
	Source Source `json:"source"`
}
