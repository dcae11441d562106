package domain

// Lead statuses. Status records engagement state and is independent of the
// pipeline stage; only ClosedWon writes both.
const (
	LeadStatusActive    = "Active"
	LeadStatusContacted = "Contacted"
	LeadStatusWon       = "Won"
	LeadStatusArchived  = "Archived"
)

// StatusAfterContact returns the status a lead carries after a qualifying
// contact. Won leads and leads in a terminal stage keep their status.
func StatusAfterContact(stage, status string) string {
	if status == LeadStatusWon || IsTerminalPipelineStage(stage) {
		return status
	}
	return LeadStatusContacted
}
