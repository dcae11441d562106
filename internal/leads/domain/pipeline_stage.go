package domain

const (
	PipelineStageNew        = "New"
	PipelineStageQualified  = "Qualified"
	PipelineStageContacted  = "Contacted"
	PipelineStageEngaged    = "Engaged"
	PipelineStageScheduled  = "Scheduled"
	PipelineStageClosedWon  = "ClosedWon"
	PipelineStageClosedLost = "ClosedLost"
)

// PipelineStages lists every stage in funnel order.
var PipelineStages = []string{
	PipelineStageNew,
	PipelineStageQualified,
	PipelineStageContacted,
	PipelineStageEngaged,
	PipelineStageScheduled,
	PipelineStageClosedWon,
	PipelineStageClosedLost,
}

var knownPipelineStages = func() map[string]struct{} {
	m := make(map[string]struct{}, len(PipelineStages))
	for _, s := range PipelineStages {
		m[s] = struct{}{}
	}
	return m
}()

// terminalPipelineStages are stages with no outgoing transitions.
var terminalPipelineStages = map[string]bool{
	PipelineStageClosedWon:  true,
	PipelineStageClosedLost: true,
}

func IsKnownPipelineStage(stage string) bool {
	_, ok := knownPipelineStages[stage]
	return ok
}

// IsTerminalPipelineStage returns true if the stage ends the workflow.
func IsTerminalPipelineStage(stage string) bool {
	return terminalPipelineStages[stage]
}
