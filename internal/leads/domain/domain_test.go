package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func TestNormalizeResolvesNameFromEveryShape(t *testing.T) {
	shapes := map[string]map[string]any{
		"nested business": {"business": map[string]any{"name": "Acme Co"}},
		"nested lead":     {"lead": map[string]any{"businessName": "Acme Co"}},
		"flattened camel": {"businessName": "Acme Co"},
		"flattened snake": {"business_name": "Acme Co"},
		"raw top level":   {"name": "Acme Co"},
	}

	for name, payload := range shapes {
		t.Run(name, func(t *testing.T) {
			lead, err := Normalize(payload, fixedNow)
			require.NoError(t, err)
			assert.Equal(t, "Acme Co", lead.BusinessName)
			assert.Equal(t, PipelineStageNew, lead.Stage)
			assert.Equal(t, LeadStatusActive, lead.Status)
			assert.Equal(t, fixedNow, lead.LastActionAt)
			assert.Equal(t, payload, lead.RawData)
		})
	}
}

func TestNormalizeNestedWinsOverFlattened(t *testing.T) {
	lead, err := Normalize(map[string]any{
		"business":      map[string]any{"name": "Nested"},
		"business_name": "Flat",
	}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "Nested", lead.BusinessName)
}

func TestNormalizeSkipsBlankValues(t *testing.T) {
	lead, err := Normalize(map[string]any{
		"business":     map[string]any{"name": "   "},
		"businessName": "Fallback Ltd",
	}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "Fallback Ltd", lead.BusinessName)
}

func TestNormalizeSkipsNamesBlankAfterSanitizing(t *testing.T) {
	_, err := Normalize(map[string]any{"business": map[string]any{"name": "<b></b>"}}, fixedNow)
	var missing *MissingFieldError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "business.name", missing.Field)

	lead, err := Normalize(map[string]any{
		"business":      map[string]any{"name": "<b> </b>"},
		"business_name": "<i>Acme Co</i>",
	}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "Acme Co", lead.BusinessName)
}

func TestNormalizeIngestScenario(t *testing.T) {
	lead, err := Normalize(map[string]any{
		"business": map[string]any{"name": "Acme Co"},
		"lead":     map[string]any{"painPoint": "slow onboarding"},
	}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "Acme Co", lead.BusinessName)
	assert.Equal(t, "slow onboarding", lead.PainPoint)
	assert.Equal(t, PipelineStageNew, lead.Stage)
}

func TestNormalizeMissingName(t *testing.T) {
	payloads := []map[string]any{
		nil,
		{},
		{"business": map[string]any{"email": "a@b.co"}, "industry": "Retail"},
		{"business": "not an object"},
	}
	for _, p := range payloads {
		_, err := Normalize(p, fixedNow)
		var missing *MissingFieldError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, "business.name", missing.Field)
	}
}

func TestNormalizeIndustryFallbacks(t *testing.T) {
	lead, err := Normalize(map[string]any{"name": "X", "business": map[string]any{"category": "Dental"}}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "Dental", lead.Industry)

	lead, err = Normalize(map[string]any{"name": "X", "phone": float64(2637712345)}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "2637712345", lead.Phone)
}

func TestPlanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     TransitionKind
		wantErr  bool
	}{
		{PipelineStageNew, PipelineStageEngaged, TransitionMove, false},
		{PipelineStageEngaged, PipelineStageNew, TransitionMove, false},
		{PipelineStageEngaged, PipelineStageClosedWon, TransitionWin, false},
		{PipelineStageScheduled, PipelineStageClosedLost, TransitionTerminate, false},
		{PipelineStageEngaged, PipelineStageEngaged, TransitionNoop, false},
		{PipelineStageClosedWon, PipelineStageClosedWon, TransitionNoop, false},
		{PipelineStageClosedWon, PipelineStageEngaged, TransitionNoop, true},
		{PipelineStageNew, "Negotiation", TransitionNoop, true},
	}
	for _, tc := range cases {
		got, err := PlanTransition(tc.from, tc.to)
		if tc.wantErr {
			assert.Error(t, err, "%s -> %s", tc.from, tc.to)
			continue
		}
		require.NoError(t, err, "%s -> %s", tc.from, tc.to)
		assert.Equal(t, tc.want, got, "%s -> %s", tc.from, tc.to)
	}
}

func TestStatusAfterContact(t *testing.T) {
	cases := []struct {
		stage, status, want string
	}{
		{PipelineStageNew, LeadStatusActive, LeadStatusContacted},
		{PipelineStageEngaged, LeadStatusContacted, LeadStatusContacted},
		{PipelineStageScheduled, LeadStatusArchived, LeadStatusContacted},
		{PipelineStageClosedWon, LeadStatusWon, LeadStatusWon},
		{PipelineStageEngaged, LeadStatusWon, LeadStatusWon},
		{PipelineStageClosedWon, LeadStatusActive, LeadStatusActive},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusAfterContact(tc.stage, tc.status), "%s/%s", tc.stage, tc.status)
	}
}

func TestIsQualifyingContact(t *testing.T) {
	for _, a := range []string{"call", "Call", "EMAIL", " email "} {
		assert.True(t, IsQualifyingContact(a), a)
	}
	for _, a := range []string{"meeting", "note", "", "calls"} {
		assert.False(t, IsQualifyingContact(a), a)
	}
}

func TestMergeSectionPreservesOtherKeys(t *testing.T) {
	bag := map[string]any{"presentation_data": map[string]any{"hook": "x"}}

	budget := "$5k"
	got := MergeSection(bag, BagKeyBANT, BANT{Budget: &budget}.AsMap())

	assert.Equal(t, map[string]any{
		"presentation_data": map[string]any{"hook": "x"},
		"bant":              map[string]any{"budget": "$5k"},
	}, got)
	assert.NotContains(t, bag, "bant")
}

func TestMergeSectionReplacesWholesale(t *testing.T) {
	bag := map[string]any{"bant": map[string]any{"budget": "$1k", "need": "CRM"}}

	got := MergeSection(bag, BagKeyBANT, map[string]any{"timing": "Q3"})

	assert.Equal(t, map[string]any{"timing": "Q3"}, got["bant"])
}

func TestMergeSectionNilBag(t *testing.T) {
	got := MergeSection(nil, BagKeyBANT, map[string]any{"budget": "$5k"})
	assert.Equal(t, map[string]any{"bant": map[string]any{"budget": "$5k"}}, got)
}

func TestBANTAsMapKeepsSubmittedBlankFields(t *testing.T) {
	budget, authority := "$5k", ""

	got := BANT{Budget: &budget, Authority: &authority}.AsMap()

	assert.Equal(t, map[string]any{"budget": "$5k", "authority": ""}, got)
}
