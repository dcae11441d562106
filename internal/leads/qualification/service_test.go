package qualification

import (
	"context"
	"testing"
	"time"

	"sales_pipeline_backend/internal/leads/domain"
	"sales_pipeline_backend/internal/leads/repository"
	"sales_pipeline_backend/internal/leads/transport"
	"sales_pipeline_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryBag struct {
	leads  map[uuid.UUID]repository.Lead
	merges []repository.MergeRawDataParams
}

func (m *memoryBag) MergeRawData(_ context.Context, p repository.MergeRawDataParams) (repository.Lead, error) {
	lead, ok := m.leads[p.LeadID]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	raw := make(map[string]any, len(lead.RawData)+1)
	for k, v := range lead.RawData {
		raw[k] = v
	}
	raw[p.Key] = p.Value
	lead.RawData = raw
	m.leads[p.LeadID] = lead
	m.merges = append(m.merges, p)
	return lead, nil
}

func ptr(s string) *string { return &s }

func TestMergeBANTKeepsOtherKeys(t *testing.T) {
	id := uuid.New()
	bag := &memoryBag{leads: map[uuid.UUID]repository.Lead{
		id: {ID: id, BusinessName: "Acme", RawData: map[string]any{
			"source": "maps",
			"bant":   map[string]any{"budget": "old"},
		}},
	}}
	svc := New(bag)
	svc.now = func() time.Time { return time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC) }

	resp, err := svc.MergeBANT(context.Background(), id, transport.BANTRequest{
		Budget: ptr("$5k"),
		Need:   ptr("<b>Online booking</b>"),
	})
	require.NoError(t, err)

	assert.Equal(t, "maps", resp.RawData["source"])
	assert.Equal(t, map[string]any{"budget": "$5k", "need": "Online booking"}, resp.RawData[domain.BagKeyBANT])

	require.Len(t, bag.merges, 1)
	require.NotNil(t, bag.merges[0].Activity)
	assert.Equal(t, domain.ActionBANTUpdate, bag.merges[0].Activity.ActionType)
	assert.Equal(t, bag.merges[0].Value, bag.merges[0].Activity.Metadata)
}

func TestMergeBANTUnknownLead(t *testing.T) {
	svc := New(&memoryBag{leads: map[uuid.UUID]repository.Lead{}})

	_, err := svc.MergeBANT(context.Background(), uuid.New(), transport.BANTRequest{Budget: ptr("x")})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestMergeBANTRoundTripsBlankFields(t *testing.T) {
	id := uuid.New()
	bag := &memoryBag{leads: map[uuid.UUID]repository.Lead{id: {ID: id, RawData: map[string]any{}}}}
	svc := New(bag)

	resp, err := svc.MergeBANT(context.Background(), id, transport.BANTRequest{
		Budget:    ptr("$5k"),
		Authority: ptr(""),
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"budget": "$5k", "authority": ""}, resp.RawData[domain.BagKeyBANT])
}
