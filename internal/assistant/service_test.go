package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sales_pipeline_backend/internal/adapters/storage"
	leadsrepo "sales_pipeline_backend/internal/leads/repository"
	"sales_pipeline_backend/platform/apperr"
	"sales_pipeline_backend/platform/logger"
	"sales_pipeline_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedGenerator struct {
	reply   string
	err     error
	prompts []string
}

func (g *scriptedGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	return g.reply, g.err
}

type memoryLeads struct {
	leads  map[uuid.UUID]leadsrepo.Lead
	merges []leadsrepo.MergeRawDataParams
}

func newMemoryLeads(leads ...leadsrepo.Lead) *memoryLeads {
	m := &memoryLeads{leads: make(map[uuid.UUID]leadsrepo.Lead)}
	for _, l := range leads {
		m.leads[l.ID] = l
	}
	return m
}

func (m *memoryLeads) GetByID(_ context.Context, id uuid.UUID) (leadsrepo.Lead, error) {
	lead, ok := m.leads[id]
	if !ok {
		return leadsrepo.Lead{}, leadsrepo.ErrNotFound
	}
	return lead, nil
}

func (m *memoryLeads) Update(_ context.Context, id uuid.UUID, params leadsrepo.UpdateLeadParams) (leadsrepo.Lead, error) {
	lead, ok := m.leads[id]
	if !ok {
		return leadsrepo.Lead{}, leadsrepo.ErrNotFound
	}
	if params.SuggestedMessage != nil {
		lead.SuggestedMessage = *params.SuggestedMessage
	}
	m.leads[id] = lead
	return lead, nil
}

func (m *memoryLeads) MergeRawData(_ context.Context, params leadsrepo.MergeRawDataParams) (leadsrepo.Lead, error) {
	lead, ok := m.leads[params.LeadID]
	if !ok {
		return leadsrepo.Lead{}, leadsrepo.ErrNotFound
	}
	m.merges = append(m.merges, params)
	if lead.RawData == nil {
		lead.RawData = map[string]any{}
	}
	lead.RawData[params.Key] = params.Value
	m.leads[params.LeadID] = lead
	return lead, nil
}

type recordingNotifier struct {
	sent []Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n Notification) error {
	r.sent = append(r.sent, n)
	return nil
}

type memoryStorage struct {
	objects map[string]string
}

func (m *memoryStorage) UploadFile(_ context.Context, bucket, folder, fileName, _ string, reader io.Reader, _ int64) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	key := storage.ObjectKey(folder, fileName, uuid.New())
	m.objects[bucket+"/"+key] = string(data)
	return key, nil
}

func (m *memoryStorage) GenerateDownloadURL(_ context.Context, bucket, fileKey string) (*storage.PresignedURL, error) {
	return &storage.PresignedURL{URL: "https://files.example.com/" + bucket + "/" + fileKey, FileKey: fileKey, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (m *memoryStorage) EnsureBucketExists(context.Context, string) error { return nil }

type fixture struct {
	svc      *Service
	gen      *scriptedGenerator
	leads    *memoryLeads
	notifier *recordingNotifier
	lead     leadsrepo.Lead
}

func newFixture(t *testing.T, archive DocumentArchive) *fixture {
	t.Helper()
	prompts, err := LoadPrompts()
	require.NoError(t, err)

	lead := leadsrepo.Lead{ID: uuid.New(), BusinessName: "Acme Bakery", Industry: "Food", PainPoint: "Manual orders"}
	f := &fixture{
		gen:      &scriptedGenerator{},
		leads:    newMemoryLeads(lead),
		notifier: &recordingNotifier{},
		lead:     lead,
	}
	f.svc = NewService(f.gen, prompts, f.leads, f.notifier, archive, "https://crm.example.com/", logger.Nop())
	return f
}

func TestOutreachStoresSuggestedMessage(t *testing.T) {
	f := newFixture(t, nil)
	f.gen.reply = "  Hi Acme, let's fix your order flow.  "

	resp, err := f.svc.Outreach(context.Background(), f.lead.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hi Acme, let's fix your order flow.", resp.Message)
	assert.Equal(t, resp.Message, f.leads.leads[f.lead.ID].SuggestedMessage)
	require.Len(t, f.gen.prompts, 1)
	assert.Contains(t, f.gen.prompts[0], "Business: Acme Bakery")
	assert.Contains(t, f.gen.prompts[0], "Description: N/A")
}

func TestOutreachGenerationFailureIsExternal(t *testing.T) {
	f := newFixture(t, nil)
	f.gen.err = errors.New("quota exceeded")

	_, err := f.svc.Outreach(context.Background(), f.lead.ID)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindExternal))
	assert.Empty(t, f.leads.leads[f.lead.ID].SuggestedMessage)
}

func TestUnknownLeadIsNotFound(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.svc.Outreach(context.Background(), uuid.New())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Empty(t, f.gen.prompts)
}

func TestQuestionsFallBackOnGarbage(t *testing.T) {
	f := newFixture(t, nil)
	f.gen.reply = "I'm not able to produce JSON today."

	resp, err := f.svc.Questions(context.Background(), f.lead.ID)
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, resp.Source)
	assert.Len(t, resp.Questions, 15)
}

func TestQuestionsFallBackWithoutGenerator(t *testing.T) {
	prompts, err := LoadPrompts()
	require.NoError(t, err)
	lead := leadsrepo.Lead{ID: uuid.New(), BusinessName: "Acme"}
	svc := NewService(nil, prompts, newMemoryLeads(lead), &recordingNotifier{}, nil, "", logger.Nop())

	resp, err := svc.Questions(context.Background(), lead.ID)
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, resp.Source)
	assert.Equal(t, FallbackQuestions, resp.Questions)
}

func TestAnalysisRecoversRawNewlines(t *testing.T) {
	f := newFixture(t, nil)
	f.gen.reply = "```json\n{\"budget_estimate\":\"$1,250 USD\",\"tech_stack\":[\"Go\",\"Redis\"],\"dev_translation\":\"Ingest orders.\nNormalize them.\"}\n```"

	resp, err := f.svc.Analyze(context.Background(), f.lead.ID)
	require.NoError(t, err)
	assert.Equal(t, SourceModel, resp.Source)
	assert.Equal(t, "$1,250 USD", resp.Analysis.BudgetEstimate)
	assert.Equal(t, "Ingest orders.\nNormalize them.", resp.Analysis.DevTranslation)
}

func TestDocumentArchivesAndNotifies(t *testing.T) {
	store := &memoryStorage{objects: map[string]string{}}
	f := newFixture(t, NewArchive(store, "sales-documents"))
	f.gen.reply = "SERVICE AGREEMENT\n\nScope..."

	resp, err := f.svc.Document(context.Background(), f.lead.ID, DocContract)
	require.NoError(t, err)
	assert.Equal(t, DocContract, resp.DocType)
	assert.Equal(t, "SERVICE AGREEMENT\n\nScope...", resp.Document)
	require.NotNil(t, resp.Download)
	assert.Contains(t, resp.Download.URL, "sales-documents/documents/"+f.lead.ID.String())
	assert.Len(t, store.objects, 1)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "success", f.notifier.sent[0].Type)
	assert.Equal(t, "Document Ready", f.notifier.sent[0].Title)
	assert.Contains(t, f.gen.prompts[0], "SERVICE AGREEMENT")
}

func TestDocumentDefaultsToProposal(t *testing.T) {
	f := newFixture(t, nil)
	f.gen.reply = "PROPOSAL"

	resp, err := f.svc.Document(context.Background(), f.lead.ID, "")
	require.NoError(t, err)
	assert.Equal(t, DocProposal, resp.DocType)
	assert.Nil(t, resp.Download)
}

func TestDeckMergesIntoExtensionBag(t *testing.T) {
	f := newFixture(t, nil)
	f.gen.reply = `{"hook":"Bake more, type less","slides":[{"title":"A","subtitle":"a"},{"title":"B","subtitle":"b"},{"title":"C","subtitle":"c"}]}`

	resp, err := f.svc.Deck(context.Background(), f.lead.ID)
	require.NoError(t, err)
	assert.Equal(t, SourceModel, resp.Source)
	require.Len(t, f.leads.merges, 1)
	assert.Equal(t, "presentation_data", f.leads.merges[0].Key)
	assert.Equal(t, resp.Deck, f.leads.merges[0].Value)
}

func TestDeckFallbackIsNotStored(t *testing.T) {
	f := newFixture(t, nil)
	f.gen.reply = "not json"

	resp, err := f.svc.Deck(context.Background(), f.lead.ID)
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, resp.Source)
	assert.Equal(t, FallbackDeck, resp.Deck)
	assert.Empty(t, f.leads.merges)
}

func TestPresentationQRIsPNG(t *testing.T) {
	f := newFixture(t, nil)
	data, err := f.svc.PresentationQR(context.Background(), f.lead.ID)
	require.NoError(t, err)

	_, err = png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "https://crm.example.com/leads/"+f.lead.ID.String()+"/presentation", f.svc.PresentationURL(f.lead.ID))
}

func TestHandlerRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	f := newFixture(t, nil)
	f.gen.reply = "DRAFT"
	r := gin.New()
	NewHandler(f.svc, validator.New()).RegisterRoutes(r.Group("/leads/:id"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/leads/not-a-uuid/ai/outreach", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/leads/"+f.lead.ID.String()+"/ai/documents", strings.NewReader(`{"docType":"poem"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/leads/"+f.lead.ID.String()+"/ai/documents", strings.NewReader(`{"docType":"audit"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var doc DocumentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, DocAudit, doc.DocType)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leads/"+f.lead.ID.String()+"/presentation/qr", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
}
