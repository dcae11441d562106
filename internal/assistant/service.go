// Package assistant generates outreach copy, qualification questions,
// analyses, sales documents and presentation decks for a lead.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"sales_pipeline_backend/internal/adapters/storage"
	leadsrepo "sales_pipeline_backend/internal/leads/repository"
	"sales_pipeline_backend/platform/apperr"
	"sales_pipeline_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

const (
	presentationKey = "presentation_data"
	qrSize          = 256
	documentsFolder = "documents"
)

// TextGenerator produces text for a single prompt.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// LeadStore is the lead persistence the assistant reads and writes.
type LeadStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (leadsrepo.Lead, error)
	Update(ctx context.Context, id uuid.UUID, params leadsrepo.UpdateLeadParams) (leadsrepo.Lead, error)
	MergeRawData(ctx context.Context, params leadsrepo.MergeRawDataParams) (leadsrepo.Lead, error)
}

// Notifier raises in-app notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Archive stores documents in one bucket.
type Archive struct {
	store  storage.StorageService
	bucket string
}

func NewArchive(store storage.StorageService, bucket string) *Archive {
	return &Archive{store: store, bucket: bucket}
}

func (a *Archive) Store(ctx context.Context, leadID uuid.UUID, docType DocType, content string) (*storage.PresignedURL, error) {
	reader := strings.NewReader(content)
	fileName := fmt.Sprintf("%s.txt", docType)
	key, err := a.store.UploadFile(ctx, a.bucket, documentsFolder+"/"+leadID.String(), fileName, "text/plain; charset=utf-8", reader, reader.Size())
	if err != nil {
		return nil, err
	}
	return a.store.GenerateDownloadURL(ctx, a.bucket, key)
}

// DocumentArchive keeps a copy of generated documents.
type DocumentArchive interface {
	Store(ctx context.Context, leadID uuid.UUID, docType DocType, content string) (*storage.PresignedURL, error)
}

// Service runs the assistant operations.
type Service struct {
	gen      TextGenerator
	prompts  *Prompts
	leads    LeadStore
	notifier Notifier
	archive  DocumentArchive
	baseURL  string
	log      *logger.Logger
	now      func() time.Time
}

// NewService builds the assistant. gen and archive may be nil when the
// generator or object storage is not configured.
func NewService(gen TextGenerator, prompts *Prompts, leads LeadStore, notifier Notifier, archive DocumentArchive, baseURL string, log *logger.Logger) *Service {
	return &Service{
		gen:      gen,
		prompts:  prompts,
		leads:    leads,
		notifier: notifier,
		archive:  archive,
		baseURL:  strings.TrimRight(baseURL, "/"),
		log:      log,
		now:      time.Now,
	}
}

var errGeneratorDisabled = errors.New("text generation is not configured")

func (s *Service) generate(ctx context.Context, op, prompt string) (string, error) {
	if s.gen == nil {
		return "", apperr.External("generation failed", errGeneratorDisabled).WithOp(op)
	}
	text, err := s.gen.GenerateText(ctx, prompt)
	if err != nil {
		s.log.WithContext(ctx).ExternalServiceError("gemini", op, err)
		return "", apperr.External("generation failed", err).WithOp(op)
	}
	return text, nil
}

func (s *Service) loadLead(ctx context.Context, op string, id uuid.UUID) (leadsrepo.Lead, error) {
	lead, err := s.leads.GetByID(ctx, id)
	if errors.Is(err, leadsrepo.ErrNotFound) {
		return leadsrepo.Lead{}, apperr.NotFound("lead not found")
	}
	if err != nil {
		return leadsrepo.Lead{}, apperr.Storage(op, err)
	}
	return lead, nil
}

func (s *Service) render(op, name string, lead leadsrepo.Lead) (string, error) {
	prompt, err := s.prompts.Render(name, promptData(lead))
	if err != nil {
		return "", apperr.Wrap(apperr.KindInternal, "prompt rendering failed", err).WithOp(op)
	}
	return prompt, nil
}

// Outreach writes a short outreach message and stores it as the lead's
// suggested message.
func (s *Service) Outreach(ctx context.Context, id uuid.UUID) (OutreachResponse, error) {
	const op = "assistant.outreach"
	lead, err := s.loadLead(ctx, op, id)
	if err != nil {
		return OutreachResponse{}, err
	}
	prompt, err := s.render(op, promptOutreach, lead)
	if err != nil {
		return OutreachResponse{}, err
	}
	text, err := s.generate(ctx, op, prompt)
	if err != nil {
		return OutreachResponse{}, err
	}

	message := strings.TrimSpace(text)
	if _, err := s.leads.Update(ctx, id, leadsrepo.UpdateLeadParams{SuggestedMessage: &message}); err != nil {
		return OutreachResponse{}, apperr.Storage(op, err)
	}
	return OutreachResponse{Message: message}, nil
}

// Questions produces BANT qualification questions, falling back to a
// canned list when generation or parsing fails.
func (s *Service) Questions(ctx context.Context, id uuid.UUID) (QuestionsResponse, error) {
	const op = "assistant.questions"
	lead, err := s.loadLead(ctx, op, id)
	if err != nil {
		return QuestionsResponse{}, err
	}
	prompt, err := s.render(op, promptQuestions, lead)
	if err != nil {
		return QuestionsResponse{}, err
	}

	text, err := s.generate(ctx, op, prompt)
	if err != nil {
		return QuestionsResponse{Questions: cloneQuestions(), Source: SourceFallback}, nil
	}
	questions, stage, err := parseOrFallback(text, cloneQuestions())
	if err == nil && len(questions) == 0 {
		questions, stage = cloneQuestions(), StageFallback
	}
	s.logParse(ctx, op, stage, err)
	return QuestionsResponse{Questions: questions, Source: sourceOf(stage)}, nil
}

// Analyze produces a budget estimate, tech stack and engineering framing.
func (s *Service) Analyze(ctx context.Context, id uuid.UUID) (AnalysisResponse, error) {
	const op = "assistant.analysis"
	lead, err := s.loadLead(ctx, op, id)
	if err != nil {
		return AnalysisResponse{}, err
	}
	prompt, err := s.render(op, promptAnalysis, lead)
	if err != nil {
		return AnalysisResponse{}, err
	}

	text, err := s.generate(ctx, op, prompt)
	if err != nil {
		return AnalysisResponse{Analysis: FallbackAnalysis, Source: SourceFallback}, nil
	}
	analysis, stage, err := parseOrFallback(text, FallbackAnalysis)
	s.logParse(ctx, op, stage, err)
	return AnalysisResponse{Analysis: analysis, Source: sourceOf(stage)}, nil
}

// Document drafts a plain-text sales document and announces it. When an
// archive is configured the text is stored and a download link returned.
func (s *Service) Document(ctx context.Context, id uuid.UUID, docType DocType) (DocumentResponse, error) {
	const op = "assistant.document"
	if docType == "" {
		docType = DocProposal
	}
	lead, err := s.loadLead(ctx, op, id)
	if err != nil {
		return DocumentResponse{}, err
	}
	prompt, err := s.prompts.RenderDocument(docType, promptData(lead))
	if err != nil {
		return DocumentResponse{}, apperr.ValidationFields("validation failed",
			apperr.FieldError{Field: "docType", Message: "must be one of: onboarding proposal audit contract meeting_plan"})
	}
	text, err := s.generate(ctx, op, prompt)
	if err != nil {
		return DocumentResponse{}, err
	}

	resp := DocumentResponse{DocType: docType, Document: strings.TrimSpace(text)}
	if s.archive != nil {
		download, err := s.archive.Store(ctx, id, docType, resp.Document)
		if err != nil {
			s.log.WithContext(ctx).ExternalServiceError("minio", op, err)
		} else {
			resp.Download = download
		}
	}

	if err := s.notifier.Notify(ctx, Notification{
		Type:    "success",
		Title:   "Document Ready",
		Message: fmt.Sprintf("Your %s for %s is ready.", documentLabel(docType), lead.BusinessName),
		Link:    fmt.Sprintf("/leads/%s/onboarding", id),
	}); err != nil {
		s.log.WithContext(ctx).Warn("document notification failed", slog.String("error", err.Error()))
	}
	return resp, nil
}

// Deck builds the three-slide presentation and merges it into the lead's
// extension bag. Fallback decks are returned but not stored so a later
// call can still produce a generated one.
func (s *Service) Deck(ctx context.Context, id uuid.UUID) (DeckResponse, error) {
	const op = "assistant.deck"
	lead, err := s.loadLead(ctx, op, id)
	if err != nil {
		return DeckResponse{}, err
	}
	prompt, err := s.render(op, promptDeck, lead)
	if err != nil {
		return DeckResponse{}, err
	}

	text, err := s.generate(ctx, op, prompt)
	if err != nil {
		return DeckResponse{Deck: FallbackDeck, Source: SourceFallback}, nil
	}
	deck, stage, err := parseOrFallback(text, FallbackDeck)
	if err == nil && len(deck.Slides) == 0 {
		deck, stage = FallbackDeck, StageFallback
	}
	s.logParse(ctx, op, stage, err)
	if stage == StageFallback {
		return DeckResponse{Deck: deck, Source: SourceFallback}, nil
	}

	if _, err := s.leads.MergeRawData(ctx, leadsrepo.MergeRawDataParams{
		LeadID: id,
		Key:    presentationKey,
		Value:  deck,
		At:     s.now(),
	}); err != nil {
		if errors.Is(err, leadsrepo.ErrNotFound) {
			return DeckResponse{}, apperr.NotFound("lead not found")
		}
		return DeckResponse{}, apperr.Storage(op, err)
	}
	return DeckResponse{Deck: deck, Source: SourceModel}, nil
}

// PresentationQR encodes the lead's presentation link as a PNG.
func (s *Service) PresentationQR(ctx context.Context, id uuid.UUID) ([]byte, error) {
	const op = "assistant.qr"
	if _, err := s.loadLead(ctx, op, id); err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(s.PresentationURL(id), qrcode.Medium, qrSize)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "qr encoding failed", err).WithOp(op)
	}
	return png, nil
}

// PresentationURL is the public link to a lead's presentation page.
func (s *Service) PresentationURL(id uuid.UUID) string {
	return fmt.Sprintf("%s/leads/%s/presentation", s.baseURL, id)
}

func (s *Service) logParse(ctx context.Context, op string, stage ParseStage, err error) {
	log := s.log.WithContext(ctx)
	if err != nil {
		log.Warn("model output unparseable, using fallback",
			slog.String("operation", op),
			slog.String("error", err.Error()),
		)
		return
	}
	log.Debug("model output parsed", slog.String("operation", op), slog.String("stage", stage.String()))
}

func sourceOf(stage ParseStage) Source {
	if stage == StageFallback {
		return SourceFallback
	}
	return SourceModel
}

func documentLabel(docType DocType) string {
	return strings.ReplaceAll(string(docType), "_", " ")
}

func promptData(lead leadsrepo.Lead) PromptData {
	contact := ""
	if v, ok := lead.RawData["contact_name"].(string); ok {
		contact = v
	}
	return PromptData{
		BusinessName: orDefault(lead.BusinessName, "Valued Client"),
		Industry:     orDefault(lead.Industry, "General"),
		PainPoint:    orDefault(lead.PainPoint, "Operational Efficiency"),
		Description:  orDefault(lead.Description, "N/A"),
		Address:      orDefault(lead.Address, "Client Headquarters"),
		Phone:        orDefault(lead.Phone, "Not Provided"),
		ContactName:  orDefault(contact, "Sir/Madam"),
	}
}

// orDefault treats blank and the literal strings "undefined" and "null" as
// missing.
func orDefault(value, fallback string) string {
	v := strings.TrimSpace(value)
	if v == "" || v == "undefined" || v == "null" {
		return fallback
	}
	return v
}
