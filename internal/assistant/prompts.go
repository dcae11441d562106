package assistant

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var promptsYAML []byte

const (
	promptOutreach  = "outreach"
	promptQuestions = "questions"
	promptAnalysis  = "analysis"
	promptDocument  = "document"
	promptDeck      = "deck"
)

type promptFile struct {
	Outreach  string            `yaml:"outreach"`
	Questions string            `yaml:"questions"`
	Analysis  string            `yaml:"analysis"`
	Document  string            `yaml:"document"`
	Deck      string            `yaml:"deck"`
	Briefs    map[string]string `yaml:"briefs"`
}

// Prompts holds the parsed prompt templates.
type Prompts struct {
	templates map[string]*template.Template
	briefs    map[DocType]*template.Template
}

// LoadPrompts parses the embedded catalog.
func LoadPrompts() (*Prompts, error) {
	return parsePrompts(promptsYAML)
}

func parsePrompts(data []byte) (*Prompts, error) {
	var file promptFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse prompt catalog: %w", err)
	}

	p := &Prompts{
		templates: make(map[string]*template.Template),
		briefs:    make(map[DocType]*template.Template),
	}
	for name, text := range map[string]string{
		promptOutreach:  file.Outreach,
		promptQuestions: file.Questions,
		promptAnalysis:  file.Analysis,
		promptDocument:  file.Document,
		promptDeck:      file.Deck,
	} {
		if strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("prompt %q is empty", name)
		}
		tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("parse prompt %q: %w", name, err)
		}
		p.templates[name] = tmpl
	}

	for _, docType := range DocTypes {
		text, ok := file.Briefs[string(docType)]
		if !ok {
			return nil, fmt.Errorf("document brief %q is missing", docType)
		}
		tmpl, err := template.New(string(docType)).Parse(text)
		if err != nil {
			return nil, fmt.Errorf("parse document brief %q: %w", docType, err)
		}
		p.briefs[docType] = tmpl
	}

	return p, nil
}

// Render executes the named prompt with data.
func (p *Prompts) Render(name string, data PromptData) (string, error) {
	tmpl, ok := p.templates[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt %q", name)
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render prompt %q: %w", name, err)
	}
	return strings.TrimSpace(sb.String()), nil
}

// RenderDocument renders the document prompt with the brief for docType.
func (p *Prompts) RenderDocument(docType DocType, data PromptData) (string, error) {
	tmpl, ok := p.briefs[docType]
	if !ok {
		return "", fmt.Errorf("unknown document type %q", docType)
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render document brief %q: %w", docType, err)
	}
	data.Brief = strings.TrimSpace(sb.String())
	return p.Render(promptDocument, data)
}
