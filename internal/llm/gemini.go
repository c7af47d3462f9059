package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"roadmate/backend/internal/model"
)

type geminiProvider struct {
	client       *genai.Client
	model        string
	systemPrompt string
}

// NewGeminiProvider builds the Gemini client once; it is shared by every
// request for the lifetime of the process. baseURL is only set in tests.
func NewGeminiProvider(ctx context.Context, apiKey, modelName, systemPrompt, baseURL string) (CompletionProvider, error) {
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("could not create gemini client: %w", err)
	}
	return &geminiProvider{client: client, model: modelName, systemPrompt: systemPrompt}, nil
}

func (p *geminiProvider) Complete(ctx context.Context, history []Turn, prompt string) (string, error) {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, t := range history {
		contents = append(contents, genai.NewContentFromText(t.Text, geminiRole(t.Role)))
	}
	contents = append(contents, genai.NewContentFromText(prompt, genai.RoleUser))

	config := &genai.GenerateContentConfig{}
	if p.systemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(p.systemPrompt, genai.RoleUser)
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, config)
	if err != nil {
		return "", classifyGeminiError(err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", &ProviderError{Kind: KindUnknown, Err: ErrEmptyReply}
	}
	return text, nil
}

func geminiRole(role string) genai.Role {
	if role == model.RoleModel {
		return genai.RoleModel
	}
	return genai.RoleUser
}

// classifyGeminiError separates API rejections, which carry an HTTP status,
// from transport failures, which do not.
func classifyGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &ProviderError{Kind: kindForStatus(apiErr.Code), Err: err}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return &ProviderError{Kind: kindForStatus(apiErrPtr.Code), Err: err}
	}
	return &ProviderError{Kind: KindNetwork, Err: err}
}
