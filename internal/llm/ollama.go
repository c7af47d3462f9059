package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"roadmate/backend/internal/model"
)

type ollamaProvider struct {
	client       *http.Client
	url          string
	model        string
	systemPrompt string
}

func NewOllamaProvider(url, modelName, systemPrompt string) CompletionProvider {
	return &ollamaProvider{
		client:       &http.Client{},
		url:          strings.TrimRight(url, "/"),
		model:        modelName,
		systemPrompt: systemPrompt,
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Model   string      `json:"model"`
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
}

func (p *ollamaProvider) Complete(ctx context.Context, history []Turn, prompt string) (string, error) {
	messages := make([]chatMessage, 0, len(history)+2)
	if p.systemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: p.systemPrompt})
	}
	for _, t := range history {
		messages = append(messages, chatMessage{Role: ollamaRole(t.Role), Content: t.Text})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt})

	body, err := json.Marshal(&chatRequest{Model: p.model, Messages: messages, Stream: false})
	if err != nil {
		return "", &ProviderError{Kind: KindUnknown, Err: fmt.Errorf("could not marshal request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url+"/api/chat", bytes.NewBuffer(body))
	if err != nil {
		return "", &ProviderError{Kind: KindUnknown, Err: fmt.Errorf("could not create http request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", &ProviderError{Kind: KindNetwork, Err: fmt.Errorf("http request failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", &ProviderError{
			Kind: kindForStatus(resp.StatusCode),
			Err:  fmt.Errorf("api returned non-200 status %d: %s", resp.StatusCode, string(bodyBytes)),
		}
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", &ProviderError{Kind: KindUnknown, Err: fmt.Errorf("could not decode response: %w", err)}
	}
	if strings.TrimSpace(chatResp.Message.Content) == "" {
		return "", &ProviderError{Kind: KindUnknown, Err: ErrEmptyReply}
	}
	return chatResp.Message.Content, nil
}

func ollamaRole(role string) string {
	if role == model.RoleModel {
		return "assistant"
	}
	return "user"
}
