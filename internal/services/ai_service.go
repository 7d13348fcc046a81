package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrAINotConfigured is returned before any request is made when the AI
// collaborator's credentials are missing.
var ErrAINotConfigured = errors.New("AI settings are not configured")

// AIService talks to an OpenAI compatible chat completion API.
type AIService struct {
	Client *http.Client
}

func NewAIService() *AIService {
	return &AIService{
		Client: &http.Client{Timeout: 120 * time.Second},
	}
}

type openAIRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []choice `json:"choices"`
}

type choice struct {
	Message message `json:"message"`
}

// Summarize asks the model for a concise summary of the post content. The
// error from a failed upstream call is surfaced verbatim; there is no retry.
func (s *AIService) Summarize(content, baseURL, token, model string) (string, error) {
	if baseURL == "" || token == "" || model == "" {
		return "", ErrAINotConfigured
	}

	prompt := fmt.Sprintf("You are an expert blog post summarizer. Write a concise, informative summary of the following post that captures its main points and key arguments, so readers can decide whether to read the full version. Prioritize meaning over length and return only the summary itself, with no preamble. Post content:\n\n%s", content)

	reqBody := openAIRequest{
		Model: model,
		Messages: []message{
			{Role: "user", Content: prompt},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequest("POST", baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request to AI API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("AI API returned non-200 status code %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var apiResp openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", fmt.Errorf("failed to decode AI API response: %w", err)
	}

	if len(apiResp.Choices) == 0 || apiResp.Choices[0].Message.Content == "" {
		return "", errors.New("AI API returned no choices or an empty message")
	}

	return apiResp.Choices[0].Message.Content, nil
}
