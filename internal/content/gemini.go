package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/verte-zerg/inkblade/internal/model"
)

const (
	defaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta"
	// DefaultGeminiModel is used when no model is configured.
	DefaultGeminiModel = "gemini-2.5-flash"
	defaultWordCount   = 15
)

// Gemini asks the Generative Language API for level content.
type Gemini struct {
	APIKey   string
	Model    string
	Endpoint string
	Client   *http.Client
}

// NewGemini returns a provider with the given key, model and request timeout.
func NewGemini(apiKey, modelName string, timeout time.Duration) *Gemini {
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Gemini{
		APIKey:   apiKey,
		Model:    modelName,
		Endpoint: defaultGeminiEndpoint,
		Client:   &http.Client{Timeout: timeout},
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		ResponseMimeType string `json:"responseMimeType"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

type generatedContent struct {
	Intro string   `json:"intro"`
	Words []string `json:"words"`
}

// Generate implements Provider.
func (g *Gemini) Generate(ctx context.Context, element model.Element, tier int) (Content, error) {
	if strings.TrimSpace(g.APIKey) == "" {
		return Content{}, fmt.Errorf("gemini api key is not set")
	}
	var body geminiRequest
	body.Contents = []geminiContent{{Parts: []geminiPart{{Text: buildPrompt(element, tier)}}}}
	body.GenerationConfig.ResponseMimeType = "application/json"
	payload, err := json.Marshal(body)
	if err != nil {
		return Content{}, fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := strings.TrimRight(g.Endpoint, "/") + "/models/" + url.PathEscape(g.Model) + ":generateContent"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return Content{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	// The key stays out of the URL so transport errors never carry it into the log.
	req.Header.Set("x-goog-api-key", g.APIKey)

	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Content{}, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return Content{}, fmt.Errorf("unexpected gemini status: %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	var decoded geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Content{}, fmt.Errorf("failed to decode gemini response: %w", err)
	}
	text := firstText(decoded)
	if text == "" {
		return Content{}, fmt.Errorf("empty response from gemini")
	}
	var generated generatedContent
	if err := json.Unmarshal([]byte(stripFence(text)), &generated); err != nil {
		return Content{}, fmt.Errorf("failed to decode generated content: %w", err)
	}
	return Content{Intro: strings.TrimSpace(generated.Intro), Words: generated.Words}, nil
}

func firstText(resp geminiResponse) string {
	for _, c := range resp.Candidates {
		for _, p := range c.Content.Parts {
			if t := strings.TrimSpace(p.Text); t != "" {
				return t
			}
		}
	}
	return ""
}

// stripFence removes a ```json fence some models wrap around JSON output.
func stripFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimPrefix(text, "json")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

func buildPrompt(element model.Element, tier int) string {
	return fmt.Sprintf(`You are a game master for a Chinese Wuxia typing game.
Current Level Element: %s.
Difficulty: %d (1 is simple 2-character words, 5 is complex 4-character idioms).

Task:
1. Generate a threatening intro sentence for a demon boss of this element (max 20 chars).
2. Generate %d Traditional Chinese words/idioms related to this element.
   - Difficulty 1: Common 2-char words.
   - Difficulty 3: 4-char idioms.
   - Difficulty 5: Rare/Complex 4-char idioms.

Output strictly in JSON format:
{
  "intro": "string",
  "words": ["string", "string", ...]
}`, element.Glyph(), tier, defaultWordCount)
}
