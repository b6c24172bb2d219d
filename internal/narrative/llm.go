package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"MorningRadar/internal/model"
)

// ErrMalformedReply is returned when the model answer holds no usable narrative.
var ErrMalformedReply = errors.New("malformed model reply")

// LLMClient calls a Gemini-style generateContent endpoint.
type LLMClient struct {
	BaseURL string
	Model   string
	APIKey  string
	Client  *http.Client
}

// NewLLMClient creates a client. The key is passed in, never read from globals.
func NewLLMClient(baseURL, model, apiKey string, client *http.Client) *LLMClient {
	return &LLMClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Model:   model,
		APIKey:  apiKey,
		Client:  client,
	}
}

type generateRequest struct {
	Contents         []content `json:"contents"`
	GenerationConfig struct {
		Temperature float64 `json:"temperature"`
	} `json:"generationConfig"`
}

type content struct {
	Parts []textPart `json:"parts"`
}

type textPart struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *LLMClient) Generate(ctx context.Context, in Context) (model.Narrative, error) {
	var reqBody generateRequest
	reqBody.Contents = []content{{Parts: []textPart{{Text: BuildPrompt(in)}}}}
	reqBody.GenerationConfig.Temperature = 0.4

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return model.Narrative{}, fmt.Errorf("encode request: %w", err)
	}

	u := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.BaseURL, url.PathEscape(c.Model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return model.Narrative{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.APIKey)

	resp, err := c.Client.Do(req)
	if err != nil {
		return model.Narrative{}, fmt.Errorf("llm request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Narrative{}, fmt.Errorf("llm read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return model.Narrative{}, fmt.Errorf("llm: status %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return model.Narrative{}, fmt.Errorf("llm decode: %w", err)
	}
	if out.Error != nil {
		return model.Narrative{}, fmt.Errorf("llm api error %d: %s", out.Error.Code, out.Error.Message)
	}
	if len(out.Candidates) == 0 {
		return model.Narrative{}, fmt.Errorf("%w: no candidates", ErrMalformedReply)
	}

	var text strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	return ParseReply(text.String())
}

// ParseReply pulls the first JSON object out of free text and checks it.
func ParseReply(text string) (model.Narrative, error) {
	obj, ok := extractJSON(text)
	if !ok {
		return model.Narrative{}, fmt.Errorf("%w: no JSON object", ErrMalformedReply)
	}
	var n model.Narrative
	if err := json.Unmarshal([]byte(obj), &n); err != nil {
		return model.Narrative{}, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	n.Headline = strings.TrimSpace(n.Headline)
	n.Action = strings.TrimSpace(n.Action)
	if n.Headline == "" || n.Action == "" {
		return model.Narrative{}, fmt.Errorf("%w: empty headline or action", ErrMalformedReply)
	}
	return n, nil
}

// extractJSON returns the first balanced {...} span, ignoring braces inside strings.
func extractJSON(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
