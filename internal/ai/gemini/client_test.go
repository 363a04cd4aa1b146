package gemini

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

type fakeGenerator struct {
	response  *genai.GenerateContentResponse
	err       error
	lastModel string
	gotPrompt string
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.lastModel = model
	for _, content := range contents {
		for _, part := range content.Parts {
			if part != nil {
				f.gotPrompt += part.Text
			}
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

func textResponse(texts ...string) *genai.GenerateContentResponse {
	parts := make([]*genai.Part, 0, len(texts))
	for _, text := range texts {
		parts = append(parts, &genai.Part{Text: text})
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: parts}},
		},
	}
}

func newTestClient(fake *fakeGenerator) *Client {
	return &Client{
		models:    fake,
		modelName: "test-model",
		timeout:   time.Second,
		maxLogLen: defaultMaxLogLen,
		logger:    zap.NewNop(),
	}
}

func TestClientComplete(t *testing.T) {
	fake := &fakeGenerator{response: textResponse("hello world")}
	client := newTestClient(fake)

	out, err := client.Complete(context.Background(), "  say hello  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out != "hello world" {
		t.Fatalf("unexpected output: %q", out)
	}
	if fake.lastModel != "test-model" {
		t.Fatalf("unexpected model: %q", fake.lastModel)
	}
	if fake.gotPrompt != "say hello" {
		t.Fatalf("prompt was not trimmed: %q", fake.gotPrompt)
	}
}

func TestClientCompleteJoinsParts(t *testing.T) {
	fake := &fakeGenerator{response: textResponse("first", "  ", "second")}
	client := newTestClient(fake)

	out, err := client.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out != "first\nsecond" {
		t.Fatalf("unexpected joined output: %q", out)
	}
}

func TestClientCompleteRejectsEmptyPrompt(t *testing.T) {
	client := newTestClient(&fakeGenerator{response: textResponse("x")})

	if _, err := client.Complete(context.Background(), "   "); err == nil {
		t.Fatalf("expected an error for an empty prompt")
	}
}

func TestClientCompletePropagatesAPIError(t *testing.T) {
	fake := &fakeGenerator{err: errors.New("quota exceeded")}
	client := newTestClient(fake)

	_, err := client.Complete(context.Background(), "prompt")
	if err == nil {
		t.Fatalf("expected an error")
	}
	if !errors.Is(err, fake.err) {
		t.Fatalf("expected the api error to be wrapped, got %v", err)
	}
}

func TestClientCompleteEmptyResponse(t *testing.T) {
	fake := &fakeGenerator{response: &genai.GenerateContentResponse{}}
	client := newTestClient(fake)

	if _, err := client.Complete(context.Background(), "prompt"); err == nil {
		t.Fatalf("expected an error for an empty response")
	}
}

func TestClientModel(t *testing.T) {
	client := newTestClient(&fakeGenerator{})
	if client.Model() != "test-model" {
		t.Fatalf("unexpected model name: %q", client.Model())
	}

	var nilClient *Client
	if nilClient.Model() != "" {
		t.Fatalf("nil client should report an empty model")
	}
}

func TestFlattenCandidatesSkipsEmpty(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			nil,
			{Content: nil},
			{Content: &genai.Content{Parts: []*genai.Part{nil, {Text: "  kept  "}}}},
		},
	}

	if got := flattenCandidates(resp); got != "kept" {
		t.Fatalf("unexpected flattened output: %q", got)
	}

	if got := flattenCandidates(nil); got != "" {
		t.Fatalf("expected empty output for nil response, got %q", got)
	}
}
