package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sozercan/codelens/internal/config"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *OpenAI {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	p, err := NewOpenAI(&config.OpenAIConfig{
		Provider:    "openai",
		APIKey:      "sk-test",
		APIEndpoint: ts.URL,
		Model:       "gpt-4o-mini",
	})
	require.NoError(t, err)
	return p
}

func TestNewOpenAIRequiresKey(t *testing.T) {
	_, err := NewOpenAI(&config.OpenAIConfig{Provider: "openai"})
	assert.Error(t, err)
}

func TestAnalyzeReturnsContent(t *testing.T) {
	var body map[string]interface{}
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), "unexpected path %s", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1,
  "model": "gpt-4o",
  "choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "- rename x"}}],
  "usage": {"prompt_tokens": 7, "completion_tokens": 3, "total_tokens": 10}
}`))
	})

	resp, err := p.Analyze(context.Background(), []string{"review this"}, []string{"x = 1"}, WithModel("gpt-4o"))
	require.NoError(t, err)

	assert.Equal(t, "- rename x", resp.Content)
	assert.Nil(t, resp.FunctionCall)
	assert.Equal(t, int64(10), resp.Usage.TotalTokens)
	assert.Equal(t, "gpt-4o", body["model"], "WithModel should override the configured model")

	messages, ok := body["messages"].([]interface{})
	require.True(t, ok)
	assert.Len(t, messages, 3, "base system prompt, extra system message, user message")
}

func TestAnalyzeReturnsFunctionCall(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "id": "chatcmpl-2",
  "object": "chat.completion",
  "created": 1,
  "model": "gpt-4o-mini",
  "choices": [{"index": 0, "finish_reason": "tool_calls", "message": {"role": "assistant", "content": "",
    "tool_calls": [{"id": "call_1", "type": "function", "function": {"name": "report_suggestions", "arguments": "{\"suggestions\":[\"a\"]}"}}]}}],
  "usage": {"prompt_tokens": 1, "completion_tokens": 1, "total_tokens": 2}
}`))
	})

	tool := openai.ChatCompletionToolParam{
		Type: openai.F(openai.ChatCompletionToolTypeFunction),
		Function: openai.F(openai.FunctionDefinitionParam{
			Name: openai.String("report_suggestions"),
		}),
	}
	resp, err := p.Analyze(context.Background(), nil, []string{"code"}, WithTools(tool))
	require.NoError(t, err)
	require.NotNil(t, resp.FunctionCall)
	assert.Equal(t, "report_suggestions", resp.FunctionCall.Name)
	assert.JSONEq(t, `{"suggestions":["a"]}`, resp.FunctionCall.Arguments)
}

func TestWithModelIgnoresEmpty(t *testing.T) {
	o := &Options{Model: "gpt-4o-mini"}
	WithModel("")(o)
	assert.Equal(t, "gpt-4o-mini", o.Model)
}
