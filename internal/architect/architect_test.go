package architect

import (
	"context"
	"errors"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChat struct {
	content string
	err     error
	noReply bool
	got     openai.ChatCompletionRequest
}

func (f *fakeChat) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.got = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	if f.noReply {
		return openai.ChatCompletionResponse{}, nil
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: f.content}},
		},
	}, nil
}

func TestGenerate(t *testing.T) {
	chat := &fakeChat{content: `{"name":"Todo App","files":[{"path":"src/app.js","content":"X"}]}`}
	c := NewClient(chat, "qwen", true)

	bp, err := c.Generate(context.Background(), "a todo app")
	require.NoError(t, err)
	assert.Equal(t, "Todo App", bp.Name)
	require.Len(t, bp.Files, 1)
	assert.Equal(t, "src/app.js", bp.Files[0].Path)

	assert.Equal(t, "qwen", chat.got.Model)
	require.Len(t, chat.got.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, chat.got.Messages[0].Role)
	assert.Contains(t, chat.got.Messages[1].Content, "a todo app")
	require.NotNil(t, chat.got.ResponseFormat)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, chat.got.ResponseFormat.Type)
}

func TestGeneratePassesCodeUntouched(t *testing.T) {
	chat := &fakeChat{content: `{"name":"A","files":[]}`}
	prompt := "wrap this:\nfunc main() {\n\tfmt.Println(\"hi\\n\")\n}"

	_, err := NewClient(chat, "m", true).Generate(context.Background(), prompt)
	require.NoError(t, err)
	assert.Equal(t, "Analyze the following input:\n\n"+prompt, chat.got.Messages[1].Content)
}

func TestGenerateWithoutJSONMode(t *testing.T) {
	chat := &fakeChat{content: `{"name":"A","files":[]}`}
	_, err := NewClient(chat, "m", false).Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Nil(t, chat.got.ResponseFormat)
}

func TestGenerateFailures(t *testing.T) {
	transport := errors.New("connection refused")
	_, err := NewClient(&fakeChat{err: transport}, "m", true).Generate(context.Background(), "p")
	assert.ErrorIs(t, err, transport)

	_, err = NewClient(&fakeChat{noReply: true}, "m", true).Generate(context.Background(), "p")
	assert.ErrorIs(t, err, ErrEmptyResponse)

	_, err = NewClient(&fakeChat{content: "   "}, "m", true).Generate(context.Background(), "p")
	assert.ErrorIs(t, err, ErrEmptyResponse)

	_, err = NewClient(&fakeChat{content: "{not json"}, "m", true).Generate(context.Background(), "p")
	assert.Error(t, err)

	_, err = NewClient(&fakeChat{content: `{"files":[]}`}, "m", true).Generate(context.Background(), "p")
	assert.Error(t, err)
}

func TestParseBlueprintToleratesNoise(t *testing.T) {
	raw := "<think>plan the tree</think>\nHere you go:\n```json\n{\n  // generated\n  \"name\": \" Shop \",\n  \"files\": [\n    {\"path\": \"index.html\", \"content\": \"<h1>hi</h1>\"},\n    {\"path\": \"  \", \"content\": \"lost\"},\n  ],\n}\n```\n"

	bp, err := ParseBlueprint(raw)
	require.NoError(t, err)
	assert.Equal(t, "Shop", bp.Name)
	require.Len(t, bp.Files, 1)
	assert.Equal(t, "<h1>hi</h1>", bp.Files[0].Content)
}

func TestParseBlueprintUnclosedThink(t *testing.T) {
	bp, err := ParseBlueprint(`reasoning...</think>{"name":"X","files":[{"path":"a","content":"b"}]}`)
	require.NoError(t, err)
	assert.Equal(t, "X", bp.Name)
}

func TestParseBlueprintSurroundingProse(t *testing.T) {
	bp, err := ParseBlueprint(`Sure! {"name":"Y","files":[]} Let me know.`)
	require.NoError(t, err)
	assert.Equal(t, "Y", bp.Name)
	assert.Empty(t, bp.Files)
}
