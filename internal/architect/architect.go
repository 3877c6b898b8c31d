// Package architect turns a free-form prompt into a project blueprint by
// asking an OpenAI-compatible model.
package architect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/tidwall/jsonc"

	"github.com/tara-vision/stackhat/internal/project"
)

// ErrEmptyResponse is returned when the model answers with nothing usable
var ErrEmptyResponse = errors.New("empty response from model")

// Blueprint is a generated project: a name and a flat file list
type Blueprint struct {
	Name  string             `json:"name"`
	Files []project.FileSpec `json:"files"`
}

// Collaborator produces blueprints from prompts
type Collaborator interface {
	Generate(ctx context.Context, prompt string) (*Blueprint, error)
}

// ChatCompleter is the part of *openai.Client the architect needs
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

const systemPrompt = `You are an expert application architect and code extractor.

TASK:
1. If the input contains raw code snippets, extract them exactly and choose appropriate file paths.
2. If the input is a description, architect a complete professional project structure.
3. If the input is a mix, keep the provided code and generate the supporting files (configs, scripts, tests) around it.

Organize files into a logical directory structure (src/, lib/, tests/, config/, ...).
Every file needs a relative "path" using forward slashes and full, functional "content".

Return ONLY a JSON object of the form:
{"name": "<professional project name>", "files": [{"path": "<relative path>", "content": "<file content>"}]}`

// Client is a Collaborator backed by a chat completion endpoint
type Client struct {
	chat     ChatCompleter
	model    string
	jsonMode bool
}

// NewClient creates a collaborator. jsonMode requests response_format
// json_object, which not every server honors.
func NewClient(chat ChatCompleter, model string, jsonMode bool) *Client {
	return &Client{chat: chat, model: model, jsonMode: jsonMode}
}

// Generate asks the model for a blueprint of prompt
func (c *Client) Generate(ctx context.Context, prompt string) (*Blueprint, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "Analyze the following input:\n\n" + prompt},
		},
		Temperature: 0.2,
	}
	if c.jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.chat.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}
	return ParseBlueprint(resp.Choices[0].Message.Content)
}

var (
	thinkRe = regexp.MustCompile(`(?s)<think>.*?</think>`)
	fenceRe = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*\n(.*?)```")
)

// ParseBlueprint decodes a model answer. Reasoning blocks, markdown
// fences, comments and trailing commas are tolerated. Files with blank
// paths are dropped.
func ParseBlueprint(raw string) (*Blueprint, error) {
	text := cleanResponse(raw)
	if text == "" {
		return nil, ErrEmptyResponse
	}

	var bp Blueprint
	if err := json.Unmarshal(jsonc.ToJSON([]byte(text)), &bp); err != nil {
		return nil, fmt.Errorf("decode blueprint: %w", err)
	}
	bp.Name = strings.TrimSpace(bp.Name)
	if bp.Name == "" {
		return nil, errors.New("blueprint has no project name")
	}

	files := bp.Files[:0]
	for _, f := range bp.Files {
		if strings.TrimSpace(f.Path) == "" {
			continue
		}
		files = append(files, f)
	}
	bp.Files = files
	return &bp, nil
}

func cleanResponse(response string) string {
	cleaned := thinkRe.ReplaceAllString(response, "")
	// unclosed reasoning block
	if idx := strings.Index(cleaned, "</think>"); idx != -1 {
		cleaned = cleaned[idx+len("</think>"):]
	}

	if m := fenceRe.FindStringSubmatch(cleaned); m != nil {
		cleaned = m[1]
	}

	cleaned = strings.TrimSpace(cleaned)
	// prose around the object
	if start, end := strings.Index(cleaned, "{"), strings.LastIndex(cleaned, "}"); start > 0 && end > start {
		cleaned = cleaned[start : end+1]
	}
	return cleaned
}
