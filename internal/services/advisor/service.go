// Package advisor implements the LLM-backed financial mentor: a chat
// endpoint driven by a bounded tool-calling loop over local query
// tools, and a one-shot analysis report.
package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"finance-dashboard-backend/internal/models"
	"finance-dashboard-backend/internal/repository"
)

// maxToolRounds bounds the tool-calling loop. A model still asking for
// tools after this many rounds is looping, not researching.
const maxToolRounds = 5

const defaultModel = "gpt-4o-mini"

const defaultMentorPrompt = "你是一个专业的财务导师。用户会询问关于账单数据的问题，" +
	"你可以调用工具查询数据，然后基于真实数据给出分析和建议。"

var rolePrompts = map[string]string{
	"critic": "你是一个毒舌且刻薄的理财师。你的目标是无情嘲讽用户的消费习惯。" +
		"请直接输出 Markdown 格式的报告。要求：1.直接开始分析，不要说“好的”、“收到”等废话；" +
		"2.大量使用 Markdown 的标题、列表和加粗；3.语气要尖酸刻薄但道理客观。",
	"assistant": "你是一个贴心且温柔的私人财务助理。请直接输出 Markdown 格式的报告。" +
		"要求：1.直接进入正题，不要客套；2.使用 Markdown 展现分点建议；3.语气温婉，像家人一样给出关怀。",
	"scientist": "你是一个硬核的数据分析专家。请直接输出 Markdown 格式的报告。" +
		"要求：1.输出一份标准的财务审计周报；2.包含统计学模型描述、偏差分析和趋势预测；" +
		"3.使用 Markdown 列表和表格（如果适用）；4.不含有任何冗余的礼貌性回复。",
}

// ErrNotConfigured means no API key was saved; AI features are off.
var ErrNotConfigured = errors.New("ai features are not configured")

// ChatMessage is one prior turn of the conversation as the client
// stores it.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Service struct {
	configRepo *repository.ConfigRepository
	executor   *ToolExecutor
	log        zerolog.Logger
}

func NewService(configRepo *repository.ConfigRepository, executor *ToolExecutor, log zerolog.Logger) *Service {
	return &Service{configRepo: configRepo, executor: executor, log: log}
}

func (s *Service) client() (*openai.Client, *models.AIConfig, error) {
	cfg, err := s.configRepo.Get()
	if err != nil {
		return nil, nil, err
	}
	if cfg == nil || cfg.APIKey == "" {
		return nil, nil, ErrNotConfigured
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return openai.NewClientWithConfig(clientCfg), cfg, nil
}

func modelName(cfg *models.AIConfig) string {
	if cfg.ModelName != "" {
		return cfg.ModelName
	}
	return defaultModel
}

// Analyze produces a one-shot report over the given data summary using
// one of the role prompts (or the saved custom prompt).
func (s *Service) Analyze(ctx context.Context, role, dataSummary string) (string, error) {
	client, cfg, err := s.client()
	if err != nil {
		return "", err
	}

	system := cfg.CustomPrompt
	if system == "" {
		system = rolePrompts[role]
	}
	if system == "" {
		system = rolePrompts["scientist"]
	}

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: modelName(cfg),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: "这是我的消费数据摘要：\n" + dataSummary + "\n请根据你的角色定位给出深入的分析结论。"},
		},
	})
	if err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Chat answers one user message. The model may request local tools;
// each round executes every requested tool, appends the results and
// asks again, up to maxToolRounds.
func (s *Service) Chat(ctx context.Context, message string, history []ChatMessage) (string, error) {
	client, cfg, err := s.client()
	if err != nil {
		return "", err
	}

	system := cfg.CustomPrompt
	if system == "" {
		system = defaultMentorPrompt
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	for _, h := range history {
		messages = append(messages, openai.ChatCompletionMessage{Role: h.Role, Content: h.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: message})

	request := func() (openai.ChatCompletionMessage, error) {
		resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:      modelName(cfg),
			Messages:   messages,
			Tools:      toolDefinitions(),
			ToolChoice: "auto",
		})
		if err != nil {
			return openai.ChatCompletionMessage{}, fmt.Errorf("completion request: %w", err)
		}
		if len(resp.Choices) == 0 {
			return openai.ChatCompletionMessage{}, errors.New("completion returned no choices")
		}
		return resp.Choices[0].Message, nil
	}

	msg, err := request()
	if err != nil {
		return "", err
	}

	for round := 0; len(msg.ToolCalls) > 0 && round < maxToolRounds; round++ {
		messages = append(messages, msg)
		for _, call := range msg.ToolCalls {
			s.log.Info().
				Str("tool", call.Function.Name).
				Str("args", call.Function.Arguments).
				Msg("tool call")

			result := s.executor.Execute(call.Function.Name, call.Function.Arguments)
			payload, err := json.Marshal(result)
			if err != nil {
				payload = []byte(`{"error":"unserializable tool result"}`)
			}
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    string(payload),
				Name:       call.Function.Name,
				ToolCallID: call.ID,
			})
		}

		msg, err = request()
		if err != nil {
			return "", err
		}
	}

	if len(msg.ToolCalls) > 0 {
		s.log.Warn().Int("rounds", maxToolRounds).Msg("tool loop bound hit, returning last content")
	}
	return msg.Content, nil
}
