package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	logrus "github.com/sirupsen/logrus"

	"storm_drain/internal/llm"
)

// maxToolIterations bounds the tool round-trip. Even a model that keeps
// requesting tools forever gets at most this many executions before the loop
// exits with whatever content is present.
const maxToolIterations = 2

const answerMaxTokens = 1024

const agentSystemPrompt = `You are the AI agent of a storm-drain management platform.
- Interpret the analytics (priority_score, risk_reason, flood_probability) into actionable recommendations.
- Example: "this drain is 90% full in a busy area, priority 1" becomes "very dangerous, dispatch a cleaning crew right away".
- Call get_drainage_data, generate_risk_chart or send_admin_alert when a tool is needed.`

// Agent answers fleet questions through the fixed pipeline:
// classify intent, retrieve recent records as context, call the LLM with the
// tool catalog, and run at most two tool round-trips.
type Agent struct {
	client          llm.ChatCompleter
	cfg             llm.Config
	classifier      *llm.Classifier
	records         RecordSource
	executor        *ToolExecutor
	fallbackEnabled bool
}

func New(client llm.ChatCompleter, cfg llm.Config, records RecordSource, executor *ToolExecutor, fallbackEnabled bool) *Agent {
	return &Agent{
		client:          client,
		cfg:             cfg,
		classifier:      llm.NewClassifier(client, cfg),
		records:         records,
		executor:        executor,
		fallbackEnabled: fallbackEnabled,
	}
}

// Answer runs one chat turn. It always returns a usable answer string; LLM
// failures surface as canned fallback text, never as raw provider errors.
// toolsUsed lists every executed tool name in invocation order, duplicates
// included.
func (a *Agent) Answer(ctx context.Context, query string) (answer, intent string, toolsUsed []string) {
	toolsUsed = []string{}

	// 1) Classify. Total: falls back to "general" on any failure.
	intent = a.classifier.Classify(ctx, query)

	// 2) Retrieve. The fleet-wide view is used; the current design does not
	// parse a location out of the query.
	contextBlock, err := BuildContext(ctx, a.records, "")
	if err != nil {
		logrus.Warnf("context retrieval failed: %v", err)
		return Fallback(ErrKindDBError, a.fallbackEnabled), intent, toolsUsed
	}

	// 3) Compose.
	userMsg := fmt.Sprintf("[context - store query results]\n%s\n\n[user question]\n%s\n", contextBlock, query)
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: agentSystemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: userMsg},
	}

	// 4) Dispatch.
	resp, err := a.complete(ctx, messages)
	if err != nil {
		logrus.Warnf("llm call failed: %v", err)
		return Fallback(classifyLLMError(err), a.fallbackEnabled), intent, toolsUsed
	}
	msg := resp.Choices[0].Message

	// 5) Tool round-trip, bounded.
	for i := 0; i < maxToolIterations; i++ {
		if len(msg.ToolCalls) == 0 {
			break
		}
		messages = append(messages, msg)
		for _, tc := range msg.ToolCalls {
			toolsUsed = append(toolsUsed, tc.Function.Name)
			result := a.executor.Execute(ctx, tc.Function.Name, tc.Function.Arguments)
			payload, _ := json.Marshal(result)
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				ToolCallID: tc.ID,
				Content:    string(payload),
			})
		}
		resp, err = a.complete(ctx, messages)
		if err != nil {
			logrus.Warnf("llm call failed after tools: %v", err)
			return Fallback(classifyLLMError(err), a.fallbackEnabled), intent, toolsUsed
		}
		msg = resp.Choices[0].Message
	}

	// 6) Finalize.
	answer = strings.TrimSpace(msg.Content)
	if answer == "" {
		answer = Fallback(ErrKindLLMError, a.fallbackEnabled)
	}
	return answer, intent, toolsUsed
}

// complete issues one chat completion with the tool catalog and the per-call
// provider timeout applied.
func (a *Agent) complete(ctx context.Context, messages []openai.ChatCompletionMessage) (openai.ChatCompletionResponse, error) {
	if a.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:      a.cfg.Model,
		Messages:   messages,
		Tools:      ToolCatalog(),
		ToolChoice: "auto",
		MaxTokens:  answerMaxTokens,
	})
	if err != nil {
		return openai.ChatCompletionResponse{}, err
	}
	if len(resp.Choices) == 0 {
		return openai.ChatCompletionResponse{}, errors.New("no choices returned")
	}
	return resp, nil
}

// classifyLLMError maps a transport failure onto the fallback taxonomy.
func classifyLLMError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrKindLLMTimeout
	}
	if strings.Contains(strings.ToLower(err.Error()), "timeout") {
		return ErrKindLLMTimeout
	}
	return ErrKindLLMError
}
