package agent

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storm_drain/internal/alert"
	"storm_drain/internal/llm"
	"storm_drain/internal/models"
)

// scriptedCompleter replays canned responses in order. The first response
// answers the intent-classification call, the rest the agent turns.
type scriptedCompleter struct {
	responses []openai.ChatCompletionResponse
	errs      []error
	calls     int
	requests  []openai.ChatCompletionRequest
}

func (s *scriptedCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	i := s.calls
	s.calls++
	s.requests = append(s.requests, req)
	if i < len(s.errs) && s.errs[i] != nil {
		return openai.ChatCompletionResponse{}, s.errs[i]
	}
	if i < len(s.responses) {
		return s.responses[i], nil
	}
	// Off-script calls keep requesting a tool; used to prove the loop bound.
	return toolCallResponse("call-extra", ToolGetDrainageData, `{"location_id":"A-01"}`), nil
}

func textResponse(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
		},
	}
}

func toolCallResponse(id, name, args string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{
				Role: openai.ChatMessageRoleAssistant,
				ToolCalls: []openai.ToolCall{
					{
						ID:       id,
						Type:     openai.ToolTypeFunction,
						Function: openai.FunctionCall{Name: name, Arguments: args},
					},
				},
			}},
		},
	}
}

func newTestAgent(client llm.ChatCompleter, src *fakeSource) *Agent {
	executor := NewToolExecutor(src, alert.NewNotifier(""))
	return New(client, llm.Config{Model: "test-model"}, src, executor, true)
}

func TestAnswerDirectReply(t *testing.T) {
	client := &scriptedCompleter{responses: []openai.ChatCompletionResponse{
		textResponse("data_analysis"),
		textResponse("Drain A-01 is in good shape."),
	}}
	a := newTestAgent(client, &fakeSource{})

	answer, intent, tools := a.Answer(context.Background(), "how is drain A-01?")

	assert.Equal(t, "Drain A-01 is in good shape.", answer)
	assert.Equal(t, llm.IntentDataAnalysis, intent)
	assert.Empty(t, tools)
	assert.Equal(t, 2, client.calls, "one classification call, one agent call")
}

func TestAnswerEmbedsContextAndQuery(t *testing.T) {
	src := &fakeSource{recent: []models.DrainageRecord{{LocationID: "A-01", CRI: iptr(75)}}}
	client := &scriptedCompleter{responses: []openai.ChatCompletionResponse{
		textResponse("general"),
		textResponse("answer"),
	}}
	a := newTestAgent(client, src)

	a.Answer(context.Background(), "what is going on?")

	agentReq := client.requests[1]
	require.Len(t, agentReq.Messages, 2, "system persona + one user message")
	userMsg := agentReq.Messages[1].Content
	assert.Contains(t, userMsg, "location_id=A-01")
	assert.Contains(t, userMsg, "what is going on?")
	assert.NotEmpty(t, agentReq.Tools, "tool catalog must be attached")
}

func TestAnswerSingleToolRoundTrip(t *testing.T) {
	src := &fakeSource{latest: map[string]*models.DrainageRecord{
		"AA-013": {LocationID: "AA-013", CRI: iptr(90), PriorityScore: iptr(1)},
	}}
	client := &scriptedCompleter{responses: []openai.ChatCompletionResponse{
		textResponse("data_analysis"),
		toolCallResponse("call-1", ToolGetDrainageData, `{"location_id":"AA-013"}`),
		textResponse("AA-013 is priority 1, send a crew now."),
	}}
	a := newTestAgent(client, src)

	answer, intent, tools := a.Answer(context.Background(), "check AA-013")

	assert.Equal(t, "AA-013 is priority 1, send a crew now.", answer)
	assert.Equal(t, llm.IntentDataAnalysis, intent)
	assert.Equal(t, []string{ToolGetDrainageData}, tools)

	// The follow-up call must carry the assistant tool-call message and a
	// tool-role result referencing the call id.
	followUp := client.requests[2]
	last := followUp.Messages[len(followUp.Messages)-1]
	assert.Equal(t, openai.ChatMessageRoleTool, last.Role)
	assert.Equal(t, "call-1", last.ToolCallID)
	assert.Contains(t, last.Content, "AA-013")
}

func TestAnswerToolLoopBounded(t *testing.T) {
	// Every response after classification keeps requesting tools.
	client := &scriptedCompleter{responses: []openai.ChatCompletionResponse{
		textResponse("data_analysis"),
	}}
	a := newTestAgent(client, &fakeSource{})

	answer, _, tools := a.Answer(context.Background(), "loop forever please")

	// classification + initial dispatch + exactly 2 tool-loop re-invocations
	assert.Equal(t, 4, client.calls, "tool round-trip must stop after 2 iterations")
	assert.Len(t, tools, 2)
	assert.Equal(t, Fallback(ErrKindLLMError, true), answer,
		"a tool-call-only transcript has no content, so the empty-content fallback applies")
}

func TestAnswerMultipleToolCallsInOneRound(t *testing.T) {
	resp := openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{
				Role: openai.ChatMessageRoleAssistant,
				ToolCalls: []openai.ToolCall{
					{ID: "c1", Type: openai.ToolTypeFunction, Function: openai.FunctionCall{Name: ToolGetDrainageData, Arguments: `{"location_id":"A"}`}},
					{ID: "c2", Type: openai.ToolTypeFunction, Function: openai.FunctionCall{Name: ToolSendAdminAlert, Arguments: `{"message":"hi"}`}},
					{ID: "c3", Type: openai.ToolTypeFunction, Function: openai.FunctionCall{Name: ToolGetDrainageData, Arguments: `{"location_id":"A"}`}},
				},
			}},
		},
	}
	client := &scriptedCompleter{responses: []openai.ChatCompletionResponse{
		textResponse("system_action"),
		resp,
		textResponse("done"),
	}}
	a := newTestAgent(client, &fakeSource{})

	_, _, tools := a.Answer(context.Background(), "alert someone")

	assert.Equal(t, []string{ToolGetDrainageData, ToolSendAdminAlert, ToolGetDrainageData}, tools,
		"tools_used keeps invocation order and duplicates")
}

func TestAnswerLLMErrorFallbacks(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"timeout by substring", errors.New("request timeout exceeded"), Fallback(ErrKindLLMTimeout, true)},
		{"deadline exceeded", context.DeadlineExceeded, Fallback(ErrKindLLMTimeout, true)},
		{"other transport error", errors.New("connection refused"), Fallback(ErrKindLLMError, true)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := &scriptedCompleter{
				responses: []openai.ChatCompletionResponse{textResponse("general")},
				errs:      []error{nil, tc.err},
			}
			a := newTestAgent(client, &fakeSource{})

			answer, intent, tools := a.Answer(context.Background(), "hello")

			assert.Equal(t, tc.want, answer)
			assert.Equal(t, llm.IntentGeneral, intent, "intent from step 1 survives the dispatch failure")
			assert.Empty(t, tools)
		})
	}
}

func TestAnswerEmptyContentFallback(t *testing.T) {
	client := &scriptedCompleter{responses: []openai.ChatCompletionResponse{
		textResponse("general"),
		textResponse("   \n "),
	}}
	a := newTestAgent(client, &fakeSource{})

	answer, _, _ := a.Answer(context.Background(), "hello")
	assert.Equal(t, Fallback(ErrKindLLMError, true), answer)
}

func TestAnswerContextBuildFailure(t *testing.T) {
	src := &fakeSource{recentErr: errors.New("connection refused")}
	client := &scriptedCompleter{responses: []openai.ChatCompletionResponse{
		textResponse("data_analysis"),
	}}
	a := newTestAgent(client, src)

	answer, intent, tools := a.Answer(context.Background(), "hello")

	assert.Equal(t, Fallback(ErrKindDBError, true), answer)
	assert.Equal(t, llm.IntentDataAnalysis, intent)
	assert.Empty(t, tools)
	assert.Equal(t, 1, client.calls, "no agent dispatch after a store failure")
}
