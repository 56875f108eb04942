package llm

import (
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Intent labels for a user query. IntentGeneral is the hard default: the
// classifier never errors and never returns anything outside this set.
const (
	IntentDataAnalysis = "data_analysis"
	IntentSystemAction = "system_action"
	IntentGeneral      = "general"
)

// intentPriority is the scan order for label substrings in the model reply.
var intentPriority = []string{IntentDataAnalysis, IntentSystemAction, IntentGeneral}

const intentSystemPrompt = `You are the intent classifier for a storm-drain management platform.
Classify the user's question as exactly one of:
- data_analysis: data analysis, statistics, risk lookups, information about a specific site
- system_action: performing an action such as sending a message, generating a chart, dispatching an alert
- general: general conversation, greetings, requests for explanation

Answer with a single word only: data_analysis / system_action / general`

// Classifier labels queries with a single constrained LLM call.
type Classifier struct {
	client ChatCompleter
	cfg    Config
}

func NewClassifier(client ChatCompleter, cfg Config) *Classifier {
	return &Classifier{client: client, cfg: cfg}
}

// Classify returns one of the intent labels. Transport failures, empty
// replies and off-script replies all collapse to IntentGeneral.
func (c *Classifier) Classify(ctx context.Context, query string) string {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: intentSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: query},
		},
		MaxTokens: 32,
	})
	if err != nil || len(resp.Choices) == 0 {
		return IntentGeneral
	}

	return ParseIntent(resp.Choices[0].Message.Content)
}

// ParseIntent scans the reply for the known labels in priority order.
func ParseIntent(reply string) string {
	text := strings.ToLower(strings.TrimSpace(reply))
	for _, intent := range intentPriority {
		if strings.Contains(text, intent) {
			return intent
		}
	}
	return IntentGeneral
}
