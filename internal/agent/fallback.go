package agent

// Error kinds a chat turn can degrade with. The raw provider error is never
// shown to the end user; each kind maps to one canned guidance string.
const (
	ErrKindLLMTimeout = "llm_timeout"
	ErrKindLLMError   = "llm_error"
	ErrKindMLNoData   = "ml_no_data"
	ErrKindDBError    = "db_error"
)

const fallbackDisabled = "The system is experiencing a temporary problem. Please try again shortly."

var fallbackResponses = map[string]string{
	ErrKindLLMTimeout: "The AI analysis server is responding slowly. Please ask again in a moment, " +
		"or make the request more specific (for example, ask for the data of one drain) for a faster answer.",
	ErrKindLLMError: "The AI service hit a temporary error. Please check that the inference server " +
		"is reachable and try again.",
	ErrKindMLNoData: "Analysis for this site is not ready yet. Once volume and foot-traffic analysis " +
		"completes, risk scores and recommendations will be available.",
	ErrKindDBError: "There was a problem accessing the database. Please contact an administrator.",
}

// Fallback returns the user-facing text for a degraded chat turn. Unknown
// kinds collapse to the llm_error wording.
func Fallback(kind string, enabled bool) string {
	if !enabled {
		return fallbackDisabled
	}
	if msg, ok := fallbackResponses[kind]; ok {
		return msg
	}
	return fallbackResponses[ErrKindLLMError]
}
