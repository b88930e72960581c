package driven

// PromptStore serves the prompts sent to the LLM.
type PromptStore interface {
	// Load returns the named prompt. Fields the store leaves empty are
	// filled by the caller from the built-in prompt of the same name.
	Load(name string) (Prompt, error)

	// Reload drops cached prompts.
	Reload()
}

// Prompt pairs system instructions with a text/template for the user message.
type Prompt struct {
	System   string `toml:"system"`
	Template string `toml:"template,multiline"`
}

// PromptAnswer answers a question from retrieved chunks. Its template sees
// {{.Context}} (the chunks joined by newlines) and {{.Question}}.
const PromptAnswer = "answer"

// DefaultAnswerPrompt is the built-in PromptAnswer.
var DefaultAnswerPrompt = Prompt{
	System: "You are a helpful assistant that answers questions using only the provided context. " +
		"Read the context carefully and provide a concise, factual answer. " +
		"If the context does not contain enough information to answer, respond with " +
		"'Not mentioned in the document.'",
	Template: "Context:\n{{.Context}}\n\nQuestion: {{.Question}}\nAnswer:",
}

// DefaultPrompts lists every built-in prompt by name.
func DefaultPrompts() map[string]Prompt {
	return map[string]Prompt{
		PromptAnswer: DefaultAnswerPrompt,
	}
}
