package openai

import "errors"

// CompletionsQuery is a legacy text completion request.
type CompletionsQuery struct {
	Model            string   `json:"model"`
	Prompt           string   `json:"prompt"`
	Suffix           string   `json:"suffix,omitempty"`
	MaxTokens        *int     `json:"max_tokens,omitempty"`
	Temperature      *float64 `json:"temperature,omitempty"`
	TopP             *float64 `json:"top_p,omitempty"`
	N                *int     `json:"n,omitempty"`
	Echo             bool     `json:"echo,omitempty"`
	Stop             []string `json:"stop,omitempty"`
	PresencePenalty  *float64 `json:"presence_penalty,omitempty"`
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty"`
	User             string   `json:"user,omitempty"`
}

// CompletionsResult is a text completion response, or one chunk of a
// streamed one.
type CompletionsResult struct {
	ID      string             `json:"id"`
	Object  string             `json:"object"`
	Created int64              `json:"created"`
	Model   string             `json:"model"`
	Choices []CompletionChoice `json:"choices"`
	Usage   *Usage             `json:"usage,omitempty"`
}

// CompletionChoice is one completion alternative.
type CompletionChoice struct {
	Text         string `json:"text"`
	Index        int    `json:"index"`
	FinishReason string `json:"finish_reason,omitempty"`
}

var errNotCompletion = errors.New("payload is not a text completion")

// Validate rejects objects that are not completions.
func (r *CompletionsResult) Validate() error {
	if r.Object == "" {
		return errNotCompletion
	}
	return nil
}

// Text returns the text of the first choice.
func (r CompletionsResult) Text() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Text
}

// EditsQuery is an edit request.
type EditsQuery struct {
	Model       string   `json:"model"`
	Input       string   `json:"input,omitempty"`
	Instruction string   `json:"instruction"`
	N           *int     `json:"n,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	TopP        *float64 `json:"top_p,omitempty"`
}

// EditsResult is an edit response.
type EditsResult struct {
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Choices []EditChoice `json:"choices"`
	Usage   *Usage       `json:"usage,omitempty"`
}

// EditChoice is one edited alternative.
type EditChoice struct {
	Text  string `json:"text"`
	Index int    `json:"index"`
}
