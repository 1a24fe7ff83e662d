package openai

// AssistantTool enables a built-in tool or declares a function.
type AssistantTool struct {
	Type     string              `json:"type"`
	Function *FunctionDefinition `json:"function,omitempty"`
}

// AssistantsQuery creates or modifies an assistant.
type AssistantsQuery struct {
	Model        string          `json:"model"`
	Name         string          `json:"name,omitempty"`
	Description  string          `json:"description,omitempty"`
	Instructions string          `json:"instructions,omitempty"`
	Tools        []AssistantTool `json:"tools,omitempty"`
	FileIDs      []string        `json:"file_ids,omitempty"`
}

// AssistantResult describes one assistant.
type AssistantResult struct {
	ID           string          `json:"id"`
	Object       string          `json:"object"`
	CreatedAt    int64           `json:"created_at"`
	Name         string          `json:"name,omitempty"`
	Description  string          `json:"description,omitempty"`
	Model        string          `json:"model"`
	Instructions string          `json:"instructions,omitempty"`
	Tools        []AssistantTool `json:"tools,omitempty"`
	FileIDs      []string        `json:"file_ids,omitempty"`
}

// Page is a cursor-paginated list.
type Page[T any] struct {
	Object  string `json:"object"`
	Data    []T    `json:"data"`
	FirstID string `json:"first_id,omitempty"`
	LastID  string `json:"last_id,omitempty"`
	HasMore bool   `json:"has_more"`
}

// AssistantsResult lists assistants.
type AssistantsResult = Page[AssistantResult]

// ThreadMessage seeds a new thread.
type ThreadMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ThreadsQuery creates a thread.
type ThreadsQuery struct {
	Messages []ThreadMessage `json:"messages,omitempty"`
}

// ThreadsResult describes a thread.
type ThreadsResult struct {
	ID        string `json:"id"`
	Object    string `json:"object"`
	CreatedAt int64  `json:"created_at"`
}

// ThreadRunQuery creates a thread and runs it in one request.
type ThreadRunQuery struct {
	AssistantID  string       `json:"assistant_id"`
	Thread       ThreadsQuery `json:"thread"`
	Model        string       `json:"model,omitempty"`
	Instructions string       `json:"instructions,omitempty"`
}

// MessageQuery adds a message to a thread.
type MessageQuery struct {
	Role    Role     `json:"role"`
	Content string   `json:"content"`
	FileIDs []string `json:"file_ids,omitempty"`
}

// MessageContent is one part of a thread message.
type MessageContent struct {
	Type      string            `json:"type"`
	Text      *MessageText      `json:"text,omitempty"`
	ImageFile *MessageImageFile `json:"image_file,omitempty"`
}

// MessageText is a text part.
type MessageText struct {
	Value string `json:"value"`
}

// MessageImageFile references an image part.
type MessageImageFile struct {
	FileID string `json:"file_id"`
}

// ThreadMessageResult is a message stored in a thread.
type ThreadMessageResult struct {
	ID          string           `json:"id"`
	Object      string           `json:"object"`
	CreatedAt   int64            `json:"created_at"`
	ThreadID    string           `json:"thread_id"`
	Role        Role             `json:"role"`
	Content     []MessageContent `json:"content"`
	AssistantID string           `json:"assistant_id,omitempty"`
	RunID       string           `json:"run_id,omitempty"`
}

// Text returns the text parts of the message, joined.
func (m ThreadMessageResult) Text() string {
	var out string
	for _, c := range m.Content {
		if c.Text != nil {
			out += c.Text.Value
		}
	}
	return out
}

// ThreadAddMessageResult is the message created by ThreadsAddMessage.
type ThreadAddMessageResult = ThreadMessageResult

// ThreadsMessagesResult lists thread messages.
type ThreadsMessagesResult = Page[ThreadMessageResult]

// RunStatus is the lifecycle state of a run.
type RunStatus string

const (
	RunQueued         RunStatus = "queued"
	RunInProgress     RunStatus = "in_progress"
	RunRequiresAction RunStatus = "requires_action"
	RunCancelling     RunStatus = "cancelling"
	RunCancelled      RunStatus = "cancelled"
	RunFailed         RunStatus = "failed"
	RunCompleted      RunStatus = "completed"
	RunExpired        RunStatus = "expired"
)

// Terminal reports whether the run can no longer change state.
func (s RunStatus) Terminal() bool {
	switch s {
	case RunCancelled, RunFailed, RunCompleted, RunExpired:
		return true
	default:
		return false
	}
}

// RunsQuery starts a run on an existing thread.
type RunsQuery struct {
	AssistantID  string          `json:"assistant_id"`
	Model        string          `json:"model,omitempty"`
	Instructions string          `json:"instructions,omitempty"`
	Tools        []AssistantTool `json:"tools,omitempty"`
}

// RunResult describes a run.
type RunResult struct {
	ID             string          `json:"id"`
	Object         string          `json:"object"`
	CreatedAt      int64           `json:"created_at"`
	ThreadID       string          `json:"thread_id"`
	AssistantID    string          `json:"assistant_id"`
	Status         RunStatus       `json:"status"`
	RequiredAction *RequiredAction `json:"required_action,omitempty"`
	LastError      *RunError       `json:"last_error,omitempty"`
	Model          string          `json:"model,omitempty"`
	Instructions   string          `json:"instructions,omitempty"`
}

// RequiredAction is set while a run waits for tool outputs.
type RequiredAction struct {
	Type              string             `json:"type"`
	SubmitToolOutputs *SubmitToolOutputs `json:"submit_tool_outputs,omitempty"`
}

// SubmitToolOutputs lists the tool calls awaiting outputs.
type SubmitToolOutputs struct {
	ToolCalls []ToolCall `json:"tool_calls"`
}

// RunError is the failure of a run.
type RunError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RunStep is one step of a run.
type RunStep struct {
	ID          string         `json:"id"`
	Object      string         `json:"object"`
	CreatedAt   int64          `json:"created_at"`
	RunID       string         `json:"run_id"`
	Type        string         `json:"type"`
	Status      string         `json:"status"`
	StepDetails RunStepDetails `json:"step_details"`
}

// RunStepDetails holds the step payload for either step type.
type RunStepDetails struct {
	Type            string           `json:"type"`
	MessageCreation *MessageCreation `json:"message_creation,omitempty"`
	ToolCalls       []ToolCall       `json:"tool_calls,omitempty"`
}

// MessageCreation references the message a step created.
type MessageCreation struct {
	MessageID string `json:"message_id"`
}

// RunRetrieveStepsResult lists run steps.
type RunRetrieveStepsResult = Page[RunStep]

// ToolOutput answers one tool call.
type ToolOutput struct {
	ToolCallID string `json:"tool_call_id"`
	Output     string `json:"output"`
}

// RunToolOutputsQuery submits tool outputs for a run.
type RunToolOutputsQuery struct {
	ToolOutputs []ToolOutput `json:"tool_outputs"`
}
