package openai

import "context"

// Assistants lists assistants. A non-empty after returns the page
// following that assistant ID.
func (c *Client) Assistants(ctx context.Context, after string) (*AssistantsResult, error) {
	r := getRequest(c.config.Paths.Assistants, cursor("after", after))
	r.beta = true
	return doJSON[AssistantsResult](ctx, c, r)
}

// AssistantCreate creates an assistant.
func (c *Client) AssistantCreate(ctx context.Context, q AssistantsQuery) (*AssistantResult, error) {
	return betaJSON[AssistantResult](ctx, c, c.config.Paths.Assistants, q.Model, q)
}

// AssistantModify updates an existing assistant.
func (c *Client) AssistantModify(ctx context.Context, assistantID string, q AssistantsQuery) (*AssistantResult, error) {
	path := pathParams{"assistant_id": assistantID}.expand(c.config.Paths.AssistantsModify)
	return betaJSON[AssistantResult](ctx, c, path, q.Model, q)
}

// Threads creates a thread.
func (c *Client) Threads(ctx context.Context, q ThreadsQuery) (*ThreadsResult, error) {
	return betaJSON[ThreadsResult](ctx, c, c.config.Paths.Threads, "", q)
}

// ThreadRun creates a thread and starts a run on it.
func (c *Client) ThreadRun(ctx context.Context, q ThreadRunQuery) (*RunResult, error) {
	return betaJSON[RunResult](ctx, c, c.config.Paths.ThreadRun, q.Model, q)
}

// ThreadsAddMessage appends a message to a thread.
func (c *Client) ThreadsAddMessage(ctx context.Context, threadID string, q MessageQuery) (*ThreadAddMessageResult, error) {
	path := pathParams{"thread_id": threadID}.expand(c.config.Paths.ThreadsMessages)
	return betaJSON[ThreadAddMessageResult](ctx, c, path, "", q)
}

// ThreadsMessages lists the messages of a thread. A non-empty before
// returns the page preceding that message ID.
func (c *Client) ThreadsMessages(ctx context.Context, threadID, before string) (*ThreadsMessagesResult, error) {
	path := pathParams{"thread_id": threadID}.expand(c.config.Paths.ThreadsMessages)
	r := getRequest(path, cursor("before", before))
	r.beta = true
	return doJSON[ThreadsMessagesResult](ctx, c, r)
}

// Runs starts a run on a thread.
func (c *Client) Runs(ctx context.Context, threadID string, q RunsQuery) (*RunResult, error) {
	path := pathParams{"thread_id": threadID}.expand(c.config.Paths.Runs)
	return betaJSON[RunResult](ctx, c, path, q.Model, q)
}

// RunRetrieve fetches the current state of a run.
func (c *Client) RunRetrieve(ctx context.Context, threadID, runID string) (*RunResult, error) {
	path := pathParams{"thread_id": threadID, "run_id": runID}.expand(c.config.Paths.RunRetrieve)
	r := getRequest(path, nil)
	r.beta = true
	return doJSON[RunResult](ctx, c, r)
}

// RunRetrieveSteps lists the steps of a run. A non-empty before returns the
// page preceding that step ID.
func (c *Client) RunRetrieveSteps(ctx context.Context, threadID, runID, before string) (*RunRetrieveStepsResult, error) {
	path := pathParams{"thread_id": threadID, "run_id": runID}.expand(c.config.Paths.RunRetrieveSteps)
	r := getRequest(path, cursor("before", before))
	r.beta = true
	return doJSON[RunRetrieveStepsResult](ctx, c, r)
}

// RunSubmitToolOutputs answers the tool calls a run is waiting on.
func (c *Client) RunSubmitToolOutputs(ctx context.Context, threadID, runID string, q RunToolOutputsQuery) (*RunResult, error) {
	path := pathParams{"thread_id": threadID, "run_id": runID}.expand(c.config.Paths.RunSubmitToolOutputs)
	return betaJSON[RunResult](ctx, c, path, "", q)
}

func betaJSON[T any](ctx context.Context, c *Client, path, model string, body any) (*T, error) {
	r, err := jsonRequest(path, model, body)
	if err != nil {
		return nil, err
	}
	r.beta = true
	return doJSON[T](ctx, c, r)
}
