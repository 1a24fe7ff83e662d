package openai

import (
	"context"
	"net/url"
)

// Chats sends a chat completion request.
func (c *Client) Chats(ctx context.Context, q ChatQuery) (*ChatResult, error) {
	r, err := jsonRequest(c.config.Paths.Chats, q.Model, q)
	if err != nil {
		return nil, err
	}
	return doJSON[ChatResult](ctx, c, r)
}

// Completions sends a text completion request.
func (c *Client) Completions(ctx context.Context, q CompletionsQuery) (*CompletionsResult, error) {
	r, err := jsonRequest(c.config.Paths.Completions, q.Model, q)
	if err != nil {
		return nil, err
	}
	return doJSON[CompletionsResult](ctx, c, r)
}

// Edits sends an edit request.
func (c *Client) Edits(ctx context.Context, q EditsQuery) (*EditsResult, error) {
	r, err := jsonRequest(c.config.Paths.Edits, q.Model, q)
	if err != nil {
		return nil, err
	}
	return doJSON[EditsResult](ctx, c, r)
}

// Embeddings creates embedding vectors for the query input.
func (c *Client) Embeddings(ctx context.Context, q EmbeddingsQuery) (*EmbeddingsResult, error) {
	r, err := jsonRequest(c.config.Paths.Embeddings, q.Model, q)
	if err != nil {
		return nil, err
	}
	return doJSON[EmbeddingsResult](ctx, c, r)
}

// Moderations classifies the query input.
func (c *Client) Moderations(ctx context.Context, q ModerationsQuery) (*ModerationsResult, error) {
	r, err := jsonRequest(c.config.Paths.Moderations, q.Model, q)
	if err != nil {
		return nil, err
	}
	return doJSON[ModerationsResult](ctx, c, r)
}

// Model retrieves one model by ID.
func (c *Client) Model(ctx context.Context, id string) (*ModelResult, error) {
	path := c.config.Paths.Models + "/" + url.PathEscape(id)
	return doJSON[ModelResult](ctx, c, getRequest(path, nil))
}

// Models lists the available models.
func (c *Client) Models(ctx context.Context) (*ModelsResult, error) {
	return doJSON[ModelsResult](ctx, c, getRequest(c.config.Paths.Models, nil))
}
