package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/petal-labs/oai/internal/slogx"
	"github.com/petal-labs/oai/openai"
	"github.com/petal-labs/oai/stream"
)

type chatFlags struct {
	prompt      string
	system      string
	temperature float64
	maxTokens   int
	stream      bool
	raw         bool
}

func (a *App) newChatCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with a model",
		Long: `Start an interactive chat, or send a single message with --prompt.

Replies stream as they are generated. Press Ctrl+C while a reply is
streaming to stop generation; press it again to leave the chat.

Examples:
  oai chat
  oai chat --model gpt-4o --system "Answer in French"
  oai chat --prompt "Hello" --stream=false
  oai chat --prompt "Hello" --json`,
		Args: cobra.NoArgs,
		RunE: a.runChat,
	}

	f := cmd.Flags()
	f.StringVar(&a.chat.prompt, "prompt", "", "send one message and exit")
	f.StringVar(&a.chat.system, "system", "", "system message")
	f.Float64Var(&a.chat.temperature, "temperature", 0, "temperature (0 = use default)")
	f.IntVar(&a.chat.maxTokens, "max-tokens", 0, "max tokens (0 = use default)")
	f.BoolVar(&a.chat.stream, "stream", true, "stream replies as they are generated")
	f.BoolVar(&a.chat.raw, "raw", false, "print complete replies without markdown rendering")
	return cmd
}

func (a *App) runChat(cmd *cobra.Command, args []string) error {
	if a.model == "" {
		return a.fail(ExitValidation, errors.New("model required: use --model flag or set default_model in config"))
	}
	client, err := a.client()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	a.watchInterrupts(ctx, cancel, client)

	conv := newConversation(a.chat.system)
	if a.chat.prompt != "" {
		return a.chatTurn(ctx, client, conv, a.chat.prompt)
	}
	return a.repl(ctx, client, conv)
}

// watchInterrupts stops generation on an interrupt while a reply streams.
// An interrupt with nothing streaming ends the chat.
func (a *App) watchInterrupts(ctx context.Context, cancel context.CancelFunc, client *openai.Client) {
	sigs := make(chan os.Signal, 1)
	stop := a.notify(sigs)
	go func() {
		defer stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-sigs:
				if n := client.CancelChatStreams(); n > 0 {
					a.logger.Debug("generation stopped", slog.Int("streams", n))
					continue
				}
				cancel()
				return
			}
		}
	}()
}

func (a *App) repl(ctx context.Context, client *openai.Client, conv *conversation) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(a.stdin)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		fmt.Fprintf(a.stdout, "%s: ", color.CyanString("You"))

		var input string
		select {
		case <-ctx.Done():
			fmt.Fprintln(a.stdout)
			return nil
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(a.stdout)
				return nil
			}
			input = strings.TrimSpace(line)
		}

		switch strings.ToLower(input) {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		// Failed turns are already reported; the conversation goes on.
		if err := a.chatTurn(ctx, client, conv, input); err != nil && ctx.Err() != nil {
			return nil
		}
	}
}

func (a *App) chatTurn(ctx context.Context, client *openai.Client, conv *conversation, input string) error {
	conv.add(openai.RoleUser, input)
	q := conv.query(a.model, a.chat)

	var (
		reply string
		err   error
	)
	if a.chat.stream {
		reply, err = a.streamReply(ctx, client, q)
	} else {
		reply, err = a.completeReply(ctx, client, q)
	}
	if err != nil {
		conv.rollback()
		return err
	}
	conv.add(openai.RoleAssistant, reply)
	return nil
}

func (a *App) streamReply(ctx context.Context, client *openai.Client, q openai.ChatQuery) (string, error) {
	var (
		reply     strings.Builder
		id, model string
		procErr   error
	)

	if !a.jsonOutput {
		fmt.Fprintf(a.stdout, "%s: ", color.MagentaString("Assistant"))
	}
	s, err := client.ChatsStream(ctx, q, stream.Handler[openai.ChatStreamResult]{
		OnResult: func(r openai.ChatStreamResult) {
			id, model = r.ID, r.Model
			text := r.Text()
			reply.WriteString(text)
			if !a.jsonOutput {
				fmt.Fprint(a.stdout, text)
			}
		},
		OnError: func(err error) {
			if procErr == nil {
				procErr = err
			}
		},
	})
	if err != nil {
		return "", a.handleAPIError(err)
	}
	<-s.Done()

	err = s.Err()
	switch {
	case errors.Is(err, context.Canceled):
		if !a.jsonOutput {
			fmt.Fprintln(a.stdout, color.YellowString(" [stopped]"))
		}
		return reply.String(), nil
	case err != nil:
		a.endLine()
		return "", a.handleAPIError(err)
	case procErr != nil && reply.Len() == 0:
		a.endLine()
		return "", a.handleAPIError(procErr)
	case procErr != nil:
		a.logger.Warn("stream reported an error", slogx.Error(procErr))
	}

	if a.jsonOutput {
		return reply.String(), a.writeJSON(map[string]any{
			"id":     id,
			"model":  model,
			"output": reply.String(),
		})
	}
	fmt.Fprintln(a.stdout)
	return reply.String(), nil
}

func (a *App) completeReply(ctx context.Context, client *openai.Client, q openai.ChatQuery) (string, error) {
	res, err := client.Chats(ctx, q)
	if err != nil {
		return "", a.handleAPIError(err)
	}
	text := res.Text()

	if a.jsonOutput {
		return text, a.writeJSON(res)
	}
	fmt.Fprintf(a.stdout, "%s:\n", color.MagentaString("Assistant"))
	if !a.chat.raw {
		text = renderMarkdown(text)
	}
	fmt.Fprintln(a.stdout, text)
	return res.Text(), nil
}

func (a *App) endLine() {
	if !a.jsonOutput {
		fmt.Fprintln(a.stdout)
	}
}

func renderMarkdown(text string) string {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

// conversation is the message history sent with every turn.
type conversation struct {
	messages []openai.ChatMessage
}

func newConversation(system string) *conversation {
	c := &conversation{}
	if system != "" {
		c.add(openai.RoleSystem, system)
	}
	return c
}

func (c *conversation) add(role openai.Role, content string) {
	c.messages = append(c.messages, openai.ChatMessage{Role: role, Content: content})
}

// rollback drops the unanswered user message.
func (c *conversation) rollback() {
	if n := len(c.messages); n > 0 && c.messages[n-1].Role == openai.RoleUser {
		c.messages = c.messages[:n-1]
	}
}

func (c *conversation) query(model string, f chatFlags) openai.ChatQuery {
	q := openai.ChatQuery{
		Model:    model,
		Messages: append([]openai.ChatMessage(nil), c.messages...),
	}
	if f.temperature > 0 {
		q.Temperature = &f.temperature
	}
	if f.maxTokens > 0 {
		q.MaxTokens = &f.maxTokens
	}
	return q
}
