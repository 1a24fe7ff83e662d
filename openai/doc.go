// Package openai is a client for the OpenAI HTTP API and compatible
// servers.
//
// Plain endpoints perform one request and return the decoded result or an
// error. Failed responses are returned as *core.APIError values matching
// core.ErrAPI and a status sentinel such as core.ErrRateLimited.
//
// ChatsStream, CompletionsStream and AudioCreateSpeechStream return a
// *stream.Session as soon as the request is issued. Results, processing
// errors and the terminal event are delivered to a stream.Handler on the
// session goroutine:
//
//	client := openai.New(apiKey)
//	s, err := client.ChatsStream(ctx, openai.ChatQuery{
//	    Model:    "gpt-4o-mini",
//	    Messages: []openai.ChatMessage{{Role: openai.RoleUser, Content: "Hi"}},
//	}, stream.Handler[openai.ChatStreamResult]{
//	    OnResult: func(r openai.ChatStreamResult) { fmt.Print(r.Text()) },
//	    OnError:  func(err error) { log.Println(err) },
//	})
//	if err != nil {
//	    return err
//	}
//	err = s.Wait(ctx)
//
// CancelChatStreams stops every chat stream in flight, for example when a
// user asks to stop generation.
package openai
