// Package stream decodes server-sent event responses into typed values.
//
// A Decoder is fed the raw chunks of one response body as they arrive. It
// reassembles "data: " lines split across chunk boundaries, skips the
// "[DONE]" marker, decodes each payload with a DecodeFunc and classifies
// upfront failures (an error envelope, HTTP 429, other error statuses)
// into *core.APIError values.
//
// Open runs a Decoder against a live HTTP request on its own goroutine and
// returns a Session handle. Sessions opened with a Registry can be looked up
// and cancelled by family:
//
//	reg := stream.NewRegistry()
//	s := stream.Open(ctx, http.DefaultClient, req, stream.FamilyChat,
//		stream.JSON[Chunk](), stream.Handler[Chunk]{
//			OnResult: func(c Chunk) { fmt.Print(c.Text) },
//			OnDone:   func(err error) { log.Println("closed", err) },
//		}, stream.WithRegistry(reg))
//
//	reg.CancelAll(stream.FamilyChat)
//	err := s.Wait(ctx)
package stream
