package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/petal-labs/oai/openai"
	"github.com/petal-labs/oai/stream"
)

type speakFlags struct {
	input  string
	out    string
	voice  string
	format string
	speed  float64
	stream bool
}

func (a *App) newSpeakCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "speak",
		Short: "Synthesize speech into an audio file",
		Long: `Synthesize speech from text and save it to a file.

With --stream the audio is received as server-sent events and written as
chunks arrive.

Examples:
  oai speak --input "Hello there" --out hello.mp3
  oai speak --input "Hello there" --voice nova --stream`,
		Args: cobra.NoArgs,
		RunE: a.runSpeak,
	}

	f := cmd.Flags()
	f.StringVar(&a.speak.input, "input", "", "text to speak (required)")
	f.StringVar(&a.speak.out, "out", "speech.mp3", "output file")
	f.StringVar(&a.speak.voice, "voice", "", "voice (default from config)")
	f.StringVar(&a.speak.format, "format", "", "audio format, e.g. mp3, opus, wav")
	f.Float64Var(&a.speak.speed, "speed", 0, "playback speed (0 = use default)")
	f.BoolVar(&a.speak.stream, "stream", false, "stream audio chunks as server-sent events")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func (a *App) runSpeak(cmd *cobra.Command, args []string) error {
	client, err := a.client()
	if err != nil {
		return err
	}

	q := openai.AudioSpeechQuery{
		Model:          a.speechModel(cmd),
		Input:          a.speak.input,
		Voice:          a.speak.voice,
		ResponseFormat: a.speak.format,
	}
	if q.Voice == "" && a.cfg != nil {
		q.Voice = a.cfg.Voice
	}
	if q.Voice == "" {
		q.Voice = "alloy"
	}
	if a.speak.speed > 0 {
		q.Speed = &a.speak.speed
	}

	var path string
	if a.speak.stream {
		path, err = a.streamSpeech(cmd.Context(), client, q, a.speak.out)
	} else {
		path, err = client.AudioSpeechToFile(cmd.Context(), q, a.speak.out)
		if err != nil {
			err = a.handleAPIError(err)
		}
	}
	if err != nil {
		return err
	}

	if a.jsonOutput {
		return a.writeJSON(map[string]string{"path": path})
	}
	fmt.Fprintf(a.stdout, "Saved %s\n", path)
	return nil
}

// streamSpeech writes audio chunks to a temporary file next to out and
// moves it into place once the stream completes cleanly.
func (a *App) streamSpeech(ctx context.Context, client *openai.Client, q openai.AudioSpeechQuery, out string) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(out), ".speech-*")
	if err != nil {
		return "", a.fail(ExitValidation, err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	var (
		writeErr error
		procErr  error
		chunks   int
	)
	s, err := client.AudioCreateSpeechStream(ctx, q, stream.Handler[openai.AudioSpeechResult]{
		OnResult: func(r openai.AudioSpeechResult) {
			if writeErr != nil || len(r.Audio) == 0 {
				return
			}
			chunks++
			_, writeErr = tmp.Write(r.Audio)
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
	if err := s.Wait(ctx); err != nil {
		return "", a.handleAPIError(err)
	}

	switch {
	case writeErr != nil:
		return "", a.fail(ExitValidation, writeErr)
	case procErr != nil && chunks == 0:
		return "", a.handleAPIError(procErr)
	case chunks == 0:
		return "", a.fail(ExitAPI, errors.New("stream ended without audio"))
	}

	if err := tmp.Chmod(0o644); err != nil {
		return "", a.fail(ExitValidation, err)
	}
	if err := tmp.Close(); err != nil {
		return "", a.fail(ExitValidation, err)
	}
	if err := os.Rename(tmp.Name(), out); err != nil {
		return "", a.fail(ExitValidation, err)
	}
	a.logger.Debug("speech saved", "chunks", chunks, "path", out)
	return out, nil
}

func (a *App) speechModel(cmd *cobra.Command) string {
	if f := cmd.Flag("model"); f != nil && f.Changed {
		return a.model
	}
	if a.cfg != nil && a.cfg.SpeechModel != "" {
		return a.cfg.SpeechModel
	}
	return "tts-1"
}
