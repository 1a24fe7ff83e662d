package openai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/petal-labs/oai/core"
)

// ErrMissingFile is returned when a multipart query has no file content.
var ErrMissingFile = errors.New("openai: file content is required")

// Images generates images from a prompt.
func (c *Client) Images(ctx context.Context, q ImagesQuery) (*ImagesResult, error) {
	r, err := jsonRequest(c.config.Paths.Images, q.Model, q)
	if err != nil {
		return nil, err
	}
	return doJSON[ImagesResult](ctx, c, r)
}

// ImageEdits edits an image given a prompt and an optional mask.
func (c *Client) ImageEdits(ctx context.Context, q ImageEditsQuery) (*ImagesResult, error) {
	if q.Image == nil {
		return nil, ErrMissingFile
	}
	f := newFormBuilder()
	f.file("image", orDefault(q.ImageName, "image.png"), "image/png", q.Image)
	if q.Mask != nil {
		f.file("mask", orDefault(q.MaskName, "mask.png"), "image/png", q.Mask)
	}
	f.field("prompt", q.Prompt)
	f.field("model", q.Model)
	f.integer("n", q.N)
	f.field("response_format", q.ResponseFormat)
	f.field("size", q.Size)
	f.field("user", q.User)

	r, err := multipartRequest(c.config.Paths.ImageEdits, q.Model, f)
	if err != nil {
		return nil, err
	}
	return doJSON[ImagesResult](ctx, c, r)
}

// ImageVariations creates variations of an image.
func (c *Client) ImageVariations(ctx context.Context, q ImageVariationsQuery) (*ImagesResult, error) {
	if q.Image == nil {
		return nil, ErrMissingFile
	}
	f := newFormBuilder()
	f.file("image", orDefault(q.ImageName, "image.png"), "image/png", q.Image)
	f.field("model", q.Model)
	f.integer("n", q.N)
	f.field("response_format", q.ResponseFormat)
	f.field("size", q.Size)
	f.field("user", q.User)

	r, err := multipartRequest(c.config.Paths.ImageVariations, q.Model, f)
	if err != nil {
		return nil, err
	}
	return doJSON[ImagesResult](ctx, c, r)
}

// AudioTranscriptions transcribes audio into text.
func (c *Client) AudioTranscriptions(ctx context.Context, q AudioTranscriptionQuery) (*AudioTranscriptionResult, error) {
	if q.File == nil {
		return nil, ErrMissingFile
	}
	f := newFormBuilder()
	f.file("file", orDefault(q.FileName, q.FileType.FileName()), q.FileType.ContentType(), q.File)
	f.field("model", q.Model)
	f.field("prompt", q.Prompt)
	f.float("temperature", q.Temperature)
	f.field("language", q.Language)
	f.field("response_format", q.ResponseFormat)

	r, err := multipartRequest(c.config.Paths.AudioTranscriptions, q.Model, f)
	if err != nil {
		return nil, err
	}
	return doJSON[AudioTranscriptionResult](ctx, c, r)
}

// AudioTranslations translates audio into English text.
func (c *Client) AudioTranslations(ctx context.Context, q AudioTranslationQuery) (*AudioTranslationResult, error) {
	if q.File == nil {
		return nil, ErrMissingFile
	}
	f := newFormBuilder()
	f.file("file", orDefault(q.FileName, q.FileType.FileName()), q.FileType.ContentType(), q.File)
	f.field("model", q.Model)
	f.field("prompt", q.Prompt)
	f.float("temperature", q.Temperature)
	f.field("response_format", q.ResponseFormat)

	r, err := multipartRequest(c.config.Paths.AudioTranslations, q.Model, f)
	if err != nil {
		return nil, err
	}
	return doJSON[AudioTranslationResult](ctx, c, r)
}

// AudioCreateSpeech synthesizes speech and returns the raw audio bytes.
func (c *Client) AudioCreateSpeech(ctx context.Context, q AudioSpeechQuery) (*AudioSpeechResult, error) {
	r, err := jsonRequest(c.config.Paths.AudioSpeech, q.Model, q)
	if err != nil {
		return nil, err
	}
	resp, err := c.send(ctx, r)
	if err != nil {
		return nil, err
	}
	if len(resp.body) == 0 {
		return nil, core.ErrEmptyData
	}
	return &AudioSpeechResult{Audio: resp.body}, nil
}

// AudioSpeechToFile synthesizes speech into the file at path, replacing
// any existing file. The audio is written to a temporary file in the same
// directory first and moved into place once complete.
func (c *Client) AudioSpeechToFile(ctx context.Context, q AudioSpeechQuery, path string) (string, error) {
	res, err := c.AudioCreateSpeech(ctx, q)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".speech-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(res.Audio); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write audio: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write audio: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("write audio: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("move audio into place: %w", err)
	}
	return path, nil
}

// Files uploads a file.
func (c *Client) Files(ctx context.Context, q FilesQuery) (*FilesResult, error) {
	if q.File == nil {
		return nil, ErrMissingFile
	}
	f := newFormBuilder()
	f.field("purpose", q.Purpose)
	f.file("file", orDefault(q.FileName, "file"), q.ContentType, q.File)

	r, err := multipartRequest(c.config.Paths.Files, "", f)
	if err != nil {
		return nil, err
	}
	return doJSON[FilesResult](ctx, c, r)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
