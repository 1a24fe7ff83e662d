package openai

import (
	"errors"
	"io"
)

// ImagesQuery is an image generation request.
type ImagesQuery struct {
	Prompt         string `json:"prompt"`
	Model          string `json:"model,omitempty"`
	N              *int   `json:"n,omitempty"`
	Quality        string `json:"quality,omitempty"`
	ResponseFormat string `json:"response_format,omitempty"`
	Size           string `json:"size,omitempty"`
	Style          string `json:"style,omitempty"`
	User           string `json:"user,omitempty"`
}

// ImageEditsQuery is an image edit request, sent as multipart form data.
type ImageEditsQuery struct {
	Image          io.Reader
	ImageName      string
	Mask           io.Reader
	MaskName       string
	Prompt         string
	Model          string
	N              *int
	ResponseFormat string
	Size           string
	User           string
}

// ImageVariationsQuery is an image variation request, sent as multipart
// form data.
type ImageVariationsQuery struct {
	Image          io.Reader
	ImageName      string
	Model          string
	N              *int
	ResponseFormat string
	Size           string
	User           string
}

// ImagesResult is returned by every image endpoint.
type ImagesResult struct {
	Created int64       `json:"created"`
	Data    []ImageData `json:"data"`
}

// ImageData is one generated image, as a URL or base64 payload.
type ImageData struct {
	URL           string `json:"url,omitempty"`
	B64JSON       string `json:"b64_json,omitempty"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
}

// EmbeddingsQuery is an embeddings request.
type EmbeddingsQuery struct {
	Model          string   `json:"model"`
	Input          []string `json:"input"`
	EncodingFormat string   `json:"encoding_format,omitempty"`
	Dimensions     *int     `json:"dimensions,omitempty"`
	User           string   `json:"user,omitempty"`
}

// EmbeddingsResult is an embeddings response.
type EmbeddingsResult struct {
	Object string      `json:"object"`
	Data   []Embedding `json:"data"`
	Model  string      `json:"model"`
	Usage  *Usage      `json:"usage,omitempty"`
}

// Embedding is the vector for one input.
type Embedding struct {
	Object    string    `json:"object"`
	Embedding []float64 `json:"embedding"`
	Index     int       `json:"index"`
}

// ModelResult describes one model.
type ModelResult struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
}

// ModelsResult lists models.
type ModelsResult struct {
	Object string        `json:"object"`
	Data   []ModelResult `json:"data"`
}

// ModerationsQuery is a moderation request.
type ModerationsQuery struct {
	Input []string `json:"input"`
	Model string   `json:"model,omitempty"`
}

// ModerationsResult is a moderation response.
type ModerationsResult struct {
	ID      string             `json:"id"`
	Model   string             `json:"model"`
	Results []ModerationResult `json:"results"`
}

// ModerationResult is the verdict for one input.
type ModerationResult struct {
	Flagged        bool               `json:"flagged"`
	Categories     map[string]bool    `json:"categories"`
	CategoryScores map[string]float64 `json:"category_scores"`
}

// AudioSpeechQuery is a text-to-speech request.
type AudioSpeechQuery struct {
	Model          string   `json:"model"`
	Input          string   `json:"input"`
	Voice          string   `json:"voice"`
	ResponseFormat string   `json:"response_format,omitempty"`
	Speed          *float64 `json:"speed,omitempty"`
	StreamFormat   string   `json:"stream_format,omitempty"`
}

// AudioSpeechResult carries synthesized audio. For streamed speech each
// result is one event; Type names it and Audio holds the decoded chunk.
type AudioSpeechResult struct {
	Type  string `json:"type,omitempty"`
	Audio []byte `json:"audio"`
}

var errNotSpeechChunk = errors.New("payload is not a speech chunk")

// Validate rejects objects that carry neither audio nor an event type.
func (r *AudioSpeechResult) Validate() error {
	if r.Type == "" && len(r.Audio) == 0 {
		return errNotSpeechChunk
	}
	return nil
}

// AudioFileType is the container format of uploaded audio.
type AudioFileType string

const (
	AudioFLAC AudioFileType = "flac"
	AudioMP3  AudioFileType = "mp3"
	AudioMPGA AudioFileType = "mpga"
	AudioMP4  AudioFileType = "mp4"
	AudioM4A  AudioFileType = "m4a"
	AudioMPEG AudioFileType = "mpeg"
	AudioOGG  AudioFileType = "ogg"
	AudioWAV  AudioFileType = "wav"
	AudioWEBM AudioFileType = "webm"
)

func (t AudioFileType) ext() string {
	switch t {
	case "", AudioMPGA:
		return string(AudioMP3)
	default:
		return string(t)
	}
}

// FileName returns the upload file name for the type, "speech.<ext>".
func (t AudioFileType) FileName() string {
	return "speech." + t.ext()
}

// ContentType returns the MIME type for the type.
func (t AudioFileType) ContentType() string {
	return "audio/" + t.ext()
}

// AudioTranscriptionQuery is a speech-to-text request, sent as multipart
// form data. FileName defaults to the file type's name.
type AudioTranscriptionQuery struct {
	File           io.Reader
	FileType       AudioFileType
	FileName       string
	Model          string
	Prompt         string
	Temperature    *float64
	Language       string
	ResponseFormat string
}

// AudioTranslationQuery is a speech-to-English request, sent as multipart
// form data.
type AudioTranslationQuery struct {
	File           io.Reader
	FileType       AudioFileType
	FileName       string
	Model          string
	Prompt         string
	Temperature    *float64
	ResponseFormat string
}

// AudioTranscriptionResult is the transcribed text.
type AudioTranscriptionResult struct {
	Text string `json:"text"`
}

// AudioTranslationResult is the translated text.
type AudioTranslationResult struct {
	Text string `json:"text"`
}

// FilesQuery uploads a file, sent as multipart form data.
type FilesQuery struct {
	File        io.Reader
	FileName    string
	ContentType string
	Purpose     string
}

// FilesResult describes an uploaded file.
type FilesResult struct {
	ID        string `json:"id"`
	Object    string `json:"object"`
	Bytes     int64  `json:"bytes"`
	CreatedAt int64  `json:"created_at"`
	Filename  string `json:"filename"`
	Purpose   string `json:"purpose"`
}
