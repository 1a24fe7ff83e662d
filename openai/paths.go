package openai

import (
	"net/url"
	"strings"
)

// PathConfig holds the endpoint paths appended to the base URL. Paths with
// placeholders use {thread_id}, {run_id} and {assistant_id}.
type PathConfig struct {
	Chats                string `yaml:"chats"`
	Completions          string `yaml:"completions"`
	Edits                string `yaml:"edits"`
	Embeddings           string `yaml:"embeddings"`
	Models               string `yaml:"models"`
	Moderations          string `yaml:"moderations"`
	Images               string `yaml:"images"`
	ImageEdits           string `yaml:"image_edits"`
	ImageVariations      string `yaml:"image_variations"`
	AudioSpeech          string `yaml:"audio_speech"`
	AudioTranscriptions  string `yaml:"audio_transcriptions"`
	AudioTranslations    string `yaml:"audio_translations"`
	Assistants           string `yaml:"assistants"`
	AssistantsModify     string `yaml:"assistants_modify"`
	Threads              string `yaml:"threads"`
	ThreadRun            string `yaml:"thread_run"`
	ThreadsMessages      string `yaml:"threads_messages"`
	Runs                 string `yaml:"runs"`
	RunRetrieve          string `yaml:"run_retrieve"`
	RunRetrieveSteps     string `yaml:"run_retrieve_steps"`
	RunSubmitToolOutputs string `yaml:"run_submit_tool_outputs"`
	Files                string `yaml:"files"`
}

// DefaultPaths returns the public OpenAI endpoint paths.
func DefaultPaths() PathConfig {
	return PathConfig{
		Chats:                "/v1/chat/completions",
		Completions:          "/v1/completions",
		Edits:                "/v1/edits",
		Embeddings:           "/v1/embeddings",
		Models:               "/v1/models",
		Moderations:          "/v1/moderations",
		Images:               "/v1/images/generations",
		ImageEdits:           "/v1/images/edits",
		ImageVariations:      "/v1/images/variations",
		AudioSpeech:          "/v1/audio/speech",
		AudioTranscriptions:  "/v1/audio/transcriptions",
		AudioTranslations:    "/v1/audio/translations",
		Assistants:           "/v1/assistants",
		AssistantsModify:     "/v1/assistants/{assistant_id}",
		Threads:              "/v1/threads",
		ThreadRun:            "/v1/threads/runs",
		ThreadsMessages:      "/v1/threads/{thread_id}/messages",
		Runs:                 "/v1/threads/{thread_id}/runs",
		RunRetrieve:          "/v1/threads/{thread_id}/runs/{run_id}",
		RunRetrieveSteps:     "/v1/threads/{thread_id}/runs/{run_id}/steps",
		RunSubmitToolOutputs: "/v1/threads/{thread_id}/runs/{run_id}/submit_tool_outputs",
		Files:                "/v1/files",
	}
}

func (p PathConfig) withDefaults() PathConfig {
	d := DefaultPaths()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&p.Chats, d.Chats)
	fill(&p.Completions, d.Completions)
	fill(&p.Edits, d.Edits)
	fill(&p.Embeddings, d.Embeddings)
	fill(&p.Models, d.Models)
	fill(&p.Moderations, d.Moderations)
	fill(&p.Images, d.Images)
	fill(&p.ImageEdits, d.ImageEdits)
	fill(&p.ImageVariations, d.ImageVariations)
	fill(&p.AudioSpeech, d.AudioSpeech)
	fill(&p.AudioTranscriptions, d.AudioTranscriptions)
	fill(&p.AudioTranslations, d.AudioTranslations)
	fill(&p.Assistants, d.Assistants)
	fill(&p.AssistantsModify, d.AssistantsModify)
	fill(&p.Threads, d.Threads)
	fill(&p.ThreadRun, d.ThreadRun)
	fill(&p.ThreadsMessages, d.ThreadsMessages)
	fill(&p.Runs, d.Runs)
	fill(&p.RunRetrieve, d.RunRetrieve)
	fill(&p.RunRetrieveSteps, d.RunRetrieveSteps)
	fill(&p.RunSubmitToolOutputs, d.RunSubmitToolOutputs)
	fill(&p.Files, d.Files)
	return p
}

// pathParams substitutes placeholders in an endpoint path. Values are
// path-escaped.
type pathParams map[string]string

func (pp pathParams) expand(path string) string {
	for k, v := range pp {
		path = strings.ReplaceAll(path, "{"+k+"}", url.PathEscape(v))
	}
	return path
}

// buildURL joins the base URL with path and adds non-empty query values.
func (c *Client) buildURL(path string, query url.Values) string {
	u := strings.TrimRight(c.config.BaseURL, "/") + path
	kept := url.Values{}
	for k, vs := range query {
		if len(vs) > 0 && vs[0] != "" {
			kept[k] = vs
		}
	}
	if len(kept) > 0 {
		u += "?" + kept.Encode()
	}
	return u
}

func cursor(name, value string) url.Values {
	if value == "" {
		return nil
	}
	return url.Values{name: []string{value}}
}
