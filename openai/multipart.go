package openai

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
)

// formBuilder accumulates a multipart/form-data body. The first error is
// kept and every later write becomes a no-op.
type formBuilder struct {
	buf bytes.Buffer
	w   *multipart.Writer
	err error
}

func newFormBuilder() *formBuilder {
	f := &formBuilder{}
	f.w = multipart.NewWriter(&f.buf)
	return f
}

// field writes a text field. Empty values are skipped.
func (f *formBuilder) field(name, value string) {
	if f.err != nil || value == "" {
		return
	}
	if err := f.w.WriteField(name, value); err != nil {
		f.err = fmt.Errorf("failed to write %s field: %w", name, err)
	}
}

func (f *formBuilder) float(name string, v *float64) {
	if v == nil {
		return
	}
	f.field(name, strconv.FormatFloat(*v, 'f', -1, 64))
}

func (f *formBuilder) integer(name string, v *int) {
	if v == nil {
		return
	}
	f.field(name, strconv.Itoa(*v))
}

// file writes a file part. contentType defaults to application/octet-stream.
func (f *formBuilder) file(name, filename, contentType string, r io.Reader) {
	if f.err != nil || r == nil {
		return
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, name, filename))
	h.Set("Content-Type", contentType)
	part, err := f.w.CreatePart(h)
	if err != nil {
		f.err = fmt.Errorf("failed to create form file: %w", err)
		return
	}
	if _, err := io.Copy(part, r); err != nil {
		f.err = fmt.Errorf("failed to copy file content: %w", err)
	}
}

// finish closes the writer and returns the body and its content type.
func (f *formBuilder) finish() ([]byte, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	if err := f.w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return f.buf.Bytes(), f.w.FormDataContentType(), nil
}

// multipartRequest builds a POST request from a finished form.
func multipartRequest(path, model string, f *formBuilder) (request, error) {
	body, contentType, err := f.finish()
	if err != nil {
		return request{}, err
	}
	return request{
		method:      http.MethodPost,
		path:        path,
		model:       model,
		body:        body,
		contentType: contentType,
	}, nil
}
