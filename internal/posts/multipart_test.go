package posts

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/tidwall/gjson"
)

type parsedPart struct {
	formName    string
	fileName    string
	contentType string
	body        string
}

func parseBody(t *testing.T, body *bytes.Buffer, contentType string) []parsedPart {
	t.Helper()

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		t.Fatalf("parsing content type: %v", err)
	}
	if mediaType != "multipart/form-data" {
		t.Fatalf("expected multipart/form-data, got %s", mediaType)
	}

	var parts []parsedPart
	reader := multipart.NewReader(body, params["boundary"])
	for {
		p, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("reading part: %v", err)
		}
		data, err := io.ReadAll(p)
		if err != nil {
			t.Fatalf("reading part body: %v", err)
		}
		parts = append(parts, parsedPart{
			formName:    p.FormName(),
			fileName:    p.FileName(),
			contentType: p.Header.Get("Content-Type"),
			body:        string(data),
		})
	}
	return parts
}

func TestBuildMultipartWithImages(t *testing.T) {
	sub := Submission{
		Title:   "t",
		Content: "c",
		Tags:    "a,b",
		Images: []Attachment{
			{Name: "one.jpg", Content: strings.NewReader("jpegbytes")},
			{Name: "two.png", Content: strings.NewReader("pngbytes")},
		},
	}

	body, contentType, err := buildMultipart(sub)
	if err != nil {
		t.Fatal(err)
	}
	parts := parseBody(t, body, contentType)

	if len(parts) != 3 {
		t.Fatalf("expected 1 metadata + 2 image parts, got %d", len(parts))
	}

	meta := parts[0]
	if meta.formName != "request" {
		t.Errorf("metadata part must be named request, got %q", meta.formName)
	}
	if meta.contentType != "application/json" {
		t.Errorf("metadata part must be application/json, got %q", meta.contentType)
	}
	if got := gjson.Get(meta.body, "title").String(); got != "t" {
		t.Errorf("title = %q", got)
	}
	if got := gjson.Get(meta.body, "content").String(); got != "c" {
		t.Errorf("content = %q", got)
	}
	var tags []string
	for _, v := range gjson.Get(meta.body, "tags").Array() {
		tags = append(tags, v.String())
	}
	if len(tags) != 2 || tags[0] != "a" || tags[1] != "b" {
		t.Errorf("tags = %v, want [a b]", tags)
	}

	for i, want := range []struct{ file, body string }{
		{"one.jpg", "jpegbytes"},
		{"two.png", "pngbytes"},
	} {
		part := parts[i+1]
		if part.formName != "images" {
			t.Errorf("image part %d named %q, want images", i, part.formName)
		}
		if part.fileName != want.file {
			t.Errorf("image part %d filename %q, want %q", i, part.fileName, want.file)
		}
		if part.body != want.body {
			t.Errorf("image part %d body %q, want %q", i, part.body, want.body)
		}
	}
}

func TestBuildMultipartNoImages(t *testing.T) {
	body, contentType, err := buildMultipart(Submission{Title: "t", Content: "c"})
	if err != nil {
		t.Fatal(err)
	}
	parts := parseBody(t, body, contentType)

	if len(parts) != 1 {
		t.Fatalf("expected only the metadata part, got %d parts", len(parts))
	}
	// Tags must be an explicit empty array, not null or missing.
	tags := gjson.Get(parts[0].body, "tags")
	if !tags.IsArray() || len(tags.Array()) != 0 {
		t.Errorf("tags = %s, want []", tags.Raw)
	}
}

func TestBuildMultipartImageCap(t *testing.T) {
	makeImages := func(n int) []Attachment {
		imgs := make([]Attachment, n)
		for i := range imgs {
			imgs[i] = Attachment{Name: "img.jpg", Content: strings.NewReader("x")}
		}
		return imgs
	}

	// Exactly at the cap: accepted.
	body, contentType, err := buildMultipart(Submission{Title: "t", Images: makeImages(5)})
	if err != nil {
		t.Fatalf("5 images should be accepted: %v", err)
	}
	if parts := parseBody(t, body, contentType); len(parts) != 6 {
		t.Errorf("expected 6 parts, got %d", len(parts))
	}

	// One over: the whole submission is rejected before anything is read.
	_, _, err = buildMultipart(Submission{Title: "t", Images: makeImages(6)})
	if !errors.Is(err, ErrTooManyImages) {
		t.Errorf("expected ErrTooManyImages, got %v", err)
	}
}

func TestImageContentTypes(t *testing.T) {
	tests := []struct {
		file     string
		expected string
	}{
		{"photo.png", "image/png"},
		{"photo.unknownext", "application/octet-stream"},
	}

	for _, tt := range tests {
		got := imageContentType(tt.file)
		// mime.TypeByExtension may append a charset; compare the media type.
		mediaType, _, err := mime.ParseMediaType(got)
		if err != nil {
			t.Fatalf("imageContentType(%q) = %q: %v", tt.file, got, err)
		}
		if mediaType != tt.expected {
			t.Errorf("imageContentType(%q) = %q, want %q", tt.file, mediaType, tt.expected)
		}
	}
}
