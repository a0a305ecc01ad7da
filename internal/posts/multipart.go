package posts

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"path/filepath"

	"github.com/tidwall/sjson"

	"github.com/imagepost/imagepost-cli/internal/config"
)

// Multipart part names the server expects.
const (
	metadataPartName = "request"
	imagePartName    = "images"
)

// ErrTooManyImages rejects a submission before any network call when the
// attachment cap is exceeded. Callers drop the whole selection and report
// the limit to the user.
var ErrTooManyImages = fmt.Errorf("a post can include at most %d images", config.MaxImageCount)

// buildMetadata constructs the JSON metadata part. The tags field is always
// present, patched to an explicit empty array when nothing was entered, as
// the legacy update scheme required.
func buildMetadata(sub Submission) (string, error) {
	meta, err := sjson.Set("{}", "title", sub.Title)
	if err != nil {
		return "", fmt.Errorf("building metadata: %w", err)
	}
	meta, err = sjson.Set(meta, "content", sub.Content)
	if err != nil {
		return "", fmt.Errorf("building metadata: %w", err)
	}

	meta, err = sjson.SetRaw(meta, "tags", "[]")
	if err != nil {
		return "", fmt.Errorf("building metadata: %w", err)
	}
	for _, tag := range ParseTags(sub.Tags) {
		meta, err = sjson.Set(meta, "tags.-1", tag)
		if err != nil {
			return "", fmt.Errorf("building metadata: %w", err)
		}
	}
	return meta, nil
}

// buildMultipart assembles the request body: one JSON-encoded `request` part
// and zero or more `images` binary parts. Returns the body and the
// Content-Type header value carrying the boundary.
func buildMultipart(sub Submission) (*bytes.Buffer, string, error) {
	if len(sub.Images) > config.MaxImageCount {
		return nil, "", ErrTooManyImages
	}

	meta, err := buildMetadata(sub)
	if err != nil {
		return nil, "", err
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q`, metadataPartName))
	header.Set("Content-Type", "application/json")
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("creating metadata part: %w", err)
	}
	if _, err := io.WriteString(part, meta); err != nil {
		return nil, "", fmt.Errorf("writing metadata part: %w", err)
	}

	for _, img := range sub.Images {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name=%q; filename=%q`, imagePartName, img.Name))
		header.Set("Content-Type", imageContentType(img.Name))

		part, err := w.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("creating image part %s: %w", img.Name, err)
		}
		if _, err := io.Copy(part, img.Content); err != nil {
			return nil, "", fmt.Errorf("writing image part %s: %w", img.Name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("finalizing multipart body: %w", err)
	}
	return &body, w.FormDataContentType(), nil
}

func imageContentType(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
