package cloud

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/sbxcloud/internal/common"
)

const defaultContentType = "application/octet-stream"

// ContentType guesses the MIME type of a file from its extension.
func ContentType(name string) string {
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	return defaultContentType
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// UploadFile streams the local file into the remote folder. The multipart
// body is produced on the fly, so the file is never held in memory.
func (c *HTTPClient) UploadFile(ctx context.Context, folderKey, localPath string) (*UploadResult, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	file, err := c.fs.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", common.ErrUpload, localPath, err)
	}
	defer file.Close()

	model, err := json.Marshal(struct {
		Key string `json:"key"`
	}{Key: folderKey})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", common.ErrUpload, localPath, err)
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	done := make(chan struct{})
	go func() {
		defer close(done)
		pw.CloseWithError(writeUploadBody(mw, file, filepath.Base(localPath), model))
	}()
	// Closing the read side unblocks the writer if the request ended before
	// the body was fully consumed; the file must outlive the writer.
	finish := func() {
		pr.Close()
		<-done
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(uploadPath, nil), pr)
	if err != nil {
		finish()
		return nil, fmt.Errorf("%w: %s: %v", common.ErrUpload, localPath, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var resp envelope
	body, err := c.do(req, &resp)
	finish()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", common.ErrUpload, localPath, err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("%w: %s: %s", common.ErrUpload, localPath, resp.message())
	}
	return &UploadResult{Raw: body}, nil
}

func writeUploadBody(mw *multipart.Writer, content io.Reader, filename string, model []byte) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="custom_file"; filename="%s"`, quoteEscaper.Replace(filename)))
	h.Set("Content-Type", ContentType(filename))

	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, content); err != nil {
		return err
	}
	if err := mw.WriteField("model", string(model)); err != nil {
		return err
	}
	return mw.Close()
}
