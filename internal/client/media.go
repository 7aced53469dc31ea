package client

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"Mansoor88-6/vr-event-console/internal/models"

	"go.uber.org/zap"
)

// catalogPageSize is large enough to fetch the whole catalog in one call
const catalogPageSize = 1000

// ListMediaFiles returns the full media catalog
func (c *APIClient) ListMediaFiles(ctx context.Context) ([]models.MediaFile, error) {
	var resp models.ListResponse[models.MediaFile]
	if err := c.doJSON(ctx, http.MethodGet, pagePath("/api/v1/mediafile", 1, catalogPageSize), nil, &resp); err != nil {
		return nil, fmt.Errorf("list media files: %w", err)
	}
	return resp.Data, nil
}

// UploadFile streams one file to the backend as multipart form data
func (c *APIClient) UploadFile(ctx context.Context, filename string, content io.Reader, folder, createdBy string) (*models.UploadResponse, error) {
	if folder == "" {
		folder = "image"
	}

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)
	written := make(chan int64, 1)

	go func() {
		size, err := writeUploadForm(writer, filename, content, folder, createdBy)
		pw.CloseWithError(err)
		written <- size
	}()

	var resp models.UploadResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/mediafile/upload", writer.FormDataContentType(), pr, &resp)
	pr.Close()
	size := <-written
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", filename, err)
	}

	c.logger.Info("Media file uploaded",
		zap.String("filename", filename),
		zap.String("folder", folder),
		zap.Int64("bytes", size),
		zap.Int("files", len(resp.Files)),
	)
	return &resp, nil
}

// writeUploadForm writes the form fields followed by the file part and closes the writer
func writeUploadForm(writer *multipart.Writer, filename string, content io.Reader, folder, createdBy string) (int64, error) {
	if err := writer.WriteField("folder", folder); err != nil {
		return 0, fmt.Errorf("failed to write folder field: %w", err)
	}
	if createdBy != "" {
		if err := writer.WriteField("created_by", createdBy); err != nil {
			return 0, fmt.Errorf("failed to write created_by field: %w", err)
		}
	}
	part, err := writer.CreateFormFile("files", filename)
	if err != nil {
		return 0, fmt.Errorf("failed to create form file: %w", err)
	}
	size, err := io.Copy(part, content)
	if err != nil {
		return size, fmt.Errorf("failed to read upload content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return size, fmt.Errorf("failed to finish multipart body: %w", err)
	}
	return size, nil
}

func (c *APIClient) DeleteMediaFile(ctx context.Context, id string) error {
	var resp models.Response[any]
	if err := c.doJSON(ctx, http.MethodDelete, "/api/v1/mediafile/delete/"+url.PathEscape(id), nil, &resp); err != nil {
		return fmt.Errorf("delete media file %s: %w", id, err)
	}
	return nil
}

// OpenMedia streams the raw bytes at mediaURL; the caller closes the body
func (c *APIClient) OpenMedia(ctx context.Context, mediaURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	// downloads can outlive the API timeout
	resp, err := (&http.Client{Transport: c.httpClient.Transport}).Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", mediaURL, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &BackendError{
			Message:    fmt.Sprintf("media download returned status %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
	}
	return resp.Body, nil
}
