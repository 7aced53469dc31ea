package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"Mansoor88-6/vr-event-console/internal/catalog"
	"Mansoor88-6/vr-event-console/internal/client"
	"Mansoor88-6/vr-event-console/internal/models"
	"Mansoor88-6/vr-event-console/internal/storage"

	"go.uber.org/zap"
)

// uploadFolder is where operator uploads land on the backend
const uploadFolder = "video"

// MediaBackend is the part of the API client media management uses
type MediaBackend interface {
	ListMediaFiles(ctx context.Context) ([]models.MediaFile, error)
	UploadFile(ctx context.Context, filename string, content io.Reader, folder, createdBy string) (*models.UploadResponse, error)
	DeleteMediaFile(ctx context.Context, id string) error
	OpenMedia(ctx context.Context, mediaURL string) (io.ReadCloser, error)
}

// MediaView is a media file with its playable URL
type MediaView struct {
	models.MediaFile
	URL string `json:"url"`
}

type MediaService struct {
	backend      MediaBackend
	sink         storage.Sink
	mediaBaseURL string
	operator     string
	logger       *zap.Logger
}

func NewMediaService(backend MediaBackend, sink storage.Sink, mediaBaseURL, operator string, logger *zap.Logger) *MediaService {
	return &MediaService{
		backend:      backend,
		sink:         sink,
		mediaBaseURL: mediaBaseURL,
		operator:     operator,
		logger:       logger,
	}
}

// ListMedia returns the media files whose title matches query
func (s *MediaService) ListMedia(ctx context.Context, query string) ([]MediaView, error) {
	files, err := s.backend.ListMediaFiles(ctx)
	if err != nil {
		return nil, err
	}

	matched := catalog.SearchMedia(files, query)
	out := make([]MediaView, 0, len(matched))
	for _, f := range matched {
		out = append(out, MediaView{MediaFile: f, URL: catalog.MediaURL(s.mediaBaseURL, f.Path)})
	}
	return out, nil
}

// Upload sends one file to the backend on behalf of the operator
func (s *MediaService) Upload(ctx context.Context, filename string, content io.Reader) ([]models.MediaFile, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, &ValidationError{Field: "files", Message: "a file is required"}
	}

	resp, err := s.backend.UploadFile(ctx, filename, content, uploadFolder, s.operator)
	if err != nil {
		return nil, err
	}
	return resp.Files, nil
}

func (s *MediaService) Delete(ctx context.Context, id string) error {
	if err := s.backend.DeleteMediaFile(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Media file deleted", zap.String("media_id", id))
	return nil
}

// Download copies a media file into the configured sink and returns its location
func (s *MediaService) Download(ctx context.Context, id string) (string, error) {
	files, err := s.backend.ListMediaFiles(ctx)
	if err != nil {
		return "", err
	}

	var media *models.MediaFile
	for i := range files {
		if files[i].ID == id {
			media = &files[i]
			break
		}
	}
	if media == nil {
		return "", &client.NotFoundError{Message: fmt.Sprintf("media file %s not found", id), StatusCode: 404}
	}

	body, err := s.backend.OpenMedia(ctx, catalog.MediaURL(s.mediaBaseURL, media.Path))
	if err != nil {
		return "", err
	}
	defer body.Close()

	location, err := s.sink.Save(ctx, downloadName(*media), body)
	if err != nil {
		return "", fmt.Errorf("failed to store media %s: %w", id, err)
	}
	return location, nil
}

func downloadName(m models.MediaFile) string {
	switch {
	case m.Filename != "":
		return m.Filename
	case m.OriginalName != "":
		return m.OriginalName
	default:
		return path.Base(m.Path)
	}
}
