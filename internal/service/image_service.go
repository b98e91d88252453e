package service

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/yourorg/nestboxd/internal/observability/metrics"
	"golang.org/x/crypto/sha3"
)

const copyBufferSize = 32 * 1024

// ImageService ingests multipart uploads into content-addressed storage.
// Each part is staged under a random name, sniffed and digested, then
// renamed to "<hex sha3-256>.<ext>" so identical content always lands on
// the identical file. Failed parts leave nothing behind.
type ImageService struct {
	imageDir   string
	stagingDir string
	logger     *slog.Logger
}

// NewImageService creates the image service and its storage directories
func NewImageService(imageDir string, logger *slog.Logger) (*ImageService, error) {
	if logger == nil {
		logger = slog.Default()
	}
	stagingDir := filepath.Join(imageDir, "staging")
	if err := os.MkdirAll(stagingDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create image directories: %w", err)
	}
	return &ImageService{imageDir: imageDir, stagingDir: stagingDir, logger: logger}, nil
}

// StagingDir exposes the staging location for the sweeper.
func (s *ImageService) StagingDir() string {
	return s.stagingDir
}

// Ingest consumes the multipart stream and returns one content-derived
// file name per successfully stored part. A part whose type cannot be
// recognized, or that fails anywhere along the way (including a client
// disconnect), is cleaned up and omitted; Ingest itself never fails.
func (s *ImageService) Ingest(ctx context.Context, reader *multipart.Reader) []string {
	fileNames := []string{}
	for {
		part, err := reader.NextPart()
		if err != nil {
			if err != io.EOF {
				s.logger.Warn("multipart stream ended early", slog.String("error", err.Error()))
			}
			break
		}

		name, err := s.ingestPart(ctx, part)
		part.Close()
		if err != nil {
			metrics.ObserveIngest("rejected")
			s.logger.Warn("upload part discarded", slog.String("error", err.Error()))
			continue
		}
		metrics.ObserveIngest("accepted")
		fileNames = append(fileNames, name)
	}
	return fileNames
}

func (s *ImageService) ingestPart(ctx context.Context, part *multipart.Part) (string, error) {
	stagingPath := filepath.Join(s.stagingDir, uuid.NewString())
	if err := s.stage(ctx, part, stagingPath); err != nil {
		os.Remove(stagingPath)
		return "", err
	}

	name, err := s.contentName(stagingPath)
	if err != nil {
		os.Remove(stagingPath)
		return "", err
	}

	// Atomic rename is the dedup point: identical content produces the
	// identical target, and overwriting it with the same bytes is safe.
	if err := os.Rename(stagingPath, filepath.Join(s.imageDir, name)); err != nil {
		os.Remove(stagingPath)
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return name, nil
}

// stage streams the part to the staging file chunk by chunk, honoring
// context cancellation between chunks.
func (s *ImageService) stage(ctx context.Context, part *multipart.Part, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create staging file: %w", err)
	}
	defer f.Close()

	buf := make([]byte, copyBufferSize)
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("upload aborted: %w", err)
		}
		n, readErr := part.Read(buf)
		if n > 0 {
			if _, writeErr := f.Write(buf[:n]); writeErr != nil {
				return fmt.Errorf("failed to write staging file: %w", writeErr)
			}
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return fmt.Errorf("failed to read upload: %w", readErr)
		}
	}
}

// contentName sniffs the media type from the stored bytes and computes
// the streaming digest; client-supplied metadata is never trusted.
func (s *ImageService) contentName(path string) (string, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to sniff media type: %w", err)
	}
	ext := mtype.Extension()
	if ext == "" {
		return "", fmt.Errorf("unrecognized media type %s", mtype.String())
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to reopen staging file: %w", err)
	}
	defer f.Close()

	hasher := sha3.New256()
	if _, err := io.CopyBuffer(hasher, f, make([]byte, copyBufferSize)); err != nil {
		return "", fmt.Errorf("failed to digest upload: %w", err)
	}
	return hex.EncodeToString(hasher.Sum(nil)) + ext, nil
}
