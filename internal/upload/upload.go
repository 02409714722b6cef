// Package upload handles payment-proof PDF intake.
package upload

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	dErrors "pccreg/pkg/domain-errors"
)

// MaxFileSize caps accepted uploads at 2 MiB.
const MaxFileSize = 2 << 20

// pdfMagic is the leading byte signature of every PDF file.
var pdfMagic = []byte("%PDF-")

// BlobStore persists an uploaded file and returns its public URL.
type BlobStore interface {
	Save(ctx context.Context, name string, content io.Reader) (string, error)
}

// Service validates and stores payment proofs.
type Service struct {
	blobs  BlobStore
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func New(blobs BlobStore, opts ...Option) *Service {
	s := &Service{
		blobs:  blobs,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Result describes a stored upload.
type Result struct {
	URL string `json:"url"`
}

// Store validates a payment proof and writes it to the blob store. Only PDF
// files up to MaxFileSize are accepted; the content is sniffed, so renaming a
// JPEG to .pdf does not get it through.
func (s *Service) Store(ctx context.Context, filename string, size int64, content io.Reader) (*Result, error) {
	if size > MaxFileSize {
		return nil, dErrors.New(dErrors.CodeInvalidUpload, "file exceeds the 2MB limit")
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return nil, dErrors.New(dErrors.CodeInvalidUpload, "only PDF files are accepted")
	}

	head := make([]byte, len(pdfMagic))
	n, err := io.ReadFull(content, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read upload")
	}
	if n < len(pdfMagic) || !bytes.Equal(head[:n], pdfMagic) {
		return nil, dErrors.New(dErrors.CodeInvalidUpload, "only PDF files are accepted")
	}

	// Re-assemble the sniffed prefix with the rest of the stream, capped in
	// case the declared size lied.
	rest := io.LimitReader(content, MaxFileSize-int64(len(head))+1)
	name := uuid.NewString() + ".pdf"

	url, err := s.blobs.Save(ctx, name, io.MultiReader(bytes.NewReader(head), rest))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store upload")
	}

	s.logger.InfoContext(ctx, "payment proof stored", "name", name, "size", size)
	return &Result{URL: url}, nil
}
