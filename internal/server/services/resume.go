package services

import (
	"context"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/dmitrijs2005/jobboard/internal/filex"
	"github.com/dmitrijs2005/jobboard/internal/logging"
	"github.com/dmitrijs2005/jobboard/internal/server/blobstore"
	"github.com/dmitrijs2005/jobboard/internal/server/config"
	"github.com/dmitrijs2005/jobboard/internal/server/models"
)

// ResumePrefix is the object key prefix resumes are stored under.
const ResumePrefix = "resumes"

// Resume content types.
const (
	TypePDF  = "application/pdf"
	TypeDoc  = "application/msword"
	TypeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	TypePNG  = "image/png"
	TypeJPEG = "image/jpeg"
	TypeWebP = "image/webp"
)

// AcceptedResumeTypes maps every accepted resume content type to the
// extension its stored object gets.
var AcceptedResumeTypes = map[string]string{
	TypePDF:  ".pdf",
	TypeDoc:  ".doc",
	TypeDocx: ".docx",
	TypePNG:  ".png",
	TypeJPEG: ".jpg",
	TypeWebP: ".webp",
}

var resumeTypesByExt = map[string]string{
	".pdf":  TypePDF,
	".doc":  TypeDoc,
	".docx": TypeDocx,
	".png":  TypePNG,
	".jpg":  TypeJPEG,
	".jpeg": TypeJPEG,
	".webp": TypeWebP,
}

// Upload is a resume file as received from the caller.
type Upload struct {
	Filename    string
	ContentType string
	// Size is the declared size, or -1 when unknown.
	Size int64
	Body io.Reader
}

// ResumeManager stages resumes into blob storage and releases them again.
type ResumeManager interface {
	Stage(ctx context.Context, up *Upload) (models.Resume, error)
	Release(ctx context.Context, publicID string)
	Link(ctx context.Context, publicID string) (string, error)
}

// ResumeService validates resumes, spools them to a local staging file and
// forwards them to a blobstore.Store.
type ResumeService struct {
	store      blobstore.Store
	log        logging.Logger
	maxBytes   int64
	stagingDir string
	timeout    time.Duration
	presignTTL time.Duration
}

func NewResumeService(store blobstore.Store, cfg *config.Config, log logging.Logger) *ResumeService {
	return &ResumeService{
		store:      store,
		log:        log,
		maxBytes:   cfg.ResumeMaxBytes,
		stagingDir: cfg.ResumeStagingDir,
		timeout:    cfg.UploadTimeout,
		presignTTL: cfg.PresignTTL,
	}
}

// Stage checks up and stores it. The staging file is removed before Stage
// returns, whatever the outcome. A store that does not answer within the
// upload timeout fails with ErrUploadFailed.
func (s *ResumeService) Stage(ctx context.Context, up *Upload) (models.Resume, error) {
	if up == nil || up.Body == nil {
		return models.Resume{}, common.Validationf("Resume file is required")
	}
	if up.Size > s.maxBytes {
		return models.Resume{}, s.tooLarge()
	}

	dir, err := filex.EnsureDir(s.stagingDir)
	if err != nil {
		return models.Resume{}, common.UploadFailed(err)
	}

	f, err := os.CreateTemp(dir, "resume-*")
	if err != nil {
		return models.Resume{}, common.UploadFailed(err)
	}
	defer func() {
		_ = f.Close()
		if err := filex.RemoveIfExists(f.Name()); err != nil {
			s.log.Warn(ctx, "failed to remove staged resume", "path", f.Name(), "error", err)
		}
	}()

	n, err := io.Copy(f, io.LimitReader(up.Body, s.maxBytes+1))
	if err != nil {
		return models.Resume{}, common.UploadFailed(err)
	}
	if n > s.maxBytes {
		return models.Resume{}, s.tooLarge()
	}
	if n == 0 {
		return models.Resume{}, common.Hintf(common.ErrResumeRejected, "Resume file is empty")
	}

	head := make([]byte, 512)
	k, err := f.ReadAt(head, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return models.Resume{}, common.UploadFailed(err)
	}

	contentType := resolveContentType(up.ContentType, up.Filename, head[:k])
	ext, ok := AcceptedResumeTypes[contentType]
	if !ok {
		return models.Resume{}, common.Hintf(common.ErrResumeRejected,
			"Invalid file type. Please upload your resume in PDF, Word, PNG, JPEG or WEBP format")
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return models.Resume{}, common.UploadFailed(err)
	}

	uploadCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	key := blobstore.NewKey(ResumePrefix, ext)
	url, err := s.store.Put(uploadCtx, key, contentType, f, n)
	if err != nil {
		return models.Resume{}, common.UploadFailed(err)
	}

	s.log.Debug(ctx, "resume staged", "public_id", key, "bytes", n, "content_type", contentType)

	return models.Resume{URL: url, PublicID: key}, nil
}

func (s *ResumeService) tooLarge() error {
	return common.Hintf(common.ErrResumeRejected, "Resume must not exceed %d MB", s.maxBytes>>20)
}

// Release deletes publicID from storage. Failures are logged, never returned;
// it also outlives a cancelled ctx so cleanup after a finished request still runs.
func (s *ResumeService) Release(ctx context.Context, publicID string) {
	if publicID == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	if err := s.store.Delete(ctx, publicID); err != nil {
		s.log.Warn(ctx, "failed to release resume", "public_id", publicID, "error", err)
	}
}

// Link returns a short-lived download URL for publicID.
func (s *ResumeService) Link(ctx context.Context, publicID string) (string, error) {
	url, err := s.store.PresignGet(ctx, publicID, s.presignTTL)
	if err != nil {
		return "", errors.Wrap(err, "presign resume")
	}
	return url, nil
}

// resolveContentType trusts a specific declared type, then what the bytes
// look like, then the file extension.
func resolveContentType(declared, filename string, head []byte) string {
	if mt, _, err := mime.ParseMediaType(declared); err == nil && mt != "application/octet-stream" {
		return mt
	}

	if mt, _, err := mime.ParseMediaType(http.DetectContentType(head)); err == nil {
		if _, ok := AcceptedResumeTypes[mt]; ok {
			return mt
		}
	}

	if mt, ok := resumeTypesByExt[strings.ToLower(filepath.Ext(filename))]; ok {
		return mt
	}

	return "application/octet-stream"
}

var _ ResumeManager = (*ResumeService)(nil)
