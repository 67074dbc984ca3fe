package services

import (
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// MaxImagesPerUpload caps one submission; extra files are silently dropped.
const MaxImagesPerUpload = 6

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// UploadService writes accepted image files into a fixed directory and
// hands back the generated filenames.
type UploadService struct {
	Dir string
}

func NewUploadService(dir string) *UploadService {
	return &UploadService{Dir: dir}
}

// SaveVehicleImages stores up to MaxImagesPerUpload files. Files with a
// missing filename or a disallowed extension are skipped, and a failure
// writing one file never aborts the rest of the batch. The returned names
// keep the relative order of the accepted inputs.
func (s *UploadService) SaveVehicleImages(files []*multipart.FileHeader) []string {
	if len(files) > MaxImagesPerUpload {
		files = files[:MaxImagesPerUpload]
	}

	saved := make([]string, 0, len(files))
	for _, fh := range files {
		if fh == nil || fh.Filename == "" {
			continue
		}
		if !AllowedImageName(fh.Filename) {
			log.WithField("file", fh.Filename).Debug("skipping upload with disallowed extension")
			continue
		}

		name := uuid.NewString() + "_" + SanitizeFilename(fh.Filename)
		if err := s.writeFile(fh, name); err != nil {
			log.WithError(err).WithField("file", fh.Filename).Error("failed to store uploaded image")
			continue
		}
		saved = append(saved, name)
	}
	return saved
}

func (s *UploadService) writeFile(fh *multipart.FileHeader, name string) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return err
	}

	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

// AllowedImageName reports whether the filename carries an accepted image
// extension (case-insensitive).
func AllowedImageName(name string) bool {
	return allowedImageExts[strings.ToLower(filepath.Ext(name))]
}

// SanitizeFilename strips path components and anything outside
// [A-Za-z0-9._-] from an uploaded name. Commas can never survive, which the
// image-list column encoding depends on.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	name = strings.ReplaceAll(name, " ", "_")

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
		}
	}

	out := strings.TrimLeft(b.String(), ".")
	if out == "" {
		out = "file"
	}
	return out
}
