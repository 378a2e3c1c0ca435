package services

import (
	"mime"
	"strings"

	"github.com/rpupo63/data-table-transformer/errs"
)

// MaxUploadSize is the largest accepted file, 50 MB.
const MaxUploadSize int64 = 50 * 1024 * 1024

// AllowedUploadTypes are the MIME types of CSV, XLS and XLSX files
var AllowedUploadTypes = []string{
	"text/csv",
	"application/vnd.ms-excel",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// ValidateUpload checks the type first, then the size.
func ValidateUpload(contentType string, size int64) error {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.TrimSpace(contentType)
	}

	allowed := false
	for _, t := range AllowedUploadTypes {
		if strings.EqualFold(mediaType, t) {
			allowed = true
			break
		}
	}
	if !allowed {
		return errs.NewUnsupportedFileTypeError(contentType)
	}

	if size > MaxUploadSize {
		return errs.NewFileTooLargeError(size, MaxUploadSize)
	}
	return nil
}
