package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/data-table-transformer/errs"
	"github.com/rpupo63/data-table-transformer/models"
	"github.com/rpupo63/data-table-transformer/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// multipartSlack covers the multipart framing and the small form fields
// sent along with the file.
const multipartSlack = 1 << 20

// maxFormMemory is how much of a multipart body is buffered before spilling to disk
const maxFormMemory = 8 << 20

type importHandler struct {
	responder Responder
	logger    zerolog.Logger
	importer  *services.Importer
	progress  *services.ProgressTracker
}

func newImportHandler(importer *services.Importer, progress *services.ProgressTracker) importHandler {
	logger := log.With().Str("handlerName", "importHandler").Logger()

	return importHandler{
		responder: NewResponder(logger),
		logger:    logger,
		importer:  importer,
		progress:  progress,
	}
}

// uploadFile stores a CSV or Excel file and records a draft project for it.
// The client polls the progress endpoint with the id it sent in X-Upload-ID
// or the upload_id form field.
func (h importHandler) uploadFile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := ctxGetUser(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, services.MaxUploadSize+multipartSlack)
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				h.responder.WriteError(w, errs.NewFileTooLargeError(r.ContentLength, services.MaxUploadSize))
				return
			}
			h.responder.WriteError(w, errs.NewMalformedPayloadError("multipart", err))
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("file")
		if err != nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("file"))
			return
		}
		defer file.Close()

		uploadID := r.Header.Get("X-Upload-ID")
		if uploadID == "" {
			uploadID = r.FormValue("upload_id")
		}

		result, err := h.importer.ImportFile(r.Context(), *user, services.FileUpload{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        file,
			UploadID:    uploadID,
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().
			Str("projectID", result.Project.ID.String()).
			Str("storedIn", string(result.StoredIn)).
			Msg("file imported")

		h.responder.WriteJSONWithStatus(w, http.StatusCreated, result)
	}
}

func (h importHandler) uploadProgress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := ctxGetUser(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		uploadID := chi.URLParam(r, "uploadID")

		percent, ok := h.progress.Get(services.ProgressKey(user.ID, uploadID))
		if !ok {
			h.responder.WriteError(w, errs.NewNotFound("upload"))
			return
		}

		h.responder.WriteJSON(w, UploadProgressResponse{UploadID: uploadID, Percent: percent})
	}
}

// connectS3 records a draft project for an object in the caller's own bucket.
// The secret key is only used for the connection and never stored.
func (h importHandler) connectS3() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := ctxGetUser(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var cfg models.S3Config
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode s3 request body")
			h.responder.WriteError(w, errs.NewMalformedPayloadError("json", err))
			return
		}

		result, err := h.importer.ConnectS3(r.Context(), *user, cfg)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().
			Str("projectID", result.Project.ID.String()).
			Str("storedIn", string(result.StoredIn)).
			Str("bucket", cfg.Bucket).
			Msg("s3 source imported")

		h.responder.WriteJSONWithStatus(w, http.StatusCreated, result)
	}
}
