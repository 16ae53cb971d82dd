package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/dvloznov/statement-ingest/internal/api/middleware"
	"github.com/dvloznov/statement-ingest/internal/gcs"
	"github.com/dvloznov/statement-ingest/internal/gcsuploader"
	"github.com/dvloznov/statement-ingest/internal/jobs"
	"github.com/dvloznov/statement-ingest/internal/logger"
	"github.com/google/uuid"
)

// multipartOverhead is allowed on top of the file cap for form boundaries
// and the other form fields.
const multipartOverhead = 64 << 10

// UploadsHandler accepts statement uploads and enqueues import jobs.
type UploadsHandler struct {
	publisher jobs.Publisher
	storage   gcs.StorageService
	bucket    string
	maxBytes  int64
}

// NewUploadsHandler creates an uploads handler. Statements are archived to
// bucket when both storage and bucket are set; otherwise the job carries the
// content in memory.
func NewUploadsHandler(publisher jobs.Publisher, storage gcs.StorageService, bucket string, maxBytes int64) *UploadsHandler {
	return &UploadsHandler{
		publisher: publisher,
		storage:   storage,
		bucket:    bucket,
		maxBytes:  maxBytes,
	}
}

type uploadResponse struct {
	JobID    string         `json:"job_id"`
	UploadID string         `json:"upload_id"`
	Status   jobs.JobStatus `json:"status"`
	GCSURI   string         `json:"gcs_uri,omitempty"`
}

// CreateUpload handles POST /api/uploads. The statement is sent either as
// multipart field "file" or as the raw request body.
func (h *UploadsHandler) CreateUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)
	userID := middleware.UserIDFromContext(ctx)

	if declared := r.Header.Get("X-File-Size"); declared != "" {
		if size, err := strconv.ParseInt(declared, 10, 64); err == nil && size > h.maxBytes {
			middleware.WriteError(w, http.StatusRequestEntityTooLarge, "Statement exceeds upload size limit")
			return
		}
	}
	if r.ContentLength > h.maxBytes+multipartOverhead {
		middleware.WriteError(w, http.StatusRequestEntityTooLarge, "Statement exceeds upload size limit")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)

	content, fileName, err := h.readStatement(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || errors.Is(err, errTooLarge) {
			middleware.WriteError(w, http.StatusRequestEntityTooLarge, "Statement exceeds upload size limit")
			return
		}
		log.Warn().Err(err).Msg("Failed to read upload")
		middleware.WriteError(w, http.StatusBadRequest, "Invalid upload")
		return
	}
	if len(content) == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "Statement file is empty")
		return
	}

	ownerName := r.Header.Get("X-Owner-Name")
	if ownerName == "" {
		ownerName = r.FormValue("owner_name")
	}

	job := &jobs.ImportStatementJob{
		UploadID:  uuid.NewString(),
		UserID:    userID,
		OwnerName: ownerName,
		FileName:  fileName,
		Size:      int64(len(content)),
	}

	if h.storage != nil && h.bucket != "" {
		object := gcsuploader.ObjectName(userID, job.UploadID, fileName)
		uri, err := h.storage.UploadBytes(ctx, h.bucket, object, content, "text/csv")
		if err != nil {
			log.Error().Err(err).Str("upload_id", job.UploadID).Msg("Failed to archive statement")
			middleware.WriteError(w, http.StatusBadGateway, "Failed to archive statement")
			return
		}
		job.GCSURI = uri
	} else {
		job.Content = content
	}

	if err := h.publisher.PublishImportStatement(ctx, job); err != nil {
		log.Error().Err(err).Str("upload_id", job.UploadID).Msg("Failed to enqueue import job")
		middleware.WriteError(w, http.StatusServiceUnavailable, "Failed to enqueue import")
		return
	}

	log.Info().
		Str("job_id", job.JobID).
		Str("upload_id", job.UploadID).
		Str("user_id", userID).
		Str("file_name", fileName).
		Int64("size", job.Size).
		Msg("Statement upload accepted")

	middleware.WriteJSON(w, http.StatusAccepted, uploadResponse{
		JobID:    job.JobID,
		UploadID: job.UploadID,
		Status:   job.Status,
		GCSURI:   job.GCSURI,
	})
}

var errTooLarge = errors.New("statement exceeds upload size limit")

func (h *UploadsHandler) readStatement(r *http.Request) ([]byte, string, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(h.maxBytes + multipartOverhead); err != nil {
			return nil, "", err
		}
		f, header, err := r.FormFile("file")
		if err != nil {
			return nil, "", err
		}
		defer f.Close()
		if header.Size > h.maxBytes {
			return nil, "", errTooLarge
		}
		content, err := h.readLimited(f)
		return content, header.Filename, err
	}

	fileName := r.Header.Get("X-File-Name")
	if fileName == "" {
		fileName = r.URL.Query().Get("file_name")
	}
	content, err := h.readLimited(r.Body)
	return content, fileName, err
}

func (h *UploadsHandler) readLimited(f io.Reader) ([]byte, error) {
	content, err := io.ReadAll(io.LimitReader(f, h.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(content)) > h.maxBytes {
		return nil, errTooLarge
	}
	return content, nil
}

