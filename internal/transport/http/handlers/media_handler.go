package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	authsvc "github.com/nkarpovich/duet-backend/internal/services/auth"
	mediasvc "github.com/nkarpovich/duet-backend/internal/services/media"
	"github.com/nkarpovich/duet-backend/internal/transport/http/dto"
	httperrors "github.com/nkarpovich/duet-backend/internal/transport/http/errors"
)

// The multipart form cap leaves headroom above the per-file limit so the
// size check in the media service produces the specific error, not a
// generic body-too-large failure.
const maxUploadFormSize = 64 << 20

type MediaHandler struct {
	service *mediasvc.Service
}

func NewMediaHandler(service *mediasvc.Service) *MediaHandler {
	return &MediaHandler{service: service}
}

func (h *MediaHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "media service is unavailable")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadFormSize)
	if err := r.ParseMultipartForm(maxUploadFormSize); err != nil {
		writeBadRequest(w, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeBadRequest(w, "file is required")
		return
	}
	defer file.Close()

	if header == nil || header.Size <= 0 {
		writeBadRequest(w, "file is empty")
		return
	}

	avatar, err := h.service.UploadAvatar(r.Context(), identity.UserID, mediasvc.Upload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
		Size:        header.Size,
	})
	if err != nil {
		handleMediaError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.AvatarResponse{AvatarURL: avatar.URL})
}

func (h *MediaHandler) UploadPhotos(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "media service is unavailable")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadFormSize)
	if err := r.ParseMultipartForm(maxUploadFormSize); err != nil {
		writeBadRequest(w, "invalid multipart form")
		return
	}
	if r.MultipartForm == nil || len(r.MultipartForm.File) == 0 {
		writeBadRequest(w, "at least one file is required")
		return
	}

	headers := make([]*multipart.FileHeader, 0)
	for _, fieldHeaders := range r.MultipartForm.File {
		headers = append(headers, fieldHeaders...)
	}

	uploads := make([]mediasvc.Upload, 0, len(headers))
	openFiles := make([]multipart.File, 0, len(headers))
	defer func() {
		for _, file := range openFiles {
			_ = file.Close()
		}
	}()

	for _, header := range headers {
		if header == nil || header.Size <= 0 {
			writeBadRequest(w, "file is empty")
			return
		}
		file, err := header.Open()
		if err != nil {
			writeBadRequest(w, "invalid multipart file")
			return
		}
		openFiles = append(openFiles, file)
		uploads = append(uploads, mediasvc.Upload{
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Body:        file,
			Size:        header.Size,
		})
	}

	photos, err := h.service.UploadPhotos(r.Context(), identity.UserID, uploads)
	if err != nil {
		handleMediaError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.PhotoListResponse{Items: toPhotoResponses(photos)})
}

func (h *MediaHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "media service is unavailable")
		return
	}

	photoID, ok := pathID(r, "photoId")
	if !ok {
		writeBadRequest(w, "invalid photo id")
		return
	}

	if err := h.service.DeletePhoto(r.Context(), identity.UserID, photoID); err != nil {
		handleMediaError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.DeletePhotoResponse{OK: true})
}

func handleMediaError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, mediasvc.ErrValidation):
		writeBadRequest(w, "invalid media request")
	case errors.Is(err, mediasvc.ErrUnsupportedMIME):
		writeBadRequest(w, "unsupported content type")
	case errors.Is(err, mediasvc.ErrTooLarge):
		writeBadRequest(w, "file exceeds the size limit")
	case errors.Is(err, mediasvc.ErrBatchTooLarge):
		writeBadRequest(w, "too many files in one upload")
	case errors.Is(err, mediasvc.ErrPhotoNotFound):
		writeNotFound(w, "photo not found")
	default:
		writeInternal(w, "media operation failed")
	}
}
