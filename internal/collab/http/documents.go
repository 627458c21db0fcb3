package http

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/collab/internal/collab/service"
	"github.com/aussiebroadwan/collab/pkg/httpx"
)

// DefaultMaxUploadBytes caps a whole multipart upload request.
const DefaultMaxUploadBytes = 32 << 20

type DocumentsHandler struct {
	DocumentService *service.DocumentService
	MaxUploadBytes  int64
}

// HandleList godoc
//
//	@Summary		List documents
//	@Tags			Documents
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Project ID"
//	@Success		200	{array}	collabsdk.DocumentResponse
//	@Failure		403	{object}	collabsdk.ErrorResponse	"forbidden"
//	@Failure		404	{object}	collabsdk.ErrorResponse	"not_found"
//	@Router			/v1/projects/{id}/documents [get].
func (h *DocumentsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	docs, err := h.DocumentService.ListDocuments(r.Context(), r.PathValue("id"), currentUser(r))
	if err != nil {
		writeServiceError(w, r, err, "list documents")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, mapSlice(docs, toDocumentResponse))
}

// HandleUpload godoc
//
//	@Summary		Upload documents
//	@Description	Multipart upload; every "file" part becomes a document. All or nothing.
//	@Tags			Documents
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string	true	"Project ID"
//	@Param			file	formData	file	true	"One or more files"
//	@Success		201		{array}		collabsdk.DocumentResponse
//	@Failure		400		{object}	collabsdk.ErrorResponse	"invalid_request"
//	@Failure		403		{object}	collabsdk.ErrorResponse	"forbidden"
//	@Failure		404		{object}	collabsdk.ErrorResponse	"not_found"
//	@Router			/v1/projects/{id}/documents [post].
func (h *DocumentsHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	files, err := h.readFiles(w, r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	docs, err := h.DocumentService.UploadDocuments(r.Context(), r.PathValue("id"), currentUser(r), files)
	if err != nil {
		writeServiceError(w, r, err, "upload documents")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, mapSlice(docs, toDocumentResponse))
}

// HandleDownload godoc
//
//	@Summary		Download document
//	@Tags			Documents
//	@Produce		octet-stream
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Document ID"
//	@Success		200	{file}	binary
//	@Failure		403	{object}	collabsdk.ErrorResponse	"forbidden"
//	@Failure		404	{object}	collabsdk.ErrorResponse	"not_found"
//	@Router			/v1/documents/{id} [get].
func (h *DocumentsHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	doc, data, err := h.DocumentService.DownloadDocument(r.Context(), r.PathValue("id"), currentUser(r))
	if err != nil {
		writeServiceError(w, r, err, "download document")
		return
	}

	httpx.NoCache(w)
	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.Filename}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// HandleReplace godoc
//
//	@Summary		Replace document
//	@Description	Swap the file behind a document. Exactly one "file" part.
//	@Tags			Documents
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string	true	"Document ID"
//	@Param			file	formData	file	true	"Replacement file"
//	@Success		200		{object}	collabsdk.DocumentResponse
//	@Failure		400		{object}	collabsdk.ErrorResponse	"invalid_request"
//	@Failure		403		{object}	collabsdk.ErrorResponse	"forbidden"
//	@Failure		404		{object}	collabsdk.ErrorResponse	"not_found"
//	@Router			/v1/documents/{id} [put].
func (h *DocumentsHandler) HandleReplace(w http.ResponseWriter, r *http.Request) {
	files, err := h.readFiles(w, r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	if len(files) != 1 {
		badRequest(w, "exactly one file is required")
		return
	}

	doc, err := h.DocumentService.ReplaceDocument(r.Context(), r.PathValue("id"), currentUser(r), files[0])
	if err != nil {
		writeServiceError(w, r, err, "replace document")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toDocumentResponse(doc))
}

// HandleDelete godoc
//
//	@Summary		Delete document
//	@Tags			Documents
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Document ID"
//	@Success		204
//	@Failure		403	{object}	collabsdk.ErrorResponse	"forbidden"
//	@Failure		404	{object}	collabsdk.ErrorResponse	"not_found"
//	@Router			/v1/documents/{id} [delete].
func (h *DocumentsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.DocumentService.DeleteDocument(r.Context(), r.PathValue("id"), currentUser(r)); err != nil {
		writeServiceError(w, r, err, "delete document")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// readFiles collects every "file" part of a multipart body.
func (h *DocumentsHandler) readFiles(w http.ResponseWriter, r *http.Request) ([]service.Upload, error) {
	limit := h.MaxUploadBytes
	if limit <= 0 {
		limit = DefaultMaxUploadBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	mr, err := r.MultipartReader()
	if err != nil {
		return nil, errors.New("expected a multipart/form-data body")
	}

	var files []service.Upload
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.New("malformed multipart body")
		}

		if part.FormName() != "file" {
			_ = part.Close()
			continue
		}

		up, err := readPart(part)
		if err != nil {
			return nil, err
		}
		files = append(files, up)
	}

	if len(files) == 0 {
		return nil, errors.New("at least one file is required")
	}
	return files, nil
}

func readPart(part *multipart.Part) (service.Upload, error) {
	defer part.Close()

	data, err := io.ReadAll(part)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return service.Upload{}, errors.New("upload is too large")
		}
		return service.Upload{}, errors.New("failed to read upload")
	}

	ct := part.Header.Get("Content-Type")
	if ct == "application/octet-stream" {
		ct = ""
	}
	return service.Upload{
		Filename:    part.FileName(),
		ContentType: ct,
		Data:        data,
	}, nil
}
