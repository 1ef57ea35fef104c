package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/estoico/stoic-rag-backend/internal/logger"
	"github.com/estoico/stoic-rag-backend/internal/services"
)

// Documents above this size are rejected before any embedding spend.
const maxDocumentBytes = 20 << 20

type DocumentHandler struct {
	log          *logger.Logger
	ingestionSvc services.IngestionService
}

func NewDocumentHandler(log *logger.Logger, ingestionSvc services.IngestionService) *DocumentHandler {
	return &DocumentHandler{
		log:          log.With("handler", "DocumentHandler"),
		ingestionSvc: ingestionSvc,
	}
}

// POST /api/admin/documents
// Multipart upload of an extracted-text document to ingest into the RAG
// store.
func (h *DocumentHandler) Ingest(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "missing_file", errors.New("multipart field 'file' is required"))
		return
	}
	if fileHeader.Size > maxDocumentBytes {
		RespondError(c, http.StatusRequestEntityTooLarge, "file_too_large", errors.New("document exceeds the 20MB limit"))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "unreadable_file", err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxDocumentBytes+1))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "unreadable_file", err)
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "text/plain"
	}

	result, err := h.ingestionSvc.IngestDocument(c.Request.Context(), fileHeader.Filename, data, contentType)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "ingestion_failed", err)
		return
	}
	RespondOK(c, result)
}
