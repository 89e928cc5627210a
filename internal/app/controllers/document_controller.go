package controllers

import (
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/emre/admission/internal/app/models/dto"
	"github.com/emre/admission/internal/app/services"
	"github.com/emre/admission/internal/middleware"
	"github.com/emre/admission/internal/pkg/apperrors"
	"github.com/emre/admission/internal/pkg/filestorage"
)

// DocumentController handles document download and deletion
type DocumentController struct {
	documentService services.DocumentService
	storage         filestorage.FileStorage
}

// NewDocumentController creates a new DocumentController
func NewDocumentController(documentService services.DocumentService, storage filestorage.FileStorage) *DocumentController {
	return &DocumentController{
		documentService: documentService,
		storage:         storage,
	}
}

// GetDocument streams the stored bytes of a document
// @Summary Download a document
// @Description Serves the stored file of a document record
// @Tags documents
// @Produce octet-stream
// @Param id path int true "Document ID" Format(int64) minimum(1)
// @Success 200 {file} file "Document bytes"
// @Failure 404 {object} dto.ErrorResponse "Document not found"
// @Router /documents/{id} [get]
func (c *DocumentController) GetDocument(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.ErrDocumentNotFound)
		return
	}

	doc, err := c.documentService.GetDocumentByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	fullPath := c.storage.FullPath(doc.FilePath)
	if fullPath == "" {
		middleware.HandleAPIError(ctx, apperrors.ErrDocumentNotFound)
		return
	}
	if _, err := os.Stat(fullPath); err != nil {
		// Row exists but the file is gone from storage
		middleware.HandleAPIError(ctx, apperrors.ErrDocumentNotFound)
		return
	}

	ctx.File(fullPath)
}

// DeleteDocument removes a document row and its backing file
// @Summary Delete a document
// @Description Deletes the stored file (tolerant of an already-missing file) and the document row
// @Tags documents
// @Produce json
// @Param id path int true "Document ID" Format(int64) minimum(1)
// @Success 200 {object} dto.MessageResponse "Document deleted successfully"
// @Failure 404 {object} dto.ErrorResponse "Document not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /documents/{id} [delete]
func (c *DocumentController) DeleteDocument(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.ErrDocumentNotFound)
		return
	}

	if err := c.documentService.DeleteDocument(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Document deleted successfully"))
}
