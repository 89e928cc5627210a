package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/emre/admission/internal/app/models"
	"github.com/emre/admission/internal/app/repositories"
	"github.com/emre/admission/internal/db"
	"github.com/emre/admission/internal/pkg/apperrors"
	"github.com/emre/admission/internal/pkg/filestorage"
)

// DocumentService defines standalone document operations
type DocumentService interface {
	GetDocumentByID(ctx context.Context, id int64) (*models.Document, error)
	DeleteDocument(ctx context.Context, id int64) error
}

// documentServiceImpl implements DocumentService
type documentServiceImpl struct {
	documents documentStore
	storage   filestorage.FileStorage
	tx        txRunner
	logger    zerolog.Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	documents *repositories.DocumentRepository,
	storage filestorage.FileStorage,
	database *db.PostgresDB,
	logger zerolog.Logger,
) DocumentService {
	return &documentServiceImpl{
		documents: documents,
		storage:   storage,
		tx:        database,
		logger:    logger,
	}
}

// GetDocumentByID retrieves a document record by ID
func (s *documentServiceImpl) GetDocumentByID(ctx context.Context, id int64) (*models.Document, error) {
	doc, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting document: %w", err)
	}
	if doc == nil {
		return nil, apperrors.ErrDocumentNotFound
	}

	return doc, nil
}

// DeleteDocument removes the backing file and then the row. The file
// delete tolerates an already-missing target, so calling this twice ends
// in ErrDocumentNotFound, never a crash.
func (s *documentServiceImpl) DeleteDocument(ctx context.Context, id int64) error {
	doc, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("error getting document: %w", err)
	}
	if doc == nil {
		return apperrors.ErrDocumentNotFound
	}

	if err := s.storage.Delete(doc.FilePath); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("Failed to delete file for document %d: %v", id, err))
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context, q db.Querier) error {
		return s.documents.Delete(ctx, q, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Int64("documentId", id).Msg("Document deleted")
	return nil
}
