package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/emre/admission/internal/app/models"
	"github.com/emre/admission/internal/db"
	"github.com/emre/admission/internal/pkg/apperrors"
)

func newDocumentService(documents *stubDocuments, storage *fakeStorage) *documentServiceImpl {
	return &documentServiceImpl{
		documents: documents,
		storage:   storage,
		tx:        stubTx{},
		logger:    zerolog.Nop(),
	}
}

func TestGetDocumentByIDNotFound(t *testing.T) {
	documents := &stubDocuments{
		t: t,
		getByIDFn: func(_ context.Context, _ int64) (*models.Document, error) {
			return nil, nil
		},
	}
	svc := newDocumentService(documents, &fakeStorage{})

	_, err := svc.GetDocumentByID(context.Background(), 99)
	if !errors.Is(err, apperrors.ErrDocumentNotFound) {
		t.Fatalf("err = %v, want ErrDocumentNotFound", err)
	}
}

func TestGetDocumentByID(t *testing.T) {
	documents := &stubDocuments{
		t: t,
		getByIDFn: func(_ context.Context, id int64) (*models.Document, error) {
			return &models.Document{ID: id, Filename: "transcript.pdf", FilePath: "documents/7/transcript.pdf"}, nil
		},
	}
	svc := newDocumentService(documents, &fakeStorage{})

	doc, err := svc.GetDocumentByID(context.Background(), 3)
	if err != nil {
		t.Fatalf("GetDocumentByID: %v", err)
	}
	if doc.FilePath != "documents/7/transcript.pdf" {
		t.Fatalf("FilePath = %q", doc.FilePath)
	}
}

func TestDeleteDocumentNotFound(t *testing.T) {
	documents := &stubDocuments{
		t: t,
		getByIDFn: func(_ context.Context, _ int64) (*models.Document, error) {
			return nil, nil
		},
	}
	svc := newDocumentService(documents, &fakeStorage{})

	err := svc.DeleteDocument(context.Background(), 99)
	if !errors.Is(err, apperrors.ErrDocumentNotFound) {
		t.Fatalf("err = %v, want ErrDocumentNotFound", err)
	}
}

func TestDeleteDocumentRemovesFileThenRow(t *testing.T) {
	storage := &fakeStorage{}
	var rowDeleted bool

	documents := &stubDocuments{
		t: t,
		getByIDFn: func(_ context.Context, id int64) (*models.Document, error) {
			return &models.Document{ID: id, FilePath: "documents/7/transcript.pdf"}, nil
		},
		deleteFn: func(_ context.Context, _ db.Querier, _ int64) error {
			rowDeleted = true
			return nil
		},
	}
	svc := newDocumentService(documents, storage)

	if err := svc.DeleteDocument(context.Background(), 3); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}
	if len(storage.deleted) != 1 || storage.deleted[0] != "documents/7/transcript.pdf" {
		t.Fatalf("deleted files = %v", storage.deleted)
	}
	if !rowDeleted {
		t.Fatal("document row was not deleted")
	}
}

func TestDeleteDocumentStorageFailure(t *testing.T) {
	storage := &fakeStorage{deleteErr: errors.New("permission denied")}
	documents := &stubDocuments{
		t: t,
		getByIDFn: func(_ context.Context, id int64) (*models.Document, error) {
			return &models.Document{ID: id, FilePath: "documents/7/transcript.pdf"}, nil
		},
		// deleteFn intentionally unset: the row must survive when the
		// file cannot be removed
	}
	svc := newDocumentService(documents, storage)

	err := svc.DeleteDocument(context.Background(), 3)
	if !errors.Is(err, apperrors.ErrStorageFailure) {
		t.Fatalf("err = %v, want ErrStorageFailure", err)
	}
}
