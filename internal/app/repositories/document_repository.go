package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emre/admission/internal/app/models"
	"github.com/emre/admission/internal/db"
	"github.com/emre/admission/internal/pkg/apperrors"
)

// DocumentRepository handles database operations for documents
type DocumentRepository struct {
	db *pgxpool.Pool
}

// NewDocumentRepository creates a new DocumentRepository
func NewDocumentRepository(db *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Create inserts a document row and returns the generated id
func (r *DocumentRepository) Create(ctx context.Context, q db.Querier, doc *models.Document) (int64, error) {
	query := `
		INSERT INTO documents (filename, file_path, file_type, student_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, uploaded_at
	`

	err := q.QueryRow(ctx, query,
		doc.Filename,
		doc.FilePath,
		doc.FileType,
		doc.StudentID,
	).Scan(&doc.ID, &doc.UploadedAt)

	if err != nil {
		return 0, fmt.Errorf("error creating document: %w", err)
	}

	return doc.ID, nil
}

// GetByID retrieves a document by ID. Returns (nil, nil) when no row exists.
func (r *DocumentRepository) GetByID(ctx context.Context, id int64) (*models.Document, error) {
	query := `
		SELECT id, filename, file_path, file_type, uploaded_at, student_id
		FROM documents
		WHERE id = $1
	`

	var doc models.Document
	err := r.db.QueryRow(ctx, query, id).Scan(
		&doc.ID,
		&doc.Filename,
		&doc.FilePath,
		&doc.FileType,
		&doc.UploadedAt,
		&doc.StudentID,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting document: %w", err)
	}

	return &doc, nil
}

// FindByStudent returns the documents of a student ordered by id.
// Callers fetch the association explicitly; nothing is lazy-loaded.
func (r *DocumentRepository) FindByStudent(ctx context.Context, studentID int64) ([]models.Document, error) {
	query := `
		SELECT id, filename, file_path, file_type, uploaded_at, student_id
		FROM documents
		WHERE student_id = $1
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("error getting documents: %w", err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		var doc models.Document
		if err := rows.Scan(
			&doc.ID,
			&doc.Filename,
			&doc.FilePath,
			&doc.FileType,
			&doc.UploadedAt,
			&doc.StudentID,
		); err != nil {
			return nil, fmt.Errorf("error scanning document: %w", err)
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading documents: %w", err)
	}

	return docs, nil
}

// Delete deletes a document row
func (r *DocumentRepository) Delete(ctx context.Context, q db.Querier, id int64) error {
	result, err := q.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrDocumentNotFound
	}

	return nil
}

// DeleteByStudent deletes all document rows of a student and returns how
// many were removed
func (r *DocumentRepository) DeleteByStudent(ctx context.Context, q db.Querier, studentID int64) (int64, error) {
	result, err := q.Exec(ctx, `DELETE FROM documents WHERE student_id = $1`, studentID)
	if err != nil {
		return 0, fmt.Errorf("error deleting documents: %w", err)
	}

	return result.RowsAffected(), nil
}
