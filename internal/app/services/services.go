package services

import (
	"context"

	"github.com/emre/admission/internal/app/models"
	"github.com/emre/admission/internal/db"
)

// studentStore, documentStore and txRunner are the narrow dependency views
// the services need. The concrete pgx repositories and db.PostgresDB
// satisfy them.
type studentStore interface {
	Create(ctx context.Context, q db.Querier, student *models.Student) (int64, error)
	GetAll(ctx context.Context) ([]models.Student, error)
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	Delete(ctx context.Context, q db.Querier, id int64) error
}

type documentStore interface {
	Create(ctx context.Context, q db.Querier, doc *models.Document) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Document, error)
	FindByStudent(ctx context.Context, studentID int64) ([]models.Document, error)
	Delete(ctx context.Context, q db.Querier, id int64) error
	DeleteByStudent(ctx context.Context, q db.Querier, studentID int64) (int64, error)
}

type txRunner interface {
	WithTransaction(ctx context.Context, fn db.TransactionFn) error
}
