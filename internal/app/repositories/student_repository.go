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
	"github.com/emre/admission/internal/pkg/dberrors"
)

// emailUniqueConstraint is the name Postgres gives the UNIQUE constraint
// on students.email.
const emailUniqueConstraint = "students_email_key"

// StudentRepository handles database operations for students
type StudentRepository struct {
	db *pgxpool.Pool
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{db: db}
}

// Create inserts a student row and returns the generated id. A duplicate
// email surfaces as apperrors.ErrEmailAlreadyExists.
func (r *StudentRepository) Create(ctx context.Context, q db.Querier, student *models.Student) (int64, error) {
	query := `
		INSERT INTO students (firstname, lastname, email, grade, gender, birthday, activities, profile_image)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		student.FirstName,
		student.LastName,
		student.Email,
		student.Grade,
		student.Gender,
		student.Birthday,
		student.Activities,
		student.ProfileImage,
	).Scan(&student.ID, &student.CreatedAt)

	if err != nil {
		if dberrors.IsUniqueViolation(err, emailUniqueConstraint) {
			return 0, apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists,
				fmt.Sprintf("A student with email %s already exists", student.Email))
		}
		return 0, fmt.Errorf("error creating student: %w", err)
	}

	return student.ID, nil
}

// GetAll returns every student ordered by id, which for this schema is
// insertion order. Summary columns only; activities stay in the database.
func (r *StudentRepository) GetAll(ctx context.Context) ([]models.Student, error) {
	query := `
		SELECT id, firstname, lastname, email, grade, gender, birthday, created_at
		FROM students
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error getting students: %w", err)
	}
	defer rows.Close()

	var students []models.Student
	for rows.Next() {
		var student models.Student
		if err := rows.Scan(
			&student.ID,
			&student.FirstName,
			&student.LastName,
			&student.Email,
			&student.Grade,
			&student.Gender,
			&student.Birthday,
			&student.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning student: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading students: %w", err)
	}

	return students, nil
}

// GetByID retrieves a student by ID. Returns (nil, nil) when no row exists.
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	query := `
		SELECT id, firstname, lastname, email, grade, gender, birthday, activities, profile_image, created_at
		FROM students
		WHERE id = $1
	`

	var student models.Student
	err := r.db.QueryRow(ctx, query, id).Scan(
		&student.ID,
		&student.FirstName,
		&student.LastName,
		&student.Email,
		&student.Grade,
		&student.Gender,
		&student.Birthday,
		&student.Activities,
		&student.ProfileImage,
		&student.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting student: %w", err)
	}

	return &student, nil
}

// Delete deletes a student row
func (r *StudentRepository) Delete(ctx context.Context, q db.Querier, id int64) error {
	result, err := q.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting student: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}
