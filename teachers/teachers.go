// Package teachers implements CRUD for the teacher directory. Every route is
// admin-only. Rating columns are maintained by an external review pipeline and
// are read-only here.
package teachers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/user/campusconnect-go/apperror"
	"github.com/user/campusconnect-go/db"
	"github.com/user/campusconnect-go/querybuilder"
)

// Teacher is one row of the teachers table. AverageRating travels as a string
// to keep the numeric's fixed three-decimal rendering intact.
type Teacher struct {
	TeacherID     int    `json:"teacher_id"`
	FullName      string `json:"full_name"`
	AverageRating string `json:"average_rating"`
	TotalReviews  int    `json:"total_reviews"`
}

// CreateTeacherRequest carries the name of a new teacher; ratings start at
// their defaults.
type CreateTeacherRequest struct {
	FullName string `json:"full_name" validate:"required,max=100"`
}

// UpdateTeacherRequest renames an existing teacher.
type UpdateTeacherRequest struct {
	FullName string `json:"full_name" validate:"required,max=100"`
}

// CreateResult reports the id of the created row.
type CreateResult struct {
	TeacherID    int   `json:"teacher_id"`
	AffectedRows int64 `json:"affected_rows"`
}

// UpdateResult reports the outcome of an update statement.
type UpdateResult struct {
	RowsMatched int64 `json:"rows_matched"`
	RowsChanged int64 `json:"rows_changed"`
}

// DeleteResult reports the outcome of a delete statement.
type DeleteResult struct {
	RowsRemoved int64 `json:"rows_removed"`
}

const teacherColumns = "teacher_id, full_name, average_rating::text, total_reviews"

// TeacherService provides CRUD over the teacher directory.
type TeacherService struct {
	db db.Executor
}

// NewTeacherService creates a new TeacherService.
func NewTeacherService(exec db.Executor) *TeacherService {
	return &TeacherService{db: exec}
}

// FindAll returns the teachers matching the given predicates, all teachers
// when none are supplied.
func (s *TeacherService) FindAll(ctx context.Context, preds []querybuilder.Predicate) ([]Teacher, error) {
	sql := fmt.Sprintf("SELECT %s FROM %s", teacherColumns, db.TableTeachers)

	var args []interface{}
	if len(preds) > 0 {
		clause, filterArgs, err := querybuilder.FilterClause(preds, 1)
		if err != nil {
			return nil, err
		}
		sql += " WHERE " + clause
		args = filterArgs
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to query teachers", err)
	}
	defer rows.Close()

	var result []Teacher
	for rows.Next() {
		var t Teacher
		if err := rows.Scan(&t.TeacherID, &t.FullName, &t.AverageRating, &t.TotalReviews); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan teacher", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to read teachers", err)
	}
	return result, nil
}

// FindOne returns the teacher with the given id, or nil when there is none.
func (s *TeacherService) FindOne(ctx context.Context, id int) (*Teacher, error) {
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE teacher_id = $1", teacherColumns, db.TableTeachers)

	var t Teacher
	err := s.db.QueryRow(ctx, sql, id).Scan(&t.TeacherID, &t.FullName, &t.AverageRating, &t.TotalReviews)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.NewDatabaseError("failed to query teacher", err)
	}
	return &t, nil
}

// Create inserts a new teacher and returns its generated id.
func (s *TeacherService) Create(ctx context.Context, req CreateTeacherRequest) (*CreateResult, error) {
	clause, args, err := querybuilder.InsertClause([]querybuilder.Assignment{
		{Column: "full_name", Value: req.FullName},
	}, 1)
	if err != nil {
		return nil, err
	}

	sql := fmt.Sprintf("INSERT INTO %s %s RETURNING teacher_id", db.TableTeachers, clause)

	var id int
	if err := s.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return nil, apperror.NewDatabaseError("failed to create teacher", err)
	}
	return &CreateResult{TeacherID: id, AffectedRows: 1}, nil
}

// Update renames the teacher with the given id.
func (s *TeacherService) Update(ctx context.Context, id int, req UpdateTeacherRequest) (*UpdateResult, error) {
	clause, args, err := querybuilder.SetClause([]querybuilder.Assignment{
		{Column: "full_name", Value: req.FullName},
	}, 1)
	if err != nil {
		return nil, err
	}

	sql := fmt.Sprintf("UPDATE %s SET %s WHERE teacher_id = $%d", db.TableTeachers, clause, len(args)+1)
	tag, err := s.db.Exec(ctx, sql, append(args, id)...)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to update teacher", err)
	}

	affected := tag.RowsAffected()
	return &UpdateResult{RowsMatched: affected, RowsChanged: affected}, nil
}

// Delete removes the teacher with the given id and returns the affected-row
// count.
func (s *TeacherService) Delete(ctx context.Context, id int) (int64, error) {
	sql := fmt.Sprintf("DELETE FROM %s WHERE teacher_id = $1", db.TableTeachers)
	tag, err := s.db.Exec(ctx, sql, id)
	if err != nil {
		return 0, apperror.NewDatabaseError("failed to delete teacher", err)
	}
	return tag.RowsAffected(), nil
}
