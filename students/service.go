package students

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/user/campusconnect-go/apperror"
	"github.com/user/campusconnect-go/auth"
	"github.com/user/campusconnect-go/db"
	"github.com/user/campusconnect-go/querybuilder"
	"github.com/user/campusconnect-go/validation"
)

const studentColumns = "erp, first_name, last_name, gender, contact, email, " +
	"to_char(birthday, 'YYYY-MM-DD'), profile_picture_url, graduation_year, " +
	"program_id, campus_id, role, is_active"

// StudentService provides read and update access to student profiles.
type StudentService struct {
	db db.Executor
}

// NewStudentService creates a new StudentService.
func NewStudentService(exec db.Executor) *StudentService {
	return &StudentService{db: exec}
}

func scanStudent(row pgx.Row) (*Student, error) {
	var s Student
	err := row.Scan(
		&s.ERP, &s.FirstName, &s.LastName, &s.Gender, &s.Contact, &s.Email,
		&s.Birthday, &s.ProfilePictureURL, &s.GraduationYear,
		&s.ProgramID, &s.CampusID, &s.Role, &s.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// FindAll returns the students matching the given predicates, all students
// when none are supplied.
func (s *StudentService) FindAll(ctx context.Context, preds []querybuilder.Predicate) ([]Student, error) {
	sql := fmt.Sprintf("SELECT %s FROM %s", studentColumns, db.TableStudents)

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
		return nil, apperror.NewDatabaseError("failed to query students", err)
	}
	defer rows.Close()

	var result []Student
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, apperror.NewDatabaseError("failed to scan student", err)
		}
		result = append(result, *student)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to read students", err)
	}
	return result, nil
}

// FindOne returns the student with the given erp, or nil when there is none.
func (s *StudentService) FindOne(ctx context.Context, erp string) (*Student, error) {
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE erp = $1", studentColumns, db.TableStudents)

	student, err := scanStudent(s.db.QueryRow(ctx, sql, erp))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.NewDatabaseError("failed to query student", err)
	}
	return student, nil
}

// Principal resolves an erp claim to the current account state. It satisfies
// the auth middleware's lookup contract; a vanished row is a NotFound error
// here so the middleware can distinguish it from database failures.
func (s *StudentService) Principal(ctx context.Context, erp string) (*auth.Principal, error) {
	sql := fmt.Sprintf("SELECT erp, first_name, last_name, email, role FROM %s WHERE erp = $1 AND is_active", db.TableStudents)

	var p auth.Principal
	err := s.db.QueryRow(ctx, sql, erp).Scan(&p.ERP, &p.FirstName, &p.LastName, &p.Email, &p.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("Student not found")
		}
		return nil, apperror.NewDatabaseError("failed to load principal", err)
	}
	return &p, nil
}

// Update applies the non-nil fields of req to the student row. The result
// reports matched and changed counts separately to keep the wire shape stable.
func (s *StudentService) Update(ctx context.Context, erp string, req UpdateStudentRequest) (*UpdateResult, error) {
	assignments := req.assignments()
	if len(assignments) == 0 {
		return nil, apperror.NewInvalidPropertiesError([]validation.FieldError{
			{Param: "body", Message: "no updatable fields in request"},
		})
	}

	clause, args, err := querybuilder.SetClause(assignments, 1)
	if err != nil {
		return nil, err
	}

	sql := fmt.Sprintf("UPDATE %s SET %s WHERE erp = $%d", db.TableStudents, clause, len(args)+1)
	tag, err := s.db.Exec(ctx, sql, append(args, erp)...)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to update student", err)
	}

	affected := tag.RowsAffected()
	return &UpdateResult{RowsMatched: affected, RowsChanged: affected}, nil
}

// Delete removes the student row and returns the affected-row count.
func (s *StudentService) Delete(ctx context.Context, erp string) (int64, error) {
	sql := fmt.Sprintf("DELETE FROM %s WHERE erp = $1", db.TableStudents)
	tag, err := s.db.Exec(ctx, sql, erp)
	if err != nil {
		return 0, apperror.NewDatabaseError("failed to delete student", err)
	}
	return tag.RowsAffected(), nil
}

func (r UpdateStudentRequest) assignments() []querybuilder.Assignment {
	var out []querybuilder.Assignment
	add := func(column string, present bool, value interface{}) {
		if present {
			out = append(out, querybuilder.Assignment{Column: column, Value: value})
		}
	}
	add("first_name", r.FirstName != nil, deref(r.FirstName))
	add("last_name", r.LastName != nil, deref(r.LastName))
	add("gender", r.Gender != nil, deref(r.Gender))
	add("contact", r.Contact != nil, deref(r.Contact))
	add("birthday", r.Birthday != nil, deref(r.Birthday))
	add("profile_picture_url", r.ProfilePictureURL != nil, deref(r.ProfilePictureURL))
	add("graduation_year", r.GraduationYear != nil, deref(r.GraduationYear))
	add("program_id", r.ProgramID != nil, deref(r.ProgramID))
	add("campus_id", r.CampusID != nil, deref(r.CampusID))
	add("is_active", r.IsActive != nil, deref(r.IsActive))
	return out
}

func deref[T any](p *T) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
