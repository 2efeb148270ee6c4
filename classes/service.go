package classes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/user/campusconnect-go/apperror"
	"github.com/user/campusconnect-go/db"
	"github.com/user/campusconnect-go/querybuilder"
	"github.com/user/campusconnect-go/validation"
)

// classJoin is the shared FROM clause of every class read: classroom with its
// campus, subject, teacher, and the two timeslots joined twice under aliases.
var classJoin = fmt.Sprintf(`
SELECT
	cl.class_erp, cl.semester, cl.parent_class_erp, cl.day_1, cl.day_2,
	cr.classroom_id, cr.classroom,
	cp.campus_id, cp.campus,
	s.subject_code, s.subject,
	tr.teacher_id, tr.full_name, tr.average_rating::text, tr.total_reviews,
	ts1.timeslot_id, to_char(ts1.start_time, 'HH24:MI:SS'), to_char(ts1.end_time, 'HH24:MI:SS'), ts1.slot_number,
	ts2.timeslot_id, to_char(ts2.start_time, 'HH24:MI:SS'), to_char(ts2.end_time, 'HH24:MI:SS'), ts2.slot_number
FROM %s AS cl
INNER JOIN %s AS cr ON cr.classroom_id = cl.classroom_id
INNER JOIN %s AS cp ON cp.campus_id = cr.campus_id
INNER JOIN %s AS s ON s.subject_code = cl.subject_code
INNER JOIN %s AS tr ON tr.teacher_id = cl.teacher_id
INNER JOIN %s AS ts1 ON ts1.timeslot_id = cl.timeslot_1
INNER JOIN %s AS ts2 ON ts2.timeslot_id = cl.timeslot_2`,
	db.TableClasses, db.TableClassrooms, db.TableCampuses,
	db.TableSubjects, db.TableTeachers, db.TableTimeslots, db.TableTimeslots,
)

var classInsertColumns = []string{
	"class_erp", "semester", "classroom_id", "subject_code", "teacher_id",
	"parent_class_erp", "timeslot_1", "timeslot_2", "day_1", "day_2",
}

// ClassService provides CRUD over the timetable.
type ClassService struct {
	db db.Executor
}

// NewClassService creates a new ClassService.
func NewClassService(exec db.Executor) *ClassService {
	return &ClassService{db: exec}
}

func scanClass(row pgx.Row) (*Class, error) {
	var c Class
	err := row.Scan(
		&c.ClassERP, &c.Semester, &c.ParentClassERP, &c.Day1, &c.Day2,
		&c.Classroom.ClassroomID, &c.Classroom.Classroom,
		&c.Classroom.Campus.CampusID, &c.Classroom.Campus.Campus,
		&c.Subject.SubjectCode, &c.Subject.Subject,
		&c.Teacher.TeacherID, &c.Teacher.FullName, &c.Teacher.AverageRating, &c.Teacher.TotalReviews,
		&c.Timeslot1.TimeslotID, &c.Timeslot1.StartTime, &c.Timeslot1.EndTime, &c.Timeslot1.SlotNumber,
		&c.Timeslot2.TimeslotID, &c.Timeslot2.StartTime, &c.Timeslot2.EndTime, &c.Timeslot2.SlotNumber,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FindAll returns the joined classes matching the given predicates, all
// classes when none are supplied. Predicate columns refer to the cl alias.
func (s *ClassService) FindAll(ctx context.Context, preds []querybuilder.Predicate) ([]Class, error) {
	sql := classJoin

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
		return nil, apperror.NewDatabaseError("failed to query classes", err)
	}
	defer rows.Close()

	var result []Class
	for rows.Next() {
		class, err := scanClass(rows)
		if err != nil {
			return nil, apperror.NewDatabaseError("failed to scan class", err)
		}
		result = append(result, *class)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to read classes", err)
	}
	return result, nil
}

// FindOne returns the joined class with the given erp, or nil when there is
// none.
func (s *ClassService) FindOne(ctx context.Context, classERP string) (*Class, error) {
	sql := classJoin + " WHERE cl.class_erp = $1"

	class, err := scanClass(s.db.QueryRow(ctx, sql, classERP))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.NewDatabaseError("failed to query class", err)
	}
	return class, nil
}

// Create inserts a single class row.
func (s *ClassService) Create(ctx context.Context, req ClassRequest) (*CreateResult, error) {
	clause, args, err := querybuilder.InsertClause(req.assignments(), 1)
	if err != nil {
		return nil, err
	}

	sql := fmt.Sprintf("INSERT INTO %s %s", db.TableClasses, clause)
	tag, err := s.db.Exec(ctx, sql, args...)
	if err != nil {
		return nil, classWriteError(err)
	}
	return &CreateResult{AffectedRows: tag.RowsAffected()}, nil
}

// CreateMany inserts a batch of class rows in one statement.
func (s *ClassService) CreateMany(ctx context.Context, reqs []ClassRequest) (*CreateResult, error) {
	if len(reqs) == 0 {
		return nil, querybuilder.ErrEmptyInput
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "INSERT INTO %s (%s) VALUES ", db.TableClasses, strings.Join(classInsertColumns, ", "))

	args := make([]interface{}, 0, len(reqs)*len(classInsertColumns))
	for i, req := range reqs {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for j, a := range req.assignments() {
			if j > 0 {
				sb.WriteString(", ")
			}
			args = append(args, a.Value)
			fmt.Fprintf(&sb, "$%d", len(args))
		}
		sb.WriteByte(')')
	}

	tag, err := s.db.Exec(ctx, sb.String(), args...)
	if err != nil {
		return nil, classWriteError(err)
	}
	return &CreateResult{AffectedRows: tag.RowsAffected()}, nil
}

// Update applies the non-nil fields of req to the class row.
func (s *ClassService) Update(ctx context.Context, classERP string, req UpdateClassRequest) (*UpdateResult, error) {
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

	sql := fmt.Sprintf("UPDATE %s SET %s WHERE class_erp = $%d", db.TableClasses, clause, len(args)+1)
	tag, err := s.db.Exec(ctx, sql, append(args, classERP)...)
	if err != nil {
		return nil, classWriteError(err)
	}

	affected := tag.RowsAffected()
	return &UpdateResult{RowsMatched: affected, RowsChanged: affected}, nil
}

// Delete removes the class row and returns the affected-row count.
func (s *ClassService) Delete(ctx context.Context, classERP string) (int64, error) {
	sql := fmt.Sprintf("DELETE FROM %s WHERE class_erp = $1", db.TableClasses)
	tag, err := s.db.Exec(ctx, sql, classERP)
	if err != nil {
		return 0, apperror.NewDatabaseError("failed to delete class", err)
	}
	return tag.RowsAffected(), nil
}

// classWriteError maps constraint violations on class writes to client
// errors: duplicate keys to 409, broken references (unknown classroom,
// subject, teacher or timeslot) to 422.
func classWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return apperror.NewConflictError("class_erp already registered", err)
		case "23503":
			return apperror.NewAppError(apperror.InvalidPropertiesError, "referenced entity does not exist", err)
		}
	}
	return apperror.NewDatabaseError("failed to write class", err)
}

func (r ClassRequest) assignments() []querybuilder.Assignment {
	return []querybuilder.Assignment{
		{Column: "class_erp", Value: r.ClassERP},
		{Column: "semester", Value: r.Semester},
		{Column: "classroom_id", Value: r.ClassroomID},
		{Column: "subject_code", Value: r.SubjectCode},
		{Column: "teacher_id", Value: r.TeacherID},
		{Column: "parent_class_erp", Value: r.ParentClassERP},
		{Column: "timeslot_1", Value: r.Timeslot1},
		{Column: "timeslot_2", Value: r.Timeslot2},
		{Column: "day_1", Value: r.Day1},
		{Column: "day_2", Value: r.Day2},
	}
}

func (r UpdateClassRequest) assignments() []querybuilder.Assignment {
	var out []querybuilder.Assignment
	add := func(column string, present bool, value interface{}) {
		if present {
			out = append(out, querybuilder.Assignment{Column: column, Value: value})
		}
	}
	add("semester", r.Semester != nil, deref(r.Semester))
	add("classroom_id", r.ClassroomID != nil, deref(r.ClassroomID))
	add("subject_code", r.SubjectCode != nil, deref(r.SubjectCode))
	add("teacher_id", r.TeacherID != nil, deref(r.TeacherID))
	add("parent_class_erp", r.ParentClassERP != nil, deref(r.ParentClassERP))
	add("timeslot_1", r.Timeslot1 != nil, deref(r.Timeslot1))
	add("timeslot_2", r.Timeslot2 != nil, deref(r.Timeslot2))
	add("day_1", r.Day1 != nil, deref(r.Day1))
	add("day_2", r.Day2 != nil, deref(r.Day2))
	return out
}

func deref[T any](p *T) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
