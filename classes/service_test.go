package classes

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/user/campusconnect-go/apperror"
	"github.com/user/campusconnect-go/querybuilder"
)

type fakeExecutor struct {
	execTag  pgconn.CommandTag
	execErr  error
	lastSQL  string
	lastArgs []interface{}
}

func (f *fakeExecutor) Exec(_ context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	f.lastSQL = sql
	f.lastArgs = args
	return f.execTag, f.execErr
}

func (f *fakeExecutor) Query(_ context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	f.lastSQL = sql
	f.lastArgs = args
	return nil, pgx.ErrNoRows
}

func (f *fakeExecutor) QueryRow(_ context.Context, sql string, args ...interface{}) pgx.Row {
	f.lastSQL = sql
	f.lastArgs = args
	return nil
}

func sampleRequest(erp string) ClassRequest {
	return ClassRequest{
		ClassERP:    erp,
		Semester:    "CS-7",
		ClassroomID: 2,
		SubjectCode: "CSE555",
		TeacherID:   1,
		Timeslot1:   3,
		Timeslot2:   4,
		Day1:        "monday",
		Day2:        "wednesday",
	}
}

func TestCreateBindsAllColumns(t *testing.T) {
	exec := &fakeExecutor{execTag: pgconn.NewCommandTag("INSERT 0 1")}
	svc := NewClassService(exec)

	result, err := svc.Create(context.Background(), sampleRequest("5755"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if result.AffectedRows != 1 {
		t.Errorf("affected_rows = %d", result.AffectedRows)
	}

	want := "INSERT INTO classes (class_erp, semester, classroom_id, subject_code, " +
		"teacher_id, parent_class_erp, timeslot_1, timeslot_2, day_1, day_2) " +
		"VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)"
	if exec.lastSQL != want {
		t.Errorf("sql = %q, want %q", exec.lastSQL, want)
	}
	if len(exec.lastArgs) != 10 || exec.lastArgs[0] != "5755" || exec.lastArgs[9] != "wednesday" {
		t.Errorf("args = %v", exec.lastArgs)
	}
}

func TestCreateManyNumbersPlaceholdersAcrossRows(t *testing.T) {
	exec := &fakeExecutor{execTag: pgconn.NewCommandTag("INSERT 0 2")}
	svc := NewClassService(exec)

	result, err := svc.CreateMany(context.Background(), []ClassRequest{
		sampleRequest("5755"),
		sampleRequest("5756"),
	})
	if err != nil {
		t.Fatalf("CreateMany: %v", err)
	}
	if result.AffectedRows != 2 {
		t.Errorf("affected_rows = %d", result.AffectedRows)
	}

	if !strings.Contains(exec.lastSQL, "($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)") {
		t.Errorf("first tuple missing in %q", exec.lastSQL)
	}
	if !strings.Contains(exec.lastSQL, "($11, $12, $13, $14, $15, $16, $17, $18, $19, $20)") {
		t.Errorf("second tuple missing in %q", exec.lastSQL)
	}
	if len(exec.lastArgs) != 20 {
		t.Fatalf("args = %d", len(exec.lastArgs))
	}
	if exec.lastArgs[10] != "5756" {
		t.Errorf("args[10] = %v", exec.lastArgs[10])
	}
}

func TestCreateManyEmptyBatch(t *testing.T) {
	svc := NewClassService(&fakeExecutor{})

	_, err := svc.CreateMany(context.Background(), nil)
	if err != querybuilder.ErrEmptyInput {
		t.Fatalf("err = %v, want ErrEmptyInput", err)
	}
}

func TestCreateDuplicateERPIsConflict(t *testing.T) {
	exec := &fakeExecutor{execErr: &pgconn.PgError{Code: "23505", ConstraintName: "classes_pkey"}}
	svc := NewClassService(exec)

	_, err := svc.Create(context.Background(), sampleRequest("5755"))
	appErr, ok := apperror.FromError(err)
	if !ok || appErr.Code() != "DuplicateEntryException" {
		t.Fatalf("expected DuplicateEntryException, got %v", err)
	}
	if appErr.StatusCode() != 409 {
		t.Errorf("status = %d", appErr.StatusCode())
	}
}

func TestCreateUnknownReferenceIsUnprocessable(t *testing.T) {
	exec := &fakeExecutor{execErr: &pgconn.PgError{Code: "23503", ConstraintName: "classes_teacher_id_fkey"}}
	svc := NewClassService(exec)

	_, err := svc.Create(context.Background(), sampleRequest("5755"))
	appErr, ok := apperror.FromError(err)
	if !ok || appErr.StatusCode() != 422 {
		t.Fatalf("expected 422, got %v", err)
	}
}

func TestUpdateOnlySentColumns(t *testing.T) {
	exec := &fakeExecutor{execTag: pgconn.NewCommandTag("UPDATE 1")}
	svc := NewClassService(exec)

	semester := "CS-8"
	teacher := 5
	result, err := svc.Update(context.Background(), "5755", UpdateClassRequest{
		Semester:  &semester,
		TeacherID: &teacher,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	want := "UPDATE classes SET semester = $1, teacher_id = $2 WHERE class_erp = $3"
	if exec.lastSQL != want {
		t.Errorf("sql = %q, want %q", exec.lastSQL, want)
	}
	if result.RowsMatched != 1 || result.RowsChanged != 1 {
		t.Errorf("result = %+v", result)
	}
}

func TestUpdateEmptyBodyRejected(t *testing.T) {
	svc := NewClassService(&fakeExecutor{})

	_, err := svc.Update(context.Background(), "5755", UpdateClassRequest{})
	appErr, ok := apperror.FromError(err)
	if !ok || appErr.Type != apperror.InvalidPropertiesError {
		t.Fatalf("expected InvalidPropertiesError, got %v", err)
	}
	if appErr.StatusCode() != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", appErr.StatusCode())
	}
}
