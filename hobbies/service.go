package hobbies

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/user/campusconnect-go/apperror"
	"github.com/user/campusconnect-go/db"
	"github.com/user/campusconnect-go/querybuilder"
)

// HobbyService provides CRUD over the hobby catalog.
type HobbyService struct {
	db db.Executor
}

// NewHobbyService creates a new HobbyService.
func NewHobbyService(exec db.Executor) *HobbyService {
	return &HobbyService{db: exec}
}

// FindAll returns the hobbies matching the given predicates, all hobbies when
// none are supplied.
func (s *HobbyService) FindAll(ctx context.Context, preds []querybuilder.Predicate) ([]Hobby, error) {
	sql := fmt.Sprintf("SELECT hobby_id, hobby FROM %s", db.TableHobbies)

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
		return nil, apperror.NewDatabaseError("failed to query hobbies", err)
	}
	defer rows.Close()

	var result []Hobby
	for rows.Next() {
		var h Hobby
		if err := rows.Scan(&h.HobbyID, &h.Hobby); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan hobby", err)
		}
		result = append(result, h)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to read hobbies", err)
	}
	return result, nil
}

// FindOne returns the hobby with the given id, or nil when there is none.
func (s *HobbyService) FindOne(ctx context.Context, id int) (*Hobby, error) {
	sql := fmt.Sprintf("SELECT hobby_id, hobby FROM %s WHERE hobby_id = $1", db.TableHobbies)

	var h Hobby
	err := s.db.QueryRow(ctx, sql, id).Scan(&h.HobbyID, &h.Hobby)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.NewDatabaseError("failed to query hobby", err)
	}
	return &h, nil
}

// Create inserts a new hobby and returns its generated id.
func (s *HobbyService) Create(ctx context.Context, req CreateHobbyRequest) (*CreateResult, error) {
	clause, args, err := querybuilder.InsertClause([]querybuilder.Assignment{
		{Column: "hobby", Value: req.Hobby},
	}, 1)
	if err != nil {
		return nil, err
	}

	sql := fmt.Sprintf("INSERT INTO %s %s RETURNING hobby_id", db.TableHobbies, clause)

	var id int
	if err := s.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperror.NewConflictError("hobby already exists", err)
		}
		return nil, apperror.NewDatabaseError("failed to create hobby", err)
	}
	return &CreateResult{HobbyID: id, AffectedRows: 1}, nil
}

// Update renames the hobby with the given id.
func (s *HobbyService) Update(ctx context.Context, id int, req UpdateHobbyRequest) (*UpdateResult, error) {
	clause, args, err := querybuilder.SetClause([]querybuilder.Assignment{
		{Column: "hobby", Value: req.Hobby},
	}, 1)
	if err != nil {
		return nil, err
	}

	sql := fmt.Sprintf("UPDATE %s SET %s WHERE hobby_id = $%d", db.TableHobbies, clause, len(args)+1)
	tag, err := s.db.Exec(ctx, sql, append(args, id)...)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to update hobby", err)
	}

	affected := tag.RowsAffected()
	return &UpdateResult{RowsMatched: affected, RowsChanged: affected}, nil
}

// Delete removes the hobby with the given id and returns the affected-row
// count.
func (s *HobbyService) Delete(ctx context.Context, id int) (int64, error) {
	sql := fmt.Sprintf("DELETE FROM %s WHERE hobby_id = $1", db.TableHobbies)
	tag, err := s.db.Exec(ctx, sql, id)
	if err != nil {
		return 0, apperror.NewDatabaseError("failed to delete hobby", err)
	}
	return tag.RowsAffected(), nil
}
