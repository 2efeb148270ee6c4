package connections

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

// connectionJoin is the shared read projection: the connection row with both
// endpoints joined from students under sender/receiver aliases.
var connectionJoin = fmt.Sprintf(`
SELECT
	c.student_connection_id, c.connection_status,
	to_char(c.sent_at, 'YYYY-MM-DD HH24:MI:SS'), to_char(c.accepted_at, 'YYYY-MM-DD HH24:MI:SS'),
	sender.erp, sender.first_name, sender.last_name, sender.profile_picture_url, sender.program_id, sender.graduation_year,
	receiver.erp, receiver.first_name, receiver.last_name, receiver.profile_picture_url, receiver.program_id, receiver.graduation_year
FROM %s AS c
INNER JOIN %s AS sender ON c.sender_erp = sender.erp
INNER JOIN %s AS receiver ON c.receiver_erp = receiver.erp`,
	db.TableStudentConnections, db.TableStudents, db.TableStudents,
)

// ConnectionService provides the connection-request lifecycle.
type ConnectionService struct {
	db db.Executor
}

// NewConnectionService creates a new ConnectionService.
func NewConnectionService(exec db.Executor) *ConnectionService {
	return &ConnectionService{db: exec}
}

func scanConnection(row pgx.Row) (*Connection, error) {
	var c Connection
	err := row.Scan(
		&c.StudentConnectionID, &c.ConnectionStatus, &c.SentAt, &c.AcceptedAt,
		&c.Sender.ERP, &c.Sender.FirstName, &c.Sender.LastName,
		&c.Sender.ProfilePictureURL, &c.Sender.ProgramID, &c.Sender.GraduationYear,
		&c.Receiver.ERP, &c.Receiver.FirstName, &c.Receiver.LastName,
		&c.Receiver.ProfilePictureURL, &c.Receiver.ProgramID, &c.Receiver.GraduationYear,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *ConnectionService) queryConnections(ctx context.Context, preds []querybuilder.Predicate) ([]Connection, error) {
	clause, args, err := querybuilder.FilterClause(preds, 1)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, connectionJoin+" WHERE "+clause, args...)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to query connections", err)
	}
	defer rows.Close()

	var result []Connection
	for rows.Next() {
		conn, err := scanConnection(rows)
		if err != nil {
			return nil, apperror.NewDatabaseError("failed to scan connection", err)
		}
		result = append(result, *conn)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to read connections", err)
	}
	return result, nil
}

// FindAllRequests returns pending requests, narrowed by the caller's
// predicates.
func (s *ConnectionService) FindAllRequests(ctx context.Context, preds []querybuilder.Predicate) ([]Connection, error) {
	all := append([]querybuilder.Predicate{
		querybuilder.Eq{Column: "connection_status", Value: StatusRequestPending},
	}, preds...)
	return s.queryConnections(ctx, all)
}

// FindAll returns the accepted connections the given student is part of, on
// either end.
func (s *ConnectionService) FindAll(ctx context.Context, erp string) ([]Connection, error) {
	return s.queryConnections(ctx, []querybuilder.Predicate{
		querybuilder.Eq{Column: "connection_status", Value: StatusFriends},
		querybuilder.Or{
			querybuilder.Eq{Column: "sender_erp", Value: erp},
			querybuilder.Eq{Column: "receiver_erp", Value: erp},
		},
	})
}

// FindOne returns the connection with the given id, or nil when there is
// none.
func (s *ConnectionService) FindOne(ctx context.Context, id int) (*Connection, error) {
	conn, err := scanConnection(s.db.QueryRow(ctx, connectionJoin+" WHERE c.student_connection_id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.NewDatabaseError("failed to query connection", err)
	}
	return conn, nil
}

// Create inserts a pending request. The canonical pair columns are computed
// in SQL so two rows for the same pair can never coexist, whichever side
// sends first; the unique index on the pair is the only duplicate guard.
func (s *ConnectionService) Create(ctx context.Context, req CreateConnectionRequest) (*CreateResult, error) {
	sql := fmt.Sprintf(
		"INSERT INTO %s (sender_erp, receiver_erp, sent_at, student_1_erp, student_2_erp) "+
			"VALUES ($1, $2, $3, LEAST($4, $5), GREATEST($6, $7)) RETURNING student_connection_id",
		db.TableStudentConnections,
	)

	var id int
	err := s.db.QueryRow(ctx, sql,
		req.SenderERP, req.ReceiverERP, req.SentAt,
		req.SenderERP, req.ReceiverERP,
		req.SenderERP, req.ReceiverERP,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return nil, apperror.NewConflictError("connection already exists for this pair", err)
			case "23503":
				return nil, apperror.NewNotFoundError("Student not found")
			}
		}
		return nil, apperror.NewDatabaseError("failed to create connection", err)
	}
	return &CreateResult{StudentConnectionID: id, AffectedRows: 1}, nil
}

// Update sets the status and acceptance time of the row with the given id.
func (s *ConnectionService) Update(ctx context.Context, id int, req UpdateConnectionRequest) (*UpdateResult, error) {
	clause, args, err := querybuilder.SetClause([]querybuilder.Assignment{
		{Column: "connection_status", Value: req.ConnectionStatus},
		{Column: "accepted_at", Value: req.AcceptedAt},
	}, 1)
	if err != nil {
		return nil, err
	}

	sql := fmt.Sprintf("UPDATE %s SET %s WHERE student_connection_id = $%d", db.TableStudentConnections, clause, len(args)+1)
	tag, err := s.db.Exec(ctx, sql, append(args, id)...)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to update connection", err)
	}

	affected := tag.RowsAffected()
	return &UpdateResult{RowsMatched: affected, RowsChanged: affected}, nil
}

// Delete removes the row with the given id and returns the affected-row
// count. Used both for declining a pending request and for unfriending.
func (s *ConnectionService) Delete(ctx context.Context, id int) (int64, error) {
	sql := fmt.Sprintf("DELETE FROM %s WHERE student_connection_id = $1", db.TableStudentConnections)
	tag, err := s.db.Exec(ctx, sql, id)
	if err != nil {
		return 0, apperror.NewDatabaseError("failed to delete connection", err)
	}
	return tag.RowsAffected(), nil
}
