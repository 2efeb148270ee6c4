package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/user/campusconnect-go/apperror"
	"github.com/user/campusconnect-go/db"
	"github.com/user/campusconnect-go/querybuilder"
)

// OTPModel is the data-access model for otp_codes rows. Like every model it
// reports absence as a nil row, not an error; judging "not found" is the
// caller's business.
type OTPModel struct {
	db db.Executor
}

// NewOTPModel creates a new OTPModel.
func NewOTPModel(exec db.Executor) *OTPModel {
	return &OTPModel{db: exec}
}

// FindAll returns the rows matching the given predicates, all rows when none
// are supplied.
func (m *OTPModel) FindAll(ctx context.Context, preds []querybuilder.Predicate) ([]OTPCode, error) {
	sql := fmt.Sprintf("SELECT erp, otp, expiration_datetime FROM %s", db.TableOtpCodes)

	var args []interface{}
	if len(preds) > 0 {
		clause, filterArgs, err := querybuilder.FilterClause(preds, 1)
		if err != nil {
			return nil, err
		}
		sql += " WHERE " + clause
		args = filterArgs
	}

	rows, err := m.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to query otp codes", err)
	}
	defer rows.Close()

	var codes []OTPCode
	for rows.Next() {
		var code OTPCode
		if err := rows.Scan(&code.ERP, &code.OTP, &code.ExpirationDatetime); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan otp code", err)
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to read otp codes", err)
	}
	return codes, nil
}

// FindOne returns the row for the given erp, or nil when there is none.
func (m *OTPModel) FindOne(ctx context.Context, erp string) (*OTPCode, error) {
	sql := fmt.Sprintf("SELECT erp, otp, expiration_datetime FROM %s WHERE erp = $1", db.TableOtpCodes)

	var code OTPCode
	err := m.db.QueryRow(ctx, sql, erp).Scan(&code.ERP, &code.OTP, &code.ExpirationDatetime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.NewDatabaseError("failed to query otp code", err)
	}
	return &code, nil
}

// Create inserts a new OTP row and returns the number of affected rows.
func (m *OTPModel) Create(ctx context.Context, code OTPCode) (int64, error) {
	clause, args, err := querybuilder.InsertClause([]querybuilder.Assignment{
		{Column: "erp", Value: code.ERP},
		{Column: "otp", Value: code.OTP},
		{Column: "expiration_datetime", Value: code.ExpirationDatetime},
	}, 1)
	if err != nil {
		return 0, err
	}

	sql := fmt.Sprintf("INSERT INTO %s %s", db.TableOtpCodes, clause)
	tag, err := m.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, apperror.NewDatabaseError("failed to create otp code", err)
	}
	return tag.RowsAffected(), nil
}

// UpdateExpiry extends the expiry of the row for the given erp. It touches
// expiration_datetime only: the code and its owner are immutable once
// written.
func (m *OTPModel) UpdateExpiry(ctx context.Context, expiry time.Time, erp string) (int64, error) {
	sql := fmt.Sprintf("UPDATE %s SET expiration_datetime = $1 WHERE erp = $2", db.TableOtpCodes)
	tag, err := m.db.Exec(ctx, sql, expiry, erp)
	if err != nil {
		return 0, apperror.NewDatabaseError("failed to update otp expiry", err)
	}
	return tag.RowsAffected(), nil
}

// Delete removes the rows matching the given predicates and returns the
// affected-row count.
func (m *OTPModel) Delete(ctx context.Context, preds []querybuilder.Predicate) (int64, error) {
	clause, args, err := querybuilder.FilterClause(preds, 1)
	if err != nil {
		return 0, err
	}

	sql := fmt.Sprintf("DELETE FROM %s WHERE %s", db.TableOtpCodes, clause)
	tag, err := m.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, apperror.NewDatabaseError("failed to delete otp codes", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteExpired removes every row whose expiry lies before the given instant.
// The range comparison falls outside the equality-only filter vocabulary, so
// the predicate is written into this one template rather than widening the
// builder.
func (m *OTPModel) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	sql := fmt.Sprintf("DELETE FROM %s WHERE expiration_datetime < $1", db.TableOtpCodes)
	tag, err := m.db.Exec(ctx, sql, now)
	if err != nil {
		return 0, apperror.NewDatabaseError("failed to delete expired otp codes", err)
	}
	return tag.RowsAffected(), nil
}
