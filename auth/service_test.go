package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/user/campusconnect-go/apperror"
	"github.com/user/campusconnect-go/config"
)

// fakeExecutor records the statements it receives and replies with canned
// results. Query is unused by the flows under test.
type fakeExecutor struct {
	execTag  pgconn.CommandTag
	execErr  error
	row      pgx.Row
	lastSQL  string
	lastArgs []interface{}
	execSQLs []string
}

func (f *fakeExecutor) Exec(_ context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	f.lastSQL = sql
	f.lastArgs = args
	f.execSQLs = append(f.execSQLs, sql)
	return f.execTag, f.execErr
}

func (f *fakeExecutor) Query(_ context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return nil, errors.New("Query not supported by fakeExecutor")
}

func (f *fakeExecutor) QueryRow(_ context.Context, sql string, args ...interface{}) pgx.Row {
	f.lastSQL = sql
	f.lastArgs = args
	return f.row
}

// scanRow feeds fixed values to Scan in declaration order.
type scanRow struct {
	values []interface{}
	err    error
}

func (r scanRow) Scan(dest ...interface{}) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch target := d.(type) {
		case *string:
			*target = r.values[i].(string)
		case *bool:
			*target = r.values[i].(bool)
		case *time.Time:
			*target = r.values[i].(time.Time)
		default:
			return errors.New("scanRow: unsupported destination type")
		}
	}
	return nil
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:            "test-secret",
		AccessTokenDuration:  15 * time.Minute,
		RefreshTokenDuration: 24 * time.Hour,
	}
}

func testOTPConfig() config.OTPConfig {
	return config.OTPConfig{Validity: 10 * time.Minute, CleanupInterval: 15 * time.Minute}
}

func newTestService(exec *fakeExecutor) *AuthService {
	return NewAuthService(exec, testAuthConfig(), testOTPConfig(), nil)
}

func mustHash(t *testing.T, plaintext string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return string(hash)
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestService(&fakeExecutor{})

	tokens, err := svc.generateTokens("17855")
	if err != nil {
		t.Fatalf("generateTokens: %v", err)
	}
	if tokens.TokenType != "Bearer" {
		t.Errorf("token_type = %q", tokens.TokenType)
	}

	claims, err := svc.validateToken(tokens.AccessToken, tokenTypeAccess)
	if err != nil {
		t.Fatalf("validateToken(access): %v", err)
	}
	if claims.ERP != "17855" {
		t.Errorf("erp claim = %q", claims.ERP)
	}

	// A refresh token must not pass as an access token.
	if _, err := svc.validateToken(tokens.RefreshToken, tokenTypeAccess); err == nil {
		t.Error("refresh token accepted as access token")
	}
}

func TestRefreshTokenIssuesNewAccessToken(t *testing.T) {
	svc := newTestService(&fakeExecutor{})
	tokens, err := svc.generateTokens("17855")
	if err != nil {
		t.Fatalf("generateTokens: %v", err)
	}

	refreshed, err := svc.RefreshToken(context.Background(), tokens.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken: %v", err)
	}
	if refreshed.RefreshToken != tokens.RefreshToken {
		t.Error("refresh token was rotated")
	}
	if _, err := svc.validateToken(refreshed.AccessToken, tokenTypeAccess); err != nil {
		t.Errorf("new access token invalid: %v", err)
	}
}

func TestRefreshTokenRejectsAccessToken(t *testing.T) {
	svc := newTestService(&fakeExecutor{})
	tokens, err := svc.generateTokens("17855")
	if err != nil {
		t.Fatalf("generateTokens: %v", err)
	}

	_, err = svc.RefreshToken(context.Background(), tokens.AccessToken)
	appErr, ok := apperror.FromError(err)
	if !ok || appErr.Type != apperror.TokenVerificationError {
		t.Fatalf("expected TokenVerificationError, got %v", err)
	}
}

func TestVerifyOTPSuccess(t *testing.T) {
	exec := &fakeExecutor{row: scanRow{values: []interface{}{
		"17855", mustHash(t, "1234"), time.Now().Add(5 * time.Minute),
	}}}
	svc := newTestService(exec)

	if err := svc.VerifyOTP(context.Background(), VerifyOTPRequest{ERP: "17855", OTP: "1234"}); err != nil {
		t.Fatalf("VerifyOTP: %v", err)
	}
}

func TestVerifyOTPWrongCode(t *testing.T) {
	exec := &fakeExecutor{row: scanRow{values: []interface{}{
		"17855", mustHash(t, "1234"), time.Now().Add(5 * time.Minute),
	}}}
	svc := newTestService(exec)

	err := svc.VerifyOTP(context.Background(), VerifyOTPRequest{ERP: "17855", OTP: "9999"})
	appErr, ok := apperror.FromError(err)
	if !ok || appErr.Code() != "OTPVerificationException" {
		t.Fatalf("expected OTPVerificationException, got %v", err)
	}
	if appErr.StatusCode() != 401 {
		t.Errorf("status = %d", appErr.StatusCode())
	}
}

func TestVerifyOTPNoRow(t *testing.T) {
	exec := &fakeExecutor{row: scanRow{err: pgx.ErrNoRows}}
	svc := newTestService(exec)

	err := svc.VerifyOTP(context.Background(), VerifyOTPRequest{ERP: "17855", OTP: "1234"})
	appErr, ok := apperror.FromError(err)
	if !ok || appErr.Code() != "OTPVerificationException" {
		t.Fatalf("expected OTPVerificationException, got %v", err)
	}
}

func TestVerifyOTPExpired(t *testing.T) {
	exec := &fakeExecutor{row: scanRow{values: []interface{}{
		"17855", mustHash(t, "1234"), time.Now().Add(-time.Minute),
	}}}
	svc := newTestService(exec)

	err := svc.VerifyOTP(context.Background(), VerifyOTPRequest{ERP: "17855", OTP: "1234"})
	appErr, ok := apperror.FromError(err)
	if !ok || appErr.Code() != "OTPExpiredException" {
		t.Fatalf("expected OTPExpiredException, got %v", err)
	}
	if appErr.StatusCode() != 400 {
		t.Errorf("status = %d", appErr.StatusCode())
	}
}

func TestChangePasswordWrongOldPassword(t *testing.T) {
	exec := &fakeExecutor{row: scanRow{values: []interface{}{
		"17855", "Mohammad", "Rafay", "a.rafaykhan@gmail.com",
		mustHash(t, "correct-password"), RoleAPIUser, true,
	}}}
	svc := newTestService(exec)

	err := svc.ChangePassword(context.Background(), "17855", ChangePasswordRequest{
		OldPassword: "wrong-password",
		NewPassword: "new-password-123",
	})
	appErr, ok := apperror.FromError(err)
	if !ok || appErr.Type != apperror.InvalidCredentialsError {
		t.Fatalf("expected InvalidCredentialsError, got %v", err)
	}
}

func TestChangePasswordUpdatesRow(t *testing.T) {
	exec := &fakeExecutor{
		row: scanRow{values: []interface{}{
			"17855", "Mohammad", "Rafay", "a.rafaykhan@gmail.com",
			mustHash(t, "old-password-1"), RoleAPIUser, true,
		}},
		execTag: pgconn.NewCommandTag("UPDATE 1"),
	}
	svc := newTestService(exec)

	err := svc.ChangePassword(context.Background(), "17855", ChangePasswordRequest{
		OldPassword: "old-password-1",
		NewPassword: "new-password-123",
	})
	if err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	want := "UPDATE students SET password = $1 WHERE erp = $2"
	if exec.lastSQL != want {
		t.Errorf("sql = %q, want %q", exec.lastSQL, want)
	}
	if len(exec.lastArgs) != 2 || exec.lastArgs[1] != "17855" {
		t.Errorf("args = %v", exec.lastArgs)
	}
}

func TestLoginUnknownERP(t *testing.T) {
	exec := &fakeExecutor{row: scanRow{err: pgx.ErrNoRows}}
	svc := newTestService(exec)

	_, err := svc.Login(context.Background(), LoginRequest{ERP: "00000", Password: "whatever"})
	appErr, ok := apperror.FromError(err)
	if !ok || appErr.Type != apperror.InvalidCredentialsError {
		t.Fatalf("expected InvalidCredentialsError, got %v", err)
	}
}
