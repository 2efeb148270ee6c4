package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/user/campusconnect-go/apperror"
	"github.com/user/campusconnect-go/config"
	"github.com/user/campusconnect-go/db"
	"github.com/user/campusconnect-go/querybuilder"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
	// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
	pgUniqueViolation = "23505"
)

// Claims is the JWT payload: the owning student's erp plus the token type
// ("access" or "refresh") and the registered claims.
type Claims struct {
	ERP       string `json:"erp"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// OTPNotifier delivers a freshly generated OTP to a student. Actual delivery
// (mail, SMS) is outside this service; the default implementation only logs
// that a code was issued.
type OTPNotifier interface {
	SendOTP(email, otp string)
}

// LogNotifier is the default OTPNotifier. It records that a code was issued
// without exposing the code itself.
type LogNotifier struct {
	Logger *zap.Logger
}

// SendOTP implements OTPNotifier.
func (n LogNotifier) SendOTP(email, _ string) {
	n.Logger.Info("password reset OTP issued", zap.String("email", email))
}

// AuthService provides authentication-related services.
type AuthService struct {
	db         db.Executor
	otp        *OTPModel
	authConfig config.AuthConfig
	otpConfig  config.OTPConfig
	notifier   OTPNotifier
	now        func() time.Time
}

// NewAuthService creates a new AuthService with its dependencies injected.
func NewAuthService(exec db.Executor, authConfig config.AuthConfig, otpConfig config.OTPConfig, notifier OTPNotifier) *AuthService {
	return &AuthService{
		db:         exec,
		otp:        NewOTPModel(exec),
		authConfig: authConfig,
		otpConfig:  otpConfig,
		notifier:   notifier,
		now:        time.Now,
	}
}

// studentAccount is the slice of a students row the auth flows need.
type studentAccount struct {
	ERP            string
	FirstName      string
	LastName       string
	Email          string
	HashedPassword string
	Role           string
	IsActive       bool
}

// Register creates a new student account and returns the public profile with
// a fresh token pair.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthenticatedStudent, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	assignments := []querybuilder.Assignment{
		{Column: "erp", Value: req.ERP},
		{Column: "first_name", Value: req.FirstName},
		{Column: "last_name", Value: req.LastName},
		{Column: "gender", Value: req.Gender},
		{Column: "contact", Value: req.Contact},
		{Column: "email", Value: strings.ToLower(req.Email)},
		{Column: "birthday", Value: req.Birthday},
		{Column: "password", Value: string(hashedPassword)},
		{Column: "profile_picture_url", Value: nullableString(req.ProfilePictureURL)},
		{Column: "graduation_year", Value: req.GraduationYear},
		{Column: "program_id", Value: req.ProgramID},
		{Column: "campus_id", Value: req.CampusID},
		{Column: "role", Value: RoleAPIUser},
		{Column: "is_active", Value: true},
	}
	clause, args, err := querybuilder.InsertClause(assignments, 1)
	if err != nil {
		return nil, err
	}

	sql := fmt.Sprintf("INSERT INTO %s %s", db.TableStudents, clause)
	if _, err := s.db.Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			if strings.Contains(pgErr.ConstraintName, "email") {
				return nil, apperror.NewConflictError("email already registered", nil)
			}
			return nil, apperror.NewConflictError("erp already registered", nil)
		}
		return nil, apperror.NewDatabaseError("failed to register student", err)
	}

	token, err := s.generateTokens(req.ERP)
	if err != nil {
		return nil, err
	}
	return &AuthenticatedStudent{
		ERP:       req.ERP,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     strings.ToLower(req.Email),
		Role:      RoleAPIUser,
		Token:     *token,
	}, nil
}

// Login authenticates a student and returns the profile with a token pair.
// Both unknown erp and wrong password produce the same response so callers
// cannot probe for registered accounts.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthenticatedStudent, error) {
	account, err := s.getAccount(ctx, req.ERP)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apperror.NewInvalidCredentialsError("Incorrect ERP or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.HashedPassword), []byte(req.Password)); err != nil {
		return nil, apperror.NewInvalidCredentialsError("Incorrect ERP or password")
	}
	if !account.IsActive {
		return nil, apperror.NewAppError(apperror.ForbiddenError, "Account is deactivated", nil)
	}

	token, err := s.generateTokens(account.ERP)
	if err != nil {
		return nil, err
	}
	return &AuthenticatedStudent{
		ERP:       account.ERP,
		FirstName: account.FirstName,
		LastName:  account.LastName,
		Email:     account.Email,
		Role:      account.Role,
		Token:     *token,
	}, nil
}

// RefreshToken issues a new access token for a valid refresh token. The
// refresh token itself is returned unchanged; rotation is not implemented.
func (s *AuthService) RefreshToken(ctx context.Context, refreshTokenString string) (*TokenResponse, error) {
	claims, err := s.validateToken(refreshTokenString, tokenTypeRefresh)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperror.NewTokenExpiredError(err)
		}
		return nil, apperror.NewTokenVerificationError("invalid refresh token", err)
	}

	accessToken, accessExpiresAt, err := s.generateSpecificToken(claims.ERP, tokenTypeAccess, s.authConfig.AccessTokenDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to generate new access token: %w", err)
	}

	return &TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenString,
		TokenType:    "Bearer",
		ExpiresIn:    accessExpiresAt.Unix(),
	}, nil
}

// ForgotPassword starts the OTP flow. When a still-valid code exists its
// expiry is extended; otherwise any stale row is replaced with a fresh code
// and the notifier is invoked.
func (s *AuthService) ForgotPassword(ctx context.Context, erp string) error {
	account, err := s.getAccount(ctx, erp)
	if err != nil {
		return err
	}
	if account == nil {
		return apperror.NewNotFoundError("Student not found")
	}

	now := s.now()
	expiry := now.Add(s.otpConfig.Validity)

	existing, err := s.otp.FindOne(ctx, erp)
	if err != nil {
		return err
	}
	if existing != nil && !existing.Expired(now) {
		_, err := s.otp.UpdateExpiry(ctx, expiry, erp)
		return err
	}
	if existing != nil {
		if _, err := s.otp.Delete(ctx, []querybuilder.Predicate{querybuilder.Eq{Column: "erp", Value: erp}}); err != nil {
			return err
		}
	}

	code, err := generateOTP()
	if err != nil {
		return apperror.NewInternalError("failed to generate OTP", err)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return apperror.NewInternalError("failed to hash OTP", err)
	}

	if _, err := s.otp.Create(ctx, OTPCode{ERP: erp, OTP: string(hashed), ExpirationDatetime: expiry}); err != nil {
		return err
	}
	if s.notifier != nil {
		s.notifier.SendOTP(account.Email, code)
	}
	return nil
}

// VerifyOTP checks the supplied code against the stored hash. A missing row
// and a wrong code are indistinguishable to the caller.
func (s *AuthService) VerifyOTP(ctx context.Context, req VerifyOTPRequest) error {
	code, err := s.otp.FindOne(ctx, req.ERP)
	if err != nil {
		return err
	}
	if code == nil {
		return apperror.NewOTPVerificationError()
	}
	if code.Expired(s.now()) {
		return apperror.NewOTPExpiredError()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(code.OTP), []byte(req.OTP)); err != nil {
		return apperror.NewOTPVerificationError()
	}
	return nil
}

// ResetPassword sets a new password after re-verifying the OTP, then consumes
// the code so it cannot be replayed.
func (s *AuthService) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if err := s.VerifyOTP(ctx, VerifyOTPRequest{ERP: req.ERP, OTP: req.OTP}); err != nil {
		return err
	}

	if err := s.updatePassword(ctx, req.ERP, req.NewPassword); err != nil {
		return err
	}

	_, err := s.otp.Delete(ctx, []querybuilder.Predicate{querybuilder.Eq{Column: "erp", Value: req.ERP}})
	return err
}

// ChangePassword changes the password of an authenticated student after
// checking the old one.
func (s *AuthService) ChangePassword(ctx context.Context, erp string, req ChangePasswordRequest) error {
	account, err := s.getAccount(ctx, erp)
	if err != nil {
		return err
	}
	if account == nil {
		return apperror.NewNotFoundError("Student not found")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.HashedPassword), []byte(req.OldPassword)); err != nil {
		return apperror.NewInvalidCredentialsError("Incorrect old password")
	}
	return s.updatePassword(ctx, erp, req.NewPassword)
}

// --- token helpers ---

func (s *AuthService) generateTokens(erp string) (*TokenResponse, error) {
	accessToken, accessExpiresAt, err := s.generateSpecificToken(erp, tokenTypeAccess, s.authConfig.AccessTokenDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, _, err := s.generateSpecificToken(erp, tokenTypeRefresh, s.authConfig.RefreshTokenDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return &TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    accessExpiresAt.Unix(),
	}, nil
}

func (s *AuthService) generateSpecificToken(erp string, tokenType string, duration time.Duration) (string, time.Time, error) {
	now := s.now()
	expirationTime := now.Add(duration)
	claims := &Claims{
		ERP:       erp,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "campusconnect",
			Subject:   erp,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.authConfig.JWTSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, expirationTime, nil
}

func (s *AuthService) validateToken(tokenString string, expectedTokenType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.authConfig.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token is invalid")
	}
	if claims.TokenType != expectedTokenType {
		return nil, fmt.Errorf("invalid token type: expected %s, got %s", expectedTokenType, claims.TokenType)
	}
	return claims, nil
}

// --- students table helpers ---

func (s *AuthService) getAccount(ctx context.Context, erp string) (*studentAccount, error) {
	sql := fmt.Sprintf(
		"SELECT erp, first_name, last_name, email, password, role, is_active FROM %s WHERE erp = $1",
		db.TableStudents,
	)

	var account studentAccount
	err := s.db.QueryRow(ctx, sql, erp).Scan(
		&account.ERP,
		&account.FirstName,
		&account.LastName,
		&account.Email,
		&account.HashedPassword,
		&account.Role,
		&account.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.NewDatabaseError("failed to get student account", err)
	}
	return &account, nil
}

func (s *AuthService) updatePassword(ctx context.Context, erp string, newPassword string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperror.NewInternalError("failed to hash password", err)
	}

	clause, args, err := querybuilder.SetClause([]querybuilder.Assignment{
		{Column: "password", Value: string(hashed)},
	}, 1)
	if err != nil {
		return err
	}

	sql := fmt.Sprintf("UPDATE %s SET %s WHERE erp = $%d", db.TableStudents, clause, len(args)+1)
	tag, err := s.db.Exec(ctx, sql, append(args, erp)...)
	if err != nil {
		return apperror.NewDatabaseError("failed to update password", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFoundError("Student not found")
	}
	return nil
}

// generateOTP draws a uniformly random 4-digit code.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}

// nullableString maps "" to NULL for optional text columns.
func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
