package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/codescribe/internal/apperror"
	"github.com/sakif/codescribe/internal/model"
	"github.com/sakif/codescribe/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// CreateUser inserts a new user. The UNIQUE constraint on email is the source
// of truth for duplicates — we translate that constraint violation into an
// apperror.Conflict rather than racing a SELECT-then-INSERT.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("user", user.Email)
		}
		return fmt.Errorf("sqlite: inserting user (email=%s): %w", user.Email, err)
	}

	return nil
}

// GetUserByEmail returns the full user record, password hash and reset-code
// fields included.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return db.getUser(ctx, `WHERE email = ?`, email)
}

// GetUserByID returns the user with the given internal ID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return db.getUser(ctx, `WHERE id = ?`, id)
}

func (db *DB) getUser(ctx context.Context, where string, arg any) (*model.User, error) {
	var u model.User
	var otp sql.NullString
	var otpExpires sql.NullTime

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, reset_otp, reset_otp_expires,
		        created_at, updated_at
		 FROM users `+where,
		arg,
	).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&otp,
		&otpExpires,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", fmt.Sprint(arg))
		}
		return nil, fmt.Errorf("sqlite: getting user %v: %w", arg, err)
	}

	if otp.Valid {
		u.ResetOTP = &otp.String
	}
	if otpExpires.Valid {
		u.ResetOTPExpires = &otpExpires.Time
	}

	return &u, nil
}

// SetResetCode stores a one-time reset code and its expiry, replacing any
// previously issued code for the user.
func (db *DB) SetResetCode(ctx context.Context, userID, code string, expires time.Time) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE users SET reset_otp = ?, reset_otp_expires = ?, updated_at = ?
		 WHERE id = ?`,
		code, expires, time.Now(), userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: setting reset code for user %s: %w", userID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("user", userID)
	}

	return nil
}

// UpdatePasswordAndClearResetCode replaces the password hash and wipes the
// reset-code fields in one statement, so a consumed code can never be
// replayed against the new password.
func (db *DB) UpdatePasswordAndClearResetCode(ctx context.Context, userID, passwordHash string) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE users
		 SET password_hash = ?, reset_otp = NULL, reset_otp_expires = NULL, updated_at = ?
		 WHERE id = ?`,
		passwordHash, time.Now(), userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating password for user %s: %w", userID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("user", userID)
	}

	return nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
// modernc.org/sqlite surfaces these as "constraint failed: UNIQUE ..." in
// the error text; matching the message keeps us off driver-private types.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
