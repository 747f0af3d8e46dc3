package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emotune/emotune/internal/domain"
)

const (
	insertUserSQL     = `INSERT INTO users \(id, firstname, lastname, email, password_hash, profile_pic, created_at, updated_at\) VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, NOW\(\), NOW\(\)\) RETURNING created_at, updated_at`
	selectUserSQL     = `SELECT id, firstname, lastname, email, password_hash, profile_pic, created_at, updated_at FROM users WHERE email = \$1`
	updatePasswordSQL = `UPDATE users SET password_hash = \$2, updated_at = NOW\(\) WHERE email = \$1`
	updatePictureSQL  = `UPDATE users SET profile_pic = \$2, updated_at = NOW\(\) WHERE email = \$1`
)

func TestUserRepository_Create(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		mockSetup func(mock pgxmock.PgxPoolIface)
		wantErr   error
	}{
		{
			name: "successful creation",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(insertUserSQL).
					WithArgs(pgxmock.AnyArg(), "Ada", "Lovelace", "ada@example.com", "hash", (*string)(nil)).
					WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
			},
		},
		{
			name: "duplicate email",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(insertUserSQL).
					WithArgs(pgxmock.AnyArg(), "Ada", "Lovelace", "ada@example.com", "hash", (*string)(nil)).
					WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})
			},
			wantErr: domain.ErrEmailExists,
		},
		{
			name: "database error",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(insertUserSQL).
					WithArgs(pgxmock.AnyArg(), "Ada", "Lovelace", "ada@example.com", "hash", (*string)(nil)).
					WillReturnError(errors.New("connection reset"))
			},
			wantErr: errors.New("create user: connection reset"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.mockSetup(mock)

			user := &domain.User{
				FirstName:    "Ada",
				LastName:     "Lovelace",
				Email:        "ada@example.com",
				PasswordHash: "hash",
			}
			err = NewUserRepository(mock).Create(context.Background(), user)

			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, domain.ErrEmailExists) {
					assert.ErrorIs(t, err, domain.ErrEmailExists)
				} else {
					assert.EqualError(t, err, tt.wantErr.Error())
				}
			} else {
				require.NoError(t, err)
				assert.NotEqual(t, uuid.Nil, user.ID)
				assert.Equal(t, now, user.CreatedAt)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	userID := uuid.New()
	now := time.Now()
	pic := "http://localhost:8000/uploads/ada_at_example.com.jpg"

	tests := []struct {
		name      string
		mockSetup func(mock pgxmock.PgxPoolIface)
		want      *domain.User
		wantErr   error
	}{
		{
			name: "successful retrieval",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{
					"id", "firstname", "lastname", "email", "password_hash", "profile_pic", "created_at", "updated_at",
				}).AddRow(userID, "Ada", "Lovelace", "ada@example.com", "hash", &pic, now, now)

				mock.ExpectQuery(selectUserSQL).WithArgs("ada@example.com").WillReturnRows(rows)
			},
			want: &domain.User{
				ID:           userID,
				FirstName:    "Ada",
				LastName:     "Lovelace",
				Email:        "ada@example.com",
				PasswordHash: "hash",
				ProfilePic:   &pic,
				CreatedAt:    now,
				UpdatedAt:    now,
			},
		},
		{
			name: "user not found",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(selectUserSQL).WithArgs("ada@example.com").WillReturnError(pgx.ErrNoRows)
			},
			wantErr: domain.ErrUserNotFound,
		},
		{
			name: "database error",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(selectUserSQL).WithArgs("ada@example.com").WillReturnError(errors.New("timeout"))
			},
			wantErr: errors.New("get user by email: timeout"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.mockSetup(mock)

			got, err := NewUserRepository(mock).GetByEmail(context.Background(), "ada@example.com")

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Nil(t, got)
				if errors.Is(tt.wantErr, domain.ErrUserNotFound) {
					assert.ErrorIs(t, err, domain.ErrUserNotFound)
				} else {
					assert.EqualError(t, err, tt.wantErr.Error())
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_Updates(t *testing.T) {
	tests := []struct {
		name    string
		sql     string
		run     func(r *UserRepository) error
		arg     string
		result  pgconn.CommandTag
		execErr error
		wantErr error
	}{
		{
			name: "update password",
			sql:  updatePasswordSQL,
			run: func(r *UserRepository) error {
				return r.UpdatePassword(context.Background(), "ada@example.com", "new-hash")
			},
			arg:    "new-hash",
			result: pgxmock.NewResult("UPDATE", 1),
		},
		{
			name: "update password for missing user",
			sql:  updatePasswordSQL,
			run: func(r *UserRepository) error {
				return r.UpdatePassword(context.Background(), "ada@example.com", "new-hash")
			},
			arg:     "new-hash",
			result:  pgxmock.NewResult("UPDATE", 0),
			wantErr: domain.ErrUserNotFound,
		},
		{
			name: "update profile picture",
			sql:  updatePictureSQL,
			run: func(r *UserRepository) error {
				return r.UpdateProfilePic(context.Background(), "ada@example.com", "http://x/uploads/a.jpg")
			},
			arg:    "http://x/uploads/a.jpg",
			result: pgxmock.NewResult("UPDATE", 1),
		},
		{
			name: "update profile picture database error",
			sql:  updatePictureSQL,
			run: func(r *UserRepository) error {
				return r.UpdateProfilePic(context.Background(), "ada@example.com", "http://x/uploads/a.jpg")
			},
			arg:     "http://x/uploads/a.jpg",
			execErr: errors.New("disk full"),
			wantErr: errors.New("update profile picture: disk full"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			exp := mock.ExpectExec(tt.sql).WithArgs("ada@example.com", tt.arg)
			if tt.execErr != nil {
				exp.WillReturnError(tt.execErr)
			} else {
				exp.WillReturnResult(tt.result)
			}

			err = tt.run(NewUserRepository(mock))

			switch {
			case tt.wantErr == nil:
				assert.NoError(t, err)
			case errors.Is(tt.wantErr, domain.ErrUserNotFound):
				assert.ErrorIs(t, err, domain.ErrUserNotFound)
			default:
				assert.EqualError(t, err, tt.wantErr.Error())
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, isUniqueViolation(nil))
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, isUniqueViolation(errors.New(`ERROR: duplicate key value violates unique constraint "idx_users_email"`)))
	assert.False(t, isUniqueViolation(errors.New("connection refused")))
}
