package db

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/niposch/wake-on-lan-web/internal/repo"
	"github.com/stretchr/testify/assert"
)

func TestRepository_CreateRefreshToken(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repository := &Repository{conn: sqlxDB}

	userID := uuid.New()
	tokenHash := "a3f1c2d4"
	expiresAt := time.Now().Add(7 * 24 * time.Hour)

	tests := []struct {
		name        string
		mock        func()
		expectedErr error
	}{
		{
			name: "Success",
			mock: func() {
				mock.ExpectExec(regexp.QuoteMeta(tokenCreateQ)).
					WithArgs(userID, tokenHash, expiresAt).
					WillReturnResult(sqlmock.NewResult(1, 1))
			},
			expectedErr: nil,
		},
		{
			name: "DatabaseError",
			mock: func() {
				mock.ExpectExec(regexp.QuoteMeta(tokenCreateQ)).
					WithArgs(userID, tokenHash, expiresAt).
					WillReturnError(errors.New("database error"))
			},
			expectedErr: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mock()

			err := repository.CreateRefreshToken(context.Background(), userID, tokenHash, expiresAt)

			if tt.expectedErr != nil {
				assert.Error(t, err)
				assert.EqualError(t, err, tt.expectedErr.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_RotateRefreshToken(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repository := &Repository{conn: sqlxDB}

	userID := uuid.New()
	oldHash := "old-hash"
	newHash := "new-hash"
	newExpiry := time.Now().Add(7 * 24 * time.Hour)

	tests := []struct {
		name        string
		mock        func()
		expected    uuid.UUID
		expectedErr error
	}{
		{
			name: "Success",
			mock: func() {
				mock.ExpectBegin()
				rows := sqlmock.NewRows([]string{"user_id", "expires_at"}).
					AddRow(userID, time.Now().Add(time.Hour))
				mock.ExpectQuery(regexp.QuoteMeta(tokenDeleteReturningQ)).
					WithArgs(oldHash).
					WillReturnRows(rows)
				mock.ExpectExec(regexp.QuoteMeta(tokenCreateQ)).
					WithArgs(userID, newHash, newExpiry).
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectCommit()
			},
			expected:    userID,
			expectedErr: nil,
		},
		{
			name: "UnknownToken",
			mock: func() {
				mock.ExpectBegin()
				mock.ExpectQuery(regexp.QuoteMeta(tokenDeleteReturningQ)).
					WithArgs(oldHash).
					WillReturnError(sql.ErrNoRows)
				mock.ExpectRollback()
			},
			expected:    uuid.Nil,
			expectedErr: repo.ErrNotFound,
		},
		{
			// The delete of an expired token is committed but rotation
			// is refused, so no replacement insert happens.
			name: "ExpiredTokenConsumedNotRotated",
			mock: func() {
				mock.ExpectBegin()
				rows := sqlmock.NewRows([]string{"user_id", "expires_at"}).
					AddRow(userID, time.Now().Add(-time.Minute))
				mock.ExpectQuery(regexp.QuoteMeta(tokenDeleteReturningQ)).
					WithArgs(oldHash).
					WillReturnRows(rows)
				mock.ExpectCommit()
			},
			expected:    uuid.Nil,
			expectedErr: repo.ErrNotFound,
		},
		{
			name: "BeginTxError",
			mock: func() {
				mock.ExpectBegin().WillReturnError(errors.New("tx begin error"))
			},
			expected:    uuid.Nil,
			expectedErr: errors.New("tx begin error"),
		},
		{
			name: "InsertError",
			mock: func() {
				mock.ExpectBegin()
				rows := sqlmock.NewRows([]string{"user_id", "expires_at"}).
					AddRow(userID, time.Now().Add(time.Hour))
				mock.ExpectQuery(regexp.QuoteMeta(tokenDeleteReturningQ)).
					WithArgs(oldHash).
					WillReturnRows(rows)
				mock.ExpectExec(regexp.QuoteMeta(tokenCreateQ)).
					WithArgs(userID, newHash, newExpiry).
					WillReturnError(errors.New("insert error"))
				mock.ExpectRollback()
			},
			expected:    uuid.Nil,
			expectedErr: errors.New("insert error"),
		},
		{
			name: "CommitError",
			mock: func() {
				mock.ExpectBegin()
				rows := sqlmock.NewRows([]string{"user_id", "expires_at"}).
					AddRow(userID, time.Now().Add(time.Hour))
				mock.ExpectQuery(regexp.QuoteMeta(tokenDeleteReturningQ)).
					WithArgs(oldHash).
					WillReturnRows(rows)
				mock.ExpectExec(regexp.QuoteMeta(tokenCreateQ)).
					WithArgs(userID, newHash, newExpiry).
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectCommit().WillReturnError(errors.New("commit error"))
			},
			expected:    uuid.Nil,
			expectedErr: errors.New("commit error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mock()

			res, err := repository.RotateRefreshToken(context.Background(), oldHash, newHash, newExpiry)

			if tt.expectedErr != nil {
				assert.Error(t, err)
				if errors.Is(tt.expectedErr, repo.ErrNotFound) {
					assert.ErrorIs(t, err, repo.ErrNotFound)
				} else {
					assert.EqualError(t, err, tt.expectedErr.Error())
				}
			} else {
				assert.NoError(t, err)
			}

			assert.Equal(t, tt.expected, res)
		})
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_DeleteRefreshToken(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repository := &Repository{conn: sqlxDB}

	tokenHash := "hash-to-delete"

	tests := []struct {
		name        string
		mock        func()
		expectedErr error
	}{
		{
			name: "Success",
			mock: func() {
				mock.ExpectExec(regexp.QuoteMeta(tokenDeleteQ)).
					WithArgs(tokenHash).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			expectedErr: nil,
		},
		{
			name: "NotFound",
			mock: func() {
				mock.ExpectExec(regexp.QuoteMeta(tokenDeleteQ)).
					WithArgs(tokenHash).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			expectedErr: repo.ErrNotFound,
		},
		{
			name: "DatabaseError",
			mock: func() {
				mock.ExpectExec(regexp.QuoteMeta(tokenDeleteQ)).
					WithArgs(tokenHash).
					WillReturnError(errors.New("database error"))
			},
			expectedErr: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mock()

			err := repository.DeleteRefreshToken(context.Background(), tokenHash)

			if tt.expectedErr != nil {
				assert.Error(t, err)
				if errors.Is(tt.expectedErr, repo.ErrNotFound) {
					assert.ErrorIs(t, err, repo.ErrNotFound)
				} else {
					assert.EqualError(t, err, tt.expectedErr.Error())
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_DeleteExpiredRefreshTokens(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repository := &Repository{conn: sqlxDB}

	tests := []struct {
		name        string
		mock        func()
		expected    int64
		expectedErr error
	}{
		{
			name: "Success",
			mock: func() {
				mock.ExpectExec(regexp.QuoteMeta(tokenDeleteExpiredQ)).
					WillReturnResult(sqlmock.NewResult(0, 3))
			},
			expected:    3,
			expectedErr: nil,
		},
		{
			name: "NothingExpired",
			mock: func() {
				mock.ExpectExec(regexp.QuoteMeta(tokenDeleteExpiredQ)).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			expected:    0,
			expectedErr: nil,
		},
		{
			name: "DatabaseError",
			mock: func() {
				mock.ExpectExec(regexp.QuoteMeta(tokenDeleteExpiredQ)).
					WillReturnError(errors.New("database error"))
			},
			expected:    0,
			expectedErr: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mock()

			aff, err := repository.DeleteExpiredRefreshTokens(context.Background())

			if tt.expectedErr != nil {
				assert.Error(t, err)
				assert.EqualError(t, err, tt.expectedErr.Error())
			} else {
				assert.NoError(t, err)
			}

			assert.Equal(t, tt.expected, aff)
		})
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}
