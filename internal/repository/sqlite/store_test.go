package sqlite

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Freeeeeet/sports_booking/internal/model"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantIs        error
		wantTransient bool
	}{
		{"overlap trigger", errors.New("booking_overlap"), model.ErrSlotUnavailable, false},
		{"busy", sqlite3.Error{Code: sqlite3.ErrBusy}, nil, true},
		{"locked", sqlite3.Error{Code: sqlite3.ErrLocked}, nil, true},
		{"foreign key", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey}, model.ErrValidation, false},
		{"restrict on delete", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintTrigger}, model.ErrValidation, false},
		{"unique", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}, model.ErrValidation, false},
		{"check", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintCheck}, model.ErrValidation, false},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify("op", tt.err)
			assert.Error(t, err)
			assert.Equal(t, tt.wantTransient, model.IsTransient(err))
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
		})
	}

	assert.NoError(t, classify("op", nil))

	plain := classify("op", errors.New("disk I/O error"))
	assert.False(t, model.IsTransient(plain))
	assert.False(t, errors.Is(plain, model.ErrValidation))
}

func TestDSN(t *testing.T) {
	assert.Equal(t, "booking.db?_foreign_keys=1&_busy_timeout=5000&_txlock=immediate", DSN("booking.db"))
	assert.Equal(t, "file:x.db?mode=rwc&_foreign_keys=1&_busy_timeout=5000&_txlock=immediate", DSN("file:x.db?mode=rwc"))
}
