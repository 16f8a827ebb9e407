package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func newHiringRepoForTest(t *testing.T) (*HiringRepository, sqlmock.Sqlmock) {
	db, mock := newMockDB(t)
	return NewHiringRepository(db, NewGigRepository(db), NewBidRepository(db)), mock
}

const (
	assignGigQuery  = `UPDATE gigs SET status = 'assigned', hired_bid_id = $2, updated_at = NOW() WHERE id = $1 AND status = 'open'`
	markHiredQuery  = `UPDATE bids SET status = 'hired', updated_at = NOW() WHERE id = $1 AND status = 'pending'`
	rejectBidsQuery = `UPDATE bids SET status = 'rejected', updated_at = NOW() WHERE gig_id = $1 AND id <> $2 AND status = 'pending'`
)

func TestAssignGigIfOpenWinsArbitration(t *testing.T) {
	repo, mock := newHiringRepoForTest(t)
	gigID, bidID := uuid.New(), uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(assignGigQuery)).
		WithArgs(gigID, bidID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assigned, err := repo.AssignGigIfOpen(context.Background(), gigID, bidID)
	if err != nil {
		t.Fatalf("AssignGigIfOpen: неожиданная ошибка %v", err)
	}
	if !assigned {
		t.Error("ожидался выигранный CAS при затронутой строке")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("ожидания моков: %v", err)
	}
}

func TestAssignGigIfOpenLosesArbitration(t *testing.T) {
	repo, mock := newHiringRepoForTest(t)
	gigID, bidID := uuid.New(), uuid.New()

	// Guard status = 'open' не прошёл: ноль строк, никакой ошибки.
	mock.ExpectExec(regexp.QuoteMeta(assignGigQuery)).
		WithArgs(gigID, bidID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assigned, err := repo.AssignGigIfOpen(context.Background(), gigID, bidID)
	if err != nil {
		t.Fatalf("AssignGigIfOpen: неожиданная ошибка %v", err)
	}
	if assigned {
		t.Error("проигранный CAS должен вернуть false")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("ожидания моков: %v", err)
	}
}

func TestWithinHireCommitsWholeCascade(t *testing.T) {
	repo, mock := newHiringRepoForTest(t)
	gigID, bidID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(assignGigQuery)).
		WithArgs(gigID, bidID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(markHiredQuery)).
		WithArgs(bidID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(rejectBidsQuery)).
		WithArgs(gigID, bidID).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := repo.WithinHire(context.Background(), func(u HireUnit) error {
		assigned, err := u.AssignGigIfOpen(context.Background(), gigID, bidID)
		if err != nil || !assigned {
			t.Fatalf("AssignGigIfOpen: assigned=%v err=%v", assigned, err)
		}
		hired, err := u.MarkBidHired(context.Background(), bidID)
		if err != nil || !hired {
			t.Fatalf("MarkBidHired: hired=%v err=%v", hired, err)
		}
		rejected, err := u.RejectPendingBids(context.Background(), gigID, bidID)
		if err != nil {
			t.Fatalf("RejectPendingBids: %v", err)
		}
		if rejected != 2 {
			t.Errorf("отклонено = %d, ожидалось 2", rejected)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinHire: неожиданная ошибка %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("ожидания моков: %v", err)
	}
}

func TestWithinHireRollsBackOnError(t *testing.T) {
	repo, mock := newHiringRepoForTest(t)
	gigID, bidID := uuid.New(), uuid.New()
	boom := errors.New("cascade failed")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(assignGigQuery)).
		WithArgs(gigID, bidID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	err := repo.WithinHire(context.Background(), func(u HireUnit) error {
		if _, err := u.AssignGigIfOpen(context.Background(), gigID, bidID); err != nil {
			t.Fatalf("AssignGigIfOpen: %v", err)
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("ожидалась ошибка каскада, получено %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("ожидания моков: %v", err)
	}
}
