package repositories

import (
	"testing"
	"time"

	"travelapp/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestBookingConfirmOnlyTouchesPendingRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	repo := BookingRepo{DB: db}

	mock.ExpectExec("UPDATE bookings SET status=").
		WithArgs(domain.BookingConfirmed, "bkg-1", domain.BookingPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.Confirm("bkg-1")
	if err != nil {
		t.Fatalf("confirm error: %v", err)
	}
	if !ok {
		t.Fatalf("expected the pending row to be confirmed")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookingConfirmReportsLostRace(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	repo := BookingRepo{DB: db}

	mock.ExpectExec("UPDATE bookings SET status=").
		WithArgs(domain.BookingConfirmed, "bkg-1", domain.BookingPending).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.Confirm("bkg-1")
	if err != nil {
		t.Fatalf("confirm error: %v", err)
	}
	if ok {
		t.Fatalf("zero affected rows must report false")
	}
}

func TestBookingGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	repo := BookingRepo{DB: db}

	mock.ExpectQuery("FROM bookings WHERE id=").WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "listing_id", "user_id", "start_date", "end_date", "total_price", "status", "created_at", "updated_at",
		}))

	_, err = repo.GetByID("missing")
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestBookingCancelGuardsStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	repo := BookingRepo{DB: db}

	mock.ExpectExec("UPDATE bookings SET status=").
		WithArgs(domain.BookingCanceled, "bkg-1", domain.BookingPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.Cancel("bkg-1")
	if err != nil {
		t.Fatalf("cancel error: %v", err)
	}
	if !ok {
		t.Fatalf("expected the pending row to be canceled")
	}
}

func TestBookingListForGuestFiltersByListing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	repo := BookingRepo{DB: db}
	now := time.Now()

	mock.ExpectQuery("FROM bookings WHERE user_id=").
		WithArgs(int64(3), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "listing_id", "user_id", "start_date", "end_date", "total_price", "status", "created_at", "updated_at",
		}).AddRow("bkg-1", int64(7), int64(3), now, now, int64(500), domain.BookingPending, now, now))

	out, err := repo.ListForGuest(3, 7)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(out) != 1 || out[0].ID != "bkg-1" {
		t.Fatalf("unexpected result: %+v", out)
	}
}
