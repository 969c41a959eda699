package services

import (
	"context"
	"testing"
	"time"

	"travelapp/internal/domain"
	"travelapp/internal/domain/models"
	"travelapp/internal/payment"
	"travelapp/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

type fakeGateway struct {
	initCalls   int
	verifyCalls int

	checkoutURL string
	initErr     error
	verifyRes   payment.VerifyResult
	verifyErr   error
	lastInit    payment.InitializeRequest
}

func (g *fakeGateway) InitializeTransaction(_ context.Context, req payment.InitializeRequest) (string, error) {
	g.initCalls++
	g.lastInit = req
	if g.initErr != nil {
		return "", g.initErr
	}
	return g.checkoutURL, nil
}

func (g *fakeGateway) VerifyTransaction(_ context.Context, _ string) (payment.VerifyResult, error) {
	g.verifyCalls++
	if g.verifyErr != nil {
		return payment.VerifyResult{}, g.verifyErr
	}
	return g.verifyRes, nil
}

func newBookingService(t *testing.T) (BookingService, sqlmock.Sqlmock, *fakeGateway, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	gw := &fakeGateway{checkoutURL: "https://checkout.chapa.co/pay/abc"}
	svc := BookingService{
		Bookings:      repositories.BookingRepo{DB: db},
		Listings:      repositories.ListingRepo{DB: db},
		Users:         repositories.UserRepo{DB: db},
		Gateway:       gw,
		PublicBaseURL: "http://127.0.0.1:8080",
	}
	return svc, mock, gw, func() { db.Close() }
}

func bookingRows(id, status string, start, end time.Time, total int64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "listing_id", "user_id", "start_date", "end_date", "total_price", "status", "created_at", "updated_at",
	}).AddRow(id, int64(7), int64(3), start, end, total, status, now, now)
}

func bookingFixture(id, status string) models.Booking {
	return models.Booking{
		ID:         id,
		ListingID:  7,
		UserID:     3,
		StartDate:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC),
		TotalPrice: 1500,
		Status:     status,
	}
}

func listingRows(id, hostID, price int64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "host_id", "title", "description", "location", "price_per_night", "created_at", "updated_at",
	}).AddRow(id, hostID, "Lakeside Lodge", "Quiet rooms near Lake Tana", "Bahir Dar", price, now, now)
}

func TestCreateBookingComputesTotalAndPersistsPending(t *testing.T) {
	svc, mock, _, done := newBookingService(t)
	defer done()

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM listings WHERE id=").WithArgs(int64(7)).
		WillReturnRows(listingRows(7, 9, 500))
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(0, 1))

	b, err := svc.Create(CreateBookingInput{ListingID: 7, UserID: 3, StartDate: start, EndDate: end})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if b.ID == "" {
		t.Fatalf("expected a generated booking id")
	}
	if b.TotalPrice != 1500 {
		t.Fatalf("total price: got %d want 1500", b.TotalPrice)
	}
	if b.Status != domain.BookingPending {
		t.Fatalf("status: got %q want %q", b.Status, domain.BookingPending)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateBookingUnknownListing(t *testing.T) {
	svc, mock, _, done := newBookingService(t)
	defer done()

	mock.ExpectQuery("FROM listings WHERE id=").WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "host_id", "title", "description", "location", "price_per_night", "created_at", "updated_at",
		}))

	_, err := svc.Create(CreateBookingInput{
		ListingID: 99, UserID: 3,
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
	})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateBookingRejectsBackwardDates(t *testing.T) {
	svc, mock, _, done := newBookingService(t)
	defer done()

	mock.ExpectQuery("FROM listings WHERE id=").WithArgs(int64(7)).
		WillReturnRows(listingRows(7, 9, 500))

	_, err := svc.Create(CreateBookingInput{
		ListingID: 7, UserID: 3,
		StartDate: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestInitiatePaymentBuildsRequestFromBooking(t *testing.T) {
	svc, mock, gw, done := newBookingService(t)
	defer done()

	now := time.Now()
	mock.ExpectQuery("FROM users WHERE id=").WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "first_name", "last_name", "role", "created_at"}).
			AddRow(int64(3), "Abebe Bikila", "abebe@example.com", "Abebe", "Bikila", "guest", now))

	booking := bookingFixture("bkg-1", domain.BookingPending)
	url, err := svc.InitiatePayment(context.Background(), booking)
	if err != nil {
		t.Fatalf("initiate error: %v", err)
	}
	if url != gw.checkoutURL {
		t.Fatalf("checkout url: got %q want %q", url, gw.checkoutURL)
	}
	if gw.lastInit.Reference != "bkg-1" {
		t.Fatalf("reference: got %q want bkg-1", gw.lastInit.Reference)
	}
	if gw.lastInit.Amount != booking.TotalPrice {
		t.Fatalf("amount: got %d want %d", gw.lastInit.Amount, booking.TotalPrice)
	}
	want := "http://127.0.0.1:8080/api/payments/verify/bkg-1"
	if gw.lastInit.CallbackURL != want || gw.lastInit.ReturnURL != want {
		t.Fatalf("callback/return: got %q / %q want %q", gw.lastInit.CallbackURL, gw.lastInit.ReturnURL, want)
	}
}

func TestInitiatePaymentFailureKeepsBookingPending(t *testing.T) {
	svc, mock, gw, done := newBookingService(t)
	defer done()

	now := time.Now()
	mock.ExpectQuery("FROM users WHERE id=").WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "first_name", "last_name", "role", "created_at"}).
			AddRow(int64(3), "Abebe Bikila", "abebe@example.com", "Abebe", "Bikila", "guest", now))
	gw.initErr = context.DeadlineExceeded

	_, err := svc.InitiatePayment(context.Background(), bookingFixture("bkg-1", domain.BookingPending))
	if !domain.IsPaymentInitiation(err) {
		t.Fatalf("expected payment initiation error, got %v", err)
	}
	// No UPDATE or DELETE was expected on the mock; the pending row stays.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestVerifyAndConfirmHappyPath(t *testing.T) {
	svc, mock, gw, done := newBookingService(t)
	defer done()

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM bookings WHERE id=").WithArgs("bkg-1").
		WillReturnRows(bookingRows("bkg-1", domain.BookingPending, start, end, 1500))
	mock.ExpectExec("UPDATE bookings SET status=").
		WillReturnResult(sqlmock.NewResult(0, 1))
	gw.verifyRes = payment.VerifyResult{Status: "successful", Paid: true}

	b, err := svc.VerifyAndConfirm(context.Background(), "bkg-1")
	if err != nil {
		t.Fatalf("verify error: %v", err)
	}
	if b.Status != domain.BookingConfirmed {
		t.Fatalf("status: got %q want %q", b.Status, domain.BookingConfirmed)
	}
	if gw.verifyCalls != 1 {
		t.Fatalf("gateway verify calls: got %d want 1", gw.verifyCalls)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestVerifyAndConfirmIdempotent(t *testing.T) {
	svc, mock, gw, done := newBookingService(t)
	defer done()

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM bookings WHERE id=").WithArgs("bkg-1").
		WillReturnRows(bookingRows("bkg-1", domain.BookingConfirmed, start, end, 1500))

	b, err := svc.VerifyAndConfirm(context.Background(), "bkg-1")
	if err != nil {
		t.Fatalf("verify error: %v", err)
	}
	if b.Status != domain.BookingConfirmed {
		t.Fatalf("status: got %q want %q", b.Status, domain.BookingConfirmed)
	}
	if gw.verifyCalls != 0 {
		t.Fatalf("already confirmed booking must not hit the gateway, got %d calls", gw.verifyCalls)
	}
}

func TestVerifyAndConfirmUnknownReferenceSkipsGateway(t *testing.T) {
	svc, mock, gw, done := newBookingService(t)
	defer done()

	mock.ExpectQuery("FROM bookings WHERE id=").WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "listing_id", "user_id", "start_date", "end_date", "total_price", "status", "created_at", "updated_at",
		}))

	_, err := svc.VerifyAndConfirm(context.Background(), "missing")
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if gw.verifyCalls != 0 {
		t.Fatalf("unknown reference must not hit the gateway, got %d calls", gw.verifyCalls)
	}
}

func TestVerifyAndConfirmDeclinedStaysPending(t *testing.T) {
	svc, mock, gw, done := newBookingService(t)
	defer done()

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM bookings WHERE id=").WithArgs("bkg-1").
		WillReturnRows(bookingRows("bkg-1", domain.BookingPending, start, end, 1500))
	gw.verifyRes = payment.VerifyResult{Status: "failed", Paid: false}

	_, err := svc.VerifyAndConfirm(context.Background(), "bkg-1")
	if !domain.IsPaymentNotSuccessful(err) {
		t.Fatalf("expected payment-not-successful, got %v", err)
	}
	// No UPDATE was expected: the booking row is untouched.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestVerifyAndConfirmGatewayDown(t *testing.T) {
	svc, mock, gw, done := newBookingService(t)
	defer done()

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM bookings WHERE id=").WithArgs("bkg-1").
		WillReturnRows(bookingRows("bkg-1", domain.BookingPending, start, end, 1500))
	gw.verifyErr = context.DeadlineExceeded

	_, err := svc.VerifyAndConfirm(context.Background(), "bkg-1")
	if !domain.IsVerificationUnavailable(err) {
		t.Fatalf("expected verification unavailable, got %v", err)
	}
	if domain.IsPaymentNotSuccessful(err) {
		t.Fatalf("unreachable gateway must not look like a declined payment")
	}
}

func TestVerifyAndConfirmLostRaceAcceptsConfirmedRow(t *testing.T) {
	svc, mock, gw, done := newBookingService(t)
	defer done()

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM bookings WHERE id=").WithArgs("bkg-1").
		WillReturnRows(bookingRows("bkg-1", domain.BookingPending, start, end, 1500))
	gw.verifyRes = payment.VerifyResult{Status: "successful", Paid: true}
	mock.ExpectExec("UPDATE bookings SET status=").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("FROM bookings WHERE id=").WithArgs("bkg-1").
		WillReturnRows(bookingRows("bkg-1", domain.BookingConfirmed, start, end, 1500))

	b, err := svc.VerifyAndConfirm(context.Background(), "bkg-1")
	if err != nil {
		t.Fatalf("verify error: %v", err)
	}
	if b.Status != domain.BookingConfirmed {
		t.Fatalf("status: got %q want %q", b.Status, domain.BookingConfirmed)
	}
}

func TestCancelRejectsNonOwner(t *testing.T) {
	svc, mock, _, done := newBookingService(t)
	defer done()

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM bookings WHERE id=").WithArgs("bkg-1").
		WillReturnRows(bookingRows("bkg-1", domain.BookingPending, start, end, 1500))

	_, err := svc.Cancel("bkg-1", 42) // booking belongs to user 3
	if !domain.IsPermission(err) {
		t.Fatalf("expected permission error, got %v", err)
	}
}

func TestCancelRejectsConfirmedBooking(t *testing.T) {
	svc, mock, _, done := newBookingService(t)
	defer done()

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM bookings WHERE id=").WithArgs("bkg-1").
		WillReturnRows(bookingRows("bkg-1", domain.BookingConfirmed, start, end, 1500))

	_, err := svc.Cancel("bkg-1", 3)
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestCancelPendingBooking(t *testing.T) {
	svc, mock, _, done := newBookingService(t)
	defer done()

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM bookings WHERE id=").WithArgs("bkg-1").
		WillReturnRows(bookingRows("bkg-1", domain.BookingPending, start, end, 1500))
	mock.ExpectExec("UPDATE bookings SET status=").
		WillReturnResult(sqlmock.NewResult(0, 1))

	b, err := svc.Cancel("bkg-1", 3)
	if err != nil {
		t.Fatalf("cancel error: %v", err)
	}
	if b.Status != domain.BookingCanceled {
		t.Fatalf("status: got %q want %q", b.Status, domain.BookingCanceled)
	}
}
