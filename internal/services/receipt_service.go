package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"travelapp/internal/domain"
	"travelapp/internal/repositories"
	"travelapp/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// ReceiptService renders a PDF receipt for a confirmed booking. Loader can be
// injected in tests to skip the database round trips.
type ReceiptService struct {
	Bookings  repositories.BookingRepo
	Listings  repositories.ListingRepo
	Users     repositories.UserRepo
	RequestID string
	Loader    func(string) (receiptData, error)
}

type receiptData struct {
	BookingID    string
	Status       string
	GuestName    string
	GuestEmail   string
	ListingTitle string
	Location     string
	StartDate    time.Time
	EndDate      time.Time
	TotalPrice   int64
}

func (s ReceiptService) Generate(bookingID string, requesterID int64) ([]byte, string, error) {
	data, err := s.loadReceiptData(bookingID, requesterID)
	if err != nil {
		return nil, "", err
	}
	if data.Status != domain.BookingConfirmed {
		return nil, "", domain.ConflictError{Resource: "booking", Msg: "receipt is only available for confirmed bookings"}
	}
	utils.LogEvent(s.RequestID, "receipt", "generate", "booking_id="+bookingID)
	return buildReceiptPDF(data)
}

func (s ReceiptService) loadReceiptData(bookingID string, requesterID int64) (receiptData, error) {
	if s.Loader != nil {
		return s.Loader(bookingID)
	}
	var out receiptData
	b, err := s.Bookings.GetByID(bookingID)
	if err != nil {
		return out, err
	}
	if b.UserID != requesterID {
		return out, domain.PermissionError{Resource: "booking", Msg: "not your booking"}
	}
	out.BookingID = b.ID
	out.Status = b.Status
	out.StartDate = b.StartDate
	out.EndDate = b.EndDate
	out.TotalPrice = b.TotalPrice

	if l, err := s.Listings.GetByID(b.ListingID); err == nil {
		out.ListingTitle = l.Title
		out.Location = l.Location
	}
	if u, err := s.Users.GetByID(b.UserID); err == nil {
		out.GuestName = u.Name
		out.GuestEmail = u.Email
	}
	return out, nil
}

func buildReceiptPDF(d receiptData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Booking Receipt", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BOOKING RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Receipt No : RCP-"+safeFilenamePart(d.BookingID))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Issued     : "+utils.FormatDateTime(time.Now()))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Billed to:")
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Name  : "+safe(d.GuestName, "-"))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Email : "+safe(d.GuestEmail, "-"))
	pdf.Ln(10)

	nights, err := domain.Nights(d.StartDate, d.EndDate)
	if err != nil {
		nights = 1
	}
	desc := fmt.Sprintf("Stay at %s, %s (%s to %s, %d night(s))",
		safe(d.ListingTitle, "-"), safe(d.Location, "-"),
		utils.FormatDate(d.StartDate), utils.FormatDate(d.EndDate), nights,
	)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Details:")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, "1) "+desc, "", "", false)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total: "+utils.FormatETB(d.TotalPrice))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Payment received via Chapa. Keep this receipt for your records.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("RECEIPT_%s.pdf", safeFilenamePart(d.BookingID))
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
