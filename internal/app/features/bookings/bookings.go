// internal/app/features/bookings/bookings.go
package bookings

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/shophub/internal/app/system/authz"
	"github.com/dalemusser/shophub/internal/app/system/inputval"
	"github.com/dalemusser/shophub/internal/app/system/shopctx"
	"github.com/dalemusser/shophub/internal/app/system/timeouts"
	"github.com/dalemusser/shophub/internal/app/system/viewdata"
	"github.com/dalemusser/shophub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type bookingInput struct {
	Customer string `validate:"required,max=120" label:"Customer name"`
	Service  string `validate:"max=120" label:"Service"`
	Notes    string `validate:"max=500" label:"Notes"`
}

type bookingRow struct {
	ID       string
	Customer string
	Service  string
	When     string
	Status   string
	Upcoming bool
}

type bookingsVM struct {
	viewdata.BaseVM
	Bookings []bookingRow
	Notice   string
}

type bookingFormVM struct {
	viewdata.BaseVM
	Error    string
	Customer string
	Service  string
	Date     string
	Start    string
	End      string
	Notes    string
}

// ServeBookings handles GET /shops/{shopID}/bookings, the managerial list
// of every booking newest-first.
func (h *Handler) ServeBookings(w http.ResponseWriter, r *http.Request) {
	active := shopctx.ActiveFromRequest(r)
	base := "/shops/" + active.ShopID.Hex()

	vm := bookingsVM{
		BaseVM: viewdata.NewBaseVM(r, "Bookings", base+"/overview"),
	}
	switch r.URL.Query().Get("notice") {
	case "created":
		vm.Notice = "Booking added."
	case "status":
		vm.Notice = "Booking updated."
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Bookings.ListByShop(ctx, active.ShopID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "DB list bookings", err, "A server error occurred.", base+"/overview")
		return
	}
	now := time.Now().UTC()
	for _, b := range list {
		vm.Bookings = append(vm.Bookings, bookingRow{
			ID:       b.ID.Hex(),
			Customer: b.CustomerName,
			Service:  b.Service,
			When:     b.StartsAt.UTC().Format("Jan 2, 2006 15:04") + " – " + b.EndsAt.UTC().Format("15:04"),
			Status:   b.Status,
			Upcoming: b.Status == models.BookingBooked && !b.StartsAt.Before(now),
		})
	}

	templates.Render(w, r, "bookings/list", vm)
}

// ServeNewBooking handles GET /shops/{shopID}/bookings/new.
func (h *Handler) ServeNewBooking(w http.ResponseWriter, r *http.Request) {
	active := shopctx.ActiveFromRequest(r)
	base := "/shops/" + active.ShopID.Hex() + "/bookings"

	templates.Render(w, r, "bookings/new", bookingFormVM{
		BaseVM: viewdata.NewBaseVM(r, "Add Booking", base),
		Date:   time.Now().UTC().Format(dayFormat),
		Start:  "09:00",
		End:    "10:00",
	})
}

// HandleCreateBooking handles POST /shops/{shopID}/bookings.
func (h *Handler) HandleCreateBooking(w http.ResponseWriter, r *http.Request) {
	active := shopctx.ActiveFromRequest(r)
	base := "/shops/" + active.ShopID.Hex() + "/bookings"

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", base)
		return
	}

	in := bookingInput{
		Customer: strings.TrimSpace(r.FormValue("customer")),
		Service:  strings.TrimSpace(r.FormValue("service")),
		Notes:    strings.TrimSpace(r.FormValue("notes")),
	}
	date := strings.TrimSpace(r.FormValue("date"))
	start := strings.TrimSpace(r.FormValue("start"))
	end := strings.TrimSpace(r.FormValue("end"))

	renderError := func(msg string) {
		templates.Render(w, r, "bookings/new", bookingFormVM{
			BaseVM:   viewdata.NewBaseVM(r, "Add Booking", base),
			Error:    msg,
			Customer: in.Customer,
			Service:  in.Service,
			Date:     date,
			Start:    start,
			End:      end,
			Notes:    in.Notes,
		})
	}

	if result := inputval.Validate(in); result.HasErrors() {
		renderError(result.First())
		return
	}
	startsAt, err := time.Parse(dayFormat+" 15:04", date+" "+start)
	if err != nil {
		renderError("Enter a valid date and start time.")
		return
	}
	endsAt, err := time.Parse(dayFormat+" 15:04", date+" "+end)
	if err != nil {
		renderError("Enter a valid end time.")
		return
	}
	if !endsAt.After(startsAt) {
		renderError("The booking must end after it starts.")
		return
	}

	_, _, userID, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	booking, err := h.Bookings.Create(ctx, models.Booking{
		ShopID:       active.ShopID,
		CustomerName: in.Customer,
		Service:      in.Service,
		StartsAt:     startsAt,
		EndsAt:       endsAt,
		Notes:        in.Notes,
		CreatedBy:    userID,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "DB create booking", err, "A server error occurred.", base)
		return
	}

	h.Log.Info("booking created",
		zap.String("shop_id", active.ShopID.Hex()),
		zap.String("booking_id", booking.ID.Hex()))

	http.Redirect(w, r, base+"?notice=created", http.StatusSeeOther)
}

// HandleUpdateStatus handles POST /shops/{shopID}/bookings/{bookingID}/status,
// moving a booking between booked, done, and cancelled.
func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	active := shopctx.ActiveFromRequest(r)
	base := "/shops/" + active.ShopID.Hex() + "/bookings"

	bookingID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "bookingID"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad booking id", err, "Invalid booking.", base)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", base)
		return
	}
	status := strings.ToLower(strings.TrimSpace(r.FormValue("status")))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Bookings.UpdateStatus(ctx, active.ShopID, bookingID, status); err != nil {
		h.ErrLog.LogBadRequest(w, r, "update booking status", err, "The booking could not be updated.", base)
		return
	}

	http.Redirect(w, r, base+"?notice=status", http.StatusSeeOther)
}
