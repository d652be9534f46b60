// internal/app/features/bookings/calendar.go
package bookings

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/shophub/internal/app/system/shopctx"
	"github.com/dalemusser/shophub/internal/app/system/timeouts"
	"github.com/dalemusser/shophub/internal/app/system/viewdata"
	"github.com/dalemusser/shophub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

const dayFormat = "2006-01-02"

type calendarEntry struct {
	ID       string
	Customer string
	Service  string
	Start    string
	End      string
	Status   string
}

type calendarDay struct {
	Label   string
	Date    string
	Entries []calendarEntry
}

type calendarVM struct {
	viewdata.BaseVM
	WeekOf   string
	PrevWeek string
	NextWeek string
	Days     []calendarDay
	CanEdit  bool
}

// ServeCalendar handles GET /shops/{shopID}/calendar. Every team member
// sees the calendar; the week shown defaults to the current one and moves
// with the ?week=YYYY-MM-DD query parameter.
func (h *Handler) ServeCalendar(w http.ResponseWriter, r *http.Request) {
	active := shopctx.ActiveFromRequest(r)
	base := "/shops/" + active.ShopID.Hex()

	weekStart := startOfWeek(time.Now().UTC())
	if raw := query.Get(r, "week"); raw != "" {
		if parsed, err := time.Parse(dayFormat, raw); err == nil {
			weekStart = startOfWeek(parsed.UTC())
		}
	}
	weekEnd := weekStart.AddDate(0, 0, 7)

	role := shopctx.RoleFromRequest(r)
	vm := calendarVM{
		BaseVM:   viewdata.NewBaseVM(r, "Calendar", base+"/overview"),
		WeekOf:   weekStart.Format("Jan 2, 2006"),
		PrevWeek: base + "/calendar?week=" + weekStart.AddDate(0, 0, -7).Format(dayFormat),
		NextWeek: base + "/calendar?week=" + weekEnd.Format(dayFormat),
		CanEdit:  role == models.RoleOwner || role == models.RoleManager,
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Bookings.ListByShopBetween(ctx, active.ShopID, weekStart, weekEnd)
	if err != nil {
		h.Log.Warn("calendar fetch failed",
			zap.Error(err), zap.String("shop_id", active.ShopID.Hex()))
		list = nil
	}

	byDay := make(map[string][]calendarEntry, 7)
	for _, b := range list {
		day := b.StartsAt.UTC().Format(dayFormat)
		byDay[day] = append(byDay[day], calendarEntry{
			ID:       b.ID.Hex(),
			Customer: b.CustomerName,
			Service:  b.Service,
			Start:    b.StartsAt.UTC().Format("15:04"),
			End:      b.EndsAt.UTC().Format("15:04"),
			Status:   b.Status,
		})
	}
	for i := 0; i < 7; i++ {
		day := weekStart.AddDate(0, 0, i)
		key := day.Format(dayFormat)
		vm.Days = append(vm.Days, calendarDay{
			Label:   day.Format("Monday, Jan 2"),
			Date:    key,
			Entries: byDay[key],
		})
	}

	templates.Render(w, r, "bookings/calendar", vm)
}

// startOfWeek returns midnight UTC of the Monday on or before t.
func startOfWeek(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
