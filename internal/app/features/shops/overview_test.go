package shops_test

import (
	"bytes"
	"html/template"
	"strings"
	"testing"

	"github.com/dalemusser/shophub/internal/app/features/shops"
	"github.com/dalemusser/shophub/internal/app/system/navmenu"
	"github.com/dalemusser/shophub/internal/domain/models"
)

// overviewData mirrors the fields the overview page reads, so the template
// can be exercised directly without booting the full engine.
type overviewData struct {
	Title            string
	SiteName         string
	Nav              []navmenu.Group
	ShopName         string
	ShopRole         models.Role
	Degraded         bool
	Description      template.HTML
	Address          string
	OpeningHours     []models.HourRange
	TeamCount        int
	InventoryCount   int
	UpcomingBookings int64
	CSRFToken        string
}

func TestOverviewTemplate_RendersDescriptionMarkup(t *testing.T) {
	tmpl, err := template.ParseFS(shops.FS, "templates/overview.gohtml")
	if err != nil {
		t.Fatalf("parse template: %v", err)
	}

	data := overviewData{
		Title:       "Corner Cuts",
		SiteName:    "ShopHub",
		ShopName:    "Corner Cuts",
		ShopRole:    models.RoleOwner,
		Description: template.HTML("<p>Walk-ins <strong>welcome</strong>.</p>"),
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "shops/overview", data); err != nil {
		t.Fatalf("execute template: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "<p>Walk-ins <strong>welcome</strong>.</p>") {
		t.Error("sanitized description was escaped instead of rendered as markup")
	}
	if strings.Contains(out, "&lt;p&gt;") {
		t.Error("description markup rendered as literal text")
	}
}
