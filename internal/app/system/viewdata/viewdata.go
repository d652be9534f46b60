// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"

	"github.com/dalemusser/shophub/internal/app/system/auth"
	"github.com/dalemusser/shophub/internal/app/system/authz"
	"github.com/dalemusser/shophub/internal/app/system/navmenu"
	"github.com/dalemusser/shophub/internal/app/system/shopctx"
	"github.com/dalemusser/shophub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"
)

// SiteName is the application name shown in page chrome.
const SiteName = "ShopHub"

// BaseVM contains common fields for all view models. Embed it in
// feature-specific view models:
//
//	type overviewData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
//
//	data := overviewData{
//	    BaseVM: viewdata.NewBaseVM(r, "Overview", "/overview"),
//	}
type BaseVM struct {
	SiteName string

	// User context (from auth middleware)
	IsLoggedIn bool
	Tier       models.Tier
	UserName   string

	// Shop context (from the resolver middleware)
	ShopActive  bool
	ShopID      string
	ShopName    string
	ShopRole    models.Role
	ShopsLoaded bool

	// Sidebar: the visible groups of whichever panel applies. Shop pages
	// get the shop panel, everything else the global one.
	Nav []navmenu.Group

	// Page context
	Title       string
	BackURL     string
	CurrentPath string

	// CSRF protection
	CSRFToken string
}

// NewBaseVM creates a fully populated BaseVM for a page: user identity,
// resolved shop context, and the navigation already filtered to what this
// user may see.
func NewBaseVM(r *http.Request, title, backDefault string) BaseVM {
	tier, name, _, signedIn := authz.UserCtx(r)

	vm := BaseVM{
		SiteName:    SiteName,
		IsLoggedIn:  signedIn,
		Tier:        tier,
		UserName:    name,
		ShopRole:    models.RoleNone,
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
		CSRFToken:   csrf.Token(r),
	}

	var memberships []models.Membership
	if user, ok := auth.CurrentUser(r); ok {
		memberships = user.Shops
		vm.ShopsLoaded = user.ShopsLoaded
	}

	if info := shopctx.FromRequest(r); info != nil && info.Resolution.Code == shopctx.StateActive {
		sel := info.Resolution.Shop
		vm.ShopActive = true
		vm.ShopID = sel.ShopID.Hex()
		vm.ShopName = sel.ShopName
		vm.ShopRole = sel.Role
		vm.Nav = navmenu.Visible(navmenu.ShopMenu(sel.ShopID), tier, sel.Role)
		return vm
	}

	vm.Nav = navmenu.Visible(navmenu.GlobalMenu(memberships), tier, models.RoleNone)
	return vm
}
