package shopctx

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/shophub/internal/app/system/auth"
	"github.com/dalemusser/shophub/internal/domain/models"
)

// Session value key for the persisted selection. One shared slot per browser
// profile; only this package writes it. Concurrent tabs resolve
// independently from the slot at load time; the last write to the slot
// wins and no synchronization is attempted.
const selectionKey = "active_shop"

// SelectionStore is the persisted-storage port: an opaque slot with get,
// set, and remove. A corrupt stored value reads as no selection.
type SelectionStore interface {
	Get(r *http.Request) (Selection, bool)
	Set(w http.ResponseWriter, r *http.Request, sel Selection) error
	Clear(w http.ResponseWriter, r *http.Request) error
}

// CookieSelectionStore keeps the selection in the signed session cookie,
// alongside (but independent of) the authentication state. Destroying the
// session on logout clears the slot with it.
type CookieSelectionStore struct {
	sm *auth.SessionManager
}

// NewCookieSelectionStore wraps the session manager's cookie session.
func NewCookieSelectionStore(sm *auth.SessionManager) *CookieSelectionStore {
	return &CookieSelectionStore{sm: sm}
}

func (c *CookieSelectionStore) Get(r *http.Request) (Selection, bool) {
	sess, _ := c.sm.GetSession(r)
	raw, ok := sess.Values[selectionKey].(string)
	if !ok || raw == "" {
		return Selection{}, false
	}

	var sel Selection
	if err := json.Unmarshal([]byte(raw), &sel); err != nil {
		return Selection{}, false
	}
	if sel.ShopID.IsZero() || !models.IsValidMembershipRole(sel.Role) {
		return Selection{}, false
	}
	return sel, true
}

func (c *CookieSelectionStore) Set(w http.ResponseWriter, r *http.Request, sel Selection) error {
	raw, err := json.Marshal(sel)
	if err != nil {
		return err
	}
	sess, _ := c.sm.GetSession(r)
	sess.Values[selectionKey] = string(raw)
	return sess.Save(r, w)
}

func (c *CookieSelectionStore) Clear(w http.ResponseWriter, r *http.Request) error {
	sess, _ := c.sm.GetSession(r)
	if _, ok := sess.Values[selectionKey]; !ok {
		return nil
	}
	delete(sess.Values, selectionKey)
	return sess.Save(r, w)
}
