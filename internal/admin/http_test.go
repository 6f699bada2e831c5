package admin_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/Mukungiisaac/Sakeja/internal/access"
	"github.com/Mukungiisaac/Sakeja/internal/admin"
	"github.com/Mukungiisaac/Sakeja/internal/user"
	"github.com/Mukungiisaac/Sakeja/internal/web/webtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_Decisions(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	landlord := f.users.Add(user.User{Email: "a@x.com", Name: "Lee", Role: user.RoleLandlord})
	seller := f.users.Add(user.User{Email: "s@x.com", Name: "Sam", Role: user.RoleSeller, IsApproved: true})
	student := f.users.Add(user.User{Email: "st@x.com", Role: user.RoleStudent, IsApproved: true})

	client, responder := webtest.NewClient(t, map[string]*user.User{
		"admin":    f.admin,
		"landlord": landlord,
	})
	admin.NewHandler(f.svc, responder).RegisterRoutes(client.Router)

	t.Run("Dashboard", func(t *testing.T) {
		w := client.Get("admin", "/admin/dashboard")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "a@x.com")
		assert.Contains(t, w.Body.String(), "s@x.com")
		assert.NotContains(t, w.Body.String(), "st@x.com")
	})

	t.Run("NonAdminDenied", func(t *testing.T) {
		w := client.PostForm("landlord", fmt.Sprintf("/admin/approve/%d", landlord.ID), nil)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.NotEmpty(t, webtest.Flash(t, w))

		got, err := f.users.GetByID(ctx, landlord.ID)
		require.NoError(t, err)
		assert.False(t, got.IsApproved)
	})

	t.Run("Approve", func(t *testing.T) {
		w := client.PostForm("admin", fmt.Sprintf("/admin/approve/%d", landlord.ID), nil)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/admin/dashboard", w.Header().Get("Location"))
		assert.Equal(t, "a@x.com has been approved.", webtest.Flash(t, w))

		got, err := f.users.GetByID(ctx, landlord.ID)
		require.NoError(t, err)
		assert.True(t, got.IsApproved)
	})

	t.Run("Revoke", func(t *testing.T) {
		w := client.PostForm("admin", fmt.Sprintf("/revoke_user/%d", seller.ID), nil)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "Approval for s@x.com has been revoked.", webtest.Flash(t, w))

		got, err := f.users.GetByID(ctx, seller.ID)
		require.NoError(t, err)
		assert.False(t, got.IsApproved)
	})

	t.Run("StudentNotManaged", func(t *testing.T) {
		w := client.PostForm("admin", fmt.Sprintf("/admin/reject/%d", student.ID), nil)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/admin/dashboard", w.Header().Get("Location"))
		assert.Equal(t, access.MsgNotManaged, webtest.Flash(t, w))

		_, err := f.users.GetByID(ctx, student.ID)
		assert.NoError(t, err)
	})

	t.Run("UnknownOrBadID", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, client.PostForm("admin", "/admin/approve/999", nil).Code)
		assert.Equal(t, http.StatusNotFound, client.PostForm("admin", "/admin/reject/abc", nil).Code)
		assert.Equal(t, http.StatusNotFound, client.PostForm("admin", "/revoke_user/0", nil).Code)
	})

	t.Run("Reject", func(t *testing.T) {
		w := client.PostForm("admin", fmt.Sprintf("/admin/reject/%d", landlord.ID), nil)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "a@x.com has been rejected and removed.", webtest.Flash(t, w))

		_, err := f.users.GetByID(ctx, landlord.ID)
		assert.ErrorIs(t, err, user.ErrUserNotFound)
		assert.Contains(t, f.sessions.revoked, landlord.ID)
	})
}
