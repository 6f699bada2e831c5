package access

import "github.com/Mukungiisaac/Sakeja/internal/user"

const HomeRoute = "/"

var dashboards = map[user.Role]string{
	user.RoleStudent:  "/student/dashboard",
	user.RoleLandlord: "/landlord/dashboard",
	user.RoleSeller:   "/seller/dashboard",
	user.RoleAdmin:    "/admin/dashboard",
}

// DashboardFor maps a role to its landing page. Unknown roles land on HomeRoute.
func DashboardFor(role user.Role) string {
	if route, ok := dashboards[role]; ok {
		return route
	}
	return HomeRoute
}
