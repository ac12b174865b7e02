// Package api holds the JSON wire types shared by the Athlos server and its
// Go client.
package api

// UserType is the role enum carried by every account.
type UserType string

const (
	UserTypeAdminSistema UserType = "ADMIN_SISTEMA"
	UserTypeAdmin        UserType = "ADMIN"
	UserTypePersonal     UserType = "PERSONAL"
	UserTypeAluno        UserType = "ALUNO"
)

// Routes a front-end navigates to.
const (
	RouteLogin     = "/login"
	RouteDashboard = "/dashboard"
)

var landingRoutes = map[UserType]string{
	UserTypePersonal:     "/dashboard/personal",
	UserTypeAluno:        "/dashboard/aluno",
	UserTypeAdmin:        "/dashboard/academia",
	UserTypeAdminSistema: "/dashboard/admin",
}

// Valid reports whether t is one of the four known roles.
func (t UserType) Valid() bool {
	_, ok := landingRoutes[t]
	return ok
}

// Label returns the human readable role name.
func (t UserType) Label() string {
	switch t {
	case UserTypeAdminSistema:
		return "Admin do Sistema"
	case UserTypeAdmin:
		return "Admin da Academia"
	case UserTypePersonal:
		return "Personal Trainer"
	case UserTypeAluno:
		return "Aluno"
	}
	return string(t)
}

// LandingRoute returns the dashboard root a user of type t lands on after
// login. Unknown types land on the generic dashboard.
func LandingRoute(t UserType) string {
	if r, ok := landingRoutes[t]; ok {
		return r
	}
	return RouteDashboard
}
