package api

import "github.com/daynight-rp/dispatch-api/models"

// Action is a permission checked before a gated operation. Plain
// creates and collection reads are open to any authenticated session
// and never consult the table.
type Action string

// Gated actions
const (
	ActionManageUsers   Action = "manage_users"
	ActionDeleteReports Action = "delete_reports"
	ActionManageWanted  Action = "manage_wanted"
	ActionManageAlerts  Action = "manage_alerts"
	ActionExport        Action = "export"
)

// Rules maps each gated action to the non-admin roles allowed to
// perform it. Admin holds every action implicitly and is not listed.
var Rules = map[Action][]models.Role{
	ActionManageUsers:   {},
	ActionDeleteReports: {models.RoleSergeant},
	ActionManageWanted:  {},
	ActionManageAlerts:  {},
	ActionExport:        {},
}

// Can reports whether the given role may perform action
func Can(role models.Role, action Action) bool {
	if role == models.RoleAdmin {
		return true
	}
	for _, r := range Rules[action] {
		if r == role {
			return true
		}
	}
	return false
}

// Authorize checks the acting user against the rules table. A nil user
// is never authorized.
func Authorize(u *models.User, action Action) bool {
	return u != nil && Can(u.Role, action)
}
