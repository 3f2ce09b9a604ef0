// Package permissions holds the family role hierarchy and the predicates
// every mutating operation is gated on.
package permissions

type Role string

const (
	RoleOwner    Role = "owner"
	RoleEditor   Role = "editor"
	RoleApprover Role = "approver"
	RoleViewer   Role = "viewer"
)

var levels = map[Role]int{
	RoleViewer:   1,
	RoleApprover: 2,
	RoleEditor:   3,
	RoleOwner:    4,
}

// Level returns the rank of role; unknown roles rank 0.
func Level(role Role) int {
	return levels[role]
}

func (r Role) IsValid() bool {
	_, ok := levels[r]
	return ok
}

// IsInvitable reports whether role may be granted through an invite.
func (r Role) IsInvitable() bool {
	return r == RoleViewer || r == RoleEditor || r == RoleApprover
}

func HasRoleOrHigher(role, min Role) bool {
	return Level(role) >= Level(min)
}

func HasPermission(role Role, allowed ...Role) bool {
	for _, candidate := range allowed {
		if role == candidate {
			return true
		}
	}
	return false
}

func CanManageInvites(role Role) bool {
	return HasPermission(role, RoleOwner, RoleEditor)
}

func CanApproveTasks(role Role) bool {
	return HasPermission(role, RoleOwner, RoleApprover)
}

func CanEditTasks(role Role) bool {
	return HasPermission(role, RoleOwner, RoleEditor)
}

func CanViewTasks(role Role) bool {
	return role.IsValid()
}

func CanManageMembers(role Role) bool {
	return role == RoleOwner
}
