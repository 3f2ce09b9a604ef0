package permissions

import "testing"

func TestLevels(t *testing.T) {
	if Level(RoleOwner) != 4 || Level(RoleEditor) != 3 || Level(RoleApprover) != 2 || Level(RoleViewer) != 1 {
		t.Fatalf("unexpected role levels")
	}
	if Level(Role("admin")) != 0 {
		t.Fatalf("expected unknown role to rank 0")
	}
}

func TestHasRoleOrHigher(t *testing.T) {
	if !HasRoleOrHigher(RoleOwner, RoleEditor) {
		t.Fatalf("owner should outrank editor")
	}
	if HasRoleOrHigher(RoleApprover, RoleEditor) {
		t.Fatalf("approver should not outrank editor")
	}
	if !HasRoleOrHigher(RoleViewer, RoleViewer) {
		t.Fatalf("role should satisfy itself")
	}
	if HasRoleOrHigher(Role(""), RoleViewer) {
		t.Fatalf("empty role should not satisfy viewer")
	}
}

func TestPredicates(t *testing.T) {
	cases := []struct {
		role                        Role
		invites, approve, edit, view bool
	}{
		{RoleOwner, true, true, true, true},
		{RoleEditor, true, false, true, true},
		{RoleApprover, false, true, false, true},
		{RoleViewer, false, false, false, true},
		{Role("stranger"), false, false, false, false},
	}

	for _, tc := range cases {
		if got := CanManageInvites(tc.role); got != tc.invites {
			t.Fatalf("CanManageInvites(%s) = %v", tc.role, got)
		}
		if got := CanApproveTasks(tc.role); got != tc.approve {
			t.Fatalf("CanApproveTasks(%s) = %v", tc.role, got)
		}
		if got := CanEditTasks(tc.role); got != tc.edit {
			t.Fatalf("CanEditTasks(%s) = %v", tc.role, got)
		}
		if got := CanViewTasks(tc.role); got != tc.view {
			t.Fatalf("CanViewTasks(%s) = %v", tc.role, got)
		}
	}
}

func TestApproveIsNotMonotonicInLevel(t *testing.T) {
	if CanApproveTasks(RoleEditor) {
		t.Fatalf("editor outranks approver but must not approve")
	}
}

func TestIsInvitable(t *testing.T) {
	if RoleOwner.IsInvitable() {
		t.Fatalf("owner must not be grantable through invites")
	}
	for _, role := range []Role{RoleViewer, RoleEditor, RoleApprover} {
		if !role.IsInvitable() {
			t.Fatalf("expected %s to be invitable", role)
		}
	}
}
