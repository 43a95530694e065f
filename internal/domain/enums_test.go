package domain

import "testing"

func TestRequestStatusCanTransitionTo(t *testing.T) {
	t.Parallel()

	cases := []struct {
		from, to RequestStatus
		want     bool
	}{
		{RequestStatusPending, RequestStatusApproved, true},
		{RequestStatusPending, RequestStatusRejected, true},
		{RequestStatusPending, RequestStatusReturned, false},
		{RequestStatusPending, RequestStatusPending, false},
		{RequestStatusApproved, RequestStatusReturned, true},
		{RequestStatusApproved, RequestStatusRejected, false},
		{RequestStatusApproved, RequestStatusPending, false},
		{RequestStatusRejected, RequestStatusApproved, false},
		{RequestStatusRejected, RequestStatusPending, false},
		{RequestStatusReturned, RequestStatusApproved, false},
		{RequestStatusReturned, RequestStatusPending, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s → %s: got %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestRequestStatusIsTerminal(t *testing.T) {
	t.Parallel()

	if RequestStatusPending.IsTerminal() || RequestStatusApproved.IsTerminal() {
		t.Error("pending/approved must not be terminal")
	}
	if !RequestStatusRejected.IsTerminal() || !RequestStatusReturned.IsTerminal() {
		t.Error("rejected/returned must be terminal")
	}
}

func TestNotificationKindIsValid(t *testing.T) {
	t.Parallel()

	valid := []NotificationKind{
		NotificationRequestCreated, NotificationRequestApproved, NotificationRequestRejected,
		NotificationRecordDue, NotificationRecordOverdue, NotificationRecordReturned,
	}
	for _, k := range valid {
		if !k.IsValid() {
			t.Errorf("%s: expected valid", k)
		}
	}
	if NotificationKind("request_updated").IsValid() {
		t.Error("unknown kind must be invalid")
	}
}

func TestRoleIsValid(t *testing.T) {
	t.Parallel()

	if !RoleStaff.IsValid() || !RoleAdmin.IsValid() {
		t.Error("staff/admin must be valid")
	}
	if Role("root").IsValid() {
		t.Error("unknown role must be invalid")
	}
}
