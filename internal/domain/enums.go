package domain

// RecordStatus represents the custody state of a physical record.
type RecordStatus string

const (
	RecordStatusAvailable  RecordStatus = "available"
	RecordStatusCheckedOut RecordStatus = "checked_out"
)

func (s RecordStatus) String() string { return string(s) }

func (s RecordStatus) IsValid() bool {
	switch s {
	case RecordStatusAvailable, RecordStatusCheckedOut:
		return true
	}
	return false
}

// RequestStatus represents the lifecycle state of a check-out request.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
	RequestStatusReturned RequestStatus = "returned"
)

func (s RequestStatus) String() string { return string(s) }

func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusPending, RequestStatusApproved, RequestStatusRejected, RequestStatusReturned:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is permitted from s.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusRejected || s == RequestStatusReturned
}

// CanTransitionTo reports whether the state machine permits s → next.
// pending → approved|rejected, approved → returned; rejected and returned
// are terminal.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	switch s {
	case RequestStatusPending:
		return next == RequestStatusApproved || next == RequestStatusRejected
	case RequestStatusApproved:
		return next == RequestStatusReturned
	}
	return false
}

// NotificationKind identifies a lifecycle event delivered to a user.
type NotificationKind string

const (
	NotificationRequestCreated  NotificationKind = "request_created"
	NotificationRequestApproved NotificationKind = "request_approved"
	NotificationRequestRejected NotificationKind = "request_rejected"
	NotificationRecordDue       NotificationKind = "record_due"
	NotificationRecordOverdue   NotificationKind = "record_overdue"
	NotificationRecordReturned  NotificationKind = "record_returned"
)

func (k NotificationKind) String() string { return string(k) }

func (k NotificationKind) IsValid() bool {
	switch k {
	case NotificationRequestCreated, NotificationRequestApproved, NotificationRequestRejected,
		NotificationRecordDue, NotificationRecordOverdue, NotificationRecordReturned:
		return true
	}
	return false
}

// Role represents the authorization role of a user.
type Role string

const (
	RoleStaff Role = "staff"
	RoleAdmin Role = "admin"
)

func (r Role) String() string { return string(r) }

func (r Role) IsValid() bool {
	return r == RoleStaff || r == RoleAdmin
}

// Activity action tags, written to the audit trail by the services.
const (
	ActionRegister      = "REGISTER"
	ActionLogin         = "LOGIN"
	ActionCreateRecord  = "CREATE_RECORD"
	ActionUpdateRecord  = "UPDATE_RECORD"
	ActionDeleteRecord  = "DELETE_RECORD"
	ActionCreateRequest = "CREATE_REQUEST"
	ActionUpdateRequest = "UPDATE_REQUEST"
	ActionMarkReturned  = "MARK_RETURNED"
	ActionSweepReminder = "SWEEP_REMINDER"
)
