package request

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/recordsunit/records-backend/internal/domain"
	"github.com/recordsunit/records-backend/internal/notify"
)

var _ requestRepo = &requestRepoMock{}

type requestRepoMock struct {
	CreateFunc          func(ctx context.Context, req *domain.Request) (*domain.Request, error)
	GetByIDFunc         func(ctx context.Context, id uuid.UUID) (*domain.Request, error)
	TransitionIfFunc    func(ctx context.Context, id uuid.UUID, from, to domain.RequestStatus, patch domain.RequestPatch) (*domain.Request, error)
	ListFunc            func(ctx context.Context, filter domain.RequestFilter) ([]*domain.Request, error)
	ActiveForRecordFunc func(ctx context.Context, recordID uuid.UUID) (*domain.Request, error)

	calls struct {
		Create []struct {
			Req *domain.Request
		}
		GetByID []struct {
			ID uuid.UUID
		}
		TransitionIf []struct {
			ID    uuid.UUID
			From  domain.RequestStatus
			To    domain.RequestStatus
			Patch domain.RequestPatch
		}
		List []struct {
			Filter domain.RequestFilter
		}
		ActiveForRecord []struct {
			RecordID uuid.UUID
		}
	}
	lock sync.RWMutex
}

func (mock *requestRepoMock) Create(ctx context.Context, req *domain.Request) (*domain.Request, error) {
	if mock.CreateFunc == nil {
		panic("requestRepoMock.CreateFunc: method is nil but requestRepo.Create was just called")
	}
	mock.lock.Lock()
	mock.calls.Create = append(mock.calls.Create, struct {
		Req *domain.Request
	}{Req: req})
	mock.lock.Unlock()
	return mock.CreateFunc(ctx, req)
}

func (mock *requestRepoMock) CreateCalls() []struct {
	Req *domain.Request
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Create
}

func (mock *requestRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Request, error) {
	if mock.GetByIDFunc == nil {
		panic("requestRepoMock.GetByIDFunc: method is nil but requestRepo.GetByID was just called")
	}
	mock.lock.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, struct {
		ID uuid.UUID
	}{ID: id})
	mock.lock.Unlock()
	return mock.GetByIDFunc(ctx, id)
}

func (mock *requestRepoMock) TransitionIf(ctx context.Context, id uuid.UUID, from, to domain.RequestStatus, patch domain.RequestPatch) (*domain.Request, error) {
	if mock.TransitionIfFunc == nil {
		panic("requestRepoMock.TransitionIfFunc: method is nil but requestRepo.TransitionIf was just called")
	}
	mock.lock.Lock()
	mock.calls.TransitionIf = append(mock.calls.TransitionIf, struct {
		ID    uuid.UUID
		From  domain.RequestStatus
		To    domain.RequestStatus
		Patch domain.RequestPatch
	}{ID: id, From: from, To: to, Patch: patch})
	mock.lock.Unlock()
	return mock.TransitionIfFunc(ctx, id, from, to, patch)
}

func (mock *requestRepoMock) TransitionIfCalls() []struct {
	ID    uuid.UUID
	From  domain.RequestStatus
	To    domain.RequestStatus
	Patch domain.RequestPatch
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.TransitionIf
}

func (mock *requestRepoMock) List(ctx context.Context, filter domain.RequestFilter) ([]*domain.Request, error) {
	if mock.ListFunc == nil {
		panic("requestRepoMock.ListFunc: method is nil but requestRepo.List was just called")
	}
	mock.lock.Lock()
	mock.calls.List = append(mock.calls.List, struct {
		Filter domain.RequestFilter
	}{Filter: filter})
	mock.lock.Unlock()
	return mock.ListFunc(ctx, filter)
}

func (mock *requestRepoMock) ListCalls() []struct {
	Filter domain.RequestFilter
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.List
}

func (mock *requestRepoMock) ActiveForRecord(ctx context.Context, recordID uuid.UUID) (*domain.Request, error) {
	if mock.ActiveForRecordFunc == nil {
		panic("requestRepoMock.ActiveForRecordFunc: method is nil but requestRepo.ActiveForRecord was just called")
	}
	mock.lock.Lock()
	mock.calls.ActiveForRecord = append(mock.calls.ActiveForRecord, struct {
		RecordID uuid.UUID
	}{RecordID: recordID})
	mock.lock.Unlock()
	return mock.ActiveForRecordFunc(ctx, recordID)
}

func (mock *requestRepoMock) ActiveForRecordCalls() []struct {
	RecordID uuid.UUID
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.ActiveForRecord
}

var _ recordRepo = &recordRepoMock{}

type recordRepoMock struct {
	GetByIDFunc     func(ctx context.Context, id uuid.UUID) (*domain.Record, error)
	SetStatusIfFunc func(ctx context.Context, id uuid.UUID, from, to domain.RecordStatus) error

	calls struct {
		GetByID []struct {
			ID uuid.UUID
		}
		SetStatusIf []struct {
			ID   uuid.UUID
			From domain.RecordStatus
			To   domain.RecordStatus
		}
	}
	lock sync.RWMutex
}

func (mock *recordRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Record, error) {
	if mock.GetByIDFunc == nil {
		panic("recordRepoMock.GetByIDFunc: method is nil but recordRepo.GetByID was just called")
	}
	mock.lock.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, struct {
		ID uuid.UUID
	}{ID: id})
	mock.lock.Unlock()
	return mock.GetByIDFunc(ctx, id)
}

func (mock *recordRepoMock) SetStatusIf(ctx context.Context, id uuid.UUID, from, to domain.RecordStatus) error {
	if mock.SetStatusIfFunc == nil {
		panic("recordRepoMock.SetStatusIfFunc: method is nil but recordRepo.SetStatusIf was just called")
	}
	mock.lock.Lock()
	mock.calls.SetStatusIf = append(mock.calls.SetStatusIf, struct {
		ID   uuid.UUID
		From domain.RecordStatus
		To   domain.RecordStatus
	}{ID: id, From: from, To: to})
	mock.lock.Unlock()
	return mock.SetStatusIfFunc(ctx, id, from, to)
}

func (mock *recordRepoMock) SetStatusIfCalls() []struct {
	ID   uuid.UUID
	From domain.RecordStatus
	To   domain.RecordStatus
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.SetStatusIf
}

var _ userRepo = &userRepoMock{}

type userRepoMock struct {
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.User, error)

	calls struct {
		GetByID []struct {
			ID uuid.UUID
		}
	}
	lock sync.RWMutex
}

func (mock *userRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if mock.GetByIDFunc == nil {
		panic("userRepoMock.GetByIDFunc: method is nil but userRepo.GetByID was just called")
	}
	mock.lock.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, struct {
		ID uuid.UUID
	}{ID: id})
	mock.lock.Unlock()
	return mock.GetByIDFunc(ctx, id)
}

var _ approverResolver = &approverResolverMock{}

type approverResolverMock struct {
	ApproversFunc func(ctx context.Context) ([]*domain.User, error)

	calls struct {
		Approvers []struct{}
	}
	lock sync.RWMutex
}

func (mock *approverResolverMock) Approvers(ctx context.Context) ([]*domain.User, error) {
	if mock.ApproversFunc == nil {
		panic("approverResolverMock.ApproversFunc: method is nil but approverResolver.Approvers was just called")
	}
	mock.lock.Lock()
	mock.calls.Approvers = append(mock.calls.Approvers, struct{}{})
	mock.lock.Unlock()
	return mock.ApproversFunc(ctx)
}

var _ txManager = &txManagerMock{}

// txManagerMock runs the callback directly; the transactional behavior
// itself is covered by the postgres integration tests.
type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (mock *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if mock.RunInTxFunc != nil {
		return mock.RunInTxFunc(ctx, fn)
	}
	return fn(ctx)
}

var _ dispatcher = &dispatcherMock{}

type dispatcherMock struct {
	DispatchFunc func(ctx context.Context, n notify.Notice) (*domain.Notification, error)

	calls struct {
		Dispatch []struct {
			N notify.Notice
		}
	}
	lock sync.RWMutex
}

func (mock *dispatcherMock) Dispatch(ctx context.Context, n notify.Notice) (*domain.Notification, error) {
	mock.lock.Lock()
	mock.calls.Dispatch = append(mock.calls.Dispatch, struct {
		N notify.Notice
	}{N: n})
	mock.lock.Unlock()
	if mock.DispatchFunc != nil {
		return mock.DispatchFunc(ctx, n)
	}
	return &domain.Notification{ID: uuid.New(), RecipientID: n.Recipient.ID, Kind: n.Kind}, nil
}

func (mock *dispatcherMock) DispatchCalls() []struct {
	N notify.Notice
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Dispatch
}

var _ auditRecorder = &auditRecorderMock{}

type auditRecorderMock struct {
	calls struct {
		Record []struct {
			Action  string
			Details map[string]any
		}
	}
	lock sync.RWMutex
}

func (mock *auditRecorderMock) Record(ctx context.Context, action string, details map[string]any) {
	mock.lock.Lock()
	mock.calls.Record = append(mock.calls.Record, struct {
		Action  string
		Details map[string]any
	}{Action: action, Details: details})
	mock.lock.Unlock()
}

func (mock *auditRecorderMock) RecordCalls() []struct {
	Action  string
	Details map[string]any
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Record
}
