package notify

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/recordsunit/records-backend/internal/domain"
	"github.com/recordsunit/records-backend/internal/realtime"
)

var _ notificationStore = &notificationStoreMock{}

type notificationStoreMock struct {
	CreateFunc func(ctx context.Context, n *domain.Notification) error

	calls struct {
		Create []struct {
			N *domain.Notification
		}
	}
	lockCreate sync.RWMutex
}

func (mock *notificationStoreMock) Create(ctx context.Context, n *domain.Notification) error {
	if mock.CreateFunc == nil {
		panic("notificationStoreMock.CreateFunc: method is nil but notificationStore.Create was just called")
	}
	callInfo := struct {
		N *domain.Notification
	}{N: n}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, n)
}

func (mock *notificationStoreMock) CreateCalls() []struct {
	N *domain.Notification
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

var _ bus = &busMock{}

type busMock struct {
	PublishFunc func(userID uuid.UUID, event realtime.Event)

	calls struct {
		Publish []struct {
			UserID uuid.UUID
			Event  realtime.Event
		}
	}
	lockPublish sync.RWMutex
}

func (mock *busMock) Publish(userID uuid.UUID, event realtime.Event) {
	callInfo := struct {
		UserID uuid.UUID
		Event  realtime.Event
	}{UserID: userID, Event: event}
	mock.lockPublish.Lock()
	mock.calls.Publish = append(mock.calls.Publish, callInfo)
	mock.lockPublish.Unlock()
	if mock.PublishFunc != nil {
		mock.PublishFunc(userID, event)
	}
}

func (mock *busMock) PublishCalls() []struct {
	UserID uuid.UUID
	Event  realtime.Event
} {
	mock.lockPublish.RLock()
	calls := mock.calls.Publish
	mock.lockPublish.RUnlock()
	return calls
}

var _ mailer = &mailerMock{}

type mailerMock struct {
	SendFunc func(ctx context.Context, to, subject, htmlBody string) error

	calls struct {
		Send []struct {
			To       string
			Subject  string
			HTMLBody string
		}
	}
	lockSend sync.RWMutex
}

func (mock *mailerMock) Send(ctx context.Context, to, subject, htmlBody string) error {
	if mock.SendFunc == nil {
		panic("mailerMock.SendFunc: method is nil but mailer.Send was just called")
	}
	callInfo := struct {
		To       string
		Subject  string
		HTMLBody string
	}{To: to, Subject: subject, HTMLBody: htmlBody}
	mock.lockSend.Lock()
	mock.calls.Send = append(mock.calls.Send, callInfo)
	mock.lockSend.Unlock()
	return mock.SendFunc(ctx, to, subject, htmlBody)
}

func (mock *mailerMock) SendCalls() []struct {
	To       string
	Subject  string
	HTMLBody string
} {
	mock.lockSend.RLock()
	calls := mock.calls.Send
	mock.lockSend.RUnlock()
	return calls
}
