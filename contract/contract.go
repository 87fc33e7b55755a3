//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-server/domain"
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// LineSink is the one-way delivery primitive supplied by the transport for
// each connection. A failed delivery is the transport's concern: callers
// log it at most and never retry.
type LineSink interface {
	Deliver(line string) error
}

// Recipient pairs a handle with the sink that reaches it, as captured in a
// registry snapshot.
type Recipient struct {
	Handle domain.Handle
	Sink   LineSink
}

type ISessionRegistry interface {
	Register(h domain.Handle, username string, sink LineSink) error
	Unregister(h domain.Handle)
	Username(h domain.Handle) (string, bool)
	LookupByUsername(username string) (domain.Handle, bool)
	RecipientByUsername(username string) (Recipient, bool)
	AllExcept(h domain.Handle) []Recipient
	SinksFor(handles []domain.Handle) []Recipient
	Count() int
}

type IGroupRegistry interface {
	Create(name string, h domain.Handle) error
	Join(name string, h domain.Handle) error
	Leave(name string, h domain.Handle) error
	MembersExcept(name string, h domain.Handle) ([]domain.Handle, error)
	RemoveMemberEverywhere(h domain.Handle)
	Count() int
}

type IRouter interface {
	Broadcast(sender domain.Handle, senderName, text string)
	DirectMessage(sender domain.Handle, senderName, recipient, text string)
	GroupMessage(sender domain.Handle, group, text string)
	AnnounceJoin(h domain.Handle, username string)
	Disconnect(h domain.Handle, username string)
}
