package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"parkspot/internal/db"
	"parkspot/internal/repository"
)

const (
	ModuleReservations = "RESERVATIONS"
	ModuleAuth         = "AUTH"
	ModuleUsers        = "USERS"

	ActionCreate       = "CREATE"
	ActionUpdate       = "UPDATE"
	ActionDelete       = "DELETE"
	ActionChangeStatus = "CHANGE_STATUS"
	ActionLogin        = "LOGIN"

	// SystemActor is recorded for changes made by background jobs.
	SystemActor = "system"
)

const auditTimeout = 5 * time.Second

// TraceSink receives audit entries.
type TraceSink interface {
	Send(ctx context.Context, trace *db.Trace) error
}

// Publisher is the message-broker side of auditing.
type Publisher interface {
	Publish(message interface{}, routingKey string) error
}

type storeSink struct {
	store repository.TraceStore
}

// StoreSink persists traces through a TraceStore.
func StoreSink(store repository.TraceStore) TraceSink {
	return storeSink{store: store}
}

func (s storeSink) Send(ctx context.Context, trace *db.Trace) error {
	return s.store.InsertTrace(ctx, trace)
}

type publisherSink struct {
	publisher Publisher
}

// PublisherSink publishes traces with routing key audit.<module>.<action>.
func PublisherSink(p Publisher) TraceSink {
	return publisherSink{publisher: p}
}

func (s publisherSink) Send(ctx context.Context, trace *db.Trace) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.publisher.Publish(trace, RoutingKey(trace.Module, trace.Action))
}

func RoutingKey(module, action string) string {
	return fmt.Sprintf("audit.%s.%s", strings.ToLower(module), strings.ToLower(action))
}

// Auditor records who did what. Record never blocks the caller on delivery
// and sink failures are only logged.
type Auditor struct {
	sinks []TraceSink
	clock Clock
	wg    sync.WaitGroup
}

func NewAuditor(clock Clock, sinks ...TraceSink) *Auditor {
	return &Auditor{sinks: sinks, clock: clock}
}

func (a *Auditor) Record(ctx context.Context, action, module, actor string, payload interface{}) {
	if a == nil || len(a.sinks) == 0 {
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("audit: could not encode payload for %s %s: %v", module, action, err)
		body = nil
	}
	trace := &db.Trace{
		ID:        uuid.NewString(),
		Action:    action,
		Module:    module,
		Actor:     actor,
		Payload:   body,
		CreatedAt: a.clock.Now(),
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditTimeout)
		defer cancel()
		for _, sink := range a.sinks {
			if err := sink.Send(sendCtx, trace); err != nil {
				log.Printf("audit: failed to deliver %s %s by %s: %v", module, action, actor, err)
			}
		}
	}()
}

// Wait blocks until every pending delivery has finished.
func (a *Auditor) Wait() {
	if a == nil {
		return
	}
	a.wg.Wait()
}
