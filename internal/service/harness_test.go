package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/crm-service/internal/config"
	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/events"
	"github.com/spec-kit/crm-service/internal/repository/memory"
)

type recordingPublisher struct {
	mu       sync.Mutex
	channel  string
	payloads [][]byte
	err      error
}

func (p *recordingPublisher) Publish(_ context.Context, channel string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.channel = channel
	p.payloads = append(p.payloads, payload)
	return nil
}

func (p *recordingPublisher) published() (string, [][]byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.channel, append([][]byte(nil), p.payloads...)
}

func (p *recordingPublisher) failWith(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
}

type harness struct {
	store        *memory.Store
	logs         *observer.ObservedLogs
	publisher    *recordingPublisher
	dispatcher   events.Dispatcher
	workers      *WorkerService
	assignment   *AssignmentService
	tickets      *TicketService
	notification *NotificationService
}

func newHarness(t *testing.T, serialize bool) *harness {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)
	store := memory.NewStore()
	dispatcher := events.NewInMemoryDispatcher(logger)
	publisher := &recordingPublisher{}

	cfg := config.Config{Auth: config.AuthConfig{BcryptCost: bcrypt.MinCost}}
	notification := NewNotificationService(dispatcher, store.Workers(), publisher, logger,
		config.NotificationConfig{RedisChannel: "crm:notifications"})
	notification.RegisterHandlers()

	assignment := NewAssignmentService(AssignmentDependencies{
		Store:      store.Assignments(),
		WorkerRepo: store.Workers(),
		Dispatcher: dispatcher,
		Logger:     logger,
		Serialize:  serialize,
	})
	return &harness{
		store:        store,
		logs:         logs,
		publisher:    publisher,
		dispatcher:   dispatcher,
		workers:      NewWorkerService(cfg, store.Workers(), logger),
		assignment:   assignment,
		notification: notification,
		tickets: NewTicketService(TicketDependencies{
			TicketRepo:        store.Tickets(),
			WorkerRepo:        store.Workers(),
			AssignmentService: assignment,
			Dispatcher:        dispatcher,
			Logger:            logger,
		}),
	}
}

func (h *harness) addWorker(t *testing.T, username string, role domain.Role) *domain.Worker {
	t.Helper()
	w := &domain.Worker{Username: username, FirstName: username, LastName: "Test", Email: username + "@example.com", Role: role, PasswordHash: "x"}
	require.NoError(t, h.store.Workers().Create(context.Background(), w))
	return w
}

func (h *harness) addCustomer(t *testing.T) *domain.Customer {
	t.Helper()
	c := &domain.Customer{FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com"}
	require.NoError(t, h.store.Customers().Create(context.Background(), c))
	return c
}

// addAssignedTickets inserts n tickets already assigned to worker.
func (h *harness) addAssignedTickets(t *testing.T, customer *domain.Customer, worker *domain.Worker, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		id := worker.ID
		ticket := &domain.SupportTicket{CustomerID: customer.ID, Subject: "seed", Status: domain.TicketStatusOpen, AssignedTo: &id}
		require.NoError(t, h.store.Tickets().Create(context.Background(), ticket))
	}
}

func (h *harness) addOpenTicket(t *testing.T, customer *domain.Customer) *domain.SupportTicket {
	t.Helper()
	ticket := &domain.SupportTicket{CustomerID: customer.ID, Subject: "printer on fire", Status: domain.TicketStatusOpen}
	require.NoError(t, h.store.Tickets().Create(context.Background(), ticket))
	return ticket
}

func ptr[T any](v T) *T { return &v }
