package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/clinicai/clinicai-api/internal/domain/entity"
	"github.com/clinicai/clinicai-api/internal/gateway"

	"github.com/sirupsen/logrus"
)

var (
	// ErrPaymentFailed is a hard provider failure; the session is dead
	ErrPaymentFailed = errors.New("payment failed")
	// ErrPaymentTimeout means polling exhausted its attempts without
	// settlement. Distinct from a hard failure: the transfer may still land,
	// and a manual check on the open session is still honored.
	ErrPaymentTimeout = errors.New("payment timed out")
	// ErrSessionNotFound is returned for an unknown or closed order code
	ErrSessionNotFound = errors.New("payment session not found")
)

// SessionStatus mirrors the payment UI state machine
type SessionStatus string

const (
	SessionStatusLoading   SessionStatus = "loading"
	SessionStatusQRDisplay SessionStatus = "qr_display"
	SessionStatusPolling   SessionStatus = "polling"
	SessionStatusSuccess   SessionStatus = "success"
	SessionStatusError     SessionStatus = "error"
)

const (
	// Settlement poll cadence and budget: 24 attempts at 5s, about two minutes
	defaultPollInterval = 5 * time.Second
	defaultMaxAttempts  = 24

	// Budget for the downstream booking commit triggered by settlement
	settleTimeout = 10 * time.Second
)

// SettleFunc commits the staged booking once the payment settles. It is
// invoked at most once per session.
type SettleFunc func(ctx context.Context, pending entity.PendingAppointment) error

// PaymentSession is one online booking's payment in flight. All mutation goes
// through its owning service; reads take the session mutex.
type PaymentSession struct {
	OrderCode string
	Intent    *gateway.PaymentIntent
	Pending   entity.PendingAppointment

	mu       sync.Mutex
	status   SessionStatus
	errorMsg string
	settled  bool

	onSettled SettleFunc
	cancel    context.CancelFunc
	done      chan struct{}
}

// SessionView is an immutable snapshot safe to hand to the delivery layer
type SessionView struct {
	OrderCode string
	Status    SessionStatus
	ErrorMsg  string
	Intent    *gateway.PaymentIntent
}

func (s *PaymentSession) view() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionView{
		OrderCode: s.OrderCode,
		Status:    s.status,
		ErrorMsg:  s.errorMsg,
		Intent:    s.Intent,
	}
}

// PaymentSessionService owns every in-flight payment session. One goroutine
// polls the gateway per session; a user-triggered manual check shares the
// same guarded settle path, so success is an at-most-once effect no matter
// which check observes it first.
type PaymentSessionService struct {
	gateway      gateway.PaymentGateway
	log          *logrus.Logger
	pollInterval time.Duration
	maxAttempts  int

	mu       sync.Mutex
	sessions map[string]*PaymentSession

	wg sync.WaitGroup
}

func NewPaymentSessionService(pg gateway.PaymentGateway, log *logrus.Logger) *PaymentSessionService {
	return &PaymentSessionService{
		gateway:      pg,
		log:          log,
		pollInterval: defaultPollInterval,
		maxAttempts:  defaultMaxAttempts,
		sessions:     make(map[string]*PaymentSession),
	}
}

// NewPaymentSessionServiceWithCadence is used by tests to shrink the polling budget
func NewPaymentSessionServiceWithCadence(pg gateway.PaymentGateway, log *logrus.Logger, interval time.Duration, attempts int) *PaymentSessionService {
	svc := NewPaymentSessionService(pg, log)
	svc.pollInterval = interval
	svc.maxAttempts = attempts
	return svc
}

// Open creates a provider payment for the staged booking and starts the
// settlement poll loop. onSettled runs at most once, when payment lands.
func (p *PaymentSessionService) Open(ctx context.Context, pending entity.PendingAppointment, onSettled SettleFunc) (SessionView, error) {
	orderCode := gateway.NewOrderCode()

	session := &PaymentSession{
		OrderCode: orderCode,
		Pending:   pending,
		status:    SessionStatusLoading,
		onSettled: onSettled,
		done:      make(chan struct{}),
	}

	intent, err := p.gateway.CreatePayment(ctx, orderCode, pending.Doctor.ConsultationFee)
	if err != nil {
		p.log.Warnf("Payment create failed for order %s: %+v", orderCode, err)
		return SessionView{}, err
	}
	session.Intent = intent
	session.status = SessionStatusQRDisplay

	pollCtx, cancel := context.WithCancel(context.Background())
	session.cancel = cancel

	p.mu.Lock()
	p.sessions[orderCode] = session
	p.mu.Unlock()

	p.wg.Add(1)
	go p.pollLoop(pollCtx, session)

	return session.view(), nil
}

// Get returns a snapshot of an open session
func (p *PaymentSessionService) Get(orderCode string) (SessionView, error) {
	session, ok := p.lookup(orderCode)
	if !ok {
		return SessionView{}, ErrSessionNotFound
	}
	return session.view(), nil
}

// CheckNow is the user's manual "check now" button. It queries the gateway
// immediately and settles on success; if the scheduled poll settles
// concurrently, only one of the two wins. A manual check is honored even
// after the poll budget timed out, as long as the session is still open.
func (p *PaymentSessionService) CheckNow(ctx context.Context, orderCode string) (SessionView, error) {
	session, ok := p.lookup(orderCode)
	if !ok {
		return SessionView{}, ErrSessionNotFound
	}

	paid, err := p.gateway.CheckPayment(ctx, orderCode)
	if err != nil {
		p.log.Warnf("Manual payment check failed for order %s: %+v", orderCode, err)
		return session.view(), err
	}
	if paid {
		p.settle(session)
	}
	return session.view(), nil
}

// Close tears the session down: the poll loop stops and the order code is
// forgotten. After Close, a late settlement is no longer honored and the
// patient must rebook.
func (p *PaymentSessionService) Close(orderCode string) {
	p.mu.Lock()
	session, ok := p.sessions[orderCode]
	if ok {
		delete(p.sessions, orderCode)
	}
	p.mu.Unlock()

	if ok && session.cancel != nil {
		session.cancel()
	}
}

// Shutdown stops every poll loop and waits for them to exit
func (p *PaymentSessionService) Shutdown() {
	p.mu.Lock()
	for code, session := range p.sessions {
		if session.cancel != nil {
			session.cancel()
		}
		delete(p.sessions, code)
	}
	p.mu.Unlock()
	p.wg.Wait()
}

// Done exposes the session's completion channel so callers (and tests) can
// wait for settlement.
func (p *PaymentSessionService) Done(orderCode string) (<-chan struct{}, error) {
	session, ok := p.lookup(orderCode)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session.done, nil
}

func (p *PaymentSessionService) lookup(orderCode string) (*PaymentSession, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	session, ok := p.sessions[orderCode]
	return session, ok
}

func (p *PaymentSessionService) pollLoop(ctx context.Context, session *PaymentSession) {
	defer p.wg.Done()

	session.mu.Lock()
	if session.status == SessionStatusQRDisplay {
		session.status = SessionStatusPolling
	}
	session.mu.Unlock()

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	attempts := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			attempts++

			paid, err := p.gateway.CheckPayment(ctx, session.OrderCode)
			if err != nil {
				p.log.Warnf("Scheduled payment check #%d failed for order %s: %+v", attempts, session.OrderCode, err)
			} else if paid {
				p.settle(session)
				return
			}

			if attempts >= p.maxAttempts {
				session.mu.Lock()
				if !session.settled {
					session.status = SessionStatusError
					session.errorMsg = "Hết thời gian chờ thanh toán"
				}
				session.mu.Unlock()
				p.log.Infof("Payment polling timed out for order %s after %d attempts", session.OrderCode, attempts)
				return
			}
		}
	}
}

// settle is the guarded at-most-once success transition shared by the
// scheduled poll and the manual check. The first caller wins; every later
// confirmation of the same order is a no-op.
func (p *PaymentSessionService) settle(session *PaymentSession) {
	session.mu.Lock()
	if session.settled {
		session.mu.Unlock()
		return
	}
	session.settled = true
	session.status = SessionStatusSuccess
	session.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), settleTimeout)
	defer cancel()

	if err := session.onSettled(ctx, session.Pending); err != nil {
		// Money arrived but the booking commit failed. Surface the error;
		// the payment stays settled and support reconciles the order code.
		p.log.Errorf("Booking commit failed after settled payment %s: %+v", session.OrderCode, err)
		session.mu.Lock()
		session.status = SessionStatusError
		session.errorMsg = "Thanh toán thành công nhưng không thể tạo lịch hẹn, vui lòng liên hệ hỗ trợ"
		session.mu.Unlock()
	} else {
		p.log.Infof("Payment settled and booking committed: order=%s", session.OrderCode)
	}

	close(session.done)
}
