package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/clinicai/clinicai-api/internal/domain/entity"
	"github.com/clinicai/clinicai-api/internal/gateway"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGateway is a scriptable payment provider. paid flips what CheckPayment
// reports; checkErr simulates provider outages.
type fakeGateway struct {
	mu       sync.Mutex
	paid     bool
	checkErr error
	checks   int
}

func (f *fakeGateway) CreatePayment(ctx context.Context, orderCode string, amount decimal.Decimal) (*gateway.PaymentIntent, error) {
	return &gateway.PaymentIntent{
		OrderCode: orderCode,
		Amount:    amount,
		QRUrl:     "https://qr.example/" + orderCode,
	}, nil
}

func (f *fakeGateway) CheckPayment(ctx context.Context, orderCode string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checks++
	return f.paid, f.checkErr
}

func (f *fakeGateway) setPaid(paid bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paid = paid
}

func pendingBooking() entity.PendingAppointment {
	return entity.PendingAppointment{
		Doctor: entity.DoctorSnapshot{
			DoctorName:      "BS. Mai",
			ConsultationFee: decimal.NewFromInt(300000),
		},
		Channel: entity.ChannelOnline,
	}
}

func TestScheduledPollSettlesOnce(t *testing.T) {
	gw := &fakeGateway{}
	svc := NewPaymentSessionServiceWithCadence(gw, testLogger(), 5*time.Millisecond, 100)
	defer svc.Shutdown()

	var settles int32
	view, err := svc.Open(context.Background(), pendingBooking(), func(ctx context.Context, p entity.PendingAppointment) error {
		atomic.AddInt32(&settles, 1)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, SessionStatusQRDisplay, view.Status)

	gw.setPaid(true)

	done, err := svc.Done(view.OrderCode)
	require.NoError(t, err)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("session never settled")
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(&settles))

	got, err := svc.Get(view.OrderCode)
	require.NoError(t, err)
	assert.Equal(t, SessionStatusSuccess, got.Status)
}

func TestManualCheckRacesPollWithoutDoubleSettle(t *testing.T) {
	gw := &fakeGateway{paid: true}
	svc := NewPaymentSessionServiceWithCadence(gw, testLogger(), time.Millisecond, 100)
	defer svc.Shutdown()

	var settles int32
	view, err := svc.Open(context.Background(), pendingBooking(), func(ctx context.Context, p entity.PendingAppointment) error {
		atomic.AddInt32(&settles, 1)
		return nil
	})
	require.NoError(t, err)

	// Hammer the manual check while the scheduled poll also observes paid
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.CheckNow(context.Background(), view.OrderCode)
		}()
	}
	wg.Wait()

	done, err := svc.Done(view.OrderCode)
	require.NoError(t, err)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("session never settled")
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(&settles), "booking must commit exactly once")
}

func TestPollTimeoutThenManualCheckStillSettles(t *testing.T) {
	gw := &fakeGateway{}
	svc := NewPaymentSessionServiceWithCadence(gw, testLogger(), time.Millisecond, 3)
	defer svc.Shutdown()

	var settles int32
	view, err := svc.Open(context.Background(), pendingBooking(), func(ctx context.Context, p entity.PendingAppointment) error {
		atomic.AddInt32(&settles, 1)
		return nil
	})
	require.NoError(t, err)

	// Let the poll budget run out
	require.Eventually(t, func() bool {
		got, err := svc.Get(view.OrderCode)
		return err == nil && got.Status == SessionStatusError
	}, 2*time.Second, 5*time.Millisecond)

	// The transfer lands late; the open session still honors a manual check
	gw.setPaid(true)
	got, err := svc.CheckNow(context.Background(), view.OrderCode)
	require.NoError(t, err)
	assert.Equal(t, SessionStatusSuccess, got.Status)
	assert.Equal(t, int32(1), atomic.LoadInt32(&settles))
}

func TestCloseForgetsSession(t *testing.T) {
	gw := &fakeGateway{}
	svc := NewPaymentSessionServiceWithCadence(gw, testLogger(), time.Millisecond, 1000)
	defer svc.Shutdown()

	var settles int32
	view, err := svc.Open(context.Background(), pendingBooking(), func(ctx context.Context, p entity.PendingAppointment) error {
		atomic.AddInt32(&settles, 1)
		return nil
	})
	require.NoError(t, err)

	svc.Close(view.OrderCode)

	// After close the order code is unknown: no status, no manual check
	_, err = svc.Get(view.OrderCode)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = svc.CheckNow(context.Background(), view.OrderCode)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// A late settlement is not honored
	gw.setPaid(true)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&settles))
}

func TestGatewayErrorKeepsPolling(t *testing.T) {
	gw := &fakeGateway{checkErr: errors.New("provider down")}
	svc := NewPaymentSessionServiceWithCadence(gw, testLogger(), time.Millisecond, 1000)
	defer svc.Shutdown()

	view, err := svc.Open(context.Background(), pendingBooking(), func(ctx context.Context, p entity.PendingAppointment) error {
		return nil
	})
	require.NoError(t, err)

	// Failed checks are not settlement failures; the session stays open
	time.Sleep(20 * time.Millisecond)
	got, err := svc.Get(view.OrderCode)
	require.NoError(t, err)
	assert.NotEqual(t, SessionStatusSuccess, got.Status)
	assert.NotEqual(t, SessionStatusError, got.Status)
}

func TestSettleCommitFailureSurfacesError(t *testing.T) {
	gw := &fakeGateway{paid: true}
	svc := NewPaymentSessionServiceWithCadence(gw, testLogger(), time.Millisecond, 100)
	defer svc.Shutdown()

	view, err := svc.Open(context.Background(), pendingBooking(), func(ctx context.Context, p entity.PendingAppointment) error {
		return errors.New("database down")
	})
	require.NoError(t, err)

	done, err := svc.Done(view.OrderCode)
	require.NoError(t, err)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("session never settled")
	}

	got, err := svc.Get(view.OrderCode)
	require.NoError(t, err)
	assert.Equal(t, SessionStatusError, got.Status)
	assert.NotEmpty(t, got.ErrorMsg)
}
