package contactsvc_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/coursehub/internal/app/system/contactrelay"
	"github.com/dalemusser/coursehub/internal/app/system/contactsvc"
	"github.com/dalemusser/coursehub/internal/app/system/inputval"
	"github.com/dalemusser/coursehub/internal/app/system/metrics"
	"github.com/dalemusser/coursehub/internal/app/system/ratelimit"
	"github.com/dalemusser/coursehub/internal/app/system/statusmsg"
	"github.com/dalemusser/coursehub/internal/domain/models"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeRelay struct {
	calls []models.ContactMessage
	code  int
	err   error
}

func (f *fakeRelay) Submit(_ context.Context, msg models.ContactMessage) (int, error) {
	f.calls = append(f.calls, msg)
	return f.code, f.err
}

type fakeRecorder struct {
	created []models.ContactMessage
	status  map[primitive.ObjectID]string
	codes   map[primitive.ObjectID]int
}

func newRecorder() *fakeRecorder {
	return &fakeRecorder{status: map[primitive.ObjectID]string{}, codes: map[primitive.ObjectID]int{}}
}

func (f *fakeRecorder) Create(_ context.Context, m models.ContactMessage) (models.ContactMessage, error) {
	m.ID = primitive.NewObjectID()
	m.Status = models.ContactStatusPending
	f.created = append(f.created, m)
	f.status[m.ID] = m.Status
	return m, nil
}

func (f *fakeRecorder) MarkSent(_ context.Context, id primitive.ObjectID, code int) error {
	f.status[id] = models.ContactStatusSent
	f.codes[id] = code
	return nil
}

func (f *fakeRecorder) MarkFailed(_ context.Context, id primitive.ObjectID, code int, _ error) error {
	if code == 0 {
		f.status[id] = models.ContactStatusTransport
	} else {
		f.status[id] = models.ContactStatusRejected
	}
	f.codes[id] = code
	return nil
}

type denyAll struct{}

func (denyAll) Allow(context.Context, string) (bool, error) { return false, nil }

type brokenLimiter struct{}

func (brokenLimiter) Allow(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func validInput() inputval.ContactInput {
	return inputval.ContactInput{
		Name:    "  Ada  ",
		Email:   "Ada@Example.com",
		Message: "Hello",
	}
}

func newService(relay *fakeRelay, rec *fakeRecorder) *contactsvc.Service {
	s := &contactsvc.Service{
		Relay:   relay,
		Metrics: metrics.New(),
		Log:     zap.NewNop(),
	}
	if rec != nil {
		s.Recorder = rec
	}
	return s
}

func TestSubmit_Success(t *testing.T) {
	relay := &fakeRelay{code: 200}
	rec := newRecorder()
	s := newService(relay, rec)

	err := s.Submit(context.Background(), validInput(), "10.0.0.1")
	require.NoError(t, err)

	require.Len(t, relay.calls, 1)
	assert.Equal(t, "Ada", relay.calls[0].Name, "fields are trimmed")
	assert.NotEmpty(t, relay.calls[0].RequestID)

	require.Len(t, rec.created, 1)
	assert.Equal(t, models.ContactStatusSent, rec.status[rec.created[0].ID])
	assert.Equal(t, 200, rec.codes[rec.created[0].ID])
	assert.Equal(t, 1.0, promtest.ToFloat64(s.Metrics.ContactSubmissions.WithLabelValues(metrics.OutcomeSent)))
}

func TestSubmit_ValidationSkipsNetwork(t *testing.T) {
	tests := []struct {
		name string
		in   inputval.ContactInput
		want error
	}{
		{"missing name", inputval.ContactInput{Email: "a@b.co", Message: "x"}, inputval.ErrMissingFields},
		{"blank message", inputval.ContactInput{Name: "A", Email: "a@b.co", Message: "   "}, inputval.ErrMissingFields},
		{"bad email", inputval.ContactInput{Name: "A", Email: "nope", Message: "x"}, inputval.ErrInvalidEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			relay := &fakeRelay{code: 200}
			rec := newRecorder()
			s := newService(relay, rec)

			err := s.Submit(context.Background(), tt.in, "ip")
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, relay.calls)
			assert.Empty(t, rec.created)
		})
	}
}

func TestSubmit_Rejected(t *testing.T) {
	relay := &fakeRelay{code: 500, err: &contactrelay.RejectedError{StatusCode: 500}}
	rec := newRecorder()
	s := newService(relay, rec)

	err := s.Submit(context.Background(), validInput(), "ip")
	assert.ErrorIs(t, err, contactrelay.ErrRejected)
	assert.Equal(t, statusmsg.Failed, statusmsg.For(err).Text)
	assert.Equal(t, models.ContactStatusRejected, rec.status[rec.created[0].ID])
}

func TestSubmit_Transport(t *testing.T) {
	relay := &fakeRelay{err: contactrelay.ErrTransport}
	rec := newRecorder()
	s := newService(relay, rec)

	err := s.Submit(context.Background(), validInput(), "ip")
	assert.ErrorIs(t, err, contactrelay.ErrTransport)
	assert.Equal(t, statusmsg.NetworkError, statusmsg.For(err).Text)
	assert.Equal(t, models.ContactStatusTransport, rec.status[rec.created[0].ID])
}

func TestSubmit_RateLimited(t *testing.T) {
	relay := &fakeRelay{code: 200}
	s := newService(relay, nil)
	s.Limiter = denyAll{}

	err := s.Submit(context.Background(), validInput(), "ip")
	assert.ErrorIs(t, err, statusmsg.ErrRateLimited)
	assert.Empty(t, relay.calls)
}

func TestSubmit_LimiterErrorFailsOpen(t *testing.T) {
	relay := &fakeRelay{code: 200}
	s := newService(relay, nil)
	s.Limiter = brokenLimiter{}

	require.NoError(t, s.Submit(context.Background(), validInput(), "ip"))
	assert.Len(t, relay.calls, 1)
}

func TestSubmit_InMemoryLimiter(t *testing.T) {
	relay := &fakeRelay{code: 200}
	s := newService(relay, nil)
	lim := ratelimit.New(2, time.Minute)
	defer lim.Stop()
	s.Limiter = lim

	require.NoError(t, s.Submit(context.Background(), validInput(), "a"))
	require.NoError(t, s.Submit(context.Background(), validInput(), "a"))
	assert.ErrorIs(t, s.Submit(context.Background(), validInput(), "a"), statusmsg.ErrRateLimited)
	assert.NoError(t, s.Submit(context.Background(), validInput(), "b"), "keys are independent")
}

func TestSubmit_NoRelayConfigured(t *testing.T) {
	rec := newRecorder()
	s := &contactsvc.Service{Recorder: rec, Metrics: metrics.New(), Log: zap.NewNop()}

	err := s.Submit(context.Background(), validInput(), "ip")
	assert.ErrorIs(t, err, contactrelay.ErrNoEndpoint)
	assert.Empty(t, rec.created, "nothing is recorded without a relay")
}
