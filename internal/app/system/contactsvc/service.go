// Package contactsvc runs one contact form submission end to end:
// validation, rate limiting, the diagnostic record and the relay call.
package contactsvc

import (
	"context"
	"time"

	"github.com/dalemusser/coursehub/internal/app/system/contactrelay"
	"github.com/dalemusser/coursehub/internal/app/system/inputval"
	"github.com/dalemusser/coursehub/internal/app/system/metrics"
	"github.com/dalemusser/coursehub/internal/app/system/ratelimit"
	"github.com/dalemusser/coursehub/internal/app/system/statusmsg"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Relay delivers a message to the remote form endpoint.
type Relay interface {
	Submit(ctx context.Context, msg models.ContactMessage) (int, error)
}

// Recorder keeps the diagnostic record of a submission.
// contactmessagestore.Store satisfies it.
type Recorder interface {
	Create(ctx context.Context, m models.ContactMessage) (models.ContactMessage, error)
	MarkSent(ctx context.Context, id primitive.ObjectID, statusCode int) error
	MarkFailed(ctx context.Context, id primitive.ObjectID, statusCode int, cause error) error
}

// Service submits contact messages. Recorder, Limiter and Metrics are
// optional.
type Service struct {
	Relay    Relay
	Recorder Recorder
	Limiter  ratelimit.Allower
	Metrics  *metrics.Metrics
	Timeout  time.Duration
	Log      *zap.Logger
}

// Submit validates in and relays it. clientKey identifies the sender for
// rate limiting (usually the client IP). The returned error is nil on
// success and otherwise one of inputval.ErrMissingFields,
// inputval.ErrInvalidEmail, statusmsg.ErrRateLimited, or an error wrapping
// contactrelay.ErrRejected / contactrelay.ErrTransport. statusmsg.For maps
// it to the status line.
func (s *Service) Submit(ctx context.Context, in inputval.ContactInput, clientKey string) error {
	in = in.Trimmed()
	if err := inputval.CheckContact(in); err != nil {
		s.Metrics.ObserveContact(metrics.OutcomeInvalid)
		return err
	}

	if s.Relay == nil {
		s.Metrics.ObserveContact(metrics.OutcomeTransport)
		return contactrelay.ErrNoEndpoint
	}

	if s.Limiter != nil && clientKey != "" {
		ok, err := s.Limiter.Allow(ctx, clientKey)
		if err != nil {
			// Fail open on limiter errors.
			s.Log.Warn("contact rate limiter failed", zap.Error(err))
		} else if !ok {
			s.Metrics.ObserveContact(metrics.OutcomeRateLimited)
			s.Log.Info("contact submission rate limited", zap.String("client", clientKey))
			return statusmsg.ErrRateLimited
		}
	}

	msg := models.ContactMessage{
		RequestID: uuid.NewString(),
		Name:      in.Name,
		Email:     in.Email,
		Contact:   in.Contact,
		Message:   in.Message,
		ClientIP:  clientKey,
	}
	recorded := false
	if s.Recorder != nil {
		saved, err := s.Recorder.Create(ctx, msg)
		if err != nil {
			s.Log.Warn("contact message not recorded", zap.String("request_id", msg.RequestID), zap.Error(err))
		} else {
			msg = saved
			recorded = true
		}
	}

	relayCtx := ctx
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		relayCtx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	start := time.Now()
	code, err := s.Relay.Submit(relayCtx, msg)
	s.Metrics.ObserveRelay(time.Since(start))

	switch {
	case err == nil:
		s.Metrics.ObserveContact(metrics.OutcomeSent)
	case code != 0:
		s.Metrics.ObserveContact(metrics.OutcomeRejected)
	default:
		s.Metrics.ObserveContact(metrics.OutcomeTransport)
	}

	if recorded {
		// The relay context may already be spent; the record gets its own.
		recCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		var markErr error
		if err == nil {
			markErr = s.Recorder.MarkSent(recCtx, msg.ID, code)
		} else {
			markErr = s.Recorder.MarkFailed(recCtx, msg.ID, contactrelay.StatusCode(err), err)
		}
		if markErr != nil {
			s.Log.Warn("contact message status not updated", zap.String("request_id", msg.RequestID), zap.Error(markErr))
		}
	}

	return err
}
