// Package statusmsg maps contact submission outcomes to the status line
// shown under the form.
package statusmsg

import (
	"errors"

	"github.com/dalemusser/coursehub/internal/app/system/contactrelay"
	"github.com/dalemusser/coursehub/internal/app/system/inputval"
	"github.com/dalemusser/coursehub/internal/app/system/uistate"
)

const (
	MissingFields = "⚠️ Please fill in all required fields."
	InvalidEmail  = "❌ Invalid email format."
	Sent          = "✅ Message sent successfully!"
	Failed        = "❌ Something went wrong. Try again later."
	NetworkError  = "❌ Network error. Please check your connection."
	TooMany       = "⚠️ Too many messages. Please wait a minute and try again."
)

// ErrRateLimited is returned when a client has sent too many submissions.
var ErrRateLimited = errors.New("contact rate limit exceeded")

// Message is a status line.
type Message struct {
	Text string
	Kind uistate.StatusKind
}

// For returns the status line for the outcome err of a submission. A nil
// err is success.
func For(err error) Message {
	switch {
	case err == nil:
		return Message{Text: Sent, Kind: uistate.StatusSuccess}
	case errors.Is(err, inputval.ErrMissingFields):
		return Message{Text: MissingFields, Kind: uistate.StatusError}
	case errors.Is(err, inputval.ErrInvalidEmail):
		return Message{Text: InvalidEmail, Kind: uistate.StatusError}
	case errors.Is(err, ErrRateLimited):
		return Message{Text: TooMany, Kind: uistate.StatusError}
	case errors.Is(err, contactrelay.ErrTransport):
		return Message{Text: NetworkError, Kind: uistate.StatusError}
	default:
		return Message{Text: Failed, Kind: uistate.StatusError}
	}
}
