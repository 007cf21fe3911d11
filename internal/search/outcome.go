package search

import (
	"fmt"

	"github.com/pkg/errors"
)

const (
	ValidationMessage = "Please enter both company and designation"
	NoResultsMessage  = "No results found"
	ConnectionMessage = "Error connecting to server. Make sure the backend is running."
)

type Kind int

const (
	KindResult Kind = iota
	KindValidationError
	KindApplicationError
	KindTransportError
)

func (k Kind) String() string {
	switch k {
	case KindResult:
		return "result"
	case KindValidationError:
		return "validation_error"
	case KindApplicationError:
		return "application_error"
	case KindTransportError:
		return "transport_error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Outcome is the terminal state of one submission. Exactly one of Person or
// Message is meaningful, depending on Kind.
type Outcome struct {
	Kind        Kind        `json:"kind"`
	Person      *Person     `json:"person,omitempty"`
	SourcesUsed SourcesUsed `json:"sources_used,omitempty"`
	Message     string      `json:"message,omitempty"`
	RequestID   string      `json:"request_id,omitempty"`

	// Cause is only set for transport errors and is never shown to the user.
	Cause error `json:"-"`
}

func (o Outcome) Failed() bool {
	return o.Kind != KindResult
}

// Err converts a failed outcome back into the matching error type.
func (o Outcome) Err() error {
	switch o.Kind {
	case KindResult:
		return nil
	case KindValidationError:
		return ErrValidation
	case KindApplicationError:
		return &ApplicationError{Message: o.Message}
	default:
		cause := o.Cause
		if cause == nil {
			cause = errors.New(o.Message)
		}
		return &TransportError{RequestID: o.RequestID, Err: cause}
	}
}

// ApplicationError is a failure reported by the backend itself.
type ApplicationError struct {
	Message string
}

func (e *ApplicationError) Error() string {
	return e.Message
}

// TransportError wraps anything that prevented a well-formed response from
// being received: network failures, cancellations and malformed bodies.
type TransportError struct {
	RequestID string
	Endpoint  string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("search request %s to %s failed: %v", e.RequestID, e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func validationOutcome() Outcome {
	return Outcome{Kind: KindValidationError, Message: ValidationMessage}
}

func applicationOutcome(resp *Response) Outcome {
	message := resp.Error
	if message == "" {
		message = NoResultsMessage
	}
	return Outcome{Kind: KindApplicationError, Message: message, RequestID: resp.RequestID}
}

func transportOutcome(err *TransportError) Outcome {
	return Outcome{Kind: KindTransportError, Message: ConnectionMessage, RequestID: err.RequestID, Cause: err.Err}
}

func resultOutcome(resp *Response) Outcome {
	person := *resp.Person
	return Outcome{Kind: KindResult, Person: &person, SourcesUsed: resp.SourcesUsed, RequestID: resp.RequestID}
}
