// Package visitor provides the visit request model, its record store,
// the lifecycle controller, and read-only queries over the collection.
package visitor

import (
	"errors"
	"fmt"
	"strings"
)

// Status is the lifecycle state of a visit request.
type Status string

const (
	Pending  Status = "PENDING"
	Approved Status = "APPROVED"
	Rejected Status = "REJECTED"
)

// IsTerminal reports whether staff have decided the request.
func (s Status) IsTerminal() bool {
	return s == Approved || s == Rejected
}

// Label returns the label shown to visitors for the status.
func (s Status) Label() string {
	switch s {
	case Pending:
		return "ĐANG CHỜ DUYỆT"
	case Approved:
		return "ĐÃ PHÊ DUYỆT"
	case Rejected:
		return "TỪ CHỐI"
	default:
		return string(s)
	}
}

// Visitor is one visit request. JSON names match the persisted record shape.
type Visitor struct {
	ID            string `json:"id"`
	FullName      string `json:"fullName"`
	PhoneNumber   string `json:"phoneNumber"`
	HostName      string `json:"hostName"`
	Purpose       string `json:"purpose"`
	VisitDateTime string `json:"visitDateTime"`
	Status        Status `json:"status"`
	CreatedAt     int64  `json:"createdAt"` // epoch milliseconds
}

// Input is what a visitor submits on registration.
type Input struct {
	FullName      string `json:"fullName"`
	PhoneNumber   string `json:"phoneNumber"`
	HostName      string `json:"hostName"`
	Purpose       string `json:"purpose"`
	VisitDateTime string `json:"visitDateTime"`
}

// ErrMissingField is returned by Input.Validate.
var ErrMissingField = errors.New("missing required field")

// Validate checks that every field is present. It is the registration
// form's check; Controller.Create does not repeat it.
func (in Input) Validate() error {
	fields := []struct {
		name, value string
	}{
		{"fullName", in.FullName},
		{"phoneNumber", in.PhoneNumber},
		{"hostName", in.HostName},
		{"purpose", in.Purpose},
		{"visitDateTime", in.VisitDateTime},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, f.name)
		}
	}
	return nil
}
