package registration

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Status is the outcome of one registration attempt.
//
// The set is closed: Idle, InvalidData, UserExists, Failed and Success.
// Consumers branch through Accept so that every value is handled.
type Status uint8

const (
	// StatusIdle means no submission has been attempted.
	StatusIdle Status = iota
	// StatusInvalidData means the submitted fields failed validation.
	StatusInvalidData
	// StatusUserExists means the email already has an account.
	StatusUserExists
	// StatusFailed means account creation failed for any other reason.
	StatusFailed
	// StatusSuccess means the account was created.
	StatusSuccess
)

// ErrUnknownStatus is returned for values outside the closed set.
var ErrUnknownStatus = errors.New("unknown registration status")

var statusTags = [...]string{
	StatusIdle:        "idle",
	StatusInvalidData: "invalid_data",
	StatusUserExists:  "user_exists",
	StatusFailed:      "failed",
	StatusSuccess:     "success",
}

// Statuses lists every status in declaration order.
func Statuses() []Status {
	return []Status{StatusIdle, StatusInvalidData, StatusUserExists, StatusFailed, StatusSuccess}
}

// Valid reports whether s is one of the five statuses.
func (s Status) Valid() bool {
	return int(s) < len(statusTags)
}

// String returns the wire tag.
func (s Status) String() string {
	if !s.Valid() {
		return fmt.Sprintf("status(%d)", uint8(s))
	}
	return statusTags[s]
}

// ParseStatus converts a wire tag into a Status.
func ParseStatus(tag string) (Status, error) {
	for i, candidate := range statusTags {
		if candidate == tag {
			return Status(i), nil
		}
	}
	return StatusIdle, fmt.Errorf("%w: %q", ErrUnknownStatus, tag)
}

// Visitor handles each status. Implementations must provide all five cases.
type Visitor interface {
	VisitIdle()
	VisitInvalidData()
	VisitUserExists()
	VisitFailed()
	VisitSuccess()
}

// Accept dispatches s to exactly one visitor method.
func (s Status) Accept(v Visitor) error {
	switch s {
	case StatusIdle:
		v.VisitIdle()
	case StatusInvalidData:
		v.VisitInvalidData()
	case StatusUserExists:
		v.VisitUserExists()
	case StatusFailed:
		v.VisitFailed()
	case StatusSuccess:
		v.VisitSuccess()
	default:
		return fmt.Errorf("%w: %d", ErrUnknownStatus, uint8(s))
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStatus, uint8(s))
	}
	return []byte(statusTags[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Result is the JSON envelope returned by the HTTP registration endpoint.
type Result struct {
	Status Status `json:"status"`
}

// DecodeResult parses a Result body. Missing or unknown tags are errors.
func DecodeResult(body []byte) (Result, error) {
	var raw struct {
		Status *Status `json:"status"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return Result{}, fmt.Errorf("decode registration result: %w", err)
	}
	if raw.Status == nil {
		return Result{}, fmt.Errorf("decode registration result: %w: missing status", ErrUnknownStatus)
	}
	return Result{Status: *raw.Status}, nil
}
