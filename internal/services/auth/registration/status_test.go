package registration

import (
	"encoding/json"
	"errors"
	"testing"
)

type recordingVisitor struct {
	calls []string
}

func (v *recordingVisitor) VisitIdle()        { v.calls = append(v.calls, "idle") }
func (v *recordingVisitor) VisitInvalidData() { v.calls = append(v.calls, "invalid_data") }
func (v *recordingVisitor) VisitUserExists()  { v.calls = append(v.calls, "user_exists") }
func (v *recordingVisitor) VisitFailed()      { v.calls = append(v.calls, "failed") }
func (v *recordingVisitor) VisitSuccess()     { v.calls = append(v.calls, "success") }

func TestStatusAcceptDispatchesExactlyOnce(t *testing.T) {
	for _, status := range Statuses() {
		t.Run(status.String(), func(t *testing.T) {
			v := &recordingVisitor{}
			if err := status.Accept(v); err != nil {
				t.Fatalf("accept: %v", err)
			}
			if len(v.calls) != 1 || v.calls[0] != status.String() {
				t.Fatalf("calls = %v, want [%s]", v.calls, status)
			}
		})
	}
}

func TestStatusAcceptRejectsUnknown(t *testing.T) {
	v := &recordingVisitor{}
	err := Status(42).Accept(v)
	if !errors.Is(err, ErrUnknownStatus) {
		t.Fatalf("expected unknown status error, got %v", err)
	}
	if len(v.calls) != 0 {
		t.Fatalf("expected no visitor calls, got %v", v.calls)
	}
}

func TestParseStatus(t *testing.T) {
	for _, status := range Statuses() {
		parsed, err := ParseStatus(status.String())
		if err != nil {
			t.Fatalf("parse %q: %v", status, err)
		}
		if parsed != status {
			t.Fatalf("parse %q = %v", status, parsed)
		}
	}
	if _, err := ParseStatus("pending"); !errors.Is(err, ErrUnknownStatus) {
		t.Fatalf("expected unknown status, got %v", err)
	}
}

func TestResultJSONShape(t *testing.T) {
	body, err := json.Marshal(Result{Status: StatusUserExists})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(body) != `{"status":"user_exists"}` {
		t.Fatalf("body = %s", body)
	}
	if _, err := json.Marshal(Result{Status: Status(9)}); err == nil {
		t.Fatal("expected marshal error for unknown status")
	}
}

func TestDecodeResult(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    Status
		wantErr bool
	}{
		{name: "success", body: `{"status":"success"}`, want: StatusSuccess},
		{name: "invalid data", body: `{"status":"invalid_data"}`, want: StatusInvalidData},
		{name: "missing status", body: `{}`, wantErr: true},
		{name: "unknown tag", body: `{"status":"teapot"}`, wantErr: true},
		{name: "not json", body: `<html>`, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeResult([]byte(tc.body))
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Status != tc.want {
				t.Fatalf("status = %v, want %v", got.Status, tc.want)
			}
		})
	}
}

func TestFormFromValues(t *testing.T) {
	form := FormFromValues(Form{Email: " new@ifc.org ", Password: " secret "}.Values())
	if form.Email != "new@ifc.org" {
		t.Fatalf("email = %q", form.Email)
	}
	if form.Password != " secret " {
		t.Fatalf("password must be preserved verbatim, got %q", form.Password)
	}
}
