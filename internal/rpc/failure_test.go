package rpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFailure_Parse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		detail      string
		wantCode    string
		wantMessage string
		wantOK      bool
	}{
		{
			name:     "code only",
			detail:   `{"error":"TENANT_NOT_FOUND"}`,
			wantCode: "TENANT_NOT_FOUND",
			wantOK:   true,
		},
		{
			name:        "code and message",
			detail:      `{"error":"SLOT_NOT_AVAILABLE","message":"slot taken"}`,
			wantCode:    "SLOT_NOT_AVAILABLE",
			wantMessage: "slot taken",
			wantOK:      true,
		},
		{name: "not json", detail: "boom", wantOK: false},
		{name: "json without code", detail: `{"message":"no code"}`, wantOK: false},
		{name: "empty detail", detail: "", wantOK: false},
		{name: "json array", detail: `[1,2,3]`, wantOK: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := &Failure{Detail: tt.detail}
			code, message, ok := f.Parse()
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantCode, code)
				assert.Equal(t, tt.wantMessage, message)
			}
		})
	}
}

func TestFailure_Code(t *testing.T) {
	t.Parallel()

	mapped := &Failure{Detail: `{"error":"ORDER_NOT_FOUND"}`}
	assert.Equal(t, "ORDER_NOT_FOUND", mapped.Code())

	unparseable := &Failure{Detail: "connection refused", Transport: true}
	assert.Equal(t, CodeUnrecognized, unparseable.Code())
}

func TestTransportFailure(t *testing.T) {
	t.Parallel()

	f := TransportFailure("connection refused")
	assert.True(t, f.Transport)
	assert.Equal(t, "connection refused", f.Detail)
	assert.Contains(t, f.Error(), "transport")
}
