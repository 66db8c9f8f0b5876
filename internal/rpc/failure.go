package rpc

import "encoding/json"

// CodeUnrecognized is the synthetic code carried by failures whose payload
// does not contain a recognizable error code, including all transport-level
// failures.
const CodeUnrecognized = "UNRECOGNIZED"

// Failure is a structured downstream failure. It is the only failure shape
// callers above the adapter ever see; raw transport errors never escape.
type Failure struct {
	// Detail is the raw failure payload from the downstream service. When
	// the service rejected the request it is a JSON string containing at
	// least an "error" code field.
	Detail string

	// Transport marks failures synthesized from transport-level errors
	// (connection refused, timeout, open circuit breaker).
	Transport bool
}

// detailPayload is the assumed shape of a structured failure detail.
type detailPayload struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Code returns the domain error code carried by the failure detail, or
// CodeUnrecognized when the detail cannot be parsed as structured data.
func (f *Failure) Code() string {
	code, _, ok := f.parse()
	if !ok {
		return CodeUnrecognized
	}
	return code
}

// Parse attempts to extract the error code and optional human-readable
// message from the detail. The second return is the message, the third
// reports whether the detail was parseable structured data with a code.
func (f *Failure) Parse() (code, message string, ok bool) {
	return f.parse()
}

func (f *Failure) parse() (string, string, bool) {
	if f == nil || f.Detail == "" {
		return "", "", false
	}
	var payload detailPayload
	if err := json.Unmarshal([]byte(f.Detail), &payload); err != nil {
		return "", "", false
	}
	if payload.Error == "" {
		return "", "", false
	}
	return payload.Error, payload.Message, true
}

// Error implements the error interface.
func (f *Failure) Error() string {
	if f.Transport {
		return "downstream transport failure: " + f.Detail
	}
	return "downstream failure: " + f.Detail
}

// TransportFailure creates a Failure for a transport-level error.
func TransportFailure(detail string) *Failure {
	return &Failure{Detail: detail, Transport: true}
}
