package signing

import (
	"fmt"

	"xhsmonitor/pkg/logger"
)

// Header names emitted by the external signing capability.
const (
	HeaderSignature = "x-s"
	HeaderTimestamp = "x-t"
	HeaderComposite = "x-s-common"
)

// SignFunc is the opaque external signing capability. It computes per-request
// signature headers from the URI, request body, and account secret material.
// The algorithm is externally versioned and wholly out of this system's
// control; it may fail or return invalid output.
type SignFunc func(uri string, body interface{}, a1, b1 string) (map[string]string, error)

// Error is returned when the signing capability fails or produces output
// missing the signature field.
type Error struct {
	URI     string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("signing %s: %s", e.URI, e.Message)
}

// Request carries the parameters for one signing call. Callers pass superset
// parameter sets that vary across call sites; anything in Extra is accepted
// and silently discarded.
type Request struct {
	URI   string
	Body  interface{}
	A1    string
	B1    string
	Extra map[string]interface{}
}

// Headers are the per-request authentication tokens attached to outbound
// remote API calls.
type Headers struct {
	Signature          string
	Timestamp          string
	CompositeSignature string
}

// Adapter normalizes heterogeneous signing call shapes into one contract and
// supplies safe defaults for missing parameters. It performs no network I/O
// and no retries; retry is the caller's responsibility.
type Adapter struct {
	sign      SignFunc
	defaultB1 string
	logger    logger.Logger
}

// NewAdapter wraps the given signing capability. defaultB1 is used whenever a
// call site does not supply its own browser fingerprint parameter.
func NewAdapter(sign SignFunc, defaultB1 string, log logger.Logger) *Adapter {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Adapter{
		sign:      sign,
		defaultB1: defaultB1,
		logger:    log,
	}
}

// Sign invokes the signing capability for the given request. A panic inside
// the capability, an error return, or a result without a signature all map to
// *Error.
func (a *Adapter) Sign(req Request) (hdrs *Headers, err error) {
	if a.sign == nil {
		return nil, &Error{URI: req.URI, Message: "no signing capability configured"}
	}

	b1 := req.B1
	if b1 == "" {
		b1 = a.defaultB1
	}

	// The capability is untrusted; contain panics as signing failures.
	defer func() {
		if r := recover(); r != nil {
			a.logger.ErrorWithFields("signing capability panicked", map[string]interface{}{
				"uri":   req.URI,
				"panic": fmt.Sprintf("%v", r),
			})
			hdrs = nil
			err = &Error{URI: req.URI, Message: fmt.Sprintf("capability panicked: %v", r)}
		}
	}()

	result, signErr := a.sign(req.URI, req.Body, req.A1, b1)
	if signErr != nil {
		a.logger.ErrorWithFields("signing capability failed", map[string]interface{}{
			"uri":   req.URI,
			"error": signErr.Error(),
		})
		return nil, &Error{URI: req.URI, Message: signErr.Error()}
	}

	signature := result[HeaderSignature]
	if signature == "" {
		a.logger.ErrorWithFields("signing result missing signature", map[string]interface{}{
			"uri": req.URI,
		})
		return nil, &Error{URI: req.URI, Message: "result missing signature field"}
	}

	return &Headers{
		Signature:          signature,
		Timestamp:          result[HeaderTimestamp],
		CompositeSignature: result[HeaderComposite],
	}, nil
}
