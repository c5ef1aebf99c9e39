package compute

import "errors"

// Client-facing parse errors. The message is rendered into the 400 page as is.
var (
	ErrMalformedEnvelope = errors.New("Malformed request: missing header/body separator!")
	ErrEmptyBody         = errors.New("Empty body!")
	ErrFormatMismatch    = errors.New("Invalid body format!")
	ErrEmptyKey          = errors.New("Empty key!")
	ErrUnparsableValue   = errors.New("Wrong raw_value type")
)

type OutcomeKind int8

const (
	SkipOutcome   = OutcomeKind(0)
	ParsedOutcome = OutcomeKind(1)
	ErrorOutcome  = OutcomeKind(2)
)

// Request is a body that matched the wire format. Command is kept verbatim;
// mapping it to a Command is the dispatcher's job.
type Request struct {
	Command string
	Key     string
	Value   *Value
}

// ParseOutcome holds exactly one of: nothing (Skip), a Request (Parsed) or an
// error (Error).
type ParseOutcome struct {
	Kind    OutcomeKind
	Request Request
	Err     error
}

func Skipped() ParseOutcome {
	return ParseOutcome{Kind: SkipOutcome}
}

func Parsed(request Request) ParseOutcome {
	return ParseOutcome{Kind: ParsedOutcome, Request: request}
}

func Failed(err error) ParseOutcome {
	return ParseOutcome{Kind: ErrorOutcome, Err: err}
}
