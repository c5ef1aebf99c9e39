package compute

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const (
	envelopeSeparator = "\r\n\r\n"
	indexRequestMark  = "GET /"
)

var bodyRegexp = regexp.MustCompile(
	`^\{\s*"request":\s*"([^"]*)",\s*"key":\s*"([^"]*)"(?:,\s*"value":\s*([^}]*))?\s*}$`,
)

type RequestParser struct {
	logger *zap.Logger
}

func NewRequestParser(logger *zap.Logger) (*RequestParser, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &RequestParser{logger: logger}, nil
}

// IsIndexRequest reports whether the first line of a request asks for the
// index page. The rest of the request is never looked at.
func IsIndexRequest(request string) bool {
	firstLine, _, _ := strings.Cut(request, "\n")
	return strings.Contains(firstLine, indexRequestMark)
}

// Parse turns raw request bytes into a ParseOutcome. Invalid UTF-8 is
// replaced, not rejected.
func (p *RequestParser) Parse(raw []byte) ParseOutcome {
	request := strings.ToValidUTF8(string(raw), "\uFFFD")

	headers, body, found := strings.Cut(request, envelopeSeparator)
	if !found {
		p.logger.Debug("no header/body separator", zap.String("request", request))
		return Failed(ErrMalformedEnvelope)
	}

	if IsIndexRequest(headers) {
		return Skipped()
	}

	parsed, err := p.parseBody(body)
	if err != nil {
		p.logger.Debug("error parsing body", zap.String("body", body), zap.Error(err))
		return Failed(err)
	}

	return Parsed(parsed)
}

func (p *RequestParser) parseBody(body string) (Request, error) {
	if len(body) == 0 {
		return Request{}, ErrEmptyBody
	}

	trimmed := strings.TrimSpace(body)

	matches := bodyRegexp.FindStringSubmatchIndex(trimmed)
	if matches == nil {
		return Request{}, ErrFormatMismatch
	}

	command := trimmed[matches[2]:matches[3]]
	key := trimmed[matches[4]:matches[5]]

	if key == "" {
		return Request{}, ErrEmptyKey
	}

	request := Request{Command: command, Key: key}

	// group 3 is optional; a negative index means the value field is absent
	if matches[6] >= 0 {
		value, err := ParseValue(trimmed[matches[6]:matches[7]])
		if err != nil {
			return Request{}, err
		}
		request.Value = &value
	}

	return request, nil
}

// ParseValue classifies a raw value: quoted text is a String, then int32,
// then float64. Decimal floats only: hex literals are rejected, and values out
// of float64 range become ±Inf.
func ParseValue(raw string) (Value, error) {
	raw = strings.TrimSpace(raw)

	if len(raw) >= 2 && strings.HasPrefix(raw, `"`) && strings.HasSuffix(raw, `"`) {
		return StringOf(raw[1 : len(raw)-1]), nil
	}

	if i, err := strconv.ParseInt(raw, 10, 32); err == nil {
		return IntegerOf(int32(i)), nil
	}

	if !isHexLiteral(raw) {
		f, err := strconv.ParseFloat(raw, 64)
		if err == nil || errors.Is(err, strconv.ErrRange) {
			return FloatOf(f), nil
		}
	}

	return Value{}, fmt.Errorf("%w: %s", ErrUnparsableValue, raw)
}

func isHexLiteral(raw string) bool {
	unsigned := strings.TrimLeft(raw, "+-")
	return strings.HasPrefix(unsigned, "0x") || strings.HasPrefix(unsigned, "0X")
}
