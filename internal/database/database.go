package database

import (
	"errors"
	"fmt"

	"gatekv/internal/database/compute"
	"gatekv/internal/database/storage/engine"

	"go.uber.org/zap"
)

// Client-facing dispatch errors.
var (
	ErrCommandNotFound = errors.New("Command not found")
	ErrValueNotFound   = errors.New("Not found value to create")
)

type Parser interface {
	Parse(raw []byte) compute.ParseOutcome
}

// Outcome is what one request produced. With neither Command nor Err set it is
// the index (skip) outcome.
type Outcome struct {
	Command *string
	Value   *compute.Value
	Err     error
}

func (o Outcome) Skipped() bool {
	return o.Command == nil && o.Err == nil
}

func Failure(err error) Outcome {
	return Outcome{Err: err}
}

type Database struct {
	logger *zap.Logger
	parser Parser
	engine engine.Engine
}

func NewDatabase(logger *zap.Logger, parser Parser, engine engine.Engine) (*Database, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if parser == nil {
		return nil, errors.New("parser cannot be nil")
	}
	if engine == nil {
		return nil, errors.New("engine cannot be nil")
	}

	return &Database{
		logger: logger,
		parser: parser,
		engine: engine,
	}, nil
}

// Execute parses a raw request and runs it against the engine.
func (d *Database) Execute(request []byte) Outcome {
	return d.Process(d.parser.Parse(request))
}

func (d *Database) Process(parsed compute.ParseOutcome) Outcome {
	switch parsed.Kind {
	case compute.SkipOutcome:
		return Outcome{}
	case compute.ErrorOutcome:
		d.logger.Debug("unhandled request", zap.Error(parsed.Err))
		return Failure(parsed.Err)
	}

	command := parsed.Request.Command
	value, err := d.Dispatch(parsed.Request)
	if err != nil {
		d.logger.Debug("command failed",
			zap.String("command", command),
			zap.String("key", parsed.Request.Key),
			zap.Error(err),
		)
	}

	return Outcome{
		Command: &command,
		Value:   value,
		Err:     err,
	}
}

// Dispatch runs one command. Only GET and DELETE may return a value.
func (d *Database) Dispatch(request compute.Request) (*compute.Value, error) {
	command, ok := compute.ParseCommand(request.Command)
	if !ok {
		return nil, ErrCommandNotFound
	}

	if command.IsWrite() && request.Value == nil {
		return nil, ErrValueNotFound
	}

	switch command {
	case compute.GetCommand:
		return wireValue(d.engine.Get(request.Key)), nil
	case compute.SetCommand, compute.UpdateCommand:
		d.engine.Put(request.Key, toStoreValue(*request.Value))
		return nil, nil
	case compute.DeleteCommand:
		return wireValue(d.engine.Delete(request.Key)), nil
	default:
		return nil, ErrCommandNotFound
	}
}

// Keys lists stored keys in natural order.
func (d *Database) Keys() []string {
	return d.engine.Keys()
}

func (d *Database) Len() int {
	return d.engine.Len()
}

func wireValue(value engine.Value, found bool) *compute.Value {
	if !found {
		return nil
	}

	translated := toWireValue(value)
	return &translated
}

func toStoreValue(value compute.Value) engine.Value {
	switch value.Type {
	case compute.IntegerValue:
		return engine.Integer(value.Int)
	case compute.FloatValue:
		return engine.Float(value.Float)
	case compute.StringValue:
		return engine.String(value.Str)
	default:
		panic(fmt.Sprintf("unknown wire value type: %d", value.Type))
	}
}

func toWireValue(value engine.Value) compute.Value {
	switch v := value.(type) {
	case engine.Integer:
		return compute.IntegerOf(int32(v))
	case engine.Float:
		return compute.FloatOf(float64(v))
	case engine.String:
		return compute.StringOf(string(v))
	default:
		panic(fmt.Sprintf("unknown stored value type: %T", value))
	}
}
