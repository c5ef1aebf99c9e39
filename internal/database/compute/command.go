package compute

type Command int8

const (
	GetCommandToken    = "GET"
	SetCommandToken    = "SET"
	UpdateCommandToken = "UPDATE"
	DeleteCommandToken = "DELETE"

	GetCommand    = Command(1)
	SetCommand    = Command(2)
	UpdateCommand = Command(3)
	DeleteCommand = Command(4)
)

var commandByToken = map[string]Command{
	GetCommandToken:    GetCommand,
	SetCommandToken:    SetCommand,
	UpdateCommandToken: UpdateCommand,
	DeleteCommandToken: DeleteCommand,
}

// ParseCommand matches the token exactly, case included.
func ParseCommand(token string) (Command, bool) {
	command, ok := commandByToken[token]
	return command, ok
}

func (c Command) String() string {
	switch c {
	case GetCommand:
		return GetCommandToken
	case SetCommand:
		return SetCommandToken
	case UpdateCommand:
		return UpdateCommandToken
	case DeleteCommand:
		return DeleteCommandToken
	default:
		return "UNKNOWN"
	}
}

// IsWrite reports whether the command needs a value.
func (c Command) IsWrite() bool {
	return c == SetCommand || c == UpdateCommand
}
