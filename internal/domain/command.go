package domain

// CommandType classifies what the user asked the assistant to do.
type CommandType int

const (
	CommandUnknown CommandType = iota
	CommandCook                // generate a recipe from a photo
	CommandShow                // render the current recipe again
	CommandPlay
	CommandPause
	CommandResume
	CommandStop
	CommandStatus
	CommandSelfTest
	CommandHelp
	CommandQuit
)

// String returns a human-readable command type.
func (c CommandType) String() string {
	switch c {
	case CommandCook:
		return "cook"
	case CommandShow:
		return "show"
	case CommandPlay:
		return "play"
	case CommandPause:
		return "pause"
	case CommandResume:
		return "resume"
	case CommandStop:
		return "stop"
	case CommandStatus:
		return "status"
	case CommandSelfTest:
		return "selftest"
	case CommandHelp:
		return "help"
	case CommandQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Command is a parsed user action.
type Command struct {
	Type CommandType
	Args []string // e.g. image path and meal type for CommandCook
}
