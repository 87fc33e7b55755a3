package transport

import (
	"chat-server/errors"
	"strings"
)

// Command is one parsed input line. Keywords are case-sensitive and
// arguments are separated by single spaces.
type Command interface{}

type BroadcastCommand struct {
	Text string
}

type PrivateMessageCommand struct {
	Recipient string
	Text      string
}

type CreateGroupCommand struct {
	Name string
}

type JoinGroupCommand struct {
	Name string
}

type LeaveGroupCommand struct {
	Name string
}

type GroupMessageCommand struct {
	Group string
	Text  string
}

type HelpCommand struct{}

type ExitCommand struct{}

// ParseCommand interprets one already-trimmed, non-empty input line.
// Anything that is not a well-formed command, including /msg or /group_msg
// with a missing argument, yields ErrUnknownCommand.
func ParseCommand(line string) (Command, error) {
	switch {
	case strings.HasPrefix(line, "/broadcast "):
		return BroadcastCommand{Text: strings.TrimSpace(line[len("/broadcast "):])}, nil

	case strings.HasPrefix(line, "/msg "):
		recipient, text, ok := strings.Cut(line[len("/msg "):], " ")
		if !ok {
			return nil, errors.ErrUnknownCommand
		}
		return PrivateMessageCommand{
			Recipient: strings.TrimSpace(recipient),
			Text:      strings.TrimSpace(text),
		}, nil

	case strings.HasPrefix(line, "/create_group "):
		return CreateGroupCommand{Name: line[len("/create_group "):]}, nil

	case strings.HasPrefix(line, "/join_group "):
		return JoinGroupCommand{Name: line[len("/join_group "):]}, nil

	case strings.HasPrefix(line, "/leave_group "):
		return LeaveGroupCommand{Name: line[len("/leave_group "):]}, nil

	case strings.HasPrefix(line, "/group_msg "):
		group, text, ok := strings.Cut(line[len("/group_msg "):], " ")
		if !ok {
			return nil, errors.ErrUnknownCommand
		}
		return GroupMessageCommand{Group: group, Text: text}, nil

	case strings.HasPrefix(line, "/help"):
		return HelpCommand{}, nil

	case line == "/exit":
		return ExitCommand{}, nil

	default:
		return nil, errors.ErrUnknownCommand
	}
}
