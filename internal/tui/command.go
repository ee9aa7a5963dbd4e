package tui

import "strings"

// Command represents a parsed ':' command.
type Command struct {
	Name string
	Args string
}

// ParseCommand parses a command string (without the leading ':').
func ParseCommand(input string) Command {
	input = strings.TrimSpace(input)
	parts := strings.SplitN(input, " ", 2)
	cmd := Command{Name: strings.ToLower(parts[0])}
	if len(parts) > 1 {
		cmd.Args = strings.TrimSpace(parts[1])
	}
	return cmd
}

// Commands accepted at the prompt, with their aliases.
var commandAliases = map[string]string{
	"open":    "open",
	"o":       "open",
	"tap":     "tap",
	"t":       "tap",
	"dismiss": "dismiss",
	"read":    "read",
	"delete":  "delete",
	"del":     "delete",
	"refresh": "refresh",
	"q":       "quit",
	"quit":    "quit",
}

// Canonical returns the command's canonical name, or "" if unknown.
func (c Command) Canonical() string {
	return commandAliases[c.Name]
}
