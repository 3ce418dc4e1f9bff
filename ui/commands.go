package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"poassist/config"
)

type commandKind int

const (
	cmdNone commandKind = iota
	cmdSend
	cmdUpload
	cmdModel
	cmdClear
	cmdAction
	cmdSet
	cmdValidate
	cmdPing
	cmdProviders
	cmdHelp
	cmdQuit
)

var commandNames = map[commandKind]string{
	cmdNone:      "none",
	cmdSend:      "send",
	cmdUpload:    "upload",
	cmdModel:     "model",
	cmdClear:     "clear",
	cmdAction:    "action",
	cmdSet:       "set",
	cmdValidate:  "validate",
	cmdPing:      "ping",
	cmdProviders: "providers",
	cmdHelp:      "help",
	cmdQuit:      "quit",
}

func (k commandKind) String() string {
	if name, ok := commandNames[k]; ok {
		return name
	}
	return fmt.Sprintf("commandKind(%d)", int(k))
}

// command is one parsed line of input.
type command struct {
	kind commandKind

	text string // message text (send, trailing upload text)
	path string // upload path
	arg  string // model query, ping target
	n    int    // action number

	provider config.ProviderID
	field    string
	value    string
}

var errUnknownCommand = errors.New("unknown command")

// uploadSeparator splits "/upload <path> -- <message>".
const uploadSeparator = " -- "

// parseCommand turns an input line into a command. Anything not starting
// with "/" is a plain message.
func parseCommand(input string) (command, error) {
	line := strings.TrimSpace(input)
	if line == "" {
		return command{kind: cmdNone}, nil
	}
	if !strings.HasPrefix(line, "/") {
		return command{kind: cmdSend, text: line}, nil
	}

	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(name) {
	case "/upload":
		if rest == "" {
			return command{}, fmt.Errorf("usage: /upload <path> [-- message]")
		}
		path, text, _ := strings.Cut(rest, uploadSeparator)
		return command{kind: cmdUpload, path: strings.TrimSpace(path), text: strings.TrimSpace(text)}, nil

	case "/model":
		return command{kind: cmdModel, arg: rest}, nil

	case "/clear":
		return command{kind: cmdClear}, nil

	case "/action":
		n, err := strconv.Atoi(rest)
		if err != nil {
			return command{}, fmt.Errorf("usage: /action <number>")
		}
		return command{kind: cmdAction, n: n}, nil

	case "/set":
		return parseSetCommand(rest)

	case "/validate":
		return command{kind: cmdValidate}, nil

	case "/ping":
		return command{kind: cmdPing, arg: rest}, nil

	case "/providers":
		return command{kind: cmdProviders}, nil

	case "/help", "/?":
		return command{kind: cmdHelp}, nil

	case "/quit", "/exit":
		return command{kind: cmdQuit}, nil
	}

	return command{}, fmt.Errorf("%w: %s (try /help)", errUnknownCommand, name)
}

// parseSetCommand handles "<backend>.<field> <value>". An empty value is
// allowed and clears the field.
func parseSetCommand(rest string) (command, error) {
	key, value, _ := strings.Cut(rest, " ")
	id, field, ok := strings.Cut(key, ".")
	if !ok || id == "" || field == "" {
		return command{}, fmt.Errorf("usage: /set <backend>.<field> <value>")
	}

	pid := config.ProviderID(strings.ToLower(id))
	known := false
	for _, p := range config.ProviderOrder {
		if p == pid {
			known = true
			break
		}
	}
	if !known {
		return command{}, fmt.Errorf("unknown backend %q", id)
	}

	return command{
		kind:     cmdSet,
		provider: pid,
		field:    strings.ToLower(field),
		value:    strings.TrimSpace(value),
	}, nil
}
