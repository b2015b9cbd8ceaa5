// FILE: internal/client/commands/registry.go
package commands

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"tilechess/internal/client/api"
	"tilechess/internal/client/display"
	"tilechess/internal/core"
)

// ErrExit is returned by the exit command to end the input loop
var ErrExit = errors.New("exit")

// Session is the client state shared by all commands
type Session struct {
	APIBaseURL    string
	Client        *api.Client
	CurrentGame   string
	LastMoveCount int
	GameState     *core.GameResponse
	Verbose       bool
}

// track records a game reply as the current game
func (s *Session) track(g *core.GameResponse) {
	s.CurrentGame = g.GameID
	s.LastMoveCount = g.Ply
	s.GameState = g
}

func (s *Session) clear() {
	s.CurrentGame = ""
	s.LastMoveCount = 0
	s.GameState = nil
}

// Command defines a client command with its handler
type Command struct {
	Name        string
	ShortName   string
	Description string
	Usage       string
	Group       string
	Handler     func(*Session, []string) error
}

// Registry manages command registration and execution
type Registry struct {
	session  *Session
	out      io.Writer
	commands map[string]*Command
}

func NewRegistry(session *Session, out io.Writer) *Registry {
	r := &Registry{
		session:  session,
		out:      out,
		commands: make(map[string]*Command),
	}

	r.registerGameCommands()
	r.registerDebugCommands()

	r.Register(&Command{
		Name:        "help",
		ShortName:   "?",
		Description: "Show available commands",
		Usage:       "help [command]",
		Group:       groupUtility,
		Handler:     r.helpHandler,
	})

	r.Register(&Command{
		Name:        "exit",
		ShortName:   "x",
		Description: "Exit the client",
		Usage:       "exit",
		Group:       groupUtility,
		Handler: func(*Session, []string) error {
			fmt.Fprintf(r.out, "%sGoodbye!%s\n", display.Cyan, display.Reset)
			return ErrExit
		},
	})

	return r
}

const (
	groupGame    = "Game Commands"
	groupUtility = "Utility Commands"
)

func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	if cmd.ShortName != "" {
		r.commands[cmd.ShortName] = cmd
	}
}

// Execute runs one input line and reports whether the loop should continue
func (r *Registry) Execute(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}

	cmd, exists := r.commands[parts[0]]
	if !exists {
		fmt.Fprintf(r.out, "%sUnknown command: %s%s\n", display.Red, parts[0], display.Reset)
		fmt.Fprintln(r.out, "Type 'help' for available commands")
		return true
	}

	r.session.Client.SetVerbose(r.session.Verbose)

	err := cmd.Handler(r.session, parts[1:])
	if errors.Is(err, ErrExit) {
		return false
	}
	if err != nil {
		fmt.Fprintf(r.out, "%sError: %s%s\n", display.Red, err.Error(), display.Reset)
	}
	return true
}

func (r *Registry) helpHandler(s *Session, args []string) error {
	if len(args) > 0 {
		cmd, exists := r.commands[args[0]]
		if !exists {
			return fmt.Errorf("unknown command: %s", args[0])
		}
		fmt.Fprintf(r.out, "\n%s%s%s - %s\n", display.Cyan, cmd.Name, display.Reset, cmd.Description)
		if cmd.ShortName != "" {
			fmt.Fprintf(r.out, "Short form: %s%s%s\n", display.Cyan, cmd.ShortName, display.Reset)
		}
		fmt.Fprintf(r.out, "Usage: %s\n", cmd.Usage)
		return nil
	}

	fmt.Fprintf(r.out, "\n%sAvailable Commands:%s\n", display.Cyan, display.Reset)
	for _, group := range []string{groupGame, groupUtility} {
		fmt.Fprintf(r.out, "\n%s%s:%s\n", display.Yellow, group, display.Reset)
		for _, cmd := range r.byGroup(group) {
			shortPart := "    "
			if cmd.ShortName != "" {
				shortPart = fmt.Sprintf("[%s%s%s] ", display.Cyan, cmd.ShortName, display.Reset)
			}
			fmt.Fprintf(r.out, "  %s%-10s %s\n", shortPart, cmd.Name, cmd.Description)
		}
	}

	fmt.Fprintln(r.out, "\nType 'help <command>' for detailed usage")
	fmt.Fprintln(r.out, "Add '-v' to any command for verbose output")
	return nil
}

// byGroup lists a group's commands once each, by name
func (r *Registry) byGroup(group string) []*Command {
	var cmds []*Command
	for name, cmd := range r.commands {
		if name == cmd.Name && cmd.Group == group {
			cmds = append(cmds, cmd)
		}
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
	return cmds
}
