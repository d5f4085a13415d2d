package bot

import (
	"sort"
	"strings"

	tele "gopkg.in/telebot.v4"
)

// Command represents a bot command with its handler and menu description.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	Hidden      bool
}

// Registry holds the bot's commands.
type Registry struct {
	commands map[string]Command
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Command)}
}

// Register adds a new command. Names must carry the slash prefix.
func (r *Registry) Register(name string, cmd Command) {
	if r == nil || name == "" || cmd.Handler == nil || !strings.HasPrefix(name, "/") {
		return
	}
	if _, exists := r.commands[name]; exists {
		return
	}
	r.commands[name] = cmd
}

// Commands returns all registered commands.
func (r *Registry) Commands() map[string]Command {
	return r.commands
}

// Lookup resolves a raw message text like "/report" to its command.
func (r *Registry) Lookup(text string) (Command, bool) {
	name := strings.TrimSpace(text)
	if !strings.HasPrefix(name, "/") {
		return Command{}, false
	}
	if i := strings.IndexByte(name, ' '); i > 0 {
		name = name[:i]
	}
	cmd, ok := r.commands[name]
	return cmd, ok
}

// List returns the visible commands sorted for the Telegram command menu.
func (r *Registry) List() []tele.Command {
	var list []tele.Command
	for name, meta := range r.commands {
		if meta.Hidden {
			continue
		}
		list = append(list, tele.Command{Text: name, Description: meta.Description})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Text < list[j].Text })
	return list
}
