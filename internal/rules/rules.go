// Package rules compiles configured window rules into evaluable form and
// matches them against windows as they appear.
package rules

import (
	"github.com/geket/lamella/internal/command"
	"github.com/geket/lamella/internal/config"
	"github.com/geket/lamella/internal/util"
	"github.com/geket/lamella/internal/wm"
)

// Rule is one compiled rule: a window predicate and the commands it fires.
type Rule struct {
	Criteria wm.Criteria
	Commands []command.Command
}

// Compile parses rule commands once, up front. Commands that do not parse
// are dropped with a warning; a rule left without commands is dropped whole.
func Compile(rules []config.Rule, log *util.Logger) []Rule {
	compiled := make([]Rule, 0, len(rules))
	for _, rc := range rules {
		cmds := make([]command.Command, 0, len(rc.Commands))
		for _, text := range rc.Commands {
			cmd := command.Parse(text)
			if u, ok := cmd.(command.Unknown); ok {
				log.Warnf("rule: dropping unknown command %q", u.Text)
				continue
			}
			cmds = append(cmds, cmd)
		}
		if len(cmds) == 0 {
			continue
		}
		compiled = append(compiled, Rule{
			Criteria: criteria(rc.Criteria),
			Commands: cmds,
		})
	}
	return compiled
}

func criteria(c config.Criteria) wm.Criteria {
	out := wm.Criteria{
		AppID:    c.AppID,
		Class:    c.Class,
		Title:    c.Title,
		Floating: c.Floating,
		Urgent:   c.Urgent,
		Focused:  c.Focused,
		ConMark:  c.ConMark,
	}
	if c.Type != "" {
		// Validation already rejected unknown names.
		if t, ok := wm.ParseWindowType(c.Type); ok {
			out.Type = &t
		}
	}
	return out
}

// Match returns the commands of every rule whose criteria accept the window,
// in configuration order.
func Match(rules []Rule, w *wm.Window) []command.Command {
	var cmds []command.Command
	for _, r := range rules {
		if r.Criteria.Matches(w) {
			cmds = append(cmds, r.Commands...)
		}
	}
	return cmds
}
