package command

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// vocabulary lists every command word, in the order Parse matches them.
var vocabulary = []string{
	"exec",
	"exec_always",
	"kill",
	"focus",
	"move",
	"floating",
	"fullscreen",
	"sticky",
	"split",
	"layout",
	"workspace",
	"scratchpad",
	"mark",
	"unmark",
	"goto_mark",
	"mode",
	"gaps",
	"reload",
	"restart",
	"exit",
	"resize",
}

// Suggest returns the command word closest to the given one, or "" when
// nothing is within Levenshtein distance 2. Ties go to the word listed
// first in the vocabulary.
func Suggest(word string) string {
	w := strings.ToLower(strings.TrimSpace(word))
	if w == "" {
		return ""
	}

	best := ""
	bestDist := 3
	for _, candidate := range vocabulary {
		if d := levenshtein.ComputeDistance(w, candidate); d < bestDist {
			best = candidate
			bestDist = d
		}
	}
	return best
}
