package assist

import (
	"fmt"
	"strings"
)

// Action names one editing operation the writing assistant performs.
type Action string

const (
	ActionImprove   Action = "improve"
	ActionShorten   Action = "shorten"
	ActionExpand    Action = "expand"
	ActionProofread Action = "proofread"
	ActionTitle     Action = "title"
)

// Actions lists every supported action.
var Actions = []Action{ActionImprove, ActionShorten, ActionExpand, ActionProofread, ActionTitle}

// ParseAction validates a client-supplied action name.
func ParseAction(s string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Actions {
		if a == known {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown assist action: %q", s)
}

const promptPreamble = `You are an editing assistant for a personal blog. You work on Markdown text.

Rules:
- Keep the author's voice and first-person perspective
- Preserve Markdown structure: headings, lists, code fences, links and images stay intact
- Never add facts the text does not contain
- Never add commentary, preamble, or explanations of your edit
- Respond with ONLY the edited Markdown, no other text`

var actionInstructions = map[Action]string{
	ActionImprove:   "Improve clarity and flow. Tighten wording, fix awkward phrasing, keep roughly the same length.",
	ActionShorten:   "Shorten the text to roughly half its length. Keep every key point, cut filler and repetition.",
	ActionExpand:    "Expand the text with more detail and smoother transitions. Stay grounded in what is already said; do not invent facts.",
	ActionProofread: "Fix spelling, grammar and punctuation only. Do not rephrase sentences that are already correct.",
	ActionTitle:     "Suggest one title for this text. Respond with the title only: a single line, no quotes, no Markdown heading marker.",
}

// SystemPrompt builds the system prompt for an action.
func SystemPrompt(action Action) string {
	var sb strings.Builder
	sb.WriteString(promptPreamble)
	sb.WriteString("\n\nTask: ")
	sb.WriteString(actionInstructions[action])
	return sb.String()
}
