package agents

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/startupsetu/setu/internal/history"
	"github.com/startupsetu/setu/internal/memory"
)

const (
	// RecentUserMessages is how many prior user messages are summarized in the prompt.
	RecentUserMessages = 3
	// SummaryRunes caps each summarized message.
	SummaryRunes = 100
)

type profileLine struct {
	Label string
	Value string
}

type promptData struct {
	Persona string
	Profile []profileLine
	Recent  []string
}

const systemPromptTemplate = `{{.Persona}}
{{- if .Profile}}

Current startup profile:
{{- range .Profile}}
- {{.Label}}: {{.Value}}
{{- end}}
{{- end}}
{{- if .Recent}}

Recent conversation context: User has discussed - {{join .Recent " | "}}...
{{- end}}`

var systemTmpl = template.Must(template.New("system").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(systemPromptTemplate))

// BuildSystemPrompt renders the system instruction for one turn: persona, then the
// non-empty profile fields, then a short digest of the latest prior user messages.
// turns must be oldest first.
func BuildSystemPrompt(agent Agent, mem *memory.StartupMemory, turns []history.Turn) string {
	data := promptData{Persona: agent.Persona()}
	if mem != nil {
		for _, f := range memory.Fields {
			if v := mem.Value(f); v != "" {
				data.Profile = append(data.Profile, profileLine{Label: f.Label(), Value: v})
			}
		}
	}
	start := len(turns) - RecentUserMessages
	if start < 0 {
		start = 0
	}
	for _, t := range turns[start:] {
		data.Recent = append(data.Recent, truncateRunes(t.UserMessage, SummaryRunes))
	}

	var buf bytes.Buffer
	if err := systemTmpl.Execute(&buf, data); err != nil {
		panic(err)
	}
	return strings.TrimSpace(buf.String())
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
