package memory

// Field is one labelled attribute of a founder's startup profile.
type Field string

const (
	FieldIdea     Field = "idea"
	FieldStage    Field = "stage"
	FieldIndustry Field = "industry"
	FieldProblem  Field = "problem"
	FieldSolution Field = "solution"
)

// Fields lists every profile field in rendering and extraction order.
var Fields = []Field{FieldIdea, FieldStage, FieldIndustry, FieldProblem, FieldSolution}

// Label is the capitalized form used in prompts (e.g. "Idea").
func (f Field) Label() string {
	switch f {
	case FieldIdea:
		return "Idea"
	case FieldStage:
		return "Stage"
	case FieldIndustry:
		return "Industry"
	case FieldProblem:
		return "Problem"
	case FieldSolution:
		return "Solution"
	default:
		return string(f)
	}
}

// StartupMemory is the per-user profile. Empty strings mean the field was never set.
type StartupMemory struct {
	Idea     string `json:"idea,omitempty"`
	Stage    string `json:"stage,omitempty"`
	Industry string `json:"industry,omitempty"`
	Problem  string `json:"problem,omitempty"`
	Solution string `json:"solution,omitempty"`
}

// Value returns the stored value for f.
func (m StartupMemory) Value(f Field) string {
	switch f {
	case FieldIdea:
		return m.Idea
	case FieldStage:
		return m.Stage
	case FieldIndustry:
		return m.Industry
	case FieldProblem:
		return m.Problem
	case FieldSolution:
		return m.Solution
	default:
		return ""
	}
}

// IsEmpty reports whether no field is set.
func (m StartupMemory) IsEmpty() bool {
	for _, f := range Fields {
		if m.Value(f) != "" {
			return false
		}
	}
	return true
}

// Update is a partial profile: only the fields present are written.
type Update map[Field]string
