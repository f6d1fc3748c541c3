package learning

import (
	"bytes"
	"encoding/json"
)

// LegacyContent is the flat, pre-cell content record of a version 1 submodule.
type LegacyContent struct {
	Explanation       string              `json:"explanation,omitempty"`
	CodeExamples      []LegacyCodeExample `json:"codeExamples,omitempty"`
	StepByStepGuide   []string            `json:"stepByStepGuide,omitempty"`
	RealWorldExamples []string            `json:"realWorldExamples,omitempty"`
	ProjectSuggestion string              `json:"projectSuggestion,omitempty"`
}

// LegacyCodeExample accepts both schema eras: a bare code string, or an
// object with title, code, explanation and an optional language.
type LegacyCodeExample struct {
	Title       string `json:"title,omitempty"`
	Code        string `json:"code"`
	Explanation string `json:"explanation,omitempty"`
	Language    string `json:"language,omitempty"`
	plain       bool
}

// IsPlain reports whether the example was stored as a bare string.
func (e LegacyCodeExample) IsPlain() bool { return e.plain }

func PlainCodeExample(code string) LegacyCodeExample {
	return LegacyCodeExample{Code: code, plain: true}
}

func (e *LegacyCodeExample) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*e = PlainCodeExample(s)
		return nil
	}
	type alias LegacyCodeExample
	var a alias
	if err := json.Unmarshal(trimmed, &a); err != nil {
		return err
	}
	*e = LegacyCodeExample(a)
	return nil
}

func (e LegacyCodeExample) MarshalJSON() ([]byte, error) {
	if e.plain {
		return json.Marshal(e.Code)
	}
	type alias LegacyCodeExample
	return json.Marshal(alias(e))
}
