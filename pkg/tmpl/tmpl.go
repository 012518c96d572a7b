// Package tmpl provides template rendering for user-defined URL templates.
package tmpl

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/hay-kot/dealscout/pkg/urlenc"
)

var funcs = template.FuncMap{
	"uri":   urlenc.Component,
	"lower": strings.ToLower,
}

// Template is a parsed template that can be executed many times.
type Template struct {
	t *template.Template
}

// Parse compiles text once. Missing keys are reported as errors when the
// template is executed.
//
// Available template functions:
//   - uri: escape a value as a URL component (encodeURIComponent rules)
//   - lower: lower-case a string
func Parse(name, text string) (*Template, error) {
	t, err := template.New(name).Funcs(funcs).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	return &Template{t: t}, nil
}

// Execute renders the template with data.
func (t *Template) Execute(data any) (string, error) {
	var buf bytes.Buffer
	if err := t.t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}
	return buf.String(), nil
}

// Render parses and executes a template string in one step.
func Render(text string, data any) (string, error) {
	t, err := Parse("", text)
	if err != nil {
		return "", err
	}
	return t.Execute(data)
}
