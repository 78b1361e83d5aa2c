// Package mail renders and sends outbound email.
package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
)

// TemplateElement identifies a part of an email template.
type TemplateElement string

const (
	ElementSubject TemplateElement = "subject"
	ElementBody    TemplateElement = "body"
)

//go:embed templates/*.tmpl
var embedded embed.FS

// DefaultTemplates returns the templates shipped with the binary.
func DefaultTemplates() fs.FS {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// TemplateRenderer renders <name>.tmpl files that define a subject and a body.
type TemplateRenderer struct {
	fs fs.FS
}

// NewTemplateRenderer creates a renderer reading *.tmpl files from the root of fsys.
func NewTemplateRenderer(fsys fs.FS) *TemplateRenderer {
	return &TemplateRenderer{fs: fsys}
}

// Render returns the rendered subject and body of the named template.
func (r *TemplateRenderer) Render(name string, data any) (subject, body string, err error) {
	tmpl, err := r.parse(name)
	if err != nil {
		return "", "", err
	}

	subject, err = execute(tmpl, ElementSubject, data)
	if err != nil {
		return "", "", err
	}
	body, err = execute(tmpl, ElementBody, data)
	if err != nil {
		return "", "", err
	}
	return subject, body, nil
}

func (r *TemplateRenderer) parse(name string) (*template.Template, error) {
	// names become file names, so reject anything that could traverse directories
	if err := validateName(name); err != nil {
		return nil, err
	}

	tmpl, err := template.New(name).ParseFS(r.fs, name+".tmpl")
	if err != nil {
		return nil, err
	}
	for _, el := range []TemplateElement{ElementSubject, ElementBody} {
		if tmpl.Lookup(string(el)) == nil {
			return nil, fmt.Errorf("template %s: missing %s", name, el)
		}
	}
	return tmpl, nil
}

func execute(tmpl *template.Template, el TemplateElement, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, string(el), data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// validateName checks if all characters are alphanumeric, dashes or underscores.
func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("empty template name")
	}
	for _, c := range name {
		if c != '-' && c != '_' && (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return fmt.Errorf("invalid character %q in template name: %s", c, name)
		}
	}
	return nil
}
