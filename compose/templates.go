package compose

import (
	"bytes"
	"fmt"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"apack/common"
	"apack/config"
)

// Values is a struct that holds variables we make available for template expansion
type Values struct {
	Context     string
	Language    string
	DisplayName string
	Ext         string
	Names       []string
	Count       int
}

func newValues(name config.TemplateFieldName, lang common.Language, names []string) Values {
	return Values{
		Context:     string(name),
		Language:    lang.String(),
		DisplayName: lang.DisplayName(),
		Ext:         lang.Ext(),
		Names:       names,
		Count:       len(names),
	}
}

func expandTemplate(name config.TemplateFieldName, field string, lang common.Language, names []string) (string, error) {
	tmpl, err := template.New(string(name)).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, newValues(name, lang, names)); err != nil {
		return "", err
	}
	return buf.String(), nil
}
