package render

import (
	_ "embed"
	"html/template"
	"strings"

	"github.com/AKupriichuk/CV-on-the-Go/internal/resume"
)

//go:embed cv_basic.html
var cvBasicHTML string

var cvBasic = template.Must(template.New("cv_basic").Parse(cvBasicHTML))

// HTML renders the résumé template with the given data. The stylesheet is
// inlined in the template, so the result is self-contained for the PDF
// engine.
func HTML(data *resume.Data) (string, error) {
	var b strings.Builder
	if err := cvBasic.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
