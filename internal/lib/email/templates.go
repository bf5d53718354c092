package email

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/pkg/errors"
)

// Template names an HTML file under templates/.
type Template string

const (
	TemplateDefectUpdated Template = "defect_updated"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Render executes the named template with data.
func Render(name Template, data any) (string, error) {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, string(name)+".html", data); err != nil {
		return "", errors.Wrapf(err, "failed to execute email template %s", name)
	}
	return body.String(), nil
}

// PreviewData holds sample data for each template, used to render previews.
var PreviewData = map[Template]any{
	TemplateDefectUpdated: DefectUpdatedData{
		RecipientName: "Ada",
		DefectID:      42,
		DefectName:    "Login button unresponsive on Safari",
		ProjectName:   "Web Portal",
		DefectStatus:  "Fixed",
		DefectLevel:   "High",
		Comment:       "Verified on build 2.3.1",
	},
}
