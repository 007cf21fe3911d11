package view

import (
	"bytes"
	"html/template"

	"github.com/pkg/errors"
)

var cardTemplate = template.Must(template.New("card").Parse(`<div class="person-info">
    <h3>Person Found</h3>
    <div class="info-row">
        <span class="info-label">First Name:</span>
        <span class="info-value" data-field="first_name">{{.FirstName}}</span>
    </div>
    <div class="info-row">
        <span class="info-label">Last Name:</span>
        <span class="info-value" data-field="last_name">{{.LastName}}</span>
    </div>
    <div class="info-row">
        <span class="info-label">Title:</span>
        <span class="info-value" data-field="current_title">{{.Title}}</span>
    </div>
    <div class="info-row">
        <span class="info-label">Confidence:</span>
        <span class="info-value" data-field="confidence">{{.ConfidenceLabel}}</span>
    </div>
    <div class="confidence-bar">
        <div class="confidence-fill" style="{{.BarStyle}}"></div>
    </div>
    <div class="info-row">
        <span class="info-label">Source URL:</span>
        <span class="info-value" data-field="source_url">
            <a href="{{.SourceURL}}" target="_blank" rel="noopener">{{.SourceURL}}</a>
        </span>
    </div>
    <div class="info-row">
        <span class="info-label">Sources Used:</span>
        <span class="info-value" data-field="sources_used">{{.SourcesLabel}}</span>
    </div>
</div>
`))

var errorTemplate = template.Must(template.New("error").Parse(`<div class="error-card">{{.}}</div>
`))

// BarStyle is the inline style of the filled part of the confidence bar.
func (r Result) BarStyle() template.CSS {
	return template.CSS("width: " + r.BarWidth())
}

func (r Result) HTML() (string, error) {
	var buf bytes.Buffer
	if err := cardTemplate.Execute(&buf, r); err != nil {
		return "", errors.Wrap(err, "could not render result card")
	}
	return buf.String(), nil
}

// ErrorHTML renders message inside the error card.
func ErrorHTML(message string) (string, error) {
	var buf bytes.Buffer
	if err := errorTemplate.Execute(&buf, message); err != nil {
		return "", errors.Wrap(err, "could not render error card")
	}
	return buf.String(), nil
}
