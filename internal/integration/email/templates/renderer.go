// Package templates renders celebration e-mails.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

//go:embed *.html *.txt
var templateFS embed.FS

// Template names.
const (
	GoalAchieved     = "goal_achieved"
	HydrationReached = "hydration_reached"
	WorkoutCompleted = "workout_completed"
)

// subjects are text templates over the same data as the bodies.
var subjects = map[string]string{
	GoalAchieved:     "You reached your goal: {{.GoalTitle}}",
	HydrationReached: "Daily hydration goal reached ({{.AmountMl}} ml)",
	WorkoutCompleted: "Workout completed{{if .WorkoutName}}: {{.WorkoutName}}{{end}}",
}

// Message is a rendered celebration e-mail.
type Message struct {
	Subject string
	HTML    string
	Text    string
}

// Renderer renders celebration e-mails from the embedded templates.
type Renderer struct {
	html     *htmltemplate.Template
	text     *texttemplate.Template
	subjects *texttemplate.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	html, err := htmltemplate.ParseFS(templateFS, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML templates: %w", err)
	}

	text, err := texttemplate.ParseFS(templateFS, "*.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to parse text templates: %w", err)
	}

	subjectTmpl := texttemplate.New("subjects")
	for name, subject := range subjects {
		if _, err := subjectTmpl.New(name).Parse(subject); err != nil {
			return nil, fmt.Errorf("failed to parse subject %s: %w", name, err)
		}
	}

	return &Renderer{html: html, text: text, subjects: subjectTmpl}, nil
}

// Render renders the subject, HTML and text of one celebration. A missing
// text template yields an HTML-only message.
func (r *Renderer) Render(name string, data any) (Message, error) {
	var subject, html, text bytes.Buffer

	if err := r.subjects.ExecuteTemplate(&subject, name, data); err != nil {
		return Message{}, fmt.Errorf("failed to render subject %s: %w", name, err)
	}
	if err := r.html.ExecuteTemplate(&html, name+".html", data); err != nil {
		return Message{}, fmt.Errorf("failed to render HTML template %s: %w", name, err)
	}
	if r.text.Lookup(name+".txt") != nil {
		if err := r.text.ExecuteTemplate(&text, name+".txt", data); err != nil {
			return Message{}, fmt.Errorf("failed to render text template %s: %w", name, err)
		}
	}

	return Message{Subject: subject.String(), HTML: html.String(), Text: text.String()}, nil
}

// GoalAchievedData contains data for the goal achieved email template.
type GoalAchievedData struct {
	UserName     string
	GoalTitle    string
	CurrentValue string
	TargetValue  string
	Unit         string
	GoalsURL     string
}

// HydrationReachedData contains data for the hydration reached email template.
type HydrationReachedData struct {
	UserName string
	Date     string
	AmountMl int
	GoalMl   int
}

// WorkoutCompletedData contains data for the workout completed email template.
type WorkoutCompletedData struct {
	UserName    string
	WorkoutName string
	SessionURL  string
}
