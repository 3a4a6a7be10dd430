package notify

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/tics/site-backend-go/internal/model"
)

var templates = template.Must(template.New("notify").Parse(`
{{define "contact"}}
<h2>New Contact Message</h2>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
{{with .Phone}}<p><strong>Phone:</strong> {{.}}</p>{{end}}
<p><strong>Message:</strong></p>
<p>{{.Message}}</p>
{{end}}

{{define "application"}}
<h2>New Job Application</h2>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Phone:</strong> {{.Phone}}</p>
<p><strong>Position:</strong> {{.Position}}</p>
<p><strong>Resume:</strong> {{.ResumeURL}}</p>
{{end}}

{{define "proposal"}}
<h2>New Proposal Request</h2>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
{{with .Phone}}<p><strong>Phone:</strong> {{.}}</p>{{end}}
{{with .Company}}<p><strong>Company:</strong> {{.}}</p>{{end}}
<p><strong>Service:</strong> {{.Service}}</p>
<p><strong>Message:</strong></p>
<p>{{.Message}}</p>
{{end}}
`))

type contactView struct {
	Name, Email, Phone, Message string
}

type proposalView struct {
	Name, Email, Phone, Company, Service, Message string
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s email: %w", name, err)
	}
	return buf.String(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ContactEmail(to string, c *model.ContactMessage) (Message, error) {
	html, err := render(string(model.NotificationContact), contactView{
		Name:    c.Name,
		Email:   c.Email,
		Phone:   deref(c.Phone),
		Message: c.Message,
	})
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: "New Contact Message from " + c.Name, HTML: html}, nil
}

func ApplicationEmail(to string, a *model.JobApplication) (Message, error) {
	html, err := render(string(model.NotificationApplication), a)
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: "New Job Application: " + a.Position, HTML: html}, nil
}

func ProposalEmail(to string, p *model.ProposalRequest) (Message, error) {
	html, err := render(string(model.NotificationProposal), proposalView{
		Name:    p.Name,
		Email:   p.Email,
		Phone:   deref(p.Phone),
		Company: deref(p.Company),
		Service: p.Service,
		Message: p.Message,
	})
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: "New Proposal Request: " + p.Service, HTML: html}, nil
}
