package notify

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/recordsunit/records-backend/internal/domain"
)

// templateData is what every email template renders against. Fields not
// meaningful for a kind stay empty.
type templateData struct {
	Username    string
	RecordTitle string
	Reason      string
	DueDate     string
}

type emailTemplate struct {
	subject string
	body    *template.Template
}

const signature = `<br>
<p>Best regards,</p>
<p>Records Management Team</p>`

var emailTemplates = map[domain.NotificationKind]emailTemplate{
	domain.NotificationRequestCreated: {
		subject: "New Record Request Created",
		body: template.Must(template.New("request_created").Parse(`<h2>New Record Request</h2>
<p>Hello {{.Username}},</p>
<p>Your request for the record "{{.RecordTitle}}" has been submitted successfully.</p>
<p>You will be notified when an administrator reviews your request.</p>` + signature)),
	},
	domain.NotificationRequestApproved: {
		subject: "Record Request Approved",
		body: template.Must(template.New("request_approved").Parse(`<h2>Request Approved</h2>
<p>Hello {{.Username}},</p>
<p>Your request for the record "{{.RecordTitle}}" has been approved.</p>
<p>You can now collect the record from the Records Management Unit.</p>` + signature)),
	},
	domain.NotificationRequestRejected: {
		subject: "Record Request Rejected",
		body: template.Must(template.New("request_rejected").Parse(`<h2>Request Rejected</h2>
<p>Hello {{.Username}},</p>
<p>Your request for the record "{{.RecordTitle}}" has been rejected.</p>
{{if .Reason}}<p>Reason: {{.Reason}}</p>
{{end}}<p>If you have any questions, please contact the Records Management Unit.</p>` + signature)),
	},
	domain.NotificationRecordDue: {
		subject: "Record Return Reminder",
		body: template.Must(template.New("record_due").Parse(`<h2>Record Return Reminder</h2>
<p>Hello {{.Username}},</p>
<p>This is a reminder that the record "{{.RecordTitle}}" is due for return on {{.DueDate}}.</p>
<p>Please ensure to return it to the Records Management Unit before the due date.</p>` + signature)),
	},
	domain.NotificationRecordOverdue: {
		subject: "Record Overdue Notice",
		body: template.Must(template.New("record_overdue").Parse(`<h2>Record Overdue Notice</h2>
<p>Hello {{.Username}},</p>
<p>The record "{{.RecordTitle}}" was due for return on {{.DueDate}}.</p>
<p>Please return it to the Records Management Unit as soon as possible.</p>` + signature)),
	},
	domain.NotificationRecordReturned: {
		subject: "Record Return Confirmed",
		body: template.Must(template.New("record_returned").Parse(`<h2>Record Return Confirmed</h2>
<p>Hello {{.Username}},</p>
<p>Your return of the record "{{.RecordTitle}}" has been recorded.</p>
<p>Thank you for returning it to the Records Management Unit.</p>` + signature)),
	},
}

// renderEmail produces the subject and HTML body for the kind. ok is
// false when the kind has no email representation.
func renderEmail(kind domain.NotificationKind, data templateData) (subject, body string, ok bool, err error) {
	tmpl, found := emailTemplates[kind]
	if !found {
		return "", "", false, nil
	}
	var b strings.Builder
	if err := tmpl.body.Execute(&b, data); err != nil {
		return "", "", false, fmt.Errorf("render %s email: %w", kind, err)
	}
	return tmpl.subject, b.String(), true, nil
}

// buildMessage is the short in-app notification line for the kind.
func buildMessage(n Notice) string {
	switch n.Kind {
	case domain.NotificationRequestCreated:
		return fmt.Sprintf("New record request from %s", n.RequesterName)
	case domain.NotificationRequestApproved:
		return "Your record request has been approved"
	case domain.NotificationRequestRejected:
		return "Your record request has been rejected"
	case domain.NotificationRecordDue:
		return fmt.Sprintf("Record %q is due for return soon", n.RecordTitle)
	case domain.NotificationRecordOverdue:
		return fmt.Sprintf("Record %q is overdue", n.RecordTitle)
	case domain.NotificationRecordReturned:
		return "Record has been marked as returned"
	default:
		return string(n.Kind)
	}
}

func formatDueDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format("02 Jan 2006")
}
