package mailer

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"

	"github.com/shiftboard/shift-scheduler/backend/internal/domain"
	"github.com/wneessen/go-mail"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

var ErrUnknownType = errors.New("unknown mail type")

type mailKind struct {
	template string
	subject  string
	data     func() any
}

var kinds = map[string]mailKind{
	domain.MailTypeNewEmployee: {
		template: "new_employee.html",
		subject:  "Shift Scheduler - Your account",
		data:     func() any { return &domain.NewEmployeeMailData{} },
	},
	domain.MailTypeResetPassword: {
		template: "reset_password.html",
		subject:  "Shift Scheduler - Password reset code",
		data:     func() any { return &domain.ResetPasswordMailData{} },
	},
	domain.MailTypeTimeOffStatus: {
		template: "time_off_status.html",
		subject:  "Shift Scheduler - Time-off request update",
		data:     func() any { return &domain.TimeOffStatusMailData{} },
	},
}

// queuedMessage is domain.MailMessage as it arrives off the queue, data still encoded.
type queuedMessage struct {
	Type string          `json:"type"`
	To   string          `json:"to"`
	Data json.RawMessage `json:"data"`
}

// Compose decodes a queued message body and renders it into an email.
func Compose(from string, body []byte) (*mail.Msg, error) {
	var queued queuedMessage
	if err := json.Unmarshal(body, &queued); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}

	kind, ok := kinds[queued.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, queued.Type)
	}

	data := kind.data()
	if len(queued.Data) > 0 {
		if err := json.Unmarshal(queued.Data, data); err != nil {
			return nil, fmt.Errorf("decode %s data: %w", queued.Type, err)
		}
	}

	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, err
	}
	if err := msg.To(queued.To); err != nil {
		return nil, err
	}
	msg.Subject(kind.subject)
	if err := msg.SetBodyHTMLTemplate(templates.Lookup(kind.template), data); err != nil {
		return nil, err
	}

	return msg, nil
}
