package notification

import (
	"bytes"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"unicode"
	"unicode/utf8"
)

var inviteHTML = htmltemplate.Must(htmltemplate.New("invite.html").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #2563eb;">You're invited to join {{.FamilyName}}!</h2>
  <p>Hello!</p>
  <p><strong>{{.InviterName}}</strong> has invited you to join the <strong>{{.FamilyName}}</strong> family on Family Planner.</p>
  <div style="background-color: #f8fafc; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="margin-top: 0; color: #1e293b;">Invitation Details:</h3>
    <ul style="margin: 10px 0;">
      <li><strong>Family:</strong> {{.FamilyName}}</li>
      <li><strong>Role:</strong> {{.Role}}</li>
      <li><strong>Expires:</strong> {{.ExpiresAt}}</li>
    </ul>
  </div>
  <div style="text-align: center; margin: 30px 0;">
    <a href="{{.JoinLink}}" style="background-color: #2563eb; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; font-weight: bold; display: inline-block;">Accept Invitation</a>
  </div>
  <p style="color: #64748b; font-size: 14px;">
    If the button doesn't work, copy and paste this link into your browser:<br>
    <a href="{{.JoinLink}}" style="color: #2563eb;">{{.JoinLink}}</a>
  </p>
  <hr style="border: none; border-top: 1px solid #e2e8f0; margin: 30px 0;">
  <p style="color: #64748b; font-size: 12px;">
    This invitation was sent by {{.InviterName}}. If you didn't expect this invitation, you can safely ignore this email.
  </p>
</div>
`))

var inviteText = texttemplate.Must(texttemplate.New("invite.txt").Parse(`You're invited to join {{.FamilyName}}!

{{.InviterName}} has invited you to join the {{.FamilyName}} family on Family Planner.

Invitation Details:
- Family: {{.FamilyName}}
- Role: {{.Role}}
- Expires: {{.ExpiresAt}}

Accept your invitation: {{.JoinLink}}

This invitation was sent by {{.InviterName}}. If you didn't expect this invitation, you can safely ignore this email.
`))

// BuildInviteEmail renders the subject and both bodies of an invite email.
func BuildInviteEmail(data InviteEmail) (Message, error) {
	view := data
	view.Role = capitalize(data.Role)

	var html, text bytes.Buffer
	if err := inviteHTML.Execute(&html, view); err != nil {
		return Message{}, err
	}
	if err := inviteText.Execute(&text, view); err != nil {
		return Message{}, err
	}

	return Message{
		To:      data.To,
		Subject: "You're invited to join " + data.FamilyName + " family!",
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}

func capitalize(s string) string {
	s = strings.TrimSpace(s)
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
