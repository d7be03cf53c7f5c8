package utils

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Invite is the data of one team member invitation.
type Invite struct {
	Name             string
	Email            string
	OrganizationName string
	Code             string
}

type Mailer interface {
	SendInvite(invite Invite) error
}

// SMTPMailer sends mail through an SMTP relay.
type SMTPMailer struct {
	From   string
	dialer *gomail.Dialer
}

func NewSMTPMailer(host string, port int, user, password, from string) *SMTPMailer {
	return &SMTPMailer{From: from, dialer: gomail.NewDialer(host, port, user, password)}
}

func InviteMessage(from string, invite Invite) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", invite.Email)
	m.SetHeader("Subject", fmt.Sprintf("You have been invited to %s on PathFinders", invite.OrganizationName))
	m.SetBody("text/plain", fmt.Sprintf(
		"Hello %s,\n\n%s added you to their PathFinders team.\nUse this invite code to activate your account: %s\n",
		invite.Name, invite.OrganizationName, invite.Code))
	return m
}

func (s *SMTPMailer) SendInvite(invite Invite) error {
	return s.dialer.DialAndSend(InviteMessage(s.From, invite))
}

// LogMailer only logs invitations. Used when no SMTP host is configured.
type LogMailer struct{}

func (LogMailer) SendInvite(invite Invite) error {
	Log.Info("invite not mailed, smtp disabled",
		zap.String("email", invite.Email),
		zap.String("organization", invite.OrganizationName))
	return nil
}
