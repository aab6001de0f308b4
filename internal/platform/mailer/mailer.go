// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mailer delivers transactional email.

Delivery is asynchronous: request handlers hand a [Message] to a [Dispatcher],
which queues it on a bounded worker pool. A saturated queue is reported to the
caller as 503 rather than blocking the request.
*/
package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"os"
	"strconv"
	"strings"
	"time"
)

// Message is a plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer sends a single message synchronously.
type Mailer interface {
	Send(context context.Context, message Message) error
}

// # SMTP

// SMTPConfig holds the outbound relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

/*
SMTPMailer relays mail through an SMTP server. The connection upgrades to TLS
when the relay offers STARTTLS, and PLAIN auth is used when credentials are set.

Every network step is bound to the context passed to Send: its deadline
becomes the connection deadline and cancellation interrupts pending I/O.
*/
type SMTPMailer struct {
	config SMTPConfig
	dial   func(ctx context.Context, network, address string) (net.Conn, error)
}

// NewSMTPMailer creates an [SMTPMailer].
func NewSMTPMailer(config SMTPConfig) *SMTPMailer {
	dialer := &net.Dialer{}
	return &SMTPMailer{config: config, dial: dialer.DialContext}
}

// Send implements [Mailer].
func (mailer *SMTPMailer) Send(ctx context.Context, message Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := net.JoinHostPort(mailer.config.Host, strconv.Itoa(mailer.config.Port))

	conn, err := mailer.dial(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("mailer: dial %s failed: %w", addr, err)
	}

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			conn.Close()
			return fmt.Errorf("mailer: set deadline on %s failed: %w", addr, err)
		}
	}
	stop := context.AfterFunc(ctx, func() { conn.SetDeadline(time.Now()) })
	defer stop()

	if err := mailer.deliver(conn, message); err != nil {
		// Connection deadlines only ever come from ctx.
		if errors.Is(err, os.ErrDeadlineExceeded) {
			<-ctx.Done()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("mailer: smtp send to %s aborted: %w", addr, errors.Join(ctxErr, err))
		}
		return fmt.Errorf("mailer: smtp send to %s failed: %w", addr, err)
	}
	return nil
}

// deliver runs one SMTP transaction over conn and always closes it.
func (mailer *SMTPMailer) deliver(conn net.Conn, message Message) error {
	client, err := smtp.NewClient(conn, mailer.config.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: mailer.config.Host}); err != nil {
			return err
		}
	}

	if mailer.config.Username != "" {
		if ok, _ := client.Extension("AUTH"); !ok {
			return errors.New("relay does not support AUTH")
		}
		auth := smtp.PlainAuth("", mailer.config.Username, mailer.config.Password, mailer.config.Host)
		if err := client.Auth(auth); err != nil {
			return err
		}
	}

	if err := client.Mail(mailer.config.From); err != nil {
		return err
	}
	if err := client.Rcpt(message.To); err != nil {
		return err
	}

	writer, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := writer.Write(mailer.compose(message)); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	return client.Quit()
}

// compose renders RFC 5322 headers followed by the body.
func (mailer *SMTPMailer) compose(message Message) []byte {
	var builder strings.Builder
	builder.WriteString("From: " + mailer.config.From + "\r\n")
	builder.WriteString("To: " + message.To + "\r\n")
	builder.WriteString("Subject: " + message.Subject + "\r\n")
	builder.WriteString("MIME-Version: 1.0\r\n")
	builder.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	builder.WriteString("\r\n")
	builder.WriteString(strings.ReplaceAll(message.Body, "\n", "\r\n"))
	return []byte(builder.String())
}

// # Logging

// LogMailer writes messages to the logger instead of sending them. Used in
// development when no SMTP host is configured.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a [LogMailer].
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send implements [Mailer].
func (mailer *LogMailer) Send(context context.Context, message Message) error {
	mailer.logger.InfoContext(context, "mail_logged",
		slog.String("to", message.To),
		slog.String("subject", message.Subject),
		slog.String("body", message.Body),
	)
	return nil
}
