// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mailer

import (
	"bufio"
	"context"
	"encoding/base64"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// transcript is what the fake relay recorded for one session.
type transcript struct {
	auth string
	from string
	to   string
	data string
}

// listen opens a loopback listener closed at cleanup and returns its host and port.
func listen(t *testing.T) (net.Listener, string, int) {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { listener.Close() })

	host, rawPort, err := net.SplitHostPort(listener.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(rawPort)
	require.NoError(t, err)

	return listener, host, port
}

// serveRelay answers a single SMTP session advertising PLAIN auth.
func serveRelay(listener net.Listener) <-chan transcript {
	done := make(chan transcript, 1)

	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		var record transcript
		reader := bufio.NewReader(conn)
		reply := func(line string) { conn.Write([]byte(line + "\r\n")) }

		reply("220 relay ready")
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				return
			}
			line = strings.TrimRight(line, "\r\n")
			verb := strings.ToUpper(strings.SplitN(line, " ", 2)[0])

			switch verb {
			case "EHLO":
				reply("250-relay")
				reply("250 AUTH PLAIN")
			case "AUTH":
				fields := strings.Fields(line)
				decoded, _ := base64.StdEncoding.DecodeString(fields[len(fields)-1])
				record.auth = string(decoded)
				reply("235 accepted")
			case "MAIL":
				record.from = line
				reply("250 ok")
			case "RCPT":
				record.to = line
				reply("250 ok")
			case "DATA":
				reply("354 go ahead")
				var body strings.Builder
				for {
					dataLine, err := reader.ReadString('\n')
					if err != nil {
						return
					}
					if dataLine == ".\r\n" {
						break
					}
					body.WriteString(dataLine)
				}
				record.data = body.String()
				reply("250 queued")
			case "QUIT":
				reply("221 bye")
				done <- record
				return
			default:
				reply("502 unsupported")
			}
		}
	}()

	return done
}

/*
TestSMTPMailer_Send verifies the full relay transaction: auth, envelope and
message rendering.
*/
func TestSMTPMailer_Send(t *testing.T) {
	listener, host, port := listen(t)
	sessions := serveRelay(listener)

	mailer := NewSMTPMailer(SMTPConfig{Host: host, Port: port, Username: "bot", Password: "pw", From: "noreply@example.com"})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := mailer.Send(ctx, Message{To: "alice@example.com", Subject: "Code", Body: "line1\nline2"})
	require.NoError(t, err)

	var record transcript
	select {
	case record = <-sessions:
	case <-time.After(5 * time.Second):
		t.Fatal("relay never saw QUIT")
	}

	assert.Equal(t, "\x00bot\x00pw", record.auth)
	assert.Equal(t, "MAIL FROM:<noreply@example.com>", record.from)
	assert.Equal(t, "RCPT TO:<alice@example.com>", record.to)
	assert.Contains(t, record.data, "Subject: Code\r\n")
	assert.Contains(t, record.data, "\r\n\r\nline1\r\nline2")
}

/*
TestSMTPMailer_SilentRelay ensures a relay that accepts the connection but
never greets cannot hold a worker past the context deadline.
*/
func TestSMTPMailer_SilentRelay(t *testing.T) {
	listener, host, port := listen(t)

	var mu sync.Mutex
	var held []net.Conn
	t.Cleanup(func() {
		mu.Lock()
		defer mu.Unlock()
		for _, conn := range held {
			conn.Close()
		}
	})

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			held = append(held, conn)
			mu.Unlock()
		}
	}()

	mailer := NewSMTPMailer(SMTPConfig{Host: host, Port: port, From: "noreply@example.com"})

	tests := []struct {
		name    string
		context func() (context.Context, context.CancelFunc)
	}{
		{"deadline", func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), 200*time.Millisecond)
		}},
		{"cancel", func() (context.Context, context.CancelFunc) {
			ctx, cancel := context.WithCancel(context.Background())
			time.AfterFunc(200*time.Millisecond, cancel)
			return ctx, cancel
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.context()
			defer cancel()

			started := time.Now()
			err := mailer.Send(ctx, Message{To: "alice@example.com", Subject: "Code", Body: "1234"})

			require.Error(t, err)
			assert.ErrorIs(t, err, ctx.Err())
			assert.Less(t, time.Since(started), 2*time.Second)
		})
	}
}

/*
TestSMTPMailer_Failure verifies dial errors are wrapped and cancelled contexts short-circuit.
*/
func TestSMTPMailer_Failure(t *testing.T) {
	listener, host, port := listen(t)
	listener.Close()

	mailer := NewSMTPMailer(SMTPConfig{Host: host, Port: port, From: "noreply@example.com"})

	err := mailer.Send(context.Background(), Message{To: "a@example.com"})
	require.Error(t, err)
	assert.ErrorContains(t, err, "mailer: dial")

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, mailer.Send(cancelled, Message{To: "a@example.com"}), context.Canceled)
}
