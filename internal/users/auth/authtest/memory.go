// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package authtest provides in-memory user and code stores plus a recording
// outbox for tests.
package authtest

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/reviewboard/internal/platform/apperr"
	"github.com/taibuivan/reviewboard/internal/platform/mailer"
	"github.com/taibuivan/reviewboard/internal/users/auth"
)

// # Users

// Users is a goroutine-safe [auth.UserRepository] enforcing unique usernames and emails.
type Users struct {
	mu    sync.Mutex
	users []*auth.User
}

func NewUsers(seed ...auth.User) *Users {
	users := &Users{}
	for _, user := range seed {
		copied := user
		_ = users.Create(context.Background(), &copied)
	}
	return users
}

func (store *Users) List(_ context.Context, filter auth.UserFilter, limit, offset int) ([]*auth.User, int, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	matched := []*auth.User{}
	for _, user := range store.users {
		if filter.Search == "" || strings.Contains(strings.ToLower(user.Username), strings.ToLower(filter.Search)) {
			copied := *user
			matched = append(matched, &copied)
		}
	}
	slices.SortFunc(matched, func(a, b *auth.User) int { return strings.Compare(a.Username, b.Username) })

	total := len(matched)
	if offset >= total {
		return []*auth.User{}, total, nil
	}
	return matched[offset:min(offset+limit, total)], total, nil
}

func (store *Users) FindByID(_ context.Context, id string) (*auth.User, error) {
	return store.find(func(user *auth.User) bool { return user.ID == id })
}

func (store *Users) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	return store.find(func(user *auth.User) bool { return user.Email == email })
}

func (store *Users) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	return store.find(func(user *auth.User) bool { return user.Username == username })
}

func (store *Users) UsernameExists(_ context.Context, username string) (bool, error) {
	_, err := store.find(func(user *auth.User) bool { return user.Username == username })
	return err == nil, nil
}

func (store *Users) Create(_ context.Context, user *auth.User) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if err := store.checkUnique(user); err != nil {
		return err
	}

	if user.DateJoined.IsZero() {
		user.DateJoined = time.Now()
	}
	copied := *user
	store.users = append(store.users, &copied)
	return nil
}

func (store *Users) Update(_ context.Context, user *auth.User) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if err := store.checkUnique(user); err != nil {
		return err
	}

	for index, existing := range store.users {
		if existing.ID == user.ID {
			copied := *user
			store.users[index] = &copied
			return nil
		}
	}
	return apperr.NotFound("user")
}

func (store *Users) Delete(_ context.Context, id string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	for index, existing := range store.users {
		if existing.ID == id {
			store.users = slices.Delete(store.users, index, index+1)
			return nil
		}
	}
	return apperr.NotFound("user")
}

func (store *Users) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	for _, existing := range store.users {
		if existing.ID == id {
			stamped := at
			existing.LastLogin = &stamped
			return nil
		}
	}
	return apperr.NotFound("user")
}

// Len reports how many accounts are stored.
func (store *Users) Len() int {
	store.mu.Lock()
	defer store.mu.Unlock()
	return len(store.users)
}

func (store *Users) find(match func(*auth.User) bool) (*auth.User, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	for _, user := range store.users {
		if match(user) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("user")
}

func (store *Users) checkUnique(candidate *auth.User) error {
	for _, user := range store.users {
		if user.ID == candidate.ID {
			continue
		}
		if user.Username == candidate.Username {
			return apperr.FieldInvalid(auth.FieldUsername, "A user with that username already exists.")
		}
		if user.Email == candidate.Email {
			appErr := apperr.FieldInvalid(auth.FieldEmail, "user with this email already exists.")
			appErr.Cause = auth.ErrDuplicateEmail
			return appErr
		}
	}
	return nil
}

// # Codes

// Codes is an [auth.CodeRepository] with the same consume semantics as the Redis script.
type Codes struct {
	mu    sync.Mutex
	codes map[string]auth.ConfirmationCode
}

func NewCodes() *Codes {
	return &Codes{codes: map[string]auth.ConfirmationCode{}}
}

func (store *Codes) Issue(_ context.Context, userID string, code auth.ConfirmationCode) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.codes[userID] = code
	return nil
}

func (store *Codes) Consume(_ context.Context, userID, hash string, now time.Time) (bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	code, ok := store.codes[userID]
	if !ok || code.Hash != hash {
		return false, nil
	}
	delete(store.codes, userID)
	return now.Before(code.ExpiresAt), nil
}

// # Outbox

// Outbox records enqueued mail. Setting Err makes Enqueue fail.
type Outbox struct {
	mu       sync.Mutex
	messages []mailer.Message
	Err      error
}

func (outbox *Outbox) Enqueue(message mailer.Message) error {
	outbox.mu.Lock()
	defer outbox.mu.Unlock()

	if outbox.Err != nil {
		return outbox.Err
	}
	outbox.messages = append(outbox.messages, message)
	return nil
}

// Messages returns a snapshot of the recorded mail.
func (outbox *Outbox) Messages() []mailer.Message {
	outbox.mu.Lock()
	defer outbox.mu.Unlock()
	return slices.Clone(outbox.messages)
}

// LastCode extracts the code from the most recent confirmation mail.
func (outbox *Outbox) LastCode() string {
	messages := outbox.Messages()
	if len(messages) == 0 {
		return ""
	}
	body := messages[len(messages)-1].Body
	return body[strings.LastIndex(body, " ")+1:]
}
