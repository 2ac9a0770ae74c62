package mailer_test

import (
	"fmt"
	"sync"
	"testing"

	"kitab/pkg/mailer"

	"github.com/stretchr/testify/assert"
)

// recordingSender captures sent emails and can fail selected recipients.
type recordingSender struct {
	mu      sync.Mutex
	sent    []mailer.Email
	failFor map[string]bool
}

func (s *recordingSender) Send(email mailer.Email) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFor[email.To] {
		return fmt.Errorf("delivery to %s refused", email.To)
	}
	s.sent = append(s.sent, email)
	return nil
}

func TestPool_SendAll(t *testing.T) {
	sender := &recordingSender{}
	pool := mailer.NewPool(sender, 2)

	errs := pool.SendAll(
		mailer.Email{To: "admin@example.com", Subject: "a"},
		mailer.Email{To: "visitor@example.com", Subject: "b"},
	)

	assert.Len(t, errs, 2)
	assert.NoError(t, errs[0])
	assert.NoError(t, errs[1])
	assert.Len(t, sender.sent, 2)
}

func TestPool_SendAllPartialFailure(t *testing.T) {
	sender := &recordingSender{failFor: map[string]bool{"broken@example.com": true}}
	pool := mailer.NewPool(sender, 2)

	errs := pool.SendAll(
		mailer.Email{To: "broken@example.com"},
		mailer.Email{To: "ok@example.com"},
	)

	// Errors are index-aligned with the inputs.
	assert.Error(t, errs[0])
	assert.NoError(t, errs[1])
	assert.Len(t, sender.sent, 1)
}

func TestPool_NilPool(t *testing.T) {
	var pool *mailer.Pool
	errs := pool.SendAll(mailer.Email{To: "x@example.com"})
	assert.Len(t, errs, 1)
	assert.Error(t, errs[0])
}
