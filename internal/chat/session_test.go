package chat

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/ppiankov/studyprep/internal/model"
)

func TestNewSession_ID(t *testing.T) {
	if NewSession("fixed").ID() != "fixed" {
		t.Error("expected explicit id to be kept")
	}

	a, b := NewSession(""), NewSession("")
	if a.ID() == "" || a.ID() == b.ID() {
		t.Errorf("expected unique generated ids, got %q and %q", a.ID(), b.ID())
	}
}

func TestSession_AppendRoundTrip(t *testing.T) {
	sess := NewSession("")

	const n = 25
	for i := 0; i < n; i++ {
		sess.Append(model.ChatMessage{Role: model.RoleUser, Text: fmt.Sprintf("message %d", i)})
	}

	msgs := sess.Messages()
	if len(msgs) != n {
		t.Fatalf("expected %d messages, got %d", n, len(msgs))
	}
	for i, msg := range msgs {
		if msg.Text != fmt.Sprintf("message %d", i) {
			t.Errorf("expected message %d at index %d, got %q", i, i, msg.Text)
		}
		if msg.ID == "" || msg.CreatedAt.IsZero() {
			t.Errorf("message %d missing id or timestamp", i)
		}
	}
}

func TestSession_MessagesIsCopy(t *testing.T) {
	sess := NewSession("")
	sess.Append(model.ChatMessage{Text: "original"})

	msgs := sess.Messages()
	msgs[0].Text = "mutated"

	if sess.Messages()[0].Text != "original" {
		t.Error("log must not be mutable through Messages")
	}
}

func TestSession_Last(t *testing.T) {
	sess := NewSession("")
	if got := sess.Last(3); len(got) != 0 {
		t.Errorf("expected empty slice, got %d", len(got))
	}

	for i := 0; i < 5; i++ {
		sess.Append(model.ChatMessage{Text: fmt.Sprintf("%d", i)})
	}

	last := sess.Last(3)
	if len(last) != 3 || last[0].Text != "2" || last[2].Text != "4" {
		t.Errorf("unexpected last messages: %+v", last)
	}
	if got := sess.Last(10); len(got) != 5 {
		t.Errorf("expected all 5 messages, got %d", len(got))
	}
}

func TestSession_Clear(t *testing.T) {
	sess := NewSession("")
	sess.Append(model.ChatMessage{Text: "a"})
	sess.Append(model.ChatMessage{Text: "b"})

	if err := sess.ClearIfIdle(); err != nil {
		t.Fatalf("ClearIfIdle failed: %v", err)
	}
	if sess.Len() != 0 {
		t.Errorf("expected empty log after Clear, got %d", sess.Len())
	}

	sess.Append(model.ChatMessage{Text: "c"})
	if msgs := sess.Messages(); len(msgs) != 1 || msgs[0].Text != "c" {
		t.Errorf("expected log to accept messages after Clear, got %+v", msgs)
	}
}

func TestSession_ClearWhileBusy(t *testing.T) {
	sess := NewSession("")
	sess.Append(model.ChatMessage{Role: model.RoleUser, Text: "What is a derivative?"})

	if !sess.TryAcquire() {
		t.Fatal("expected acquire to succeed")
	}
	if err := sess.ClearIfIdle(); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}
	if sess.Len() != 1 {
		t.Errorf("in-flight question was wiped, log has %d messages", sess.Len())
	}

	sess.Release()
	if err := sess.ClearIfIdle(); err != nil || sess.Len() != 0 {
		t.Errorf("expected clear once idle, got err %v and %d messages", err, sess.Len())
	}
}

func TestSession_BusyFlag(t *testing.T) {
	sess := NewSession("")

	if sess.Busy() {
		t.Fatal("new session must be idle")
	}
	if !sess.TryAcquire() {
		t.Fatal("expected first acquire to succeed")
	}
	if sess.TryAcquire() {
		t.Fatal("expected second acquire to fail")
	}
	sess.Release()
	if sess.Busy() {
		t.Fatal("expected idle after Release")
	}
}

func TestSession_ConcurrentAcquire(t *testing.T) {
	sess := NewSession("")

	var wg sync.WaitGroup
	var mu sync.Mutex
	acquired := 0

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if sess.TryAcquire() {
				mu.Lock()
				acquired++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if acquired != 1 {
		t.Errorf("expected exactly one acquire, got %d", acquired)
	}
}

func TestSeed(t *testing.T) {
	sess := NewSession("")
	Seed(sess)

	msgs := sess.Messages()
	if len(msgs) != 3 {
		t.Fatalf("expected 3 seeded messages, got %d", len(msgs))
	}
	if msgs[0].Role != model.RoleUser {
		t.Error("expected seeded exchange to open with the student")
	}
	if !msgs[2].Verified || msgs[2].VerifierName == "" || msgs[2].Disclaimer != "" {
		t.Errorf("seeded verified message breaks the verification invariant: %+v", msgs[2])
	}
	if msgs[1].Disclaimer == "" {
		t.Error("seeded unverified reply must carry a disclaimer")
	}
}
