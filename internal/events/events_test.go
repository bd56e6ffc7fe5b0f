package events

import (
	"encoding/json"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/thinkscotty/ideagen/internal/auth"
	"github.com/thinkscotty/ideagen/internal/models"
)

type recordingPublisher struct {
	mu       sync.Mutex
	subjects []string
	payloads []any
	err      error
}

func (r *recordingPublisher) Publish(subject string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subjects = append(r.subjects, subject)
	r.payloads = append(r.payloads, payload)
	return r.err
}

func (r *recordingPublisher) Close() {}

func TestSubscribeAuthForwardsEvents(t *testing.T) {
	n := auth.NewNotifier()
	pub := &recordingPublisher{}
	cancel := SubscribeAuth(n, pub)
	defer cancel()

	u := models.User{ID: 3, Username: "ada@example.com"}
	n.Notify(auth.Event{Kind: auth.SignedIn, User: u})
	n.Notify(auth.Event{Kind: auth.SignedOut, User: u})

	if len(pub.subjects) != 2 || pub.subjects[0] != SubjectUserSignedIn || pub.subjects[1] != SubjectUserSignedOut {
		t.Errorf("subjects = %v", pub.subjects)
	}
	if p, ok := pub.payloads[0].(userEvent); !ok || p.UserID != 3 {
		t.Errorf("payload = %#v", pub.payloads[0])
	}
}

func TestEmitSwallowsErrors(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	Emit(pub, SubjectIdeasGenerated, map[string]int{"count": 1})
	if len(pub.subjects) != 1 {
		t.Errorf("publish attempts = %d, want 1", len(pub.subjects))
	}
}

func TestNoop(t *testing.T) {
	var p Publisher = Noop{}
	if err := p.Publish(SubjectFavoriteAdded, nil); err != nil {
		t.Errorf("Noop.Publish = %v", err)
	}
	p.Close()
}

func TestSubjectPrefix(t *testing.T) {
	cases := []struct {
		prefix, want string
	}{
		{"ideagen", "ideagen.ideas.generated"},
		{"ideagen.", "ideagen.ideas.generated"},
		{"", "ideas.generated"},
	}
	for _, c := range cases {
		p := newPublisher(nil, c.prefix)
		if got := p.subject(SubjectIdeasGenerated); got != c.want {
			t.Errorf("prefix %q: subject = %q, want %q", c.prefix, got, c.want)
		}
	}
}

func TestNATSPublisher(t *testing.T) {
	url := os.Getenv("IDEAGEN_TEST_NATS_URL")
	if url == "" {
		t.Skip("IDEAGEN_TEST_NATS_URL not set")
	}

	sub, err := nats.Connect(url)
	if err != nil {
		t.Fatalf("connect subscriber: %v", err)
	}
	defer sub.Close()

	msgs := make(chan *nats.Msg, 1)
	if _, err := sub.ChanSubscribe("ideagen-test.ideas.generated", msgs); err != nil {
		t.Fatal(err)
	}
	if err := sub.Flush(); err != nil {
		t.Fatal(err)
	}

	pub, err := NewNATSPublisher(url, "ideagen-test")
	if err != nil {
		t.Fatalf("NewNATSPublisher: %v", err)
	}
	defer pub.Close()

	if err := pub.Publish(SubjectIdeasGenerated, map[string]int{"count": 20}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case m := <-msgs:
		var env Message
		if err := json.Unmarshal(m.Data, &env); err != nil {
			t.Fatal(err)
		}
		if env.Subject != "ideagen-test.ideas.generated" || env.Source != "ideagen" {
			t.Errorf("envelope = %+v", env)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no message received")
	}
}
