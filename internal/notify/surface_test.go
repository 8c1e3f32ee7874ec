package notify

import (
	"math/rand"
	"testing"
	"time"
)

func newTestSurface() *Surface {
	return NewSurface(Config{Cap: 5, ErrorWindow: time.Minute}, nil)
}

func TestSurface_Enqueue(t *testing.T) {
	s := newTestSurface()

	id1 := s.Enqueue(Notification{Kind: KindSuccess, Title: "first"})
	id2 := s.Enqueue(Notification{Kind: KindInfo, Title: "second"})

	if id2 <= id1 {
		t.Errorf("ids not monotonic: %d then %d", id1, id2)
	}

	items := s.List()
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	if items[0].Title != "second" {
		t.Errorf("head = %q, want most recent first", items[0].Title)
	}
	if s.UnreadCount() != 2 {
		t.Errorf("unread = %d, want 2", s.UnreadCount())
	}
}

func TestSurface_Enqueue_PreRead(t *testing.T) {
	s := newTestSurface()
	s.Enqueue(Notification{Kind: KindInfo, Read: true})

	if s.UnreadCount() != 0 {
		t.Errorf("unread = %d, want 0 for pre-read entry", s.UnreadCount())
	}
}

func TestSurface_MarkRead(t *testing.T) {
	s := newTestSurface()
	id := s.Enqueue(Notification{Kind: KindSuccess})

	s.MarkRead(id)
	if s.UnreadCount() != 0 {
		t.Errorf("unread = %d, want 0", s.UnreadCount())
	}

	// Marking twice must not go negative.
	s.MarkRead(id)
	if s.UnreadCount() != 0 {
		t.Errorf("unread after double mark = %d, want 0", s.UnreadCount())
	}

	// Unknown id is a no-op.
	s.MarkRead(9999)
	if s.UnreadCount() != 0 {
		t.Errorf("unread after unknown id = %d, want 0", s.UnreadCount())
	}
}

func TestSurface_MarkAllRead(t *testing.T) {
	s := newTestSurface()
	for i := 0; i < 4; i++ {
		s.Enqueue(Notification{Kind: KindInfo})
	}

	s.MarkAllRead()
	if s.UnreadCount() != 0 {
		t.Errorf("unread = %d, want 0", s.UnreadCount())
	}
	for _, n := range s.List() {
		if !n.Read {
			t.Errorf("notification %d still unread", n.ID)
		}
	}
}

func TestSurface_Dismiss(t *testing.T) {
	s := newTestSurface()
	id1 := s.Enqueue(Notification{Kind: KindInfo})
	id2 := s.Enqueue(Notification{Kind: KindInfo})
	s.MarkRead(id2)

	s.Dismiss(id2) // read entry: count unchanged
	if s.UnreadCount() != 1 {
		t.Errorf("unread = %d, want 1", s.UnreadCount())
	}

	s.Dismiss(id1) // unread entry: count decremented
	if s.UnreadCount() != 0 {
		t.Errorf("unread = %d, want 0", s.UnreadCount())
	}
	if len(s.List()) != 0 {
		t.Errorf("len = %d, want 0", len(s.List()))
	}
}

func TestSurface_Eviction(t *testing.T) {
	s := newTestSurface() // cap 5

	for i := 0; i < 8; i++ {
		s.Enqueue(Notification{Kind: KindInfo})
	}

	items := s.List()
	if len(items) != 5 {
		t.Fatalf("len = %d, want cap 5", len(items))
	}
	// Newest retained, oldest evicted.
	if items[0].ID != 8 || items[4].ID != 4 {
		t.Errorf("retained ids %d..%d, want 8..4", items[0].ID, items[4].ID)
	}
	// Evicted unread entries leave the counter.
	if s.UnreadCount() != 5 {
		t.Errorf("unread = %d, want 5", s.UnreadCount())
	}
}

// unreadCount always equals the number of unread entries for any op sequence.
func TestSurface_UnreadInvariant(t *testing.T) {
	s := NewSurface(Config{Cap: 10, ErrorWindow: time.Minute}, nil)
	rng := rand.New(rand.NewSource(42))

	var ids []int64
	for i := 0; i < 500; i++ {
		switch rng.Intn(4) {
		case 0, 1:
			ids = append(ids, s.Enqueue(Notification{Kind: KindInfo}))
		case 2:
			if len(ids) > 0 {
				s.MarkRead(ids[rng.Intn(len(ids))])
			}
		case 3:
			if len(ids) > 0 {
				s.Dismiss(ids[rng.Intn(len(ids))])
			}
		}

		got := s.UnreadCount()
		if got < 0 {
			t.Fatalf("unread went negative: %d", got)
		}
		want := 0
		for _, n := range s.List() {
			if !n.Read {
				want++
			}
		}
		if got != want {
			t.Fatalf("unread = %d, but %d unread entries in list", got, want)
		}
	}
}

func TestSurface_EnqueueError_Throttled(t *testing.T) {
	s := newTestSurface()

	if _, ok := s.EnqueueError("Connection lost", "retrying"); !ok {
		t.Fatal("first error should be enqueued")
	}
	if _, ok := s.EnqueueError("Connection lost", "retrying"); ok {
		t.Fatal("second error within window should be suppressed")
	}

	if len(s.List()) != 1 {
		t.Errorf("len = %d, want exactly 1 error notification", len(s.List()))
	}
	if s.List()[0].Kind != KindError {
		t.Errorf("kind = %q, want error", s.List()[0].Kind)
	}
}

func TestSurface_EnqueueError_WindowExpires(t *testing.T) {
	s := NewSurface(Config{Cap: 5, ErrorWindow: time.Millisecond}, nil)

	s.EnqueueError("Connection lost", "x")
	time.Sleep(2 * time.Millisecond)
	if _, ok := s.EnqueueError("Connection lost", "x"); !ok {
		t.Error("error after window should be enqueued")
	}
}

func TestSurface_Subscribe(t *testing.T) {
	s := newTestSurface()
	ch := s.Subscribe()

	s.Enqueue(Notification{Kind: KindInfo})

	select {
	case <-ch:
	default:
		t.Error("expected change signal after enqueue")
	}
}
