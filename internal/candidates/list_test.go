package candidates

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/LeoncioDev/github-analyzer/internal/model"
)

func mustAdd(t *testing.T, l List, urls ...string) List {
	t.Helper()
	for _, u := range urls {
		var err error
		l, err = l.Add(u)
		if err != nil {
			t.Fatalf("Add(%q): %v", u, err)
		}
	}
	return l
}

func TestAdd_TrimsAndAppends(t *testing.T) {
	l := mustAdd(t, New(0), "  https://github.com/a  ", "https://github.com/b")

	want := []string{"https://github.com/a", "https://github.com/b"}
	if diff := cmp.Diff(want, l.Items()); diff != "" {
		t.Errorf("Items() mismatch (-want +got):\n%s", diff)
	}
}

func TestAdd_RejectsEmpty(t *testing.T) {
	l, err := New(3).Add("   ")
	if !errors.Is(err, model.ErrEmptyCandidate) {
		t.Fatalf("err = %v, want ErrEmptyCandidate", err)
	}
	if l.Len() != 0 {
		t.Errorf("Len = %d, want 0", l.Len())
	}
}

func TestAdd_DuplicateLeavesListUnchanged(t *testing.T) {
	l := mustAdd(t, New(3), "https://github.com/a", "https://github.com/b")
	before := l.Items()

	got, err := l.Add("https://github.com/a")
	if !errors.Is(err, model.ErrDuplicateCandidate) {
		t.Fatalf("err = %v, want ErrDuplicateCandidate", err)
	}
	if diff := cmp.Diff(before, got.Items()); diff != "" {
		t.Errorf("list changed after duplicate add (-before +after):\n%s", diff)
	}
}

func TestAdd_DuplicateIsCaseSensitive(t *testing.T) {
	l := mustAdd(t, New(0), "https://github.com/Octocat")
	l, err := l.Add("https://github.com/octocat")
	if err != nil {
		t.Fatalf("differently cased URL should be accepted: %v", err)
	}
	if l.Len() != 2 {
		t.Errorf("Len = %d, want 2", l.Len())
	}
}

func TestAdd_EnforcesCapacity(t *testing.T) {
	l := mustAdd(t, New(3), "a", "b", "c")
	if !l.Full() {
		t.Error("expected Full after 3 adds")
	}

	got, err := l.Add("d")
	if !errors.Is(err, model.ErrCandidateLimit) {
		t.Fatalf("err = %v, want ErrCandidateLimit", err)
	}
	if got.Len() != 3 {
		t.Errorf("Len = %d, want 3", got.Len())
	}
}

func TestAdd_UnboundedWhenMaxZero(t *testing.T) {
	l := New(0)
	for i := 0; i < 20; i++ {
		l = mustAdd(t, l, fmt.Sprintf("https://github.com/user%d", i))
	}
	if l.Len() != 20 {
		t.Errorf("Len = %d, want 20", l.Len())
	}
	if l.Full() {
		t.Error("unbounded list should never be full")
	}
}

func TestAdd_DoesNotMutateReceiver(t *testing.T) {
	base := mustAdd(t, New(0), "a")
	_ = mustAdd(t, base, "b")
	if base.Len() != 1 {
		t.Errorf("receiver mutated: Len = %d, want 1", base.Len())
	}
}

func TestRemove_ExactMatchRemovesOne(t *testing.T) {
	urls := []string{"https://github.com/a", "https://github.com/b", "https://github.com/c", "https://github.com/d"}

	for i, target := range urls {
		t.Run(target, func(t *testing.T) {
			l := mustAdd(t, New(0), urls...)
			got := l.Remove(target)

			want := make([]string, 0, len(urls)-1)
			want = append(want, urls[:i]...)
			want = append(want, urls[i+1:]...)
			if diff := cmp.Diff(want, got.Items()); diff != "" {
				t.Errorf("Remove(%q) mismatch (-want +got):\n%s", target, diff)
			}
		})
	}
}

func TestRemove_UnknownLeavesListUnchanged(t *testing.T) {
	l := mustAdd(t, New(0), "https://github.com/a")
	got := l.Remove("https://github.com/A")
	if diff := cmp.Diff(l.Items(), got.Items()); diff != "" {
		t.Errorf("list changed (-want +got):\n%s", diff)
	}
}

func TestRemove_FreesCapacity(t *testing.T) {
	l := mustAdd(t, New(2), "a", "b")
	l = l.Remove("a")
	if _, err := l.Add("c"); err != nil {
		t.Errorf("Add after Remove: %v", err)
	}
}
