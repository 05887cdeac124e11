package docstore

import (
	"os"
	"testing"
	"time"
)

func TestStore_PutGet(t *testing.T) {
	s, err := New(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	token, name, err := s.Put("result", []byte("docx bytes"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if name != "result.docx" {
		t.Errorf("expected .docx extension ensured, got %q", name)
	}

	entry, ok := s.Get(token)
	if !ok {
		t.Fatal("expected entry")
	}
	if entry.Filename != "result.docx" {
		t.Errorf("unexpected filename %q", entry.Filename)
	}
	data, err := os.ReadFile(entry.Path)
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "docx bytes" {
		t.Errorf("unexpected content %q", data)
	}
}

func TestStore_UnknownToken(t *testing.T) {
	s, err := New(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if _, ok := s.Get("NOSUCHTOKEN"); ok {
		t.Error("expected miss for unknown token")
	}
}

func TestStore_VanishedFileDropsEntry(t *testing.T) {
	s, err := New(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	token, _, err := s.Put("gone.docx", []byte("x"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	entry, _ := s.Get(token)
	os.Remove(entry.Path)

	if _, ok := s.Get(token); ok {
		t.Error("expected miss after file removal")
	}
	if s.Len() != 0 {
		t.Errorf("expected entry dropped, len=%d", s.Len())
	}
}

func TestStore_CleanupEvictsExpired(t *testing.T) {
	s, err := New(t.TempDir(), time.Millisecond)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	token, _, err := s.Put("old.docx", []byte("x"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	entry, _ := s.Get(token)

	time.Sleep(5 * time.Millisecond)
	s.Cleanup()

	if _, ok := s.Get(token); ok {
		t.Error("expected expired entry evicted")
	}
	if _, err := os.Stat(entry.Path); !os.IsNotExist(err) {
		t.Errorf("expected file removed, stat err: %v", err)
	}
}

func TestNewToken_UniqueAndWellFormed(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		tok := NewToken()
		if len(tok) != 26 {
			t.Fatalf("expected 26 chars, got %d (%q)", len(tok), tok)
		}
		for _, c := range tok {
			if !((c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z')) {
				t.Fatalf("unexpected character %q in token %q", c, tok)
			}
		}
		if seen[tok] {
			t.Fatalf("duplicate token %q", tok)
		}
		seen[tok] = true
	}
}
