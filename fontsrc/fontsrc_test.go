package fontsrc

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

func TestBuiltin(t *testing.T) {
	data, err := Builtin("goregular")
	if err != nil {
		t.Fatalf("Builtin(goregular) = %v", err)
	}
	if !bytes.Equal(data, goregular.TTF) {
		t.Error("Builtin(goregular) returned different bytes")
	}

	if _, err := Builtin("comic-sans"); !errors.Is(err, ErrUnknownBuiltin) {
		t.Errorf("Builtin(comic-sans) = %v, want ErrUnknownBuiltin", err)
	}
}

func TestBuiltinNames(t *testing.T) {
	names := BuiltinNames()
	if len(names) != 12 {
		t.Errorf("len(BuiltinNames()) = %d, want 12", len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("BuiltinNames() not sorted at %d: %q >= %q", i, names[i-1], names[i])
		}
	}
	for _, name := range names {
		if _, err := Builtin(name); err != nil {
			t.Errorf("Builtin(%q) = %v", name, err)
		}
	}
}

func TestOpenDispatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/mono.ttf" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(gomono.TTF)
	}))
	defer srv.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "regular.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		ref  string
		want []byte
	}{
		{"builtin", "builtin:goregular", goregular.TTF},
		{"http", srv.URL + "/mono.ttf", gomono.TTF},
		{"file", path, goregular.TTF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Open(context.Background(), tt.ref)
			if err != nil {
				t.Fatalf("Open(%q) = %v", tt.ref, err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Open(%q) returned %d bytes, want %d", tt.ref, len(got), len(tt.want))
			}
		})
	}
}

func TestFetchStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := Fetch(context.Background(), srv.Client(), srv.URL+"/missing.ttf")
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("Fetch() = %v, want *StatusError", err)
	}
	if se.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", se.StatusCode)
	}
}

func TestFetchCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(goregular.TTF)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Fetch(ctx, nil, srv.URL); !errors.Is(err, context.Canceled) {
		t.Errorf("Fetch() with canceled context = %v, want context.Canceled", err)
	}
}

func TestFileMissing(t *testing.T) {
	_, err := File(filepath.Join(t.TempDir(), "none.ttf"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("File() = %v, want os.ErrNotExist", err)
	}
}
