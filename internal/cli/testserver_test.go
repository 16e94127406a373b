package cli

import (
	"context"
	"testing"
	"time"

	"devframe/internal/instance"
	"devframe/internal/logging"
	"devframe/internal/web"
)

// startPreview stands in for a running preview: it holds the lock in a
// temp config dir, serves the inspector and writes the port file.
func startPreview(t *testing.T) (*web.Server, string) {
	t.Helper()
	dir := t.TempDir()

	fl, err := instance.Lock(dir)
	if err != nil {
		t.Fatalf("Lock() error = %v", err)
	}
	t.Cleanup(func() { instance.Cleanup(dir, fl) })

	lm := logging.NewTestLogManager(50)
	t.Cleanup(func() { _ = lm.Close() })

	s := web.New(web.Config{Bind: "127.0.0.1", Port: 0, SessionID: "test"}, nil, nil, lm)
	ln, err := s.Listen()
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	done := make(chan error, 1)
	go func() { done <- s.Serve(ln) }()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
		<-done
	})

	if err := instance.WritePort(dir, s.Addr()); err != nil {
		t.Fatalf("WritePort() error = %v", err)
	}
	return s, dir
}
