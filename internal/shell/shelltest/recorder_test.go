package shelltest

import (
	"context"
	"errors"
	"testing"

	"github.com/kingrea/iconforge/internal/shell"
)

func TestRecorder(t *testing.T) {
	rec := &Recorder{
		Replies:  map[string]string{"git rev-parse HEAD": "abc"},
		Failures: map[string]error{"npm publish": errors.New("E403")},
	}
	if out, _ := rec.Run(context.Background(), "", "git", "rev-parse", "HEAD"); out != "abc" {
		t.Fatalf("out = %q", out)
	}
	_, err := rec.Run(context.Background(), "", "npm", "publish")
	var cmdErr *shell.CommandError
	if !errors.As(err, &cmdErr) || cmdErr.Output != "E403" {
		t.Fatalf("err = %v", err)
	}
	if err := rec.Open(context.Background(), "https://example.com"); err != nil {
		t.Fatal(err)
	}
	if len(rec.Calls) != 3 || rec.Calls[2] != "open https://example.com" {
		t.Fatalf("calls = %v", rec.Calls)
	}
}
