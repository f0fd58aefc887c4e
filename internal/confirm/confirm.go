// Package confirm models the "are you sure?" step in front of destructive
// actions as a call that resolves to confirmed or cancelled.
package confirm

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Request describes what is about to happen.
type Request struct {
	Title       string
	Message     string
	ConfirmText string
	Destructive bool
}

// Confirmer resolves a Request. A false result with a nil error means the
// user declined.
type Confirmer interface {
	Confirm(ctx context.Context, req Request) (bool, error)
}

// Func adapts a function to Confirmer.
type Func func(ctx context.Context, req Request) (bool, error)

func (f Func) Confirm(ctx context.Context, req Request) (bool, error) {
	return f(ctx, req)
}

// Static answers every request the same way. The HTTP API uses it for an
// explicit confirm=true query flag.
type Static bool

func (s Static) Confirm(ctx context.Context, req Request) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return bool(s), nil
}

// Prompt asks on a terminal and accepts "y" or "yes".
type Prompt struct {
	In  io.Reader
	Out io.Writer
}

func (p Prompt) Confirm(ctx context.Context, req Request) (bool, error) {
	if req.Title != "" {
		fmt.Fprintf(p.Out, "%s\n", req.Title)
	}
	label := req.ConfirmText
	if label == "" {
		label = "Continue"
	}
	fmt.Fprintf(p.Out, "%s\n%s? [y/N]: ", req.Message, label)

	answer := make(chan string, 1)
	go func() {
		line, _ := bufio.NewReader(p.In).ReadString('\n')
		answer <- line
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case line := <-answer:
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		}
		return false, nil
	}
}
