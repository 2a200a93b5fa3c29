package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/erp/backoffice/internal/client"
	"golang.org/x/term"
)

// terminal is the notifier, navigator and confirmer of the CLI
type terminal struct {
	in       *bufio.Reader
	fd       int // -1 unless stdin is a file
	out      io.Writer
	yes      bool
	location string
}

func newTerminal(in io.Reader, out io.Writer, yes bool) *terminal {
	fd := -1
	if f, ok := in.(*os.File); ok {
		fd = int(f.Fd())
	}
	return &terminal{in: bufio.NewReader(in), fd: fd, out: out, yes: yes, location: "/"}
}

func (t *terminal) Notify(n client.Notification) {
	fmt.Fprintf(t.out, "%s %s\n", client.Icon(string(n.Level)), n.Message)
}

func (t *terminal) Location() string { return t.location }

func (t *terminal) Navigate(path string) {
	t.location = path
	if path == client.LoginPath {
		fmt.Fprintf(t.out, "%s Run 'erpctl login' to sign in again.\n", client.Icon("login"))
	}
}

func (t *terminal) Confirm(_ context.Context, prompt string) (bool, error) {
	if t.yes {
		return true, nil
	}
	fmt.Fprintf(t.out, "%s [y/N]: ", prompt)
	answer, err := t.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// ask prompts for one line of input
func (t *terminal) ask(prompt string) (string, error) {
	fmt.Fprintf(t.out, "%s: ", prompt)
	return t.readLine()
}

// secret prompts without echo on a terminal and reads a plain line otherwise
func (t *terminal) secret(prompt string) (string, error) {
	if t.fd < 0 || !term.IsTerminal(t.fd) {
		return t.ask(prompt)
	}
	fmt.Fprintf(t.out, "%s: ", prompt)
	b, err := term.ReadPassword(t.fd)
	fmt.Fprintln(t.out)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(b), nil
}

func (t *terminal) readLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// printJSON writes v indented to w
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printMeta(w io.Writer, meta *client.PageMeta) {
	if meta == nil {
		return
	}
	fmt.Fprintf(w, "page %d of %d, %d records\n", meta.Page, meta.TotalPages, meta.Total)
}
