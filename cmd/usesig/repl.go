package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/AnatoleLucet/usesig/history"
	"github.com/AnatoleLucet/usesig/sig"
)

var (
	errUnknownCommand = errors.New("unknown command")
	errUsage          = errors.New("usage")
	errUnknownKey     = errors.New("unknown key")
)

type document = map[string]string

type repl struct {
	doc    *history.State[document]
	out    io.Writer
	prompt string

	// e.g. "[undo redo] "
	status *sig.Computed[string]
}

func newREPL(doc *history.State[document], out io.Writer, prompt string) *repl {
	return &repl{
		doc:    doc,
		out:    out,
		prompt: prompt,
		status: sig.NewComputed(func() string {
			var flags []string
			if doc.CanUndo() {
				flags = append(flags, "undo")
			}
			if doc.CanRedo() {
				flags = append(flags, "redo")
			}
			if len(flags) == 0 {
				return ""
			}
			return "[" + strings.Join(flags, " ") + "] "
		}),
	}
}

// Run executes one command per line until quit or end of input.
// Command errors are printed and do not stop the loop.
func (r *repl) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(r.out, r.status.Read()+r.prompt)
		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			return scanner.Err()
		}

		quit, err := r.exec(scanner.Text())
		if err != nil {
			fmt.Fprintln(r.out, "error:", err)
			continue
		}
		if quit {
			return nil
		}
	}
}

func (r *repl) exec(line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	switch cmd, args := fields[0], fields[1:]; cmd {
	case "set":
		if len(args) < 2 {
			return false, fmt.Errorf("%w: set <key> <value>", errUsage)
		}
		key, value := args[0], strings.Join(args[1:], " ")
		r.doc.Update(func(d document) document {
			if d == nil {
				d = document{}
			}
			d[key] = value
			return d
		})

	case "del":
		if len(args) != 1 {
			return false, fmt.Errorf("%w: del <key>", errUsage)
		}
		if _, ok := r.doc.Current()[args[0]]; !ok {
			return false, fmt.Errorf("%w: %q", errUnknownKey, args[0])
		}
		r.doc.Update(func(d document) document {
			delete(d, args[0])
			return d
		})

	case "undo":
		if !r.doc.CanUndo() {
			fmt.Fprintln(r.out, "nothing to undo")
			return false, nil
		}
		r.doc.Undo()
		r.show(r.doc.Current())

	case "redo":
		if !r.doc.CanRedo() {
			fmt.Fprintln(r.out, "nothing to redo")
			return false, nil
		}
		r.doc.Redo()
		r.show(r.doc.Current())

	case "show":
		r.show(r.doc.Current())

	case "history":
		for i, snap := range r.doc.History() {
			fmt.Fprintf(r.out, "past %d  %s  %s\n", i, snap.Timestamp.Format("15:04:05.000"), format(snap.Value))
		}
		redo := r.doc.RedoHistory()
		for i := len(redo) - 1; i >= 0; i-- {
			fmt.Fprintf(r.out, "next %d  %s  %s\n", len(redo)-1-i, redo[i].Timestamp.Format("15:04:05.000"), format(redo[i].Value))
		}

	case "clear":
		r.doc.Clear()

	case "quit", "exit":
		return true, nil

	default:
		return false, fmt.Errorf("%w: %q", errUnknownCommand, cmd)
	}

	return false, nil
}

func (r *repl) show(d document) {
	if len(d) == 0 {
		fmt.Fprintln(r.out, "(empty)")
		return
	}

	for _, key := range slices.Sorted(maps.Keys(d)) {
		fmt.Fprintf(r.out, "%s = %s\n", key, d[key])
	}
}

func format(d document) string {
	pairs := make([]string, 0, len(d))
	for _, key := range slices.Sorted(maps.Keys(d)) {
		pairs = append(pairs, key+"="+d[key])
	}
	return "{" + strings.Join(pairs, ", ") + "}"
}
