package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"
)

const historyFile = ".formula_history"

// repl runs an interactive session until the user quits or input ends.
func repl(s *session) {
	fmt.Fprintln(s.out, "type a formula to plot it, or :help for commands")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(func(line string) []string {
		if !strings.HasPrefix(line, ":") {
			return nil
		}
		var r []string
		for _, name := range commandNames() {
			if strings.HasPrefix(name, line) {
				r = append(r, name+" ")
			}
		}
		return r
	})

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for {
		line, err := ln.Prompt(prompt(s))
		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			// Ctrl-C discards the line.
			continue
		case errors.Is(err, io.EOF):
			fmt.Fprintln(s.out)
			return
		case err != nil:
			fmt.Fprintln(os.Stderr, err)
			return
		}
		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
		}
		if s.exec(line) {
			return
		}
	}
}

// prompt shows the number of the selected function.
func prompt(s *session) string {
	if s.sel < 0 {
		return "> "
	}
	return fmt.Sprintf("%d> ", s.sel+1)
}
