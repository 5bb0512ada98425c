// Package repl is the plain readline chat loop, for terminals where the
// full-screen interface is unwanted (dumb terminals, scripting, CI).
package repl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/vakeel-dev/vakeel/pkg/chat"
)

// Run drives a readline loop over the session manager until the user quits
// or sends EOF.
func Run(mgr *chat.Manager) error {
	line := liner.NewLiner()
	defer func() { _ = line.Close() }()
	line.SetCtrlCAborts(true)

	fmt.Println("vakeel — legal research assistant")
	fmt.Println("commands: /new /switch <n> /sessions /attach <file> /quit")

	for {
		prompt := "you> "
		if att := mgr.StagedAttachment(); att != nil {
			prompt = "you [" + att.Name + "]> "
		}

		input, err := line.Prompt(prompt)
		if err != nil {
			// liner returns ErrPromptAborted on Ctrl-C and io.EOF on Ctrl-D.
			fmt.Println()
			return nil
		}

		text := strings.TrimSpace(input)
		if text == "" && mgr.StagedAttachment() == nil {
			continue
		}
		line.AppendHistory(input)

		if strings.HasPrefix(text, "/") {
			if quit := runCommand(mgr, text); quit {
				return nil
			}
			continue
		}

		target := mgr.ActiveID()
		before := len(mgr.Messages(target))
		fmt.Println("researching...")
		mgr.Submit(context.Background(), text)

		msgs := mgr.Messages(target)
		for _, msg := range msgs[before:] {
			if msg.Role != chat.RoleAssistant {
				continue
			}
			if msg.IsError {
				fmt.Println("vakeel (error):", msg.Text)
			} else if msg.LatencySeconds != nil {
				fmt.Printf("vakeel (%.1fs):\n%s\n", *msg.LatencySeconds, msg.Text)
			} else {
				fmt.Println("vakeel:", msg.Text)
			}
		}
	}
}

// runCommand handles a slash command. Returns true when the loop should
// exit.
func runCommand(mgr *chat.Manager, text string) bool {
	fields := strings.Fields(text)
	switch fields[0] {
	case "/quit", "/exit":
		return true
	case "/new":
		mgr.CreateSession()
		fmt.Println("started", currentTitle(mgr))
	case "/sessions":
		active := mgr.ActiveID()
		for i, s := range mgr.Sessions() {
			marker := " "
			if s.ID == active {
				marker = "*"
			}
			fmt.Printf("%s %d. %s (%d messages)\n", marker, i+1, s.Title, s.MessageCount)
		}
	case "/switch":
		if len(fields) != 2 {
			fmt.Println("usage: /switch <n>")
			break
		}
		n, err := strconv.Atoi(fields[1])
		sessions := mgr.Sessions()
		if err != nil || n < 1 || n > len(sessions) {
			fmt.Println("no such session")
			break
		}
		mgr.SelectSession(sessions[n-1].ID)
		fmt.Println("now in", sessions[n-1].Title)
	case "/attach":
		if len(fields) < 2 {
			fmt.Println("usage: /attach <file.pdf>")
			break
		}
		path := strings.TrimSpace(strings.TrimPrefix(text, "/attach"))
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Println("could not read", path)
			break
		}
		mgr.StageAttachment(chat.Attachment{Name: filepath.Base(path), Data: data})
		fmt.Println("attached", filepath.Base(path), "- it will be analyzed with your next message")
	default:
		fmt.Println("unknown command", fields[0])
	}
	return false
}

func currentTitle(mgr *chat.Manager) string {
	active := mgr.ActiveID()
	for _, s := range mgr.Sessions() {
		if s.ID == active {
			return s.Title
		}
	}
	return string(active)
}
