// FILE: internal/client/commands/debug.go
package commands

import (
	"fmt"
	"strings"
	"time"

	"tilechess/internal/client/display"
)

func (r *Registry) registerDebugCommands() {
	for _, cmd := range []*Command{
		{Name: "health", ShortName: ".", Description: "Check server health", Usage: "health", Handler: r.healthHandler},
		{Name: "url", ShortName: "/", Description: "Set API base URL", Usage: "url [apiUrl]", Handler: r.urlHandler},
		{Name: "raw", ShortName: ":", Description: "Send raw API request", Usage: "raw <method> <path> [json-body]", Handler: r.rawRequestHandler},
		{Name: "clear", ShortName: "-", Description: "Clear screen", Usage: "clear", Handler: r.clearHandler},
	} {
		cmd.Group = groupUtility
		r.Register(cmd)
	}
}

func (r *Registry) healthHandler(s *Session, args []string) error {
	resp, err := s.Client.Health()
	if err != nil {
		return err
	}

	fmt.Fprintf(r.out, "%sServer Health:%s\n", display.Cyan, display.Reset)
	fmt.Fprintf(r.out, "  Status:  %s\n", resp.Status)
	fmt.Fprintf(r.out, "  Time:    %s\n", time.Unix(resp.Time, 0).Format("2006-01-02 15:04:05"))
	if resp.Storage != "" {
		fmt.Fprintf(r.out, "  Storage: %s\n", resp.Storage)
	}
	return nil
}

func (r *Registry) urlHandler(s *Session, args []string) error {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "Current API URL: %s\n", s.APIBaseURL)
		return nil
	}

	url := args[0]
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "http://" + url
	}
	s.APIBaseURL = strings.TrimRight(url, "/")
	s.Client.SetBaseURL(url)

	// Game IDs belong to the previous server
	s.clear()

	fmt.Fprintf(r.out, "%sAPI URL set to: %s%s\n", display.Cyan, s.APIBaseURL, display.Reset)
	return nil
}

func (r *Registry) rawRequestHandler(s *Session, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: raw <method> <path> [json-body]")
	}
	return s.Client.RawRequest(strings.ToUpper(args[0]), args[1], strings.Join(args[2:], " "))
}

func (r *Registry) clearHandler(s *Session, args []string) error {
	fmt.Fprint(r.out, "\033[H\033[2J")
	return nil
}
