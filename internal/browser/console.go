package browser

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/nao1215/precheck/internal/model"
)

// consoleLog collects console API calls and uncaught exceptions from a
// session. DevTools events arrive on chromedp's own goroutine, so access
// is mutex-guarded.
type consoleLog struct {
	mu      sync.Mutex
	entries []model.ConsoleEntry
}

// attachConsole starts collecting console events for the session's tab.
// Must be called before navigation so that early page errors are seen.
func (s *Session) attachConsole() {
	c := &consoleLog{}
	s.console = c
	chromedp.ListenTarget(s.ctx, func(ev interface{}) {
		switch ev := ev.(type) {
		case *runtime.EventConsoleAPICalled:
			entry := model.ConsoleEntry{
				Level:     string(ev.Type),
				Message:   formatConsoleArgs(ev.Args),
				Source:    model.ConsoleSourceAPI,
				Timestamp: time.Now(),
			}
			c.add(entry)
		case *runtime.EventExceptionThrown:
			if ev.ExceptionDetails == nil {
				return
			}
			msg := ev.ExceptionDetails.Text
			if ev.ExceptionDetails.Exception != nil && ev.ExceptionDetails.Exception.Description != "" {
				msg = ev.ExceptionDetails.Exception.Description
			}
			c.add(model.ConsoleEntry{
				Level:     "error",
				Message:   msg,
				Source:    model.ConsoleSourceException,
				Timestamp: time.Now(),
			})
		}
	})
}

func (c *consoleLog) add(entry model.ConsoleEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, entry)
}

// ConsoleEntries returns a copy of all console entries collected so far.
func (s *Session) ConsoleEntries() []model.ConsoleEntry {
	s.console.mu.Lock()
	defer s.console.mu.Unlock()
	out := make([]model.ConsoleEntry, len(s.console.entries))
	copy(out, s.console.entries)
	return out
}

// ConsoleErrors returns only the error-level entries, including uncaught
// exceptions.
func (s *Session) ConsoleErrors() []model.ConsoleEntry {
	return FilterConsoleErrors(s.ConsoleEntries())
}

// FilterConsoleErrors keeps entries that indicate a page problem:
// console.error calls and uncaught exceptions.
func FilterConsoleErrors(entries []model.ConsoleEntry) []model.ConsoleEntry {
	var errs []model.ConsoleEntry
	for _, e := range entries {
		if strings.EqualFold(e.Level, "error") || e.Source == model.ConsoleSourceException {
			errs = append(errs, e)
		}
	}
	return errs
}

// formatConsoleArgs renders console call arguments the way the browser
// console would, space-separated.
func formatConsoleArgs(args []*runtime.RemoteObject) string {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		if arg == nil {
			continue
		}
		if v := formatRemoteObject(arg); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}

// formatRemoteObject renders one DevTools remote object. Primitive
// values carry a JSON payload; objects only a description.
func formatRemoteObject(obj *runtime.RemoteObject) string {
	return renderConsoleValue(obj.Value, obj.Description)
}

// renderConsoleValue renders a console argument from its JSON payload,
// falling back to the object description. JSON strings lose their
// quotes, everything else keeps its JSON form.
func renderConsoleValue(raw []byte, description string) string {
	if len(raw) == 0 {
		return description
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	if s, ok := v.(string); ok {
		return s
	}
	out, err := json.Marshal(v)
	if err != nil {
		return string(raw)
	}
	return string(out)
}
