// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package discovery

import (
	"strings"
	"sync"

	"github.com/yiakwy/edx-platform/internal/event"
)

// MessageKind identifies the message shown below the search form
type MessageKind int

const (
	// MessageNone means no message is shown
	MessageNone MessageKind = iota
	// MessageFound reports the number of courses found
	MessageFound
	// MessageNotFound reports that a search returned nothing
	MessageNotFound
	// MessageError reports a failed request
	MessageError
)

func (k MessageKind) String() string {
	switch k {
	case MessageFound:
		return "found"
	case MessageNotFound:
		return "not_found"
	case MessageError:
		return "error"
	}
	return "none"
}

// Message is the state of the form message area
type Message struct {
	Kind  MessageKind
	Term  string
	Total int
	Err   error
}

// FormRenderer draws the form message area and loading indicator
type FormRenderer interface {
	RenderMessage(msg Message)
	RenderLoading(loading bool)
}

// Form holds the search input, the loading indicator and the message area.
// It emits event.FormSearch.
type Form struct {
	mu       sync.Mutex
	input    string
	loading  bool
	message  Message
	renderer FormRenderer
	bus      *event.Bus
}

// NewForm creates an empty form; renderer may be nil
func NewForm(renderer FormRenderer) *Form {
	return &Form{
		renderer: renderer,
		bus:      event.New(),
	}
}

// Subscribe registers a handler for the form events
func (f *Form) Subscribe(t event.Type, h event.Handler) func() {
	return f.bus.Subscribe(t, h)
}

// Submit searches for the given input text, trimmed
func (f *Form) Submit(input string) {
	f.DoSearch(input)
}

// DoSearch puts term in the input and emits a search for the trimmed term
func (f *Form) DoSearch(term string) {
	f.mu.Lock()
	f.input = term
	f.mu.Unlock()

	f.setMessage(Message{Kind: MessageNone})
	f.bus.Publish(event.FormSearch{Term: strings.TrimSpace(term)})
}

// ClearSearch empties the input
func (f *Form) ClearSearch() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.input = ""
}

// Input returns the raw input text
func (f *Form) Input() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.input
}

// ShowLoadingIndicator marks a search or page request as pending
func (f *Form) ShowLoadingIndicator() { f.setLoading(true) }

// HideLoadingIndicator clears the pending state once results or an error arrive
func (f *Form) HideLoadingIndicator() { f.setLoading(false) }

// Loading reports whether the loading indicator is shown
func (f *Form) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}

// ShowFoundMessage reports total courses found
func (f *Form) ShowFoundMessage(total int) {
	f.setMessage(Message{Kind: MessageFound, Total: total})
}

// ShowNotFoundMessage reports that term matched nothing
func (f *Form) ShowNotFoundMessage(term string) {
	f.setMessage(Message{Kind: MessageNotFound, Term: term})
}

// ShowErrorMessage reports a failed request
func (f *Form) ShowErrorMessage(err error) {
	f.setMessage(Message{Kind: MessageError, Err: err})
}

// Message returns the current message
func (f *Form) Message() Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}

func (f *Form) setLoading(loading bool) {
	f.mu.Lock()
	f.loading = loading
	f.mu.Unlock()
	if f.renderer != nil {
		f.renderer.RenderLoading(loading)
	}
}

func (f *Form) setMessage(msg Message) {
	f.mu.Lock()
	f.message = msg
	f.mu.Unlock()
	if f.renderer != nil {
		f.renderer.RenderMessage(msg)
	}
}
