// Package render builds every message the bot sends: the request summary and
// its control layout, field prompts, result lists and detail views. All
// functions are pure; the same input always renders byte-identical output.
package render

import (
	"hsbot/internal/callback"
	"hsbot/internal/hsdata"
)

// Button is an inline button carrying a callback payload.
type Button struct {
	Text string
	Data string
}

// Markup is the control layout attached to a message. The zero value means
// no controls at all.
type Markup struct {
	Inline [][]Button
	Reply  [][]string // persistent reply keyboard
	Remove bool       // remove the reply keyboard
}

// Empty reports whether m carries no controls.
func (m Markup) Empty() bool {
	return len(m.Inline) == 0 && len(m.Reply) == 0 && !m.Remove
}

// Answer is a message body together with its controls.
type Answer struct {
	Text   string
	Markup Markup
}

// Renderer renders against one immutable reference data set.
type Renderer struct {
	ref      *hsdata.Reference
	mediaURL string
}

// New returns a renderer. mediaURL is the root of rendered card images.
func New(ref *hsdata.Reference, mediaURL string) *Renderer {
	return &Renderer{ref: ref, mediaURL: mediaURL}
}

func button(text string, d callback.Data) Button {
	return Button{Text: text, Data: d.String()}
}

// group reshapes buttons into rows of cols.
func group(buttons []Button, cols int) [][]Button {
	var rows [][]Button
	for start := 0; start < len(buttons); start += cols {
		end := min(start+cols, len(buttons))
		rows = append(rows, buttons[start:end:end])
	}
	return rows
}
