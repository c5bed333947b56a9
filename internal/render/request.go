package render

import (
	"fmt"
	"html"
	"strings"

	"hsbot/internal/callback"
	"hsbot/internal/request"
)

// Request renders the summary of the request of kind k together with its
// control layout. The layout depends on the selected card type.
func (r *Renderer) Request(k request.Kind, c *request.Context) Answer {
	return Answer{Text: r.requestText(k, c), Markup: r.requestMarkup(k, c)}
}

// RequestMarkup is the control layout of the summary alone, used to restore
// its controls after they were hidden while results were displayed.
func (r *Renderer) RequestMarkup(k request.Kind, c *request.Context) Markup {
	return r.requestMarkup(k, c)
}

func (r *Renderer) requestText(k request.Kind, c *request.Context) string {
	var rows []string
	switch k {
	case request.KindCard:
		rows = append(rows,
			"<b>►►► <u>Build card request</u> ◄◄◄</b>",
			"Language: <b>English</b>",
			"Collectible: <b>Yes</b>",
		)
	case request.KindDeck:
		rows = append(rows,
			"<b>►►► <u>Build deck request</u> ◄◄◄</b>",
			"Language: <b>English</b>",
		)
	}
	for _, f := range request.Fields(k) {
		if !c.IsSet(f) {
			continue
		}
		rows = append(rows, r.fieldRow(f, c))
	}
	return strings.Join(rows, "\n")
}

func (r *Renderer) fieldRow(f request.Field, c *request.Context) string {
	switch f {
	case request.Name:
		return fmt.Sprintf("%s: <b><u>%s</u></b>", f.Label(), html.EscapeString(c.Value(f)))
	default:
		return fmt.Sprintf("%s: <b>%s</b>", f.Label(), html.EscapeString(r.displayValue(f, c)))
	}
}

// displayValue resolves codes to their English names. Codes missing from the
// reference data degrade to a placeholder instead of failing the render.
func (r *Renderer) displayValue(f request.Field, c *request.Context) string {
	v := c.Value(f)
	switch f {
	case request.CardType:
		if t, ok := r.ref.TypeBySign(v); ok {
			return t.En
		}
		return unknownLabel
	case request.Rarity:
		if x, ok := r.ref.RarityBySign(v); ok {
			return x.En
		}
		return unknownLabel
	case request.DeckFormat:
		if x, ok := r.ref.FormatBySign(v); ok {
			return x.En
		}
		return unknownLabel
	}
	return c.Display(f)
}

func buttonLabel(f request.Field) string {
	switch f {
	case request.Classes:
		return "Class"
	case request.CreatedAfter:
		return "Date"
	}
	return f.Label()
}

func (r *Renderer) requestMarkup(k request.Kind, c *request.Context) Markup {
	offered := request.Offered(k, c)
	var rows [][]Button

	switch k {
	case request.KindCard:
		// Fixed fields in rows of three, then the stat row of the selected type.
		var base, stats []Button
		for i, f := range offered {
			b := button(buttonLabel(f), callback.Param(k, callback.Add, f, ""))
			if i < 6 {
				base = append(base, b)
			} else {
				stats = append(stats, b)
			}
		}
		rows = append(rows, group(base, 3)...)
		if len(stats) > 0 {
			rows = append(rows, stats)
		}
		rows = append(rows, []Button{
			button("Language", callback.Request(k, callback.Language)),
			button("Collectible", callback.Request(k, callback.Collectible)),
		})
	case request.KindDeck:
		var fields []Button
		for _, f := range offered {
			fields = append(fields, button(buttonLabel(f), callback.Param(k, callback.Add, f, "")))
		}
		rows = append(rows, group(fields, 2)...)
		rows = append(rows, []Button{button("Language", callback.Request(k, callback.Language))})
	}

	rows = append(rows, []Button{
		button("REQUEST", callback.Request(k, callback.Submit)),
		button("CLEAR", callback.Request(k, callback.Clear)),
		button("CLOSE", callback.Request(k, callback.Close)),
	})
	return Markup{Inline: rows}
}

// Prompt renders the message soliciting field f. A non-empty rule replaces
// the prompt text with the hint for that validation failure.
func (r *Renderer) Prompt(k request.Kind, f request.Field, c *request.Context, rule string) Answer {
	text := promptText(f)
	if rule != "" {
		text = invalidText(rule)
	}

	var rows [][]Button
	if f.Input() == request.InputChoice {
		rows = group(r.choices(k, f), 2)
	}

	lower := []Button{button("CANCEL", callback.Param(k, callback.Cancel, f, ""))}
	if c.IsSet(f) {
		lower = append(lower, button("CLEAR", callback.Param(k, callback.Clear, f, "")))
	}
	rows = append(rows, lower)

	return Answer{Text: text, Markup: Markup{Inline: rows}}
}

func (r *Renderer) choices(k request.Kind, f request.Field) []Button {
	var buttons []Button
	pick := func(text, code string) {
		buttons = append(buttons, button(text, callback.Param(k, callback.Pick, f, code)))
	}
	switch f {
	case request.CardType:
		for _, t := range r.ref.Types {
			pick(t.En, t.Sign)
		}
	case request.Classes, request.DeckClass:
		for _, c := range r.ref.Classes {
			pick(c.En, c.En)
		}
	case request.CardSet:
		for _, s := range r.ref.Sets {
			pick(s.En, s.En)
		}
	case request.Rarity:
		for _, x := range r.ref.Rarities {
			pick(x.En, x.Sign)
		}
	case request.DeckFormat:
		for _, x := range r.ref.Formats {
			pick(x.En, x.Sign)
		}
	}
	return buttons
}
