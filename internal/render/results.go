package render

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"hsbot/internal/callback"
	"hsbot/internal/hsdata"
	"hsbot/internal/model"
	"hsbot/internal/request"
)

// ResultList renders the current page of the cached results of kind k.
func (r *Renderer) ResultList(k request.Kind, c *request.Context) Answer {
	res := c.Results
	if res == nil {
		res = &request.Results{}
	}

	var (
		rows    []string
		buttons []Button
		noun    = "Cards"
	)
	if k == request.KindDeck {
		noun = "Decks"
	}
	rows = append(rows, fmt.Sprintf("%s found: <b>%d</b>\n", noun, res.Total))

	switch k {
	case request.KindCard:
		for i, card := range pageOf(res.Cards, res.Page) {
			n := i + 1
			rows = append(rows, fmt.Sprintf("%d. %s <a href=\"%s\">%s</a>",
				n, r.cardPrefix(card), r.CardImageURL(card.CardID), html.EscapeString(card.Name)))
			buttons = append(buttons, button(fmt.Sprintf("%d. %s", n, card.Name),
				callback.List(k, callback.Get, strconv.Itoa(card.DbfID))))
		}
	case request.KindDeck:
		for i, deck := range pageOf(res.Decks, res.Page) {
			n := i + 1
			rows = append(rows, fmt.Sprintf("%d. <b>%s</b> (%s, %s)",
				n, html.EscapeString(deckTitle(deck)), html.EscapeString(deck.DeckFormat), html.EscapeString(deck.Created)))
			buttons = append(buttons, button(fmt.Sprintf("%d. %s", n, deckTitle(deck)),
				callback.List(k, callback.Get, strconv.Itoa(deck.ID))))
		}
	}

	if len(buttons) > 0 {
		rows = append(rows, "\nGet detailed information:")
	} else {
		rows = append(rows, "Try changing the request parameters.")
	}

	layout := group(buttons, 3)
	if pages := res.Pages(); pages > 1 {
		layout = append(layout, []Button{
			button("◄", callback.List(k, callback.Left, "")),
			button(fmt.Sprintf("| Page %d of %d |", res.Page, pages), callback.List(k, callback.Pages, "")),
			button("►", callback.List(k, callback.Right, "")),
		})
	}
	layout = append(layout, []Button{button("CLOSE", callback.List(k, callback.Close, ""))})

	return Answer{Text: strings.Join(rows, "\n"), Markup: Markup{Inline: layout}}
}

func pageOf[T any](pages [][]T, page int) []T {
	if page < 1 || page > len(pages) {
		return nil
	}
	return pages[page-1]
}

func deckTitle(d model.DeckSummary) string {
	if d.Name != "" {
		return d.Name
	}
	return d.DeckClass + " deck"
}

// CardImageURL links to the rendered English image of a card.
func (r *Renderer) CardImageURL(cardID string) string {
	return fmt.Sprintf("%sen/%s.png", r.mediaURL, cardID)
}

func (r *Renderer) cardPrefix(card model.CardSummary) string {
	t, okType := r.ref.TypeByName(card.CardType)
	x, okRarity := r.ref.RarityByName(card.Rarity)
	if !okType || !okRarity {
		return "❓ ❔"
	}
	return t.Emoji + " " + x.Emoji
}

// CardDetail renders a single card.
func (r *Renderer) CardDetail(card *model.CardDetail) Answer {
	var rows []string
	rows = append(rows,
		fmt.Sprintf("►►► <b>%s</b> ◄◄◄", html.EscapeString(card.Name)),
		fmt.Sprintf("ID: %d", card.DbfID),
	)

	line := fmt.Sprintf("<b>%s</b> <b>%s</b>", html.EscapeString(card.Rarity), html.EscapeString(card.CardType))
	if len(card.Tribe) > 0 {
		line += fmt.Sprintf(" (<i>%s</i>)", html.EscapeString(strings.Join(card.Tribe, " | ")))
	}
	if card.SpellSchool != "" && !strings.HasPrefix(card.SpellSchool, "---") {
		line += fmt.Sprintf(" (<i>%s</i>)", html.EscapeString(card.SpellSchool))
	}
	rows = append(rows, line)

	classes := make([]string, len(card.CardClass))
	for i, c := range card.CardClass {
		classes[i] = "<b>" + html.EscapeString(c) + "</b>"
	}
	rows = append(rows,
		strings.Join(classes, " | "),
		"<pre>"+r.stats(card)+"</pre>",
		fmt.Sprintf("Set: <i>%s</i>", html.EscapeString(card.CardSet)),
	)

	if card.Text != "" || card.Flavor != "" {
		rows = append(rows, " ")
		if card.Text != "" {
			rows = append(rows, card.Text)
		}
		if card.Flavor != "" {
			rows = append(rows, "<i>"+html.EscapeString(card.Flavor)+"</i>")
		}
		rows = append(rows, " ")
	}
	if len(card.Mechanic) > 0 {
		mechanics := make([]string, len(card.Mechanic))
		for i, m := range card.Mechanic {
			mechanics[i] = "<b>" + html.EscapeString(m) + "</b>"
		}
		rows = append(rows, "Mechanics: "+strings.Join(mechanics, " | "))
	}
	if card.Artist != "" {
		rows = append(rows, "Artist: "+html.EscapeString(card.Artist))
	}

	k := request.KindCard
	return Answer{
		Text: strings.Join(rows, "\n"),
		Markup: Markup{Inline: [][]Button{
			{button("Find decks!", callback.Detail(k, callback.Decks))},
			{button("BACK", callback.Detail(k, callback.Back)), button("CLOSE", callback.Detail(k, callback.Close))},
		}},
	}
}

// CardDetailMarkup restores the controls of a card detail view.
func (r *Renderer) CardDetailMarkup(card *model.CardDetail) Markup {
	return r.CardDetail(card).Markup
}

func stat(v *int) string {
	if v == nil {
		return "?"
	}
	return strconv.Itoa(*v)
}

func (r *Renderer) stats(card *model.CardDetail) string {
	cost := stat(card.Cost)
	t, ok := r.ref.TypeByName(card.CardType)
	if !ok {
		return cost + " mana ?/?"
	}
	switch t.Sign {
	case hsdata.TypeMinion:
		return fmt.Sprintf("%s mana %s/%s", cost, stat(card.Attack), stat(card.Health))
	case hsdata.TypeWeapon:
		return fmt.Sprintf("%s mana %s/%s", cost, stat(card.Attack), stat(card.Durability))
	case hsdata.TypeHero:
		return fmt.Sprintf("%s mana %s armor", cost, stat(card.Armor))
	case hsdata.TypeLocation:
		return fmt.Sprintf("%s mana %s uses", cost, stat(card.Health))
	case hsdata.TypeSpell:
		return cost + " mana"
	}
	return cost + " mana ?/?"
}

// DeckDetail renders a deck. Decks opened from a result list get BACK and
// CLOSE controls; decoded decks are standalone messages without controls.
func (r *Renderer) DeckDetail(deck *model.DeckDetail, fromList bool) Answer {
	var rows []string
	title := deck.Name
	if title == "" {
		title = deck.DeckClass + " deck"
	}
	rows = append(rows, fmt.Sprintf("►►► <b>%s</b> ◄◄◄", html.EscapeString(title)))
	if deck.ID != 0 {
		rows = append(rows, fmt.Sprintf("ID: %d", deck.ID))
	}
	rows = append(rows, fmt.Sprintf("<b>%s</b> | <b>%s</b>", html.EscapeString(deck.DeckClass), html.EscapeString(deck.DeckFormat)))
	if deck.Created != "" {
		rows = append(rows, "Created: "+html.EscapeString(deck.Created))
	}
	rows = append(rows, fmt.Sprintf("Cards: <b>%d</b>", deck.Size()))

	if len(deck.Cards) > 0 {
		lines := make([]string, len(deck.Cards))
		for i, dc := range deck.Cards {
			lines[i] = fmt.Sprintf("%dx (%s) %s", dc.Number, stat(dc.Card.Cost), html.EscapeString(dc.Card.Name))
		}
		rows = append(rows, "<pre>"+strings.Join(lines, "\n")+"</pre>")
	}
	if deck.String != "" {
		rows = append(rows, "<code>"+html.EscapeString(deck.String)+"</code>")
	}

	a := Answer{Text: strings.Join(rows, "\n")}
	if fromList {
		k := request.KindDeck
		a.Markup = Markup{Inline: [][]Button{
			{button("BACK", callback.Detail(k, callback.Back)), button("CLOSE", callback.Detail(k, callback.Close))},
		}}
	}
	return a
}
