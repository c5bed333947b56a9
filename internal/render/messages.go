package render

import (
	"fmt"

	"hsbot/internal/config"
	"hsbot/internal/request"
)

const unknownLabel = "❓ unknown"

// Transient hints answered to button presses.
const (
	HintServerUnavailable = "The server is unavailable. Please try again later"
	HintEmptyRequest      = "You must provide at least 1 parameter for the search"
	HintUnknownError      = "Unknown error :("
	HintPagesButton       = "This button does nothing"
	HintLanguage          = "Currently, only English is available"
	HintCollectible       = "Only collectible cards are searched"
	HintNothingFound      = "Nothing found. Try changing the request parameters"
	HintBadDeckCode       = "This does not look like a valid deck code"
)

// HintTooManyResults asks the user to narrow down a search that found n results.
func HintTooManyResults(n int) string {
	return fmt.Sprintf("Too many results (%d). Please specify more parameters", n)
}

const menuCommands = "Available commands:\n/cards\n/decks\n/decode"

// Reply keyboard texts that start flows without a slash command.
const (
	MenuCards  = "Cards"
	MenuDecks  = "Decks"
	MenuDecode = "Decode Deckstring"
)

func menuKeyboard() Markup {
	return Markup{Reply: [][]string{{MenuCards, MenuDecks}, {MenuDecode}}}
}

// Menu is the greeting shown by /start.
func (r *Renderer) Menu() Answer {
	return Answer{
		Text:   "<b>Greetings, traveller.</b>\n\n" + menuCommands,
		Markup: menuKeyboard(),
	}
}

// Cancelled is shown after all activity has been reset.
func (r *Renderer) Cancelled() Answer {
	return Answer{
		Text:   "<b>All activity is cancelled. You're in the main menu.</b>\n\n" + menuCommands,
		Markup: menuKeyboard(),
	}
}

// NewSearch announces a new request flow and removes the menu keyboard.
func (r *Renderer) NewSearch(k request.Kind) Answer {
	return Answer{
		Text:   fmt.Sprintf("Starting a new %s search...", k),
		Markup: Markup{Remove: true},
	}
}

// DecodePrompt asks for a deck code.
func (r *Renderer) DecodePrompt() Answer {
	return Answer{
		Text: "Send me a <b>deck code</b> or a full decklist exported from the game:",
		Markup: Markup{
			Remove: true,
		},
	}
}

func promptText(f request.Field) string {
	switch f {
	case request.Name:
		return "Enter a <b>name</b>:"
	case request.CardType:
		return "Select a <b>type</b>:"
	case request.Classes, request.DeckClass:
		return "Select a <b>class</b>:"
	case request.CardSet:
		return "Select a <b>set</b>:"
	case request.Rarity:
		return "Select a <b>rarity</b>:"
	case request.Cost:
		return "Enter <b>mana cost</b>:"
	case request.Attack:
		return "Enter <b>attack</b> value:"
	case request.Health:
		return "Enter <b>health</b> value:"
	case request.Durability:
		return "Enter <b>durability</b> value:"
	case request.Armor:
		return "Enter <b>armor</b> value:"
	case request.DeckFormat:
		return "Select a <b>format</b>:"
	case request.CreatedAfter:
		return "Enter the earliest <b>creation date</b> (<i>dd.mm.yyyy</i>):"
	case request.DeckCards:
		return "Enter card <b>ids</b> separated by commas:"
	}
	return "Unknown parameter"
}

func invalidText(rule string) string {
	switch rule {
	case request.RuleEmpty:
		return "The value <b>must not</b> be empty. Try again:"
	case request.RuleTooLong:
		return fmt.Sprintf("Name <b>must not</b> exceed <i>%d</i> characters. Try again:", config.MaxNameLength)
	case request.RuleNotNumber:
		return "This value <b>must</b> be a positive integer. Try again:"
	case request.RuleBadDate:
		return "This <b>must</b> be a valid date in <i>dd.mm.yyyy</i> format. Try again:"
	case request.RuleBadCards:
		return fmt.Sprintf("Card ids <b>must</b> be positive integers, at most <i>%d</i>. Try again:", config.MaxDeckCards)
	}
	return "Unknown error. Try again"
}
