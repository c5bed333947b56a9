package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"hsbot/internal/hsapi"
	"hsbot/internal/model"
	"hsbot/internal/pager"
	"hsbot/internal/query"
	"hsbot/internal/render"
	"hsbot/internal/request"
)

// search translates rc, calls the API and caches the paginated results in rc.
// The returned hint is non-empty when the search was refused or failed in a
// way the user can recover from; rc is untouched in that case.
func (m *Machine) search(ctx context.Context, ev Event, k request.Kind, rc *request.Context) (string, error) {
	log := m.logger(ev).WithField("kind", k)

	params, err := query.Translate(k, rc)
	if errors.Is(err, query.ErrEmptyRequest) {
		log.Warn(err)
		return render.HintEmptyRequest, nil
	}
	if err != nil {
		return "", err
	}

	var (
		cards []model.CardSummary
		decks []model.DeckSummary
		total int
	)
	switch k {
	case request.KindCard:
		cards, err = m.api.SearchCards(ctx, params.Values())
		total = len(cards)
	case request.KindDeck:
		decks, err = m.api.SearchDecks(ctx, params.Values())
		total = len(decks)
	}
	if hsapi.IsTransport(err) {
		log.WithError(err).Error("card service unreachable")
		return render.HintServerUnavailable, nil
	}
	if err != nil {
		log.WithError(err).Error("search failed")
		return render.HintUnknownError, nil
	}

	err = m.checkCeiling(total)
	m.publish(ctx, ev, k, params, total, err == nil)
	if errors.Is(err, ErrTooManyResults) {
		log.Warn(err)
		return render.HintTooManyResults(total), nil
	}

	rc.Results = &request.Results{
		Cards: pager.Paginate(cards, m.limits.PageSize),
		Decks: pager.Paginate(decks, m.limits.PageSize),
		Page:  1,
		Total: total,
	}
	log.WithField("results", total).Info("search answered")
	return "", nil
}

func (m *Machine) checkCeiling(n int) error {
	if n > m.limits.MaxResults {
		return fmt.Errorf("%w: %d > %d", ErrTooManyResults, n, m.limits.MaxResults)
	}
	return nil
}

func (m *Machine) publish(ctx context.Context, ev Event, k request.Kind, params query.Params, n int, accepted bool) {
	if m.events == nil {
		return
	}
	err := m.events.PublishSearch(ctx, model.SearchEvent{
		ChatID:   ev.ChatID,
		Kind:     string(k),
		Params:   params,
		Results:  n,
		Accepted: accepted,
	})
	if err != nil {
		m.logger(ev).WithError(err).Warn("publish search event")
	}
}

// submit runs the search of the request being built and shows the first
// page of results below the summary, whose controls are hidden meanwhile.
func (m *Machine) submit(ctx context.Context, ev Event, conv *conversation) (string, error) {
	k := conv.State.Kind
	rc := conv.active()

	if hint, err := m.search(ctx, ev, k, rc); hint != "" || err != nil {
		return hint, err
	}

	prompt := rc.Messages.Prompt
	rc.Pending = ""
	rc.Messages.Prompt = 0
	rc.Return = request.ReturnRequestView
	conv.State.Phase = PhaseList
	if err := m.save(ctx, conv); err != nil {
		return "", err
	}
	m.deleteQuietly(ctx, ev.ChatID, prompt)

	if err := m.msg.EditMarkup(ctx, ev.ChatID, rc.Messages.Request, render.Markup{}); err != nil {
		return "", err
	}
	return "", m.showResults(ctx, conv, rc, rc.Messages.Request)
}

func (m *Machine) showResults(ctx context.Context, conv *conversation, rc *request.Context, replyTo int) error {
	old := rc.Messages.Result
	id, err := m.msg.Send(ctx, conv.chatID, replyTo, m.render.ResultList(conv.State.Kind, rc))
	if err != nil {
		return err
	}
	rc.Messages.Result = id
	if err := m.save(ctx, conv); err != nil {
		return err
	}
	if old != id {
		m.deleteQuietly(ctx, conv.chatID, old)
	}
	return nil
}

// openDetail fetches one result and shows it in place of the list.
func (m *Machine) openDetail(ctx context.Context, ev Event, conv *conversation, id int) (string, error) {
	k := conv.State.Kind
	rc := conv.active()
	log := m.logger(ev).WithField("kind", k).WithField("id", id)

	var (
		answer render.Answer
		err    error
	)
	switch k {
	case request.KindCard:
		var card *model.CardDetail
		if card, err = m.api.GetCard(ctx, id); err == nil {
			rc.Results.CardDetail = card
			answer = m.render.CardDetail(card)
		}
	case request.KindDeck:
		var deck *model.DeckDetail
		if deck, err = m.api.GetDeck(ctx, id); err == nil {
			rc.Results.DeckDetail = deck
			answer = m.render.DeckDetail(deck, true)
		}
	}
	if hsapi.IsTransport(err) {
		log.WithError(err).Error("card service unreachable")
		return render.HintServerUnavailable, nil
	}
	if err != nil {
		log.WithError(err).Error("detail lookup failed")
		return render.HintUnknownError, nil
	}

	conv.State.Phase = PhaseDetail
	if err := m.save(ctx, conv); err != nil {
		return "", err
	}
	return "", m.msg.Edit(ctx, ev.ChatID, rc.Messages.Result, answer)
}

// findDecks searches decks containing the card on display. The deck list
// replies to the card view, which gets its controls back when the list is
// closed.
func (m *Machine) findDecks(ctx context.Context, ev Event, conv *conversation) (string, error) {
	card := conv.Card.Results.CardDetail
	if card == nil {
		return render.HintUnknownError, nil
	}

	deck := request.New()
	if err := deck.Set(request.DeckCards, strconv.Itoa(card.DbfID)); err != nil {
		return "", err
	}
	if hint, err := m.search(ctx, ev, request.KindDeck, deck); hint != "" || err != nil {
		return hint, err
	}
	deck.Return = request.ReturnResultList

	cardView := conv.Card.Messages.Result
	conv.Deck = deck
	conv.State = State{Phase: PhaseList, Kind: request.KindDeck}
	if err := m.save(ctx, conv); err != nil {
		return "", err
	}
	if err := m.msg.EditMarkup(ctx, ev.ChatID, cardView, render.Markup{}); err != nil {
		return "", err
	}
	return "", m.showResults(ctx, conv, deck, cardView)
}

// closeResults removes the result message and restores the view the search
// was started from.
func (m *Machine) closeResults(ctx context.Context, conv *conversation) error {
	rc := conv.active()
	result := rc.Messages.Result

	if rc.Return == request.ReturnResultList {
		conv.Deck = request.New()
		conv.State = State{Phase: PhaseDetail, Kind: request.KindCard}
		if err := m.save(ctx, conv); err != nil {
			return err
		}
		m.deleteQuietly(ctx, conv.chatID, result)

		card := conv.Card
		if card.Results == nil || card.Results.CardDetail == nil {
			return nil
		}
		return m.msg.EditMarkup(ctx, conv.chatID, card.Messages.Result, m.render.CardDetailMarkup(card.Results.CardDetail))
	}

	k := conv.State.Kind
	rc.Results = nil
	rc.Messages.Result = 0
	rc.Return = request.ReturnNone
	conv.State.Phase = PhaseBuilding
	if err := m.save(ctx, conv); err != nil {
		return err
	}
	m.deleteQuietly(ctx, conv.chatID, result)
	if rc.Messages.Request == 0 {
		return nil
	}
	return m.msg.EditMarkup(ctx, conv.chatID, rc.Messages.Request, m.render.RequestMarkup(k, rc))
}
