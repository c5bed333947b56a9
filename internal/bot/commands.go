package bot

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"hsbot/internal/render"
	"hsbot/internal/request"
)

// Commands understood by HandleCommand, without the leading slash.
const (
	CmdStart  = "start"
	CmdCancel = "cancel"
	CmdCards  = "cards"
	CmdDecks  = "decks"
	CmdDecode = "decode"
	CmdStats  = "stats"
)

// HandleCommand processes a slash command.
func (m *Machine) HandleCommand(ctx context.Context, ev Event, cmd string) error {
	unlock := m.locks.lock(ev.ChatID)
	defer unlock()

	conv, err := m.load(ctx, ev.ChatID)
	if err != nil {
		return err
	}
	return m.command(ctx, ev, conv, cmd)
}

func (m *Machine) command(ctx context.Context, ev Event, conv *conversation, cmd string) error {
	log := m.logger(ev).WithField("command", cmd)
	switch cmd {
	case CmdStart, CmdCancel:
		if err := m.reset(ctx, conv); err != nil {
			return err
		}
		a := m.render.Menu()
		if cmd == CmdCancel {
			a = m.render.Cancelled()
		}
		_, err := m.msg.Send(ctx, ev.ChatID, 0, a)
		return err
	case CmdCards:
		return m.startSearch(ctx, conv, request.KindCard)
	case CmdDecks:
		return m.startSearch(ctx, conv, request.KindDeck)
	case CmdDecode:
		return m.startDecode(ctx, conv)
	case CmdStats:
		return m.sendStats(ctx, ev)
	}
	log.Debug("unknown command")
	return nil
}

// startSearch drops whatever the conversation was doing and opens a fresh
// request summary of kind k.
func (m *Machine) startSearch(ctx context.Context, conv *conversation, k request.Kind) error {
	if err := m.reset(ctx, conv); err != nil {
		return err
	}
	conv.State = State{Phase: PhaseBuilding, Kind: k}
	if err := m.save(ctx, conv); err != nil {
		return err
	}

	if _, err := m.msg.Send(ctx, conv.chatID, 0, m.render.NewSearch(k)); err != nil {
		return err
	}
	rc := conv.request(k)
	id, err := m.msg.Send(ctx, conv.chatID, 0, m.render.Request(k, rc))
	if err != nil {
		return err
	}
	rc.Messages.Request = id
	return m.save(ctx, conv)
}

func (m *Machine) sendStats(ctx context.Context, ev Event) error {
	if m.stats == nil || m.adminID == 0 || ev.UserID != m.adminID {
		return nil
	}
	s, err := m.stats.Summary(ctx)
	if err != nil {
		m.logger(ev).WithError(err).Error("read search statistics")
		_, err = m.msg.Send(ctx, ev.ChatID, 0, render.Answer{Text: render.HintUnknownError})
		return err
	}
	_, err = m.msg.Send(ctx, ev.ChatID, 0, render.Answer{Text: s.Text()})
	return err
}

// HandleText processes a plain text message: reply keyboard buttons, deck
// codes, and values typed for the pending field.
func (m *Machine) HandleText(ctx context.Context, ev Event) error {
	unlock := m.locks.lock(ev.ChatID)
	defer unlock()

	conv, err := m.load(ctx, ev.ChatID)
	if err != nil {
		return err
	}

	text := strings.TrimSpace(ev.Text)
	switch {
	case strings.EqualFold(text, render.MenuCards):
		return m.command(ctx, ev, conv, CmdCards)
	case strings.EqualFold(text, render.MenuDecks):
		return m.command(ctx, ev, conv, CmdDecks)
	case strings.EqualFold(text, render.MenuDecode):
		return m.command(ctx, ev, conv, CmdDecode)
	}

	switch {
	case conv.State.Phase == PhaseDecoding:
		return m.decode(ctx, ev, conv, text)
	case conv.State.Phase == PhaseAwaiting:
		return m.input(ctx, ev, conv, text)
	case IsDeckCode(text):
		return m.decode(ctx, ev, conv, text)
	}
	m.logger(ev).WithField("phase", conv.State.Phase).Debug("ignoring text")
	return nil
}

// input handles text typed while a field is pending.
func (m *Machine) input(ctx context.Context, ev Event, conv *conversation, text string) error {
	k := conv.State.Kind
	rc := conv.active()
	f := rc.Pending
	if f == "" || f.Input() == request.InputChoice {
		return nil
	}
	defer m.deleteQuietly(ctx, ev.ChatID, ev.MessageID)

	values, err := request.ParseInput(f, text)
	var verr *request.ValidationError
	if errors.As(err, &verr) {
		m.logger(ev).WithFields(logrus.Fields{"field": f, "rule": verr.Rule}).Debug("rejected input")
		if rc.Messages.Prompt == 0 {
			return nil
		}
		return m.msg.Edit(ctx, ev.ChatID, rc.Messages.Prompt, m.render.Prompt(k, f, rc, verr.Rule))
	}
	if err != nil {
		return err
	}
	if err := rc.Set(f, values...); err != nil {
		return err
	}
	return m.finishField(ctx, conv)
}

// finishField closes the prompt of the pending field after the context has
// been mutated, persists, then re-renders the summary.
func (m *Machine) finishField(ctx context.Context, conv *conversation) error {
	k := conv.State.Kind
	rc := conv.active()
	prompt := rc.Messages.Prompt

	rc.Pending = ""
	rc.Messages.Prompt = 0
	conv.State.Phase = PhaseBuilding
	if err := m.save(ctx, conv); err != nil {
		return err
	}

	m.deleteQuietly(ctx, conv.chatID, prompt)
	if rc.Messages.Request == 0 {
		return nil
	}
	return m.msg.Edit(ctx, conv.chatID, rc.Messages.Request, m.render.Request(k, rc))
}
