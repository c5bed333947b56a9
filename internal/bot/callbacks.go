package bot

import (
	"context"
	"errors"
	"strconv"

	"hsbot/internal/callback"
	"hsbot/internal/pager"
	"hsbot/internal/render"
	"hsbot/internal/request"
)

// HandleCallback processes an inline button press. The returned hint, when
// non-empty, is shown to the user as a transient notice. Presses that no
// longer match the conversation state are ignored.
func (m *Machine) HandleCallback(ctx context.Context, ev Event) (string, error) {
	d, err := callback.Parse(ev.Text)
	if err != nil {
		m.logger(ev).WithError(err).Warn("ignoring callback")
		return render.HintUnknownError, nil
	}

	// Static hints need no state.
	switch {
	case d.Scope == callback.ScopeRequest && d.Action == callback.Language:
		return render.HintLanguage, nil
	case d.Scope == callback.ScopeRequest && d.Action == callback.Collectible:
		return render.HintCollectible, nil
	case d.Scope == callback.ScopeList && d.Action == callback.Pages:
		return render.HintPagesButton, nil
	}

	unlock := m.locks.lock(ev.ChatID)
	defer unlock()

	conv, err := m.load(ctx, ev.ChatID)
	if err != nil {
		return "", err
	}
	if conv.State.Kind != d.Kind {
		return m.stale(ev, conv, d)
	}

	switch d.Scope {
	case callback.ScopeRequest:
		return m.requestAction(ctx, ev, conv, d)
	case callback.ScopeParam:
		return m.paramAction(ctx, ev, conv, d)
	case callback.ScopeList:
		return m.listAction(ctx, ev, conv, d)
	case callback.ScopeDetail:
		return m.detailAction(ctx, ev, conv, d)
	}
	return m.stale(ev, conv, d)
}

func (m *Machine) stale(ev Event, conv *conversation, d callback.Data) (string, error) {
	m.logger(ev).WithField("callback", d.String()).WithField("phase", conv.State.Phase).Debug("stale callback")
	return "", nil
}

func building(p Phase) bool {
	return p == PhaseBuilding || p == PhaseAwaiting
}

// requestAction handles the controls of the request summary.
func (m *Machine) requestAction(ctx context.Context, ev Event, conv *conversation, d callback.Data) (string, error) {
	if !building(conv.State.Phase) {
		return m.stale(ev, conv, d)
	}
	k := d.Kind
	rc := conv.active()

	switch d.Action {
	case callback.Submit:
		return m.submit(ctx, ev, conv)
	case callback.Clear:
		rc.ClearFields(k)
		if err := m.save(ctx, conv); err != nil {
			return "", err
		}
		if rc.Pending != "" && rc.Messages.Prompt != 0 {
			if err := m.msg.Edit(ctx, ev.ChatID, rc.Messages.Prompt, m.render.Prompt(k, rc.Pending, rc, "")); err != nil {
				return "", err
			}
		}
		return "", m.msg.Edit(ctx, ev.ChatID, rc.Messages.Request, m.render.Request(k, rc))
	case callback.Close:
		if err := m.reset(ctx, conv); err != nil {
			return "", err
		}
		_, err := m.msg.Send(ctx, ev.ChatID, 0, m.render.Cancelled())
		return "", err
	}
	return m.stale(ev, conv, d)
}

// paramAction handles field selection on the summary and the controls of a
// field prompt.
func (m *Machine) paramAction(ctx context.Context, ev Event, conv *conversation, d callback.Data) (string, error) {
	if !building(conv.State.Phase) {
		return m.stale(ev, conv, d)
	}
	k := d.Kind
	rc := conv.active()

	f, err := request.ParseField(k, d.Field)
	if err != nil {
		return "", err
	}

	if d.Action == callback.Add {
		return "", m.openPrompt(ctx, conv, f)
	}

	// Prompt controls only apply to the field being solicited.
	if conv.State.Phase != PhaseAwaiting || rc.Pending != f {
		return m.stale(ev, conv, d)
	}
	switch d.Action {
	case callback.Cancel:
		prompt := rc.Messages.Prompt
		rc.Pending = ""
		rc.Messages.Prompt = 0
		conv.State.Phase = PhaseBuilding
		if err := m.save(ctx, conv); err != nil {
			return "", err
		}
		m.deleteQuietly(ctx, ev.ChatID, prompt)
		return "", nil
	case callback.Clear:
		rc.Clear(f)
		return "", m.finishField(ctx, conv)
	case callback.Pick:
		if err := request.CheckCode(m.ref, f, d.Value); err != nil {
			if errors.Is(err, request.ErrUnknownCode) {
				m.logger(ev).WithError(err).Warn("rejected choice")
				return render.HintUnknownError, nil
			}
			return "", err
		}
		if err := rc.Set(f, d.Value); err != nil {
			return "", err
		}
		return "", m.finishField(ctx, conv)
	}
	return m.stale(ev, conv, d)
}

// openPrompt solicits f. A prompt already open for another field is
// superseded.
func (m *Machine) openPrompt(ctx context.Context, conv *conversation, f request.Field) error {
	k := conv.State.Kind
	rc := conv.active()
	if !request.IsOffered(k, rc, f) {
		return nil
	}

	old := rc.Messages.Prompt
	rc.Pending = f
	rc.Messages.Prompt = 0
	conv.State.Phase = PhaseAwaiting
	if err := m.save(ctx, conv); err != nil {
		return err
	}
	m.deleteQuietly(ctx, conv.chatID, old)

	id, err := m.msg.Send(ctx, conv.chatID, rc.Messages.Request, m.render.Prompt(k, f, rc, ""))
	if err != nil {
		return err
	}
	rc.Messages.Prompt = id
	return m.save(ctx, conv)
}

// listAction handles the controls of a result list.
func (m *Machine) listAction(ctx context.Context, ev Event, conv *conversation, d callback.Data) (string, error) {
	if conv.State.Phase != PhaseList {
		return m.stale(ev, conv, d)
	}
	k := d.Kind
	rc := conv.active()
	if rc.Results == nil {
		return m.stale(ev, conv, d)
	}

	switch d.Action {
	case callback.Left, callback.Right:
		page, err := pager.Flip(pager.Direction(d.Action), rc.Results.Page, rc.Results.Pages())
		if err != nil {
			return "", err
		}
		rc.Results.Page = page
		if err := m.save(ctx, conv); err != nil {
			return "", err
		}
		return "", m.msg.Edit(ctx, ev.ChatID, rc.Messages.Result, m.render.ResultList(k, rc))
	case callback.Get:
		id, err := strconv.Atoi(d.Value)
		if err != nil {
			m.logger(ev).WithError(err).Warn("bad result id")
			return render.HintUnknownError, nil
		}
		return m.openDetail(ctx, ev, conv, id)
	case callback.Close:
		return "", m.closeResults(ctx, conv)
	}
	return m.stale(ev, conv, d)
}

// detailAction handles the controls of a single card or deck view.
func (m *Machine) detailAction(ctx context.Context, ev Event, conv *conversation, d callback.Data) (string, error) {
	if conv.State.Phase != PhaseDetail {
		return m.stale(ev, conv, d)
	}
	k := d.Kind
	rc := conv.active()
	if rc.Results == nil {
		return m.stale(ev, conv, d)
	}

	switch d.Action {
	case callback.Back:
		rc.Results.CardDetail = nil
		rc.Results.DeckDetail = nil
		conv.State.Phase = PhaseList
		if err := m.save(ctx, conv); err != nil {
			return "", err
		}
		return "", m.msg.Edit(ctx, ev.ChatID, rc.Messages.Result, m.render.ResultList(k, rc))
	case callback.Close:
		return "", m.closeResults(ctx, conv)
	case callback.Decks:
		if k != request.KindCard {
			return m.stale(ev, conv, d)
		}
		return m.findDecks(ctx, ev, conv)
	}
	return m.stale(ev, conv, d)
}
