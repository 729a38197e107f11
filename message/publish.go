package message

import (
	"xdao.co/mam/command"
	"xdao.co/mam/link"
	"xdao.co/mam/storage"
)

// Publish wraps spec, stores the message in msgs and records its final
// transcript in links under the message's link, so later messages can join
// onto it.
func Publish(cfg Config, spec command.Spec, msgs storage.Store, links link.Store) (link.Link, *Wrapped, error) {
	w, err := Wrap(cfg, spec)
	if err != nil {
		return link.Link{}, nil, err
	}
	l, err := msgs.Put(w.Trits)
	if err != nil {
		return link.Link{}, nil, command.WrapError(command.KindLink, command.RuleLinkLookup, "message: store message", err)
	}
	if err := links.Update(l, w.Spongos.Fork(), link.Info{Size: len(w.Trits)}); err != nil {
		return link.Link{}, nil, command.WrapError(command.KindLink, command.RuleLinkLookup, "message: store link", err)
	}
	return l, w, nil
}

// Fetch loads the message addressed by l from msgs, unwraps it with spec
// and records its final transcript in links.
func Fetch(cfg Config, spec command.Spec, l link.Link, msgs storage.Store, links link.Store) error {
	msg, err := msgs.Get(l)
	if err != nil {
		return command.WrapError(command.KindLink, command.RuleLinkLookup, "message: fetch "+l.String(), err)
	}
	s, err := Unwrap(cfg, spec, msg)
	if err != nil {
		return err
	}
	if err := links.Update(l, s.Fork(), link.Info{Size: len(msg)}); err != nil {
		return command.WrapError(command.KindLink, command.RuleLinkLookup, "message: store link", err)
	}
	return nil
}
