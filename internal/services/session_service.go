package services

import (
	"context"
	"errors"
	"fmt"

	"lacasa/internal/domain"
	"lacasa/internal/session"
)

// SessionService handles what the shopper is looking at: screen, menu tab,
// dialogs and notices.
type SessionService struct {
	Sessions session.Store
}

func NewSessionService(sessions session.Store) *SessionService {
	return &SessionService{Sessions: sessions}
}

// Get returns the session of sid, or a fresh one for unknown ids.
func (s *SessionService) Get(ctx context.Context, sid string) (session.Session, error) {
	sess, err := s.Sessions.Load(ctx, sid)
	if errors.Is(err, session.ErrNotFound) {
		return session.New(), nil
	}
	return sess, err
}

// View returns the session for rendering and consumes its pending notices, so
// each one is shown exactly once.
func (s *SessionService) View(ctx context.Context, sid string) (session.Session, []session.Notice, error) {
	var notices []session.Notice
	sess, err := s.Sessions.Update(ctx, sid, func(sess *session.Session) error {
		notices = sess.TakeNotices()
		return nil
	})
	return sess, notices, err
}

func (s *SessionService) ShowHome(ctx context.Context, sid string) error {
	_, err := s.Sessions.Update(ctx, sid, func(sess *session.Session) error {
		sess.Screen = session.ScreenHome
		return nil
	})
	return err
}

// ShowMenu switches to the menu screen. An empty category keeps the current
// tab; anything outside the known set is rejected and nothing changes.
func (s *SessionService) ShowMenu(ctx context.Context, sid, category string) (domain.CategoryKey, error) {
	var key domain.CategoryKey
	if category != "" {
		var ok bool
		if key, ok = domain.ParseCategory(category); !ok {
			return "", fmt.Errorf("%w: %q", ErrInvalidCategory, category)
		}
	}
	sess, err := s.Sessions.Update(ctx, sid, func(sess *session.Session) error {
		sess.Screen = session.ScreenMenu
		if key != "" {
			sess.Category = key
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return sess.Category, nil
}

func (s *SessionService) OpenImage(ctx context.Context, sid, url, alt string) error {
	_, err := s.Sessions.Update(ctx, sid, func(sess *session.Session) error {
		sess.Dialog = session.ImageDialog{URL: url, Alt: alt}
		return nil
	})
	return err
}

func (s *SessionService) CloseDialog(ctx context.Context, sid string) error {
	_, err := s.Sessions.Update(ctx, sid, func(sess *session.Session) error {
		sess.CloseDialog()
		return nil
	})
	return err
}
