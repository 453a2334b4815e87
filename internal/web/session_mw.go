package web

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"melonsite/internal/session"
)

type ctxKey string

const sessionCtxKey ctxKey = "session"

const cookieName = "melonsite_session"

// SessionFrom returns the request's session. The session middleware installs
// one for every storefront route, so handlers may assume it is present.
func SessionFrom(ctx context.Context) *session.Session {
	s, _ := ctx.Value(sessionCtxKey).(*session.Session)
	return s
}

// withSession resolves the visitor's session from the signed cookie, or
// builds a fresh anonymous one. The fresh session is only persisted (and its
// cookie only issued) once something actually changes it, so plain page
// views from cookie-less visitors allocate nothing in the store.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, isNew := s.loadSession(r)
		ctx := context.WithValue(r.Context(), sessionCtxKey, sess)

		sw := &sessionWriter{
			ResponseWriter: w,
			srv:            s,
			req:            r,
			sess:           sess,
			isNew:          isNew,
		}
		next.ServeHTTP(sw, r.WithContext(ctx))
		sw.persist()
	})
}

func (s *Server) loadSession(r *http.Request) (sess *session.Session, isNew bool) {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return session.New(), true
	}

	sid, err := s.Cookies.Decode(c.Value)
	if err != nil {
		return session.New(), true
	}

	sess, ok, err := s.Sessions.Load(r.Context(), sid)
	if err != nil {
		s.Log.Error("session load failed", zap.Error(err), zap.String("session_id", sid))
		return session.New(), true
	}
	if !ok {
		// expired or evicted server-side; start over
		return session.New(), true
	}
	return sess, false
}

// sessionWriter persists the session just before the first byte of the
// response, while the Set-Cookie header can still be written.
type sessionWriter struct {
	http.ResponseWriter
	srv   *Server
	req   *http.Request
	sess  *session.Session
	isNew bool
	done  bool
}

func (w *sessionWriter) WriteHeader(code int) {
	w.persist()
	w.ResponseWriter.WriteHeader(code)
}

func (w *sessionWriter) Write(b []byte) (int, error) {
	w.persist()
	return w.ResponseWriter.Write(b)
}

func (w *sessionWriter) persist() {
	if w.done {
		return
	}
	w.done = true

	if !w.sess.Dirty() {
		return
	}

	if err := w.srv.Sessions.Save(w.req.Context(), w.sess); err != nil {
		w.srv.Log.Error("session save failed", zap.Error(err), zap.String("session_id", w.sess.ID))
		return
	}
	w.sess.MarkClean()

	if !w.isNew {
		return
	}

	tok, err := w.srv.Cookies.Encode(w.sess.ID)
	if err != nil {
		w.srv.Log.Error("session cookie sign failed", zap.Error(err))
		return
	}

	http.SetCookie(w.ResponseWriter, &http.Cookie{
		Name:     cookieName,
		Value:    tok,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
