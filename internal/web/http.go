package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"melonsite/internal/cart"
	"melonsite/internal/catalog"
	"melonsite/internal/customer"
	"melonsite/internal/session"
	"melonsite/pkg/kit"
)

type Server struct {
	Log       *zap.Logger
	Catalog   catalog.Store
	Customers customer.Directory
	Sessions  session.Store
	Cookies   *session.CookieCodec
	Templates *Templates
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.handleReady)

	r.Group(func(rr chi.Router) {
		rr.Use(s.withSession)

		rr.Get("/", s.home)
		rr.Get("/melons", s.listMelons)
		rr.Get("/melon/{id}", s.showMelon)
		rr.Get("/add_to_cart/{id}", s.addToCart)
		rr.Get("/cart", s.showCart)
		rr.Get("/login", s.showLogin)
		rr.Post("/login", s.processLogin)
		rr.Get("/logout", s.processLogout)
		rr.Get("/checkout", s.checkout)
	})

	r.NotFound(s.notFound)

	return r
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
	defer cancel()

	if err := s.Catalog.Ping(ctx); err != nil {
		s.Log.Warn("readyz failed: catalog", zap.Error(err))
		kit.WriteError(w, r, http.StatusServiceUnavailable, "catalog not ready", nil)
		return
	}
	if err := s.Customers.Ping(ctx); err != nil {
		s.Log.Warn("readyz failed: customers", zap.Error(err))
		kit.WriteError(w, r, http.StatusServiceUnavailable, "customer directory not ready", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// pageData feeds the base layout plus whichever page is being rendered.
type pageData struct {
	Title   string
	Email   string
	Flashes []string

	Melons  []catalog.Melon
	Melon   catalog.Melon
	Cart    cart.Summary
	Message string
}

// render consumes pending flashes into the page, so every notice is shown
// exactly once, on whichever page the visitor lands on next.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, data pageData) {
	if sess := SessionFrom(r.Context()); sess != nil {
		data.Email = sess.Email
		data.Flashes = sess.ConsumeFlashes()
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	if err := s.Templates.Render(w, page, data); err != nil {
		s.Log.Error("template render failed", zap.Error(err), zap.String("page", page))
	}
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, "notfound", pageData{
		Title:   "Not Found",
		Message: "We don't have a page there.",
	})
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, msg string) {
	s.render(w, r, http.StatusInternalServerError, "error", pageData{
		Title:   "Something Went Wrong",
		Message: msg,
	})
}

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "home", pageData{Title: "Welcome"})
}

func (s *Server) listMelons(w http.ResponseWriter, r *http.Request) {
	melons, err := s.Catalog.All(r.Context())
	if err != nil {
		s.Log.Error("list melons failed", zap.Error(err))
		s.serverError(w, r, "The catalog is unavailable right now.")
		return
	}
	s.render(w, r, http.StatusOK, "melons", pageData{Title: "All Melons", Melons: melons})
}

func (s *Server) showMelon(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	m, ok, err := s.Catalog.Get(r.Context(), id)
	if err != nil {
		s.Log.Error("get melon failed", zap.Error(err), zap.String("id", id))
		s.serverError(w, r, "The catalog is unavailable right now.")
		return
	}
	if !ok {
		s.render(w, r, http.StatusNotFound, "notfound", pageData{
			Title:   "No Such Melon",
			Message: "We don't sell a melon by that name.",
		})
		return
	}
	s.render(w, r, http.StatusOK, "melon", pageData{Title: m.Name, Melon: m})
}

func (s *Server) addToCart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess := SessionFrom(r.Context())

	// Resolve first so the confirmation can name the melon; an id nobody
	// sells gets a not-found page instead of a cart entry.
	m, ok, err := s.Catalog.Get(r.Context(), id)
	if err != nil {
		s.Log.Error("get melon failed", zap.Error(err), zap.String("id", id))
		s.serverError(w, r, "The catalog is unavailable right now.")
		return
	}
	if !ok {
		s.render(w, r, http.StatusNotFound, "notfound", pageData{
			Title:   "No Such Melon",
			Message: "We don't sell a melon by that name.",
		})
		return
	}

	sess.Cart.AddOne(id)
	sess.Touch()
	sess.Flash("You've added " + m.Name + " to your cart")

	http.Redirect(w, r, "/cart", http.StatusFound)
}

func (s *Server) showCart(w http.ResponseWriter, r *http.Request) {
	sess := SessionFrom(r.Context())

	sum, err := sess.Cart.Materialize(r.Context(), s.Catalog)
	if err != nil {
		if errors.Is(err, cart.ErrUnknownItem) {
			s.Log.Error("cart integrity error", zap.Error(err), zap.String("session_id", sess.ID))
			s.serverError(w, r, "Your cart references a melon we no longer sell. Please contact support.")
			return
		}
		s.Log.Error("materialize cart failed", zap.Error(err))
		s.serverError(w, r, "The catalog is unavailable right now.")
		return
	}

	s.render(w, r, http.StatusOK, "cart", pageData{Title: "Shopping Cart", Cart: sum})
}

func (s *Server) showLogin(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "login", pageData{Title: "Log In"})
}

func (s *Server) processLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	sess := SessionFrom(r.Context())
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	err := sess.Login(r.Context(), s.Customers, email, password)
	switch {
	case err == nil:
		http.Redirect(w, r, "/melons", http.StatusFound)
	case errors.Is(err, session.ErrNoSuchCustomer), errors.Is(err, session.ErrBadPassword):
		// the failure notice is already flashed; back to the form
		http.Redirect(w, r, "/login", http.StatusFound)
	default:
		s.Log.Error("login failed", zap.Error(err))
		s.serverError(w, r, "We couldn't check your credentials right now.")
	}
}

func (s *Server) processLogout(w http.ResponseWriter, r *http.Request) {
	SessionFrom(r.Context()).Logout()
	http.Redirect(w, r, "/melons", http.StatusFound)
}

func (s *Server) checkout(w http.ResponseWriter, r *http.Request) {
	SessionFrom(r.Context()).Flash(session.NoticeCheckoutStub)
	http.Redirect(w, r, "/melons", http.StatusFound)
}
