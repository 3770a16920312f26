package front

import "net/http"

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.Sessions.Token(r); !ok {
		s.redirect(w, r, "/login")
		return
	}
	s.redirect(w, r, "/orders")
}

func (s *Server) loginForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "login", "Log in", nil)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	res, err := s.API.Login(r.Context(), username, password)
	if err != nil {
		s.Sessions.Flash(w, r, FlashDanger, "Invalid credentials or connection error.")
		s.redirect(w, r, "/login")
		return
	}

	if err := s.Sessions.SetAuth(w, r, res.Token, res.Role); err != nil {
		s.Sessions.Flash(w, r, FlashDanger, "Could not start a session.")
		s.redirect(w, r, "/login")
		return
	}

	s.Sessions.Flash(w, r, FlashSuccess, "Logged in.")
	s.redirect(w, r, "/orders")
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.Sessions.Clear(w, r)
	s.Sessions.Flash(w, r, FlashInfo, "You are logged out.")
	s.redirect(w, r, "/login")
}

func (s *Server) registerForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "register", "Register", nil)
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	if err := s.API.Register(r.Context(), username, password, ""); err != nil {
		s.Sessions.Flash(w, r, FlashDanger, "Registration failed (user exists or fields missing).")
		s.redirect(w, r, "/register")
		return
	}

	s.Sessions.Flash(w, r, FlashSuccess, "Account created, you can now log in.")
	s.redirect(w, r, "/login")
}
