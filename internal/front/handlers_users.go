package front

import "net/http"

func (s *Server) adminUsers(w http.ResponseWriter, r *http.Request) {
	token, ok := s.requireLogin(w, r)
	if !ok {
		return
	}
	if s.Sessions.Role(r) != "admin" {
		s.Sessions.Flash(w, r, FlashDanger, "Admin rights required.")
		s.redirect(w, r, "/orders")
		return
	}

	users, err := s.API.Users(r.Context(), token)
	if err != nil {
		s.Sessions.Flash(w, r, FlashDanger, "Could not fetch the user list.")
		users = nil
	}

	s.render(w, r, "admin", "Users", users)
}

// userHome is where user-management actions land: admins back on the panel,
// everyone else on their orders.
func (s *Server) userHome(r *http.Request) string {
	if s.Sessions.Role(r) == "admin" {
		return "/admin"
	}
	return "/orders"
}

func (s *Server) editUserForm(w http.ResponseWriter, r *http.Request) {
	token, ok := s.requireLogin(w, r)
	if !ok {
		return
	}

	id, ok := urlID(r)
	if !ok {
		s.redirect(w, r, s.userHome(r))
		return
	}

	u, err := s.API.User(r.Context(), token, id)
	if err != nil {
		s.Sessions.Flash(w, r, FlashDanger, "User not found or access denied.")
		s.redirect(w, r, s.userHome(r))
		return
	}

	s.render(w, r, "user_form", "Edit user", u)
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	token, ok := s.requireLogin(w, r)
	if !ok {
		return
	}

	id, ok := urlID(r)
	if !ok {
		s.redirect(w, r, s.userHome(r))
		return
	}
	if !s.Sessions.CheckCSRF(r) {
		s.Sessions.Flash(w, r, FlashDanger, "Invalid form token.")
		s.redirect(w, r, s.userHome(r))
		return
	}

	var payload UserPayload
	if password := r.PostFormValue("password"); password != "" {
		payload.Password = &password
	}
	if role := r.PostFormValue("role"); role != "" {
		payload.Role = &role
	}

	switch err := s.API.UpdateUser(r.Context(), token, id, payload); {
	case err == nil:
		s.Sessions.Flash(w, r, FlashSuccess, "User updated.")
	case StatusOf(err) == http.StatusForbidden:
		s.Sessions.Flash(w, r, FlashDanger, "Access denied.")
	default:
		s.Sessions.Flash(w, r, FlashDanger, "Could not update the user.")
	}
	s.redirect(w, r, s.userHome(r))
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	token, ok := s.requireLogin(w, r)
	if !ok {
		return
	}
	if s.Sessions.Role(r) != "admin" {
		s.Sessions.Flash(w, r, FlashDanger, "Access denied.")
		s.redirect(w, r, "/orders")
		return
	}

	id, ok := urlID(r)
	if !ok {
		s.redirect(w, r, "/admin")
		return
	}
	if !s.Sessions.CheckCSRF(r) {
		s.Sessions.Flash(w, r, FlashDanger, "Invalid form token.")
		s.redirect(w, r, "/admin")
		return
	}

	switch err := s.API.DeleteUser(r.Context(), token, id); {
	case err == nil:
		s.Sessions.Flash(w, r, FlashInfo, "User deleted.")
	case StatusOf(err) == http.StatusNotFound:
		s.Sessions.Flash(w, r, FlashDanger, "User not found.")
	default:
		s.Sessions.Flash(w, r, FlashDanger, "Could not delete the user.")
	}
	s.redirect(w, r, "/admin")
}
