package server

import (
	"net/http"

	"github.com/Tomlord1122/planner-backend/internal/service"
)

func (s *Server) signUpHandler(w http.ResponseWriter, r *http.Request) {
	var req service.CredentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	session, err := s.services.Auth.SignUp(r.Context(), req)
	if err != nil {
		s.respondWithServiceError(w, r, err, service.OpSignUp)
		return
	}
	respondWithJSON(w, http.StatusCreated, session)
}

func (s *Server) signInHandler(w http.ResponseWriter, r *http.Request) {
	var req service.CredentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	session, err := s.services.Auth.SignIn(r.Context(), req)
	if err != nil {
		s.respondWithServiceError(w, r, err, service.OpSignIn)
		return
	}
	respondWithJSON(w, http.StatusOK, session)
}

func (s *Server) signOutHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Auth.SignOut(r.Context(), currentToken(r)); err != nil {
		s.respondWithServiceError(w, r, err, service.OpUnknown)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) requestResetHandler(w http.ResponseWriter, r *http.Request) {
	var req service.ResetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.services.Auth.RequestReset(r.Context(), req); err != nil {
		s.respondWithServiceError(w, r, err, service.OpResetPassword)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) confirmResetHandler(w http.ResponseWriter, r *http.Request) {
	var req service.ConfirmResetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.services.Auth.ConfirmReset(r.Context(), req); err != nil {
		s.respondWithServiceError(w, r, err, service.OpResetPassword)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) updateUserHandler(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := s.services.Auth.UpdateUser(r.Context(), currentUser(r).ID, req)
	if err != nil {
		s.respondWithServiceError(w, r, err, service.OpUpdateUser)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}
