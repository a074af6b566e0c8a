package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/Tomlord1122/planner-backend/internal/service"
)

type sessionKey struct{}

type session struct {
	user  *service.UserResponse
	token string
}

type queryTokenKey struct{}

// extractQueryToken moves the token query parameter into the request context
// and removes it from the URL, so it never shows up in the access log. Only
// routes wrapped with requireAuthOrQueryToken accept it.
func extractQueryToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if !q.Has("token") {
			next.ServeHTTP(w, r)
			return
		}
		token := q.Get("token")
		q.Del("token")

		u := *r.URL
		u.RawQuery = q.Encode()
		r = r.WithContext(context.WithValue(r.Context(), queryTokenKey{}, token))
		r.URL = &u
		r.RequestURI = u.RequestURI()
		next.ServeHTTP(w, r)
	})
}

// bearerToken reads "Authorization: Bearer <token>". With allowQuery the
// token extracted from the query string is used when no header is sent.
func bearerToken(r *http.Request, allowQuery bool) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if !allowQuery {
		return ""
	}
	token, _ := r.Context().Value(queryTokenKey{}).(string)
	return token
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return s.authenticate(next, false)
}

// requireAuthOrQueryToken is for EventSource and calendar subscriptions,
// which cannot set headers.
func (s *Server) requireAuthOrQueryToken(next http.Handler) http.Handler {
	return s.authenticate(next, true)
}

func (s *Server) authenticate(next http.Handler, allowQuery bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r, allowQuery)
		if token == "" {
			w.Header().Set("WWW-Authenticate", `Bearer realm="planner"`)
			respondWithError(w, http.StatusUnauthorized, "Missing bearer token")
			return
		}

		user, err := s.services.Auth.Authenticate(r.Context(), token)
		if err != nil {
			if errors.Is(err, service.ErrUnauthorized) {
				w.Header().Set("WWW-Authenticate", `Bearer realm="planner", error="invalid_token"`)
				respondWithError(w, http.StatusUnauthorized, "Invalid or expired session")
				return
			}
			log.Printf("Error authenticating request: %v", err)
			respondWithError(w, http.StatusInternalServerError, service.FailureMessage(s.locale, service.OpUnknown))
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey{}, session{user: user, token: token})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// currentUser is only valid behind requireAuth.
func currentUser(r *http.Request) *service.UserResponse {
	sess, _ := r.Context().Value(sessionKey{}).(session)
	return sess.user
}

func currentToken(r *http.Request) string {
	sess, _ := r.Context().Value(sessionKey{}).(session)
	return sess.token
}
