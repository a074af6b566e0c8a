package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/Tomlord1122/planner-backend/internal/dates"
	"github.com/Tomlord1122/planner-backend/internal/realtime"
)

// viewFromQuery describes the list the subscribing client shows.
// view defaults to the planner, date to today.
func (s *Server) viewFromQuery(r *http.Request) (realtime.View, error) {
	q := r.URL.Query()
	v := realtime.View{
		Name:   realtime.ViewPlanner,
		Date:   s.dates.Today(),
		UserID: currentUser(r).ID,
	}

	switch name := q.Get("view"); name {
	case "", string(realtime.ViewPlanner):
	case string(realtime.ViewUpcoming):
		v.Name = realtime.ViewUpcoming
	default:
		return v, fmt.Errorf("invalid view %q", name)
	}

	if raw := q.Get("date"); raw != "" && raw != "today" {
		d, err := dates.ParseDate(raw)
		if err != nil {
			return v, fmt.Errorf("invalid date %q", raw)
		}
		v.Date = d
	}

	a, err := enumParam(q, "assignment", assignmentNames)
	if err != nil {
		return v, err
	}
	if !a.Valid() {
		return v, fmt.Errorf("invalid assignment %d", a)
	}
	v.Assignment = a
	return v, nil
}

// changesHandler streams change notifications relevant to one view as
// server-sent events until the client disconnects.
func (s *Server) changesHandler(w http.ResponseWriter, r *http.Request) {
	if s.broker == nil {
		respondWithError(w, http.StatusServiceUnavailable, "Live updates are not available")
		return
	}
	view, err := s.viewFromQuery(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	rc := http.NewResponseController(w)
	_ = rc.SetWriteDeadline(time.Time{})

	events, cancel := s.broker.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if _, err := fmt.Fprint(w, ": connected\n\n"); err != nil {
		return
	}
	if err := rc.Flush(); err != nil {
		log.Printf("Streaming not supported: %v", err)
		return
	}

	ticker := time.NewTicker(s.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
		case e, ok := <-events:
			if !ok {
				return
			}
			if !view.ShouldReload(e) {
				continue
			}
			data, err := json.Marshal(e)
			if err != nil {
				log.Printf("Error marshaling change event: %v", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: change\ndata: %s\n\n", data); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}
