package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Tomlord1122/planner-backend/internal/domain"
	"github.com/Tomlord1122/planner-backend/internal/service"
	"github.com/Tomlord1122/planner-backend/internal/upcoming"
)

var assignmentNames = map[string]domain.Assignment{
	"all":    domain.AssignmentAll,
	"mine":   domain.AssignmentMine,
	"shared": domain.AssignmentShared,
}

var dateFilterNames = map[string]upcoming.DateFilter{
	"none":       upcoming.FilterNone,
	"no_date":    upcoming.FilterNoDate,
	"this_week":  upcoming.FilterThisWeek,
	"next_week":  upcoming.FilterNextWeek,
	"this_month": upcoming.FilterThisMonth,
	"next_month": upcoming.FilterNextMonth,
}

var entryTypeNames = map[string]domain.EntryType{
	"appointment": domain.EntryAppointment,
	"todo":        domain.EntryTodo,
}

// enumParam reads an optional query parameter given either by name or by its
// numeric value. Range checks are left to the service.
func enumParam[T ~int](q url.Values, key string, names map[string]T) (T, error) {
	raw := q.Get(key)
	if raw == "" {
		return 0, nil
	}
	if v, ok := names[raw]; ok {
		return v, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return T(n), nil
}

func parseUpcomingQuery(q url.Values) (service.UpcomingQuery, error) {
	assignment, err := enumParam(q, "assignment", assignmentNames)
	if err != nil {
		return service.UpcomingQuery{}, err
	}
	filter, err := enumParam(q, "date_filter", dateFilterNames)
	if err != nil {
		return service.UpcomingQuery{}, err
	}
	typ, err := enumParam(q, "type", entryTypeNames)
	if err != nil {
		return service.UpcomingQuery{}, err
	}
	return service.UpcomingQuery{
		Assignment: assignment,
		Search:     q.Get("q"),
		DateFilter: filter,
		Type:       typ,
	}, nil
}

func (s *Server) upcomingHandler(w http.ResponseWriter, r *http.Request) {
	query, err := parseUpcomingQuery(r.URL.Query())
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	op := service.OpLoadUpcoming
	if query.Search != "" {
		op = service.OpSearch
	}
	groups, err := s.services.Upcoming.GetUpcoming(r.Context(), currentUser(r).ID, query)
	if err != nil {
		s.respondWithServiceError(w, r, err, op)
		return
	}
	respondWithJSON(w, http.StatusOK, groups)
}

func (s *Server) upcomingMealPlanHandler(w http.ResponseWriter, r *http.Request) {
	plans, err := s.services.Upcoming.GetMealPlans(r.Context())
	if err != nil {
		s.respondWithServiceError(w, r, err, service.OpLoadMealPlan)
		return
	}
	respondWithJSON(w, http.StatusOK, plans)
}
