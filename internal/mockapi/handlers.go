package mockapi

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/naveenspark/venuebook/internal/datetime"
	"github.com/naveenspark/venuebook/pkg/domain"
)

// Auth

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds domain.Credentials
	if err := decodeJSON(r, &creds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	profile, token := mockIdentity(strings.TrimSpace(creds.Username))

	s.mu.Lock()
	s.sessions[token] = profile
	s.mu.Unlock()

	s.log.Info().Str("username", profile.Username).Str("role", string(profile.Role)).Msg("mock login")
	writeOK(w, domain.LoginResult{Token: token, User: &profile})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r.Header.Get("Authorization"))
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	writeOK(w, nil)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	writeOK(w, caller(r.Context()))
}

// Applications

func (s *Server) venueNameLocked(id int64) string {
	for _, v := range s.venues {
		if v.ID == id {
			return v.Name
		}
	}
	return ""
}

func (s *Server) findApplicationLocked(id int64) int {
	for i, a := range s.applications {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// filterApplications applies the status and keyword query parameters, then
// page and page_size when present.
func filterApplications(r *http.Request, apps []domain.Application) []domain.Application {
	q := r.URL.Query()
	status := q.Get("status")
	keyword := strings.ToLower(q.Get("keyword"))

	out := make([]domain.Application, 0, len(apps))
	for _, a := range apps {
		if status != "" && !strings.EqualFold(a.Status, status) {
			continue
		}
		if keyword != "" && !strings.Contains(strings.ToLower(a.ActivityName), keyword) {
			continue
		}
		out = append(out, a)
	}

	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("page_size"))
	if page > 0 && size > 0 {
		start := (page - 1) * size
		if start >= len(out) {
			return []domain.Application{}
		}
		end := start + size
		if end > len(out) {
			end = len(out)
		}
		out = out[start:end]
	}
	return out
}

func (s *Server) withVenueNamesLocked(apps []domain.Application) []domain.Application {
	out := make([]domain.Application, len(apps))
	for i, a := range apps {
		a.VenueName = s.venueNameLocked(a.VenueID)
		out[i] = a
	}
	return out
}

func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	var in domain.ApplicationInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if strings.TrimSpace(in.ActivityName) == "" {
		writeFailure(w, http.StatusBadRequest, "activity name is required")
		return
	}
	start, okStart := datetime.Parse(in.StartTime)
	end, okEnd := datetime.Parse(in.EndTime)
	if !okStart || !okEnd || !start.Before(end) {
		writeFailure(w, http.StatusBadRequest, "start time must be before end time")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	venue := -1
	for i, v := range s.venues {
		if v.ID == in.VenueID {
			venue = i
		}
	}
	if venue < 0 {
		writeError(w, http.StatusNotFound, "venue not found")
		return
	}
	if s.venues[venue].Status != domain.VenueOpen {
		writeFailure(w, http.StatusConflict, "venue is not open for booking")
		return
	}
	for _, a := range s.applications {
		if a.VenueID == in.VenueID && occupies(a) && overlaps(a.StartTime, a.EndTime, in.StartTime, in.EndTime) {
			writeFailure(w, http.StatusConflict, "venue is already booked for that time")
			return
		}
	}

	s.nextID++
	app := domain.Application{
		ID:                 s.nextID,
		ActivityName:       in.ActivityName,
		ApplicantUsername:  caller(r.Context()).Username,
		VenueID:            in.VenueID,
		StartTime:          datetime.Normalize(in.StartTime),
		EndTime:            datetime.Normalize(in.EndTime),
		Status:             domain.StatusPending,
		RequestedMaterials: in.RequestedMaterials,
	}
	s.applications = append(s.applications, app)
	app.VenueName = s.venues[venue].Name
	writeOK(w, app)
}

// occupies reports whether an application holds its venue slot.
func occupies(a domain.Application) bool {
	return a.Status == domain.StatusPending || a.Status == domain.StatusApproved
}

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeOK(w, s.withVenueNamesLocked(filterApplications(r, s.applications)))
}

func (s *Server) handleMyApplications(w http.ResponseWriter, r *http.Request) {
	me := caller(r.Context()).Username

	s.mu.Lock()
	defer s.mu.Unlock()
	var mine []domain.Application
	for _, a := range s.applications {
		if a.ApplicantUsername == me {
			mine = append(mine, a)
		}
	}
	writeOK(w, s.withVenueNamesLocked(filterApplications(r, mine)))
}

func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	me := caller(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findApplicationLocked(id)
	if i < 0 {
		writeError(w, http.StatusNotFound, "application not found")
		return
	}
	app := s.applications[i]
	if me.Role != domain.RoleAdmin && me.Role != domain.RoleReviewer && app.ApplicantUsername != me.Username {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}
	app.VenueName = s.venueNameLocked(app.VenueID)
	writeOK(w, app)
}

func (s *Server) handleCancelApplication(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	me := caller(r.Context()).Username

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findApplicationLocked(id)
	if i < 0 || s.applications[i].ApplicantUsername != me {
		writeError(w, http.StatusNotFound, "application not found")
		return
	}
	if !s.applications[i].Pending() {
		writeFailure(w, http.StatusConflict, "only pending applications can be cancelled")
		return
	}
	s.applications[i].Status = domain.StatusCancelled
	writeOK(w, nil)
}

func (s *Server) handlePendingApprovals(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var pending []domain.Application
	for _, a := range s.applications {
		if a.Pending() {
			pending = append(pending, a)
		}
	}
	writeOK(w, s.withVenueNamesLocked(filterApplications(r, pending)))
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	s.decide(w, r, domain.StatusApproved, "")
}

func (s *Server) handleReject(w http.ResponseWriter, r *http.Request) {
	var in domain.RejectInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if strings.TrimSpace(in.Reason) == "" {
		writeFailure(w, http.StatusBadRequest, "a rejection reason is required")
		return
	}
	s.decide(w, r, domain.StatusRejected, in.Reason)
}

func (s *Server) decide(w http.ResponseWriter, r *http.Request, status, reason string) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findApplicationLocked(id)
	if i < 0 {
		writeError(w, http.StatusNotFound, "application not found")
		return
	}
	app := &s.applications[i]
	if !app.Pending() {
		writeFailure(w, http.StatusConflict, "application has already been decided")
		return
	}
	app.Status = status
	app.RejectReason = reason

	content := "Your application \"" + app.ActivityName + "\" was " + status + "."
	if reason != "" {
		content += " Reason: " + reason
	}
	s.notifyLocked(app.ApplicantUsername, "Application "+status, content)
	writeOK(w, nil)
}

// Venues

func (s *Server) handleListVenues(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Venue, 0, len(s.venues))
	for _, v := range s.venues {
		if status == "" || v.Status == status {
			out = append(out, v)
		}
	}
	writeOK(w, out)
}

func (s *Server) handleAvailableVenues(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, end := q.Get("start_time"), q.Get("end_time")
	st, okStart := datetime.Parse(start)
	et, okEnd := datetime.Parse(end)
	if !okStart || !okEnd || !st.Before(et) {
		writeFailure(w, http.StatusBadRequest, "start_time and end_time are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Venue, 0, len(s.venues))
	for _, v := range s.venues {
		if v.Status != domain.VenueOpen {
			continue
		}
		free := true
		for _, a := range s.applications {
			if a.VenueID == v.ID && occupies(a) && overlaps(a.StartTime, a.EndTime, start, end) {
				free = false
				break
			}
		}
		if free {
			out = append(out, v)
		}
	}
	writeOK(w, out)
}

func (s *Server) handleVenueBookings(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	q := r.URL.Query()
	from, to := q.Get("start_time"), q.Get("end_time")

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.venueNameLocked(id) == "" {
		writeError(w, http.StatusNotFound, "venue not found")
		return
	}
	out := make([]domain.Booking, 0)
	for _, a := range s.applications {
		if a.VenueID != id || !occupies(a) {
			continue
		}
		if from != "" && to != "" && !overlaps(a.StartTime, a.EndTime, from, to) {
			continue
		}
		out = append(out, domain.Booking{
			ApplicationID: a.ID,
			ActivityName:  a.ActivityName,
			Applicant:     a.ApplicantUsername,
			StartTime:     a.StartTime,
			EndTime:       a.EndTime,
			Status:        a.Status,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		ti, _ := datetime.Millis(out[i].StartTime)
		tj, _ := datetime.Millis(out[j].StartTime)
		return ti < tj
	})
	writeOK(w, out)
}

func validVenue(in domain.VenueInput) string {
	if strings.TrimSpace(in.Name) == "" {
		return "venue name is required"
	}
	if in.Capacity <= 0 {
		return "capacity must be positive"
	}
	if in.Status != "" && in.Status != domain.VenueOpen && in.Status != domain.VenueMaintenance {
		return "unknown venue status"
	}
	return ""
}

func (s *Server) handleCreateVenue(w http.ResponseWriter, r *http.Request) {
	var in domain.VenueInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if msg := validVenue(in); msg != "" {
		writeFailure(w, http.StatusBadRequest, msg)
		return
	}
	if in.Status == "" {
		in.Status = domain.VenueOpen
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	v := domain.Venue{ID: s.nextID, Name: in.Name, Location: in.Location, Capacity: in.Capacity, Status: in.Status}
	s.venues = append(s.venues, v)
	writeOK(w, v)
}

func (s *Server) handleUpdateVenue(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var in domain.VenueInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if msg := validVenue(in); msg != "" {
		writeFailure(w, http.StatusBadRequest, msg)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.venues {
		if s.venues[i].ID != id {
			continue
		}
		v := &s.venues[i]
		v.Name, v.Location, v.Capacity = in.Name, in.Location, in.Capacity
		if in.Status != "" {
			v.Status = in.Status
		}
		writeOK(w, *v)
		return
	}
	writeError(w, http.StatusNotFound, "venue not found")
}

func (s *Server) handleDeleteVenue(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.applications {
		if a.VenueID == id && occupies(a) {
			writeFailure(w, http.StatusConflict, "venue has active bookings")
			return
		}
	}
	for i, v := range s.venues {
		if v.ID == id {
			s.venues = append(s.venues[:i], s.venues[i+1:]...)
			writeOK(w, nil)
			return
		}
	}
	writeError(w, http.StatusNotFound, "venue not found")
}

// Materials

func (s *Server) handleListMaterials(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Material, 0, len(s.materials))
	for _, m := range s.materials {
		if category == "" || m.Category == category {
			out = append(out, m)
		}
	}
	writeOK(w, out)
}

func validMaterial(in domain.MaterialInput) string {
	if strings.TrimSpace(in.Name) == "" {
		return "material name is required"
	}
	if in.TotalStock < 0 {
		return "stock cannot be negative"
	}
	return ""
}

func (s *Server) handleCreateMaterial(w http.ResponseWriter, r *http.Request) {
	var in domain.MaterialInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if msg := validMaterial(in); msg != "" {
		writeFailure(w, http.StatusBadRequest, msg)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	m := domain.Material{ID: s.nextID, Name: in.Name, Category: in.Category, TotalStock: in.TotalStock}
	s.materials = append(s.materials, m)
	writeOK(w, m)
}

func (s *Server) handleUpdateMaterial(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var in domain.MaterialInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if msg := validMaterial(in); msg != "" {
		writeFailure(w, http.StatusBadRequest, msg)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.materials {
		if s.materials[i].ID == id {
			s.materials[i] = domain.Material{ID: id, Name: in.Name, Category: in.Category, TotalStock: in.TotalStock}
			writeOK(w, s.materials[i])
			return
		}
	}
	writeError(w, http.StatusNotFound, "material not found")
}

func (s *Server) handleDeleteMaterial(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.materials {
		if m.ID == id {
			s.materials = append(s.materials[:i], s.materials[i+1:]...)
			writeOK(w, nil)
			return
		}
	}
	writeError(w, http.StatusNotFound, "material not found")
}

func (s *Server) handleGetThreshold(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeOK(w, domain.AlertThreshold{Threshold: s.threshold})
}

func (s *Server) handleSetThreshold(w http.ResponseWriter, r *http.Request) {
	var in domain.AlertThreshold
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if in.Threshold < domain.MinAlertThreshold || in.Threshold > domain.MaxAlertThreshold {
		writeFailure(w, http.StatusBadRequest, "threshold must be between 1 and 100")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.threshold = in.Threshold
	writeOK(w, domain.AlertThreshold{Threshold: s.threshold})
}

// Users

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	role := domain.Role(r.URL.Query().Get("role"))

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		if role == "" || u.Role == role {
			out = append(out, u)
		}
	}
	writeOK(w, out)
}

// Dashboard

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := domain.DashboardStats{
		TotalApplications: len(s.applications),
		TotalVenues:       len(s.venues),
		TotalMaterials:    len(s.materials),
		TotalUsers:        len(s.users),
	}
	for _, a := range s.applications {
		switch a.Status {
		case domain.StatusPending:
			stats.PendingApplications++
		case domain.StatusApproved:
			stats.ApprovedApplications++
		case domain.StatusRejected:
			stats.RejectedApplications++
		}
	}
	writeOK(w, stats)
}

// handleTrends counts applications per start date over the last n days,
// ending today in the service time zone.
func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	days, err := strconv.Atoi(r.URL.Query().Get("days"))
	if err != nil || days <= 0 {
		days = 7
	}
	if days > 90 {
		days = 90
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[string]int)
	for _, a := range s.applications {
		counts[datetime.DateKey(a.StartTime)]++
	}

	today := s.now().In(datetime.Zone)
	out := make([]domain.TrendPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		key := today.AddDate(0, 0, -i).Format("2006-01-02")
		out = append(out, domain.TrendPoint{Date: key, Count: counts[key]})
	}
	writeOK(w, out)
}

// Notifications

func (s *Server) notifyLocked(username, title, content string) {
	s.nextID++
	n := domain.Notification{
		ID:        s.nextID,
		Title:     title,
		Content:   content,
		CreatedAt: datetime.FormatCanonical(s.now()),
	}
	s.notifications[username] = append([]domain.Notification{n}, s.notifications[username]...)
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	me := caller(r.Context()).Username
	unread := r.URL.Query().Get("unread") == "true"

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Notification, 0, len(s.notifications[me]))
	for _, n := range s.notifications[me] {
		if unread && n.IsRead {
			continue
		}
		out = append(out, n)
	}
	writeOK(w, out)
}

func (s *Server) handleReadNotification(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	me := caller(r.Context()).Username

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications[me] {
		if s.notifications[me][i].ID == id {
			s.notifications[me][i].IsRead = true
			writeOK(w, nil)
			return
		}
	}
	writeError(w, http.StatusNotFound, "notification not found")
}

func (s *Server) handleReadAll(w http.ResponseWriter, r *http.Request) {
	me := caller(r.Context()).Username

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications[me] {
		s.notifications[me][i].IsRead = true
	}
	writeOK(w, nil)
}
