package views

import (
	"fmt"
	"sort"

	"tableau/models"
)

// Stats are the dashboard headline numbers over the filtered request window.
type Stats struct {
	TotalUsers       int `json:"totalUsers"`
	TotalRequests    int `json:"totalRequests"`
	ApprovedRequests int `json:"approvedRequests"`
	PendingRequests  int `json:"pendingRequests"`
	RejectedRequests int `json:"rejectedRequests"`
	TotalPosts       int `json:"totalPosts"`
}

// StatusCounts is the per-status breakdown of the filtered window.
type StatusCounts struct {
	Pending  int `json:"PENDING"`
	Approved int `json:"APPROVED"`
	Rejected int `json:"REJECTED"`
}

// RoleCounts splits users into admins and normal users.
type RoleCounts struct {
	Admin  int `json:"admin"`
	Normal int `json:"normal"`
}

// CountryCount is one bar of the users-by-country chart.
type CountryCount struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// ActiveUser is one row of the top-contributors board.
type ActiveUser struct {
	UserID string `json:"userId"`
	Prenom string `json:"prenom"`
	Nom    string `json:"nom"`
	Pseudo string `json:"pseudo"`
	Count  int    `json:"count"`
}

// DashboardStats aggregates the filtered requests and the user collection.
// It is recomputed per call because the date window depends on the clock.
func (e *Engine) DashboardStats() Stats {
	requests := e.FilteredRequests()
	counts := countByStatus(requests)
	return Stats{
		TotalUsers:       len(e.store.Users.Items()),
		TotalRequests:    len(requests),
		ApprovedRequests: counts.Approved,
		PendingRequests:  counts.Pending,
		RejectedRequests: counts.Rejected,
		TotalPosts:       counts.Approved,
	}
}

// RequestsByStatus breaks the filtered window down by moderation state.
func (e *Engine) RequestsByStatus() StatusCounts {
	return countByStatus(e.FilteredRequests())
}

func countByStatus(requests []models.Request) StatusCounts {
	var c StatusCounts
	for _, r := range requests {
		switch r.Status {
		case models.StatusPending:
			c.Pending++
		case models.StatusApproved:
			c.Approved++
		case models.StatusRejected:
			c.Rejected++
		}
	}
	return c
}

// UsersByRole splits the user collection into admins and normal users.
func (e *Engine) UsersByRole() RoleCounts {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.byRole.get(e.store.Users.Version(), func() RoleCounts {
		var c RoleCounts
		for _, u := range e.store.Users.Items() {
			if u.Admin {
				c.Admin++
			} else {
				c.Normal++
			}
		}
		return c
	})
}

// UsersByCountry groups users by country, descending by count. Users with no
// country recorded group under "Unknown".
func (e *Engine) UsersByCountry() []CountryCount {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.byCountry.get(e.store.Users.Version(), func() []CountryCount {
		counts := make(map[string]int)
		for _, u := range e.store.Users.Items() {
			key := u.Pays
			if key == "" {
				key = "Unknown"
			}
			counts[key]++
		}
		out := make([]CountryCount, 0, len(counts))
		for label, value := range counts {
			out = append(out, CountryCount{Label: label, Value: value})
		}
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].Value != out[j].Value {
				return out[i].Value > out[j].Value
			}
			return out[i].Label < out[j].Label
		})
		return out
	})
}

// TopActiveUsers ranks users by the number of requests they authored,
// descending. Ties keep the user collection's order.
func (e *Engine) TopActiveUsers(n int) []ActiveUser {
	if n <= 0 {
		n = 5
	}
	e.mu.Lock()
	ranked := e.topActive.get(e.store.Users.Version(), e.store.Requests.Version(), func() []ActiveUser {
		counts := make(map[string]int)
		for _, r := range e.store.Requests.Items() {
			if r.UserID == "" {
				continue
			}
			counts[r.UserID]++
		}

		users := e.store.Users.Items()
		out := make([]ActiveUser, 0, len(users))
		for _, u := range users {
			out = append(out, ActiveUser{
				UserID: u.ID,
				Prenom: u.Prenom,
				Nom:    u.Nom,
				Pseudo: u.Pseudo,
				Count:  counts[u.ID],
			})
		}
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Count > out[j].Count
		})
		return out
	})
	e.mu.Unlock()

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return append([]ActiveUser(nil), ranked...)
}

// RecentActivity merges registration and request lifecycle events into one
// timeline, newest first. Events are synthesized from the collections, never
// stored: every user yields a registration event, every request a creation
// event, approved requests an approval event dated approvedAt, and rejected
// requests a rejection event dated createdAt.
func (e *Engine) RecentActivity() []models.Activity {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.recent.get(e.store.Users.Version(), e.store.Requests.Version(), func() []models.Activity {
		var items []models.Activity

		for _, u := range e.store.Users.Items() {
			items = append(items, models.Activity{
				ID:    "user-" + u.ID,
				Type:  models.ActivityUserRegistered,
				Date:  u.CreatedAt,
				Label: fmt.Sprintf("%s %s registered", u.Prenom, u.Nom),
			})
		}

		for _, r := range e.store.Requests.Items() {
			items = append(items, models.Activity{
				ID:    "req-created-" + r.ID,
				Type:  models.ActivityRequestCreated,
				Date:  r.CreatedAt,
				Label: "Request created: " + r.Title,
			})
			if r.Status == models.StatusApproved && r.ApprovedAt != "" {
				items = append(items, models.Activity{
					ID:    "req-approved-" + r.ID,
					Type:  models.ActivityRequestApproved,
					Date:  r.ApprovedAt,
					Label: "Request approved: " + r.Title,
				})
			}
			if r.Status == models.StatusRejected {
				items = append(items, models.Activity{
					ID:    "req-rejected-" + r.ID,
					Type:  models.ActivityRequestRejected,
					Date:  r.CreatedAt,
					Label: "Request rejected: " + r.Title,
				})
			}
		}

		sort.SliceStable(items, func(i, j int) bool {
			return models.ParseTimestamp(items[i].Date) > models.ParseTimestamp(items[j].Date)
		})
		return items
	})
}
