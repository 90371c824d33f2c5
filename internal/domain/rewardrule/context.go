package rewardrule

import (
	"time"

	"github.com/phenobarbital/nav-rewards/internal/entity"
	"github.com/phenobarbital/nav-rewards/pkg/xredis"
)

// EvalContext carries the user under evaluation and a snapshot of the acting
// session. It lives for a single evaluation call and is never persisted.
type EvalContext struct {
	User    entity.User
	Session entity.Map
}

func NewEvalContext(user entity.User, session entity.Map) *EvalContext {
	if session == nil {
		session = entity.Map{}
	}

	return &EvalContext{User: user, Session: session}
}

// Store merges the session snapshot over the user attributes. Condition keys
// are matched against this view.
func (ec *EvalContext) Store() entity.Map {
	store := entity.Map{}
	for k, v := range ec.User.Attributes {
		store[k] = v
	}

	store["user_id"] = ec.User.ID
	store["email"] = ec.User.Email
	store["job_code"] = ec.User.JobCode

	for k, v := range ec.Session {
		store[k] = v
	}

	return store
}

// SessionUserID is the id of the acting user, empty for system-triggered
// evaluations.
func (ec *EvalContext) SessionUserID() string {
	id, ok := ec.Session["user_id"].(string)
	if !ok {
		return ""
	}

	return id
}

func (ec *EvalContext) sessionStrings(key string) []string {
	value, ok := ec.Session[key]
	if !ok {
		return nil
	}

	switch t := value.(type) {
	case []string:
		return t
	case []any:
		result := make([]string, 0, len(t))
		for _, v := range t {
			if s, ok := v.(string); ok {
				result = append(result, s)
			}
		}
		return result
	}

	return nil
}

// Groups returns the acting session groups, falling back to the user groups.
func (ec *EvalContext) Groups() []string {
	if groups := ec.sessionStrings("groups"); groups != nil {
		return groups
	}

	return ec.User.Groups
}

// Programs returns the acting session programs, falling back to the user
// programs.
func (ec *EvalContext) Programs() []string {
	if programs := ec.sessionStrings("programs"); programs != nil {
		return programs
	}

	return ec.User.Programs
}

// Environment is a point-in-time snapshot shared by one evaluation batch.
type Environment struct {
	Now   time.Time
	Cache xredis.Client

	attrs entity.Map
}

func NewEnvironment(now time.Time) *Environment {
	return &Environment{Now: now}
}

// Attributes exposes derived calendar fields for availability matching.
func (e *Environment) Attributes() entity.Map {
	if e.attrs != nil {
		return e.attrs
	}

	now := e.Now
	_, week := now.ISOWeek()

	e.attrs = entity.Map{
		"date":              now.Format("2006-01-02"),
		"time":              now.Format("15:04"),
		"dow":               int(now.Weekday()),
		"day_of_week":       now.Weekday().String(),
		"hour":              now.Hour(),
		"month":             int(now.Month()),
		"year":              now.Year(),
		"week_of_year":      week,
		"quarter":           (int(now.Month())-1)/3 + 1,
		"season":            season(now.Month()),
		"day_period":        dayPeriod(now.Hour()),
		"is_weekend":        now.Weekday() == time.Saturday || now.Weekday() == time.Sunday,
		"is_business_hours": now.Hour() >= 9 && now.Hour() < 17,
		"is_month_start":    now.Day() == 1,
		"is_month_end":      now.AddDate(0, 0, 1).Day() == 1,
	}

	return e.attrs
}

func season(m time.Month) string {
	switch m {
	case time.December, time.January, time.February:
		return "winter"
	case time.March, time.April, time.May:
		return "spring"
	case time.June, time.July, time.August:
		return "summer"
	default:
		return "autumn"
	}
}

func dayPeriod(hour int) string {
	switch {
	case hour < 6:
		return "night"
	case hour < 12:
		return "morning"
	case hour < 18:
		return "afternoon"
	default:
		return "evening"
	}
}
