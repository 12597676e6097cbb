package gamification

type badgeMetric int

const (
	metricCourses badgeMetric = iota
	metricStreak
	metricTrades
)

type badgeDef struct {
	ID          string
	Name        string
	Description string
	Metric      badgeMetric
	Threshold   int
}

// badgeDefs is the fixed achievement table. Thresholds define badge identity
// and so are not configuration.
var badgeDefs = []badgeDef{
	{ID: "first_course", Name: "First Steps", Description: "Complete your first course", Metric: metricCourses, Threshold: 1},
	{ID: "course_master", Name: "Course Master", Description: "Complete 3 courses", Metric: metricCourses, Threshold: 3},
	{ID: "knowledge_seeker", Name: "Knowledge Seeker", Description: "Complete 5 courses", Metric: metricCourses, Threshold: 5},
	{ID: "investment_guru", Name: "Investment Guru", Description: "Complete 10 courses", Metric: metricCourses, Threshold: 10},
	{ID: "streak_7", Name: "Week Warrior", Description: "Maintain a 7-day streak", Metric: metricStreak, Threshold: 7},
	{ID: "streak_30", Name: "Monthly Master", Description: "Maintain a 30-day streak", Metric: metricStreak, Threshold: 30},
	{ID: "virtual_trader", Name: "Virtual Trader", Description: "Make your first virtual trade", Metric: metricTrades, Threshold: 1},
}

func badgeDefByID(id string) (badgeDef, bool) {
	for _, def := range badgeDefs {
		if def.ID == id {
			return def, true
		}
	}
	return badgeDef{}, false
}
