package screening

// RecommendationType identifies the kind of follow-up action.
type RecommendationType string

const (
	RecCrisisSupport      RecommendationType = "crisis_support"
	RecEmergencyResources RecommendationType = "emergency_resources"
	RecCounseling         RecommendationType = "counseling"
	RecMentalHealth       RecommendationType = "mental_health_resources"
	RecPeerSupport        RecommendationType = "peer_support"
	RecMaintainWellbeing  RecommendationType = "maintain_wellbeing"
	RecPreventiveCare     RecommendationType = "preventive_care"
)

// Recommendation is one suggested next action; priority 1 is the highest.
type Recommendation struct {
	Type        RecommendationType `json:"type"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Priority    int                `json:"priority"`
	ActionURL   string             `json:"action_url"`
	IsUrgent    bool               `json:"is_urgent"`
}

type recommendationCopy struct {
	title       string
	description string
	actionURL   string
}

var recommendationText = map[RecommendationType]recommendationCopy{
	RecCrisisSupport: {
		title:       "Get immediate crisis support",
		description: "Your answers suggest you may be at risk. Please reach out to a crisis counselor right now; support is available 24/7.",
		actionURL:   "/support/crisis",
	},
	RecEmergencyResources: {
		title:       "Emergency resources",
		description: "If you are in immediate danger, contact local emergency services or go to the nearest emergency department.",
		actionURL:   "/support/emergency",
	},
	RecCounseling: {
		title:       "Schedule a counseling session",
		description: "Book a confidential session with a campus counselor to talk through how you have been feeling.",
		actionURL:   "/counseling/book",
	},
	RecMentalHealth: {
		title:       "Explore mental health resources",
		description: "Guided exercises, articles and audio sessions on managing low mood, anxiety and stress.",
		actionURL:   "/resources",
	},
	RecPeerSupport: {
		title:       "Connect with peer support",
		description: "Join the student forum to share experiences with peers in a moderated space.",
		actionURL:   "/forum",
	},
	RecMaintainWellbeing: {
		title:       "Keep up your wellbeing",
		description: "Your results look healthy. Keep the routines that work for you: sleep, movement and time with friends.",
		actionURL:   "/resources/wellbeing",
	},
	RecPreventiveCare: {
		title:       "Preventive self-care",
		description: "Short self-care practices that help you stay resilient through busy academic periods.",
		actionURL:   "/resources/prevention",
	},
}

func newRecommendation(t RecommendationType, priority int, urgent bool) Recommendation {
	text := recommendationText[t]
	return Recommendation{
		Type:        t,
		Title:       text.title,
		Description: text.description,
		Priority:    priority,
		ActionURL:   text.actionURL,
		IsUrgent:    urgent,
	}
}

// Recommend builds the ordered recommendation list for an outcome.
// The rules are cumulative: CRISIS_ALERT gets the crisis pair and counseling.
func Recommend(category TriageCategory, safetyFlag bool) []Recommendation {
	out := make([]Recommendation, 0, 5)
	crisis := category == TriageCrisisAlert
	if safetyFlag || crisis {
		out = append(out,
			newRecommendation(RecCrisisSupport, 1, true),
			newRecommendation(RecEmergencyResources, 1, true),
		)
	}
	if category == TriageHigh || crisis {
		out = append(out, newRecommendation(RecCounseling, 2, crisis))
	}
	switch category {
	case TriageModerate, TriageHigh:
		out = append(out,
			newRecommendation(RecMentalHealth, 3, false),
			newRecommendation(RecPeerSupport, 4, false),
		)
	case TriageLow:
		out = append(out,
			newRecommendation(RecMaintainWellbeing, 3, false),
			newRecommendation(RecPreventiveCare, 4, false),
		)
	}
	return out
}
