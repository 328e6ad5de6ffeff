// Package pipeline turns one inbound email into one generated reply:
// intent classification, context building, prompt assembly and backend
// dispatch.
package pipeline

import "strings"

// Intent is the coarse category of what an inbound email is asking about.
type Intent string

const (
	IntentAppointment Intent = "appointment"
	IntentServices    Intent = "services"
	IntentCosts       Intent = "costs"
	IntentInformation Intent = "information"
	IntentEmergency   Intent = "emergency"
	IntentGeneral     Intent = "general"
)

// intentOrder is the fixed priority order; the first intent with a keyword
// hit wins.
var intentOrder = []Intent{
	IntentAppointment,
	IntentServices,
	IntentCosts,
	IntentInformation,
	IntentEmergency,
}

// DefaultKeywordSets carries the deployment's mixed-language vocabulary.
// The sets are configuration data; these are the defaults.
var DefaultKeywordSets = map[Intent][]string{
	IntentAppointment: {"appointment", "booking", "schedule", "visit", "termin"},
	IntentServices:    {"treatment", "service", "procedure", "therapy", "behandlung"},
	IntentCosts:       {"cost", "price", "fee", "insurance", "payment", "kosten"},
	IntentInformation: {"information", "details", "question", "inquiry", "info"},
	IntentEmergency:   {"emergency", "urgent", "immediate", "notfall"},
}

// Classifier assigns an intent to an email by keyword lookup.
type Classifier struct {
	keywords map[Intent][]string
}

// NewClassifier builds a classifier from the default keyword sets, with
// per-intent overrides applied on top.
func NewClassifier(overrides map[string][]string) *Classifier {
	keywords := make(map[Intent][]string, len(DefaultKeywordSets))
	for intent, words := range DefaultKeywordSets {
		keywords[intent] = words
	}
	for name, words := range overrides {
		if len(words) > 0 {
			keywords[Intent(name)] = words
		}
	}
	return &Classifier{keywords: keywords}
}

// Classify lower-cases both fields and returns the first intent in priority
// order with any keyword appearing as a substring of either field. Substring
// matching is the contract: "disappointment" matches "appointment".
func (c *Classifier) Classify(subject, body string) Intent {
	subject = strings.ToLower(subject)
	body = strings.ToLower(body)

	for _, intent := range intentOrder {
		for _, word := range c.keywords[intent] {
			if strings.Contains(subject, word) || strings.Contains(body, word) {
				return intent
			}
		}
	}

	return IntentGeneral
}
