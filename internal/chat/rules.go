// Package chat is the portfolio assistant: a transcript plus a responder that
// picks canned replies by keyword.
package chat

import (
	"math/rand/v2"
	"strings"
	"sync"
)

// Greeting seeds every new transcript.
const Greeting = "Hi! I'm here to help you learn more about this portfolio. Ask me anything!"

// FallbackRule is reported when no rule matched.
const FallbackRule = "fallback"

// Rule maps a set of keywords to a fixed reply. A rule matches when the
// lower-cased input contains any of its keywords.
type Rule struct {
	Name     string
	Keywords []string
	Reply    string
}

// Matches reports whether lower (already lower-cased) contains a keyword.
func (r Rule) Matches(lower string) bool {
	for _, k := range r.Keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// DefaultRules are tested in order; the first match wins.
var DefaultRules = []Rule{
	{
		Name:     "experience",
		Keywords: []string{"experience", "work"},
		Reply:    "Great question! You can check out the experience section above to see detailed work history, including roles, technologies used, and key achievements. Would you like me to tell you about any specific experience?",
	},
	{
		Name:     "projects",
		Keywords: []string{"project", "work samples"},
		Reply:    "The projects section showcases various applications and websites built with different technologies. Each project includes live demos and source code links. Is there a particular type of project you're interested in?",
	},
	{
		Name:     "skills",
		Keywords: []string{"skill", "technology", "tech stack"},
		Reply:    "The skills section covers frontend, backend, and other technical competencies. The portfolio demonstrates proficiency in React, JavaScript, and modern web development. What specific technology would you like to know more about?",
	},
	{
		Name:     "contact",
		Keywords: []string{"contact", "hire", "reach out"},
		Reply:    "You can find contact information in the contact section below! There are multiple ways to get in touch including email, LinkedIn, and other social platforms. Ready to start a conversation?",
	},
	{
		Name:     "about",
		Keywords: []string{"about", "who"},
		Reply:    "The about section provides background information, passion for development, and career journey. It's a great place to get to know the person behind the portfolio!",
	},
	{
		Name:     "greeting",
		Keywords: []string{"hello", "hi", "hey"},
		Reply:    "Hello! Welcome to this portfolio. I can help you navigate through different sections or answer questions about the experience, projects, and skills showcased here. What would you like to explore?",
	},
	{
		Name:     "help",
		Keywords: []string{"help"},
		Reply:    "I can help you with information about:\n• Work Experience & Background\n• Projects & Applications\n• Technical Skills & Technologies\n• Contact Information\n• Portfolio Navigation\n\nWhat interests you most?",
	},
	{
		Name:     "resume",
		Keywords: []string{"resume", "cv"},
		Reply:    "You can find comprehensive information about background and experience throughout this portfolio. For a formal resume, check the contact section where there might be a download link, or feel free to reach out directly!",
	},
}

// DefaultFallbacks are picked uniformly when no rule matches.
var DefaultFallbacks = []string{
	"That's an interesting question! Let me help you find the relevant information in this portfolio.",
	"I'd be happy to guide you to the right section. This portfolio has detailed information about that topic.",
	"Great question! The portfolio covers that area extensively. Would you like me to point you in the right direction?",
	"Thanks for asking! You can find more details about that in the corresponding section above.",
}

// Responder evaluates a rule table. It is safe for concurrent use.
type Responder struct {
	rules     []Rule
	fallbacks []string

	mu  sync.Mutex
	rng *rand.Rand
}

// NewResponder builds a responder. A nil rng gets a randomly seeded one.
func NewResponder(rules []Rule, fallbacks []string, rng *rand.Rand) *Responder {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Responder{rules: rules, fallbacks: fallbacks, rng: rng}
}

// Match returns the first rule matching text.
func (r *Responder) Match(text string) (Rule, bool) {
	lower := strings.ToLower(text)
	for _, rule := range r.rules {
		if rule.Matches(lower) {
			return rule, true
		}
	}
	return Rule{}, false
}

// Respond returns the reply for text and the name of the rule that produced
// it, FallbackRule when none matched.
func (r *Responder) Respond(text string) (rule, reply string) {
	if m, ok := r.Match(text); ok {
		return m.Name, m.Reply
	}
	if len(r.fallbacks) == 0 {
		return FallbackRule, ""
	}
	r.mu.Lock()
	i := r.rng.IntN(len(r.fallbacks))
	r.mu.Unlock()
	return FallbackRule, r.fallbacks[i]
}

// Reply is Respond without the rule name.
func (r *Responder) Reply(text string) string {
	_, reply := r.Respond(text)
	return reply
}

var defaultResponder = NewResponder(DefaultRules, DefaultFallbacks, nil)

// GenerateReply answers text with the default rule table.
func GenerateReply(text string) string {
	return defaultResponder.Reply(text)
}
