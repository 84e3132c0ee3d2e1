package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"ai-interviewer/internal/models"
)

// QuestionBank produces the next question for a session. The heuristic
// implementation is deterministic given identical inputs; a model-backed
// implementation behind the same interface may not be, and callers must
// tolerate both.
type QuestionBank interface {
	NextQuestion(ctx context.Context, config models.InterviewConfig, step int, prior []models.Response) (*models.Question, error)
}

type heuristicQuestionBank struct{}

func NewHeuristicQuestionBank() QuestionBank {
	return &heuristicQuestionBank{}
}

// roleCatalog maps normalized role -> skill -> question pool.
var roleCatalog = map[string]map[string][]string{
	"Frontend Developer": {
		"React": {
			"Explain how React's virtual DOM works and why it improves performance.",
			"How would you optimize a React component that re-renders too frequently?",
			"Describe the difference between controlled and uncontrolled components in React.",
			"How do you handle state management in a large React application?",
			"Explain React hooks lifecycle and when you would use useEffect vs useLayoutEffect.",
		},
		"CSS": {
			"How would you implement a responsive navigation menu without using a framework?",
			"Explain CSS specificity and how it affects style application.",
			"What are CSS Grid and Flexbox, and when would you use each?",
			"How do you optimize CSS for performance in a large application?",
			"Describe how you would implement a dark mode theme switcher.",
		},
		"JavaScript": {
			"Explain closures in JavaScript and provide a practical use case.",
			"What is the event loop and how does it handle asynchronous operations?",
			"Describe the difference between var, let, and const.",
			"How would you implement debouncing for a search input?",
			"Explain prototypal inheritance in JavaScript.",
		},
	},
	"Backend Engineer": {
		"API Design": {
			"How would you design a RESTful API for a blog platform with posts and comments?",
			"Explain the difference between PUT and PATCH HTTP methods.",
			"How do you handle API versioning in a production system?",
			"Describe how you would implement rate limiting for an API.",
			"What are the key considerations for designing a scalable API?",
		},
		"Database": {
			"Explain the difference between SQL and NoSQL databases with use cases.",
			"How would you optimize a slow database query?",
			"Describe database indexing and when you would use it.",
			"How do you handle database migrations in a production environment?",
			"Explain ACID properties and their importance.",
		},
		"Node.js": {
			"How does Node.js handle concurrency despite being single-threaded?",
			"Explain the difference between process.nextTick() and setImmediate().",
			"How would you handle memory leaks in a Node.js application?",
			"Describe how you would implement authentication in a Node.js API.",
			"What are streams in Node.js and when would you use them?",
		},
	},
	"Full Stack Developer": {
		"System Design": {
			"Design a URL shortener service like bit.ly. What are the key components?",
			"How would you architect a real-time chat application?",
			"Explain how you would design a scalable file upload system.",
			"Describe the architecture for a social media feed with millions of users.",
			"How would you implement caching in a distributed system?",
		},
		"Authentication": {
			"Explain JWT tokens and how they differ from session-based authentication.",
			"How would you implement OAuth 2.0 in your application?",
			"Describe how you would secure an API against common attacks.",
			"What is the difference between authentication and authorization?",
			"How do you handle password storage securely?",
		},
		"DevOps": {
			"Explain the CI/CD pipeline you would set up for a web application.",
			"How would you containerize a full-stack application using Docker?",
			"Describe your approach to monitoring and logging in production.",
			"What strategies would you use for zero-downtime deployments?",
			"How do you handle database migrations in a CI/CD pipeline?",
		},
	},
}

var expectedPointsBySkill = map[string][]string{
	"React":          {"Component lifecycle", "State management", "Performance optimization"},
	"CSS":            {"Layout techniques", "Responsive design", "Browser compatibility"},
	"JavaScript":     {"Language fundamentals", "Async patterns", "Best practices"},
	"API Design":     {"REST principles", "HTTP methods", "Error handling"},
	"Database":       {"Query optimization", "Data modeling", "Transactions"},
	"Node.js":        {"Event loop", "Async operations", "Error handling"},
	"System Design":  {"Scalability", "Trade-offs", "Architecture patterns"},
	"Authentication": {"Security principles", "Token management", "Best practices"},
	"DevOps":         {"Automation", "Monitoring", "Deployment strategies"},
}

// NextQuestion implements QuestionBank. The target skill for step i is
// config.Skills[i mod len(Skills)], so every configured skill is exercised
// at least once when the question count covers the skill list.
func (b *heuristicQuestionBank) NextQuestion(ctx context.Context, config models.InterviewConfig, step int, prior []models.Response) (*models.Question, error) {
	if len(config.Skills) == 0 {
		return nil, NewValidationError("skills", "interview has no configured skills")
	}
	if step < 0 {
		return nil, NewValidationError("step", "negative step index")
	}

	targetSkill := config.Skills[step%len(config.Skills)]

	role := normalizeRole(config.Role)
	pools := roleCatalog[role]

	skill := normalizeSkill(pools, targetSkill)
	pool := pools[skill]
	text := pool[step%len(pool)]

	if text == "" {
		return nil, fmt.Errorf("question bank produced no usable text for skill %q", skill)
	}

	return &models.Question{
		ID:             fmt.Sprintf("q-%d-%s", step, uuid.New().String()),
		Text:           text,
		Skill:          skill,
		ExpectedPoints: expectedPoints(skill),
		FollowUps:      followUpPrompts(skill),
	}, nil
}

func normalizeRole(role string) string {
	lowered := strings.ToLower(role)
	for known := range roleCatalog {
		head := strings.ToLower(strings.Fields(known)[0])
		if strings.Contains(lowered, head) {
			return known
		}
	}
	return "Backend Engineer"
}

func normalizeSkill(pools map[string][]string, target string) string {
	lowered := strings.ToLower(target)
	for known := range pools {
		if strings.Contains(lowered, strings.ToLower(known)) {
			return known
		}
	}
	// Deterministic fallback: the lexicographically first known skill.
	first := ""
	for known := range pools {
		if first == "" || known < first {
			first = known
		}
	}
	return first
}

func expectedPoints(skill string) []string {
	if points, ok := expectedPointsBySkill[skill]; ok {
		return points
	}
	return []string{"Technical understanding", "Practical experience", "Best practices"}
}

// followUpPrompts are attached as scoring context for reviewers; they are
// generated but never issued as extra questions.
func followUpPrompts(skill string) []string {
	return []string{
		fmt.Sprintf("Can you walk through a concrete example of that from your %s experience?", skill),
		"What trade-offs did you consider, and what would you do differently?",
	}
}
