package assistant

// FallbackQuestions is served when question generation fails.
var FallbackQuestions = []string{
	"What is the primary business objective driving this project?",
	"What is your estimated budget or spending cap?",
	"Who is the final decision maker?",
	"When do you ideally want to see a solution in place?",
	"What happens if you do nothing?",
	"Are you currently evaluating other vendors?",
	"What technical constraints should we be aware of?",
	"Do you have an internal development team?",
	"What does a 'successful' outcome look like to you?",
	"What is your preferred communication style?",
	"Are there any legal or compliance requirements?",
	"How does this project align with your quarterly goals?",
	"What is your current tech stack?",
	"Have you tried to solve this problem before? If so, why did it fail?",
	"What is the best time to follow up?",
}

// FallbackAnalysis is served when the analysis cannot be generated or parsed.
var FallbackAnalysis = Analysis{
	BudgetEstimate: "$1,500 USD (Est.)",
	TechStack:      []string{"Go", "PostgreSQL", "AI Integration"},
	DevTranslation: "Analysis partially failed. Using fallback estimation.",
}

// FallbackDeck is served when the deck cannot be generated or parsed.
var FallbackDeck = Deck{
	Hook: "Let's redefine your future.",
	Slides: []Slide{
		{Title: "The Problem", Subtitle: "Leads slip through the cracks and follow-ups happen too late. Every missed conversation is revenue left on the table."},
		{Title: "The Solution", Subtitle: "An operating system that captures every lead and keeps outreach on schedule. Nothing waits on memory or spreadsheets."},
		{Title: "The Vision", Subtitle: "A pipeline you can see at a glance and trust. Your team spends its time closing instead of chasing."},
	},
}

func cloneQuestions() []string {
	out := make([]string, len(FallbackQuestions))
	copy(out, FallbackQuestions)
	return out
}
