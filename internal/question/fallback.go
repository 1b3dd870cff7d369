package question

import (
	"strings"

	"talentprep/internal/model"
)

// seed is a hand-authored fallback question template. The {name} and
// {field} markers are substituted at Provide time.
type seed struct {
	question string
	answer   string
	tips     [3]string
}

var genericSeeds = []seed{
	{
		question: "Tell me about yourself.",
		answer:   "I'm {name}, and I've been building my path toward {field}. I'd start with a short summary of my background, the skills I've invested in, and why this role is the next logical step for me.",
		tips:     [3]string{"Keep it under two minutes", "Connect your background to the role", "End with why you are here today"},
	},
	{
		question: "What are your greatest strengths?",
		answer:   "My strongest asset is how quickly I learn and apply new skills in {field}. I'd pick two or three strengths backed by concrete examples rather than listing many.",
		tips:     [3]string{"Pick strengths relevant to the job", "Back each one with an example", "Avoid generic buzzwords"},
	},
	{
		question: "What is your biggest weakness?",
		answer:   "I'd name a real but non-fatal weakness, such as taking on too much at once, and describe the system I've built to manage it.",
		tips:     [3]string{"Be honest but strategic", "Show what you are doing about it", "Never claim you have none"},
	},
	{
		question: "Why do you want to work in {field}?",
		answer:   "I'd connect my interests and training to the impact this field has, with a specific moment that confirmed the choice for me.",
		tips:     [3]string{"Tell a short origin story", "Show you researched the field", "Link passion to concrete skills"},
	},
	{
		question: "Where do you see yourself in five years?",
		answer:   "I'd describe growing into deeper responsibility within {field}, naming the skills I plan to build, while staying realistic about titles.",
		tips:     [3]string{"Show ambition with realism", "Tie goals to this role", "Mention skills, not just titles"},
	},
	{
		question: "Describe a challenge you faced and how you handled it.",
		answer:   "I'd use the STAR format: the situation, the task I owned, the actions I took, and the measurable result.",
		tips:     [3]string{"Use the STAR structure", "Own your specific contribution", "Quantify the outcome"},
	},
	{
		question: "Why should we hire you?",
		answer:   "I'd summarize the intersection of my skills, my genuine interest in {field}, and what I can deliver in the first months.",
		tips:     [3]string{"Summarize your unique mix", "Focus on their needs", "Offer a 90-day picture"},
	},
	{
		question: "How do you handle pressure or tight deadlines?",
		answer:   "I'd describe my prioritization approach and give one example where staying calm under a deadline produced a good result.",
		tips:     [3]string{"Describe a real system you use", "Give one concrete example", "Stay positive about pressure"},
	},
	{
		question: "What do you know about our organization?",
		answer:   "I'd mention the organization's main work, something recent they did, and why that connects to my goals in {field}.",
		tips:     [3]string{"Research before the interview", "Mention something recent", "Connect it to your goals"},
	},
	{
		question: "Do you have any questions for us?",
		answer:   "I'd always ask two or three prepared questions about the team, growth expectations, and how success is measured.",
		tips:     [3]string{"Always have questions ready", "Ask about success metrics", "Avoid salary in round one"},
	},
}

var categorySeeds = map[model.Category][]seed{
	model.CategoryTechnical: {
		{
			question: "Walk me through a recent project you are proud of.",
			answer:   "I'd pick one project in {field}, explain the problem, my design decisions, the trade-offs, and what I'd improve today.",
			tips:     [3]string{"Lead with the problem", "Explain your trade-offs", "Admit what you'd change"},
		},
		{
			question: "How do you keep your technical skills current?",
			answer:   "I'd name the specific resources, communities, and practice routines I use to stay sharp in {field}.",
			tips:     [3]string{"Name concrete resources", "Show a learning routine", "Mention something recent you learned"},
		},
		{
			question: "Describe a technical problem you could not solve at first. What did you do?",
			answer:   "I'd walk through my debugging process, when I asked for help, and what the root cause taught me.",
			tips:     [3]string{"Show a method, not luck", "Asking for help is a strength", "End with the lesson"},
		},
		{
			question: "How do you decide between competing technical approaches?",
			answer:   "I'd describe weighing constraints like time, maintainability, and risk, and give one example decision.",
			tips:     [3]string{"Name your evaluation criteria", "Use a real example", "Acknowledge the rejected option"},
		},
		{
			question: "Explain a complex concept from {field} to a non-expert.",
			answer:   "I'd pick one concept and explain it with an everyday analogy, checking for understanding as I go.",
			tips:     [3]string{"Use a concrete analogy", "Avoid jargon entirely", "Check for understanding"},
		},
	},
	model.CategoryBehavioral: {
		{
			question: "Tell me about a time you worked in a team with conflict.",
			answer:   "I'd describe the disagreement factually, how I listened to the other side, and the compromise we reached.",
			tips:     [3]string{"Stay factual, never blame", "Show active listening", "End with the resolution"},
		},
		{
			question: "Describe a time you failed. What happened?",
			answer:   "I'd own a genuine failure, the consequence, and the specific change I made so it would not repeat.",
			tips:     [3]string{"Pick a real failure", "Own it without excuses", "Show the changed behavior"},
		},
		{
			question: "Give an example of taking initiative beyond your role.",
			answer:   "I'd describe spotting a gap nobody owned, the action I took, and the result it produced for the team.",
			tips:     [3]string{"Show you spotted the gap", "Describe unprompted action", "Quantify the benefit"},
		},
		{
			question: "How do you respond to critical feedback?",
			answer:   "I'd give an example of feedback that stung, how I processed it, and the improvement that followed.",
			tips:     [3]string{"Use a specific example", "Show emotional maturity", "Demonstrate the improvement"},
		},
		{
			question: "Tell me about a time you had to learn something quickly.",
			answer:   "I'd describe the deadline, my learning plan, and how I delivered despite starting from little knowledge of {field}.",
			tips:     [3]string{"Explain your learning plan", "Mention the time constraint", "Show the delivered result"},
		},
	},
	model.CategorySituational: {
		{
			question: "What would you do if you were given a task with unclear requirements?",
			answer:   "I'd clarify with the requester first, restate my understanding in writing, and agree on a checkpoint before building.",
			tips:     [3]string{"Clarify before building", "Restate in writing", "Agree on checkpoints"},
		},
		{
			question: "How would you handle two urgent deadlines at the same time?",
			answer:   "I'd assess impact, negotiate priority with stakeholders, and communicate early rather than silently slipping.",
			tips:     [3]string{"Prioritize by impact", "Negotiate, don't guess", "Communicate early"},
		},
		{
			question: "What would you do if you disagreed with your manager's decision?",
			answer:   "I'd raise my concern privately with evidence, but commit fully to the decision once it's made.",
			tips:     [3]string{"Disagree privately with data", "Commit once decided", "Never undermine publicly"},
		},
		{
			question: "How would you handle a teammate not pulling their weight?",
			answer:   "I'd talk to them directly first to understand, offer help, and escalate only if the pattern continued.",
			tips:     [3]string{"Talk directly first", "Assume good intent", "Escalate as last resort"},
		},
		{
			question: "A project in {field} is about to miss its deadline. What do you do?",
			answer:   "I'd surface it immediately, propose a reduced scope or new date, and present options instead of problems.",
			tips:     [3]string{"Surface bad news early", "Bring options, not problems", "Protect the critical scope"},
		},
	},
}

// FallbackProvider serves the static question set used when generation
// or parsing fails. It never errors, for any input.
type FallbackProvider struct{}

func NewFallbackProvider() *FallbackProvider {
	return &FallbackProvider{}
}

// Provide returns the fallback set for a category, lightly personalized
// with the talent's name and career field. Unknown or empty categories
// get the generic set. Nil talents and empty fields get neutral text.
func (p *FallbackProvider) Provide(category model.Category, talent *model.Talent, field string) []model.QuestionRecord {
	seeds := genericSeeds
	if cs, ok := categorySeeds[category]; ok {
		// Category sets are small; follow with generic questions so
		// padding a larger target count still has variety.
		seeds = append(append([]seed{}, cs...), genericSeeds...)
	}

	name := ""
	if talent != nil {
		name = strings.TrimSpace(talent.Name)
	}
	if name == "" {
		name = "a motivated candidate"
	}
	if strings.TrimSpace(field) == "" {
		field = "your chosen field"
	}

	records := make([]model.QuestionRecord, 0, len(seeds))
	for i, s := range seeds {
		records = append(records, model.QuestionRecord{
			ID:       i + 1,
			Question: personalize(s.question, name, field),
			Answer:   personalize(s.answer, name, field),
			Tips:     []string{s.tips[0], s.tips[1], s.tips[2]},
		})
	}
	return records
}

func personalize(text, name, field string) string {
	text = strings.ReplaceAll(text, "{name}", name)
	return strings.ReplaceAll(text, "{field}", field)
}
