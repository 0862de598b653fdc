package types

// Verdict is the fact-checker's truth assessment of a candidate statement
type Verdict string

// Verdict constants
const (
	VerdictTrue          Verdict = "TRUE"
	VerdictFalse         Verdict = "FALSE"
	VerdictPartiallyTrue Verdict = "PARTIALLY_TRUE"
	VerdictOpinion       Verdict = "OPINION"
)

// FactCheckReport is the fact-checker's analysis of the latest candidate message
type FactCheckReport struct {
	Verdict    Verdict `json:"verdict"`
	Evidence   string  `json:"evidence"`
	Correction *string `json:"correction,omitempty"`
}

// PsychProfile is the psychologist's analysis of the latest candidate message
type PsychProfile struct {
	EmotionalState     string   `json:"emotional_state"`
	CommunicationStyle string   `json:"communication_style"`
	SoftSkills         []string `json:"soft_skills"`
	StressMarkers      []string `json:"stress_markers"`
}

// Tone is the manner the interviewer should adopt
type Tone string

// Tone constants
const (
	ToneFriendly    Tone = "Friendly"
	ToneStrict      Tone = "Strict"
	ToneEncouraging Tone = "Encouraging"
	ToneNeutral     Tone = "Neutral"
	ToneEmpathetic  Tone = "Empathetic and Calm"
)

// InterviewStatus lets the mentor end the session
type InterviewStatus string

// InterviewStatus constants
const (
	StatusContinue  InterviewStatus = "CONTINUE"
	StatusTerminate InterviewStatus = "TERMINATE"
)

// FeedbackMarker introduces judge feedback appended to a retried instruction
const FeedbackMarker = "CRITICAL FEEDBACK: "

// StrategyDirective is the mentor's plan for the next interviewer message
type StrategyDirective struct {
	ThoughtProcess  string          `json:"thought_process"`
	Strategy        string          `json:"strategy"`
	Instruction     string          `json:"instruction"`
	Tone            Tone            `json:"tone"`
	InterviewStatus InterviewStatus `json:"interview_status,omitempty"`
}

// WithFeedback returns a copy of the directive whose instruction keeps the
// original text and appends the judge's feedback. The receiver is not modified.
func (d StrategyDirective) WithFeedback(feedback string) StrategyDirective {
	amended := d
	amended.Instruction = d.Instruction + " (" + FeedbackMarker + feedback + ")"
	return amended
}

// Terminates reports whether the mentor asked to end the interview
func (d StrategyDirective) Terminates() bool {
	return d.InterviewStatus == StatusTerminate
}

// JudgeVerdict is the quality gate's assessment of one generated response
type JudgeVerdict struct {
	Approved bool   `json:"approved"`
	Feedback string `json:"feedback"`
	Score    int    `json:"score"`
}

// Level is the assessed seniority of the candidate
type Level string

// Level constants
const (
	LevelJunior Level = "Junior"
	LevelMiddle Level = "Middle"
	LevelSenior Level = "Senior"
)

// Recommendation is the final hiring recommendation
type Recommendation string

// Recommendation constants
const (
	RecommendHire       Recommendation = "Hire"
	RecommendNoHire     Recommendation = "No Hire"
	RecommendStrongHire Recommendation = "Strong Hire"
)

// FinalDecisionReport is produced once per session from the full transcript
type FinalDecisionReport struct {
	Level                Level          `json:"level"`
	Recommendation       Recommendation `json:"hiring_recommendation"`
	Confidence           int            `json:"confidence_score"`
	HardSkillsConfirmed  []string       `json:"hard_skills_confirmed"`
	KnowledgeGaps        []string       `json:"knowledge_gaps"`
	SoftSkillsAssessment string         `json:"soft_skills_assessment"`
	Roadmap              []string       `json:"personal_roadmap"`
}

// ConversationSummary replaces the compacted prefix of the history
type ConversationSummary struct {
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"key_points"`
}
