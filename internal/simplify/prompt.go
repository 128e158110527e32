package simplify

import (
	"fmt"
	"strings"
	"time"
)

// Context limits for prompts that embed study material.
const (
	TutorContextChars = 3000
	QuizContextChars  = 4000
	TutorHistoryTurns = 10
	DefaultQuizSize   = 5
)

// SimplifyPrompt asks the model to rewrite source material as a markdown study guide.
// pos is nil when the material is sent whole.
func SimplifyPrompt(content, topic string, difficulty Difficulty, pos *ChunkPosition) string {
	var b strings.Builder
	b.WriteString("You are an expert educational content simplifier and study guide author.\n\n")
	b.WriteString("Task: Turn the course material below into a complete, easy-to-follow study guide.\n\n")
	fmt.Fprintf(&b, "Topic: %s\nDifficulty Level: %s\n", topic, difficulty)
	if note := chunkNote(pos); note != "" {
		b.WriteString("\n" + note + "\n")
	}
	fmt.Fprintf(&b, "\nOriginal Content:\n%s\n\n", content)
	fmt.Fprintf(&b, `Instructions:
1. Explain the key concepts in plain language suited to %s students
2. Split complex topics into short sections with clear explanations
3. Add examples and analogies for the hard parts
4. Highlight important terms and their definitions
5. Keep formulas, code and technical details intact
6. Write clean markdown with headers, bullet points and emphasis

Output Format:
# %s - Study Guide

## Overview
## Key Concepts
## Important Terms
## Examples and Applications
## Summary

Write the study guide now:`, difficulty, topic)
	return b.String()
}

func chunkNote(pos *ChunkPosition) string {
	if pos == nil {
		return ""
	}
	parts := []string{fmt.Sprintf("Note: This is part %d of %d of the content.", pos.Index+1, pos.Total)}
	if pos.Index > 0 {
		parts = append(parts, "Previous parts have been processed. Maintain consistency.")
	}
	if pos.Index < pos.Total-1 {
		parts = append(parts, "More content follows in subsequent parts.")
	} else {
		parts = append(parts, "This is the final part.")
	}
	return strings.Join(parts, " ")
}

// SchedulePrompt asks for 3-5 study sessions as a JSON array.
func SchedulePrompt(topic string, durationDays int, difficulty Difficulty, today time.Time) string {
	return fmt.Sprintf(`You are an expert study planner.

Task: Build a study schedule.

Topic: %s
Duration: %d days
Difficulty Level: %s
Current Date: %s

Instructions:
1. Propose 3-5 study sessions spread across the %d days
2. Sessions last 45-90 minutes depending on difficulty
3. Include review sessions and space them for spaced repetition
4. Pick the time of day that suits each session

Return ONLY a JSON array of objects with exactly this structure:
[
  {
    "title": "Study Session: <topic> - <session name>",
    "description": "Focus areas: <what to cover>",
    "durationMinutes": 60,
    "dayOffset": 0,
    "timeOfDay": "morning"
  }
]

Rules:
- dayOffset counts days from today (0 = today)
- timeOfDay is one of "morning", "afternoon", "evening"
- No text outside the JSON array`, topic, durationDays, difficulty, today.Format("2006-01-02"), durationDays)
}

// TutorPrompt asks for a conversational answer grounded in the study material.
func TutorPrompt(message, studyContext string, history []ChatMessage) string {
	var turns []string
	for _, m := range lastTurns(history, TutorHistoryTurns) {
		speaker := "Tutor"
		if m.Role == RoleUser {
			speaker = "Student"
		}
		turns = append(turns, speaker+": "+m.Content)
	}
	conversation := strings.Join(turns, "\n")
	if conversation == "" {
		conversation = "No previous conversation"
	}

	return fmt.Sprintf(`You are StudyBuddy, a friendly and encouraging tutor.

Study Material Context:
%s

Previous Conversation:
%s

Student Question: %s

Instructions:
- Answer clearly, using the study material when it is relevant
- Use examples and analogies for complex ideas
- Ask a follow-up question when it helps the student think
- Say so honestly when you do not know
- Keep it to 2-3 paragraphs unless more detail is needed

Respond as the tutor:`, truncate(studyContext, TutorContextChars), conversation, message)
}

// QuizPrompt asks for n multiple-choice questions as a JSON array.
func QuizPrompt(studyContext string, n int) string {
	if n <= 0 {
		n = DefaultQuizSize
	}
	return fmt.Sprintf(`You are an expert quiz author.

Study Material:
%s

Task: Write %d multiple-choice questions that test understanding of this material.

Requirements:
- Test comprehension, not just recall
- Mix difficulty levels
- Exactly 4 options per question
- Explain why the correct answer is correct

Return ONLY a JSON array with exactly this structure:
[
  {
    "question": "Question text?",
    "options": ["Option A", "Option B", "Option C", "Option D"],
    "correctAnswer": 0,
    "explanation": "Why this answer is correct"
  }
]

Rules:
- correctAnswer is the 0-based index of the correct option
- No text outside the JSON array`, truncate(studyContext, QuizContextChars), n)
}

func lastTurns(history []ChatMessage, n int) []ChatMessage {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}

// truncate cuts s to at most n characters, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + " ..."
}
