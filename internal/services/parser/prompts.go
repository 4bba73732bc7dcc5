package parser

import (
	"fmt"
	"strings"
	"time"
)

// promptTimeLayout is the datetime format the model is instructed to emit.
// It doubles as the format for the "current datetime" anchor in the prompt.
const promptTimeLayout = "2006-01-02 15:04:05"

const extractionPromptTemplate = `You are an AI meeting scheduler that converts natural language into a structured meeting object.

Rules:
1. Resolve ALL relative time expressions into absolute JST datetimes.
   - "tomorrow 3pm"   → next calendar day at 15:00:00
   - "next Monday 10am" → the coming Monday at 10:00:00
   - "next Sunday 11 PM" → the coming Sunday at 23:00:00
   - "tonight 9pm" → today at 21:00:00
2. Day-of-week parsing: "tue"/"tuesday" = Tuesday. "thu"/"thursday" = Thursday. Never confuse them.
3. Partial commands: inherit missing fields from conversation history. If still missing, leave start_time empty.
4. Attendees: extract only real email addresses. Never invent or guess emails. If none found, return [].
5. Default duration = 30 minutes if not specified.
6. Topic = short descriptive meeting title.
7. Output datetime format: YYYY-MM-DD HH:MM:SS (24-hour, JST)

Return STRICT JSON ONLY — no markdown, no explanation, no extra keys:

Current datetime (JST / Asia/Tokyo): %s

Conversation history:
%s

---
Expected output format (JSON only):
{
  "topic": "string",
  "start_time": "YYYY-MM-DD HH:MM:SS or empty string",
  "duration": 30,
  "attendees": ["email@example.com"],
  "description": "string"
}

Example input: "Schedule a meeting with john@example.com and sarah@company.com next Tuesday at 9:30 PM for 45 minutes about Q2 planning"
Example output (assuming today is 2025-01-27 Monday):
{
  "topic": "Q2 Planning",
  "start_time": "2025-01-28 21:30:00",
  "duration": 45,
  "attendees": ["john@example.com", "sarah@company.com"],
  "description": "Q2 planning session"
}`

const updatePromptTemplate = `You are parsing a meeting update command.

Current datetime (JST / Asia/Tokyo): %s

Extract ONLY the fields that should be updated. Resolve any relative time expressions (e.g. "tomorrow 3pm", "next Monday 10am") into absolute JST datetimes.

Return STRICT JSON ONLY — no markdown, no extra keys. Include only the fields that are changing:

{
  "topic": "new title",
  "start_time": "YYYY-MM-DD HH:MM:SS",
  "duration": 60,
  "description": "new description"
}`

// buildExtractionPrompt anchors the model to the current JST instant so
// relative expressions resolve deterministically for a given request.
func buildExtractionPrompt(now time.Time, history []string) string {
	historyText := "None"
	if len(history) > 0 {
		historyText = strings.Join(history, "\n")
	}
	return fmt.Sprintf(extractionPromptTemplate, now.Format(promptTimeLayout), historyText)
}

func buildUpdatePrompt(now time.Time) string {
	return fmt.Sprintf(updatePromptTemplate, now.Format(promptTimeLayout))
}
