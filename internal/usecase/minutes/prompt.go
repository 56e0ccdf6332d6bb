package minutes

import (
	"fmt"

	"github.com/johnquangdev/meeting-minutes/pkg/ai"
)

const systemPrompt = "You are an expert meeting minutes generator. Extract structured information from meeting transcripts and return only valid JSON."

const userPromptTemplate = `Please analyze the following meeting transcript and extract structured information to create professional meeting minutes. Return ONLY a valid JSON object with the following structure:

{
  "attendees": ["Name (Role)", ...],
  "agenda": ["Agenda item 1", ...],
  "summary": "Comprehensive summary of the meeting discussion",
  "decisions": ["Decision 1", ...],
  "actionItems": [
    {
      "id": "unique_id",
      "task": "Task description",
      "owner": "Person Name",
      "deadline": "YYYY-MM-DD"
    }, ...
  ]
}

Meeting Transcript:
%s

Instructions:
- Extract actual attendee names and roles if mentioned
- Identify key discussion points for the agenda
- Provide a comprehensive summary of what was discussed
- List clear decisions that were made
- Extract actionable items with owners and deadlines (if not specified, suggest reasonable deadlines within 1-2 weeks)
- Ensure all JSON is properly formatted and valid`

// BuildMessages returns the system and user messages for one transcript
func BuildMessages(transcript string) []ai.Message {
	return []ai.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: fmt.Sprintf(userPromptTemplate, transcript)},
	}
}
