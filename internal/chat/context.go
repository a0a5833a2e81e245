package chat

import (
	"encoding/json"
	"fmt"

	"github.com/finadvisor/backend/internal/budget"
	"github.com/finadvisor/backend/internal/models"
)

// maxContextMessages bounds how much history goes upstream.
const maxContextMessages = 10

const systemPrompt = `You are a professional AI Financial Advisor assistant named Financial Advisor.

Your responsibilities:
1. Provide professional and accurate financial advice and knowledge
2. Help users with budget planning, investment decisions, debt management, etc.
3. Explain complex financial concepts in simple, easy-to-understand language
4. Maintain a friendly, patient, and professional attitude

Important notes:
1. All advice is for reference only and does not constitute specific investment advice
2. Recommend users consult professional advisors before making major financial decisions
3. Protect user privacy, never request or store sensitive financial information
4. If you encounter uncertain questions, be honest about limitations and suggest seeking professional help

Response style:
- Clear and concise, highlighting key points
- Use Markdown format for easy reading
- Use lists, tables, and other structured content when appropriate
- Provide practical advice and action steps`

// BuildContext assembles the message list for one completion: the
// system prompt, the user's budget snapshots when they are supplied,
// the most recent history and finally the new user message. History
// older than maxContextMessages is dropped.
func BuildContext(history []models.ChatMessage, snapshots []budget.PeriodSnapshot, userMessage string) []Message {
	messages := []Message{{Role: models.RoleSystem, Content: systemPrompt}}

	if snapshots != nil {
		if rendered, err := json.MarshalIndent(snapshots, "", "  "); err == nil {
			messages = append(messages, Message{
				Role:    models.RoleSystem,
				Content: fmt.Sprintf("The user's current budget, per period:\n\n```json\n%s\n```\n\nBase your answers on these figures when the user asks about their budget.", rendered),
			})
		}
	}

	if len(history) > maxContextMessages {
		history = history[len(history)-maxContextMessages:]
	}

	for _, message := range history {
		messages = append(messages, Message{Role: message.Role, Content: message.Content})
	}

	return append(messages, Message{Role: models.RoleUser, Content: userMessage})
}
