// Package agent asks Gemini to explain a rebalancing report in plain
// English.
package agent

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// Advisor is a chat with a financial-planning assistant that has read
// the rebalancing report.
type Advisor struct {
	ModelName string
	Config    *genai.GenerateContentConfig
	chat      *genai.Chat
}

// NewAdvisor creates the advisor persona.
func NewAdvisor() *Advisor {
	return &Advisor{
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are a financial planning assistant. The user gives you a
			portfolio rebalancing report in markdown.

			Explain in plain English what the report recommends and why:
			which positions drifted, what the tax-loss harvesting
			opportunities are worth, and in what order to execute the
			trades. Keep it short. Mention that sell trades with gains
			have a tax cost.

			Do not invent numbers that are not in the report. Do not give
			personalized investment advice, and say so if asked.
		`}}},
		},
	}
}

// Start opens the chat session.
func (a *Advisor) Start(ctx context.Context, client *genai.Client) error {
	chat, err := client.Chats.Create(ctx, a.ModelName, a.Config, nil)
	if err != nil {
		return err
	}
	a.chat = chat
	return nil
}

// Ask sends parts to the advisor and returns the text of its answer.
func (a *Advisor) Ask(ctx context.Context, parts ...*genai.Part) (string, error) {
	resp, err := a.chat.Send(ctx, parts...)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from the advisor")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

// Explain runs a one-shot session: hand over the report, get the
// explanation back.
func Explain(ctx context.Context, client *genai.Client, report string) (string, error) {
	advisor := NewAdvisor()
	if err := advisor.Start(ctx, client); err != nil {
		return "", err
	}
	prompt := "Here is my rebalancing report:\n\n" + report + "\n\nExplain it to me."
	return advisor.Ask(ctx, &genai.Part{Text: prompt})
}
