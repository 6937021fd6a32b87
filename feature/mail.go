package feature

import (
	"fmt"

	"github.com/hupe1980/chatmesh/chat"
	"github.com/hupe1980/chatmesh/core"
	"github.com/hupe1980/chatmesh/internal/util"
	"github.com/hupe1980/chatmesh/model"
	"github.com/hupe1980/chatmesh/tool"
)

const composerInstructions = `You write the body of an email for {{.to}}.
Write it in markdown, friendly and concise.
Reply with the mail body only, no subject line, no commentary.`

// NewMail builds the mail feature: a Composer drafts a markdown body, a
// Mailer agent delivers it through the send-mail tool (which renders the
// markdown to HTML). The conversation ends once delivery is confirmed; the
// Mailer's confirmation is the final answer.
//
// Required seed values: to, subject, brief.
func NewMail(m model.Model, sender tool.MailSender) *Feature {
	return &Feature{
		Name:        "mail",
		Description: "Compose and deliver an email from a short brief",
		Build: func(seed map[string]any) (*chat.GroupChat, core.Message, error) {
			to, err := seedString(seed, "to")
			if err != nil {
				return nil, core.Message{}, err
			}
			subject, err := seedString(seed, "subject")
			if err != nil {
				return nil, core.Message{}, err
			}
			brief, err := seedString(seed, "brief")
			if err != nil {
				return nil, core.Message{}, err
			}

			composerPrompt, err := util.RenderTemplate(composerInstructions, seed)
			if err != nil {
				return nil, core.Message{}, fmt.Errorf("render composer instructions: %w", err)
			}

			composer := chat.NewAgent("Composer", chat.NewModelStrategy(m, composerPrompt), func(o *chat.AgentOptions) {
				o.Description = "Drafts the mail body in markdown"
			})

			mailTool := tool.NewSendMailTool(sender)
			mailer := chat.NewAgent("Mailer", chat.NewToolStrategy(mailTool, func(last core.Message) (map[string]any, error) {
				return map[string]any{
					"to":      to,
					"subject": subject,
					"body":    last.Content,
				}, nil
			}), func(o *chat.AgentOptions) {
				o.Description = "Delivers the drafted mail"
			})

			g, err := chat.NewGroupChat(
				[]*chat.Agent{composer, mailer},
				func(o *chat.GroupChatOptions) {
					o.Terminate = chat.ContainsToken("mail sent")
					o.TurnCap = 4
					o.FinalAnswer = chat.FinalAnswer{FromAgent: "Mailer"}
				},
			)
			if err != nil {
				return nil, core.Message{}, err
			}

			return g, core.NewUserMessage(brief), nil
		},
	}
}
