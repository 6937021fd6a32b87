package feature

import (
	"context"
	"fmt"

	"github.com/hupe1980/chatmesh/chat"
	"github.com/hupe1980/chatmesh/core"
	"github.com/hupe1980/chatmesh/internal/util"
	"github.com/hupe1980/chatmesh/model"
	"github.com/hupe1980/chatmesh/tool"
)

const researcherInstructions = `You are a researcher preparing a newsletter about {{.topic}}.
Collect the key facts, recent developments, and one notable quote.
When your notes are complete, end your reply with TERMINATE.`

const newsletterWriterInstructions = `You write a short newsletter about {{.topic}} in markdown.
Use the research notes from the previous message.
Structure: a # headline, two or three short sections, a closing line.
Never write the word TERMINATE.`

// NewNewsletter builds the newsletter feature. An Editor agent runs a nested
// research sub-chat and folds its notes into the parent conversation, a
// Writer turns the notes into a markdown newsletter, and a Publisher renders
// the markdown to HTML and ends the conversation. The authoritative answer is
// the Publisher's HTML.
//
// Required seed values: topic.
func NewNewsletter(m model.Model) *Feature {
	return &Feature{
		Name:        "newsletter",
		Description: "Research a topic and produce an HTML newsletter",
		Build: func(seed map[string]any) (*chat.GroupChat, core.Message, error) {
			topic, err := seedString(seed, "topic")
			if err != nil {
				return nil, core.Message{}, err
			}

			researchPrompt, err := util.RenderTemplate(researcherInstructions, seed)
			if err != nil {
				return nil, core.Message{}, fmt.Errorf("render researcher instructions: %w", err)
			}

			writerPrompt, err := util.RenderTemplate(newsletterWriterInstructions, seed)
			if err != nil {
				return nil, core.Message{}, fmt.Errorf("render writer instructions: %w", err)
			}

			researchFactory := func() (*chat.GroupChat, error) {
				return chat.NewGroupChat(
					[]*chat.Agent{
						chat.NewAgent("Researcher", chat.NewModelStrategy(m, researchPrompt)),
					},
					func(o *chat.GroupChatOptions) {
						o.Terminate = chat.ContainsToken("TERMINATE")
						o.TurnCap = 3
						o.FinalAnswer = chat.FinalAnswer{FromAgent: "Researcher", StripToken: "TERMINATE"}
					},
				)
			}

			editor := chat.NewAgent("Editor", nil, func(o *chat.AgentOptions) {
				o.Description = "Gathers research notes for the writer"
				o.Nested = &chat.NestedChatSpec{
					ChatFactory: researchFactory,
				}
			})

			writer := chat.NewAgent("Writer", chat.NewModelStrategy(m, writerPrompt), func(o *chat.AgentOptions) {
				o.Description = "Writes the newsletter in markdown"
			})

			publisher := chat.NewAgent("Publisher", chat.ReplyFunc(func(_ context.Context, req chat.ReplyRequest) (string, error) {
				draft := req.Messages[len(req.Messages)-1]
				html, err := tool.RenderMarkdown(draft.Content)
				if err != nil {
					return "", fmt.Errorf("render newsletter: %w", err)
				}
				return html + "\nTERMINATE", nil
			}), func(o *chat.AgentOptions) {
				o.Description = "Renders the final newsletter to HTML"
			})

			g, err := chat.NewGroupChat(
				[]*chat.Agent{editor, writer, publisher},
				func(o *chat.GroupChatOptions) {
					o.Terminate = chat.ContainsToken("TERMINATE")
					o.TurnCap = 6
					o.FinalAnswer = chat.FinalAnswer{FromAgent: "Publisher", StripToken: "TERMINATE"}
				},
			)
			if err != nil {
				return nil, core.Message{}, err
			}

			return g, core.NewUserMessage(fmt.Sprintf("Prepare this week's newsletter about %s.", topic)), nil
		},
	}
}
