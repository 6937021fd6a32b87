package feature

import (
	"fmt"

	"github.com/hupe1980/chatmesh/chat"
	"github.com/hupe1980/chatmesh/core"
	"github.com/hupe1980/chatmesh/model"
	"github.com/hupe1980/chatmesh/tool"
)

const pageSummarizerInstructions = `You answer questions from scraped web page text.
The previous message contains the page content; the original question came first.
Answer concisely using only the page content. End your reply with TERMINATE.`

// NewWebScrape builds the web-scraping feature. An Analyst agent runs a
// nested fetch sub-chat whose single Fetcher agent pulls the page through the
// scrape tool; the page text folds back into the parent conversation, where a
// Summarizer answers the question. The Summarizer's answer is authoritative.
//
// Required seed values: url, question.
func NewWebScrape(m model.Model, scrapeOptFns ...func(o *tool.ScrapePageOptions)) *Feature {
	return &Feature{
		Name:        "webscrape",
		Description: "Fetch a web page and answer a question about it",
		Build: func(seed map[string]any) (*chat.GroupChat, core.Message, error) {
			url, err := seedString(seed, "url")
			if err != nil {
				return nil, core.Message{}, err
			}
			question, err := seedString(seed, "question")
			if err != nil {
				return nil, core.Message{}, err
			}

			scrapeTool := tool.NewScrapePageTool(scrapeOptFns...)

			fetchFactory := func() (*chat.GroupChat, error) {
				fetcher := chat.NewAgent("Fetcher", chat.NewToolStrategy(scrapeTool, func(core.Message) (map[string]any, error) {
					return map[string]any{"url": url}, nil
				}))

				// One fetch turn; the turn cap ends the sub-chat and the
				// page text is folded out as the last message.
				return chat.NewGroupChat([]*chat.Agent{fetcher}, func(o *chat.GroupChatOptions) {
					o.TurnCap = 1
				})
			}

			analyst := chat.NewAgent("Analyst", nil, func(o *chat.AgentOptions) {
				o.Description = "Fetches the page content"
				o.Nested = &chat.NestedChatSpec{
					ChatFactory: fetchFactory,
					Seed: func(core.Message) core.Message {
						return core.NewUserMessage(fmt.Sprintf("Fetch %s", url))
					},
				}
			})

			summarizer := chat.NewAgent("Summarizer", chat.NewModelStrategy(m, pageSummarizerInstructions), func(o *chat.AgentOptions) {
				o.Description = "Answers the question from the page content"
			})

			g, err := chat.NewGroupChat(
				[]*chat.Agent{analyst, summarizer},
				func(o *chat.GroupChatOptions) {
					o.Terminate = chat.ContainsToken("TERMINATE")
					o.TurnCap = 4
					o.FinalAnswer = chat.FinalAnswer{FromAgent: "Summarizer", StripToken: "TERMINATE"}
				},
			)
			if err != nil {
				return nil, core.Message{}, err
			}

			return g, core.NewUserMessage(question), nil
		},
	}
}
