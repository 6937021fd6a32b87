package feature

import (
	"fmt"

	"github.com/hupe1980/chatmesh/chat"
	"github.com/hupe1980/chatmesh/core"
	"github.com/hupe1980/chatmesh/internal/util"
	"github.com/hupe1980/chatmesh/model"
)

const translatorInstructions = `You are a professional translator.
Translate every {{.languageFrom}} input into {{.languageTo}}.
When the critic asks for changes, produce an improved translation.
Reply with the translation only, no commentary.`

const translationCriticInstructions = `You review translations from {{.languageFrom}} to {{.languageTo}}.
If the latest translation is faithful and natural, reply exactly: APPROVED. TERMINATE
Otherwise describe precisely what must be fixed.`

// NewTranslation builds the two-agent translation feature: a Translator
// produces the target-language text, a Critic approves or demands a revision.
// The authoritative answer is the Translator's last message.
//
// Required seed values: text, languageFrom, languageTo.
func NewTranslation(m model.Model) *Feature {
	return &Feature{
		Name:        "translation",
		Description: "Translate text between languages with critic review",
		Build: func(seed map[string]any) (*chat.GroupChat, core.Message, error) {
			text, err := seedString(seed, "text")
			if err != nil {
				return nil, core.Message{}, err
			}
			if _, err := seedString(seed, "languageFrom"); err != nil {
				return nil, core.Message{}, err
			}
			if _, err := seedString(seed, "languageTo"); err != nil {
				return nil, core.Message{}, err
			}

			translatorPrompt, err := util.RenderTemplate(translatorInstructions, seed)
			if err != nil {
				return nil, core.Message{}, fmt.Errorf("render translator instructions: %w", err)
			}

			criticPrompt, err := util.RenderTemplate(translationCriticInstructions, seed)
			if err != nil {
				return nil, core.Message{}, fmt.Errorf("render critic instructions: %w", err)
			}

			g, err := chat.NewGroupChat(
				[]*chat.Agent{
					chat.NewAgent("Translator", chat.NewModelStrategy(m, translatorPrompt), func(o *chat.AgentOptions) {
						o.Description = "Translates the input into the target language"
					}),
					chat.NewAgent("Critic", chat.NewModelStrategy(m, criticPrompt), func(o *chat.AgentOptions) {
						o.Description = "Reviews translations and approves or requests changes"
					}),
				},
				func(o *chat.GroupChatOptions) {
					o.Terminate = chat.ContainsToken("TERMINATE")
					o.TurnCap = 6
					o.FinalAnswer = chat.FinalAnswer{FromAgent: "Translator", StripToken: "TERMINATE"}
				},
			)
			if err != nil {
				return nil, core.Message{}, err
			}

			return g, core.NewUserMessage(text), nil
		},
	}
}
