package phrase

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/egaillera/reserva-restaurantes/reservation"
)

// DefaultSystemPromptTemplate is the system prompt used by ToolBasedPhraser.
// The template may contain a single "%s" placeholder for the language.
const DefaultSystemPromptTemplate = `Your mission is to ask a user who is making a restaurant reservation for the information still needed to complete it.
You receive the descriptions of the missing items and must generate one single text asking the user to provide all of them.
Write something like "I need to know this, this other thing and this other", instead of asking several separate questions.
Be very polite and clear: start with terms like "Por favor", "Podría decirme" or "Disculpe".
JUST generate the question, nothing else.
The question MUST be in %s.`

type phraserOptions struct {
	lang                 string
	systemPrompt         string
	systemPromptTemplate string
}

type Option func(*phraserOptions)

// WithLang sets the language used by the default system prompt template.
func WithLang(lang string) Option {
	return func(o *phraserOptions) {
		o.lang = lang
	}
}

// WithSystemPrompt overrides the system prompt entirely.
func WithSystemPrompt(systemPrompt string) Option {
	return func(o *phraserOptions) {
		o.systemPrompt = systemPrompt
	}
}

// WithSystemPromptTemplate overrides the system prompt template. If the
// template contains "%s", it is formatted with the language.
func WithSystemPromptTemplate(systemPromptTemplate string) Option {
	return func(o *phraserOptions) {
		o.systemPromptTemplate = systemPromptTemplate
	}
}

// ToolBasedPhraser asks a chat model to word the follow-up question.
type ToolBasedPhraser struct {
	lang                 string
	systemPrompt         string
	systemPromptTemplate string
	chatModel            model.ToolCallingChatModel
}

func NewToolBasedPhraser(chatModel model.ToolCallingChatModel, opts ...Option) *ToolBasedPhraser {
	options := phraserOptions{
		lang:                 "Spanish",
		systemPromptTemplate: DefaultSystemPromptTemplate,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	if options.lang == "" {
		options.lang = "Spanish"
	}
	return &ToolBasedPhraser{
		lang:                 options.lang,
		systemPrompt:         options.systemPrompt,
		systemPromptTemplate: options.systemPromptTemplate,
		chatModel:            chatModel,
	}
}

func (g *ToolBasedPhraser) Ask(ctx context.Context, missing []reservation.FieldSpec) (string, error) {
	messages := []*schema.Message{
		schema.SystemMessage(g.buildSystemPrompt()),
		schema.UserMessage(formatMissingItems(missing)),
	}

	response, err := g.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("LLM call failed: %w", err)
	}
	question := strings.TrimSpace(response.Content)
	if question == "" {
		return "", fmt.Errorf("LLM call failed: empty question")
	}
	return question, nil
}

func (g *ToolBasedPhraser) buildSystemPrompt() string {
	if g.systemPrompt != "" {
		return g.systemPrompt
	}
	tpl := g.systemPromptTemplate
	if tpl == "" {
		tpl = DefaultSystemPromptTemplate
	}
	if strings.Contains(tpl, "%s") {
		return fmt.Sprintf(tpl, g.lang)
	}
	return tpl
}
