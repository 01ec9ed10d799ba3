package panel

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/diogo/promptdeck/internal/api"
	apierrors "github.com/diogo/promptdeck/internal/errors"
	"github.com/diogo/promptdeck/internal/models"
)

// Converser sends one prompt to the conversation route
type Converser interface {
	Converse(ctx context.Context, prompt string) (string, error)
}

// Reply is the pair of exchanges appended by one successful submission
type Reply struct {
	User      models.Exchange
	Assistant models.Exchange
}

// Conversation is the text variant of the prompt panel. It keeps an
// append-only history of exchanges for the lifetime of the instance.
type Conversation struct {
	state
	client Converser

	history []models.Exchange
}

// NewConversation creates an empty conversation panel
func NewConversation(client Converser, opts ...Option) *Conversation {
	c := &Conversation{client: client}
	c.init(models.ToolConversation, opts)
	return c
}

// Submit validates the prompt, sends it and appends the user and assistant
// exchanges on success. History is untouched on any failure.
func (c *Conversation) Submit(ctx context.Context, prompt string) (reply Reply, err error) {
	if err = ValidatePrompt(prompt); err != nil {
		return Reply{}, err
	}
	if err = c.begin(); err != nil {
		return Reply{}, err
	}

	requestID := uuid.NewString()
	ctx = api.WithRequestID(ctx, requestID)
	start := time.Now()

	defer func() {
		c.finish(ctx, Attempt{
			Tool:      c.tool,
			Prompt:    prompt,
			RequestID: requestID,
			Duration:  time.Since(start),
			Err:       err,
		})
	}()

	output, err := c.client.Converse(ctx, prompt)
	if err != nil {
		return Reply{}, err
	}
	if strings.TrimSpace(output) == "" {
		err = apierrors.NewNoContentError(models.PathConversation, models.FieldConversationOutput)
		return Reply{}, err
	}

	reply = Reply{
		User:      models.NewUserExchange(prompt),
		Assistant: models.NewAssistantExchange(output),
	}

	c.mu.Lock()
	c.history = append(c.history, reply.User, reply.Assistant)
	c.mu.Unlock()

	return reply, nil
}

// History returns the exchanges in chronological order
func (c *Conversation) History() []models.Exchange {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.Exchange(nil), c.history...)
}

// Timeline returns the exchanges most recent first, the order they are rendered in
func (c *Conversation) Timeline() []models.Exchange {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Exchange, len(c.history))
	for i, ex := range c.history {
		out[len(c.history)-1-i] = ex
	}
	return out
}

// Len returns the number of exchanges
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.history)
}

// LastReply returns the most recent assistant exchange, if any
func (c *Conversation) LastReply() (models.Exchange, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for i := len(c.history) - 1; i >= 0; i-- {
		if c.history[i].Role == models.RoleAssistant {
			return c.history[i], true
		}
	}
	return models.Exchange{}, false
}

// View resolves which of the three views the panel shows
func (c *Conversation) View() ViewState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return ResolveView(c.submitting, len(c.history))
}
