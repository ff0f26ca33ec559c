package agent

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cloudwego/eino-examples/adk/common/store"
	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	"bookwise/logger"
	"bookwise/pubsub"
)

// ErrNoAnswer is returned when a turn ends without an assistant reply.
var ErrNoAnswer = errors.New("agent returned no answer")

// Options tunes a Runtime. Zero values select the defaults.
type Options struct {
	SessionID     string
	Store         ConversationStore
	MaxIterations int
}

// Runtime runs the BookRecommender for one conversation and publishes every
// message on its broker.
type Runtime struct {
	agent      adk.Agent
	runner     *adk.Runner
	store      ConversationStore
	broker     *pubsub.Broker[adk.Message]
	sessionID  string
	mu         sync.Mutex // one turn at a time
	ctx        context.Context
	cancelFunc context.CancelFunc
}

// NewRuntime creates the agent, its runner and the conversation memory.
func NewRuntime(ctx context.Context, chatModel model.ToolCallingChatModel, toolsList []tool.BaseTool, opts Options) (*Runtime, error) {
	agt, err := NewBookRecommenderAgent(ctx, &BookRecommenderConfig{
		ChatModel:     chatModel,
		Tools:         toolsList,
		MaxIterations: opts.MaxIterations,
	})
	if err != nil {
		return nil, err
	}

	runner := adk.NewRunner(ctx, adk.RunnerConfig{
		Agent:           agt,
		EnableStreaming: false,
		CheckPointStore: store.NewInMemoryStore(),
	})

	sessionID := opts.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	convStore := opts.Store
	if convStore == nil {
		convStore = NewMemoryStore(DefaultMaxMessages, DefaultMaxToolResponse)
	}

	childCtx, cancel := context.WithCancel(logger.WithSession(ctx, sessionID))
	return &Runtime{
		agent:      agt,
		runner:     runner,
		store:      convStore,
		broker:     pubsub.NewBroker[adk.Message](),
		sessionID:  sessionID,
		ctx:        childCtx,
		cancelFunc: cancel,
	}, nil
}

// Run handles one user turn and returns the final assistant message.
// A FinishedEvent is published when the turn ends, successful or not.
func (r *Runtime) Run(userPrompt string) (final adk.Message, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	defer func() { r.broker.Publish(pubsub.FinishedEvent, final) }()
	defer logger.Track(r.ctx, "agent turn")()

	userMsg := schema.UserMessage(userPrompt)
	if err := r.store.Add(r.ctx, userMsg); err != nil {
		return nil, fmt.Errorf("store user message: %w", err)
	}
	r.broker.Publish(pubsub.CreatedEvent, userMsg)

	history, err := r.store.List(r.ctx)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	iter := r.runner.Run(r.ctx, history, adk.WithCheckPointID(r.sessionID))
	for {
		event, ok := iter.Next()
		if !ok {
			break
		}
		msg, err := r.handleEvent(event)
		if err != nil {
			logger.For(r.ctx).WithError(err).Error("agent run failed")
			r.broker.Publish(pubsub.CreatedEvent, schema.SystemMessage(fmt.Sprintf("Error: %v", err)))
			return nil, err
		}
		if msg != nil && msg.Role == schema.Assistant && len(msg.ToolCalls) == 0 {
			final = msg
		}
	}

	if final == nil {
		return nil, ErrNoAnswer
	}
	return final, nil
}

// handleEvent stores and publishes the message carried by event.
func (r *Runtime) handleEvent(event *adk.AgentEvent) (adk.Message, error) {
	if event.Err != nil {
		return nil, event.Err
	}
	if event.Output == nil || event.Output.MessageOutput == nil {
		return nil, nil
	}

	msg, err := event.Output.MessageOutput.GetMessage()
	if err != nil {
		return nil, fmt.Errorf("read agent message: %w", err)
	}

	if err := r.store.Add(r.ctx, msg); err != nil {
		logger.For(r.ctx).WithError(err).Warn("failed to store message")
	}
	r.broker.Publish(pubsub.CreatedEvent, msg)

	for _, tc := range msg.ToolCalls {
		logger.For(r.ctx).WithField("tool", tc.Function.Name).Debug("tool call issued")
		r.broker.Publish(pubsub.UpdatedEvent, &schema.Message{
			Role:     schema.System,
			Content:  fmt.Sprintf("Calling tool: %s", tc.Function.Name),
			ToolName: tc.Function.Name,
		})
	}
	return msg, nil
}

// SessionID identifies the conversation in logs and checkpoints.
func (r *Runtime) SessionID() string {
	return r.sessionID
}

// Broker returns the event broker.
func (r *Runtime) Broker() *pubsub.Broker[adk.Message] {
	return r.broker
}

// Store returns the conversation store.
func (r *Runtime) Store() ConversationStore {
	return r.store
}

// Close cancels a running turn and shuts the broker down.
func (r *Runtime) Close() {
	r.cancelFunc()
	r.broker.Shutdown()
}
