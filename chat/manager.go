package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/chatmesh/bridge"
	"github.com/hupe1980/chatmesh/core"
	"github.com/hupe1980/chatmesh/logging"
)

// ErrRecursionLimit is returned when nested sub-chats exceed the configured
// depth. This is the one fatal conversation error: the transcript freezes with
// whatever history exists and no final text is extracted.
var ErrRecursionLimit = errors.New("nested chat recursion limit exceeded")

// State is the observable phase of a running conversation.
type State string

const (
	// StateWaitingForNextSpeaker means the manager is selecting a speaker.
	StateWaitingForNextSpeaker State = "WAITING_FOR_NEXT_SPEAKER"
	// StateComputingReply means the selected agent is producing its reply.
	StateComputingReply State = "AGENT_COMPUTING_REPLY"
	// StateMessageAppended means a reply was appended and published.
	StateMessageAppended State = "MESSAGE_APPENDED"
	// StateTerminated means the transcript is frozen.
	StateTerminated State = "TERMINATED"
)

// ManagerOptions configures a Manager.
type ManagerOptions struct {
	// Pool bounds concurrent model/tool calls. Defaults to a fresh pool of 8,
	// but callers normally share one process-wide pool.
	Pool *core.CallPool

	// MaxDepth bounds nested sub-chat recursion. Defaults to 3.
	MaxDepth int

	// Logger receives turn-level progress. Defaults to NoOp.
	Logger logging.Logger
}

// Manager drives one GroupChat from seed to termination. It owns the entire
// turn loop: speaker selection, reply computation, error substitution,
// transcript appends, and outbound publication. Every message enters the
// outbound queue in the same order it enters the transcript.
//
// A Manager runs exactly one conversation and is not reusable.
type Manager struct {
	chat     *GroupChat
	bridge   *bridge.QueueBridge
	pool     *core.CallPool
	maxDepth int
	depth    int
	logger   logging.Logger
	state    State
}

// NewManager constructs a Manager for one conversation run.
func NewManager(chat *GroupChat, qb *bridge.QueueBridge, optFns ...func(o *ManagerOptions)) *Manager {
	opts := ManagerOptions{
		MaxDepth: 3,
		Logger:   logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Pool == nil {
		opts.Pool = core.NewCallPool(0)
	}

	return &Manager{
		chat:     chat,
		bridge:   qb,
		pool:     opts.Pool,
		maxDepth: opts.MaxDepth,
		logger:   opts.Logger,
		state:    StateWaitingForNextSpeaker,
	}
}

// State returns the manager's current phase.
func (m *Manager) State() State { return m.state }

// Run executes the conversation to termination and returns its result. The
// result is non-nil whenever any history exists, including the fatal
// recursion-limit case, where FinalText is nil and History holds the partial
// transcript. Cancellation returns the context error with whatever result
// could be assembled.
func (m *Manager) Run(ctx context.Context, seed core.Message) (*core.ConversationResult, error) {
	transcript := m.chat.Transcript()

	if err := m.append(transcript, seed); err != nil {
		return nil, err
	}

	var (
		terminated bool
		runErr     error
	)

	for turn := 0; turn < m.chat.TurnCap(); turn++ {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		m.state = StateWaitingForNextSpeaker

		speaker, err := m.chat.selector.Next(ctx, m.chat.Agents(), transcript)
		if err != nil {
			runErr = fmt.Errorf("speaker selection: %w", err)
			break
		}

		m.state = StateComputingReply
		started := time.Now()

		reply, err := m.computeReply(ctx, speaker, transcript)
		if err != nil {
			if errors.Is(err, ErrRecursionLimit) || ctx.Err() != nil {
				runErr = err
				break
			}

			// Ordinary reply failure becomes a visible error turn so the
			// conversation keeps moving and observers see what happened.
			reply = core.Message{
				Sender:    speaker.Name(),
				Content:   fmt.Sprintf("Error computing reply: %v", err),
				Role:      core.RoleAssistant,
				Timestamp: time.Now().UTC(),
				Metadata:  map[string]string{"error": err.Error()},
			}
		}

		if appendErr := m.append(transcript, reply); appendErr != nil {
			runErr = appendErr
			break
		}

		m.state = StateMessageAppended
		m.logTurn(speaker.Name(), turn, time.Since(started), err)

		if m.chat.terminate(reply) {
			terminated = true
			break
		}
	}

	transcript.Freeze()
	m.state = StateTerminated

	history := transcript.Messages()

	if runErr != nil {
		if errors.Is(runErr, ErrRecursionLimit) {
			return core.NewConversationResult(nil, history), runErr
		}
		return nil, runErr
	}

	var finalText *string
	if terminated {
		finalText = m.extractFinalAnswer(transcript)
	}

	return core.NewConversationResult(finalText, history), nil
}

// append writes a message to the transcript and mirrors it onto the outbound
// queue, preserving order.
func (m *Manager) append(transcript *core.Transcript, msg core.Message) error {
	if err := transcript.Append(msg); err != nil {
		return err
	}

	m.bridge.Publish(msg)

	return nil
}

func (m *Manager) computeReply(ctx context.Context, speaker *Agent, transcript *core.Transcript) (core.Message, error) {
	last, _ := transcript.Last()

	if speaker.nested != nil && speaker.nested.triggered(last) {
		summary, err := m.runNested(ctx, speaker.nested, last)
		if err != nil {
			return core.Message{}, err
		}
		return core.NewMessage(speaker.Name(), summary, core.RoleAssistant), nil
	}

	if speaker.interactive {
		input, err := m.bridge.AwaitHumanInput(ctx, speaker.inputTimeout)
		if err != nil {
			return core.Message{}, fmt.Errorf("human input for %s: %w", speaker.Name(), err)
		}
		return core.NewMessage(speaker.Name(), input, core.RoleUser), nil
	}

	if speaker.strategy == nil {
		return core.Message{}, fmt.Errorf("agent %s has no reply strategy", speaker.Name())
	}

	var text string
	err := m.pool.Do(ctx, func() error {
		var replyErr error
		text, replyErr = speaker.strategy.Reply(ctx, ReplyRequest{
			Agent:    speaker.Name(),
			Messages: transcript.Messages(),
		})
		return replyErr
	})
	if err != nil {
		return core.Message{}, err
	}

	return core.NewMessage(speaker.Name(), text, core.RoleAssistant), nil
}

// runNested executes a sub-conversation on the shared bridge and folds its
// result into a single summary string.
func (m *Manager) runNested(ctx context.Context, spec *NestedChatSpec, trigger core.Message) (string, error) {
	if m.depth+1 > m.maxDepth {
		return "", fmt.Errorf("depth %d: %w", m.depth+1, ErrRecursionLimit)
	}

	sub, err := spec.ChatFactory()
	if err != nil {
		return "", fmt.Errorf("build nested chat: %w", err)
	}

	child := NewManager(sub, m.bridge, func(o *ManagerOptions) {
		o.Pool = m.pool
		o.MaxDepth = m.maxDepth
		o.Logger = m.logger
	})
	child.depth = m.depth + 1

	result, err := child.Run(ctx, spec.seed(trigger))
	if err != nil {
		return "", err
	}

	return spec.summarize(result), nil
}

// extractFinalAnswer applies the chat's FinalAnswer rule to the frozen
// transcript. Returns nil when no authoritative message exists or stripping
// the termination token leaves nothing.
func (m *Manager) extractFinalAnswer(transcript *core.Transcript) *string {
	rule := m.chat.finalAnswer

	var (
		msg core.Message
		ok  bool
	)
	if rule.FromAgent != "" {
		msg, ok = transcript.LastFrom(rule.FromAgent)
	} else {
		msg, ok = transcript.Last()
	}
	if !ok {
		return nil
	}

	text := msg.Content
	if rule.StripToken != "" {
		text = strings.ReplaceAll(text, rule.StripToken, "")
	}
	text = strings.TrimSpace(text)

	if text == "" {
		return nil
	}

	return &text
}

func (m *Manager) logTurn(speaker string, turn int, dur time.Duration, err error) {
	if cl, ok := m.logger.(*logging.ChatMeshLogger); ok {
		cl.LogTurn(speaker, turn, dur, err)
		return
	}

	if err != nil {
		m.logger.Warn("turn completed with substituted error reply", "speaker", speaker, "turn", turn, "error", err.Error())
		return
	}

	m.logger.Debug("turn completed", "speaker", speaker, "turn", turn, "duration", dur.String())
}
