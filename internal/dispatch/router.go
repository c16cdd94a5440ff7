package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Vovarama1992/expert_reader/internal/ai"
	"github.com/Vovarama1992/expert_reader/internal/domain"
	"github.com/Vovarama1992/expert_reader/internal/prompts"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type HandlerFunc func(ctx context.Context, msg domain.IncomingMessage) domain.OutgoingMessage

type Route struct {
	Intent  domain.Intent
	Handler HandlerFunc
}

// FallbackPolicy decides what the user sees when a step fails.
type FallbackPolicy interface {
	MissingInput(chatID int64) domain.OutgoingMessage
	Reply(ctx context.Context, chatID int64, f *domain.Failure) domain.OutgoingMessage
}

// ActivityNotifier shows the user that a completion is in progress.
type ActivityNotifier interface {
	Typing(ctx context.Context, chatID int64)
}

type Router struct {
	prompts  prompts.Service
	ai       ai.Service
	policy   FallbackPolicy
	activity ActivityNotifier
	log      *zap.Logger

	handlers map[domain.Intent]HandlerFunc
}

func NewRouter(
	promptSvc prompts.Service,
	aiSvc ai.Service,
	policy FallbackPolicy,
	activity ActivityNotifier,
	log *zap.Logger,
) (*Router, error) {
	if log == nil {
		log = zap.NewNop()
	}

	r := &Router{
		prompts:  promptSvc,
		ai:       aiSvc,
		policy:   policy,
		activity: activity,
		log:      log.Named("dispatch"),
	}

	handlers, err := buildTable([]Route{
		{Intent: domain.IntentStart, Handler: r.handleStart},
		{Intent: domain.IntentHelp, Handler: r.handleHelp},
		{Intent: domain.IntentAnalyze, Handler: r.handleAnalyze},
		{Intent: domain.IntentChat, Handler: r.handleChat},
	})
	if err != nil {
		return nil, err
	}
	r.handlers = handlers

	return r, nil
}

// buildTable checks that every declared intent has exactly one handler.
func buildTable(routes []Route) (map[domain.Intent]HandlerFunc, error) {
	known := make(map[domain.Intent]bool, len(domain.Intents))
	for _, in := range domain.Intents {
		known[in] = true
	}

	table := make(map[domain.Intent]HandlerFunc, len(routes))
	for _, rt := range routes {
		if !known[rt.Intent] {
			return nil, fmt.Errorf("route for undeclared intent %q", rt.Intent)
		}
		if rt.Handler == nil {
			return nil, fmt.Errorf("nil handler for intent %q", rt.Intent)
		}
		if _, dup := table[rt.Intent]; dup {
			return nil, fmt.Errorf("duplicate handler for intent %q", rt.Intent)
		}
		table[rt.Intent] = rt.Handler
	}

	var missing []string
	for _, in := range domain.Intents {
		if _, ok := table[in]; !ok {
			missing = append(missing, string(in))
		}
	}
	if len(missing) > 0 {
		return nil, errors.New("no handler for intents: " + strings.Join(missing, ", "))
	}

	return table, nil
}

// Classify: unknown commands map to IntentNone and get no reply.
func Classify(msg domain.IncomingMessage) domain.Intent {
	if msg.IsCommand() {
		switch domain.Intent(msg.Command) {
		case domain.IntentStart, domain.IntentHelp, domain.IntentAnalyze:
			return domain.Intent(msg.Command)
		}
		return domain.IntentNone
	}

	if msg.Text == "" {
		return domain.IntentNone
	}
	return domain.IntentChat
}

// Dispatch handles one message. ok == false means the message is ignored.
func (r *Router) Dispatch(ctx context.Context, msg domain.IncomingMessage) (out domain.OutgoingMessage, ok bool) {
	if msg.RequestID == "" {
		msg.RequestID = uuid.NewString()
	}
	ctx = domain.WithRequestID(ctx, msg.RequestID)
	msg.Intent = Classify(msg)

	log := r.log.With(
		zap.String("request_id", msg.RequestID),
		zap.Int64("chat_id", msg.ChatID),
		zap.Int64("sender_id", msg.SenderID),
	)

	h, found := r.handlers[msg.Intent]
	if !found {
		log.Debug("message ignored", zap.String("command", msg.Command))
		return domain.OutgoingMessage{}, false
	}

	log.Info("dispatch", zap.String("intent", string(msg.Intent)))
	return h(ctx, msg), true
}

func (r *Router) handleStart(_ context.Context, msg domain.IncomingMessage) domain.OutgoingMessage {
	return fromTemplate(msg.ChatID, welcomeText)
}

func (r *Router) handleHelp(_ context.Context, msg domain.IncomingMessage) domain.OutgoingMessage {
	return fromTemplate(msg.ChatID, helpText)
}

func (r *Router) handleAnalyze(ctx context.Context, msg domain.IncomingMessage) domain.OutgoingMessage {
	text := msg.ArgsText()
	if strings.TrimSpace(text) == "" {
		return r.policy.MissingInput(msg.ChatID)
	}
	return r.complete(ctx, msg.ChatID, prompts.ModeAnalysis, text, HeaderAnalysis)
}

func (r *Router) handleChat(ctx context.Context, msg domain.IncomingMessage) domain.OutgoingMessage {
	return r.complete(ctx, msg.ChatID, prompts.ModeChat, msg.Text, HeaderChat)
}

func (r *Router) complete(
	ctx context.Context,
	chatID int64,
	mode prompts.Mode,
	text string,
	header string,
) domain.OutgoingMessage {
	if r.activity != nil {
		r.activity.Typing(ctx, chatID)
	}

	res := r.ai.Complete(ctx, r.prompts.Build(mode, text))
	if !res.OK() {
		return r.policy.Reply(ctx, chatID, res.Failure)
	}

	return Format(chatID, header, res.Text)
}
