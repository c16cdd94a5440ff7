package dispatch

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/Vovarama1992/expert_reader/internal/domain"
	"github.com/Vovarama1992/expert_reader/internal/error_notificator"
	"github.com/Vovarama1992/expert_reader/internal/prompts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	// opencensus (pulled in by the genai SDK) starts its worker in init.
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

type fakeAI struct {
	mu    sync.Mutex
	calls []domain.CompletionRequest
	reply func(req domain.CompletionRequest) domain.CompletionResult
}

func (f *fakeAI) Complete(_ context.Context, req domain.CompletionRequest) domain.CompletionResult {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()
	if f.reply != nil {
		return f.reply(req)
	}
	return domain.Success("ok")
}

func (f *fakeAI) Calls() []domain.CompletionRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.CompletionRequest(nil), f.calls...)
}

type fakeActivity struct {
	mu    sync.Mutex
	chats []int64
}

func (f *fakeActivity) Typing(_ context.Context, chatID int64) {
	f.mu.Lock()
	f.chats = append(f.chats, chatID)
	f.mu.Unlock()
}

func newTestRouter(t *testing.T, aiSvc *fakeAI, log *zap.Logger) (*Router, *fakeActivity) {
	t.Helper()
	activity := &fakeActivity{}
	r, err := NewRouter(
		prompts.NewService(""),
		aiSvc,
		error_notificator.NewService(nil, log),
		activity,
		log,
	)
	require.NoError(t, err)
	return r, activity
}

func TestDispatch_AnalyzeScenario(t *testing.T) {
	aiSvc := &fakeAI{reply: func(domain.CompletionRequest) domain.CompletionResult {
		return domain.Success("Likely settlement.")
	}}
	r, activity := newTestRouter(t, aiSvc, nil)

	out, ok := r.Dispatch(context.Background(), domain.ParseText(10, "/analyze cracks in foundation wall"))

	require.True(t, ok)
	calls := aiSvc.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "You are a construction expert. Analyze: cracks in foundation wall", calls[0].Prompt)
	assert.Equal(t, 1000, calls[0].MaxOutputTokens)
	assert.Equal(t, float32(0.1), calls[0].Temperature)

	assert.Equal(t, int64(10), out.ChatID)
	assert.Equal(t, "📊 ANALYSIS RESULT\n\nLikely settlement.", out.Text)
	assert.Equal(t, "*📊 ANALYSIS RESULT*\n\nLikely settlement.", out.Markdown)
	assert.Equal(t, domain.ParseModeMarkdown, out.ParseMode)
	assert.Equal(t, []int64{10}, activity.chats)
}

func TestDispatch_ChatScenario(t *testing.T) {
	aiSvc := &fakeAI{reply: func(domain.CompletionRequest) domain.CompletionResult {
		return domain.Success("Moisture.")
	}}
	r, _ := newTestRouter(t, aiSvc, nil)

	out, ok := r.Dispatch(context.Background(), domain.ParseText(11, "What causes mold?"))

	require.True(t, ok)
	calls := aiSvc.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "Respond as a construction expert to: What causes mold?", calls[0].Prompt)
	assert.Equal(t, 500, calls[0].MaxOutputTokens)
	assert.True(t, strings.HasPrefix(out.Text, "🤖 EXPERT REPLY"))
	assert.Equal(t, "🤖 EXPERT REPLY\n\nMoisture.", out.Text)
}

func TestDispatch_TimeoutScenario(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	aiSvc := &fakeAI{reply: func(domain.CompletionRequest) domain.CompletionResult {
		return domain.Failed(domain.CompletionServiceError, "timeout after 30s")
	}}
	r, _ := newTestRouter(t, aiSvc, zap.New(core))

	out, ok := r.Dispatch(context.Background(), domain.ParseText(12, "/analyze roof leak"))

	require.True(t, ok)
	assert.Equal(t, "❌ Error: timeout after 30s", out.Text)
	assert.False(t, out.Rich())

	failed := logs.FilterMessage("message failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, "timeout after 30s", failed[0].ContextMap()["message"])
}

func TestDispatch_LongFailureTruncated(t *testing.T) {
	long := strings.Repeat("x", 250)
	aiSvc := &fakeAI{reply: func(domain.CompletionRequest) domain.CompletionResult {
		return domain.Failed(domain.CompletionServiceError, long)
	}}
	r, _ := newTestRouter(t, aiSvc, nil)

	out, _ := r.Dispatch(context.Background(), domain.ParseText(1, "anything"))

	assert.Equal(t, error_notificator.ErrorPrefix+long[:100], out.Text)
}

func TestDispatch_AnalyzeMissingInput(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	aiSvc := &fakeAI{}
	r, activity := newTestRouter(t, aiSvc, zap.New(core))

	for _, in := range []string{"/analyze", "/analyze    ", "/analyze@ExpertReader_Bot"} {
		out, ok := r.Dispatch(context.Background(), domain.ParseText(13, in))

		require.True(t, ok, in)
		assert.Equal(t, error_notificator.MissingInputText, out.Text, in)
	}

	whitespaceArgs := domain.IncomingMessage{ChatID: 13, Command: "analyze", Args: []string{" ", "\t"}}
	out, ok := r.Dispatch(context.Background(), whitespaceArgs)
	require.True(t, ok)
	assert.Equal(t, error_notificator.MissingInputText, out.Text)

	assert.Empty(t, aiSvc.Calls())
	assert.Empty(t, activity.chats)
	assert.Equal(t, 0, logs.FilterMessage("message failed").Len())
}

func TestDispatch_StartHelpNeverCallCompletion(t *testing.T) {
	aiSvc := &fakeAI{}
	r, _ := newTestRouter(t, aiSvc, nil)

	start, ok := r.Dispatch(context.Background(), domain.ParseText(1, "/start"))
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(start.Text, "🏗️ EXPERT READER BOT"))
	assert.True(t, strings.HasPrefix(start.Markdown, "*🏗️ EXPERT READER BOT*"))
	assert.Contains(t, start.Text, "/analyze text")

	help, ok := r.Dispatch(context.Background(), domain.ParseText(1, "/help"))
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(help.Text, "📋 HELP"))
	assert.NotContains(t, help.Text, "*")

	again, _ := r.Dispatch(context.Background(), domain.ParseText(1, "/start"))
	assert.Equal(t, start, again)

	assert.Empty(t, aiSvc.Calls())
}

func TestDispatch_UnknownCommandIgnored(t *testing.T) {
	aiSvc := &fakeAI{}
	r, _ := newTestRouter(t, aiSvc, nil)

	_, ok := r.Dispatch(context.Background(), domain.ParseText(1, "/settings dark"))

	assert.False(t, ok)
	assert.Empty(t, aiSvc.Calls())
}

func TestDispatch_EmptyTextIgnored(t *testing.T) {
	aiSvc := &fakeAI{}
	r, _ := newTestRouter(t, aiSvc, nil)

	_, ok := r.Dispatch(context.Background(), domain.IncomingMessage{ChatID: 1})

	assert.False(t, ok)
	assert.Empty(t, aiSvc.Calls())
}

func TestDispatch_ConcurrentRepliesStayAddressed(t *testing.T) {
	aiSvc := &fakeAI{reply: func(req domain.CompletionRequest) domain.CompletionResult {
		return domain.Success(strings.TrimPrefix(req.Prompt, prompts.ChatPrefix))
	}}
	r, _ := newTestRouter(t, aiSvc, nil)

	const n = 50
	var wg sync.WaitGroup
	outs := make([]domain.OutgoingMessage, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outs[i], _ = r.Dispatch(context.Background(), domain.ParseText(int64(i), fmt.Sprintf("question %d", i)))
		}(i)
	}
	wg.Wait()

	for i, out := range outs {
		assert.Equal(t, int64(i), out.ChatID)
		assert.Equal(t, fmt.Sprintf("%s\n\nquestion %d", HeaderChat, i), out.Text)
	}
	assert.Len(t, aiSvc.Calls(), n)
}

func TestBuildTable_Validation(t *testing.T) {
	h := func(context.Context, domain.IncomingMessage) domain.OutgoingMessage { return domain.OutgoingMessage{} }
	all := []Route{
		{Intent: domain.IntentStart, Handler: h},
		{Intent: domain.IntentHelp, Handler: h},
		{Intent: domain.IntentAnalyze, Handler: h},
		{Intent: domain.IntentChat, Handler: h},
	}

	_, err := buildTable(all)
	assert.NoError(t, err)

	_, err = buildTable(all[:3])
	assert.ErrorContains(t, err, "chat")

	_, err = buildTable(append(all, Route{Intent: domain.IntentHelp, Handler: h}))
	assert.ErrorContains(t, err, "duplicate")

	_, err = buildTable(append(all, Route{Intent: "weather", Handler: h}))
	assert.ErrorContains(t, err, "undeclared")

	_, err = buildTable([]Route{{Intent: domain.IntentStart}})
	assert.ErrorContains(t, err, "nil handler")
}

func TestClassify(t *testing.T) {
	cases := map[string]domain.Intent{
		"/start":          domain.IntentStart,
		"/help":           domain.IntentHelp,
		"/analyze x":      domain.IntentAnalyze,
		"/unknown":        domain.IntentNone,
		"hello":           domain.IntentChat,
		"analyze this /x": domain.IntentChat,
	}

	for in, want := range cases {
		assert.Equal(t, want, Classify(domain.ParseText(1, in)), in)
	}
}
