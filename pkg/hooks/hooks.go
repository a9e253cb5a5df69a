// Package hooks provides the shared entry point for beacon's hook
// binaries. Each binary reads one JSON blob from stdin, runs the relay
// pipeline for its event kind, and always answers Claude Code with
// {"continue": true}: a broken notifier must never block the tool.
package hooks

import (
	"context"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/thebtf/beacon/internal/channel"
	"github.com/thebtf/beacon/internal/condense"
	"github.com/thebtf/beacon/internal/config"
	"github.com/thebtf/beacon/internal/describe"
	"github.com/thebtf/beacon/internal/dispatch"
	"github.com/thebtf/beacon/internal/logger"
	"github.com/thebtf/beacon/internal/slack"
	"github.com/thebtf/beacon/pkg/models"
)

// HookResponse is the response sent back to Claude Code.
type HookResponse struct {
	Continue bool `json:"continue"`
}

// BaseInput contains common fields shared by all hook inputs.
type BaseInput struct {
	SessionID      string `json:"session_id"`
	CWD            string `json:"cwd"`
	HookEventName  string `json:"hook_event_name"`
	TranscriptPath string `json:"transcript_path"`
}

// WriteResponse writes a hook response to stdout.
func WriteResponse(hookName string, success bool) {
	response := HookResponse{Continue: success}
	data, _ := json.Marshal(response)
	fmt.Println(string(data))
}

// WriteError writes an error message to stderr. The response still
// continues: notification failures are beacon's problem, not Claude's.
func WriteError(hookName string, err error) {
	fmt.Fprintf(os.Stderr, "[%s] Error: %v\n", hookName, err)
	WriteResponse(hookName, true)
}

// Run executes the relay pipeline for one hook invocation of the given
// kind. It never exits non-zero and never emits anything but the hook
// response on stdout.
func Run(kind models.EventKind) {
	cfg := config.Get()
	logger.Setup(cfg.LogLevel)

	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		WriteError(string(kind), err)
		return
	}

	pipeline := BuildPipeline(cfg)
	if err := pipeline.Process(context.Background(), kind, raw); err != nil {
		// Log write failures are loud on stderr but still don't block.
		WriteError(string(kind), err)
		return
	}

	WriteResponse(string(kind), true)
}

// BuildPipeline wires a dispatch.Pipeline from configuration. Missing
// credentials disable the corresponding optional path without error.
func BuildPipeline(cfg *config.Config) *dispatch.Pipeline {
	var condenser describe.Condenser
	if cfg.CondenseEnabled() {
		condenser = condense.New(cfg.AnthropicAPIKey, cfg.Model)
	}

	resolver := describe.New(describe.Policy{
		ShortThreshold: cfg.ShortThreshold,
		CondenseTarget: cfg.CondenseTarget,
		MaxLength:      cfg.MaxDescription,
		Timeout:        cfg.CondenseTimeout,
		Condenser:      condenser,
	})

	sink := dispatch.NewLogSink(cfg.LogPath)

	var (
		chatClient channel.ChatClient
		router     *channel.Router
		mention    string
	)
	if cfg.ChatEnabled() {
		client := slack.New(cfg.SlackToken, cfg.SlackTimeout)
		cache, err := channel.LoadCache(cfg.CachePath)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.CachePath).Msg("unreadable channel cache, starting empty")
			cache = channel.NewCache(cfg.CachePath)
		}
		chatClient = client
		router = channel.NewRouter(client, cache, cfg.SlackUserID)
		mention = slack.Mention(cfg.SlackUserID)
	}

	return dispatch.New(resolver, sink, chatClient, router, mention)
}
