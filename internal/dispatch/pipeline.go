package dispatch

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thebtf/beacon/internal/channel"
	"github.com/thebtf/beacon/internal/describe"
	"github.com/thebtf/beacon/internal/event"
	"github.com/thebtf/beacon/internal/gitrepo"
	"github.com/thebtf/beacon/pkg/models"
)

// Pipeline processes exactly one event per invocation: normalize,
// describe, resolve the repository, route, and write the sinks. Every
// optional step degrades to a fallback; only a failed log append is
// returned to the caller.
type Pipeline struct {
	resolver *describe.Resolver
	logSink  *LogSink

	// Chat delivery. Both nil when the chat sink is not configured.
	chat   channel.ChatClient
	router *channel.Router

	// mention is the platform-specific attention string for ping mode.
	mention string

	now func() time.Time
}

// New assembles a pipeline. Pass nil chat/router to run log-only.
func New(resolver *describe.Resolver, logSink *LogSink, chat channel.ChatClient, router *channel.Router, mention string) *Pipeline {
	return &Pipeline{
		resolver: resolver,
		logSink:  logSink,
		chat:     chat,
		router:   router,
		mention:  mention,
		now:      time.Now,
	}
}

// Process runs the pipeline for one raw hook input. The returned error
// is non-nil only for a log write failure; the caller reports it on
// stderr but still responds success to the invoking tool.
func (p *Pipeline) Process(ctx context.Context, kind models.EventKind, raw []byte) error {
	ev, err := event.Normalize(kind, raw)
	if err != nil {
		// Best-effort logging with placeholders beats losing the event.
		log.Warn().Err(err).Str("kind", string(kind)).Msg("malformed hook input")
	}

	description := p.resolver.Describe(ev)
	route := RouteFor(ev.Kind)

	var logErr error
	if route.Log {
		record := models.NotificationRecord{
			Timestamp:      p.now().UTC(),
			SessionID:      ev.SessionID,
			RepositoryPath: ev.WorkingDirectory,
			Description:    description,
			EventKind:      ev.Kind,
			TranscriptPath: ev.TranscriptPath,
		}
		if logErr = p.logSink.Append(ctx, record); logErr != nil {
			log.Error().Err(logErr).Str("path", p.logSink.Path()).Msg("failed to append notification record")
		}
	}

	if route.Chat && p.chat != nil && p.router != nil {
		p.deliverChat(ctx, ev, route, description)
	}

	return logErr
}

// deliverChat posts the event to its repository channel. All failures
// here are logged and swallowed: chat delivery is best-effort and must
// never undo an already-successful log append.
func (p *Pipeline) deliverChat(ctx context.Context, ev models.Event, route Route, description string) {
	repo, err := gitrepo.Resolve(ev.WorkingDirectory)
	if err != nil {
		repo = gitrepo.Fallback(ev.WorkingDirectory)
		log.Debug().Str("cwd", ev.WorkingDirectory).Msg("no repository marker, using working directory")
	}

	mapping, err := p.router.Route(ctx, repo)
	if err != nil {
		log.Warn().Err(err).Str("repository", repo.DisplayName).Msg("chat sink unavailable for this event")
		return
	}

	text := Compose(route, p.mention, p.resolver.ForChat(ctx, description))
	if err := p.chat.PostMessage(ctx, mapping.ChannelHandle, text); err != nil {
		log.Warn().Err(err).Str("channel", mapping.ChannelKey).Msg("failed to post chat message")
	}
}
