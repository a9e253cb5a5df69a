package channel

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/thebtf/beacon/pkg/models"
)

// Router maps a repository identity to its destination channel,
// creating and provisioning the channel on first use. The common case —
// a cached, already-provisioned mapping — performs no platform calls.
type Router struct {
	client ChatClient
	cache  *Cache
	userID string
	group  singleflight.Group
}

// NewRouter creates a Router for the given user. The cache is owned by
// the router for its lifetime.
func NewRouter(client ChatClient, cache *Cache, userID string) *Router {
	return &Router{client: client, cache: cache, userID: userID}
}

// Route returns the channel mapping for the repository, provisioning it
// if needed. Platform failures surface as ErrChannelUnavailable.
// Concurrent calls for the same key share one provisioning attempt.
func (r *Router) Route(ctx context.Context, repo models.RepositoryIdentity) (models.ChannelMapping, error) {
	key := Key(r.userID, repo.DisplayName)

	if m, ok := r.cache.Get(key); ok && m.Created {
		return m, nil
	}

	v, err, _ := r.group.Do(key, func() (any, error) {
		return r.provision(ctx, key)
	})
	if err != nil {
		return models.ChannelMapping{}, fmt.Errorf("%w: %v", ErrChannelUnavailable, err)
	}
	return v.(models.ChannelMapping), nil
}

// provision looks the channel up by key, creating and inviting on first
// use. Creation races (another process got there first) degrade to a
// second lookup rather than an error.
func (r *Router) provision(ctx context.Context, key string) (models.ChannelMapping, error) {
	handle, err := r.client.FindChannelByName(ctx, key)
	switch {
	case err == nil:
		// Existing channel; the user was invited when it was created.

	case errors.Is(err, ErrNotFound):
		handle, err = r.client.CreatePrivateChannel(ctx, key)
		if errors.Is(err, ErrAlreadyExists) {
			handle, err = r.client.FindChannelByName(ctx, key)
			if err != nil {
				return models.ChannelMapping{}, err
			}
		} else if err != nil {
			return models.ChannelMapping{}, err
		} else {
			if err := r.client.InviteUser(ctx, handle, r.userID); err != nil {
				return models.ChannelMapping{}, err
			}
			log.Info().Str("channel", key).Msg("provisioned new channel")
		}

	default:
		return models.ChannelMapping{}, err
	}

	m := models.ChannelMapping{
		ChannelKey:    key,
		ChannelHandle: handle,
		Created:       true,
	}
	if err := r.cache.Put(m); err != nil {
		log.Warn().Err(err).Str("channel", key).Msg("failed to persist channel cache")
	}
	return m, nil
}
