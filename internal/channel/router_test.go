package channel

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thebtf/beacon/pkg/models"
)

// fakeChatClient counts platform calls and scripts their outcomes.
type fakeChatClient struct {
	channels map[string]string

	findErr       error
	missFirstFind bool
	createErr     error
	inviteErr     error

	findCalls   int
	createCalls int
	inviteCalls int
	posts       []string
}

func newFakeChatClient() *fakeChatClient {
	return &fakeChatClient{channels: make(map[string]string)}
}

func (f *fakeChatClient) FindChannelByName(_ context.Context, name string) (string, error) {
	f.findCalls++
	if f.findErr != nil {
		return "", f.findErr
	}
	if f.missFirstFind && f.findCalls == 1 {
		return "", ErrNotFound
	}
	if handle, ok := f.channels[name]; ok {
		return handle, nil
	}
	return "", ErrNotFound
}

func (f *fakeChatClient) CreatePrivateChannel(_ context.Context, name string) (string, error) {
	f.createCalls++
	if f.createErr != nil {
		return "", f.createErr
	}
	handle := "C" + name
	f.channels[name] = handle
	return handle, nil
}

func (f *fakeChatClient) InviteUser(_ context.Context, handle, userID string) error {
	f.inviteCalls++
	return f.inviteErr
}

func (f *fakeChatClient) PostMessage(_ context.Context, handle, text string) error {
	f.posts = append(f.posts, handle+": "+text)
	return nil
}

var testRepo = models.RepositoryIdentity{RootPath: "/home/dev/beacon", DisplayName: "beacon"}

func TestRouteProvisionsNewChannel(t *testing.T) {
	client := newFakeChatClient()
	router := NewRouter(client, NewCache(""), "U123")

	m, err := router.Route(context.Background(), testRepo)
	require.NoError(t, err)

	assert.Equal(t, "claude-beacon-u123", m.ChannelKey)
	assert.Equal(t, "Cclaude-beacon-u123", m.ChannelHandle)
	assert.True(t, m.Created)
	assert.Equal(t, 1, client.findCalls)
	assert.Equal(t, 1, client.createCalls)
	assert.Equal(t, 1, client.inviteCalls)
}

func TestRouteUsesExistingChannel(t *testing.T) {
	client := newFakeChatClient()
	client.channels["claude-beacon-u123"] = "C042"
	router := NewRouter(client, NewCache(""), "U123")

	m, err := router.Route(context.Background(), testRepo)
	require.NoError(t, err)

	assert.Equal(t, "C042", m.ChannelHandle)
	assert.Equal(t, 0, client.createCalls)
	assert.Equal(t, 0, client.inviteCalls)
}

func TestRouteCachedMappingSkipsPlatform(t *testing.T) {
	client := newFakeChatClient()
	router := NewRouter(client, NewCache(""), "U123")

	first, err := router.Route(context.Background(), testRepo)
	require.NoError(t, err)

	client.findCalls = 0
	client.createCalls = 0
	client.inviteCalls = 0

	second, err := router.Route(context.Background(), testRepo)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 0, client.findCalls)
	assert.Equal(t, 0, client.createCalls)
	assert.Equal(t, 0, client.inviteCalls)
}

func TestRouteCreationRaceRefinds(t *testing.T) {
	// First lookup misses, creation collides with another process, the
	// second lookup finds the channel that process created.
	client := newFakeChatClient()
	client.missFirstFind = true
	client.createErr = ErrAlreadyExists
	client.channels["claude-beacon-u123"] = "C042"
	router := NewRouter(client, NewCache(""), "U123")

	m, err := router.Route(context.Background(), testRepo)
	require.NoError(t, err)
	assert.Equal(t, "C042", m.ChannelHandle)
	assert.Equal(t, 2, client.findCalls)
	assert.Equal(t, 1, client.createCalls)
	assert.Equal(t, 0, client.inviteCalls)
}

func TestRouteFailureIsUnavailable(t *testing.T) {
	client := newFakeChatClient()
	client.findErr = errors.New("rate limited")
	router := NewRouter(client, NewCache(""), "U123")

	_, err := router.Route(context.Background(), testRepo)
	assert.ErrorIs(t, err, ErrChannelUnavailable)
}

func TestRouteInviteFailureIsUnavailable(t *testing.T) {
	client := newFakeChatClient()
	client.inviteErr = errors.New("user not found")
	router := NewRouter(client, NewCache(""), "U123")

	_, err := router.Route(context.Background(), testRepo)
	assert.ErrorIs(t, err, ErrChannelUnavailable)
}

func TestRoutePersistsToCache(t *testing.T) {
	client := newFakeChatClient()
	cache := NewCache("")
	router := NewRouter(client, cache, "U123")

	_, err := router.Route(context.Background(), testRepo)
	require.NoError(t, err)

	m, ok := cache.Get("claude-beacon-u123")
	require.True(t, ok)
	assert.True(t, m.Created)
}
