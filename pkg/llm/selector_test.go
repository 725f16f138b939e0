package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdapter struct {
	name      string
	available bool
	turns     []*Turn
	calls     int
	seen      [][]Message
}

func (f *fakeAdapter) Chat(_ context.Context, messages []Message, _ []ToolDefinition) (*Turn, error) {
	copied := make([]Message, len(messages))
	copy(copied, messages)
	f.seen = append(f.seen, copied)

	turn := f.turns[f.calls]
	if f.calls < len(f.turns)-1 {
		f.calls++
	}
	return turn, nil
}

func (f *fakeAdapter) IsAvailable(_ context.Context) bool { return f.available }

func (f *fakeAdapter) GetModelInfo() ModelInfo {
	return ModelInfo{Name: "fake", Provider: f.name}
}

func fakeConstructor(adapter *fakeAdapter) Constructor {
	return func(_ Config) (Adapter, error) {
		return adapter, nil
	}
}

func newTestSelector(t *testing.T, openaiUp, geminiUp bool) (*Selector, *fakeAdapter, *fakeAdapter) {
	t.Helper()
	selector, err := NewSelector(SelectorConfig{
		Default: "openai",
		Order:   []string{"openai", "gemini"},
		Providers: map[string]Config{
			"openai": {Provider: "openai", APIKey: "test"},
			"gemini": {Provider: "gemini", APIKey: "test"},
		},
	})
	require.NoError(t, err)

	openaiFake := &fakeAdapter{name: "openai", available: openaiUp, turns: []*Turn{{Text: "ok"}}}
	geminiFake := &fakeAdapter{name: "gemini", available: geminiUp, turns: []*Turn{{Text: "ok"}}}
	selector.registerConstructor("openai", fakeConstructor(openaiFake))
	selector.registerConstructor("gemini", fakeConstructor(geminiFake))
	return selector, openaiFake, geminiFake
}

func TestResolvePrefersRequestedProvider(t *testing.T) {
	selector, _, _ := newTestSelector(t, true, true)

	adapter, name, err := selector.Resolve(context.Background(), "gemini")
	require.NoError(t, err)
	assert.Equal(t, "gemini", name)
	assert.Equal(t, "gemini", adapter.GetModelInfo().Provider)
}

func TestResolveUsesDefaultWhenUnspecified(t *testing.T) {
	selector, _, _ := newTestSelector(t, true, true)

	_, name, err := selector.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "openai", name)
}

func TestResolveFallsBackWhenPreferredIsDown(t *testing.T) {
	selector, _, _ := newTestSelector(t, false, true)

	_, name, err := selector.Resolve(context.Background(), "openai")
	require.NoError(t, err)
	assert.Equal(t, "gemini", name)
}

func TestResolveErrorNamesAllAttemptedProviders(t *testing.T) {
	selector, _, _ := newTestSelector(t, false, false)

	_, _, err := selector.Resolve(context.Background(), "openai")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai")
	assert.Contains(t, err.Error(), "gemini")
}

func TestResolveIgnoresUnconfiguredPreference(t *testing.T) {
	selector, _, _ := newTestSelector(t, true, true)

	_, name, err := selector.Resolve(context.Background(), "mistral")
	require.NoError(t, err)
	assert.Equal(t, "openai", name)
}

func TestNewSelectorRejectsUnknownProvider(t *testing.T) {
	_, err := NewSelector(SelectorConfig{
		Default: "mistral",
		Providers: map[string]Config{
			"mistral": {Provider: "mistral"},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported AI provider: mistral")
}

func TestAdapterIsCachedBetweenResolves(t *testing.T) {
	selector, err := NewSelector(SelectorConfig{
		Default: "openai",
		Providers: map[string]Config{
			"openai": {Provider: "openai", APIKey: "test"},
		},
	})
	require.NoError(t, err)

	constructed := 0
	selector.registerConstructor("openai", func(_ Config) (Adapter, error) {
		constructed++
		return &fakeAdapter{name: "openai", available: true, turns: []*Turn{{Text: "ok"}}}, nil
	})

	_, _, err = selector.Resolve(context.Background(), "")
	require.NoError(t, err)
	_, _, err = selector.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, constructed)
}
