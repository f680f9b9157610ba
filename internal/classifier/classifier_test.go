package classifier

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-desk/internal/config"
)

type mockCompleter struct {
	mock.Mock
}

func (m *mockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func TestClassifyRejectsBlankText(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t"} {
		completer := &mockCompleter{}
		_, err := New(completer).Classify(context.Background(), text)

		assert.ErrorIs(t, err, ErrEmptyText)
		completer.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
	}
}

func TestClassifyParsesReply(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  Suggestion
	}{
		{"plain", `{"suggested_category":"billing","suggested_priority":"high"}`, Suggestion{"billing", "high"}},
		{"fenced json", "```json\n{\"suggested_category\":\"technical\",\"suggested_priority\":\"critical\"}\n```", Suggestion{"technical", "critical"}},
		{"fenced bare", "```\n{\"suggested_category\":\"account\",\"suggested_priority\":\"medium\"}\n```", Suggestion{"account", "medium"}},
		{"values unchanged", `{"suggested_category":"Refunds","suggested_priority":"P1","reason":"x"}`, Suggestion{"Refunds", "P1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := &mockCompleter{}
			completer.On("Complete", mock.Anything, mock.AnythingOfType("string")).Return(tt.reply, nil).Once()

			got, err := New(completer).Classify(context.Background(), "I was charged twice")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			completer.AssertExpectations(t)
		})
	}
}

func TestClassifyFailures(t *testing.T) {
	tests := []struct {
		name      string
		reply     string
		callErr   error
		wantStage string
	}{
		{"transport", "", errors.New("dial tcp: timeout"), "call"},
		{"not json", "Category: billing", nil, "parse"},
		{"missing key", `{"suggested_category":"billing"}`, nil, "parse"},
		{"keys in other case", `{"SUGGESTED_CATEGORY":"billing","Suggested_Priority":"high"}`, nil, "parse"},
		{"array reply", `["billing","high"]`, nil, "parse"},
		{"null value", `{"suggested_category":null,"suggested_priority":"low"}`, nil, "parse"},
		{"non string", `{"suggested_category":3,"suggested_priority":"low"}`, nil, "parse"},
		{"empty", "``` ```", nil, "parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := &mockCompleter{}
			completer.On("Complete", mock.Anything, mock.Anything).Return(tt.reply, tt.callErr).Once()

			_, err := New(completer).Classify(context.Background(), "printer on fire")

			var extErr *ExternalServiceError
			require.ErrorAs(t, err, &extErr)
			assert.Equal(t, tt.wantStage, extErr.Stage)
			completer.AssertNumberOfCalls(t, "Complete", 1)
		})
	}
}

func TestMissingKeyCompleter(t *testing.T) {
	completer, err := NewCompleter(context.Background(), config.ClassifierConfig{Provider: config.ProviderGemini})
	require.NoError(t, err)

	_, err = New(completer).Classify(context.Background(), "help")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestNewCompleterUnknownProvider(t *testing.T) {
	_, err := NewCompleter(context.Background(), config.ClassifierConfig{Provider: "llama", APIKey: "k"})
	assert.Error(t, err)
}

func TestFallback(t *testing.T) {
	assert.Equal(t, Suggestion{Category: "general", Priority: "low"}, Fallback())
}
