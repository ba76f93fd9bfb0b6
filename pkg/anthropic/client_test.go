package anthropic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sdk "github.com/anthropics/anthropic-sdk-go"
)

func TestTokenUsage_EstimateCost(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		usage TokenUsage
		model string
		want  float64
	}{
		{
			name:  "haiku input and output",
			usage: TokenUsage{InputTokens: 1_000_000, OutputTokens: 1_000_000},
			model: "claude-haiku-4-5-20251001",
			want:  4.80,
		},
		{
			name:  "sonnet with cache write",
			usage: TokenUsage{InputTokens: 1_000_000, CacheCreationInputTokens: 1_000_000},
			model: "claude-sonnet-4-5-20250929",
			want:  3.00 + 3.75,
		},
		{
			name:  "cache read discount",
			usage: TokenUsage{CacheReadInputTokens: 1_000_000},
			model: "claude-haiku-4-5-20251001",
			want:  0.08,
		},
		{
			name:  "unknown model",
			usage: TokenUsage{InputTokens: 1_000_000},
			model: "claude-unknown",
			want:  0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.usage.EstimateCost(tt.model), 1e-9)
		})
	}
}

func TestMessageResponse_Text(t *testing.T) {
	t.Parallel()
	resp := &MessageResponse{
		Content: []ContentBlock{
			{Type: "text", Text: `{"products":`},
			{Type: "tool_use", Text: "ignored"},
			{Type: "text", Text: `[]}`},
		},
	}
	assert.Equal(t, `{"products":[]}`, resp.Text())
}

func TestBuildCachedSystemBlocks(t *testing.T) {
	t.Parallel()
	blocks := BuildCachedSystemBlocks("You extract structured company data.")
	require.Len(t, blocks, 1)
	assert.Equal(t, "You extract structured company data.", blocks[0].Text)
	require.NotNil(t, blocks[0].CacheControl)
	assert.Equal(t, "1h", blocks[0].CacheControl.TTL)
}

func TestToSDKMessages(t *testing.T) {
	t.Parallel()
	msgs := toSDKMessages([]Message{
		{Role: "user", Content: "analyze this"},
		{Role: "assistant", Content: "ok"},
	})
	require.Len(t, msgs, 2)
	assert.Equal(t, sdk.MessageParamRoleUser, msgs[0].Role)
	assert.Equal(t, sdk.MessageParamRoleAssistant, msgs[1].Role)
}

func TestToSDKSystemBlocks(t *testing.T) {
	t.Parallel()
	blocks := toSDKSystemBlocks([]SystemBlock{
		{Text: "plain"},
		{Text: "cached", CacheControl: &CacheControl{TTL: "5m"}},
	})
	require.Len(t, blocks, 2)
	assert.Equal(t, "plain", blocks[0].Text)
	// SDK v1.9.0 carries the TTL as an extra field, so assert on the
	// marshaled JSON rather than a struct field.
	data, err := blocks[1].CacheControl.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"ttl":"5m"`)
}

func TestFromSDKMessage(t *testing.T) {
	t.Parallel()
	msg := &sdk.Message{
		ID:         "msg_123",
		Model:      "claude-haiku-4-5-20251001",
		StopReason: "end_turn",
		Content: []sdk.ContentBlockUnion{
			{Type: "text", Text: "hello"},
		},
		Usage: sdk.Usage{
			InputTokens:  100,
			OutputTokens: 20,
		},
	}

	resp := fromSDKMessage(msg)
	assert.Equal(t, "msg_123", resp.ID)
	assert.Equal(t, "end_turn", resp.StopReason)
	assert.Equal(t, "hello", resp.Text())
	assert.Equal(t, int64(100), resp.Usage.InputTokens)
	assert.Equal(t, int64(20), resp.Usage.OutputTokens)
}
