package services

import (
	"encoding/base64"
	"testing"

	"aquabot-ai/internal/apis/dtos"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBlocksAcceptsTextAndAllowedImages(t *testing.T) {
	blocks, err := decodeBlocks([]dtos.ChatContentBlock{
		{Type: "text", Text: "что с фильтром?"},
		{Type: "image", MediaType: "image/jpeg", ImageData: base64.StdEncoding.EncodeToString([]byte{0xFF, 0xD8, 0xFF})},
	})
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, "text", blocks[0].Type)
	assert.Equal(t, []byte{0xFF, 0xD8, 0xFF}, blocks[1].ImageData)
}

func TestDecodeBlocksRejectsUnknownMediaType(t *testing.T) {
	_, err := decodeBlocks([]dtos.ChatContentBlock{
		{Type: "image", MediaType: "image/tiff", ImageData: base64.StdEncoding.EncodeToString([]byte{1})},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported image media type")
}

func TestDecodeBlocksRejectsBadBase64(t *testing.T) {
	_, err := decodeBlocks([]dtos.ChatContentBlock{
		{Type: "image", MediaType: "image/png", ImageData: "not-base64!!!"},
	})
	require.Error(t, err)
}

func TestDecodeBlocksRejectsEmptyImage(t *testing.T) {
	_, err := decodeBlocks([]dtos.ChatContentBlock{
		{Type: "image", MediaType: "image/png", ImageData: ""},
	})
	require.Error(t, err)
}

func TestDecodeBlocksRejectsUnknownType(t *testing.T) {
	_, err := decodeBlocks([]dtos.ChatContentBlock{{Type: "audio"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported block type")
}
