package services

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateQRCode(t *testing.T) {
	t.Run("Renders a decodable PNG", func(t *testing.T) {
		data, err := GenerateQRCode(QROptions{
			Content: "https://go.taxgeniuspro.tax/t/ABC123",
			Size:    128,
		})
		assert.NoError(t, err)

		img, err := png.Decode(bytes.NewReader(data))
		assert.NoError(t, err)
		assert.Equal(t, 128, img.Bounds().Dx())
	})

	t.Run("Default size applied", func(t *testing.T) {
		data, err := GenerateQRCode(QROptions{Content: "https://go.taxgeniuspro.tax/t/X"})
		assert.NoError(t, err)

		img, err := png.Decode(bytes.NewReader(data))
		assert.NoError(t, err)
		assert.Equal(t, 256, img.Bounds().Dx())
	})

	t.Run("Empty content fails", func(t *testing.T) {
		_, err := GenerateQRCode(QROptions{})
		assert.Error(t, err)
	})
}

func TestParseHexColor(t *testing.T) {
	assert.Equal(t, color.RGBA{R: 255, G: 0, B: 0, A: 255}, parseHexColor("#FF0000", color.Black))
	assert.Equal(t, color.RGBA{R: 0, G: 128, B: 255, A: 255}, parseHexColor("0080ff", color.Black))
	assert.Equal(t, color.Black, parseHexColor("short", color.Black))
	assert.Equal(t, color.White, parseHexColor("", color.White))
}
