package imageio

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecode_PNG(t *testing.T) {
	src := solid(7, 5, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	asset, err := Decode(context.Background(), "photo.png", encodePNG(t, src))
	require.NoError(t, err)
	require.Equal(t, "png", asset.Format)
	require.Equal(t, "photo.png", asset.Name)
	require.Equal(t, 7, asset.Width())
	require.Equal(t, 5, asset.Height())
	require.Equal(t, image.Pt(0, 0), asset.Image.Rect.Min)
	require.Equal(t, src.Pix, asset.Image.Pix)
}

func TestDecode_OffsetBoundsAreNormalized(t *testing.T) {
	src := image.NewNRGBA(image.Rect(3, 4, 9, 8))
	asset, err := Decode(context.Background(), "offset.png", encodePNG(t, src))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 6, 4), asset.Image.Rect)
}

func TestDecode_OtherFormats(t *testing.T) {
	src := solid(4, 4, color.NRGBA{R: 200, G: 100, B: 50, A: 255})

	var jb bytes.Buffer
	require.NoError(t, jpeg.Encode(&jb, src, &jpeg.Options{Quality: 90}))
	asset, err := Decode(context.Background(), "p.jpg", jb.Bytes())
	require.NoError(t, err)
	require.Equal(t, "jpeg", asset.Format)

	var bb bytes.Buffer
	require.NoError(t, bmp.Encode(&bb, src))
	asset, err = Decode(context.Background(), "p.bmp", bb.Bytes())
	require.NoError(t, err)
	require.Equal(t, "bmp", asset.Format)
	require.Equal(t, 4, asset.Width())
}

func TestDecode_Errors(t *testing.T) {
	ctx := context.Background()
	_, err := Decode(ctx, "empty.png", nil)
	require.True(t, IsDecodeError(err), "err=%v", err)

	_, err = Decode(ctx, "notes.txt", []byte("definitely not an image"))
	require.True(t, IsDecodeError(err), "err=%v", err)
	require.Contains(t, err.Error(), "notes.txt")

	full := encodePNG(t, solid(16, 16, color.NRGBA{A: 255}))
	_, err = Decode(ctx, "truncated.png", full[:len(full)/2])
	require.True(t, IsDecodeError(err), "err=%v", err)

	_, err = Decoder{MaxPixels: 10}.Decode(ctx, "big.png", full)
	require.True(t, IsDecodeError(err), "err=%v", err)
	require.Contains(t, err.Error(), "too large")
}

func TestDecode_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Decode(ctx, "p.png", encodePNG(t, solid(2, 2, color.NRGBA{A: 255})))
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, IsDecodeError(err))
}
