package printing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChromedpRenderer_Defaults(t *testing.T) {
	r, err := NewChromedpRenderer(nil)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, defaultChromeTimeout, r.config.DefaultTimeout)
	assert.Equal(t, defaultScale, r.config.Scale)
	assert.NotNil(t, r.allocCtx)
}

func TestBuildPrintParams_A4Portrait(t *testing.T) {
	r := &ChromedpRenderer{config: &ChromedpConfig{Scale: 1.0}}

	params := r.buildPrintParams(&RenderRequest{
		HTML:      "<p>x</p>",
		PaperSize: PaperSizeA4,
		Margins:   DefaultMargins(),
	})

	assert.InDelta(t, mmToInches(210), params.paperWidth, 0.01)
	assert.InDelta(t, mmToInches(297), params.paperHeight, 0.01)
	assert.InDelta(t, mmToInches(12), params.marginTop, 0.01)
	assert.False(t, params.landscape)
	assert.False(t, params.displayFooter)
}

func TestBuildPrintParams_Landscape(t *testing.T) {
	r := &ChromedpRenderer{config: &ChromedpConfig{Scale: 1.0}}

	params := r.buildPrintParams(&RenderRequest{PaperSize: PaperSizeA5, Landscape: true})

	assert.InDelta(t, mmToInches(148), params.paperWidth, 0.01)
	assert.True(t, params.landscape)
}

func TestBuildPrintParams_FooterForcesMargin(t *testing.T) {
	r := &ChromedpRenderer{config: &ChromedpConfig{Scale: 1.0}}

	params := r.buildPrintParams(&RenderRequest{
		PaperSize:  PaperSizeA4,
		FooterHTML: `<span class="pageNumber"></span>`,
	})

	assert.True(t, params.displayFooter)
	assert.InDelta(t, mmToInches(10), params.marginBottom, 0.01)
}

func TestBuildCompleteHTML(t *testing.T) {
	r := &ChromedpRenderer{config: &ChromedpConfig{}}

	full := "<!DOCTYPE html><html><body>x</body></html>"
	assert.Equal(t, full, r.buildCompleteHTML(&RenderRequest{HTML: full}))

	wrapped := r.buildCompleteHTML(&RenderRequest{HTML: "<p>x</p>", Title: "PV <1>"})
	assert.Contains(t, wrapped, "<!DOCTYPE html>")
	assert.Contains(t, wrapped, "<title>PV &lt;1&gt;</title>")
	assert.Contains(t, wrapped, "<body><p>x</p></body>")
}

func TestChromedpRenderer_RejectsInvalidRequest(t *testing.T) {
	r := &ChromedpRenderer{config: &ChromedpConfig{DefaultTimeout: time.Second}}
	ctx := context.Background()

	_, err := r.Render(ctx, nil)
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeInvalidHTML, renderErr.Code)

	_, err = r.Render(ctx, &RenderRequest{HTML: "  "})
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeInvalidHTML, renderErr.Code)

	_, err = r.Render(ctx, &RenderRequest{HTML: "<p>x</p>", PaperSize: "A0"})
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeInvalidPaperSize, renderErr.Code)
}

func TestEstimatePageCount(t *testing.T) {
	pdf := []byte("<< /Type /Pages /Count 2 >> << /Type /Page >> << /Type/Page >>")
	assert.Equal(t, 2, estimatePageCount(pdf))
	assert.Equal(t, 1, estimatePageCount([]byte("garbage")))
}

func TestChromedpRenderer_Close(t *testing.T) {
	r := &ChromedpRenderer{config: &ChromedpConfig{}}
	assert.NoError(t, r.Close())
}
