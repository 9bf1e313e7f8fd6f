package css_test

import (
	"testing"

	"bennypowers.dev/padls/internal/parser/css"
	"bennypowers.dev/padls/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, source string) []css.Areas {
	t.Helper()
	p := css.AcquireParser()
	defer css.ReleaseParser(p)
	areas, err := p.ParseAreas(source)
	require.NoError(t, err)
	return areas
}

func TestParseAreas(t *testing.T) {
	source := `.page {
  display: grid;
  grid-template-areas:
    "head head"
    "nav  main";
}`

	areas := parse(t, source)
	require.Len(t, areas, 1)
	require.Len(t, areas[0].Rows, 2)

	assert.Equal(t, uint(2), areas[0].Line)
	assert.Equal(t, css.Row{Content: "head head", Line: 3, Col: 5}, areas[0].Rows[0])
	assert.Equal(t, css.Row{Content: "nav  main", Line: 4, Col: 5}, areas[0].Rows[1])
}

func TestParseAreas_IgnoresOtherProperties(t *testing.T) {
	source := `a { content: "x y"; font-family: "Fira Sans"; grid-template-areas: none; }`
	assert.Empty(t, parse(t, source))
}

func TestParseAreas_Multiple(t *testing.T) {
	source := `.a { grid-template-areas: 'x'; }
.b { grid-template-areas: "y z"; }`

	areas := parse(t, source)
	require.Len(t, areas, 2)
	assert.Equal(t, "x", areas[0].Rows[0].Content)
	assert.Equal(t, "y z", areas[1].Rows[0].Content)
}

func TestAreas_Grid(t *testing.T) {
	areas := css.Areas{Rows: []css.Row{
		{Content: "head head", Line: 3, Col: 5},
		{Content: "nav  ...", Line: 4, Col: 5},
	}}

	g, err := areas.Grid()
	require.Nil(t, err)
	assert.Equal(t, 2, g.Cols())
	assert.Equal(t, 2, g.Rows())

	head, _ := g.At(1, 0)
	assert.Equal(t, "head", head.Text)
	assert.Equal(t, layout.Span{Line: 3, Start: 10, End: 14}, head.Span)

	null, _ := g.At(1, 1)
	assert.Equal(t, ".", null.Text)
	assert.True(t, null.NoMerge)
	assert.Equal(t, layout.Span{Line: 4, Start: 10, End: 13}, null.Span)
}

func TestAreas_GridNonASCIINames(t *testing.T) {
	areas := css.Areas{Rows: []css.Row{
		{Content: "àb x", Line: 0, Col: 5},
		{Content: "Ġ  Ġ", Line: 1, Col: 5},
	}}

	g, err := areas.Grid()
	require.Nil(t, err)
	assert.Equal(t, 2, g.Cols())
	assert.Equal(t, 2, g.Rows())

	first, _ := g.At(0, 0)
	assert.Equal(t, "àb", first.Text)
	assert.Equal(t, layout.Span{Line: 0, Start: 5, End: 8}, first.Span)

	second, _ := g.At(1, 0)
	assert.Equal(t, "x", second.Text)
	assert.Equal(t, layout.Span{Line: 0, Start: 9, End: 10}, second.Span)

	for _, tok := range g.Row(1) {
		assert.Equal(t, "Ġ", tok.Text)
	}
}

func TestAreas_GridErrors(t *testing.T) {
	t.Run("ragged", func(t *testing.T) {
		areas := css.Areas{Rows: []css.Row{
			{Content: "a b", Line: 0, Col: 1},
			{Content: "c", Line: 1, Col: 1},
		}}
		_, err := areas.Grid()
		require.NotNil(t, err)
		assert.ErrorIs(t, err, layout.ErrRaggedRows)
		assert.Equal(t, 1, err.Span.Line)
	})

	t.Run("blank string", func(t *testing.T) {
		areas := css.Areas{Rows: []css.Row{{Content: "  ", Line: 2, Col: 8}}}
		_, err := areas.Grid()
		require.NotNil(t, err)
		assert.ErrorIs(t, err, layout.ErrEmptyGrid)
		assert.Equal(t, layout.Span{Line: 2, Start: 7, End: 11}, err.Span)
	})
}

func TestNonRectangular(t *testing.T) {
	areas := css.Areas{Rows: []css.Row{
		{Content: "a a . b"},
		{Content: "a c . b"},
	}}
	g, gridErr := areas.Grid()
	require.Nil(t, gridErr)

	bad := css.NonRectangular(layout.Merge(g))
	require.Len(t, bad, 1)
	assert.Len(t, bad["a"], 2)
}

func TestIsNullCell(t *testing.T) {
	assert.True(t, css.IsNullCell("."))
	assert.True(t, css.IsNullCell("..."))
	assert.False(t, css.IsNullCell(""))
	assert.False(t, css.IsNullCell("a.b"))
}
