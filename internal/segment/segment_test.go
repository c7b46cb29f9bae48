package segment

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/dictamen/internal/model"
)

func TestPrefix(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		number string
		rest   string
		ok     bool
	}{
		{"plain", "ARTÍCULO 54- nuevo texto", "54", "nuevo texto", true},
		{"degree sign", "ARTÍCULO 2°- Ámbito de aplicación.", "2", "Ámbito de aplicación.", true},
		{"suffix", "ARTICULO 11 bis - Texto", "11 bis", "Texto", true},
		{"lowercase", "artículo 80 BIS.- x", "80 BIS", "x", true},
		{"quoted", "“ARTÍCULO 7º.- Citado", "7", "Citado", true},
		{"no prefix", "Texto sin encabezado", "", "Texto sin encabezado", false},
		{"mid text", "El ARTÍCULO 3- no cuenta", "", "El ARTÍCULO 3- no cuenta", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			number, rest, ok := Prefix(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.number, number)
			assert.Equal(t, tt.rest, rest)
		})
	}
}

func TestSplitWithoutTitle(t *testing.T) {
	r := Split("ARTÍCULO 54- nuevo texto")
	assert.Equal(t, "54", r.Number)
	assert.Equal(t, "", r.Title)
	assert.Equal(t, "nuevo texto", r.Text)
	assert.Empty(t, r.Incisos)
}

func TestSplitTitleAndIncisos(t *testing.T) {
	text := "ARTÍCULO 2°- Ámbito de aplicación. La vigencia de esta ley quedará condicionada.\n" +
		"Las disposiciones no serán aplicables:\n" +
		"a) A los dependientes de la Administración Pública.\n" +
		"b) A los trabajadores del servicio doméstico.\n" +
		"\n" +
		"Salvo disposición expresa en contrario."

	r := Split(text)
	assert.Equal(t, "Ámbito de aplicación.", r.Title)
	assert.Equal(t, "La vigencia de esta ley quedará condicionada.\nLas disposiciones no serán aplicables:\nSalvo disposición expresa en contrario.", r.Text)

	want := []model.Inciso{
		{Letter: "a", Text: "A los dependientes de la Administración Pública."},
		{Letter: "b", Text: "A los trabajadores del servicio doméstico."},
	}
	if diff := cmp.Diff(want, r.Incisos); diff != "" {
		t.Errorf("incisos mismatch (-want +got):\n%s", diff)
	}
}

func TestSplitWrappedInciso(t *testing.T) {
	r := Split("ARTÍCULO 2- Las disposiciones no serán aplicables:\n" +
		"a) A los dependientes\n" +
		"de la Administración Pública.\n" +
		"b) Al servicio doméstico.")

	assert.Equal(t, "Las disposiciones no serán aplicables:", r.Text)
	want := []model.Inciso{
		{Letter: "a", Text: "A los dependientes\nde la Administración Pública."},
		{Letter: "b", Text: "Al servicio doméstico."},
	}
	if diff := cmp.Diff(want, r.Incisos); diff != "" {
		t.Errorf("incisos mismatch (-want +got):\n%s", diff)
	}
}

func TestSplitBlankLineEndsInciso(t *testing.T) {
	r := Split("ARTÍCULO 7- Exclusiones:\na) primera\ncontinúa\n\nTexto final.")

	assert.Equal(t, "Exclusiones:\nTexto final.", r.Text)
	require.Len(t, r.Incisos, 1)
	assert.Equal(t, "primera\ncontinúa", r.Incisos[0].Text)
}

func TestSplitEmpty(t *testing.T) {
	r := Split("")
	assert.Equal(t, Replacement{}, r)
	assert.Equal(t, &model.Content{}, r.Content())
}

func TestRenderSplitRoundTrip(t *testing.T) {
	contents := []model.Content{
		{Text: "nuevo texto"},
		{Title: "Registro.", Text: "El empleador deberá registrar."},
		{Title: "Exclusiones.", Text: "No se aplica a:", Incisos: []model.Inciso{
			{Letter: "a", Text: "los dependientes públicos;"},
			{Letter: "b", Text: "el servicio doméstico."},
		}},
	}
	for _, c := range contents {
		r := Split(Render("11 bis", c))
		assert.Equal(t, "11 bis", r.Number)
		if diff := cmp.Diff(&c, r.Content()); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}
