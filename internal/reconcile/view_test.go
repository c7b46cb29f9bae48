package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/dictamen/internal/ident"
	"github.com/rcliao/dictamen/internal/model"
)

func TestPlace(t *testing.T) {
	cs := containers(testStatute())
	require.Len(t, cs, 4)

	tests := []struct {
		name string
		id   ident.ID
		want location
	}{
		{"same base", ident.Numbered(80, ident.SuffixTer), location{1, 0}},
		{"covering range", ident.Numbered(60, ident.SuffixNone), location{1, 0}},
		{"covering range in title", ident.Numbered(5, ident.SuffixNone), location{0, -1}},
		{"greatest maximum below", ident.Numbered(90, ident.SuffixBis), location{1, 0}},
		{"after everything", ident.Numbered(200, ident.SuffixNone), location{1, 2}},
		{"between containers", ident.Numbered(30, ident.SuffixNone), location{0, -1}},
		{"before everything", ident.Numbered(0, ident.SuffixBis), location{1, 2}},
		{"synthetic scope", ident.Synthetic("IX", 4), location{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := place(cs, tt.id)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlaceWithoutContainers(t *testing.T) {
	_, ok := place(nil, ident.Numbered(1, ident.SuffixNone))
	assert.False(t, ok)

	v, err := Reconcile(&model.Statute{Name: "vacía"}, []model.Operation{
		{Action: "incorporase", NewText: "ARTÍCULO 1- Primer artículo"},
	})
	require.NoError(t, err)
	require.Len(t, v.Diagnostics, 1)
	assert.Equal(t, model.DiagUnplacedArticle, v.Diagnostics[0].Kind)
	assert.Empty(t, v.Titles)
}

func TestDuplicateArticleNumbers(t *testing.T) {
	st := testStatute()
	st.Titles[1].Chapters[2].Articles = append(st.Titles[1].Chapters[2].Articles, model.Article{Number: "54", Text: "Duplicado."})

	v, err := Reconcile(st, []model.Operation{{Action: "derogase", TargetArticle: "54"}})
	require.NoError(t, err)

	assert.Equal(t, []model.DiagnosticKind{model.DiagAmbiguousIdentifier}, diagKinds(v))
	assert.Equal(t, model.StatusRepealed, v.Titles[1].Chapters[0].Articles[0].Status)
	dup := v.Titles[1].Chapters[2].Articles[0]
	assert.Equal(t, "54", dup.Label)
	assert.Equal(t, model.StatusUnchanged, dup.Status)
	assert.Equal(t, "Duplicado.", dup.Original.Text)
}

func TestSummaryCounts(t *testing.T) {
	v := reconcile(t, Options{},
		model.Operation{Action: "Sustitúyese", TargetArticle: "1", NewText: "x"},
		model.Operation{Action: "Incorpórase", NewText: "ARTÍCULO 96- y"},
		model.Operation{Action: "Derógase", TargetArticle: "12"},
	)

	assert.Equal(t, model.Summary{Unchanged: 9, Substituted: 1, Incorporated: 1, Repealed: 1}, v.Summary)
}
