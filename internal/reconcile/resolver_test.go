package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/dictamen/internal/ident"
	"github.com/rcliao/dictamen/internal/model"
)

func TestResolvePriority(t *testing.T) {
	tests := []struct {
		name string
		op   model.Operation
		want string
		rule Rule
	}{
		{
			name: "explicit field",
			op:   model.Operation{Action: "sustituyese", TargetArticle: "54", Header: "Sustitúyese el artículo 60"},
			want: "54",
			rule: RuleExplicit,
		},
		{
			name: "replacement text prefix",
			op:   model.Operation{Action: "sustituyese", NewText: "ARTÍCULO 80 bis.- Texto", Header: "Sustitúyese el artículo 60"},
			want: "80 bis",
			rule: RuleReplacementText,
		},
		{
			name: "incorporation header",
			op:   model.Operation{Action: "incorporase", Header: "Incorpórase como artículo 92 ter de la Ley 20.744, el siguiente texto"},
			want: "92 ter",
			rule: RuleHeaderIncorporation,
		},
		{
			name: "incorporation header preferred over earlier article mention",
			op:   model.Operation{Action: "incorporase", Header: "A continuación del artículo 92 bis, incorpórase como artículo 92 ter el siguiente:"},
			want: "92 ter",
			rule: RuleHeaderIncorporation,
		},
		{
			name: "bare header after the operative verb",
			op:   model.Operation{Action: "sustituyese", Header: "ARTÍCULO 21.- Sustitúyese el artículo 245 de la Ley N° 20.744"},
			want: "245",
			rule: RuleHeaderArticle,
		},
		{
			name: "bare header without verb",
			op:   model.Operation{Action: "derogase", Header: "el artículo 11 terminó"},
			want: "11",
			rule: RuleHeaderArticle,
		},
		{
			name: "blank explicit falls through",
			op:   model.Operation{Action: "sustituyese", TargetArticle: "S/N", NewText: "ARTÍCULO 7- x"},
			want: "7",
			rule: RuleReplacementText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, diags := Resolver{}.Resolve(0, tt.op)
			assert.Empty(t, diags)
			assert.Equal(t, tt.rule, got.Rule)
			assert.Equal(t, tt.want, got.Article.String())
		})
	}
}

func TestResolveChapter(t *testing.T) {
	got, diags := Resolver{}.Resolve(2, model.Operation{Action: "Derógase", TargetChapter: " viii "})
	assert.Empty(t, diags)
	assert.Equal(t, RuleChapter, got.Rule)
	assert.Equal(t, "VIII", got.Chapter)
	assert.Equal(t, "capítulo VIII", got.String())

	// only repeals are chapter-scoped
	got, _ = Resolver{}.Resolve(0, model.Operation{Action: "sustituyese", TargetChapter: "VIII", TargetArticle: "3"})
	assert.Equal(t, RuleExplicit, got.Rule)
	assert.Equal(t, ident.Numbered(3, ident.SuffixNone), got.Article)
}

func TestResolveHeaderChapter(t *testing.T) {
	got, _ := Resolver{}.Resolve(0, model.Operation{Action: "derógase", Header: "ARTÍCULO 40.- Derógase el capítulo VIII del Título II de la Ley 20.744"})
	assert.Equal(t, RuleChapter, got.Rule)
	assert.Equal(t, "VIII", got.Chapter)

	got, _ = Resolver{}.Resolve(0, model.Operation{Action: "derógase", TargetArticle: "60", Header: "Derógase el capítulo VIII"})
	assert.Equal(t, RuleExplicit, got.Rule, "an explicit article wins over a chapter named only in the header")
}

func TestResolveInciso(t *testing.T) {
	got, diags := Resolver{}.Resolve(0, model.Operation{
		Action:        "sustituyese",
		TargetInciso:  "c)",
		ParentArticle: "245",
		NewText:       "c) nuevo inciso",
	})
	assert.Empty(t, diags)
	assert.Equal(t, "245", got.Article.String())
	assert.Equal(t, "c", got.Inciso)
	assert.Equal(t, "245 inc. c", got.String())

	got, _ = Resolver{}.Resolve(0, model.Operation{
		Action: "sustituyese",
		Header: "ARTÍCULO 8.- Sustitúyese el inciso b) del artículo 66 de la Ley N° 20.744",
	})
	assert.Equal(t, "66", got.Article.String())
	assert.Equal(t, "b", got.Inciso)
	assert.Equal(t, RuleHeaderArticle, got.Rule)
}

func TestResolveConflictPolicy(t *testing.T) {
	op := model.Operation{Action: "sustituyese", TargetArticle: "54", NewText: "ARTÍCULO 55- texto", Source: "4"}

	for _, tt := range []struct {
		policy TargetPolicy
		want   string
		rule   Rule
	}{
		{PreferExplicit, "54", RuleExplicit},
		{PreferText, "55", RuleReplacementText},
	} {
		t.Run(tt.policy.String(), func(t *testing.T) {
			got, diags := Resolver{Policy: tt.policy}.Resolve(1, op)
			assert.Equal(t, tt.want, got.Article.String())
			assert.Equal(t, tt.rule, got.Rule)
			require.Len(t, diags, 1)
			assert.Equal(t, model.DiagTargetConflict, diags[0].Kind)
			assert.Equal(t, 1, diags[0].Operation)
			assert.Equal(t, "4", diags[0].Source)
		})
	}
}

func TestResolveAmbiguousExplicit(t *testing.T) {
	got, diags := Resolver{}.Resolve(0, model.Operation{Action: "derogase", TargetArticle: "art. 66 (texto ordenado)"})
	assert.Equal(t, "66", got.Article.String())
	require.Len(t, diags, 1)
	assert.Equal(t, model.DiagAmbiguousIdentifier, diags[0].Kind)

	got, diags = Resolver{}.Resolve(0, model.Operation{Action: "derogase", TargetArticle: "único"})
	assert.False(t, got.Resolved())
	assert.Equal(t, model.DiagAmbiguousIdentifier, diags[0].Kind)
	assert.Equal(t, model.DiagUnresolvedTarget, diags[len(diags)-1].Kind)
}

func TestResolveUnresolved(t *testing.T) {
	got, diags := Resolver{}.Resolve(5, model.Operation{Action: "sustituyese", Header: "Sustitúyese la denominación del Título II"})
	assert.False(t, got.Resolved())
	require.Len(t, diags, 1)
	assert.Equal(t, model.DiagUnresolvedTarget, diags[0].Kind)
	assert.Equal(t, 5, diags[0].Operation)
}

func TestNormalizeInciso(t *testing.T) {
	for in, want := range map[string]string{
		"c)":        "c",
		"(c)":       "c",
		" C ":       "c",
		"inciso d)": "d",
		"ñ)":        "ñ",
		"":          "",
		"ab":        "",
	} {
		assert.Equal(t, want, normalizeInciso(in), in)
	}
}

func TestParseTargetPolicy(t *testing.T) {
	p, err := ParseTargetPolicy("")
	require.NoError(t, err)
	assert.Equal(t, PreferExplicit, p)

	p, err = ParseTargetPolicy("TEXT")
	require.NoError(t, err)
	assert.Equal(t, PreferText, p)

	_, err = ParseTargetPolicy("header")
	assert.Error(t, err)
}
