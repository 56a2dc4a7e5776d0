package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"selenex/internal/models"
)

func ctx(tag, text string, attrs models.Attributes, parents ...models.Parent) *models.ElementContext {
	return &models.ElementContext{Tag: tag, Text: text, Attributes: attrs, ParentChain: parents}
}

func TestSelectFor(t *testing.T) {
	engine := NewDefault()

	tests := []struct {
		name string
		ctx  *models.ElementContext
		want Selector
	}{
		{
			name: "test id builds data-testid expression",
			ctx:  ctx("BUTTON", "Go", models.Attributes{"dataTestId": "submit-btn", "id": "abc"}),
			want: Selector{RuleTestID, ByCSSSelector, "[data-testid='submit-btn']"},
		},
		{
			name: "test id with equals sign is used verbatim",
			ctx:  ctx("DIV", "", models.Attributes{"dataTestId": "data-cy='login'"}),
			want: Selector{RuleTestID, ByCSSSelector, "[data-cy='login']"},
		},
		{
			name: "stable id",
			ctx:  ctx("DIV", "", models.Attributes{"id": "abc"}),
			want: Selector{RuleID, ByID, "abc"},
		},
		{
			name: "dynamic id falls through to name",
			ctx:  ctx("INPUT", "", models.Attributes{"id": "widget1234567", "name": "q"}),
			want: Selector{RuleName, ByName, "q"},
		},
		{
			name: "name only applies to form controls",
			ctx:  ctx("DIV", "", models.Attributes{"name": "q"}),
			want: Selector{RuleTag, ByCSSSelector, "div"},
		},
		{
			name: "site relative href",
			ctx:  ctx("A", "Docs", models.Attributes{"href": "/docs/start"}),
			want: Selector{RuleHref, ByXPath, "//a[@href='/docs/start']"},
		},
		{
			name: "absolute href falls through to link text",
			ctx:  ctx("A", "Docs", models.Attributes{"href": "https://example.com/docs"}),
			want: Selector{RuleLinkText, ByLinkText, "Docs"},
		},
		{
			name: "button text with apostrophe",
			ctx:  ctx("BUTTON", "Don't save", nil),
			want: Selector{RuleText, ByXPath, `//button[normalize-space()='Don\'t save']`},
		},
		{
			name: "heading text is tag scoped",
			ctx:  ctx("h2", "Pricing", nil),
			want: Selector{RuleText, ByXPath, "//h2[normalize-space()='Pricing']"},
		},
		{
			name: "text of fifty characters is too long",
			ctx:  ctx("SPAN", "01234567890123456789012345678901234567890123456789", nil),
			want: Selector{RuleTag, ByCSSSelector, "span"},
		},
		{
			name: "text on other tags is ignored",
			ctx:  ctx("LI", "Item", nil),
			want: Selector{RuleTag, ByCSSSelector, "li"},
		},
		{
			name: "first parent with stable id",
			ctx: ctx("SPAN", "", nil,
				models.Parent{Tag: "DIV", ID: "ember1234567890"},
				models.Parent{Tag: "SECTION", ID: "checkout"},
				models.Parent{Tag: "MAIN", ID: "main"},
			),
			want: Selector{RuleParentID, ByXPath, "//section[@id='checkout']//span"},
		},
		{
			name: "class filtering drops framework noise",
			ctx:  ctx("BUTTON", "", models.Attributes{"class": "wds-btn primary hover:bg-blue large"}),
			want: Selector{RuleClass, ByCSSSelector, "button.primary.large"},
		},
		{
			name: "only noise classes falls through to placeholder",
			ctx:  ctx("INPUT", "", models.Attributes{"class": "wds-input hover:ring", "placeholder": "Search"}),
			want: Selector{RulePlaceholder, ByXPath, "//input[@placeholder='Search']"},
		},
		{
			name: "tag only fallback",
			ctx:  ctx("IMG", "", nil),
			want: Selector{RuleTag, ByCSSSelector, "img"},
		},
		{
			name: "nil context",
			ctx:  nil,
			want: Selector{RuleTag, ByCSSSelector, "*"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.SelectFor(tt.ctx))
		})
	}
}

func TestSelectForTestIDDominates(t *testing.T) {
	engine := NewDefault()
	others := []models.Attributes{
		{"id": "abc"},
		{"name": "q"},
		{"href": "/x"},
		{"class": "primary"},
		{"placeholder": "Search"},
		{"id": "abc", "name": "q", "href": "/x", "class": "primary", "placeholder": "Search"},
	}
	for _, tag := range []string{"A", "BUTTON", "INPUT", "DIV", ""} {
		for _, attrs := range others {
			attrs["dataTestId"] = "target"
			got := engine.SelectFor(ctx(tag, "Click me", attrs, models.Parent{Tag: "DIV", ID: "root"}))
			assert.Equal(t, RuleTestID, got.Rule, "tag %q attrs %v", tag, attrs)
			assert.Equal(t, ByCSSSelector, got.By)
		}
	}
}

func TestSelectForNeverUsesDynamicID(t *testing.T) {
	engine := NewDefault()
	for _, id := range []string{"widget1234567", "react-select-2-input", "a1bcdefghijk", "ember12345678"} {
		got := engine.SelectFor(ctx("DIV", "", models.Attributes{"id": id}))
		assert.NotEqual(t, RuleID, got.Rule, id)

		got = engine.SelectFor(ctx("SPAN", "", nil, models.Parent{Tag: "DIV", ID: id}))
		assert.NotEqual(t, RuleParentID, got.Rule, id)
	}
}

func TestSelectForStableMarkerID(t *testing.T) {
	got := NewDefault().SelectFor(ctx("DIV", "", models.Attributes{"id": "vid-98765432109876"}))
	assert.Equal(t, Selector{RuleID, ByID, "vid-98765432109876"}, got)
}

func TestSelectForIsIdempotent(t *testing.T) {
	engine := NewDefault()
	in := ctx("INPUT", "", models.Attributes{"class": "form-control wds-x", "placeholder": "Email"},
		models.Parent{Tag: "FORM", ID: "signup"})
	first := engine.SelectFor(in)
	second := engine.SelectFor(in)
	assert.Equal(t, first, second)
	assert.Equal(t, "form-control wds-x", in.Attributes["class"], "input must not be mutated")
}

func TestSelectForCustomPolicy(t *testing.T) {
	policy := DefaultPolicy()
	policy.ExcludedClassPrefixes = []string{"btn-"}
	policy.StableMarkers = nil

	engine := New(policy)
	got := engine.SelectFor(ctx("BUTTON", "", models.Attributes{"class": "btn-lg wds-x"}))
	assert.Equal(t, Selector{RuleClass, ByCSSSelector, "button.wds-x"}, got)

	got = engine.SelectFor(ctx("DIV", "", models.Attributes{"id": "vid-98765432109876"}))
	assert.NotEqual(t, RuleID, got.Rule)
}

func TestRuleOrder(t *testing.T) {
	require.Equal(t, []Rule{
		RuleTestID, RuleID, RuleName, RuleHref, RuleText,
		RuleParentID, RuleClass, RulePlaceholder, RuleTag,
	}, RuleOrder())
}
