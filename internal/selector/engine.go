// Package selector derives the locator used to find a recorded element again
// at replay time.
package selector

import (
	"strings"
	"unicode/utf8"

	"selenex/internal/models"
)

// By is a Selenium locator strategy as written in generated code.
type By string

const (
	ByCSSSelector By = "By.CSS_SELECTOR"
	ByID          By = "By.ID"
	ByName        By = "By.NAME"
	ByXPath       By = "By.XPATH"
	ByLinkText    By = "By.LINK_TEXT"
)

// Rule names the heuristic that produced a Selector.
type Rule string

const (
	RuleTestID      Rule = "test-id"
	RuleID          Rule = "id"
	RuleName        Rule = "name"
	RuleHref        Rule = "href"
	RuleLinkText    Rule = "link-text"
	RuleText        Rule = "text"
	RuleParentID    Rule = "parent-id"
	RuleClass       Rule = "class"
	RulePlaceholder Rule = "placeholder"
	RuleTag         Rule = "tag"
)

type Selector struct {
	Rule  Rule
	By    By
	Value string
}

// Engine picks a selector by walking its rules in priority order. It holds no
// mutable state and may be shared between goroutines.
type Engine struct {
	policy Policy
	rules  []rule
}

func New(policy Policy) *Engine {
	return &Engine{policy: policy, rules: defaultRules}
}

func NewDefault() *Engine {
	return New(DefaultPolicy())
}

func (e *Engine) Policy() Policy {
	return e.policy
}

// SelectFor returns the first rule match for ctx, falling back to a tag-only
// CSS selector. A nil context yields the universal selector.
func (e *Engine) SelectFor(ctx *models.ElementContext) Selector {
	el := newElement(ctx)
	for _, r := range e.rules {
		if r.when(e.policy, el) {
			return r.then(e.policy, el)
		}
	}
	return tagOnly(e.policy, el)
}

// element is the normalised view of an ElementContext the rules work on.
type element struct {
	tag     string // upper case
	text    string
	attrs   models.Attributes
	parents []models.Parent
}

func newElement(ctx *models.ElementContext) element {
	if ctx == nil {
		return element{}
	}
	return element{
		tag:     strings.ToUpper(ctx.Tag),
		text:    ctx.Text,
		attrs:   ctx.Attributes,
		parents: ctx.ParentChain,
	}
}

func (el element) lowerTag() string {
	return cssTag(el.tag)
}

func cssTag(tag string) string {
	if tag == "" {
		return "*"
	}
	return strings.ToLower(tag)
}

type rule struct {
	name Rule
	when func(Policy, element) bool
	then func(Policy, element) Selector
}

var (
	nameTags = map[string]bool{"INPUT": true, "SELECT": true, "TEXTAREA": true}
	textTags = map[string]bool{
		"SPAN": true, "DIV": true, "P": true,
		"H1": true, "H2": true, "H3": true, "H4": true, "H5": true, "H6": true,
	}
)

// defaultRules is ordered from the most to the least stable signal.
var defaultRules = []rule{
	{
		name: RuleTestID,
		when: func(_ Policy, el element) bool { return el.attrs.Get("dataTestId") != "" },
		then: func(_ Policy, el element) Selector {
			testID := el.attrs.Get("dataTestId")
			if strings.Contains(testID, "=") {
				return Selector{RuleTestID, ByCSSSelector, "[" + testID + "]"}
			}
			return Selector{RuleTestID, ByCSSSelector, "[data-testid='" + testID + "']"}
		},
	},
	{
		name: RuleID,
		when: func(p Policy, el element) bool {
			id := el.attrs.Get("id")
			return id != "" && !p.IsDynamicID(id)
		},
		then: func(_ Policy, el element) Selector {
			return Selector{RuleID, ByID, el.attrs.Get("id")}
		},
	},
	{
		name: RuleName,
		when: func(_ Policy, el element) bool { return nameTags[el.tag] && el.attrs.Get("name") != "" },
		then: func(_ Policy, el element) Selector {
			return Selector{RuleName, ByName, el.attrs.Get("name")}
		},
	},
	{
		name: RuleHref,
		when: func(_ Policy, el element) bool {
			return el.tag == "A" && strings.HasPrefix(el.attrs.Get("href"), "/")
		},
		then: func(_ Policy, el element) Selector {
			return Selector{RuleHref, ByXPath, "//a[@href='" + el.attrs.Get("href") + "']"}
		},
	},
	{
		name: RuleText,
		when: func(p Policy, el element) bool {
			if el.text == "" || utf8.RuneCountInString(el.text) >= p.MaxTextLength {
				return false
			}
			return el.tag == "A" || el.tag == "BUTTON" || textTags[el.tag]
		},
		then: func(_ Policy, el element) Selector {
			if el.tag == "A" {
				return Selector{RuleLinkText, ByLinkText, el.text}
			}
			escaped := strings.ReplaceAll(el.text, "'", `\'`)
			return Selector{RuleText, ByXPath, "//" + el.lowerTag() + "[normalize-space()='" + escaped + "']"}
		},
	},
	{
		name: RuleParentID,
		when: func(p Policy, el element) bool {
			_, ok := stableParent(p, el.parents)
			return ok
		},
		then: func(p Policy, el element) Selector {
			parent, _ := stableParent(p, el.parents)
			return Selector{RuleParentID, ByXPath, "//" + cssTag(parent.Tag) + "[@id='" + parent.ID + "']//" + el.lowerTag()}
		},
	},
	{
		name: RuleClass,
		when: func(p Policy, el element) bool {
			return len(p.meaningfulClasses(el.attrs.Get("class"))) > 0
		},
		then: func(p Policy, el element) Selector {
			classes := p.meaningfulClasses(el.attrs.Get("class"))
			return Selector{RuleClass, ByCSSSelector, el.lowerTag() + "." + strings.Join(classes, ".")}
		},
	},
	{
		name: RulePlaceholder,
		when: func(_ Policy, el element) bool { return el.attrs.Get("placeholder") != "" },
		then: func(_ Policy, el element) Selector {
			return Selector{RulePlaceholder, ByXPath, "//" + el.lowerTag() + "[@placeholder='" + el.attrs.Get("placeholder") + "']"}
		},
	},
}

func tagOnly(_ Policy, el element) Selector {
	return Selector{RuleTag, ByCSSSelector, el.lowerTag()}
}

func stableParent(p Policy, parents []models.Parent) (models.Parent, bool) {
	for _, parent := range parents {
		if parent.ID != "" && !p.IsDynamicID(parent.ID) {
			return parent, true
		}
	}
	return models.Parent{}, false
}

// RuleOrder lists the rule names in evaluation order, ending with the tag fallback.
func RuleOrder() []Rule {
	order := make([]Rule, 0, len(defaultRules)+1)
	for _, r := range defaultRules {
		order = append(order, r.name)
	}
	return append(order, RuleTag)
}
