package session

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"selenex/internal/models"
)

const recorded = `[
  {
    "action": "click",
    "timestamp": 1718000000000,
    "elementContext": {
      "tag": "A",
      "text": "Pricing",
      "attributes": {
        "id": "",
        "class": {"baseVal": "icon"},
        "href": "/pricing",
        "name": null,
        "dataTestId": null,
        "ariaExpanded": false
      },
      "parentChain": [
        {"tag": "NAV", "id": "top-nav", "class": null},
        {"tag": "svg", "id": null, "class": {"baseVal": ""}}
      ]
    },
    "fingerprint": {"url": "https://example.com/", "title": "Home", "visibleTextHash": "1f", "domSignature": ["header", "nav#top-nav"]}
  },
  {"action": "scroll", "x": 0, "y": 812.5, "fingerprint": {"url": "https://example.com/pricing"}},
  {"action": "keydown", "key": "Enter"},
  {"action": "input", "value": "hello", "elementContext": {"tag": "INPUT", "attributes": {"name": "q", "type": "text"}}}
]`

func TestParseRecorderOutput(t *testing.T) {
	events, err := Parse(strings.NewReader(recorded))
	require.NoError(t, err)
	require.Len(t, events, 4)

	first := events[0]
	assert.Equal(t, "click", first.Action)
	assert.Equal(t, "https://example.com/", first.URL())
	require.NotNil(t, first.ElementContext)
	assert.Equal(t, models.Attributes{"href": "/pricing", "ariaExpanded": "false"}, first.ElementContext.Attributes)
	assert.Equal(t, []models.Parent{{Tag: "NAV", ID: "top-nav"}, {Tag: "svg"}}, first.ElementContext.ParentChain)

	assert.Equal(t, 812.5, events[1].Y)
	assert.Equal(t, "Enter", events[2].Key)
	assert.Nil(t, events[2].ElementContext)
	assert.Equal(t, "text", events[3].InputType())
	assert.Equal(t, "INPUT", events[3].Tag())
}

func TestParseRejectsMalformedInput(t *testing.T) {
	for _, input := range []string{
		"",
		"null",
		`{"action": "click"}`,
		`[{"action": 12}]`,
		`[{"action": "click"}`,
		`[1, 2, 3]`,
		`[{"action": "click", "elementContext": {"parentChain": "body"}}]`,
	} {
		_, err := Parse(strings.NewReader(input))
		assert.ErrorIs(t, err, ErrMalformedSession, "input %q", input)
	}
}

func TestParseEmptyArray(t *testing.T) {
	events, err := Parse(strings.NewReader("  []\n"))
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	events := []models.Event{
		{Action: "click", Fingerprint: &models.Fingerprint{URL: "https://example.com/a"},
			ElementContext: &models.ElementContext{Tag: "BUTTON", Text: "Buy", Attributes: models.Attributes{"id": "buy"}}},
		{Action: "scroll", X: 10, Y: 20},
	}
	require.NoError(t, Save(path, events))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, events, loaded)
}
