package feed

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItem_JSONOmitsZeroPublished(t *testing.T) {
	b, err := json.Marshal(Item{Headline: "h"})
	require.NoError(t, err)
	assert.NotContains(t, string(b), "published")

	b, err = json.Marshal(Item{Headline: "h", Published: time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"published":"2026-03-02T08:00:00Z"`)
}
