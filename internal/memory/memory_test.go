package memory

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationAddRun(t *testing.T) {
	c, err := NewConversation(nil)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())

	require.NoError(t, c.AddRun(NewRun("what is 2+3", "5")))
	require.NoError(t, c.AddRun(NewRun("echo hi", "hi")))

	runs := c.Runs()
	require.Len(t, runs, 2)
	assert.Equal(t, "what is 2+3", runs[0].Input)
	assert.Equal(t, "hi", runs[1].Output)
	assert.False(t, c.IsEmpty())
}

func TestAddRunAssignsID(t *testing.T) {
	c, err := NewConversation(nil)
	require.NoError(t, err)

	require.NoError(t, c.AddRun(Run{Input: "q", Output: "a"}))
	assert.NotEmpty(t, c.Runs()[0].ID)
}

func TestToPromptString(t *testing.T) {
	c, err := NewConversation(nil)
	require.NoError(t, err)

	require.NoError(t, c.AddRun(NewRun("first", "1")))
	require.NoError(t, c.AddRun(NewRun("second", "2")))
	require.NoError(t, c.AddRun(NewRun("third", "3")))

	full := c.ToPromptString(0)
	assert.Contains(t, full, "Q: first")
	assert.Contains(t, full, "A: 3")

	last := c.ToPromptString(1)
	assert.Equal(t, "Q: third\nA: 3\n", last)
}

func TestConversationJSONRoundTrip(t *testing.T) {
	c, err := NewConversation(nil)
	require.NoError(t, err)
	require.NoError(t, c.AddRun(NewRun("q", "a")))

	data, err := c.ToJSON()
	require.NoError(t, err)

	restored, err := NewConversation(nil)
	require.NoError(t, err)
	require.NoError(t, restored.FromJSON(data))

	assert.Equal(t, c.Runs(), restored.Runs())
}

func TestSQLiteDriverRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "conversation.db")

	driver, err := NewSQLiteDriver(dbPath)
	require.NoError(t, err)

	c, err := NewConversation(driver)
	require.NoError(t, err)
	require.NoError(t, c.AddRun(NewRun("what is 2+3", "5")))
	require.NoError(t, c.AddRun(NewRun("echo hi", "hi")))
	require.NoError(t, driver.Close())

	// Reopen and confirm the history survives.
	reopened, err := NewSQLiteDriver(dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	restored, err := NewConversation(reopened)
	require.NoError(t, err)

	runs := restored.Runs()
	require.Len(t, runs, 2)
	assert.Equal(t, "what is 2+3", runs[0].Input)
	assert.Equal(t, "5", runs[0].Output)
	assert.Equal(t, "hi", runs[1].Output)
}
