package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardbox/core/internal/domain/entities"
)

func TestDecodeContent_NeverFails(t *testing.T) {
	inputs := []string{
		"", "not json", `{"half": `, "{}", "[]", `"quoted"`, "\x00\xff", "42",
	}
	types := []entities.CardType{
		entities.CardTypeFolder, entities.CardTypeNote, entities.CardTypeLink,
		entities.CardTypeSimpleTask, entities.CardTypeTaskList,
		entities.CardTypeObjective, entities.CardTypeRoutine,
		entities.CardTypeEvent, entities.CardTypeCollection,
		entities.CardTypePassword, entities.CardType("Bogus"),
	}

	for _, ct := range types {
		for _, in := range inputs {
			payload, _ := entities.DecodeContent(ct, in)
			assert.NotNil(t, payload, "type %s input %q", ct, in)
		}
	}
}

func TestDecodeContent_Note_Verbatim(t *testing.T) {
	payload, ok := entities.DecodeContent(entities.CardTypeNote, "# Hi")
	require.True(t, ok)
	assert.Equal(t, entities.NoteContent{Text: "# Hi"}, payload)
}

func TestNoteContent_RoundTrip(t *testing.T) {
	for _, text := range []string{"plain text", "# Hi", "# Heading\n\nbody"} {
		encoded, err := entities.EncodeContent(entities.NoteContent{Text: text})
		require.NoError(t, err)

		decoded, ok := entities.DecodeContent(entities.CardTypeNote, encoded)
		require.True(t, ok)
		assert.Equal(t, entities.NoteContent{Text: text}, decoded)
	}
}

func TestDecodeContent_Link_BareAndQuoted(t *testing.T) {
	payload, ok := entities.DecodeContent(entities.CardTypeLink, "https://example.com")
	require.True(t, ok)
	assert.Equal(t, entities.LinkContent{URL: "https://example.com"}, payload)

	payload, ok = entities.DecodeContent(entities.CardTypeLink, `"https://example.com"`)
	require.True(t, ok)
	assert.Equal(t, entities.LinkContent{URL: "https://example.com"}, payload)
}

func TestDecodeContent_SimpleTask_LegacyBoolString(t *testing.T) {
	payload, ok := entities.DecodeContent(entities.CardTypeSimpleTask, "true")
	require.True(t, ok)
	assert.Equal(t, entities.SimpleTaskContent{Done: true}, payload)

	payload, ok = entities.DecodeContent(entities.CardTypeSimpleTask, "false")
	require.True(t, ok)
	assert.Equal(t, entities.SimpleTaskContent{Done: false}, payload)
}

func TestDecodeContent_SimpleTask_ObjectForm(t *testing.T) {
	payload, ok := entities.DecodeContent(entities.CardTypeSimpleTask,
		`{"value": true, "description": "water the plants"}`)
	require.True(t, ok)
	assert.Equal(t, entities.SimpleTaskContent{Done: true, Description: "water the plants"}, payload)

	// Some writers stored the boolean as a quoted string.
	payload, ok = entities.DecodeContent(entities.CardTypeSimpleTask, `{"value": "true"}`)
	require.True(t, ok)
	assert.Equal(t, entities.SimpleTaskContent{Done: true}, payload)
}

func TestSimpleTask_ToggleRoundTrip(t *testing.T) {
	payload, ok := entities.DecodeContent(entities.CardTypeSimpleTask, "true")
	require.True(t, ok)
	task := payload.(entities.SimpleTaskContent)
	assert.True(t, task.Done)

	task.Done = false
	encoded, err := entities.EncodeContent(task)
	require.NoError(t, err)

	decoded, ok := entities.DecodeContent(entities.CardTypeSimpleTask, encoded)
	require.True(t, ok)
	assert.False(t, decoded.(entities.SimpleTaskContent).Done)
}

func TestDecodeContent_TaskList_LegacyFieldNames(t *testing.T) {
	payload, ok := entities.DecodeContent(entities.CardTypeTaskList,
		`[{"id": "1", "Title": "Buy milk", "Value": true}, {"id": "2", "label": "Call mom", "value": false}]`)
	require.True(t, ok)

	list := payload.(entities.TaskListContent)
	require.Len(t, list.Tasks, 2)
	assert.Equal(t, entities.TaskItem{ID: "1", Label: "Buy milk", Done: true}, list.Tasks[0])
	assert.Equal(t, entities.TaskItem{ID: "2", Label: "Call mom", Done: false}, list.Tasks[1])
}

func TestTaskList_EncodesCanonicalShape(t *testing.T) {
	encoded, err := entities.EncodeContent(entities.TaskListContent{
		Tasks: []entities.TaskItem{{ID: "1", Label: "Buy milk", Done: true}},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"tasks": [{"id": "1", "label": "Buy milk", "value": true}]}`, encoded)

	decoded, ok := entities.DecodeContent(entities.CardTypeTaskList, encoded)
	require.True(t, ok)
	assert.Equal(t, "Buy milk", decoded.(entities.TaskListContent).Tasks[0].Label)
}

func TestDecodeContent_Event(t *testing.T) {
	payload, ok := entities.DecodeContent(entities.CardTypeEvent,
		`{"timestamp": 1700000000000, "description": "standup", "location": "office", "isOnline": false, "importance": "high"}`)
	require.True(t, ok)

	event := payload.(entities.EventContent)
	assert.Equal(t, int64(1700000000000), event.Timestamp)
	assert.Equal(t, "office", event.Location)
	assert.Equal(t, "high", event.Importance)
}

func TestDecodeContent_Collection_LegacyMetadataKeys(t *testing.T) {
	payload, ok := entities.DecodeContent(entities.CardTypeCollection,
		`{"preset": "movies", "items": [{"externalId": "603", "metadata": {"title": "The Matrix", "release_date": "1999-03-31", "fragman": "https://example.com/t.mp4"}, "rating": 9.5}]}`)
	require.True(t, ok)

	coll := payload.(entities.CollectionContent)
	require.Len(t, coll.Items, 1)
	assert.Equal(t, "The Matrix", coll.Items[0].Metadata.Title)
	assert.Equal(t, "1999-03-31", coll.Items[0].Metadata.ReleaseDate)
	assert.Equal(t, "https://example.com/t.mp4", coll.Items[0].Metadata.Trailer)
	assert.Equal(t, 9.5, coll.Items[0].Rating)
}

func TestDecodeContent_MalformedDegradesToZeroPayload(t *testing.T) {
	payload, ok := entities.DecodeContent(entities.CardTypeEvent, "not json at all")
	assert.False(t, ok)
	assert.Equal(t, entities.EventContent{}, payload)

	payload, ok = entities.DecodeContent(entities.CardTypeTaskList, "[{broken")
	assert.False(t, ok)
	assert.Equal(t, entities.TaskListContent{}, payload)
}

func TestEncodeContent_EmptyKinds(t *testing.T) {
	for _, payload := range []entities.CardContent{entities.FolderContent{}, entities.RoutineContent{}} {
		encoded, err := entities.EncodeContent(payload)
		require.NoError(t, err)
		assert.Equal(t, "", encoded)
	}
}

func TestDecodeContent_Password(t *testing.T) {
	payload, ok := entities.DecodeContent(entities.CardTypePassword,
		`{"username": "alice", "password": "s3cret", "website": "example.com"}`)
	require.True(t, ok)
	assert.Equal(t, entities.PasswordContent{Username: "alice", Password: "s3cret", Website: "example.com"}, payload)
}
