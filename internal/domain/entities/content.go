package entities

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// CardContent is the closed union of per-type payloads. Every CardType has
// exactly one payload shape; adding a kind means adding a case to the decode
// and encode switches below.
type CardContent interface {
	ContentType() CardType
}

// NoteContent holds the note body as raw Markdown. Notes are the one kind
// stored verbatim rather than JSON-encoded.
type NoteContent struct {
	Text string `json:"text"`
}

// LinkContent holds a single URL.
type LinkContent struct {
	URL string `json:"url"`
}

// SimpleTaskContent is a single checkbox with an optional description.
type SimpleTaskContent struct {
	Done        bool   `json:"value"`
	Description string `json:"description,omitempty"`
}

// TaskItem is one entry of a TaskList.
type TaskItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Done  bool   `json:"value"`
}

// TaskListContent is an ordered checklist.
type TaskListContent struct {
	Tasks []TaskItem `json:"tasks"`
}

// ObjectiveCommit is one dated milestone of an objective.
type ObjectiveCommit struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Date  string `json:"date"`
	Icon  string `json:"icon,omitempty"`
}

// ObjectiveContent describes a goal with a date range and milestone history.
type ObjectiveContent struct {
	Description string            `json:"description"`
	StartDate   string            `json:"startDate"`
	EndDate     string            `json:"endDate"`
	Commits     []ObjectiveCommit `json:"commits"`
}

// EventContent describes a calendar event. Timestamp is Unix milliseconds.
type EventContent struct {
	Timestamp   int64  `json:"timestamp"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	IsOnline    bool   `json:"isOnline"`
	Importance  string `json:"importance,omitempty"`
}

// CollectionItemMetadata is the looked-up metadata for a collection entry.
type CollectionItemMetadata struct {
	Title       string  `json:"title"`
	Poster      string  `json:"poster,omitempty"`
	Background  string  `json:"background,omitempty"`
	Overview    string  `json:"overview,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
	ReleaseDate string  `json:"releaseDate,omitempty"`
	Trailer     string  `json:"trailer,omitempty"`
}

// CollectionItem is one entry of a collection, keyed by the external
// metadata provider's identifier.
type CollectionItem struct {
	ExternalID string                 `json:"externalId"`
	Metadata   CollectionItemMetadata `json:"metadata"`
	Rating     float64                `json:"rating,omitempty"`
}

// CollectionContent is a preset-driven list of externally described items.
type CollectionContent struct {
	Preset string           `json:"preset"`
	Items  []CollectionItem `json:"items"`
}

// PasswordContent is a stored credential. It is encrypted at rest and only
// revealed through the vault gate.
type PasswordContent struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Website  string `json:"website,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// FolderContent is empty; folders carry no payload.
type FolderContent struct{}

// RoutineContent is declared by the closed type set but never populated.
type RoutineContent struct{}

func (NoteContent) ContentType() CardType       { return CardTypeNote }
func (LinkContent) ContentType() CardType       { return CardTypeLink }
func (SimpleTaskContent) ContentType() CardType { return CardTypeSimpleTask }
func (TaskListContent) ContentType() CardType   { return CardTypeTaskList }
func (ObjectiveContent) ContentType() CardType  { return CardTypeObjective }
func (EventContent) ContentType() CardType      { return CardTypeEvent }
func (CollectionContent) ContentType() CardType { return CardTypeCollection }
func (PasswordContent) ContentType() CardType   { return CardTypePassword }
func (FolderContent) ContentType() CardType     { return CardTypeFolder }
func (RoutineContent) ContentType() CardType    { return CardTypeRoutine }

// DecodeContent decodes a stored content string into the typed payload for
// the given card type. It never fails: malformed content degrades to the
// type's zero payload and ok reports false. Legacy stored shapes (bare
// boolean strings for SimpleTask, capitalized TaskList field names,
// JSON-quoted Link URLs) are migrated to the canonical shape on the way in.
func DecodeContent(t CardType, raw string) (payload CardContent, ok bool) {
	switch t {
	case CardTypeNote:
		// Notes are stored verbatim; any string is well formed.
		return NoteContent{Text: raw}, true
	case CardTypeLink:
		return decodeLink(raw)
	case CardTypeSimpleTask:
		return decodeSimpleTask(raw)
	case CardTypeTaskList:
		return decodeTaskList(raw)
	case CardTypeObjective:
		var c ObjectiveContent
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			return ObjectiveContent{}, false
		}
		return c, true
	case CardTypeEvent:
		var c EventContent
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			return EventContent{}, false
		}
		return c, true
	case CardTypeCollection:
		return decodeCollection(raw)
	case CardTypePassword:
		var c PasswordContent
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			return PasswordContent{}, false
		}
		return c, true
	case CardTypeFolder:
		return FolderContent{}, true
	case CardTypeRoutine:
		return RoutineContent{}, true
	default:
		// Unknown type: treat the payload as an opaque note body so nothing
		// ever renders blank.
		return NoteContent{Text: raw}, false
	}
}

// EncodeContent serializes a payload into its canonical stored form.
func EncodeContent(payload CardContent) (string, error) {
	switch c := payload.(type) {
	case NoteContent:
		return c.Text, nil
	case FolderContent, RoutineContent:
		return "", nil
	case LinkContent:
		return c.URL, nil
	default:
		b, err := json.Marshal(payload)
		if err != nil {
			return "", fmt.Errorf("encode %s content: %w", payload.ContentType(), err)
		}
		return string(b), nil
	}
}

func decodeLink(raw string) (CardContent, bool) {
	s := strings.TrimSpace(raw)
	// Legacy writers sometimes JSON-quoted the URL.
	if strings.HasPrefix(s, `"`) {
		var unquoted string
		if err := json.Unmarshal([]byte(s), &unquoted); err == nil {
			return LinkContent{URL: unquoted}, true
		}
	}
	if s == "" {
		return LinkContent{}, false
	}
	return LinkContent{URL: s}, true
}

func decodeSimpleTask(raw string) (CardContent, bool) {
	s := strings.TrimSpace(raw)
	// Legacy shape: the bare literal "true"/"false".
	if v, err := strconv.ParseBool(s); err == nil {
		return SimpleTaskContent{Done: v}, true
	}
	var c struct {
		Value       json.RawMessage `json:"value"`
		Description string          `json:"description"`
	}
	if err := json.Unmarshal([]byte(s), &c); err != nil {
		return SimpleTaskContent{}, false
	}
	done := false
	if len(c.Value) > 0 {
		// The object form stored value as either a boolean or a quoted
		// boolean string, depending on writer vintage.
		var b bool
		if err := json.Unmarshal(c.Value, &b); err == nil {
			done = b
		} else {
			var str string
			if err := json.Unmarshal(c.Value, &str); err == nil {
				done, _ = strconv.ParseBool(str)
			}
		}
	}
	return SimpleTaskContent{Done: done, Description: c.Description}, true
}

// taskItemJSON accepts both the legacy capitalized field names and the
// canonical lowercase ones.
type taskItemJSON struct {
	ID          string          `json:"id"`
	Label       string          `json:"label"`
	LegacyTitle string          `json:"Title"`
	Value       json.RawMessage `json:"value"`
	LegacyValue json.RawMessage `json:"Value"`
}

func (t taskItemJSON) normalize() TaskItem {
	item := TaskItem{ID: t.ID, Label: t.Label}
	if item.Label == "" {
		item.Label = t.LegacyTitle
	}
	v := t.Value
	if len(v) == 0 {
		v = t.LegacyValue
	}
	if len(v) > 0 {
		var b bool
		if err := json.Unmarshal(v, &b); err == nil {
			item.Done = b
		} else {
			var s string
			if err := json.Unmarshal(v, &s); err == nil {
				item.Done, _ = strconv.ParseBool(s)
			}
		}
	}
	return item
}

func decodeTaskList(raw string) (CardContent, bool) {
	var items []taskItemJSON
	// Legacy writers stored a bare array; the canonical form wraps it.
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		var wrapped struct {
			Tasks []taskItemJSON `json:"tasks"`
		}
		if err := json.Unmarshal([]byte(raw), &wrapped); err != nil {
			return TaskListContent{}, false
		}
		items = wrapped.Tasks
	}
	c := TaskListContent{Tasks: make([]TaskItem, 0, len(items))}
	for _, it := range items {
		c.Tasks = append(c.Tasks, it.normalize())
	}
	return c, true
}

type collectionMetadataJSON struct {
	Title             string  `json:"title"`
	Poster            string  `json:"poster"`
	Background        string  `json:"background"`
	Overview          string  `json:"overview"`
	Rating            float64 `json:"rating"`
	ReleaseDate       string  `json:"releaseDate"`
	LegacyReleaseDate string  `json:"release_date"`
	Trailer           string  `json:"trailer"`
	LegacyTrailer     string  `json:"fragman"`
}

func decodeCollection(raw string) (CardContent, bool) {
	var c struct {
		Preset string `json:"preset"`
		Items  []struct {
			ExternalID string                 `json:"externalId"`
			Metadata   collectionMetadataJSON `json:"metadata"`
			Rating     float64                `json:"rating"`
		} `json:"items"`
	}
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return CollectionContent{}, false
	}
	out := CollectionContent{Preset: c.Preset, Items: make([]CollectionItem, 0, len(c.Items))}
	for _, it := range c.Items {
		meta := CollectionItemMetadata{
			Title:       it.Metadata.Title,
			Poster:      it.Metadata.Poster,
			Background:  it.Metadata.Background,
			Overview:    it.Metadata.Overview,
			Rating:      it.Metadata.Rating,
			ReleaseDate: it.Metadata.ReleaseDate,
			Trailer:     it.Metadata.Trailer,
		}
		if meta.ReleaseDate == "" {
			meta.ReleaseDate = it.Metadata.LegacyReleaseDate
		}
		if meta.Trailer == "" {
			meta.Trailer = it.Metadata.LegacyTrailer
		}
		out.Items = append(out.Items, CollectionItem{
			ExternalID: it.ExternalID,
			Metadata:   meta,
			Rating:     it.Rating,
		})
	}
	return out, true
}
