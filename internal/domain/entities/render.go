package entities

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Geometry is the layout shape a variant maps to.
type Geometry string

const (
	GeometryRow      Geometry = "row"      // compact list row
	GeometryTile     Geometry = "tile"     // full-bleed large tile
	GeometryPortrait Geometry = "portrait" // tall portrait tile
)

// BackgroundKind discriminates how the background string should be drawn.
type BackgroundKind string

const (
	BackgroundNone  BackgroundKind = "none"
	BackgroundColor BackgroundKind = "color"
	BackgroundImage BackgroundKind = "image"
)

// BackgroundStyle is the classified background of a card.
type BackgroundStyle struct {
	Kind  BackgroundKind `json:"kind"`
	Value string         `json:"value,omitempty"`
}

// CardPreview is the type-aware projection of a card for list rendering.
// Variant picks the geometry, Type picks which payload fields are projected.
type CardPreview struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Type       CardType        `json:"type"`
	Variant    CardVariant     `json:"variant"`
	Geometry   Geometry        `json:"geometry"`
	Icon       string          `json:"icon"`
	Background BackgroundStyle `json:"background"`
	IsFavorite bool            `json:"is_favorite"`
	Subtitle   string          `json:"subtitle,omitempty"`
	Checked    *bool           `json:"checked,omitempty"`
	DoneCount  *int            `json:"done_count,omitempty"`
	TotalCount *int            `json:"total_count,omitempty"`
	ChildCount *int            `json:"child_count,omitempty"`
}

var cardIcons = map[CardType]string{
	CardTypeFolder:     "folder",
	CardTypeNote:       "note",
	CardTypeLink:       "link",
	CardTypeSimpleTask: "checkbox",
	CardTypeTaskList:   "list",
	CardTypeObjective:  "target",
	CardTypeRoutine:    "repeat",
	CardTypeEvent:      "calendar",
	CardTypeCollection: "film",
	CardTypePassword:   "lock",
}

// IconFor maps a card type to its icon identifier. Unknown types fall back
// to the generic note glyph.
func IconFor(t CardType) string {
	if icon, ok := cardIcons[t]; ok {
		return icon
	}
	return "note"
}

// GeometryFor maps a variant to its layout geometry. Unknown variants render
// as compact rows.
func GeometryFor(v CardVariant) Geometry {
	switch v {
	case VariantLarge:
		return GeometryTile
	case VariantPortrait:
		return GeometryPortrait
	default:
		return GeometryRow
	}
}

var colorPattern = regexp.MustCompile(`^(#[0-9a-fA-F]{3,8}|rgba?\(.+\))$`)

// IsNetworkURL reports whether s looks like a fetchable http(s) resource.
func IsNetworkURL(s string) bool {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return false
	}
	u, err := url.Parse(s)
	return err == nil && u.Host != ""
}

// IsColorString reports whether s is a hex or rgb/rgba color literal.
func IsColorString(s string) bool {
	return colorPattern.MatchString(strings.TrimSpace(s))
}

// ClassifyBackground resolves a card's background string into an image layer
// or a solid fill. The two are mutually exclusive; anything that matches
// neither shape classifies as none.
func ClassifyBackground(s string) BackgroundStyle {
	switch {
	case IsNetworkURL(s):
		return BackgroundStyle{Kind: BackgroundImage, Value: strings.TrimSpace(s)}
	case IsColorString(s):
		return BackgroundStyle{Kind: BackgroundColor, Value: strings.TrimSpace(s)}
	default:
		return BackgroundStyle{Kind: BackgroundNone}
	}
}

// BuildPreview projects a card into its list-rendering shape. childCount is
// only meaningful for folders; pass the number of cards inside. The
// projection is total over the closed type set and never fails: malformed
// payloads project from the zero payload.
func BuildPreview(card *Card, childCount int) CardPreview {
	p := CardPreview{
		ID:         card.ID.String(),
		Title:      card.Title,
		Type:       card.Type,
		Variant:    card.Variant,
		Geometry:   GeometryFor(card.Variant),
		Icon:       IconFor(card.Type),
		Background: ClassifyBackground(card.Background),
		IsFavorite: card.IsFavorite,
	}

	switch payload := card.Payload().(type) {
	case NoteContent:
		p.Subtitle = noteExcerpt(payload.Text)
	case LinkContent:
		p.Subtitle = linkHost(payload.URL)
	case SimpleTaskContent:
		checked := payload.Done
		p.Checked = &checked
		p.Subtitle = payload.Description
	case TaskListContent:
		done := 0
		for _, t := range payload.Tasks {
			if t.Done {
				done++
			}
		}
		total := len(payload.Tasks)
		p.DoneCount = &done
		p.TotalCount = &total
	case ObjectiveContent:
		if payload.StartDate != "" || payload.EndDate != "" {
			p.Subtitle = fmt.Sprintf("%s – %s", payload.StartDate, payload.EndDate)
		} else {
			p.Subtitle = payload.Description
		}
	case EventContent:
		p.Subtitle = eventSubtitle(payload)
	case CollectionContent:
		total := len(payload.Items)
		p.TotalCount = &total
		p.Subtitle = payload.Preset
	case PasswordContent:
		// Never leak credential fields into a list projection.
		p.Subtitle = payload.Website
	case FolderContent:
		p.ChildCount = &childCount
	}

	return p
}

// noteExcerpt returns the first non-empty line with Markdown heading markers
// stripped, truncated for row display.
func noteExcerpt(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#"))
		if line == "" {
			continue
		}
		if len(line) > 80 {
			// Back up to a rune boundary so the cut never splits a
			// multibyte character.
			cut := 80
			for cut > 0 && !utf8.RuneStart(line[cut]) {
				cut--
			}
			return line[:cut]
		}
		return line
	}
	return ""
}

func linkHost(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}

func eventSubtitle(e EventContent) string {
	var parts []string
	if e.Timestamp > 0 {
		parts = append(parts, time.UnixMilli(e.Timestamp).UTC().Format("Jan 2, 2006 15:04"))
	}
	if e.IsOnline {
		parts = append(parts, "online")
	} else if e.Location != "" {
		parts = append(parts, e.Location)
	}
	return strings.Join(parts, " · ")
}
