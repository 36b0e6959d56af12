package catalog

import (
	"net/url"
	"strings"

	"gorm.io/datatypes"

	"github.com/jackzampolin/freestyle/internal/store"
)

// PromptInput is the body of a prompt submission.
type PromptInput struct {
	Label       string        `json:"label"`
	Description string        `json:"description"`
	Tips        []string      `json:"tips,omitempty"`
	Drills      []store.Drill `json:"drills,omitempty"`
	Links       []store.Link  `json:"links,omitempty"`
}

// PromptUpdate is a partial update applied by a moderator. Nil fields are
// left untouched.
type PromptUpdate struct {
	Label       *string             `json:"label,omitempty"`
	Description *string             `json:"description,omitempty"`
	Tips        *[]string           `json:"tips,omitempty"`
	Drills      *[]store.Drill      `json:"drills,omitempty"`
	Links       *[]store.Link       `json:"links,omitempty"`
	Status      *store.PromptStatus `json:"status,omitempty"`
}

// Normalize validates a submission and returns it cleaned up: text trimmed,
// empty tips dropped, link types resolved and video ids filled in.
func (in PromptInput) Normalize() (PromptInput, error) {
	label, err := requireText("label", in.Label)
	if err != nil {
		return in, err
	}
	description, err := requireText("description", in.Description)
	if err != nil {
		return in, err
	}
	drills, err := normalizeDrills(in.Drills)
	if err != nil {
		return in, err
	}
	links, err := normalizeLinks(in.Links)
	if err != nil {
		return in, err
	}
	return PromptInput{
		Label:       label,
		Description: description,
		Tips:        normalizeTips(in.Tips),
		Drills:      drills,
		Links:       links,
	}, nil
}

// Fields validates the supplied fields and returns the column updates they
// translate to. An update with nothing in it is rejected.
func (u PromptUpdate) Fields() (map[string]any, error) {
	fields := make(map[string]any)
	if u.Label != nil {
		label, err := requireText("label", *u.Label)
		if err != nil {
			return nil, err
		}
		fields["label"] = label
	}
	if u.Description != nil {
		description, err := requireText("description", *u.Description)
		if err != nil {
			return nil, err
		}
		fields["description"] = description
	}
	if u.Tips != nil {
		fields["tips"] = datatypes.JSONSlice[string](normalizeTips(*u.Tips))
	}
	if u.Drills != nil {
		drills, err := normalizeDrills(*u.Drills)
		if err != nil {
			return nil, err
		}
		fields["drills"] = datatypes.JSONSlice[store.Drill](drills)
	}
	if u.Links != nil {
		links, err := normalizeLinks(*u.Links)
		if err != nil {
			return nil, err
		}
		fields["links"] = datatypes.JSONSlice[store.Link](links)
	}
	if u.Status != nil {
		if !u.Status.Valid() {
			return nil, invalid("unknown status %q", *u.Status)
		}
		fields["status"] = *u.Status
	}
	if len(fields) == 0 {
		return nil, invalid("no fields to update")
	}
	return fields, nil
}

func requireText(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", invalid("%s is required", field)
	}
	return value, nil
}

func normalizeTips(tips []string) []string {
	out := make([]string, 0, len(tips))
	for _, tip := range tips {
		if tip = strings.TrimSpace(tip); tip != "" {
			out = append(out, tip)
		}
	}
	return out
}

func normalizeDrills(drills []store.Drill) ([]store.Drill, error) {
	out := make([]store.Drill, 0, len(drills))
	for i, d := range drills {
		icon := DrillIcon(strings.TrimSpace(d.Icon))
		text := strings.TrimSpace(d.Text)
		if icon == "" || text == "" {
			return nil, invalid("drill %d requires an icon and text", i+1)
		}
		if !icon.Valid() {
			return nil, invalid("drill %d has unknown icon %q", i+1, icon)
		}
		out = append(out, store.Drill{Icon: string(icon), Text: text})
	}
	return out, nil
}

func normalizeLinks(links []store.Link) ([]store.Link, error) {
	out := make([]store.Link, 0, len(links))
	for i, l := range links {
		title := strings.TrimSpace(l.Title)
		raw := strings.TrimSpace(l.URL)
		if title == "" || raw == "" {
			return nil, invalid("link %d requires a title and url", i+1)
		}
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, invalid("link %d has an invalid url: %s", i+1, raw)
		}

		switch l.Type {
		case "", store.LinkVideo, store.LinkWebsite:
		default:
			return nil, invalid("link %d has unknown type %q", i+1, l.Type)
		}

		link := store.Link{Title: title, URL: raw, Type: store.LinkWebsite}
		id, ok := ExtractVideoID(raw)
		switch {
		case ok:
			link.Type = store.LinkVideo
			link.VideoID = id
		case l.Type == store.LinkVideo:
			return nil, invalid("could not extract a video id from %s", raw)
		}
		out = append(out, link)
	}
	return out, nil
}
