package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"reportdesk/internal/domain"
	models "reportdesk/internal/domain/models/report"
	"reportdesk/internal/schema"
)

var errNotAuthored = errors.New("section does not accept authored content")

// ParseContent strictly decodes an authored payload for sec. Any deviation
// from the declared kind yields a *domain.ShapeMismatchError.
func ParseContent(sec *schema.Section, raw json.RawMessage) (models.Content, error) {
	c, err := decodeContent(sec, raw, true)
	if err != nil {
		return models.Content{}, &domain.ShapeMismatchError{
			SectionID: sec.ID,
			Kind:      string(sec.Kind),
			Reason:    err.Error(),
		}
	}
	return c, nil
}

// loadContent decodes stored content. Older records kept a bare string for
// text and image sections; those are read as a one-element list.
func loadContent(sec *schema.Section, raw json.RawMessage) (models.Content, error) {
	return decodeContent(sec, raw, false)
}

func decodeContent(sec *schema.Section, raw json.RawMessage, strict bool) (models.Content, error) {
	if !sec.Kind.Authored() {
		return models.Content{}, errNotAuthored
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		if strict {
			return models.Content{}, errors.New("content is required")
		}
		return models.Content{Kind: sec.Kind}, nil
	}

	switch sec.Kind {
	case models.KindText:
		pages, err := decodeStrings(raw, strict)
		if err != nil {
			return models.Content{}, err
		}
		if strict {
			for i, p := range pages {
				pages[i] = StripMarkup(p)
			}
		}
		return models.Content{Kind: models.KindText, Pages: pages}, nil

	case models.KindImage:
		urls, err := decodeStrings(raw, strict)
		if err != nil {
			return models.Content{}, err
		}
		for i, u := range urls {
			if strings.TrimSpace(u) == "" && strict {
				return models.Content{}, fmt.Errorf("image %d has an empty url", i+1)
			}
		}
		return models.Content{Kind: models.KindImage, Images: urls}, nil

	case models.KindForm:
		var form map[string]string
		if err := json.Unmarshal(raw, &form); err != nil {
			return models.Content{}, fmt.Errorf("expected an object of strings")
		}
		if strict {
			for key := range form {
				if _, ok := sec.Field(key); !ok {
					return models.Content{}, fmt.Errorf("unknown field %q", key)
				}
			}
		}
		return models.Content{Kind: models.KindForm, Form: form}, nil

	case models.KindTable:
		rows, err := decodeRows(raw, strict)
		if err != nil {
			return models.Content{}, err
		}
		return models.Content{Kind: models.KindTable, Rows: rows}, nil
	}
	return models.Content{}, errNotAuthored
}

func decodeStrings(raw json.RawMessage, strict bool) ([]string, error) {
	if raw[0] == '"' && !strict {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return []string{s}, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("expected a list of strings")
	}
	return list, nil
}

func decodeRows(raw json.RawMessage, strict bool) ([]models.ScheduleRow, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if strict {
		dec.DisallowUnknownFields()
	}
	var rows []models.ScheduleRow
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("expected a list of {week, date, day, topic} rows: %v", err)
	}
	return rows, nil
}
