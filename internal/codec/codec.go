// Package codec maps graphs to and from the JSON documents stored under
// graph-<id> keys. It owns the on-disk schema: works and relations are keyed
// "work-<id>" / "relation-<id>" and timestamps are second-precision local
// time strings.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/nvandessel/workgraph/internal/models"
)

// TimeLayout is the on-disk timestamp format (YYYY-MM-DD HH:MM:SS, local time).
const TimeLayout = "2006-01-02 15:04:05"

// Map key prefixes used inside a graph document.
const (
	WorkKeyPrefix     = "work-"
	RelationKeyPrefix = "relation-"
)

var (
	// ErrMalformedDocument reports a document that is not valid JSON, has the
	// wrong shape, or lacks a required field.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrMalformedTimestamp reports a timestamp not in TimeLayout.
	ErrMalformedTimestamp = errors.New("malformed timestamp")
)

// DecodeError locates a decode failure inside a document.
type DecodeError struct {
	Path   string // JSON path of the offending field, empty for the whole document
	Kind   error  // ErrMalformedDocument or ErrMalformedTimestamp
	Detail string
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%v: %s", e.Kind, e.Detail)
	}
	return fmt.Sprintf("%v: %s: %s", e.Kind, e.Path, e.Detail)
}

func (e *DecodeError) Unwrap() error {
	return e.Kind
}

func malformed(path, detail string) error {
	return &DecodeError{Path: path, Kind: ErrMalformedDocument, Detail: detail}
}

func missing(path string) error {
	return malformed(path, "required field is missing")
}

// Pointer fields distinguish an absent key from a zero value.
type graphDoc struct {
	ID        *int                   `json:"id"`
	Name      *string                `json:"name"`
	Works     map[string]workDoc     `json:"works"`
	Relations map[string]relationDoc `json:"relations"`
}

type workDoc struct {
	ID            *int       `json:"id"`
	Content       *string    `json:"content"`
	Status        *int       `json:"status"`
	Priority      *int       `json:"priority"`
	UpdatedAt     *string    `json:"updated_at"`
	RelatedPeople []string   `json:"related_people"`
	Events        []eventDoc `json:"events"`
}

type eventDoc struct {
	ID        *int    `json:"id"`
	Content   *string `json:"content"`
	CreatedAt *string `json:"created_at"`
}

type relationDoc struct {
	ID          *int    `json:"id"`
	W1          *int    `json:"w1"`
	W2          *int    `json:"w2"`
	Description *string `json:"description"`
}

// WorkKey returns the document key of a work.
func WorkKey(id int) string {
	return WorkKeyPrefix + strconv.Itoa(id)
}

// RelationKey returns the document key of a relation.
func RelationKey(id int) string {
	return RelationKeyPrefix + strconv.Itoa(id)
}

// FormatTime renders t in local time at second precision.
func FormatTime(t time.Time) string {
	return t.Local().Format(TimeLayout)
}

// Encode serializes a graph to its JSON document.
func Encode(g models.Graph) ([]byte, error) {
	return json.Marshal(toDoc(g))
}

func toDoc(g models.Graph) graphDoc {
	doc := graphDoc{
		ID:        intPtr(g.ID),
		Name:      strPtr(g.Name),
		Works:     make(map[string]workDoc, len(g.Works)),
		Relations: make(map[string]relationDoc, len(g.Relations)),
	}

	for _, w := range g.Works {
		people := make([]string, len(w.RelatedPeople))
		copy(people, w.RelatedPeople)

		events := make([]eventDoc, 0, len(w.Events))
		for _, e := range w.Events {
			events = append(events, eventDoc{
				ID:        intPtr(e.ID),
				Content:   strPtr(e.Content),
				CreatedAt: strPtr(FormatTime(e.CreatedAt)),
			})
		}

		doc.Works[WorkKey(w.ID)] = workDoc{
			ID:            intPtr(w.ID),
			Content:       strPtr(w.Content),
			Status:        intPtr(int(w.Status)),
			Priority:      intPtr(w.Priority),
			UpdatedAt:     strPtr(FormatTime(w.UpdatedAt)),
			RelatedPeople: people,
			Events:        events,
		}
	}

	for _, r := range g.Relations {
		doc.Relations[RelationKey(r.ID)] = relationDoc{
			ID:          intPtr(r.ID),
			W1:          intPtr(r.W1),
			W2:          intPtr(r.W2),
			Description: strPtr(r.Description),
		}
	}

	return doc
}

// Decode parses a graph document. It never fills a required field with a
// default: missing fields fail with ErrMalformedDocument and unparsable
// timestamps with ErrMalformedTimestamp, both wrapped in a *DecodeError.
func Decode(data []byte) (*models.Graph, error) {
	var doc graphDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, malformed("", err.Error())
	}
	g, err := fromDoc(doc)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func fromDoc(doc graphDoc) (models.Graph, error) {
	if doc.ID == nil {
		return models.Graph{}, missing("id")
	}
	if doc.Name == nil {
		return models.Graph{}, missing("name")
	}

	g := models.NewGraph(*doc.ID, *doc.Name)

	for key, wd := range doc.Works {
		w, err := decodeWork("works."+key, wd)
		if err != nil {
			return models.Graph{}, err
		}
		// Object keys are unique, so a matching key also rules out duplicate ids.
		if key != WorkKey(w.ID) {
			return models.Graph{}, malformed("works."+key, fmt.Sprintf("key does not match work id %d", w.ID))
		}
		g.Works[w.ID] = w
	}

	for key, rd := range doc.Relations {
		r, err := decodeRelation("relations."+key, rd)
		if err != nil {
			return models.Graph{}, err
		}
		if key != RelationKey(r.ID) {
			return models.Graph{}, malformed("relations."+key, fmt.Sprintf("key does not match relation id %d", r.ID))
		}
		g.Relations[r.ID] = r
	}

	return g, nil
}

func decodeWork(path string, wd workDoc) (models.Work, error) {
	switch {
	case wd.ID == nil:
		return models.Work{}, missing(path + ".id")
	case wd.Content == nil:
		return models.Work{}, missing(path + ".content")
	case wd.Status == nil:
		return models.Work{}, missing(path + ".status")
	case wd.UpdatedAt == nil:
		return models.Work{}, missing(path + ".updated_at")
	}

	status := models.Status(*wd.Status)
	if !status.Valid() {
		return models.Work{}, malformed(path+".status", fmt.Sprintf("unknown status %d", *wd.Status))
	}

	updatedAt, err := decodeTime(path+".updated_at", *wd.UpdatedAt)
	if err != nil {
		return models.Work{}, err
	}

	w := models.Work{
		ID:            *wd.ID,
		Content:       *wd.Content,
		Status:        status,
		UpdatedAt:     updatedAt,
		RelatedPeople: make([]string, 0, len(wd.RelatedPeople)),
		Events:        make([]models.Event, 0, len(wd.Events)),
	}
	if wd.Priority != nil {
		w.Priority = *wd.Priority
	}
	w.RelatedPeople = append(w.RelatedPeople, wd.RelatedPeople...)

	seen := make(map[int]bool, len(wd.Events))
	for i, ed := range wd.Events {
		e, err := decodeEvent(fmt.Sprintf("%s.events[%d]", path, i), ed)
		if err != nil {
			return models.Work{}, err
		}
		if seen[e.ID] {
			return models.Work{}, malformed(fmt.Sprintf("%s.events[%d]", path, i), fmt.Sprintf("duplicate event id %d", e.ID))
		}
		seen[e.ID] = true
		w.Events = append(w.Events, e)
	}

	return w, nil
}

func decodeEvent(path string, ed eventDoc) (models.Event, error) {
	switch {
	case ed.ID == nil:
		return models.Event{}, missing(path + ".id")
	case ed.Content == nil:
		return models.Event{}, missing(path + ".content")
	case ed.CreatedAt == nil:
		return models.Event{}, missing(path + ".created_at")
	}

	createdAt, err := decodeTime(path+".created_at", *ed.CreatedAt)
	if err != nil {
		return models.Event{}, err
	}
	return models.Event{ID: *ed.ID, Content: *ed.Content, CreatedAt: createdAt}, nil
}

func decodeRelation(path string, rd relationDoc) (models.Relation, error) {
	switch {
	case rd.ID == nil:
		return models.Relation{}, missing(path + ".id")
	case rd.W1 == nil:
		return models.Relation{}, missing(path + ".w1")
	case rd.W2 == nil:
		return models.Relation{}, missing(path + ".w2")
	case rd.Description == nil:
		return models.Relation{}, missing(path + ".description")
	}
	return models.Relation{ID: *rd.ID, W1: *rd.W1, W2: *rd.W2, Description: *rd.Description}, nil
}

func decodeTime(path, s string) (time.Time, error) {
	t, err := time.ParseInLocation(TimeLayout, s, time.Local)
	if err != nil {
		return time.Time{}, &DecodeError{Path: path, Kind: ErrMalformedTimestamp, Detail: fmt.Sprintf("%q is not in %s format", s, TimeLayout)}
	}
	return t, nil
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
