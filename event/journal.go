package event

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/viant/taskly/internal/idgen"
)

// Codec selects the journal's on-storage encoding.
type Codec string

const (
	CodecJSON    Codec = "json"
	CodecMsgpack Codec = "msgpack"
)

func (c Codec) extension() string {
	if c == CodecMsgpack {
		return ".mp"
	}
	return ".json"
}

func (c Codec) encode(e *Event) ([]byte, error) {
	if c == CodecMsgpack {
		return msgpack.Marshal(e)
	}
	return json.Marshal(e)
}

func (c Codec) decode(data []byte, e *Event) error {
	if c == CodecMsgpack {
		return msgpack.Unmarshal(data, e)
	}
	return json.Unmarshal(data, e)
}

// Journal persists events one object per event under a base URL, using any
// storage scheme afs supports (file, mem, s3, gs, ...). Object names carry a
// zero-padded sequence prefix so that lexical order equals record order.
type Journal struct {
	fs      afs.Service
	baseURL string
	codec   Codec
	seq     idgen.Generator[Journal]
}

// NewJournal returns a journal writing codec-encoded events under baseURL.
// An empty codec defaults to JSON.
func NewJournal(baseURL string, codec Codec) *Journal {
	if codec == "" {
		codec = CodecJSON
	}
	return &Journal{fs: afs.New(), baseURL: baseURL, codec: codec}
}

// BaseURL returns the journal location.
func (j *Journal) BaseURL() string { return j.baseURL }

// Record persists a single event.
func (j *Journal) Record(ctx context.Context, e *Event) error {
	if e == nil {
		return fmt.Errorf("cannot record nil event")
	}
	data, err := j.codec.encode(e)
	if err != nil {
		return fmt.Errorf("failed to encode event %v: %w", e.ID, err)
	}
	name := fmt.Sprintf("%020d-%v%v", j.seq.Next(), e.ID, j.codec.extension())
	URL := url.Join(j.baseURL, name)
	if err := j.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to persist event %v: %w", e.ID, err)
	}
	return nil
}

// Listener adapts the journal to the Service listener contract. Persistence
// failures are logged and otherwise swallowed so that a storage outage
// cannot take down event delivery.
func (j *Journal) Listener() Listener {
	return func(e *Event) {
		if err := j.Record(context.Background(), e); err != nil {
			log.Printf("failed to journal event: %v", err)
		}
	}
}

// Entries loads every journaled event in record order.
func (j *Journal) Entries(ctx context.Context) ([]*Event, error) {
	objects, err := j.fs.List(ctx, j.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal %v: %w", j.baseURL, err)
	}
	extension := j.codec.extension()
	byName := map[string]string{}
	var names []string
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), extension) {
			continue
		}
		names = append(names, object.Name())
		byName[object.Name()] = object.URL()
	}
	sort.Strings(names)

	var result []*Event
	for _, name := range names {
		data, err := j.fs.DownloadWithURL(ctx, byName[name])
		if err != nil {
			return nil, fmt.Errorf("failed to read journal entry %v: %w", name, err)
		}
		e := &Event{}
		if err := j.codec.decode(data, e); err != nil {
			return nil, fmt.Errorf("failed to decode journal entry %v: %w", name, err)
		}
		result = append(result, e)
	}
	return result, nil
}
