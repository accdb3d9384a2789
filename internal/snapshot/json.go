package snapshot

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/sampleledger/internal/filex"
	"github.com/dmitrijs2005/sampleledger/internal/ledger"
)

const (
	DefaultDataFile  = "ssep_data.json"
	DefaultTrashFile = "ssep_history.json"
)

// Info describes a stored snapshot for the backup list.
type Info struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modTime"`
}

// JSONStore keeps the snapshot in two JSON files.
type JSONStore struct {
	DataPath  string
	TrashPath string
	Codec     Codec
}

// NewJSONStore returns a store over the given files; empty paths select
// the default file names in the working directory.
func NewJSONStore(dataPath, trashPath string) *JSONStore {
	if dataPath == "" {
		dataPath = DefaultDataFile
	}
	if trashPath == "" {
		trashPath = DefaultTrashFile
	}
	return &JSONStore{DataPath: dataPath, TrashPath: trashPath, Codec: DefaultCodec()}
}

func (s *JSONStore) LoadRecords(_ context.Context) ([]ledger.Record, bool, error) {
	b, found, err := filex.ReadIfExists(s.DataPath)
	if err != nil || !found {
		return nil, false, err
	}
	records, err := s.Codec.UnmarshalRecords(b)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", s.DataPath, err)
	}
	return records, true, nil
}

func (s *JSONStore) SaveRecords(_ context.Context, records []ledger.Record) error {
	b, err := s.Codec.MarshalRecords(records)
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	return filex.WriteAtomic(s.DataPath, b, 0o600)
}

func (s *JSONStore) LoadTrash(_ context.Context) ([]ledger.TrashEntry, error) {
	b, found, err := filex.ReadIfExists(s.TrashPath)
	if err != nil {
		return nil, err
	}
	if !found {
		return []ledger.TrashEntry{}, nil
	}
	trash, err := s.Codec.UnmarshalTrash(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.TrashPath, err)
	}
	return trash, nil
}

func (s *JSONStore) SaveTrash(_ context.Context, trash []ledger.TrashEntry) error {
	b, err := s.Codec.MarshalTrash(trash)
	if err != nil {
		return fmt.Errorf("encode trash: %w", err)
	}
	return filex.WriteAtomic(s.TrashPath, b, 0o600)
}

// Info reports the data file's size and modification time. found is false
// when nothing was saved yet.
func (s *JSONStore) Info(_ context.Context) (Info, bool, error) {
	fi, err := os.Stat(s.DataPath)
	if os.IsNotExist(err) {
		return Info{}, false, nil
	}
	if err != nil {
		return Info{}, false, fmt.Errorf("stat %s: %w", s.DataPath, err)
	}
	return Info{Name: fi.Name(), Size: fi.Size(), ModTime: fi.ModTime()}, true, nil
}

func (s *JSONStore) Close() error { return nil }
