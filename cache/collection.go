package cache

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/ugorji/go/codec"

	"github.com/UgoL76/aptitude/database"
	"github.com/UgoL76/aptitude/deb"
)

// StoredStanza is a package stanza together with its placement, as kept
// in the database between update and query runs.
type StoredStanza struct {
	Stanza     deb.Stanza
	Origin     string
	Archive    string
	Component  string
	FromStatus bool
}

// Key returns the database key for the stanza
func (s *StoredStanza) Key() []byte {
	if s.FromStatus {
		return []byte("S" + s.Stanza["Package"])
	}
	return []byte("P" + s.Stanza["Package"] + " " + s.Stanza["Version"] + " " + s.Origin + "/" + s.Archive)
}

// Collection manages stored package stanzas in the DB
type Collection struct {
	db           database.Storage
	encodeBuffer bytes.Buffer
}

// NewCollection creates collection and binds it to the database
func NewCollection(db database.Storage) *Collection {
	return &Collection{
		db: db,
	}
}

// Update adds or overwrites a stored stanza
func (collection *Collection) Update(s *StoredStanza) error {
	encoder := codec.NewEncoder(&collection.encodeBuffer, &codec.MsgpackHandle{})

	collection.encodeBuffer.Reset()
	if err := encoder.Encode(s); err != nil {
		return err
	}

	return collection.db.Put(s.Key(), collection.encodeBuffer.Bytes())
}

// ForEach walks all stored stanzas, index stanzas first
func (collection *Collection) ForEach(handler func(*StoredStanza) error) error {
	for _, prefix := range []string{"P", "S"} {
		for _, encoded := range collection.db.FetchByPrefix([]byte(prefix)) {
			s := &StoredStanza{}

			decoder := codec.NewDecoderBytes(encoded, &codec.MsgpackHandle{})
			if err := decoder.Decode(s); err != nil {
				return errors.Wrap(err, "decoding stored stanza")
			}

			if err := handler(s); err != nil {
				return err
			}
		}
	}
	return nil
}

// Drop removes every stored stanza
func (collection *Collection) Drop() error {
	for _, prefix := range []string{"P", "S"} {
		for _, key := range collection.db.KeysByPrefix([]byte(prefix)) {
			if err := collection.db.Delete(key); err != nil {
				return err
			}
		}
	}
	return nil
}

// Load rebuilds the package cache from the stored stanzas
func (collection *Collection) Load(policy Policy) (*Cache, error) {
	c := New()
	c.Policy = policy

	err := collection.ForEach(func(s *StoredStanza) error {
		if s.FromStatus {
			return c.addStatusStanza(s.Stanza)
		}
		return c.addIndexStanza(s.Stanza, s.Origin, s.Archive, s.Component)
	})
	if err != nil {
		return nil, err
	}

	c.Finalize()
	return c, nil
}
