package database

import (
	"testing"

	. "gopkg.in/check.v1"
)

// Launch gocheck tests
func Test(t *testing.T) {
	TestingT(t)
}

type StorageSuite struct {
	db Storage
}

var _ = Suite(&StorageSuite{})

func (s *StorageSuite) SetUpTest(c *C) {
	var err error

	s.db, err = OpenDB(c.MkDir())
	c.Assert(err, IsNil)
}

func (s *StorageSuite) TearDownTest(c *C) {
	err := s.db.Close()
	c.Assert(err, IsNil)
}

func (s *StorageSuite) TestPutDelete(c *C) {
	key := []byte("Pxterm 278-1 Debian/stable")

	c.Assert(s.db.Put(key, []byte("Package: xterm")), IsNil)
	c.Check(s.db.KeysByPrefix([]byte("P")), DeepEquals, [][]byte{key})

	c.Assert(s.db.Delete(key), IsNil)
	c.Check(s.db.KeysByPrefix([]byte("P")), DeepEquals, [][]byte{})

	c.Assert(s.db.Delete(key), IsNil)
}

func (s *StorageSuite) TestByPrefix(c *C) {
	c.Check(s.db.FetchByPrefix([]byte("P")), DeepEquals, [][]byte{})

	c.Assert(s.db.Put([]byte("Pxterm 278-1 Debian/stable"), []byte("Package: xterm")), IsNil)
	c.Assert(s.db.Put([]byte("Pdpkg 1.16.10 Debian/stable"), []byte("Package: dpkg")), IsNil)
	c.Assert(s.db.Put([]byte("Plibc6 2.13-38 Debian/stable"), []byte("Package: libc6")), IsNil)
	c.Assert(s.db.Put([]byte("Sxterm"), []byte("Package: xterm\nStatus: install ok installed")), IsNil)

	c.Check(s.db.KeysByPrefix([]byte("P")), DeepEquals, [][]byte{
		[]byte("Pdpkg 1.16.10 Debian/stable"),
		[]byte("Plibc6 2.13-38 Debian/stable"),
		[]byte("Pxterm 278-1 Debian/stable"),
	})
	c.Check(s.db.FetchByPrefix([]byte("P")), DeepEquals, [][]byte{
		[]byte("Package: dpkg"),
		[]byte("Package: libc6"),
		[]byte("Package: xterm"),
	})

	c.Check(s.db.KeysByPrefix([]byte("S")), DeepEquals, [][]byte{[]byte("Sxterm")})
	c.Check(s.db.FetchByPrefix([]byte("X")), DeepEquals, [][]byte{})
}

func (s *StorageSuite) TestBatch(c *C) {
	key := []byte("Sdpkg")

	s.db.StartBatch()
	c.Assert(s.db.Put(key, []byte("Package: dpkg")), IsNil)

	// queued writes stay invisible until the batch commits
	c.Check(s.db.KeysByPrefix([]byte("S")), DeepEquals, [][]byte{})

	c.Assert(s.db.FinishBatch(), IsNil)
	c.Check(s.db.KeysByPrefix([]byte("S")), DeepEquals, [][]byte{key})

	s.db.StartBatch()
	c.Assert(s.db.Delete(key), IsNil)
	c.Check(s.db.KeysByPrefix([]byte("S")), DeepEquals, [][]byte{key})
	c.Assert(s.db.FinishBatch(), IsNil)
	c.Check(s.db.KeysByPrefix([]byte("S")), DeepEquals, [][]byte{})

	c.Check(func() { s.db.FinishBatch() }, Panics, "no batch")

	s.db.StartBatch()
	c.Check(func() { s.db.StartBatch() }, Panics, "batch already started")
}
