package id

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/nats-io/nuid"
)

var (
	UUID ID = &uuidGen{}
	NUID ID = &nuidGen{}
)

// ID is an interface for generating unique identifiers. Snapshots and
// analytics records are labelled with them.
type ID interface {
	New() string
}

type uuidGen struct{}

func (i *uuidGen) New() string {
	return uuid.New().String()
}

type nuidGen struct{}

func (i *nuidGen) New() string {
	return nuid.Next()
}

// Sequence returns a generator of prefixed, increasing identifiers such as
// "snap-1", "snap-2". It is safe for concurrent use.
func Sequence(prefix string) ID {
	return &seqGen{prefix: prefix}
}

type seqGen struct {
	prefix string
	n      atomic.Uint64
}

func (s *seqGen) New() string {
	return s.prefix + strconv.FormatUint(s.n.Add(1), 10)
}
