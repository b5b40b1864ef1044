package orm

import (
	"github.com/signet-one/signet"
	"github.com/signet-one/signet/x"
)

// Object is what is stored in the bucket
// Key is joined with the prefix to set the full key
// Value is the data stored
type Object interface {
	Keyed
	Cloneable
	// Validate returns error if the object is not in a valid
	// state to save to the db (eg. field missing, out of range, ...)
	x.Validater
	Value() signet.Persistent
}

// Reader defines an interface that allows reading objects from the db
type Reader interface {
	Get(db signet.ReadOnlyKVStore, key []byte) (Object, error)
}

// Keyed is anything that can identify itself
type Keyed interface {
	Key() []byte
	SetKey([]byte)
}

// Cloneable will create a new object that can be loaded into
type Cloneable interface {
	Clone() Object
}

// Model is implemented by the values stored under a bucket. It is an
// intelligent Persistent that can validate and copy itself, and can be
// embedded in a simple object to handle much of the details.
type Model interface {
	x.Validater
	signet.Persistent
	Copy() Model
}
