//nolint
package store

import "github.com/signet-one/signet"

// Move references for all storage types into this package
// for shorter names everywhere

type ReadOnlyKVStore = signet.ReadOnlyKVStore
type KVStore = signet.KVStore
type SetDeleter = signet.SetDeleter
type Batch = signet.Batch
type CacheableKVStore = signet.CacheableKVStore
type KVCacheWrap = signet.KVCacheWrap
type Model = signet.Model
