// Package cache defines the flat key/value store that backs compiled-asset
// caching. Entries live as <dir>/<key> files written with temp file + rename
// semantics, so concurrent writers racing on one key never expose a partial
// body. A store created through NewTempStore owns its directory and removes it
// on Close; a store opened on an explicit directory leaves it in place. An
// optional in-memory LRU tier (WithMemory) can front any Store.
package cache
