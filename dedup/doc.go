// Package dedup decides whether an ingested message is new, an edit, a
// reaction change, or an exact duplicate of something already stored.
//
// Each message maps to a dedup key (channel plus the source platform's
// message ID, or channel plus timestamp as a fallback) and a content
// hash over content, sender, and timestamp. Comparing the incoming
// message's hash and reactions against the stored record yields one of
// four outcomes:
//
//	no record          -> New              (insert, version 1)
//	hash differs       -> Updated          (version += 1)
//	reactions differ   -> ReactionsUpdated (version unchanged)
//	identical          -> Duplicate        (no write)
//
// All four are valid steady states. The gate serializes its check-then-act
// cycle so concurrent ingestion of the same logical message cannot race.
package dedup
