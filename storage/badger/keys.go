package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/poiesic/chatsift/core"
)

// Key prefixes for different data types
const (
	messagePrefix        = "msgrec"
	messageDatePrefix    = "msgrecd"
	messageChannelPrefix = "msgrech"
	messageThreadPrefix  = "msgrect"
	messageKeywordPrefix = "msgreck"
	messageIDSeq         = "msgrecseq"
	dedupRecordPrefix    = "dduprec"
)

// makeMessageKey generates a key for a message by ID.
func makeMessageKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", messagePrefix, id))
}

// makeMessageDateKey generates a composite key for the date index.
// Format: prefix:timestamp:id
func makeMessageDateKey(timestamp time.Time, id core.ID) []byte {
	prefix := messageDatePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for timestamp + 8 bytes for ID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialMessageDateKey generates a partial key for date range queries.
// Format: prefix:timestamp
func makePartialMessageDateKey(timestamp time.Time) []byte {
	prefix := messageDatePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for timestamp
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	return buf
}

// makeScopedDateKey generates a composite key for a string-scoped time
// index (channel or thread). The scope is terminated with a zero byte
// so "dev" never matches as a prefix of "devops".
// Format: prefix:scope\x00timestamp:id
func makeScopedDateKey(prefix, scope string, timestamp time.Time, id core.ID) []byte {
	head := []byte(prefix + ":" + scope)
	totalSize := len(head) + 1 + 16
	buf := make([]byte, totalSize)
	offset := copy(buf, head)
	buf[offset] = 0
	offset++
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialScopedKey generates the scan prefix for a scoped index.
func makePartialScopedKey(prefix, scope string) []byte {
	head := []byte(prefix + ":" + scope)
	buf := make([]byte, len(head)+1)
	offset := copy(buf, head)
	buf[offset] = 0
	return buf
}

// makeChannelKey generates a composite key for the channel index.
func makeChannelKey(channel string, timestamp time.Time, id core.ID) []byte {
	return makeScopedDateKey(messageChannelPrefix, channel, timestamp, id)
}

// makePartialChannelKey generates the scan prefix for a channel.
func makePartialChannelKey(channel string) []byte {
	return makePartialScopedKey(messageChannelPrefix, channel)
}

// makeThreadKey generates a composite key for the thread index.
func makeThreadKey(threadID string, timestamp time.Time, id core.ID) []byte {
	return makeScopedDateKey(messageThreadPrefix, threadID, timestamp, id)
}

// makePartialThreadKey generates the scan prefix for a thread.
func makePartialThreadKey(threadID string) []byte {
	return makePartialScopedKey(messageThreadPrefix, threadID)
}

// makeKeywordKey generates a composite key for the keyword index.
// Format: prefix:keyword\x00id
func makeKeywordKey(keyword string, id core.ID) []byte {
	head := []byte(messageKeywordPrefix + ":" + keyword)
	buf := make([]byte, len(head)+1+8)
	offset := copy(buf, head)
	buf[offset] = 0
	offset++
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialKeywordKey generates the scan prefix for a keyword.
func makePartialKeywordKey(keyword string) []byte {
	return makePartialScopedKey(messageKeywordPrefix, keyword)
}

// makeDedupRecordKey generates a key for a deduplication record.
func makeDedupRecordKey(dedupKey string) []byte {
	return []byte(dedupRecordPrefix + ":" + dedupKey)
}
