// Code generated by musgen-go. DO NOT EDIT.

package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

var (
	mapZlΣ1OYRgjhnJAOv1sYGWKQΞΞ   = ord.NewMapSer[string, int](ord.String, varint.Int)
	sliceNC54ZNJ8vk9NhsqQB9fTXQΞΞ = ord.NewSliceSer[float32](varint.Float32)
	slicenpyTbXEK4NwYJq07inRlsgΞΞ = ord.NewSliceSer[string](ord.String)
)

var IDMUS = iDMUS{}

type iDMUS struct{}

func (s iDMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s iDMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	tmp, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	v = ID(tmp)
	return
}

func (s iDMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (s iDMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

var MessageTypeMUS = messageTypeMUS{}

type messageTypeMUS struct{}

func (s messageTypeMUS) Marshal(v MessageType, bs []byte) (n int) {
	return varint.Int.Marshal(int(v), bs)
}

func (s messageTypeMUS) Unmarshal(bs []byte) (v MessageType, n int, err error) {
	tmp, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	v = MessageType(tmp)
	return
}

func (s messageTypeMUS) Size(v MessageType) (size int) {
	return varint.Int.Size(int(v))
}

func (s messageTypeMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int.Skip(bs)
}

var MessageMUS = messageMUS{}

type messageMUS struct{}

func (s messageMUS) Marshal(v Message, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.SourceId, bs[n:])
	n += ord.String.Marshal(v.Sender, bs[n:])
	n += ord.String.Marshal(v.Contents, bs[n:])
	n += ord.String.Marshal(v.Channel, bs[n:])
	n += ord.String.Marshal(v.ThreadId, bs[n:])
	n += MessageTypeMUS.Marshal(v.Type, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.Timestamp, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.InsertedAt, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.UpdatedAt, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.EditedAt, bs[n:])
	n += varint.Uint32.Marshal(v.Version, bs[n:])
	n += varint.Uint64.Marshal(v.ContentHash, bs[n:])
	n += mapZlΣ1OYRgjhnJAOv1sYGWKQΞΞ.Marshal(v.Reactions, bs[n:])
	n += slicenpyTbXEK4NwYJq07inRlsgΞΞ.Marshal(v.Mentions, bs[n:])
	n += slicenpyTbXEK4NwYJq07inRlsgΞΞ.Marshal(v.Attachments, bs[n:])
	n += slicenpyTbXEK4NwYJq07inRlsgΞΞ.Marshal(v.Keywords, bs[n:])
	return n + sliceNC54ZNJ8vk9NhsqQB9fTXQΞΞ.Marshal(v.Vector, bs[n:])
}

func (s messageMUS) Unmarshal(bs []byte) (v Message, n int, err error) {
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.SourceId, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Sender, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Contents, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Channel, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ThreadId, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Type, n1, err = MessageTypeMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Timestamp, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.InsertedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.EditedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Version, n1, err = varint.Uint32.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ContentHash, n1, err = varint.Uint64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Reactions, n1, err = mapZlΣ1OYRgjhnJAOv1sYGWKQΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Mentions, n1, err = slicenpyTbXEK4NwYJq07inRlsgΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Attachments, n1, err = slicenpyTbXEK4NwYJq07inRlsgΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Keywords, n1, err = slicenpyTbXEK4NwYJq07inRlsgΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Vector, n1, err = sliceNC54ZNJ8vk9NhsqQB9fTXQΞΞ.Unmarshal(bs[n:])
	n += n1
	return
}

func (s messageMUS) Size(v Message) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.SourceId)
	size += ord.String.Size(v.Sender)
	size += ord.String.Size(v.Contents)
	size += ord.String.Size(v.Channel)
	size += ord.String.Size(v.ThreadId)
	size += MessageTypeMUS.Size(v.Type)
	size += raw.TimeUnixMicro.Size(v.Timestamp)
	size += raw.TimeUnixMicro.Size(v.InsertedAt)
	size += raw.TimeUnixMicro.Size(v.UpdatedAt)
	size += raw.TimeUnixMicro.Size(v.EditedAt)
	size += varint.Uint32.Size(v.Version)
	size += varint.Uint64.Size(v.ContentHash)
	size += mapZlΣ1OYRgjhnJAOv1sYGWKQΞΞ.Size(v.Reactions)
	size += slicenpyTbXEK4NwYJq07inRlsgΞΞ.Size(v.Mentions)
	size += slicenpyTbXEK4NwYJq07inRlsgΞΞ.Size(v.Attachments)
	size += slicenpyTbXEK4NwYJq07inRlsgΞΞ.Size(v.Keywords)
	return size + sliceNC54ZNJ8vk9NhsqQB9fTXQΞΞ.Size(v.Vector)
}

func (s messageMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = MessageTypeMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Uint32.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Uint64.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = mapZlΣ1OYRgjhnJAOv1sYGWKQΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = slicenpyTbXEK4NwYJq07inRlsgΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = slicenpyTbXEK4NwYJq07inRlsgΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = slicenpyTbXEK4NwYJq07inRlsgΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = sliceNC54ZNJ8vk9NhsqQB9fTXQΞΞ.Skip(bs[n:])
	n += n1
	return
}

var DedupRecordMUS = dedupRecordMUS{}

type dedupRecordMUS struct{}

func (s dedupRecordMUS) Marshal(v DedupRecord, bs []byte) (n int) {
	n = ord.String.Marshal(v.Key, bs)
	n += IDMUS.Marshal(v.MessageId, bs[n:])
	n += varint.Uint64.Marshal(v.ContentHash, bs[n:])
	n += varint.Uint32.Marshal(v.Version, bs[n:])
	n += mapZlΣ1OYRgjhnJAOv1sYGWKQΞΞ.Marshal(v.Reactions, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.UpdatedAt, bs[n:])
}

func (s dedupRecordMUS) Unmarshal(bs []byte) (v DedupRecord, n int, err error) {
	v.Key, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.MessageId, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ContentHash, n1, err = varint.Uint64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Version, n1, err = varint.Uint32.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Reactions, n1, err = mapZlΣ1OYRgjhnJAOv1sYGWKQΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s dedupRecordMUS) Size(v DedupRecord) (size int) {
	size = ord.String.Size(v.Key)
	size += IDMUS.Size(v.MessageId)
	size += varint.Uint64.Size(v.ContentHash)
	size += varint.Uint32.Size(v.Version)
	size += mapZlΣ1OYRgjhnJAOv1sYGWKQΞΞ.Size(v.Reactions)
	return size + raw.TimeUnixMicro.Size(v.UpdatedAt)
}

func (s dedupRecordMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = IDMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Uint64.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Uint32.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = mapZlΣ1OYRgjhnJAOv1sYGWKQΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}
