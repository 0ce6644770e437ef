package erasure

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/klauspost/reedsolomon"
)

var (
	ErrTooManyLost   = errors.New("erasure: too many shards lost, cannot recover")
	ErrInvalidConfig = errors.New("erasure: invalid data/parity configuration")
	ErrShardMismatch = errors.New("erasure: shards do not belong together")
	ErrShardTooShort = errors.New("erasure: shard too short")
	ErrEmptyInput    = errors.New("erasure: nothing to encode")
)

// MaxShards bounds data+parity so a shard index fits in one byte.
const MaxShards = 256

const shardHeaderSize = 7

// Shard is one piece of an encoded blob.
type Shard struct {
	Index  int
	Data   int // data shards in the set
	Parity int // parity shards in the set
	Size   int // length of the original blob
	Bytes  []byte
}

// Marshal serializes the shard as index | data | parity | size (BE) | payload.
func (s Shard) Marshal() []byte {
	out := make([]byte, shardHeaderSize+len(s.Bytes))
	out[0] = byte(s.Index)
	out[1] = byte(s.Data)
	out[2] = byte(s.Parity)
	binary.BigEndian.PutUint32(out[3:7], uint32(s.Size))
	copy(out[shardHeaderSize:], s.Bytes)
	return out
}

// UnmarshalShard parses the output of Shard.Marshal.
func UnmarshalShard(b []byte) (Shard, error) {
	if len(b) < shardHeaderSize {
		return Shard{}, ErrShardTooShort
	}
	s := Shard{
		Index:  int(b[0]),
		Data:   int(b[1]),
		Parity: int(b[2]),
		Size:   int(binary.BigEndian.Uint32(b[3:7])),
		Bytes:  b[shardHeaderSize:],
	}
	if s.Data == 0 || s.Parity == 0 || s.Index >= s.Data+s.Parity {
		return Shard{}, ErrShardMismatch
	}
	return s, nil
}

// Codec provides Reed-Solomon encoding/decoding.
type Codec struct {
	enc          reedsolomon.Encoder
	dataShards   int
	parityShards int
}

// NewCodec creates a new erasure codec.
// dataShards: number of data shards
// parityShards: number of parity shards (can lose up to this many)
func NewCodec(dataShards, parityShards int) (*Codec, error) {
	if dataShards <= 0 || parityShards <= 0 || dataShards > math.MaxUint8 ||
		parityShards > math.MaxUint8 || dataShards+parityShards > MaxShards {
		return nil, ErrInvalidConfig
	}
	enc, err := reedsolomon.New(dataShards, parityShards)
	if err != nil {
		return nil, err
	}
	return &Codec{
		enc:          enc,
		dataShards:   dataShards,
		parityShards: parityShards,
	}, nil
}

// DataShards returns the number of data shards.
func (c *Codec) DataShards() int { return c.dataShards }

// ParityShards returns the number of parity shards.
func (c *Codec) ParityShards() int { return c.parityShards }

// TotalShards returns the total number of shards (data + parity).
func (c *Codec) TotalShards() int { return c.dataShards + c.parityShards }

// Encode splits blob into TotalShards() shards.
func (c *Codec) Encode(blob []byte) ([]Shard, error) {
	if len(blob) == 0 {
		return nil, ErrEmptyInput
	}
	if uint64(len(blob)) > math.MaxUint32 {
		return nil, ErrInvalidConfig
	}
	// Split may reuse blob's spare capacity; hand it a private copy.
	raw, err := c.enc.Split(append([]byte(nil), blob...))
	if err != nil {
		return nil, err
	}
	if err := c.enc.Encode(raw); err != nil {
		return nil, err
	}
	shards := make([]Shard, len(raw))
	for i, b := range raw {
		shards[i] = Shard{
			Index:  i,
			Data:   c.dataShards,
			Parity: c.parityShards,
			Size:   len(blob),
			Bytes:  b,
		}
	}
	return shards, nil
}

// Decode rebuilds the blob from the shards that survived. shards may be
// in any order; lost shards are simply absent.
func (c *Codec) Decode(shards []Shard) ([]byte, error) {
	raw := make([][]byte, c.TotalShards())
	size := -1
	shardLen := -1
	for _, s := range shards {
		if s.Data != c.dataShards || s.Parity != c.parityShards ||
			s.Index < 0 || s.Index >= len(raw) {
			return nil, ErrShardMismatch
		}
		if size == -1 {
			size, shardLen = s.Size, len(s.Bytes)
		} else if s.Size != size || len(s.Bytes) != shardLen {
			return nil, ErrShardMismatch
		}
		raw[s.Index] = s.Bytes
	}
	if size == -1 {
		return nil, ErrTooManyLost
	}
	if size > shardLen*c.dataShards {
		return nil, ErrShardMismatch
	}

	if err := c.enc.ReconstructData(raw); err != nil {
		if errors.Is(err, reedsolomon.ErrTooFewShards) {
			return nil, ErrTooManyLost
		}
		return nil, err
	}

	data := make([]byte, 0, size)
	for i := 0; i < c.dataShards && len(data) < size; i++ {
		remaining := size - len(data)
		if remaining >= len(raw[i]) {
			data = append(data, raw[i]...)
		} else {
			data = append(data, raw[i][:remaining]...)
		}
	}
	return data, nil
}

// Overhead returns the storage overhead ratio (e.g., 1.5 for 4+2 config).
func (c *Codec) Overhead() float64 {
	return float64(c.TotalShards()) / float64(c.dataShards)
}
