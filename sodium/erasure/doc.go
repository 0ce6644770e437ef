// Package erasure spreads a sealed envelope over Reed-Solomon shards.
//
// With 4 data shards and 2 parity shards, any 2 shards can be lost and the
// envelope is still fully recoverable. Shards carry no secrets of their own:
// integrity of the rebuilt blob is checked when the envelope is opened.
//
// This implementation uses the klauspost/reedsolomon library.
package erasure
