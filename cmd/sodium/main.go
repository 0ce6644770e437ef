// Command sodium seals and opens files with XChaCha20-Poly1305 envelopes.
//
// Usage:
//
//	sodium keygen
//	sodium seal  [-key hex] [-in file] [-out file] [-ad text] [-compress level]
//	sodium open  [-key hex] [-in file] [-out file] [-ad text] [-max-size n]
//	sodium split [-in file] -out prefix [-data n] [-parity n]
//	sodium join  [-out file] [-data n] [-parity n] shard...
//	sodium version
//
// join takes the shard layout from the first readable shard; -data and
// -parity only need to be given to insist on a particular layout.
//
// The key defaults to $SODIUM_KEY; a .env file in the working directory is
// loaded first when present.
package main

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"sort"

	"github.com/joho/godotenv"

	"github.com/TheusHen/sodium/sodium"
	"github.com/TheusHen/sodium/sodium/crypto/aead"
	"github.com/TheusHen/sodium/sodium/envelope"
	"github.com/TheusHen/sodium/sodium/erasure"
)

const keyEnv = "SODIUM_KEY"

func main() {
	log.SetFlags(0)
	log.SetPrefix("sodium: ")

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("unable to load .env: %v", err)
	}
	if len(os.Args) < 2 {
		usage()
	}
	if _, err := sodium.Init(); err != nil {
		log.Fatalf("%v", err)
	}

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "keygen":
		err = runKeygen()
	case "seal":
		err = runSeal(args)
	case "open":
		err = runOpen(args)
	case "split":
		err = runSplit(args)
	case "join":
		err = runJoin(args)
	case "version":
		runVersion()
	default:
		usage()
	}
	if err != nil {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: sodium keygen|seal|open|split|join|version [flags]")
	os.Exit(2)
}

func runKeygen() error {
	key, err := aead.GenerateKey()
	if err != nil {
		return err
	}
	fmt.Println(hex.EncodeToString(key))
	return nil
}

func runVersion() {
	v := sodium.Version()
	fmt.Printf("backend %s %s (%s/%s)\n", sodium.Backend(), v.Version, v.OS, v.Arch)
	keys := make([]string, 0, len(v.Tags))
	for k := range v.Tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %s=%s\n", k, v.Tags[k])
	}
}

func loadKey(flagValue string) ([]byte, error) {
	s := flagValue
	if s == "" {
		s = os.Getenv(keyEnv)
	}
	if s == "" {
		return nil, fmt.Errorf("no key: pass -key or set %s", keyEnv)
	}
	key, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode key: %w", err)
	}
	if len(key) != aead.KeyBytes {
		return nil, aead.ErrInvalidKeySize
	}
	return key, nil
}

func parseLevel(s string) (envelope.CompressionLevel, error) {
	switch s {
	case "none":
		return envelope.CompressionNone, nil
	case "fast":
		return envelope.CompressionFast, nil
	case "default", "":
		return envelope.CompressionDefault, nil
	case "best":
		return envelope.CompressionBest, nil
	}
	return 0, fmt.Errorf("unknown compression level %q", s)
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func runSeal(args []string) error {
	fl := flag.NewFlagSet("seal", flag.ExitOnError)
	keyHex := fl.String("key", "", "hex-encoded 32-byte key (default $"+keyEnv+")")
	in := fl.String("in", "", "input file (default stdin)")
	out := fl.String("out", "", "output file (default stdout)")
	ad := fl.String("ad", "", "additional authenticated data")
	level := fl.String("compress", "default", "compression: none, fast, default, best")
	minSize := fl.Int("min-compress", 64, "skip compression below this many bytes")
	_ = fl.Parse(args)

	key, err := loadKey(*keyHex)
	if err != nil {
		return err
	}
	lvl, err := parseLevel(*level)
	if err != nil {
		return err
	}
	data, err := readInput(*in)
	if err != nil {
		return err
	}
	sealed, err := envelope.Seal(key, data, []byte(*ad), envelope.Options{Compression: lvl, MinCompressSize: *minSize})
	if err != nil {
		return err
	}
	return writeOutput(*out, sealed)
}

func runOpen(args []string) error {
	fl := flag.NewFlagSet("open", flag.ExitOnError)
	keyHex := fl.String("key", "", "hex-encoded 32-byte key (default $"+keyEnv+")")
	in := fl.String("in", "", "input file (default stdin)")
	out := fl.String("out", "", "output file (default stdout)")
	ad := fl.String("ad", "", "additional authenticated data")
	maxSize := fl.Int("max-size", 1<<30, "refuse payloads larger than this many bytes")
	_ = fl.Parse(args)

	key, err := loadKey(*keyHex)
	if err != nil {
		return err
	}
	sealed, err := readInput(*in)
	if err != nil {
		return err
	}
	plain, err := envelope.Open(key, sealed, []byte(*ad), envelope.OpenOptions{MaxSize: *maxSize})
	if err != nil {
		return err
	}
	return writeOutput(*out, plain)
}

func runSplit(args []string) error {
	fl := flag.NewFlagSet("split", flag.ExitOnError)
	in := fl.String("in", "", "sealed envelope (default stdin)")
	prefix := fl.String("out", "", "shard file prefix; shards are written to prefix.N")
	data := fl.Int("data", 4, "data shards")
	parity := fl.Int("parity", 2, "parity shards")
	_ = fl.Parse(args)

	if *prefix == "" {
		return errors.New("-out is required")
	}
	codec, err := erasure.NewCodec(*data, *parity)
	if err != nil {
		return err
	}
	blob, err := readInput(*in)
	if err != nil {
		return err
	}
	shards, err := codec.Encode(blob)
	if err != nil {
		return err
	}
	for _, s := range shards {
		name := fmt.Sprintf("%s.%d", *prefix, s.Index)
		if err := os.WriteFile(name, s.Marshal(), 0o600); err != nil {
			return err
		}
		log.Printf("wrote %s (%d bytes)", name, len(s.Bytes))
	}
	return nil
}

func runJoin(args []string) error {
	fl := flag.NewFlagSet("join", flag.ExitOnError)
	out := fl.String("out", "", "output file (default stdout)")
	data := fl.Int("data", 0, "data shards (default: read from the shard headers)")
	parity := fl.Int("parity", 0, "parity shards (default: read from the shard headers)")
	_ = fl.Parse(args)

	var shards []erasure.Shard
	for _, path := range fl.Args() {
		b, err := os.ReadFile(path)
		if err != nil {
			log.Printf("skipping %s: %v", path, err)
			continue
		}
		s, err := erasure.UnmarshalShard(b)
		if err != nil {
			log.Printf("skipping %s: %v", path, err)
			continue
		}
		shards = append(shards, s)
	}
	if len(shards) == 0 {
		return erasure.ErrTooManyLost
	}
	if *data == 0 {
		*data = shards[0].Data
	}
	if *parity == 0 {
		*parity = shards[0].Parity
	}

	codec, err := erasure.NewCodec(*data, *parity)
	if err != nil {
		return err
	}
	blob, err := codec.Decode(shards)
	if err != nil {
		return err
	}
	return writeOutput(*out, blob)
}
