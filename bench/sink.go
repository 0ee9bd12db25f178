// Result persistence. Records are CBOR-encoded; each grid point produces one
// artifact under its composite-key name. Transport failures propagate to the
// sweeper and abort the run -- there is no retry logic, results already
// persisted remain available.

package bench

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fxamacker/cbor/v2"
	"github.com/go-redis/redis/v8"
)

// Sink receives one encoded result record per grid point.
type Sink interface {
	Save(name string, rec *Result) error
}

// EncodeResult serializes a result record to CBOR.
func EncodeResult(rec *Result) ([]byte, error) {
	return cbor.Marshal(rec)
}

// DecodeResult deserializes a CBOR-encoded result record.
func DecodeResult(data []byte) (*Result, error) {
	var rec Result
	if err := cbor.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding result record: %w", err)
	}
	return &rec, nil
}

// DirSink writes each record to a file in a local directory.
type DirSink struct {
	dir string
}

// NewDirSink creates the directory if needed.
func NewDirSink(dir string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating sink directory %s: %w", dir, err)
	}
	return &DirSink{dir: dir}, nil
}

func (s *DirSink) Save(name string, rec *Result) error {
	data, err := EncodeResult(rec)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// RedisSink stores each record under its artifact name in Redis.
type RedisSink struct {
	client *redis.Client
}

// NewRedisSink connects to the Redis instance at addr (host:port).
func NewRedisSink(addr string) *RedisSink {
	return &RedisSink{
		client: redis.NewClient(&redis.Options{
			Addr: addr,
		}),
	}
}

func (s *RedisSink) Save(name string, rec *Result) error {
	data, err := EncodeResult(rec)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	if err := s.client.Set(context.Background(), name, data, 0).Err(); err != nil {
		return fmt.Errorf("redis SET %s: %w", name, err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (s *RedisSink) Close() error {
	return s.client.Close()
}

// MirrorSink saves to a remote sink first, then mirrors a local copy.
// Either failure propagates.
type MirrorSink struct {
	Remote Sink
	Local  Sink
}

func (s *MirrorSink) Save(name string, rec *Result) error {
	if err := s.Remote.Save(name, rec); err != nil {
		return err
	}
	return s.Local.Save(name, rec)
}

// MemorySink retains records in save order. Test double.
type MemorySink struct {
	Names   []string
	Records []*Result
}

func (s *MemorySink) Save(name string, rec *Result) error {
	s.Names = append(s.Names, name)
	s.Records = append(s.Records, rec)
	return nil
}
