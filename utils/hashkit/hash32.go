package hashkit

import (
	"errors"
	"hash/fnv"

	"github.com/aviddiviner/go-murmur"
)

type HashFn func([]byte) uint32

const (
	HashJenkins = "jenkins"
	HashFNV     = "fnv"
	HashMurmur  = "murmur"

	// MurmurSeed is fixed so shard placement is stable across restarts.
	MurmurSeed uint32 = 0x9747b28c
)

var ErrUnknownHash = errors.New("unknown hash function")

func FNV32(data []byte) uint32 {
	h := fnv.New32a()
	h.Write(data)
	return h.Sum32()
}

func Murmur32(data []byte) uint32 {
	h := murmur.New32(MurmurSeed)
	h.Write(data)
	return h.Sum32()
}

// ByName maps a flag value to its hash function. Empty means jenkins.
func ByName(name string) (HashFn, error) {
	switch name {
	case "", HashJenkins:
		return Jenkins, nil
	case HashFNV:
		return FNV32, nil
	case HashMurmur:
		return Murmur32, nil
	}
	return nil, ErrUnknownHash
}
