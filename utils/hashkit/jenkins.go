package hashkit

import "hash"

const (
	DefaultSum32 = 0
)

// sum32 is Bob Jenkins' one-at-a-time hash. Writes are incremental, the
// final avalanche is applied in Sum32.
type sum32 uint32

func (s *sum32) BlockSize() int { return 1 }
func (s *sum32) Reset()         { *s = DefaultSum32 }
func (s *sum32) Size() int      { return 4 }
func (s *sum32) Sum(in []byte) []byte {
	v := s.Sum32()
	return append(in, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

func (s *sum32) Sum32() uint32 {
	hash := uint32(*s)
	hash += hash << 3
	hash ^= hash >> 11
	hash += hash << 15
	return hash
}

func (s *sum32) Write(data []byte) (int, error) {
	hash := uint32(*s)
	for _, b := range data {
		hash += uint32(b)
		hash += hash << 10
		hash ^= hash >> 6
	}
	*s = sum32(hash)
	return len(data), nil
}

func NewJenkins32() hash.Hash32 {
	var s sum32 = DefaultSum32
	return &s
}

func Jenkins(data []byte) uint32 {
	s := sum32(DefaultSum32)
	s.Write(data)
	return s.Sum32()
}

func JenkinsString(data string) uint32 {
	return Jenkins([]byte(data))
}
