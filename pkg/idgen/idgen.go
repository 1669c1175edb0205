package idgen

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"time"

	"github.com/sirupsen/logrus"
)

// Generator hands out ids for new store records.
type Generator interface {
	Generate() string
}

// ObjectIdGenerator produces 24-hex-char ids of the same shape as the ids
// already in the store (4 byte unix time followed by 8 random bytes), so new
// apps and releases collate alongside records created by the legacy portal.
type ObjectIdGenerator struct{}

func New() *ObjectIdGenerator {
	return &ObjectIdGenerator{}
}

func (g *ObjectIdGenerator) Generate() string {
	var buf [12]byte
	binary.BigEndian.PutUint32(buf[0:4], uint32(time.Now().Unix()))
	if _, err := rand.Read(buf[4:]); err != nil {
		// crypto/rand failing is not something we can recover from here
		logrus.Error(err)
		panic(err)
	}

	return hex.EncodeToString(buf[:])
}
