package ledger

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"sync"

	"golang.org/x/crypto/sha3"

	domain "github.com/Hoblayerta/Loudao.aleph/internal/domain/ledger"
	"github.com/Hoblayerta/Loudao.aleph/internal/domain/reports"
)

// Memory simulates the report contract in process: sequential ids from 1,
// per-aggressor counters and global counters updated on every append.
type Memory struct {
	mu       sync.RWMutex
	nextID   uint64
	perName  map[string]int
	patterns int
	// Address reported when the entry carries none.
	Address string
}

func NewMemory(address string) *Memory {
	return &Memory{nextID: 1, perName: make(map[string]int), Address: address}
}

func (m *Memory) Append(_ context.Context, e domain.Entry) (domain.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	key := reports.NormalizeName(e.AggressorName)
	m.perName[key]++
	if m.perName[key] == 2 {
		m.patterns++
	}

	addr := e.ReporterAddress
	if addr == "" {
		addr = m.Address
	}
	return domain.Receipt{
		LedgerID:        id,
		TransactionHash: entryHash(id, e),
		ReporterAddress: addr,
	}, nil
}

func (m *Memory) CountForAggressor(_ context.Context, name string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.perName[reports.NormalizeName(name)], nil
}

func (m *Memory) Stats(context.Context) (domain.Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return domain.Stats{
		TotalReports:     int(m.nextID - 1),
		UniqueAggressors: len(m.perName),
		PatternsDetected: m.patterns,
	}, nil
}

// entryHash is the Keccak-256 of the id and the entry's fields.
func entryHash(id uint64, e domain.Entry) string {
	h := sha3.NewLegacyKeccak256()
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], id)
	h.Write(buf[:])
	for _, s := range []string{e.AggressorName, e.Institution, e.Description, e.City, e.ReporterAddress} {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	binary.BigEndian.PutUint64(buf[:], uint64(e.IncidentYear))
	h.Write(buf[:])
	h.Write(e.Envelope)
	return "0x" + hex.EncodeToString(h.Sum(nil))
}
