// Package enrich defines the account-code enrichment contract applied after
// normalization. The engine emits lines with nil BP/GL codes; this stage
// looks the codes up in a master-data registry and fills them in. Filling is
// add-only: a code already present on a line is never overwritten.
package enrich

import (
	"context"
	"fmt"
	"sync"

	"github.com/tallyops/advicenorm/advice"
)

// TDSAccountKey is the fixed registry key for the withholding-tax GL
// account.
const TDSAccountKey = "TDS"

// Registry resolves account codes from master data. Implementations must be
// safe to call concurrently; one lookup per distinct legal entity suffices,
// so results are safe to cache.
type Registry interface {
	// BPCode returns the business-partner code for a legal entity.
	BPCode(ctx context.Context, legalEntityUUID string) (string, error)

	// GLCode returns the general-ledger code for a fixed account key.
	GLCode(ctx context.Context, key string) (string, error)
}

// Apply fills BP codes on business-partner lines and the TDS GL code on
// withholding lines, leaving any already-set codes untouched, and tags every
// line with its enrichment status. The input slice is not modified; the
// enriched copy is returned.
func Apply(ctx context.Context, reg Registry, legalEntityUUID string, lines []advice.Line) ([]advice.Line, error) {
	enriched := make([]advice.Line, len(lines))
	copy(enriched, lines)

	var bpCode string
	var bpErr error
	bpLooked := false

	for i := range enriched {
		line := &enriched[i]

		switch {
		case line.AccountType == advice.AccountBP && line.BPCode == nil:
			if !bpLooked {
				bpCode, bpErr = reg.BPCode(ctx, legalEntityUUID)
				bpLooked = true
			}
			if bpErr != nil || bpCode == "" {
				line.EnrichmentStatus = advice.EnrichmentPartial
				continue
			}
			code := bpCode
			line.BPCode = &code

		case line.AccountType == advice.AccountGL && line.DocType == advice.DocTypeTDS && line.GLCode == nil:
			glCode, err := reg.GLCode(ctx, TDSAccountKey)
			if err != nil || glCode == "" {
				line.EnrichmentStatus = advice.EnrichmentPartial
				continue
			}
			line.GLCode = &glCode
		}

		line.EnrichmentStatus = advice.EnrichmentComplete
	}

	if bpErr != nil {
		return enriched, fmt.Errorf("bp code lookup for entity %q: %w", legalEntityUUID, bpErr)
	}
	return enriched, nil
}

// MemoryRegistry is an in-memory Registry for tests and local runs.
type MemoryRegistry struct {
	mu sync.RWMutex
	bp map[string]string
	gl map[string]string
}

// NewMemoryRegistry creates an empty in-memory registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		bp: make(map[string]string),
		gl: make(map[string]string),
	}
}

// SetBPCode registers a business-partner code for a legal entity.
func (m *MemoryRegistry) SetBPCode(legalEntityUUID, code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bp[legalEntityUUID] = code
}

// SetGLCode registers a general-ledger code for an account key.
func (m *MemoryRegistry) SetGLCode(key, code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gl[key] = code
}

func (m *MemoryRegistry) BPCode(ctx context.Context, legalEntityUUID string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bp[legalEntityUUID], nil
}

func (m *MemoryRegistry) GLCode(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gl[key], nil
}

// Cached wraps a Registry with a memoizing layer so repeated lookups for the
// same entity or account key hit master data only once. Safe for concurrent
// use.
func Cached(reg Registry) Registry {
	return &cachedRegistry{next: reg, bp: make(map[string]string), gl: make(map[string]string)}
}

type cachedRegistry struct {
	next Registry
	mu   sync.Mutex
	bp   map[string]string
	gl   map[string]string
}

func (c *cachedRegistry) BPCode(ctx context.Context, legalEntityUUID string) (string, error) {
	c.mu.Lock()
	if code, ok := c.bp[legalEntityUUID]; ok {
		c.mu.Unlock()
		return code, nil
	}
	c.mu.Unlock()

	code, err := c.next.BPCode(ctx, legalEntityUUID)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.bp[legalEntityUUID] = code
	c.mu.Unlock()
	return code, nil
}

func (c *cachedRegistry) GLCode(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	if code, ok := c.gl[key]; ok {
		c.mu.Unlock()
		return code, nil
	}
	c.mu.Unlock()

	code, err := c.next.GLCode(ctx, key)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.gl[key] = code
	c.mu.Unlock()
	return code, nil
}
