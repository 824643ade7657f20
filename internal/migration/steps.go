package migration

import (
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// PhaseKind identifies one stage of the normalization pattern. Phases of a
// migration must follow the order schema -> backfill -> (relink ->
// constrain)? -> index; no stage may repeat or move backward.
type PhaseKind int

const (
	PhaseSchema PhaseKind = iota
	PhaseBackfill
	PhaseRelink
	PhaseConstrain
	PhaseIndex
)

func (k PhaseKind) String() string {
	switch k {
	case PhaseSchema:
		return "schema"
	case PhaseBackfill:
		return "backfill"
	case PhaseRelink:
		return "relink"
	case PhaseConstrain:
		return "constrain"
	case PhaseIndex:
		return "index"
	}
	return fmt.Sprintf("phase(%d)", int(k))
}

// Gate runs inside the migration transaction before a phase's statements
// execute. The constrain phase uses it as the resolve-all barrier:
// tightening to NOT NULL only happens once the gate has confirmed zero
// unresolved rows, making the ordering a structural guarantee instead of
// a script convention.
type Gate func(ctx context.Context, tx *sqlx.Tx) error

// Phase is an ordered batch of SQL statements with an optional gate.
type Phase struct {
	Kind       PhaseKind
	Name       string
	Statements []string
	Gate       Gate
}

// Migration is one forward-only, versioned normalization step. It is
// applied at most once and always inside a single transaction.
type Migration struct {
	Version string
	Name    string
	Phases  []Phase
}

// Validate checks the phase sequence against the state machine. The
// constrain phase is only legal directly after a relink phase, which is
// what makes the resolve-then-constrain ordering structural instead of a
// script-ordering convention.
func (m *Migration) Validate() error {
	if m.Version == "" {
		return fmt.Errorf("migration %q has no version", m.Name)
	}
	if len(m.Phases) == 0 {
		return fmt.Errorf("migration %s has no phases", m.Version)
	}
	prev := PhaseKind(-1)
	for i, p := range m.Phases {
		if len(p.Statements) == 0 && p.Gate == nil {
			return fmt.Errorf("migration %s phase %d (%s) is empty", m.Version, i, p.Kind)
		}
		if p.Kind < prev {
			return fmt.Errorf("migration %s: %s phase cannot follow %s", m.Version, p.Kind, prev)
		}
		if p.Kind == prev {
			return fmt.Errorf("migration %s: duplicate %s phase", m.Version, p.Kind)
		}
		if p.Kind == PhaseConstrain && prev != PhaseRelink {
			return fmt.Errorf("migration %s: constrain phase requires a preceding relink phase", m.Version)
		}
		prev = p.Kind
	}
	return nil
}

// Checksum fingerprints the migration's statements so the ledger can
// detect drift between recorded and current definitions.
func (m *Migration) Checksum() string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00", m.Version, m.Name)
	for _, p := range m.Phases {
		fmt.Fprintf(h, "%s\x00", p.Kind)
		for _, stmt := range p.Statements {
			h.Write([]byte(stmt))
			h.Write([]byte{0})
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
