package migration

import (
	"strings"
	"testing"
)

func phase(kind PhaseKind, stmts ...string) Phase {
	if len(stmts) == 0 {
		stmts = []string{"SELECT 1"}
	}
	return Phase{Kind: kind, Statements: stmts}
}

func TestMigrationValidate(t *testing.T) {
	tests := []struct {
		name    string
		m       Migration
		wantErr string
	}{
		{
			name: "full normalization shape",
			m: Migration{Version: "010", Name: "ok", Phases: []Phase{
				phase(PhaseSchema),
				phase(PhaseBackfill),
				phase(PhaseRelink),
				{Kind: PhaseConstrain, Gate: unresolvedCreatorsGate, Statements: []string{"SELECT 1"}},
				phase(PhaseIndex),
			}},
		},
		{
			name: "schema only",
			m:    Migration{Version: "010", Name: "ok", Phases: []Phase{phase(PhaseSchema)}},
		},
		{
			name:    "missing version",
			m:       Migration{Name: "anon", Phases: []Phase{phase(PhaseSchema)}},
			wantErr: "no version",
		},
		{
			name:    "no phases",
			m:       Migration{Version: "010", Name: "empty"},
			wantErr: "no phases",
		},
		{
			name: "backfill before schema",
			m: Migration{Version: "010", Name: "bad", Phases: []Phase{
				phase(PhaseBackfill),
				phase(PhaseSchema),
			}},
			wantErr: "cannot follow",
		},
		{
			name: "duplicate phase kind",
			m: Migration{Version: "010", Name: "bad", Phases: []Phase{
				phase(PhaseSchema),
				phase(PhaseSchema),
			}},
			wantErr: "duplicate",
		},
		{
			name: "constrain without relink",
			m: Migration{Version: "010", Name: "bad", Phases: []Phase{
				phase(PhaseSchema),
				phase(PhaseBackfill),
				phase(PhaseConstrain),
			}},
			wantErr: "requires a preceding relink",
		},
		{
			name: "index before backfill",
			m: Migration{Version: "010", Name: "bad", Phases: []Phase{
				phase(PhaseSchema),
				phase(PhaseIndex),
				phase(PhaseBackfill),
			}},
			wantErr: "cannot follow",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.m.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestMigrationChecksum(t *testing.T) {
	a := Migration{Version: "001", Name: "x", Phases: []Phase{phase(PhaseSchema, "CREATE TABLE t (id INT)")}}
	b := Migration{Version: "001", Name: "x", Phases: []Phase{phase(PhaseSchema, "CREATE TABLE t (id INT)")}}
	c := Migration{Version: "001", Name: "x", Phases: []Phase{phase(PhaseSchema, "CREATE TABLE t (id BIGINT)")}}

	if a.Checksum() != b.Checksum() {
		t.Error("identical migrations should share a checksum")
	}
	if a.Checksum() == c.Checksum() {
		t.Error("changed statement should change the checksum")
	}
}

func TestNewRunnerRejectsBadSequences(t *testing.T) {
	ok := &Migration{Version: "001", Name: "a", Phases: []Phase{phase(PhaseSchema)}}

	if _, err := NewRunner(nil, []*Migration{ok, ok}); err == nil {
		t.Error("duplicate versions should be rejected")
	}

	later := &Migration{Version: "002", Name: "b", Phases: []Phase{phase(PhaseSchema)}}
	if _, err := NewRunner(nil, []*Migration{later, ok}); err == nil {
		t.Error("out-of-order versions should be rejected")
	}

	if _, err := NewRunner(nil, []*Migration{ok, later}); err != nil {
		t.Errorf("valid sequence rejected: %v", err)
	}
}

func TestNormalizationBackfillsGuardUnnests(t *testing.T) {
	// A stored JSON null passes IS NOT NULL, and jsonb_array_elements
	// errors on any scalar. Every unnesting backfill must select on
	// jsonb_typeof so such rows are skipped, matching the replay's
	// zero-row treatment.
	for _, m := range Normalization() {
		for _, p := range m.Phases {
			if p.Kind != PhaseBackfill {
				continue
			}
			for _, stmt := range p.Statements {
				if strings.Contains(stmt, "jsonb_array_elements") && !strings.Contains(stmt, "jsonb_typeof") {
					t.Errorf("%s backfill unnests without a jsonb_typeof guard:\n%s", m.Name, stmt)
				}
				if strings.Contains(stmt, "IS NOT NULL") {
					t.Errorf("%s backfill filters on IS NOT NULL, which passes JSON null:\n%s", m.Name, stmt)
				}
			}
		}
	}
}

func TestNormalizationSequenceIsValid(t *testing.T) {
	migrations := Normalization()
	if _, err := NewRunner(nil, migrations); err != nil {
		t.Fatalf("normalization sequence invalid: %v", err)
	}

	// The creators migration carries the resolve-then-constrain barrier.
	var creatorsMigration *Migration
	for _, m := range migrations {
		if m.Name == "creators" {
			creatorsMigration = m
		}
	}
	if creatorsMigration == nil {
		t.Fatal("creators migration missing from sequence")
	}

	var hasConstrainGate bool
	for _, p := range creatorsMigration.Phases {
		if p.Kind == PhaseConstrain && p.Gate != nil {
			hasConstrainGate = true
		}
	}
	if !hasConstrainGate {
		t.Error("creators constrain phase must carry the resolve-all gate")
	}
}
