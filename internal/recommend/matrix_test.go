package recommend

import (
	"strings"
	"testing"
)

func TestReadMatrix(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantN   int
		wantErr string
	}{
		{
			name:  "valid square matrix",
			input: ",A,B,C\nA,1.0,0.8,0.2\nB,0.8,1.0,0.5\nC,0.2,0.5,1.0\n",
			wantN: 3,
		},
		{
			name:    "not square",
			input:   ",A,B,C\nA,1.0,0.8,0.2\nB,0.8,1.0,0.5\n",
			wantErr: "expected square",
		},
		{
			name:    "row column label mismatch",
			input:   ",A,B\nA,1.0,0.8\nC,0.8,1.0\n",
			wantErr: "label mismatch",
		},
		{
			name:    "non numeric cell",
			input:   ",A,B\nA,1.0,high\nB,0.8,1.0\n",
			wantErr: "bad score",
		},
		{
			name:    "duplicate code",
			input:   ",A,A\nA,1.0,0.8\nA,0.8,1.0\n",
			wantErr: "duplicate stock code",
		},
		{
			name:    "empty row label",
			input:   ",A,B\n,1.0,0.8\nB,0.8,1.0\n",
			wantErr: "empty stock code",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ReadMatrix(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				if err == nil {
					t.Fatal("expected error")
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error %q does not mention %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if m.Size() != tt.wantN {
				t.Errorf("size = %d, want %d", m.Size(), tt.wantN)
			}
		})
	}
}

func TestMatrixRow(t *testing.T) {
	m, err := ReadMatrix(strings.NewReader(",A,B\nA,1.0,0.8\nB,0.8,1.0\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	scores, err := m.Row("A")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scores[0] != 1.0 || scores[1] != 0.8 {
		t.Errorf("row A = %v, want [1.0 0.8]", scores)
	}

	if _, err := m.Row("Z"); err == nil {
		t.Fatal("expected error for unknown code")
	}

	// The returned slice is a copy; mutating it must not poison the matrix.
	scores[0] = -99
	again, _ := m.Row("A")
	if again[0] != 1.0 {
		t.Error("Row returned shared backing storage")
	}
}
