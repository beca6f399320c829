package chess

import "testing"

// https://www.chessprogramming.org/Perft_Results
func TestPerft(t *testing.T) {
	var tests = []struct {
		name  string
		fen   string
		depth int
		nodes uint64
	}{
		{"startpos d1", InitialPositionFEN, 1, 20},
		{"startpos d5", InitialPositionFEN, 5, 4865609},
		{"kiwipete d4", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 4, 4085603},
		{"position3 d6", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 6, 11030083},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPositionFromFEN(tt.fen)
			if err != nil {
				t.Fatalf("bad FEN: %v", err)
			}
			if got := Perft(p, tt.depth); got != tt.nodes {
				t.Errorf("Perft(%q, %d) = %d, want %d", tt.fen, tt.depth, got, tt.nodes)
			}
		})
	}
}

func TestPerftDeep(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping deep perft in short mode")
	}
	p := NewInitialPosition()
	if got := Perft(p, 6); got != 119060324 {
		t.Errorf("Perft(startpos, 6) = %d, want 119060324", got)
	}
}
