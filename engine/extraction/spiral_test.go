package extraction

import "testing"

func TestSpiralCoversSquareOnce(t *testing.T) {
	for radius := 0; radius <= 4; radius++ {
		columns := SpiralColumns(radius)
		side := 2*radius + 1
		if len(columns) != side*side {
			t.Fatalf("radius %d: %d columns", radius, len(columns))
		}
		seen := make(map[[2]int32]bool)
		lastRing := int32(0)
		for _, c := range columns {
			if seen[c] {
				t.Fatalf("radius %d: %v visited twice", radius, c)
			}
			seen[c] = true
			ring := max(abs32(c[0]), abs32(c[1]))
			if ring < lastRing {
				t.Fatalf("radius %d: %v breaks ring order", radius, c)
			}
			lastRing = ring
		}
	}
	if SpiralColumns(-1) != nil {
		t.Error("negative radius")
	}
}

func TestFloorDiv(t *testing.T) {
	for _, test := range [][3]int32{{5, 16, 0}, {-1, 16, -1}, {-16, 16, -1}, {-17, 16, -2}, {32, 16, 2}} {
		if got := floorDiv(test[0], test[1]); got != test[2] {
			t.Errorf("floorDiv(%d, %d) = %d, want %d", test[0], test[1], got, test[2])
		}
	}
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
