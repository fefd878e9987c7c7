package analysis

import "testing"

func TestTRIMP(t *testing.T) {
	athlete := Athlete{MaxHR: 185, RestingHR: 50}

	tests := []struct {
		name     string
		duration float64
		avgHR    float64
		athlete  Athlete
		want     *int
	}{
		{
			// 74.07% of reserve lands in the 70-80 band, coefficient 3:
			// 60 minutes * 3 = 180.
			name:     "one hour at 150bpm",
			duration: 3600,
			avgHR:    150,
			athlete:  athlete,
			want:     intp(180),
		},
		{
			name:     "missing athlete constants",
			duration: 3600,
			avgHR:    150,
			athlete:  Athlete{},
			want:     nil,
		},
		{
			name:     "resting only",
			duration: 3600,
			avgHR:    150,
			athlete:  Athlete{RestingHR: 50},
			want:     nil,
		},
		{
			name:     "inverted constants",
			duration: 3600,
			avgHR:    150,
			athlete:  Athlete{MaxHR: 50, RestingHR: 185},
			want:     nil,
		},
		{
			name:     "no heart rate",
			duration: 3600,
			avgHR:    0,
			athlete:  athlete,
			want:     nil,
		},
		{
			// 90% reserve boundary is inclusive for the top coefficient.
			name:     "top band boundary",
			duration: 1800,
			avgHR:    171.5,
			athlete:  athlete,
			want:     intp(150),
		},
		{
			// Below resting the reserve fraction goes negative; the bottom
			// coefficient still applies, no clamping.
			name:     "below resting heart rate",
			duration: 600,
			avgHR:    40,
			athlete:  athlete,
			want:     intp(10),
		},
		{
			name:     "above max heart rate",
			duration: 600,
			avgHR:    200,
			athlete:  athlete,
			want:     intp(50),
		},
		{
			name:     "zero duration",
			duration: 0,
			avgHR:    150,
			athlete:  athlete,
			want:     intp(0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TRIMP(tt.duration, tt.avgHR, tt.athlete)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("TRIMP() = %d, want nil", *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("TRIMP() = nil, want %d", *tt.want)
			}
			if *got != *tt.want {
				t.Errorf("TRIMP() = %d, want %d", *got, *tt.want)
			}
		})
	}
}

func TestTRIMPDeterminism(t *testing.T) {
	athlete := Athlete{MaxHR: 185, RestingHR: 50}
	first := TRIMP(3600, 150, athlete)
	for i := 0; i < 10; i++ {
		got := TRIMP(3600, 150, athlete)
		if got == nil || first == nil || *got != *first {
			t.Fatalf("TRIMP not deterministic: got %v, want %v", got, first)
		}
	}
}

func intp(v int) *int { return &v }
