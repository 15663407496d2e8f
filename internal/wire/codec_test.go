package wire

import (
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	routes := []Route{
		{DestinationID: 3, NextHopID: 2, Metric: 2, LearnedFromID: 2},
		{DestinationID: 4, NextHopID: 5, Metric: 1, LearnedFromID: 5},
	}

	buf, err := Encode(1, 9, 1, routes)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if len(buf) != FrameSize {
		t.Fatalf("Encode() frame size = %d, want %d", len(buf), FrameSize)
	}

	got, err := Decode(buf, 2)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got.SenderID != 1 {
		t.Errorf("SenderID = %d, want 1", got.SenderID)
	}
	if len(got.Routes) != len(routes) {
		t.Fatalf("len(Routes) = %d, want %d", len(got.Routes), len(routes))
	}
}

func TestEncodePoisonedReverse(t *testing.T) {
	routes := []Route{{DestinationID: 3, NextHopID: 2, Metric: 2, LearnedFromID: 2}}

	toNeighbor, err := Encode(1, 2, 0, routes)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	toOther, err := Encode(1, 3, 0, routes)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	gotToNeighbor, err := Decode(toNeighbor, 2)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if gotToNeighbor.Routes[0].Metric != infinity {
		t.Errorf("metric to recipient=2 (next hop) = %d, want %d", gotToNeighbor.Routes[0].Metric, infinity)
	}

	gotToOther, err := Decode(toOther, 3)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if gotToOther.Routes[0].Metric != 2 {
		t.Errorf("metric to recipient=3 = %d, want 2", gotToOther.Routes[0].Metric)
	}
}

func TestEncodeOverflow(t *testing.T) {
	routes := make([]Route, maxEntries+1)
	if _, err := Encode(1, 2, 0, routes); err != ErrEncodeOverflow {
		t.Errorf("Encode() error = %v, want ErrEncodeOverflow", err)
	}
}

func TestDecodeRejections(t *testing.T) {
	base := func() []byte {
		buf, _ := Encode(1, 2, 0, nil)
		return buf
	}

	tests := []struct {
		name   string
		mutate func([]byte)
		selfID uint16
		reason RejectReason
	}{
		{
			name:   "bad command",
			mutate: func(b []byte) { b[0] = 1 },
			selfID: 2,
			reason: BadCommand,
		},
		{
			name:   "bad version",
			mutate: func(b []byte) { b[1] = 1 },
			selfID: 2,
			reason: BadVersion,
		},
		{
			name:   "self loop",
			mutate: func(b []byte) {},
			selfID: 1,
			reason: SelfLoop,
		},
		{
			name:   "nonzero reserved",
			mutate: func(b []byte) { b[7] = 1 },
			selfID: 2,
			reason: NonzeroReserved,
		},
		{
			name:   "bad metric",
			mutate: func(b []byte) { b[23] = 17 },
			selfID: 2,
			reason: BadMetric,
		},
		{
			name:   "truncated",
			mutate: func(b []byte) {},
			selfID: 2,
			reason: Truncated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := base()
			tt.mutate(buf)
			if tt.name == "truncated" {
				buf = buf[:10]
			}

			_, err := Decode(buf, tt.selfID)
			if err == nil {
				t.Fatalf("Decode() error = nil, want reject reason %s", tt.reason)
			}
			rej, ok := err.(*RejectError)
			if !ok {
				t.Fatalf("Decode() error type = %T, want *RejectError", err)
			}
			if rej.Reason != tt.reason {
				t.Errorf("Decode() reason = %s, want %s", rej.Reason, tt.reason)
			}
		})
	}
}

func TestDecodeAllowsInfinityMetric(t *testing.T) {
	buf, err := Encode(1, 2, infinity, nil)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if _, err := Decode(buf, 2); err != nil {
		t.Errorf("Decode() error = %v, want nil (metric 16 must be accepted for withdrawal advertisements)", err)
	}
}
