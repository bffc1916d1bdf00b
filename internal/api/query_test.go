package api

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/smokyabdulrahman/prayercalc/pkg/prayertimes"
)

func mustParams(t *testing.T, m prayertimes.Method, madhab prayertimes.Madhab, opts ...prayertimes.Option) prayertimes.Parameters {
	t.Helper()
	p, err := prayertimes.NewParameters(m, madhab, opts...)
	if err != nil {
		t.Fatalf("NewParameters: %v", err)
	}
	return p
}

func TestQueryFor(t *testing.T) {
	tests := []struct {
		name   string
		params prayertimes.Parameters
		want   Query
	}{
		{
			name:   "preset",
			params: mustParams(t, prayertimes.MuslimWorldLeague, prayertimes.Shafi),
			want:   Query{Method: 3, LatitudeAdjustment: 3},
		},
		{
			name:   "hanafi moonsighting",
			params: mustParams(t, prayertimes.MoonsightingCommittee, prayertimes.Hanafi),
			want:   Query{Method: 15, School: 1, LatitudeAdjustment: 2},
		},
		{
			name:   "overridden angle",
			params: mustParams(t, prayertimes.Egyptian, prayertimes.Shafi, prayertimes.WithFajrAngle(18)),
			want:   Query{Method: 99, MethodSettings: "18,null,17.5", LatitudeAdjustment: 3},
		},
		{
			name:   "other with interval",
			params: mustParams(t, prayertimes.Other, prayertimes.Shafi, prayertimes.WithFajrAngle(18.5), prayertimes.WithIshaInterval(90)),
			want:   Query{Method: 99, MethodSettings: "18.5,null,90 min", LatitudeAdjustment: 3},
		},
		{
			name: "user adjustments",
			params: mustParams(t, prayertimes.Tunisia, prayertimes.Shafi,
				prayertimes.WithHighLatitudeRule(prayertimes.MiddleOfTheNight),
				prayertimes.WithAdjustment(prayertimes.Fajr, 2),
				prayertimes.WithAdjustment(prayertimes.Isha, -1)),
			want: Query{Method: 18, LatitudeAdjustment: 1, Tune: "0,2,0,0,0,0,0,-1,0"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, QueryFor(tt.params)); diff != "" {
				t.Errorf("QueryFor() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMethodID(t *testing.T) {
	if _, ok := MethodID(prayertimes.Other); ok {
		t.Error("Other should have no Al Adhan id")
	}
	for _, m := range prayertimes.Methods() {
		if m == prayertimes.Other {
			continue
		}
		if _, ok := MethodID(m); !ok {
			t.Errorf("MethodID(%s) missing", m)
		}
	}
}
