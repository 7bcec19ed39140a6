package artifact

import "testing"

func TestParseRunName(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		rep  int
		ok   bool
	}{
		{"70_16-16_1", Config{70, 16, 16}, 1, true},
		{"100_24-48_3", Config{100, 24, 48}, 3, true},
		{"70_16-16", Config{}, 0, false},
		{"metrics_70_16-16_1_2", Config{}, 0, false},
		{"notes.txt", Config{}, 0, false},
		{"", Config{}, 0, false},
	}

	for _, tc := range cases {
		cfg, rep, ok := ParseRunName(tc.name)
		if ok != tc.ok {
			t.Errorf("ParseRunName(%q) ok = %v, want %v", tc.name, ok, tc.ok)
			continue
		}
		if cfg != tc.cfg || rep != tc.rep {
			t.Errorf("ParseRunName(%q) = %v rep %d, want %v rep %d", tc.name, cfg, rep, tc.cfg, tc.rep)
		}
	}
}

func TestParseTelemetryName(t *testing.T) {
	cfg, rep, sample, ok := ParseTelemetryName("metrics_70_16-16_2_5")
	if !ok {
		t.Fatal("expected telemetry name to parse")
	}
	if (cfg != Config{70, 16, 16}) || rep != 2 || sample != 5 {
		t.Errorf("got %v rep %d sample %d", cfg, rep, sample)
	}

	if _, _, _, ok := ParseTelemetryName("70_16-16_2"); ok {
		t.Error("run name should not parse as telemetry")
	}
	if _, _, _, ok := ParseTelemetryName("metrics_70_16-16_2"); ok {
		t.Error("telemetry name without sample index should not parse")
	}
}

func TestConfigKey(t *testing.T) {
	c := Config{Clients: 70, Nodes: 16, Shards: 32}
	if got := c.Key(); got != "70_16-32" {
		t.Errorf("Key() = %q, want 70_16-32", got)
	}
}

func TestConfigLess(t *testing.T) {
	a := Config{60, 16, 16}
	b := Config{70, 8, 8}
	c := Config{70, 16, 8}
	if !a.Less(b) || b.Less(a) {
		t.Error("clients should order first")
	}
	if !b.Less(c) {
		t.Error("nodes should break client ties")
	}
}
