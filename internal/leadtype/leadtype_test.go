package leadtype

import "testing"

func TestParseKnownTypes(t *testing.T) {
	for _, typ := range All() {
		parsed, err := Parse(string(typ))
		if err != nil {
			t.Fatalf("Parse(%q) returned error: %v", typ, err)
		}
		if parsed != typ {
			t.Fatalf("Parse(%q) = %q, want %q", typ, parsed, typ)
		}
	}
}

func TestParseUnknownType(t *testing.T) {
	cases := []string{"", "spam", "Agent_Contact", "agent-contact", "general_inquiry "}
	for _, key := range cases {
		if _, err := Parse(key); err == nil {
			t.Fatalf("Parse(%q) succeeded, want error", key)
		}
	}
}

func TestConfigDefaults(t *testing.T) {
	tests := []struct {
		typ           Type
		status        Status
		priority      Priority
		requiresAgent bool
	}{
		{AgentContact, StatusNew, PriorityHigh, true},
		{GeneralInquiry, StatusNew, PriorityNormal, false},
		{ListingInquiry, StatusNew, PriorityHigh, false},
		{EventRSVP, StatusNew, PriorityLow, false},
	}

	for _, tt := range tests {
		cfg := tt.typ.Config()
		if cfg.DefaultStatus != tt.status {
			t.Errorf("%s: DefaultStatus = %q, want %q", tt.typ, cfg.DefaultStatus, tt.status)
		}
		if cfg.DefaultPriority != tt.priority {
			t.Errorf("%s: DefaultPriority = %q, want %q", tt.typ, cfg.DefaultPriority, tt.priority)
		}
		if cfg.RequiresAgent != tt.requiresAgent {
			t.Errorf("%s: RequiresAgent = %v, want %v", tt.typ, cfg.RequiresAgent, tt.requiresAgent)
		}
	}
}

func TestConfigComplete(t *testing.T) {
	for _, typ := range All() {
		cfg := typ.Config()
		if cfg.Source == "" {
			t.Errorf("%s: empty Source", typ)
		}
		if cfg.Template == "" {
			t.Errorf("%s: empty Template", typ)
		}
	}
}
