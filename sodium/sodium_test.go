package sodium

import "testing"

func TestInit(t *testing.T) {
	st, err := Init()
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if st != StatusOK && st != StatusAlreadyInitialized {
		t.Fatalf("unexpected status %v", st)
	}

	st, err = Init()
	if err != nil {
		t.Fatalf("second Init: %v", err)
	}
	if st != StatusAlreadyInitialized {
		t.Fatalf("second Init status = %v, want %v", st, StatusAlreadyInitialized)
	}
}

func TestMustInit(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("MustInit panicked: %v", r)
		}
	}()
	MustInit()
}

func TestStatusString(t *testing.T) {
	tests := map[Status]string{
		StatusOK:                 "ok",
		StatusAlreadyInitialized: "already initialized",
		StatusFailed:             "failed",
		Status(42):               "unknown",
	}
	for st, want := range tests {
		if got := st.String(); got != want {
			t.Errorf("Status(%d).String() = %q, want %q", int(st), got, want)
		}
	}
}

func TestVersion(t *testing.T) {
	v := Version()
	if v.Version == "" || v.OS == "" || v.Arch == "" {
		t.Fatalf("incomplete version info: %+v", v)
	}
	if v.Tags["backend"] != Backend() {
		t.Fatalf("backend tag = %q, want %q", v.Tags["backend"], Backend())
	}
	if v.Tags["go"] == "" {
		t.Fatalf("missing go tag")
	}
}
