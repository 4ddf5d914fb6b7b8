package secsgem

import "testing"

func TestDispatchUnknownRCMD(t *testing.T) {
	cat := NewCatalog()
	e := NewRemoteCommandEngine(cat)

	result, complete := e.Dispatch("BOGUS", nil)
	if result.HCACK != HCACKInvalidCommand {
		t.Errorf("HCACK = %d, want InvalidCommand", result.HCACK)
	}
	if complete != nil {
		t.Error("complete callback should be nil for an unknown command")
	}
}

func TestDispatchNoCallbackBound(t *testing.T) {
	cat := NewCatalog()
	cat.RegisterRemoteCommand(&RemoteCommand{RCMD: "PP_SELECT", ParamNames: []string{"PPName"}})
	e := NewRemoteCommandEngine(cat)

	result, _ := e.Dispatch("PP_SELECT", []CommandParam{{CPNAME: "PPName", CPVAL: "recipe1"}})
	if result.HCACK != HCACKInvalidCommand {
		t.Errorf("HCACK = %d, want InvalidCommand", result.HCACK)
	}
}

func TestDispatchUnknownCPNAME(t *testing.T) {
	cat := NewCatalog()
	called := false
	cat.RegisterRemoteCommand(&RemoteCommand{
		RCMD: "PP_SELECT", ParamNames: []string{"PPName"},
		Callback: func(args ...any) any { called = true; return nil },
	})
	e := NewRemoteCommandEngine(cat)

	result, complete := e.Dispatch("PP_SELECT", []CommandParam{{CPNAME: "BOGUS", CPVAL: "x"}})
	if result.HCACK != HCACKParameterInvalid {
		t.Errorf("HCACK = %d, want ParameterInvalid", result.HCACK)
	}
	if len(result.CPACKs) != 1 || result.CPACKs[0] != CPACKUnknownCPNAME {
		t.Errorf("CPACKs = %v, want [UnknownCPNAME]", result.CPACKs)
	}
	if complete != nil {
		complete()
	}
	if called {
		t.Error("callback invoked despite an invalid parameter")
	}
}

func TestDispatchNormalFlowCompletesAndTriggers(t *testing.T) {
	cat := NewCatalog()
	cat.RegisterCE(&CollectionEvent{ID: "PP_SELECTED"})
	var gotArgs []any
	cat.RegisterRemoteCommand(&RemoteCommand{
		RCMD: "PP_SELECT", ParamNames: []string{"PPName"}, CompletionCE: "PP_SELECTED",
		Callback: func(args ...any) any { gotArgs = args; return nil },
	})
	e := NewRemoteCommandEngine(cat)
	triggered := ""
	e.BindTrigger(func(ceID ID) error { triggered = ceID.(string); return nil })

	result, complete := e.Dispatch("PP_SELECT", []CommandParam{{CPNAME: "PPName", CPVAL: "recipe1"}})
	if result.HCACK != HCACKAckFinishLater {
		t.Fatalf("HCACK = %d, want AckFinishLater", result.HCACK)
	}
	if complete == nil {
		t.Fatal("complete callback is nil for a valid command")
	}
	complete()

	if len(gotArgs) != 2 || gotArgs[0] != "PPName" || gotArgs[1] != "recipe1" {
		t.Errorf("gotArgs = %v", gotArgs)
	}
	if triggered != "PP_SELECTED" {
		t.Errorf("triggered = %q, want PP_SELECTED", triggered)
	}
}

func TestDispatchReservedStartStopSkipCallback(t *testing.T) {
	cat := NewCatalog()
	e := NewRemoteCommandEngine(cat)
	triggered := ""
	e.BindTrigger(func(ceID ID) error { triggered = ceID.(string); return nil })

	result, complete := e.Dispatch(RCMDStart, nil)
	if result.HCACK != HCACKOK {
		t.Fatalf("HCACK = %d, want OK", result.HCACK)
	}
	complete()
	if triggered != IDCmdStartDone {
		t.Errorf("triggered = %q, want %q", triggered, IDCmdStartDone)
	}

	result, complete = e.Dispatch(RCMDStop, nil)
	if result.HCACK != HCACKOK {
		t.Fatalf("HCACK = %d, want OK", result.HCACK)
	}
	complete()
	if triggered != IDCmdStopDone {
		t.Errorf("triggered = %q, want %q", triggered, IDCmdStopDone)
	}
}
