package secsgem

import "testing"

func TestCommStateEstablishSuccess(t *testing.T) {
	sm := NewStateMachine(PreferRemote, nil)
	sm.Enable()
	if sm.Comm() != WaitCRFromHost {
		t.Fatalf("Comm() = %v, want WaitCRFromHost", sm.Comm())
	}
	sm.CommACKEstablished(0)
	if sm.Comm() != Communicating {
		t.Fatalf("Comm() = %v, want Communicating", sm.Comm())
	}
}

func TestCommStateEstablishFailureGoesToWaitDelay(t *testing.T) {
	sm := NewStateMachine(PreferRemote, nil)
	sm.Enable()
	sm.CommACKEstablished(1)
	if sm.Comm() != WaitDelay {
		t.Fatalf("Comm() = %v, want WaitDelay", sm.Comm())
	}
	sm.RetryAfterDelay()
	if sm.Comm() != WaitCRFromHost {
		t.Fatalf("Comm() = %v, want WaitCRFromHost after retry", sm.Comm())
	}
}

func TestControlStateAttemptOnlineSuccessPrefersRemote(t *testing.T) {
	sm := NewStateMachine(PreferRemote, nil)
	sm.BeginAttemptOnline()
	sm.AreYouThereAck(true)
	if sm.Control() != OnlineRemote {
		t.Fatalf("Control() = %v, want OnlineRemote", sm.Control())
	}
	if id := sm.ControlStateID(); id != 5 {
		t.Errorf("ControlStateID() = %d, want 5", id)
	}
}

func TestControlStateAttemptOnlineSuccessPrefersLocal(t *testing.T) {
	sm := NewStateMachine(PreferLocal, nil)
	sm.BeginAttemptOnline()
	sm.AreYouThereAck(true)
	if sm.Control() != OnlineLocal {
		t.Fatalf("Control() = %v, want OnlineLocal", sm.Control())
	}
}

func TestControlStateAttemptOnlineDenialGoesHostOffline(t *testing.T) {
	sm := NewStateMachine(PreferRemote, nil)
	sm.BeginAttemptOnline()
	sm.AreYouThereAck(false)
	if sm.Control() != HostOffline {
		t.Fatalf("Control() = %v, want HostOffline", sm.Control())
	}
}

func TestRequestOfflineFromOnline(t *testing.T) {
	sm := NewStateMachine(PreferRemote, nil)
	sm.BeginAttemptOnline()
	sm.AreYouThereAck(true)

	if oflack := sm.RequestOffline(); oflack != 0 {
		t.Errorf("OFLACK = %d, want 0", oflack)
	}
	if sm.Control() != HostOffline {
		t.Fatalf("Control() = %v, want HostOffline", sm.Control())
	}
}

func TestRequestOnlineFromHostOffline(t *testing.T) {
	sm := NewStateMachine(PreferRemote, nil)
	sm.BeginAttemptOnline()
	sm.AreYouThereAck(false) // -> HostOffline

	if onlack := sm.RequestOnline(); onlack != 0 {
		t.Errorf("ONLACK = %d, want 0", onlack)
	}
	if sm.Control() != OnlineRemote {
		t.Fatalf("Control() = %v, want OnlineRemote", sm.Control())
	}
}

func TestRequestOnlineAlreadyOnline(t *testing.T) {
	sm := NewStateMachine(PreferRemote, nil)
	sm.BeginAttemptOnline()
	sm.AreYouThereAck(true) // -> OnlineRemote

	if onlack := sm.RequestOnline(); onlack != 2 {
		t.Errorf("ONLACK = %d, want 2 (already online)", onlack)
	}
	if sm.Control() != OnlineRemote {
		t.Fatalf("Control() changed on an already-online request: %v", sm.Control())
	}
}
