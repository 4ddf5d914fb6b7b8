package secs2

// Stream 7: process program management (the minimal subset section 6
// names — delete and current-EPPD listing only, no program transfer).
func init() {
	// S7F17 Delete Process Program Send.
	register(7, 17, true, ToEquipment, true, false,
		Repeating("PPID", Leaf(FormatASCII)))
	// S7F18 Delete Process Program Acknowledge.
	register(7, 18, false, ToHost, false, false, List(
		Leaf(FormatU1).Named("ACKC7"),
	))

	// S7F19 Current EPPD Request — no payload.
	register(7, 19, true, ToEquipment, true, false, List())
	// S7F20 Current EPPD Data.
	register(7, 20, false, ToHost, false, false,
		Repeating("PPID", Leaf(FormatASCII)))
}
