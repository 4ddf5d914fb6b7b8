package secs2

// Stream 10: terminal services.
func init() {
	// S10F1 Terminal Request / Display.
	register(10, 1, true, ToHost, true, false, List(
		Leaf(FormatU1).Named("TID"),
		Leaf(FormatASCII).Named("TEXT"),
	))
	// S10F2 Terminal Request Acknowledge.
	register(10, 2, false, ToEquipment, false, false, List(
		Leaf(FormatU1).Named("ACK10"),
	))
}
