package secs2

// Stream 1: equipment status.
func init() {
	// S1F1 "Are You There" request — empty body.
	register(1, 1, true, ToEquipment, true, false, List())
	// S1F2 "On Line Data" — equipment identification; both fields are
	// required, so an empty S1F2 body does not validate.
	register(1, 2, false, ToHost, false, false, List(
		Leaf(FormatASCII).Named("MDLN"),
		Leaf(FormatASCII).Named("SOFTREV"),
	))

	// S1F13 Establish Communications Request.
	register(1, 13, true, ToEquipment, true, false, List(
		Leaf(FormatASCII).Named("MDLN"),
		Leaf(FormatASCII).Named("SOFTREV"),
	))
	// S1F14 Establish Communications Request Acknowledge.
	register(1, 14, false, ToHost, false, false, List(
		id().Named("COMMACK"),
		List(
			Leaf(FormatASCII).Named("MDLN"),
			Leaf(FormatASCII).Named("SOFTREV"),
		).Named("DATA"),
	))

	// S1F15 Request Offline.
	register(1, 15, true, ToEquipment, true, false, List())
	// S1F16 Request Offline Acknowledge.
	register(1, 16, false, ToHost, false, false, List(
		Leaf(FormatU1).Named("OFLACK"),
	))

	// S1F17 Request Online.
	register(1, 17, true, ToEquipment, true, false, List())
	// S1F18 Request Online Acknowledge.
	register(1, 18, false, ToHost, false, false, List(
		Leaf(FormatU1).Named("ONLACK"),
	))
}
