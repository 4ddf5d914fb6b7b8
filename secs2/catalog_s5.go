package secs2

// Stream 5: alarms.
func init() {
	alarmEntry := List(
		Leaf(FormatU1).Named("ALCD"),
		id().Named("ALID"),
		Leaf(FormatASCII).Named("ALTX"),
	)

	// S5F1 Alarm Report Send.
	register(5, 1, true, ToHost, true, false, alarmEntry)
	// S5F2 Alarm Report Acknowledge.
	register(5, 2, false, ToEquipment, false, false, List(
		Leaf(FormatU1).Named("ACKC5"),
	))

	// S5F3 En-/Disable Alarm Send.
	register(5, 3, true, ToEquipment, true, false, List(
		Leaf(FormatBoolean).Counted(1).Named("ALED"),
		id().Named("ALID"),
	))
	// S5F4 En-/Disable Alarm Acknowledge.
	register(5, 4, false, ToHost, false, false, List(
		Leaf(FormatU1).Named("ACKC5"),
	))

	// S5F5 List Alarms Request — empty list selects all.
	register(5, 5, true, ToEquipment, true, false,
		Repeating("ALID", id()))
	// S5F6 List Alarms Data.
	register(5, 6, false, ToHost, false, false,
		Repeating("DATA", alarmEntry))

	// S5F7 List Enabled Alarm Request — no payload.
	register(5, 7, true, ToEquipment, true, false, List())
	// S5F8 List Enabled Alarm Data.
	register(5, 8, false, ToHost, false, false,
		Repeating("DATA", alarmEntry))
}
